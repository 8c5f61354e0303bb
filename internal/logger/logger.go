package logger

import (
    "io"
    "os"
    "time"

    "github.com/natefinch/lumberjack"
    logrus "github.com/sirupsen/logrus"
)

// Setup points Logrus at stdout plus a rotating file and returns that
// writer so the request logger can share it.
func Setup(filename, level string) io.Writer {
    // 1) Lumberjack for file rotation
    rotator := &lumberjack.Logger{
        Filename:   filename,
        MaxSize:    10,  // megabytes
        MaxBackups: 7,   // keep up to 7 old files
        MaxAge:     7,   // days
        Compress:   true,
    }
    out := io.MultiWriter(os.Stdout, rotator)

    // 2) Configure Logrus to write to both
    logrus.SetOutput(out)
    logrus.SetFormatter(&logrus.TextFormatter{
        FullTimestamp:   true,
        TimestampFormat: time.RFC3339,
    })

    lvl, err := logrus.ParseLevel(level)
    if err != nil {
        logrus.WithField("level", level).Warn("Unknown log level, falling back to info")
        lvl = logrus.InfoLevel
    }
    logrus.SetLevel(lvl)

    return out
}
