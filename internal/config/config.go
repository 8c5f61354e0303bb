package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the server settings read from the environment.
type Config struct {
	Port          string
	LogFile       string
	LogLevel      string
	GinMode       string
	StoreCapacity int
	HubBuffer     int
}

// TrackerConfig holds the headless tracking client settings.
type TrackerConfig struct {
	APIURL    string
	Interval  time.Duration
	Duration  time.Duration
	OriginLat float64
	OriginLng float64
	LogFile   string
	LogLevel  string
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	loadDotEnv()

	return Config{
		Port:          getEnv("PORT", "3000"),
		LogFile:       getEnv("LOG_FILE", "./logs/app.log"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		GinMode:       getEnv("GIN_MODE", "release"),
		StoreCapacity: getEnvInt("STORE_CAPACITY", 1000),
		HubBuffer:     getEnvInt("HUB_BUFFER", 100),
	}
}

// LoadTracker reads the tracking client settings. Flags in cmd/tracker
// override these.
func LoadTracker() TrackerConfig {
	loadDotEnv()

	return TrackerConfig{
		APIURL:    getEnv("TRACKER_API_URL", "http://localhost:3000"),
		Interval:  getEnvDuration("TRACKER_INTERVAL", 3*time.Second),
		Duration:  getEnvDuration("TRACKER_DURATION", 0),
		OriginLat: getEnvFloat("TRACKER_ORIGIN_LAT", -1.286389),
		OriginLng: getEnvFloat("TRACKER_ORIGIN_LNG", 36.817223),
		LogFile:   getEnv("TRACKER_LOG_FILE", "./logs/tracker.log"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, relying on env vars")
	}
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "value": v}).Warn("Invalid integer in environment, using default.")
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "value": v}).Warn("Invalid number in environment, using default.")
		return defaultValue
	}
	return f
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "value": v}).Warn("Invalid duration in environment, using default.")
		return defaultValue
	}
	return d
}
