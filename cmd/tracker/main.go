// Command tracker runs a headless tracking session against a simulated
// position source and forwards every sample to the location API.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/raptor1820/georloctesting/internal/config"
	"github.com/raptor1820/georloctesting/internal/logger"
	"github.com/raptor1820/georloctesting/internal/tracking"
)

const summaryEvery = 5 * time.Second

func main() {
	cfg := config.LoadTracker()

	flag.StringVar(&cfg.APIURL, "api", cfg.APIURL, "base URL of the location API")
	flag.DurationVar(&cfg.Interval, "interval", cfg.Interval, "poll interval (1s, 2s, 3s, 5s or 10s)")
	flag.DurationVar(&cfg.Duration, "duration", cfg.Duration, "stop after this long (0 runs until interrupted)")
	flag.Float64Var(&cfg.OriginLat, "lat", cfg.OriginLat, "latitude the simulated walk starts from")
	flag.Float64Var(&cfg.OriginLng, "lng", cfg.OriginLng, "longitude the simulated walk starts from")
	errorRate := flag.Float64("error-rate", 0.05, "probability that a simulated fix fails")
	flag.Parse()

	logger.Setup(cfg.LogFile, cfg.LogLevel)

	src := tracking.NewSimulatedSource(cfg.OriginLat, cfg.OriginLng, uint64(time.Now().UnixNano()))
	src.ErrorRate = *errorRate

	client := tracking.NewAPIClient(cfg.APIURL, nil)
	session := tracking.NewController(src, client)
	if err := session.SetInterval(cfg.Interval); err != nil {
		logrus.WithError(err).Fatal("Invalid tracker configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	if err := session.Start(); err != nil {
		logrus.WithError(err).Fatal("Could not start tracking")
	}
	logrus.WithField("api", cfg.APIURL).Info("Tracking session running. Press Ctrl+C to stop.")

	ticker := time.NewTicker(summaryEvery)
	defer ticker.Stop()
	for running := true; running; {
		select {
		case <-ctx.Done():
			running = false
		case <-ticker.C:
			logSummary(session.Snapshot())
		}
	}

	session.Stop()
	session.WaitForwards()
	logSummary(session.Snapshot())

	queryCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	page, err := client.Recent(queryCtx, 1, "")
	if err != nil {
		logrus.WithError(err).Warn("Could not read back stored locations")
		return
	}
	logrus.WithField("stored", page.Total).Info("Server location log size")
}

func logSummary(st tracking.State) {
	fields := logrus.Fields{
		"status":   st.Status.Message,
		"updates":  st.UpdateCount,
		"duration": st.Duration,
	}
	if st.UpdateCount > 0 {
		fields["avg_accuracy_m"] = st.AvgAccuracy
	}
	if cur := st.Current; cur != nil {
		fields["latitude"] = cur.Latitude
		fields["longitude"] = cur.Longitude
		fields["accuracy"] = tracking.AccuracyClass(cur.Accuracy)
		fields["speed"] = tracking.FormatSpeed(cur.Speed)
		fields["map"] = tracking.MapsURL(cur.Latitude, cur.Longitude)
	}
	if api := st.APIStatus; api != nil {
		fields["api"] = api.Message
	}
	logrus.WithFields(fields).Info("Session summary")
}
