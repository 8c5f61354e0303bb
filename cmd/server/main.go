package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/raptor1820/georloctesting/internal/config"
	"github.com/raptor1820/georloctesting/internal/controllers"
	"github.com/raptor1820/georloctesting/internal/logger"
	"github.com/raptor1820/georloctesting/internal/middleware"
	"github.com/raptor1820/georloctesting/internal/routes"
	"github.com/raptor1820/georloctesting/internal/store"
)

func main() {
	cfg := config.Load()

	// Initialize structured logging to stdout and a rotating file
	logWriter := logger.Setup(cfg.LogFile, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	locations := store.NewMemoryStore(cfg.StoreCapacity)
	hub := controllers.NewLocationHub(cfg.HubBuffer)
	defer hub.Close()

	lc := controllers.NewLocationController(locations, hub)
	r := routes.SetupRouter(lc, hub, logWriter)

	// Wrap with CORS
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.EnableCORS(r),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":     srv.Addr,
			"capacity": locations.Capacity(),
		}).Infof("🚀 Server running at http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Server error")
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Graceful shutdown failed")
	}
	logrus.Info("Server exited")
}
