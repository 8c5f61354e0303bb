package routes

import (
	"io"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/raptor1820/georloctesting/internal/controllers"
)

// SetupRouter builds the engine. logWriter receives request logs; nil
// disables them.
func SetupRouter(lc *controllers.LocationController, hub *controllers.LocationHub, logWriter io.Writer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if logWriter != nil {
		r.Use(ginlog.SetLogger(
			ginlog.WithWriter(logWriter),
			ginlog.WithUTC(true),
			ginlog.WithSkipPath([]string{"/health", "/metrics"}),
		))
	}

	r.GET("/health", lc.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	LocationRoutes(r, lc)
	if hub != nil {
		WebSocketRoutes(r, hub)
	}

	return r
}
