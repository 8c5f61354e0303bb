package routes

import (
	"github.com/raptor1820/georloctesting/internal/controllers"
	"github.com/gin-gonic/gin"
)

func LocationRoutes(r *gin.Engine, lc *controllers.LocationController) {
	api := r.Group("/api")
	{
		api.POST("/location", lc.CreateLocation)
		api.GET("/location", lc.ListLocations)
		api.GET("/location/track", lc.GetTrack)
	}
}
