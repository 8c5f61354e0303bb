package routes

import (
	"github.com/raptor1820/georloctesting/internal/controllers"
	"github.com/gin-gonic/gin"
)

func WebSocketRoutes(r *gin.Engine, hub *controllers.LocationHub) {
	wsRoutes := r.Group("/ws")
	{
		wsRoutes.GET("/location", hub.HandleLocationWebSocket)
	}
}
