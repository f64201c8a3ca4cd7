package notification

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the notification inbox under an authenticated group
// and the websocket stream under a group authenticated by query token.
func RegisterRoutes(protected *gin.RouterGroup, ws *gin.RouterGroup, handler *Handler) {
	notifGroup := protected.Group("/notifications")
	{
		notifGroup.GET("", handler.GetNotifications)
		notifGroup.POST("/:id/read", handler.MarkAsRead)
		notifGroup.POST("/read-all", handler.MarkAllAsRead)
	}

	ws.GET("/ws/notifications", handler.Stream)
}
