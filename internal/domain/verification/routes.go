package verification

import "github.com/gin-gonic/gin"

// RegisterDriverRoutes expects a group already restricted to drivers.
func RegisterDriverRoutes(driver *gin.RouterGroup, h *Handler) {
	driver.POST("/verification", h.Submit)
	driver.GET("/verification/status", h.GetStatus)
}

// RegisterAdminRoutes expects a group already restricted to admins.
func RegisterAdminRoutes(admin *gin.RouterGroup, h *Handler) {
	v := admin.Group("/verifications")
	{
		v.GET("", h.ListAll)
		v.GET("/pending", h.ListPending)
		v.GET("/stats", h.GetStatistics)
		v.POST("/bulk-approve", h.BulkApprove)
		v.GET("/:id", h.Get)
		v.POST("/:id/approve", h.Approve)
		v.POST("/:id/reject", h.Reject)
	}
}
