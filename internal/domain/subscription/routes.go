package subscription

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the self-service routes under an authenticated group.
func RegisterRoutes(protected *gin.RouterGroup, h *Handler) {
	sub := protected.Group("/subscription")
	{
		sub.GET("", h.GetStatus)
		sub.GET("/access", h.CheckAccess)
		sub.POST("/pay", h.Pay)
		sub.GET("/plans", h.ListPlans)
		sub.POST("/transactions", h.SubmitPayment)
	}
}

// RegisterAdminRoutes expects a group already restricted to admins.
func RegisterAdminRoutes(admin *gin.RouterGroup, h *Handler) {
	tx := admin.Group("/subscription-transactions")
	{
		tx.GET("", h.ListTransactions)
		tx.POST("/:id/approve", h.ApproveTransaction)
		tx.POST("/:id/reject", h.RejectTransaction)
		tx.POST("/bulk-approve", h.BulkApprove)
	}
}
