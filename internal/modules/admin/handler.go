package admin

import (
	"net/http"
	"strconv"

	"rideshare/internal/pkg/response"
	"rideshare/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	// statistics
	admin.GET("/stats", h.GetStats)
	admin.GET("/statistics", h.GetStats)

	// users moderation
	admin.GET("/users", h.GetUsers)
	admin.POST("/users/:id/block", h.BlockUser)
	admin.POST("/users/:id/unblock", h.UnblockUser)
}

// GetStats returns platform counters.
// @Summary		Platform statistics
// @Tags		Admin
// @Security	BearerAuth
// @Success		200	{object}	StatisticsResponse
// @Router		/admin/stats [GET]
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStatistics(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) GetUsers(c *gin.Context) {
	var filter UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}
	out, err := h.service.ListUsers(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) BlockUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req BlockUserRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, validator.Fields(err))
			return
		}
	}

	u, err := h.service.BlockUser(c.Request.Context(), id, c.GetInt64("user_id"), req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) UnblockUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	u, err := h.service.UnblockUser(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid user ID")
		return 0, false
	}
	return id, true
}
