package notification

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"rideshare/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unread_count"`
}

// GetNotifications returns the latest notifications of the current user.
// @Summary		List notifications
// @Tags		Notifications
// @Security	BearerAuth
// @Param		limit	query	int	false	"Max items (default 20, max 100)"
// @Success		200	{object}	ListResponse
// @Router		/notifications [GET]
func (h *Handler) GetNotifications(c *gin.Context) {
	userID := c.GetInt64("user_id")

	limit := 20
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}

	list, unread, err := h.service.GetUserNotifications(c.Request.Context(), userID, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ListResponse{Notifications: list, UnreadCount: unread})
}

// MarkAsRead marks a single notification as read.
// @Router		/notifications/{id}/read [POST]
func (h *Handler) MarkAsRead(c *gin.Context) {
	userID := c.GetInt64("user_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid notification ID")
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
			return
		}
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "is_read": true})
}

func (h *Handler) MarkAllAsRead(c *gin.Context) {
	updated, err := h.service.MarkAllAsRead(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": updated})
}

// Stream upgrades to a websocket that receives an Event per new notification.
// Endpoint: GET /ws/notifications?token=JWT
func (h *Handler) Stream(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if err := h.hub.Serve(c.Writer, c.Request, userID); err != nil {
		log.Printf("ws_upgrade_failed user_id=%d error=%v", userID, err)
	}
}
