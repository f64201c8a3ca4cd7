package rating

import (
	"net/http"
	"strconv"

	"rideshare/internal/pkg/response"
	"rideshare/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/ratings", h.Create)
	protected.GET("/users/:id/ratings", h.ListForUser)
}

// Create godoc
// @Summary      Rate a trip participant
// @Description  Drivers and passengers with a paid booking can rate each other once per trip
// @Tags         Ratings
// @Security     BearerAuth
// @Param        request body CreateRatingRequest true "Rating"
// @Success      201 {object} domain.Rating
// @Failure      403 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /ratings [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}

	r, err := h.svc.Rate(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, r)
}

func (h *Handler) ListForUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid user ID")
		return
	}
	out, err := h.svc.ListForUser(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}
