package trip

import (
	"net/http"
	"strconv"
	"time"

	"rideshare/internal/domain"
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

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	trips := v1.Group("/trips")
	{
		trips.GET("", h.ListTrips)
		trips.GET("/recommended", h.Recommended)
		trips.GET("/:id", h.GetTrip)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	trips := protected.Group("/trips")
	{
		trips.POST("", h.CreateTrip)
		trips.GET("/mine", h.MyTrips)
		trips.PUT("/:id", h.UpdateTrip)
		trips.POST("/:id/deactivate", h.DeactivateTrip)
	}
}

/* ---------- PUBLIC HANDLERS ---------- */

// ListTrips handles GET /api/v1/trips with filters
func (h *Handler) ListTrips(c *gin.Context) {
	var f domain.TripFilter
	f.From = c.Query("from")
	f.To = c.Query("to")

	if date := c.Query("date"); date != "" {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "date must be YYYY-MM-DD")
			return
		}
		f.Date = &d
	}
	if seats := c.Query("min_seats"); seats != "" {
		if val, err := strconv.Atoi(seats); err == nil && val > 0 {
			f.MinSeats = val
		}
	}

	// Pagination
	f.Limit = 20
	if limit := c.Query("limit"); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil && val > 0 && val <= 100 {
			f.Limit = val
		}
	}
	if page := c.Query("page"); page != "" {
		if val, err := strconv.Atoi(page); err == nil && val > 0 {
			f.Offset = (val - 1) * f.Limit
		}
	}

	trips, err := h.service.ListAvailableTrips(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"trips": trips,
		"pagination": gin.H{
			"page":  f.Offset/f.Limit + 1,
			"limit": f.Limit,
		},
	})
}

func (h *Handler) Recommended(c *gin.Context) {
	trips, err := h.service.RecommendedTrips(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, trips)
}

func (h *Handler) GetTrip(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	t, err := h.service.GetTrip(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

/* ---------- DRIVER HANDLERS ---------- */

func (h *Handler) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}

	t, err := h.service.CreateTrip(c.Request.Context(), c.GetInt64("user_id"), domain.UserRole(c.GetString("role")), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

func (h *Handler) UpdateTrip(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	var req UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}

	t, err := h.service.UpdateTrip(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *Handler) DeactivateTrip(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	if err := h.service.DeactivateTrip(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "is_active": false})
}

func (h *Handler) MyTrips(c *gin.Context) {
	trips, err := h.service.MyTrips(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, trips)
}

func tripID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid trip ID")
		return 0, false
	}
	return id, true
}
