package payment

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

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	payments := protected.Group("/payments")
	{
		payments.POST("", h.RecordPayment)
		payments.GET("", h.MyPayments)
		payments.GET("/:id", h.GetPayment)
		payments.GET("/:id/receipt", h.Receipt)
	}
	protected.GET("/bookings/:id/payment", h.GetBookingPayment)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/payments", h.ListAll)
}

// RecordPayment godoc
// @Summary      Record a manual payment
// @Description  Confirms an approved booking after the passenger paid the driver by mobile money
// @Tags         Payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body RecordPaymentRequest true "Payment payload"
// @Success      201 {object} RecordPaymentResult
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /payments [post]
func (h *Handler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}

	result, err := h.service.RecordPayment(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

func (h *Handler) MyPayments(c *gin.Context) {
	list, err := h.service.ListMyPayments(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) GetPayment(c *gin.Context) {
	id, ok := parseID(c, "Invalid payment ID")
	if !ok {
		return
	}
	p, err := h.service.GetPayment(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) GetBookingPayment(c *gin.Context) {
	id, ok := parseID(c, "Invalid booking ID")
	if !ok {
		return
	}
	p, err := h.service.GetByBooking(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// Receipt godoc
// @Summary      Download a payment receipt
// @Tags         Payments
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id path integer true "Payment ID"
// @Success      200 {file} binary
// @Failure      404 {object} response.ErrorResponse
// @Router       /payments/{id}/receipt [get]
func (h *Handler) Receipt(c *gin.Context) {
	id, ok := parseID(c, "Invalid payment ID")
	if !ok {
		return
	}
	data, filename, err := h.service.Receipt(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *Handler) ListAll(c *gin.Context) {
	limit := 50
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 1 {
		offset = (v - 1) * limit
	}

	list, err := h.service.ListAllPayments(c.Request.Context(), limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func parseID(c *gin.Context, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", message)
		return 0, false
	}
	return id, true
}
