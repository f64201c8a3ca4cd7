package subscription

import (
	"net/http"
	"strconv"

	"rideshare/internal/pkg/response"
	"rideshare/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Handler serves the subscription status, payment and admin review endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type PayRequest struct {
	PhoneNumber   string `json:"phone_number" binding:"required,rw_phone"`
	PaymentMethod string `json:"payment_method"`
}

type SubmitPaymentRequest struct {
	PlanID    int64  `json:"plan_id" binding:"required,gt=0"`
	Reference string `json:"transaction_reference" binding:"required,max=50"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type BulkRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1,dive,gt=0"`
}

type AccessResponse struct {
	HasAccess     bool `json:"has_access"`
	DaysRemaining int  `json:"days_remaining"`
}

// GetStatus godoc
// @Summary Current subscription state of the authenticated user
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} StatusView
// @Router /subscription [get]
func (h *Handler) GetStatus(c *gin.Context) {
	view, err := h.service.Status(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// CheckAccess godoc
// @Summary Whether the user may currently perform paid actions
// @Tags Subscriptions
// @Security BearerAuth
// @Success 200 {object} AccessResponse
// @Router /subscription/access [get]
func (h *Handler) CheckAccess(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt64("user_id")

	ok, err := h.service.IsActive(ctx, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	days, err := h.service.DaysRemaining(ctx, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, AccessResponse{HasAccess: ok, DaysRemaining: days})
}

// Pay godoc
// @Summary Record a manual mobile-money subscription payment
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Param body body PayRequest true "Payer phone"
// @Success 200 {object} Subscription
// @Router /subscription/pay [post]
func (h *Handler) Pay(c *gin.Context) {
	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}

	sub, err := h.service.Pay(c.Request.Context(), c.GetInt64("user_id"), req.PhoneNumber, req.PaymentMethod)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sub)
}

// ListPlans godoc
// @Summary Plans offered to the user's role
// @Tags Subscriptions
// @Security BearerAuth
// @Success 200 {array} Plan
// @Router /subscription/plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.service.ListPlans(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, plans)
}

// SubmitPayment godoc
// @Summary Submit a mobile-money transaction for admin review
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Param body body SubmitPaymentRequest true "Plan and transaction reference"
// @Success 201 {object} Transaction
// @Router /subscription/transactions [post]
func (h *Handler) SubmitPayment(c *gin.Context) {
	var req SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}

	t, err := h.service.SubmitPayment(c.Request.Context(), c.GetInt64("user_id"), req.PlanID, req.Reference)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

// ListTransactions godoc
// @Summary Submitted subscription payments, optionally filtered by status
// @Tags Admin
// @Security BearerAuth
// @Param status query string false "pending | approved | rejected"
// @Router /admin/subscription-transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	status := TransactionStatus(c.Query("status"))
	switch status {
	case "", TransactionPending, TransactionApproved, TransactionRejected:
	default:
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid transaction status")
		return
	}

	list, err := h.service.ListTransactions(c.Request.Context(), status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) ApproveTransaction(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	t, err := h.service.ApproveTransaction(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *Handler) RejectTransaction(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}
	t, err := h.service.RejectTransaction(c.Request.Context(), id, c.GetInt64("user_id"), req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

// BulkApprove approves each listed transaction and reports per-item results.
func (h *Handler) BulkApprove(c *gin.Context) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}
	results := h.service.BulkApproveTransactions(c.Request.Context(), req.IDs, c.GetInt64("user_id"))
	response.Success(c, http.StatusOK, gin.H{"results": results})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid ID")
		return 0, false
	}
	return id, true
}
