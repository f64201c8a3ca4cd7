package verification

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

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type BulkRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1,dive,gt=0"`
}

// Submit godoc
// @Summary Submit driver identity for verification
// @Tags Verification
// @Security BearerAuth
// @Accept json
// @Param body body SubmitInput true "Identity details"
// @Success 201 {object} DriverVerification
// @Router /verification [post]
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}
	v, err := h.service.Submit(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, v)
}

// GetStatus godoc
// @Summary Verification state of the authenticated driver
// @Tags Verification
// @Security BearerAuth
// @Success 200 {object} StatusView
// @Router /verification/status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	view, err := h.service.StatusFor(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) ListAll(c *gin.Context) {
	status := Status(c.Query("status"))
	switch status {
	case "", StatusPending, StatusApproved, StatusRejected:
	default:
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid verification status")
		return
	}
	list, err := h.service.ListAll(c.Request.Context(), status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) ListPending(c *gin.Context) {
	list, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	v, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

func (h *Handler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	v, err := h.service.Approve(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

func (h *Handler) Reject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}
	v, err := h.service.Reject(c.Request.Context(), id, c.GetInt64("user_id"), req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

func (h *Handler) BulkApprove(c *gin.Context) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}
	results := h.service.BulkApprove(c.Request.Context(), req.IDs, c.GetInt64("user_id"))
	response.Success(c, http.StatusOK, gin.H{"results": results})
}

func (h *Handler) GetStatistics(c *gin.Context) {
	st, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid verification ID")
		return 0, false
	}
	return id, true
}
