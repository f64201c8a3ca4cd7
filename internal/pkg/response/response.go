package response

import (
	"errors"
	"net/http"

	"rideshare/internal/domain"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// StatusFor maps an error kind onto its HTTP status.
func StatusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindInvalidRequest:
		return http.StatusBadRequest
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindSubscriptionExpired:
		return http.StatusPaymentRequired
	case domain.KindCapacityExceeded, domain.KindDuplicateBooking, domain.KindConflict:
		return http.StatusConflict
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes the envelope for err. Untyped errors are attached to the
// gin context for ErrorLogger and answered with a generic 500.
func FromError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, string(domain.KindInternal), "internal server error")
		return
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		Error(c, StatusFor(kind), string(kind), err.Error())
		return
	}
	if len(de.Details) > 0 {
		ErrorWithDetails(c, StatusFor(kind), string(kind), de.Message, de.Details)
		return
	}
	Error(c, StatusFor(kind), string(kind), de.Message)
}

// ValidationError answers a failed binding with field-level details.
func ValidationError(c *gin.Context, fields map[string]string) {
	ErrorWithDetails(c, http.StatusBadRequest, string(domain.KindInvalidRequest), "validation failed", fields)
}

// ErrorResponse documents the failure envelope for API docs.
type ErrorResponse struct {
	Success bool      `json:"success" example:"false"`
	Error   ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string         `json:"code" example:"CONFLICT"`
	Message string         `json:"message" example:"booking is already paid"`
	Details map[string]any `json:"details,omitempty"`
}
