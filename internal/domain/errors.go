package domain

import (
	"errors"
	"fmt"
)

// Kind is the machine-checkable category of a failed operation.
type Kind string

const (
	KindInvalidRequest      Kind = "INVALID_REQUEST"
	KindForbidden           Kind = "FORBIDDEN"
	KindSubscriptionExpired Kind = "SUBSCRIPTION_EXPIRED"
	KindCapacityExceeded    Kind = "CAPACITY_EXCEEDED"
	KindDuplicateBooking    Kind = "DUPLICATE_BOOKING"
	KindConflict            Kind = "CONFLICT"
	KindNotFound            Kind = "NOT_FOUND"
	KindInternal            Kind = "INTERNAL_ERROR"
)

// Sentinels, one per kind. Every *Error unwraps to the sentinel of its kind.
var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrForbidden           = errors.New("forbidden")
	ErrSubscriptionExpired = errors.New("subscription expired")
	ErrCapacityExceeded    = errors.New("not enough seats available")
	ErrDuplicateBooking    = errors.New("you already have an active booking for this trip")
	ErrConflict            = errors.New("conflict")
	ErrNotFound            = errors.New("not found")
	ErrInternal            = errors.New("internal error")
)

var sentinels = map[Kind]error{
	KindInvalidRequest:      ErrInvalidRequest,
	KindForbidden:           ErrForbidden,
	KindSubscriptionExpired: ErrSubscriptionExpired,
	KindCapacityExceeded:    ErrCapacityExceeded,
	KindDuplicateBooking:    ErrDuplicateBooking,
	KindConflict:            ErrConflict,
	KindNotFound:            ErrNotFound,
	KindInternal:            ErrInternal,
}

// Error is a typed failure returned by every service operation.
// Message is safe to show to the caller; Details carries remediation data.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	if s, ok := sentinels[e.Kind]; ok {
		return s
	}
	return ErrInternal
}

func newError(kind Kind, format string, args ...any) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Message: msg}
}

func InvalidRequest(format string, args ...any) *Error {
	return newError(KindInvalidRequest, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newError(KindForbidden, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

func NotFound(resource string) *Error {
	return newError(KindNotFound, "%s not found", resource)
}

func CapacityExceeded(available, requested int) *Error {
	return &Error{
		Kind:    KindCapacityExceeded,
		Message: fmt.Sprintf("only %d seat(s) available, %d requested", available, requested),
		Details: map[string]any{"available_seats": available, "requested_seats": requested},
	}
}

func DuplicateBooking(existingID int64) *Error {
	return &Error{
		Kind:    KindDuplicateBooking,
		Message: ErrDuplicateBooking.Error(),
		Details: map[string]any{"booking_id": existingID},
	}
}

// SubscriptionExpired tells the caller how to regain access.
func SubscriptionExpired(daysRemaining int, price Money) *Error {
	return &Error{
		Kind:    KindSubscriptionExpired,
		Message: "your subscription has expired, renew it to continue",
		Details: map[string]any{
			"days_remaining":     daysRemaining,
			"subscription_price": price,
		},
	}
}

// KindOf reports the kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	for kind, s := range sentinels {
		if errors.Is(err, s) {
			return kind
		}
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
