package services

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable machine-readable code attached to every business
// error the services return. Controllers map kinds to HTTP statuses; clients
// branch on them.
type ErrorKind string

const (
	KindValidation       ErrorKind = "VALIDATION_ERROR"
	KindRoomOverlap      ErrorKind = "ROOM_OVERLAP"
	KindRoomOccupied     ErrorKind = "ROOM_OCCUPIED"
	KindDuplicateRoom    ErrorKind = "DUPLICATE_ROOM"
	KindAlreadyCheckedIn ErrorKind = "ALREADY_CHECKED_IN"
	KindRoomNotAssigned  ErrorKind = "ROOM_NOT_ASSIGNED"
	KindNotActive        ErrorKind = "NOT_ACTIVE"
	KindInvoiceClosed    ErrorKind = "INVOICE_CLOSED"
	KindHasPayments      ErrorKind = "HAS_PAYMENTS"
	KindInvalidAmount    ErrorKind = "INVALID_AMOUNT"
	KindNotFound         ErrorKind = "NOT_FOUND"
)

// Error carries a stable kind plus a human message. Expected business
// conditions are returned as *Error; anything else bubbling out of a service
// is an infrastructure failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ValidationError names the offending field so the caller can point at it.
func ValidationError(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: field + ": " + fmt.Sprintf(format, args...)}
}

func NotFoundError(what string, id uint) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %d not found", what, id)}
}

// KindOf extracts the error kind, or "" for non-business errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is a business error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
