// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as the
// booking service and handlers to distinguish between failure scenarios.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update or delete cannot proceed because
// of the current state: a booking that is no longer PENDING, or a
// property that still has bookings.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrBookingNotFound  = errors.New("booking not found")
)
