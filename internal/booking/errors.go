package booking

// ValidationError rejects a booking request.  The caller can always recover
// by correcting the input; these are never retried automatically.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// TransitionError rejects a status change.  It is a no-op notification for
// the owner, not a failure of the system.
type TransitionError struct {
	Code    string
	Message string
}

func (e *TransitionError) Error() string { return e.Message }

var (
	ErrPropertyNotFound  = &ValidationError{Code: "PROPERTY_NOT_FOUND", Message: "property not found"}
	ErrMissingDates      = &ValidationError{Code: "MISSING_DATES", Message: "please select both check-in and check-out dates"}
	ErrInvalidRange      = &ValidationError{Code: "INVALID_RANGE", Message: "check-out must be after check-in"}
	ErrPastCheckIn       = &ValidationError{Code: "PAST_CHECK_IN", Message: "check-in date cannot be in the past"}
	ErrInvalidGuestCount = &ValidationError{Code: "INVALID_GUEST_COUNT", Message: "number of guests must be between 1 and 10"}
)

var (
	ErrAlreadyFinalized    = &TransitionError{Code: "ALREADY_FINALIZED", Message: "booking status already finalized"}
	ErrInvalidTargetStatus = &TransitionError{Code: "INVALID_TARGET_STATUS", Message: "status must be APPROVED or REJECTED"}
)
