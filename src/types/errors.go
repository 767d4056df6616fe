package types

// APIError is a typed service error. Validation and conflict failures travel
// to the caller as one of these so controllers can map them to an HTTP status
// and the frontend can tell "slot just got taken" apart from a bad request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string { return e.Message }

var (
	ErrInvalidService       = &APIError{Code: "INVALID_SERVICE", Message: "unknown service code", Status: 400}
	ErrInvalidDateFormat    = &APIError{Code: "INVALID_DATE_FORMAT", Message: "date must be YYYY-MM-DD", Status: 400}
	ErrInvalidTimeFormat    = &APIError{Code: "INVALID_TIME_FORMAT", Message: "start time must be HH:MM", Status: 400}
	ErrOutsideBusinessHours = &APIError{Code: "OUTSIDE_BUSINESS_HOURS", Message: "requested slot falls outside salon hours", Status: 422}
	ErrSlotTaken            = &APIError{Code: "SLOT_TAKEN", Message: "the requested slot is no longer available", Status: 409}
	ErrNotFound             = &APIError{Code: "NOT_FOUND", Message: "reservation not found", Status: 404}
	ErrForbidden            = &APIError{Code: "FORBIDDEN", Message: "reservation belongs to another customer", Status: 403}
)
