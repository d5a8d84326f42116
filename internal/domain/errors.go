package domain

import "net/http"

// Machine-readable error codes shared by every API response.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeValidationError = "VALIDATION_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

// APIError carries an HTTP status, a machine code and a human message
// from wherever a rule is enforced up to the single handler-layer
// responder that formats it into the uniform envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *APIError) Error() string { return e.Message }

// BadRequest rejects a request for a business-rule reason
// (departure full, trip inactive, malformed body).
func BadRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: CodeBadRequest, Message: message}
}

// NotFound reports a missing resource by name, e.g. NotFound("Trip").
func NotFound(resource string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: CodeNotFound, Message: resource + " not found"}
}

// ValidationError carries the per-field first-error map from the
// validation layer under details.fields.
func ValidationError(fields map[string]string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    CodeValidationError,
		Message: "Validation failed",
		Details: map[string]any{"fields": fields},
	}
}

// InternalError wraps an unexpected upstream failure. The underlying
// error is logged at the handler; the message stays generic.
func InternalError(message string) *APIError {
	if message == "" {
		message = "Something went wrong"
	}
	return &APIError{Status: http.StatusInternalServerError, Code: CodeInternalError, Message: message}
}
