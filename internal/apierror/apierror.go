// Package apierror defines the error envelopes every 4xx/5xx response uses.
// Handlers never write raw DB errors or stack traces to the client.
package apierror

// APIError carries a human-readable detail and, when the failure belongs to
// the service error taxonomy, a stable machine-readable code the frontend can
// branch on without parsing the message.
type APIError struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

func WithCode(code, msg string) *APIError {
	return &APIError{Detail: msg, Code: code}
}

// ValidationError lists per-field tag failures from request binding.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "error de validación", Fields: fields}
}
