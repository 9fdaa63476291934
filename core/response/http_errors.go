package response

import (
	"net/http"
	"strings"
)

// HTTPError is an error that renders as an HTTP response.
type HTTPError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewHTTPError creates a 500 error with a custom message.
func NewHTTPError(message string) HTTPError {
	return ErrInternalServerError.WithMessage(message)
}

func (e HTTPError) Error() string { return e.Message }

// StatusCode lets routers pick the status without knowing the type.
func (e HTTPError) StatusCode() int { return e.Status }

// WithMessage returns a copy with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetails returns a copy with details merged into the existing ones.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	e.Details = merged
	return e
}

// WithError returns a copy carrying err as the "cause" detail.
func (e HTTPError) WithError(err error) HTTPError {
	if err == nil {
		return e
	}
	return e.WithDetails(map[string]any{"cause": err.Error()})
}

// statusError builds the canonical error for status: the code is the
// snake_cased status text.
func statusError(status int) HTTPError {
	text := http.StatusText(status)
	code := strings.ToLower(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
	return HTTPError{Status: status, Code: code, Message: text}
}

var (
	ErrBadRequest            = statusError(http.StatusBadRequest)
	ErrUnauthorized          = statusError(http.StatusUnauthorized)
	ErrForbidden             = statusError(http.StatusForbidden)
	ErrNotFound              = statusError(http.StatusNotFound)
	ErrMethodNotAllowed      = statusError(http.StatusMethodNotAllowed)
	ErrConflict              = statusError(http.StatusConflict)
	ErrRequestEntityTooLarge = statusError(http.StatusRequestEntityTooLarge)
	ErrUnsupportedMediaType  = statusError(http.StatusUnsupportedMediaType)
	ErrUnprocessableEntity   = statusError(http.StatusUnprocessableEntity)
	ErrTooManyRequests       = statusError(http.StatusTooManyRequests)
	ErrInternalServerError   = statusError(http.StatusInternalServerError)
	ErrNotImplemented        = statusError(http.StatusNotImplemented)
	ErrServiceUnavailable    = statusError(http.StatusServiceUnavailable)
	ErrGatewayTimeout        = statusError(http.StatusGatewayTimeout)
)
