package binder

import (
	"errors"
	"net/http"
)

// Binder fills v, a pointer to a struct, from r.
type Binder func(r *http.Request, v any) error

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrFailedToParseForm    = errors.New("failed to parse form data")
	ErrFailedToParseQuery   = errors.New("failed to parse query parameters")
	ErrFailedToParsePath    = errors.New("failed to parse path parameters")
	ErrInvalidTarget        = errors.New("target must be a non-nil pointer to a struct")
)
