package view

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var (
	// Composition errors
	ErrNoRoutes            = errors.New("class declares no routed methods")
	ErrUnsupportedMethod   = errors.New("http method not supported by router")
	ErrMalformedDependency = errors.New("malformed dependency declaration")
	ErrDuplicateDependency = errors.New("duplicate dependency name")
	ErrMalformedMethod     = errors.New("malformed method declaration")
	ErrAlreadyComposed     = errors.New("class already composed with another container")
	ErrNilInstance         = errors.New("constructor returned nil instance")
	ErrNoVerbMethods       = errors.New("resource has no verb methods")
	ErrNoPatterns          = errors.New("no path patterns given")

	// Request errors
	ErrInvalidInput     = errors.New("invalid input")
	ErrMissingParameter = errors.New("missing required parameter")
)

// inputError is a request binding failure. It reports 422 through the
// router's statusCode contract and unwraps to ErrInvalidInput or ErrMissingParameter.
type inputError struct {
	kind    error
	msg     string
	details map[string]any
}

func (e *inputError) Error() string {
	if e.msg == "" {
		return e.kind.Error()
	}
	return e.kind.Error() + ": " + e.msg
}

func (e *inputError) Unwrap() error { return e.kind }

func (e *inputError) StatusCode() int { return http.StatusUnprocessableEntity }

// Details returns the offending fields, keyed by name.
func (e *inputError) Details() map[string]any { return e.details }

func missingParameter(name string) error {
	return &inputError{
		kind:    ErrMissingParameter,
		msg:     name,
		details: map[string]any{name: "required"},
	}
}

func invalidInput(err error) error {
	ie := &inputError{kind: ErrInvalidInput, msg: err.Error()}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		ie.details = make(map[string]any, len(verrs))
		for _, fe := range verrs {
			ie.details[fe.Field()] = fe.Tag()
		}
	}
	return ie
}
