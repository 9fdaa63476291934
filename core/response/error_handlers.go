package response

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/restful/core/handler"
)

type statusCode interface {
	StatusCode() int
}

type detailer interface {
	Details() map[string]any
}

// toHTTPError maps err onto an HTTPError. HTTPError values pass through;
// other errors take their status from a StatusCode method anywhere in the
// chain, and their details from a Details method. Everything else is a 500.
func toHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) && http.StatusText(sc.StatusCode()) != "" {
		status = sc.StatusCode()
	}
	if status == http.StatusInternalServerError {
		return ErrInternalServerError
	}

	out := statusError(status).WithMessage(err.Error())
	var d detailer
	if errors.As(err, &d) && len(d.Details()) > 0 {
		out = out.WithDetails(d.Details())
	}
	return out
}

// ErrorHandler renders errors as plain text.
func ErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := toHTTPError(err)
	Render(ctx, StringWithStatus(httpErr.Error(), httpErr.Status))
}

// JSONErrorHandler renders errors as a JSON HTTPError body.
func JSONErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := toHTTPError(err)
	Render(ctx, JSONWithStatus(httpErr, httpErr.Status))
}
