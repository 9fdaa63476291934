package binder

import (
	"fmt"
	"net/http"
)

// Request combines the other binders in a fixed order: path parameters, the
// query string, then the body according to its Content-Type. Later sources
// overwrite fields set by earlier ones. Requests without a body skip body
// binding.
func Request(extractor func(r *http.Request, name string) string) Binder {
	path := Path(extractor)
	query := Query()
	jsonBody := JSON()
	formBody := Form()

	return func(r *http.Request, v any) error {
		if err := path(r, v); err != nil {
			return err
		}
		if err := query(r, v); err != nil {
			return err
		}
		if !hasBody(r) {
			return nil
		}

		mt, err := mediaTypeOf(r)
		if err != nil {
			return fmt.Errorf("request has a body: %w", err)
		}
		switch mt {
		case "application/json":
			return jsonBody(r, v)
		case "application/x-www-form-urlencoded", "multipart/form-data":
			return formBody(r, v)
		default:
			return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mt)
		}
	}
}

func hasBody(r *http.Request) bool {
	return r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0
}
