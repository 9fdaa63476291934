package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"reflect"
)

const (
	// DefaultMaxJSONSize caps JSON bodies read by JSON.
	DefaultMaxJSONSize = 1 << 20
	// DefaultMaxMemory is the in-memory part of a parsed multipart form.
	DefaultMaxMemory = 10 << 20
)

// Path binds fields from route parameters returned by extractor.
func Path(extractor func(r *http.Request, name string) string) Binder {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: nil extractor", ErrFailedToParsePath)
		}
		return bindValues(v, "path", func(name string) []string {
			if s := extractor(r, name); s != "" {
				return []string{s}
			}
			return nil
		}, ErrFailedToParsePath)
	}
}

// Query binds fields from the URL query. Repeated and comma-separated
// values fill slices.
func Query() Binder {
	return func(r *http.Request, v any) error {
		q := r.URL.Query()
		return bindValues(v, "query", func(name string) []string { return q[name] }, ErrFailedToParseQuery)
	}
}

// JSON decodes an application/json body into v. Unknown fields, trailing
// data and bodies over DefaultMaxJSONSize are rejected.
func JSON() Binder {
	return func(r *http.Request, v any) error {
		if err := expectMedia(r, "application/json"); err != nil {
			return err
		}

		dec := json.NewDecoder(io.LimitReader(r.Body, DefaultMaxJSONSize+1))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
			}
			return fmt.Errorf("%w: %w", ErrFailedToParseJSON, err)
		}
		if dec.InputOffset() > DefaultMaxJSONSize {
			return fmt.Errorf("%w: body exceeds %d bytes", ErrFailedToParseJSON, DefaultMaxJSONSize)
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: unexpected data after JSON value", ErrFailedToParseJSON)
		}
		return nil
	}
}

// Form binds url-encoded and multipart form values. Fields tagged `file`
// of type *multipart.FileHeader or []*multipart.FileHeader receive uploads.
func Form() Binder {
	return func(r *http.Request, v any) error {
		mediaType, err := mediaTypeOf(r)
		if err != nil {
			return err
		}

		switch mediaType {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %w", ErrFailedToParseForm, err)
			}
		case "multipart/form-data":
			if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
				return fmt.Errorf("%w: %w", ErrFailedToParseForm, err)
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
		}

		if err := bindValues(v, "form", func(name string) []string { return r.PostForm[name] }, ErrFailedToParseForm); err != nil {
			return err
		}
		if r.MultipartForm == nil {
			return nil
		}
		return bindFiles(v, r.MultipartForm.File)
	}
}

var (
	fileHeaderType  = reflect.TypeFor[*multipart.FileHeader]()
	fileHeadersType = reflect.TypeFor[[]*multipart.FileHeader]()
)

func bindFiles(v any, files map[string][]*multipart.FileHeader) error {
	rv, err := target(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToParseForm, err)
	}
	for _, f := range plan(rv.Type(), "file") {
		headers := files[f.name]
		if len(headers) == 0 {
			continue
		}
		switch f.typ {
		case fileHeaderType:
			rv.Field(f.index).Set(reflect.ValueOf(headers[0]))
		case fileHeadersType:
			rv.Field(f.index).Set(reflect.ValueOf(headers))
		}
	}
	return nil
}

func mediaTypeOf(r *http.Request) (string, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return "", ErrMissingContentType
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupportedMediaType, err)
	}
	return mt, nil
}

func expectMedia(r *http.Request, want string) error {
	mt, err := mediaTypeOf(r)
	if err != nil {
		return err
	}
	if mt != want {
		return fmt.Errorf("%w: got %s, want %s", ErrUnsupportedMediaType, mt, want)
	}
	return nil
}
