package response

import (
	"net/http"

	"github.com/dmitrymomot/restful/core/handler"
)

// Render writes resp and falls back to a plain 500 when it fails.
func Render(ctx handler.Context, resp handler.Response) {
	if err := resp(ctx.ResponseWriter(), ctx.Request()); err != nil {
		http.Error(ctx.ResponseWriter(), err.Error(), http.StatusInternalServerError)
	}
}

// Error returns a response that only reports err, leaving rendering to the
// router's error handler.
func Error(err error) handler.Response {
	return func(http.ResponseWriter, *http.Request) error { return err }
}

// String is a text/plain 200 response.
func String(content string) handler.Response {
	return StringWithStatus(content, http.StatusOK)
}

// StringWithStatus is a text/plain response. Status 0 means 200.
func StringWithStatus(content string, status int) handler.Response {
	return Bytes([]byte(content), "text/plain; charset=utf-8", status)
}

// HTML is a text/html 200 response.
func HTML(content string) handler.Response {
	return HTMLWithStatus(content, http.StatusOK)
}

// HTMLWithStatus is a text/html response. Status 0 means 200.
func HTMLWithStatus(content string, status int) handler.Response {
	return Bytes([]byte(content), "text/html; charset=utf-8", status)
}

// Bytes writes content with the given content type. An empty content type
// leaves the header unset and status 0 means 200.
func Bytes(content []byte, contentType string, status int) handler.Response {
	return func(w http.ResponseWriter, _ *http.Request) error {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if len(content) == 0 {
			return nil
		}
		_, err := w.Write(content)
		return err
	}
}

// NoContent is an empty 204 response.
func NoContent() handler.Response {
	return Status(http.StatusNoContent)
}

// Status is an empty response with the given code. Code 0 means 200.
func Status(code int) handler.Response {
	return func(w http.ResponseWriter, _ *http.Request) error {
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
		return nil
	}
}
