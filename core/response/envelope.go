package response

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/restful/core/handler"
)

// envelope is a named handler.Envelope backed by an encode function.
type envelope struct {
	name   string
	encode func(status int, v any) handler.Response
}

func (e envelope) Name() string { return e.name }

func (e envelope) Encode(status int, v any) handler.Response {
	// Handlers that already built a response keep full control over rendering
	if resp, ok := v.(handler.Response); ok && resp != nil {
		return resp
	}
	return e.encode(status, v)
}

// Envelopes shipped with the package. JSONEnvelope is the router default.
var (
	JSONEnvelope handler.Envelope = envelope{name: "json", encode: func(status int, v any) handler.Response {
		return JSONWithStatus(v, status)
	}}

	TextEnvelope handler.Envelope = envelope{name: "text", encode: func(status int, v any) handler.Response {
		return StringWithStatus(stringify(v), status)
	}}

	HTMLEnvelope handler.Envelope = envelope{name: "html", encode: func(status int, v any) handler.Response {
		return HTMLWithStatus(stringify(v), status)
	}}

	NoContentEnvelope handler.Envelope = envelope{name: "no_content", encode: func(status int, _ any) handler.Response {
		if status == 0 {
			status = http.StatusNoContent
		}
		return Status(status)
	}}
)

// NewEnvelope creates a named envelope from an encode function.
func NewEnvelope(name string, encode func(status int, v any) handler.Response) handler.Envelope {
	return envelope{name: name, encode: encode}
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
