package handler

// Endpoint is a handler that returns a raw result instead of a rendered Response.
// The router encodes the result with the Envelope configured for the route,
// so the same endpoint can be served as JSON, text or HTML without changes.
type Endpoint[C Context] func(ctx C) (any, error)

// Envelope encodes an endpoint result into a Response.
// A zero status lets the envelope pick its default.
type Envelope interface {
	Name() string
	Encode(status int, v any) Response
}
