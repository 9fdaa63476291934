package view

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/restful/core/handler"
)

type requestKey struct{}

// withRequest exposes the current request to factories, which only receive
// the plain context.Context built by the resolver.
func withRequest(ctx handler.Context) context.Context {
	return context.WithValue(ctx, requestKey{}, ctx.Request())
}

// Request returns the HTTP request behind ctx, or nil outside a request.
// Methods and factories receive contexts that support it.
func Request(ctx context.Context) *http.Request {
	if hc, ok := ctx.(handler.Context); ok {
		return hc.Request()
	}
	r, _ := ctx.Value(requestKey{}).(*http.Request)
	return r
}
