package di

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/restful/core/handler"
	"github.com/dmitrymomot/restful/core/logger"
)

// scopeKey is unique per container, so several containers can attach
// scopes to the same request.
type scopeKey struct {
	c *Container
}

// WithScope returns a context carrying s.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{c: s.c}, s)
}

// ScopeFrom returns the scope of container c attached to ctx.
func ScopeFrom(ctx context.Context, c *Container) (*Scope, bool) {
	s, ok := ctx.Value(scopeKey{c: c}).(*Scope)
	return s, ok && s != nil
}

// RequestScope returns the request scope of container c, creating and
// attaching one when the request has none yet.
func RequestScope(ctx handler.Context, c *Container) *Scope {
	if s, ok := ScopeFrom(ctx, c); ok {
		return s
	}
	s := c.NewScope()
	ctx.SetValue(scopeKey{c: c}, s)
	c.logger.Debug("request scope created",
		logger.Component("di"),
		slog.String("scope", s.id.String()),
		logger.Path(ctx.Request().URL.Path),
	)
	return s
}

// Middleware opens a request scope before the handler runs.
func Middleware[C handler.Context](c *Container) handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			RequestScope(ctx, c)
			return next(ctx)
		}
	}
}

// Handler is the net/http form of Middleware, for routers that are not built on handler.Context.
func Handler(c *Container) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ScopeFrom(r.Context(), c); !ok {
				r = r.WithContext(WithScope(r.Context(), c.NewScope()))
			}
			next.ServeHTTP(w, r)
		})
	}
}
