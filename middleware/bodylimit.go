package middleware

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/restful/core/handler"
	"github.com/dmitrymomot/restful/core/response"
)

// Size units for BodyLimit.
const (
	KB int64 = 1 << 10
	MB int64 = 1 << 20
)

// BodyLimitConfig configures the body limit middleware.
type BodyLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// MaxSize is the largest accepted body in bytes (default: 1MB)
	MaxSize int64
}

// BodyLimit caps request bodies at maxSize bytes.
func BodyLimit[C handler.Context](maxSize int64) handler.Middleware[C] {
	return BodyLimitWithConfig[C](BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig rejects requests whose Content-Length exceeds the limit
// with 413 and caps the body reader for the rest. A body that grows past the
// limit while a method input is decoded fails binding with 422.
func BodyLimitWithConfig[C handler.Context](cfg BodyLimitConfig) handler.Middleware[C] {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = MB
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			if req.ContentLength > cfg.MaxSize {
				return response.Error(response.ErrRequestEntityTooLarge.
					WithMessage(fmt.Sprintf("request body exceeds %d bytes", cfg.MaxSize)).
					WithDetails(map[string]any{"limit": cfg.MaxSize, "size": req.ContentLength}))
			}
			if req.Body != nil && req.Body != http.NoBody {
				req.Body = http.MaxBytesReader(ctx.ResponseWriter(), req.Body, cfg.MaxSize)
			}
			return next(ctx)
		}
	}
}
