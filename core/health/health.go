package health

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/restful/core/handler"
	"github.com/dmitrymomot/restful/core/logger"
	"github.com/dmitrymomot/restful/core/response"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Liveness always answers "ALIVE".
func Liveness[C handler.Context](C) handler.Response {
	return response.String("ALIVE")
}

// Readiness answers "READY" when every check passes and 503 otherwise.
// Checking stops at the first failure.
func Readiness[C handler.Context](log *slog.Logger, checks map[string]Check) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		for name, check := range checks {
			if err := check(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					logger.Component("health"),
					slog.String("check", name),
					logger.Error(err),
				)
				return response.Error(response.ErrServiceUnavailable)
			}
		}
		return response.String("READY")
	}
}
