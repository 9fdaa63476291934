package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/dmitrymomot/restful/core/handler"
	"github.com/dmitrymomot/restful/core/logger"
	"github.com/dmitrymomot/restful/core/router"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for successful requests (default: slog.LevelInfo)
	LogLevel slog.Level

	// LogHeaders adds request headers to the record
	LogHeaders bool

	// SensitiveHeaders are redacted when LogHeaders is set
	SensitiveHeaders []string

	// SlowRequestThreshold logs slower requests at warning level (default: 5s)
	SlowRequestThreshold time.Duration
}

// Logging creates a request logging middleware with default configuration.
func Logging[C handler.Context]() handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{})
}

// LoggingWithLogger creates a logging middleware with a custom logger.
func LoggingWithLogger[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{Logger: log})
}

// LoggingWithConfig creates a middleware that writes one record per request
// after the response is rendered. The record carries the matched route name,
// status, size and latency. 5xx responses log at error level, 4xx and slow
// requests at warning level.
func LoggingWithConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SensitiveHeaders == nil {
		cfg.SensitiveHeaders = []string{"Authorization", "Cookie", "Set-Cookie", "X-Api-Key"}
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			req := ctx.Request()
			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
				var err error
				if resp != nil {
					err = resp(sw, r)
				}
				latency := time.Since(start)

				id, _ := GetRequestID(ctx)
				attrs := []slog.Attr{
					logger.Component("http"),
					logger.Method(req.Method),
					logger.Path(req.URL.Path),
					logger.StatusCode(sw.status),
					logger.BytesOut(sw.size),
					logger.Latency(latency),
					logger.RequestID(id),
				}
				if rt, ok := router.RouteFrom(req.Context()); ok {
					attrs = append(attrs, logger.Route(rt.Name), logger.Pattern(rt.Pattern))
				}
				if cfg.LogHeaders {
					attrs = append(attrs, slog.Any("headers", redact(req.Header, cfg.SensitiveHeaders)))
				}

				level := cfg.LogLevel
				switch {
				case sw.status >= http.StatusInternalServerError:
					level = slog.LevelError
					attrs = append(attrs, logger.Error(err))
				case sw.status >= http.StatusBadRequest:
					level = slog.LevelWarn
				case latency > cfg.SlowRequestThreshold:
					level = slog.LevelWarn
					attrs = append(attrs, slog.Bool("slow_request", true))
				}

				cfg.Logger.LogAttrs(req.Context(), level, "HTTP request", attrs...)
				return err
			}
		}
	}
}

func redact(h http.Header, sensitive []string) map[string]any {
	out := make(map[string]any, len(h))
	for key, values := range h {
		switch {
		case slices.Contains(sensitive, key):
			out[key] = "[REDACTED]"
		case len(values) == 1:
			out[key] = values[0]
		default:
			out[key] = values
		}
	}
	return out
}

// statusWriter captures the status code and body size.
type statusWriter struct {
	http.ResponseWriter
	status      int
	size        int64
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += int64(n)
	return n, err
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
