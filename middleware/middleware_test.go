package middleware_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restful/core/handler"
	"github.com/dmitrymomot/restful/core/logger"
	"github.com/dmitrymomot/restful/core/response"
	"github.com/dmitrymomot/restful/core/router"
	"github.com/dmitrymomot/restful/middleware"
)

// captureHandler collects records for assertions.
type captureHandler struct {
	mu      sync.Mutex
	entries []map[string]any
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	entry := map[string]any{"level": r.Level.String(), "msg": r.Message}
	r.Attrs(func(a slog.Attr) bool {
		entry[a.Key] = a.Value.Any()
		return true
	})
	h.mu.Lock()
	h.entries = append(h.entries, entry)
	h.mu.Unlock()
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) all() []map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]map[string]any(nil), h.entries...)
}

func text(body string, status int) handler.HandlerFunc[*router.Context] {
	return func(*router.Context) handler.Response {
		return func(w http.ResponseWriter, _ *http.Request) error {
			w.WriteHeader(status)
			_, err := w.Write([]byte(body))
			return err
		}
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates_uuid", func(t *testing.T) {
		t.Parallel()

		var got string
		r := router.New[*router.Context]()
		r.Use(middleware.RequestID[*router.Context]())
		r.Get("/", func(ctx *router.Context) handler.Response {
			got, _ = middleware.GetRequestID(ctx)
			return text("ok", http.StatusOK)(ctx)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Len(t, got, 36)
		assert.Equal(t, got, w.Header().Get("X-Request-ID"))
	})

	t.Run("keeps_existing_when_configured", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Use(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{UseExisting: true}))
		r.Get("/", text("ok", http.StatusOK))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "client-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "client-1", w.Header().Get("X-Request-ID"))
	})

	t.Run("extractor_feeds_logger", func(t *testing.T) {
		t.Parallel()

		capture := &captureHandler{}
		log := slog.New(capture)
		var ex logger.ContextExtractor = middleware.RequestIDExtractor

		r := router.New[*router.Context]()
		r.Use(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
			Generator: func() string { return "fixed" },
		}))
		r.Get("/", func(ctx *router.Context) handler.Response {
			if a, ok := ex(ctx); ok {
				log.Info("inside", a)
			}
			return text("ok", http.StatusOK)(ctx)
		})
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		entries := capture.all()
		require.Len(t, entries, 1)
		assert.Equal(t, "fixed", entries[0]["request_id"])

		_, ok := ex(context.Background())
		assert.False(t, ok)
	})
}

func TestLogging(t *testing.T) {
	t.Parallel()

	t.Run("one_record_per_request", func(t *testing.T) {
		t.Parallel()

		capture := &captureHandler{}
		r := router.New[*router.Context]()
		r.Use(middleware.RequestID[*router.Context]())
		r.Use(middleware.LoggingWithLogger[*router.Context](slog.New(capture)))
		r.Get("/items/{id}", text("hello", http.StatusOK))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/7", nil))

		entries := capture.all()
		require.Len(t, entries, 1)
		e := entries[0]
		assert.Equal(t, "HTTP request", e["msg"])
		assert.Equal(t, "INFO", e["level"])
		assert.Equal(t, "GET", e["method"])
		assert.Equal(t, "/items/7", e["path"])
		assert.Equal(t, "/items/{id}", e["pattern"])
		assert.Equal(t, int64(200), e["status_code"])
		assert.Equal(t, int64(5), e["bytes_out"])
		assert.NotEmpty(t, e["request_id"])
	})

	t.Run("levels_follow_status", func(t *testing.T) {
		t.Parallel()

		capture := &captureHandler{}
		r := router.New[*router.Context]()
		r.Use(middleware.LoggingWithLogger[*router.Context](slog.New(capture)))
		r.Get("/bad", text("no", http.StatusBadRequest))
		r.Get("/boom", text("no", http.StatusBadGateway))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bad", nil))
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

		entries := capture.all()
		require.Len(t, entries, 2)
		assert.Equal(t, "WARN", entries[0]["level"])
		assert.Equal(t, "ERROR", entries[1]["level"])
	})

	t.Run("headers_are_redacted", func(t *testing.T) {
		t.Parallel()

		capture := &captureHandler{}
		r := router.New[*router.Context]()
		r.Use(middleware.LoggingWithConfig[*router.Context](middleware.LoggingConfig{
			Logger:     slog.New(capture),
			LogHeaders: true,
		}))
		r.Get("/", text("ok", http.StatusOK))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer secret")
		req.Header.Set("Accept", "text/plain")
		r.ServeHTTP(httptest.NewRecorder(), req)

		entries := capture.all()
		require.Len(t, entries, 1)
		headers, ok := entries[0]["headers"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "[REDACTED]", headers["Authorization"])
		assert.Equal(t, "text/plain", headers["Accept"])
	})

	t.Run("skip", func(t *testing.T) {
		t.Parallel()

		capture := &captureHandler{}
		r := router.New[*router.Context]()
		r.Use(middleware.LoggingWithConfig[*router.Context](middleware.LoggingConfig{
			Logger: slog.New(capture),
			Skip:   func(ctx handler.Context) bool { return ctx.Request().URL.Path == "/health" },
		}))
		r.Get("/health", text("ok", http.StatusOK))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Empty(t, capture.all())
	})
}

func TestBodyLimit(t *testing.T) {
	t.Parallel()

	newRouter := func() router.Router[*router.Context] {
		r := router.New[*router.Context]()
		r.Use(middleware.BodyLimit[*router.Context](8))
		r.Post("/", func(ctx *router.Context) handler.Response {
			b, err := io.ReadAll(ctx.Request().Body)
			if err != nil {
				return response.Error(response.ErrBadRequest.WithError(err))
			}
			return text(string(b), http.StatusOK)(ctx)
		})
		return r
	}

	t.Run("small_body_passes", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("tiny")))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tiny", w.Body.String())
	})

	t.Run("declared_length_over_limit", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("far too large")))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("streamed_body_over_limit", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("far too large"))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
