package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/restful/core/health"
	"github.com/dmitrymomot/restful/core/logger"
	"github.com/dmitrymomot/restful/core/router"
)

func TestHealth(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/live", health.Liveness[*router.Context])
	r.Get("/ready", health.Readiness[*router.Context](logger.Nop(), map[string]health.Check{
		"ok": func(context.Context) error { return nil },
	}))
	r.Get("/down", health.Readiness[*router.Context](logger.Nop(), map[string]health.Check{
		"db": func(context.Context) error { return errors.New("unreachable") },
	}))

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{path: "/live", status: http.StatusOK, body: "ALIVE"},
		{path: "/ready", status: http.StatusOK, body: "READY"},
		{path: "/down", status: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.status, w.Code, tt.path)
		if tt.body != "" {
			assert.Equal(t, tt.body, w.Body.String(), tt.path)
		}
	}
}
