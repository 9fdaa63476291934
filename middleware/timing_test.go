package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restful/core/di"
	"github.com/dmitrymomot/restful/core/handler"
	"github.com/dmitrymomot/restful/core/router"
	"github.com/dmitrymomot/restful/core/view"
	"github.com/dmitrymomot/restful/middleware"
)

type lines struct {
	mu  sync.Mutex
	got []string
}

func (l *lines) record(msg string) {
	l.mu.Lock()
	l.got = append(l.got, msg)
	l.mu.Unlock()
}

func (l *lines) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.got...)
}

type timed struct{}

func (timed) Get(ctx context.Context, _ view.Params) (any, error) {
	if err := middleware.RecordTiming(ctx, "halfway"); err != nil {
		return nil, err
	}
	return "ok", nil
}

func TestTiming(t *testing.T) {
	t.Parallel()

	t.Run("named_route_with_prefix_and_split", func(t *testing.T) {
		t.Parallel()

		out := &lines{}
		r := router.New[*router.Context]()
		r.Use(middleware.TimingWithConfig[*router.Context](middleware.TimingConfig{
			Record: out.record,
			Prefix: "api",
		}))
		require.NoError(t, view.Register[*router.Context](r, timed{}, "/timed"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/timed", nil))
		require.Equal(t, http.StatusOK, w.Code)

		got := out.all()
		require.Len(t, got, 2)
		assert.True(t, strings.HasPrefix(got[0], "TIMING: Wall: "))
		assert.Contains(t, got[0], "ms | CPU: ")
		assert.True(t, strings.HasSuffix(got[0], "| api.middleware_test.timed.GET (halfway)"), got[0])
		assert.True(t, strings.HasSuffix(got[1], "| api.middleware_test.timed.GET"), got[1])
	})

	t.Run("tree_route_uses_pattern", func(t *testing.T) {
		t.Parallel()

		out := &lines{}
		r := router.New[*router.Context]()
		r.Use(middleware.TimingWithConfig[*router.Context](middleware.TimingConfig{Record: out.record}))
		r.Get("/items/{id}", text("x", http.StatusOK))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/3", nil))

		got := out.all()
		require.Len(t, got, 1)
		assert.True(t, strings.HasSuffix(got[0], "| GET /items/{id}"), got[0])
	})

	t.Run("exclude_silences_matching_names", func(t *testing.T) {
		t.Parallel()

		out := &lines{}
		r := router.New[*router.Context]()
		r.Use(middleware.TimingWithConfig[*router.Context](middleware.TimingConfig{
			Record:  out.record,
			Exclude: "timed",
		}))
		require.NoError(t, view.Register[*router.Context](r, timed{}, "/timed"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/timed", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, out.all())
	})

	t.Run("record_without_timer", func(t *testing.T) {
		t.Parallel()

		assert.ErrorIs(t, middleware.RecordTiming(context.Background(), "x"), middleware.ErrNoTimer)

		var got error
		r := router.New(router.WithErrorHandler[*router.Context](func(ctx *router.Context, err error) {
			got = err
			ctx.ResponseWriter().WriteHeader(http.StatusInternalServerError)
		}))
		require.NoError(t, view.Register[*router.Context](r, timed{}, "/timed"))
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/timed", nil))
		assert.ErrorIs(t, got, middleware.ErrNoTimer)
	})

	t.Run("unmatched_path_fallback", func(t *testing.T) {
		t.Parallel()

		out := &lines{}
		r := router.New(router.WithErrorHandler[*router.Context](func(ctx *router.Context, _ error) {
			ctx.ResponseWriter().WriteHeader(http.StatusNotFound)
		}))
		h := middleware.TimingHandler(middleware.TimingConfig{Record: out.record})(r)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		got := out.all()
		require.Len(t, got, 1)
		assert.True(t, strings.HasSuffix(got[0], "| <Path: /nowhere>"), got[0])
	})

	t.Run("http_form_sees_inner_route", func(t *testing.T) {
		t.Parallel()

		out := &lines{}
		r := router.New[*router.Context]()
		c := di.New()
		cls := view.Define[struct{}]("Health", nil)
		view.Method(cls, "Check", func(*struct{}, context.Context) (string, error) { return "up", nil }, view.Get("/health"))
		view.MustCompose[*router.Context](r, c, cls)

		h := middleware.TimingHandler(middleware.TimingConfig{Record: out.record})(r)
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

		got := out.all()
		require.Len(t, got, 1)
		assert.True(t, strings.HasSuffix(got[0], "| Health.Check"), got[0])
	})

	t.Run("histogram", func(t *testing.T) {
		t.Parallel()

		reg := prometheus.NewRegistry()
		hist, err := middleware.NewTimingHistogram(reg, "restful")
		require.NoError(t, err)
		again, err := middleware.NewTimingHistogram(reg, "restful")
		require.NoError(t, err)
		assert.Same(t, hist, again)

		r := router.New[*router.Context]()
		r.Use(middleware.TimingWithConfig[*router.Context](middleware.TimingConfig{
			Record:    func(string) {},
			Histogram: hist,
		}))
		r.Get("/a", func(ctx *router.Context) handler.Response { return text("a", http.StatusOK)(ctx) })

		for range 3 {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/a", nil))
		}

		assert.Equal(t, 1, testutil.CollectAndCount(hist, "restful_request_duration_seconds"))
		count, err := testutil.GatherAndCount(reg, "restful_request_duration_seconds")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}
