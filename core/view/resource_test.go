package view_test

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restful/core/response"
	"github.com/dmitrymomot/restful/core/router"
	"github.com/dmitrymomot/restful/core/view"
)

type rootResource struct{}

func (rootResource) Get(_ context.Context, p view.Params) (any, error) {
	if v := p.Path("item_path"); v != "" {
		return map[string]string{"item_path": v}, nil
	}
	return []any{}, nil
}

type counterResource struct {
	hits atomic.Int32
}

func (c *counterResource) Get(context.Context, view.Params) (any, error) {
	return c.hits.Add(1), nil
}

func (c *counterResource) Post(_ context.Context, p view.Params) (any, error) {
	var in struct {
		Step int `json:"step" validate:"min=1"`
	}
	if err := p.Bind(&in); err != nil {
		return nil, err
	}
	return c.hits.Add(int32(in.Step)), nil
}

func (c *counterResource) Shapes() map[string]view.ResponseShape {
	return map[string]view.ResponseShape{
		http.MethodPost: {Status: http.StatusCreated, Schema: reflect.TypeFor[int32]()},
	}
}

type emptyResource struct{}

func TestResource(t *testing.T) {
	t.Parallel()

	t.Run("root_and_nested_paths", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		api := view.NewAPI[*router.Context](r)
		require.NoError(t, api.AddResource(rootResource{}, "/items/?", "/items/{item_path:path}"))

		tests := []struct {
			path string
			want string
		}{
			{path: "/items", want: `[]`},
			{path: "/items/", want: `[]`},
			{path: "/items/1", want: `{"item_path":"1"}`},
			{path: "/items/a/b", want: `{"item_path":"a/b"}`},
		}
		for _, tt := range tests {
			w := do(t, r, http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusOK, w.Code, tt.path)
			assert.JSONEq(t, tt.want, w.Body.String(), tt.path)
		}
	})

	t.Run("patterns_share_one_value", func(t *testing.T) {
		t.Parallel()

		res := &counterResource{}
		r := router.New[*router.Context]()
		require.NoError(t, view.Register[*router.Context](r, res, "/a", "/b"))

		do(t, r, http.MethodGet, "/a", nil)
		w := do(t, r, http.MethodGet, "/b", nil)
		assert.JSONEq(t, "2", w.Body.String())
	})

	t.Run("routes_in_pattern_then_verb_order", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		require.NoError(t, view.Register[*router.Context](r, &counterResource{}, "/a", "/b"))

		var got []string
		for _, rt := range r.Routes() {
			got = append(got, rt.Method+" "+rt.Pattern)
		}
		assert.Equal(t, []string{"GET /a", "POST /a", "GET /b", "POST /b"}, got)
		assert.Equal(t, "*view_test.counterResource.GET", r.Routes()[0].Name)
	})

	t.Run("shapes_and_bind", func(t *testing.T) {
		t.Parallel()

		r := router.New(router.WithErrorHandler[*router.Context](response.ErrorHandler[*router.Context]))
		require.NoError(t, view.Register[*router.Context](r, &counterResource{}, "/count"))

		w := do(t, r, http.MethodPost, "/count", strings.NewReader(`{"step":5}`))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, "5", w.Body.String())

		w = do(t, r, http.MethodPost, "/count", strings.NewReader(`{"step":0}`))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		routes := r.Routes()
		require.Len(t, routes, 2)
		assert.Equal(t, reflect.TypeFor[int32](), routes[1].Schema)
	})

	t.Run("prefix_applies_to_every_resource", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		view.NewAPI[*router.Context](r, view.WithPrefix("/v1")).
			MustAddResource(rootResource{}, "/items/?").
			MustAddResource(&counterResource{}, "/count")

		assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/v1/items", nil).Code)
		assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/v1/count", nil).Code)
		assert.Equal(t, 3, r.Len())
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		assert.ErrorIs(t, view.Register[*router.Context](r, rootResource{}), view.ErrNoPatterns)
		assert.ErrorIs(t, view.Register[*router.Context](r, emptyResource{}, "/x"), view.ErrNoVerbMethods)
		assert.ErrorIs(t, view.Register[*router.Context](r, rootResource{}, "/items/?", "items/{p}"), router.ErrInvalidPattern)
		assert.Zero(t, r.Len())
		assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/items", nil).Code)

		assert.Panics(t, func() {
			view.NewAPI[*router.Context](r).MustAddResource(emptyResource{}, "/x")
		})
	})
}
