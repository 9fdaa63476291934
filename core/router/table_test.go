package router_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restful/core/router"
)

func entry(method, pattern, name string) router.Entry[*router.Context] {
	return router.Entry[*router.Context]{
		Method:   method,
		Pattern:  pattern,
		Endpoint: func(*router.Context) (any, error) { return name, nil },
		Meta:     router.Meta{Name: name},
	}
}

func names(t *router.Table[*router.Context]) []string {
	var out []string
	for _, e := range t.Entries() {
		out = append(out, e.Meta.Name)
	}
	return out
}

func TestTableInsert(t *testing.T) {
	t.Parallel()

	t.Run("inserts_at_position", func(t *testing.T) {
		t.Parallel()

		tbl := router.NewTable[*router.Context](nil)
		require.NoError(t, tbl.Insert(0, entry(http.MethodGet, "/a", "a")))
		require.NoError(t, tbl.Insert(1, entry(http.MethodGet, "/c", "c")))
		require.NoError(t, tbl.Insert(1, entry(http.MethodGet, "/b", "b")))

		assert.Equal(t, []string{"a", "b", "c"}, names(tbl))
		assert.Equal(t, 3, tbl.Len())
	})

	t.Run("same_method_and_pattern_replaces", func(t *testing.T) {
		t.Parallel()

		tbl := router.NewTable[*router.Context](nil)
		require.NoError(t, tbl.Insert(0, entry(http.MethodGet, "/a", "first")))
		require.NoError(t, tbl.Insert(1, entry(http.MethodGet, "/b", "b")))
		require.NoError(t, tbl.Insert(2, entry(http.MethodGet, "/a", "second")))

		assert.Equal(t, []string{"b", "second"}, names(tbl))
	})

	t.Run("method_is_normalized", func(t *testing.T) {
		t.Parallel()

		tbl := router.NewTable[*router.Context](nil)
		require.NoError(t, tbl.Insert(0, entry("get", "/a", "a")))

		e, _, _ := tbl.Match(http.MethodGet, "/a")
		require.NotNil(t, e)
		assert.Equal(t, http.MethodGet, e.Method)
	})

	t.Run("rejects_invalid_entries", func(t *testing.T) {
		t.Parallel()

		tbl := router.NewTable[*router.Context](nil)

		assert.ErrorIs(t, tbl.Insert(0, entry("BREW", "/a", "a")), router.ErrInvalidMethod)
		assert.ErrorIs(t, tbl.Insert(0, entry(http.MethodGet, "a", "a")), router.ErrInvalidPattern)
		assert.ErrorIs(t, tbl.Insert(1, entry(http.MethodGet, "/a", "a")), router.ErrInvalidPosition)
		assert.ErrorIs(t, tbl.Insert(0, entry(http.MethodGet, "/{id}/{id}", "a")), router.ErrDuplicateParam)
		assert.ErrorIs(t, tbl.Insert(0, entry(http.MethodGet, "/*/x", "a")), router.ErrWildcardPosition)
		assert.ErrorIs(t, tbl.Insert(0, entry(http.MethodGet, "/{id:[0-9}", "a")), router.ErrInvalidRegexp)
		assert.ErrorIs(t, tbl.Insert(0, router.Entry[*router.Context]{Method: http.MethodGet, Pattern: "/a"}), router.ErrNilEndpoint)
		assert.Zero(t, tbl.Len())
	})

	t.Run("validate_pattern_matches_insert", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, router.ValidatePattern("/items/?"))
		assert.NoError(t, router.ValidatePattern("/items/{p:path}"))
		assert.ErrorIs(t, router.ValidatePattern("a"), router.ErrInvalidPattern)
		assert.ErrorIs(t, router.ValidatePattern("/{id}/{id}"), router.ErrDuplicateParam)
		assert.ErrorIs(t, router.ValidatePattern("/{id:[0-9}"), router.ErrInvalidRegexp)
	})

	t.Run("supports_standard_methods", func(t *testing.T) {
		t.Parallel()

		tbl := router.NewTable[*router.Context](nil)
		for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead, http.MethodOptions} {
			assert.True(t, tbl.Supports(m), m)
		}
		assert.False(t, tbl.Supports("BREW"))
	})
}

func TestTableMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		path    string
		match   bool
		params  map[string]string
	}{
		{name: "static", pattern: "/items", path: "/items", match: true},
		{name: "static_mismatch", pattern: "/items", path: "/items/", match: false},
		{name: "param", pattern: "/items/{id}", path: "/items/42", match: true, params: map[string]string{"id": "42"}},
		{name: "param_stops_at_slash", pattern: "/items/{id}", path: "/items/4/2", match: false},
		{name: "regexp_param", pattern: "/items/{id:[0-9]+}", path: "/items/42", match: true, params: map[string]string{"id": "42"}},
		{name: "regexp_param_mismatch", pattern: "/items/{id:[0-9]+}", path: "/items/x", match: false},
		{name: "path_param_spans_slashes", pattern: "/files/{rest:path}", path: "/files/a/b/c.txt", match: true, params: map[string]string{"rest": "a/b/c.txt"}},
		{name: "catch_all", pattern: "/static/*", path: "/static/css/app.css", match: true, params: map[string]string{"*": "css/app.css"}},
		{name: "optional_slash_without", pattern: "/items/?", path: "/items", match: true},
		{name: "optional_slash_with", pattern: "/items/?", path: "/items/", match: true},
		{name: "two_params", pattern: "/u/{user}/p/{post}", path: "/u/ann/p/7", match: true, params: map[string]string{"user": "ann", "post": "7"}},
		{name: "meta_characters_are_literal", pattern: "/a.b", path: "/axb", match: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tbl := router.NewTable[*router.Context](nil)
			require.NoError(t, tbl.Insert(0, entry(http.MethodGet, tt.pattern, tt.name)))

			e, params, _ := tbl.Match(http.MethodGet, tt.path)
			if !tt.match {
				assert.Nil(t, e)
				return
			}
			require.NotNil(t, e)
			if tt.params == nil {
				assert.Empty(t, params)
			} else {
				assert.Equal(t, tt.params, params)
			}
		})
	}

	t.Run("first_match_wins_regardless_of_specificity", func(t *testing.T) {
		t.Parallel()

		tbl := router.NewTable[*router.Context](nil)
		require.NoError(t, tbl.Insert(0, entry(http.MethodGet, "/items/{id}", "param")))
		require.NoError(t, tbl.Insert(1, entry(http.MethodGet, "/items/special", "static")))

		e, _, _ := tbl.Match(http.MethodGet, "/items/special")
		require.NotNil(t, e)
		assert.Equal(t, "param", e.Meta.Name)
	})

	t.Run("reports_allowed_methods", func(t *testing.T) {
		t.Parallel()

		tbl := router.NewTable[*router.Context](nil)
		require.NoError(t, tbl.Insert(0, entry(http.MethodGet, "/x", "get")))
		require.NoError(t, tbl.Insert(1, entry(http.MethodPost, "/x", "post")))

		e, _, allowed := tbl.Match(http.MethodDelete, "/x")
		assert.Nil(t, e)
		assert.Equal(t, []string{http.MethodGet, http.MethodPost}, allowed)
	})
}
