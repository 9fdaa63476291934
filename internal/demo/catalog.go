package demo

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/dmitrymomot/restful/core/response"
	"github.com/dmitrymomot/restful/core/view"
)

// Catalog is a resource that answers for a whole path subtree.
type Catalog struct {
	Sections []string
}

func (c *Catalog) Get(_ context.Context, p view.Params) (any, error) {
	path := strings.Trim(p.Path("path"), "/")
	if path == "" {
		return c.Sections, nil
	}
	return map[string]any{"section": strings.Split(path, "/")}, nil
}

func (c *Catalog) Head(_ context.Context, _ view.Params) (any, error) {
	return response.Status(http.StatusOK), nil
}

func (c *Catalog) Shapes() map[string]view.ResponseShape {
	return map[string]view.ResponseShape{
		http.MethodGet: {Schema: reflect.TypeFor[[]string]()},
	}
}
