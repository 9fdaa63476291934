package demo

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/restful/core/di"
	"github.com/dmitrymomot/restful/core/response"
	"github.com/dmitrymomot/restful/core/view"
	"github.com/dmitrymomot/restful/middleware"
)

// Items is a class-based view over the store. One instance serves every
// route of a request.
type Items struct {
	store   Repository
	limit   int
	caller  string
	comment view.Opt[string]
}

type showInput struct {
	ID string `path:"id" validate:"required,uuid"`
}

type createInput struct {
	Name string   `json:"name" validate:"required,max=64"`
	Tags []string `json:"tags" validate:"max=5,dive,required"`
}

type listInput struct {
	Tag string `query:"tag"`
}

func (v *Items) List(ctx context.Context, in listInput) ([]Item, error) {
	items, err := v.store.List(ctx, in.Tag)
	if err != nil {
		return nil, err
	}
	if len(items) > v.limit {
		items = items[:v.limit]
	}
	return items, nil
}

func (v *Items) Show(ctx context.Context, in showInput) (Item, error) {
	return v.store.Get(ctx, in.ID)
}

func (v *Items) Create(ctx context.Context, in createInput) (Item, error) {
	it, err := v.store.Add(ctx, in.Name, in.Tags)
	if err != nil {
		return Item{}, err
	}
	// Split only; ErrNoTimer means timing is off.
	_ = middleware.RecordTiming(ctx, "stored")
	return it, nil
}

func (v *Items) Delete(ctx context.Context, in showInput) (any, error) {
	if err := v.store.Delete(ctx, in.ID); err != nil {
		return nil, err
	}
	return response.NoContent(), nil
}

func (v *Items) Count(ctx context.Context) (string, error) {
	n, err := v.store.Len(ctx)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(n), nil
}

// Whoami reports the caller named in the query string and whether a comment
// was attached.
func (v *Items) Whoami(context.Context) (map[string]any, error) {
	return map[string]any{"caller": v.caller, "commented": v.comment.IsSet()}, nil
}

// ItemsView declares the Items view. Count is declared before Show so that
// GET /items/count reaches it, although /items/{id} also matches.
func ItemsView(store di.Provider[Repository], limit int) *view.Class[Items] {
	cls := view.Define("Items", func(a view.Args) (*Items, error) {
		return &Items{store: view.Arg[Repository](a, "store")}, nil
	})
	view.Param(cls, "store", store)
	view.FieldDefault(cls, "limit", limit, func(v *Items, n int) { v.limit = n })
	view.Declare(cls, "comment")

	view.MethodWith(cls, "List", (*Items).List, view.Get("/items"), view.Get("/items/"))
	view.Method(cls, "Count", (*Items).Count, view.Get("/items/count"),
		view.Shape(view.ResponseShape{Envelope: response.TextEnvelope}))
	view.MethodWith(cls, "Show", (*Items).Show, view.Get("/items/{id}"))
	view.MethodWith(cls, "Create", (*Items).Create, view.Post("/items"), view.Status(http.StatusCreated))
	view.MethodWith(cls, "Delete", (*Items).Delete, view.Delete("/items/{id}"))
	return cls
}

// WhoamiView shows a constructor parameter bound from the query string.
func WhoamiView() *view.Class[Items] {
	cls := view.Define("Whoami", func(a view.Args) (*Items, error) {
		return &Items{caller: view.Arg[string](a, "caller")}, nil
	})
	view.ParamQuery(cls, "caller")
	view.Declare(cls, "comment")
	view.Method(cls, "Whoami", (*Items).Whoami, view.Get("/whoami"))
	return cls
}
