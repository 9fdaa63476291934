package view

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/restful/core/handler"
	"github.com/dmitrymomot/restful/core/router"
)

// Params gives verb methods access to the request.
type Params struct {
	ctx handler.Context
}

// Path returns a path parameter.
func (p Params) Path(name string) string { return p.ctx.Param(name) }

// Query returns the first query string value of name.
func (p Params) Query(name string) string { return p.ctx.Request().URL.Query().Get(name) }

// Has reports whether the query string carries name.
func (p Params) Has(name string) bool { return p.ctx.Request().URL.Query().Has(name) }

// Request returns the HTTP request.
func (p Params) Request() *http.Request { return p.ctx.Request() }

// Bind fills v the way MethodWith binds its input. Failures are 422 errors.
func (p Params) Bind(v any) error { return bindInput(p.ctx, v) }

// Verb methods of a resource. A resource implements any subset of them.
type (
	GetHandler interface {
		Get(ctx context.Context, p Params) (any, error)
	}
	PostHandler interface {
		Post(ctx context.Context, p Params) (any, error)
	}
	PutHandler interface {
		Put(ctx context.Context, p Params) (any, error)
	}
	PatchHandler interface {
		Patch(ctx context.Context, p Params) (any, error)
	}
	DeleteHandler interface {
		Delete(ctx context.Context, p Params) (any, error)
	}
	HeadHandler interface {
		Head(ctx context.Context, p Params) (any, error)
	}
	OptionsHandler interface {
		Options(ctx context.Context, p Params) (any, error)
	}
)

// Shaper lets a resource attach response shapes to its verb methods,
// keyed by HTTP method. A shape applies to every pattern of the resource.
type Shaper interface {
	Shapes() map[string]ResponseShape
}

type verb struct {
	method string
	fn     func(ctx context.Context, p Params) (any, error)
}

// verbs lists the verb methods of res in a fixed order.
func verbs(res any) []verb {
	var out []verb
	if h, ok := res.(GetHandler); ok {
		out = append(out, verb{http.MethodGet, h.Get})
	}
	if h, ok := res.(PostHandler); ok {
		out = append(out, verb{http.MethodPost, h.Post})
	}
	if h, ok := res.(PutHandler); ok {
		out = append(out, verb{http.MethodPut, h.Put})
	}
	if h, ok := res.(PatchHandler); ok {
		out = append(out, verb{http.MethodPatch, h.Patch})
	}
	if h, ok := res.(DeleteHandler); ok {
		out = append(out, verb{http.MethodDelete, h.Delete})
	}
	if h, ok := res.(HeadHandler); ok {
		out = append(out, verb{http.MethodHead, h.Head})
	}
	if h, ok := res.(OptionsHandler); ok {
		out = append(out, verb{http.MethodOptions, h.Options})
	}
	return out
}

// Register binds the verb methods of a constructed resource to every pattern.
// All patterns share the resource value; there is no dependency resolution.
// Routes are appended in pattern order, then verb order.
func Register[C handler.Context](r Registrar[C], res any, patterns ...string) error {
	return register(r, res, patterns, newOptions(nil))
}

func register[C handler.Context](r Registrar[C], res any, patterns []string, o *options) error {
	if len(patterns) == 0 {
		return fmt.Errorf("%w: %T", ErrNoPatterns, res)
	}
	vs := verbs(res)
	if len(vs) == 0 {
		return fmt.Errorf("%w: %T", ErrNoVerbMethods, res)
	}
	for _, v := range vs {
		if !r.Supports(v.method) {
			return fmt.Errorf("%w: %s on %T", ErrUnsupportedMethod, v.method, res)
		}
	}
	for _, pattern := range patterns {
		if err := router.ValidatePattern(o.prefix + pattern); err != nil {
			return fmt.Errorf("%T: %w", res, err)
		}
	}

	var shapes map[string]ResponseShape
	if s, ok := res.(Shaper); ok {
		shapes = s.Shapes()
	}

	name := fmt.Sprintf("%T", res)
	base := r.Len()
	i := 0
	for _, pattern := range patterns {
		for _, v := range vs {
			shape := shapes[v.method]
			fn := v.fn
			e := router.Entry[C]{
				Method:  v.method,
				Pattern: o.prefix + pattern,
				Endpoint: func(ctx C) (any, error) {
					return fn(ctx, Params{ctx: ctx})
				},
				Meta: router.Meta{
					Name:     name + "." + v.method,
					Schema:   shape.Schema,
					Envelope: shape.Envelope,
					Status:   shape.Status,
				},
			}
			if err := insert(r, base+i, e, o.logger); err != nil {
				return err
			}
			i++
		}
	}
	return nil
}

// API groups resources registered on one router, mirroring the
// add-resource style of building a service.
type API[C handler.Context] struct {
	r    Registrar[C]
	opts []Option
}

// NewAPI creates an API backed by r. The options apply to every resource.
func NewAPI[C handler.Context](r Registrar[C], opts ...Option) *API[C] {
	return &API[C]{r: r, opts: opts}
}

// AddResource registers res at the given patterns.
func (a *API[C]) AddResource(res any, patterns ...string) error {
	return register(a.r, res, patterns, newOptions(a.opts))
}

// MustAddResource is like AddResource but panics on error.
func (a *API[C]) MustAddResource(res any, patterns ...string) *API[C] {
	if err := a.AddResource(res, patterns...); err != nil {
		panic(err)
	}
	return a
}
