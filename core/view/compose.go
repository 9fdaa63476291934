package view

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"slices"
	"strings"

	"github.com/dmitrymomot/restful/core/di"
	"github.com/dmitrymomot/restful/core/handler"
	"github.com/dmitrymomot/restful/core/logger"
	"github.com/dmitrymomot/restful/core/router"
)

// Registrar is the host router capability the engine needs: an ordered
// table that accepts inserts at a position. router.Router and chihost.Host
// implement it.
type Registrar[C handler.Context] interface {
	Supports(method string) bool
	Len() int
	Insert(pos int, e router.Entry[C]) error
}

type options struct {
	logger *slog.Logger
	prefix string
}

// Option configures Compose and Register.
type Option func(*options)

// WithLogger sets the logger used to report inserted routes.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPrefix prepends prefix to every pattern.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = strings.TrimSuffix(prefix, "/")
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Compose registers the routed methods of cls with r.
//
// The instance factory is registered with c and every route resolves the
// instance through the request scope of c, so all routes of the class share
// one instance per request. Routes are inserted after the entries r already
// has, in declaration order, so the first declared match wins.
//
// Composition fails before anything is registered when cls has declaration errors,
// declares no routes, uses a method r does not support or a malformed
// pattern, or depends on a provider c does not know. In the last case the resolver error is returned
// as-is.
func Compose[C handler.Context, T any](r Registrar[C], c *di.Container, cls *Class[T], opts ...Option) (*Class[T], error) {
	o := newOptions(opts)

	if len(cls.errs) > 0 {
		return cls, errors.Join(cls.errs...)
	}
	if cls.container != nil && cls.container != c {
		return cls, fmt.Errorf("%w: %s", ErrAlreadyComposed, cls.name)
	}

	specs := cls.specs()
	if len(specs) == 0 {
		return cls, fmt.Errorf("%w: %s", ErrNoRoutes, cls.name)
	}
	for _, s := range specs {
		if !r.Supports(s.Method) {
			return cls, fmt.Errorf("%w: %s %s (%s)", ErrUnsupportedMethod, s.Method, s.Pattern, s.Name)
		}
		if err := router.ValidatePattern(o.prefix + s.Pattern); err != nil {
			return cls, fmt.Errorf("%s: %w", s.Name, err)
		}
	}

	for _, d := range cls.deps {
		if d.Source != SourceProvider {
			continue
		}
		if _, err := c.Lookup(d.Provider); err != nil {
			return cls, err
		}
	}

	if cls.container == nil {
		key, err := c.Register(cls.name, cls.activate)
		if err != nil {
			return cls, err
		}
		cls.container = c
		cls.provider = di.ProviderOf[*T](key)
	}

	base := r.Len()
	for i, s := range specs {
		m := cls.methods[s.method]
		e := router.Entry[C]{
			Method:   s.Method,
			Pattern:  o.prefix + s.Pattern,
			Endpoint: adapt[C](c, cls.provider, m.invoke),
			Meta: router.Meta{
				Name:     s.Name,
				Schema:   s.Schema,
				Envelope: s.Envelope,
				Status:   s.Status,
			},
		}
		if err := insert(r, base+i, e, o.logger); err != nil {
			return cls, err
		}
	}
	return cls, nil
}

// MustCompose is like Compose but panics on error.
func MustCompose[C handler.Context, T any](r Registrar[C], c *di.Container, cls *Class[T], opts ...Option) *Class[T] {
	cls, err := Compose(r, c, cls, opts...)
	if err != nil {
		panic(err)
	}
	return cls
}

// adapt turns a method into a table endpoint that resolves the shared
// instance from the request scope and returns the method result verbatim.
func adapt[C handler.Context, T any](c *di.Container, p di.Provider[*T], invoke invokeFunc[T]) handler.Endpoint[C] {
	return func(ctx C) (any, error) {
		s := di.RequestScope(ctx, c)
		inst, err := di.Resolve(withRequest(ctx), s, p)
		if err != nil {
			return nil, err
		}
		return invoke(ctx, inst)
	}
}

// insert places e at pos, clamped to the current table length. Entries that
// replace an existing route shrink the table, so a later position may no
// longer exist; clamping keeps declaration order in that case.
func insert[C handler.Context](r Registrar[C], pos int, e router.Entry[C], log *slog.Logger) error {
	if n := r.Len(); pos > n {
		pos = n
	}
	if err := r.Insert(pos, e); err != nil {
		return err
	}
	log.Debug("route registered",
		logger.Component("view"),
		logger.Method(e.Method),
		slog.String("pattern", e.Pattern),
		slog.String("name", e.Meta.Name),
		slog.Int("position", pos),
	)
	return nil
}

type indexedSpec struct {
	RouteSpec
	method int
}

// specs returns all route specs ordered by declaration sequence.
func (c *Class[T]) specs() []indexedSpec {
	var out []indexedSpec
	for i, m := range c.methods {
		for _, rs := range m.routes {
			out = append(out, indexedSpec{RouteSpec: rs, method: i})
		}
	}
	slices.SortStableFunc(out, func(a, b indexedSpec) int { return a.Seq - b.Seq })
	return out
}

// Descriptor is a static snapshot of a class declaration.
type Descriptor struct {
	Name         string
	Type         reflect.Type
	Methods      []MethodBinding
	Params       []Dependency
	Fields       []Dependency
	Declarations []Dependency
}

// Describe returns the declaration snapshot of the class.
func (c *Class[T]) Describe() Descriptor {
	d := Descriptor{Name: c.name, Type: reflect.TypeFor[T]()}
	for _, m := range c.methods {
		d.Methods = append(d.Methods, MethodBinding{Name: m.name, Routes: slices.Clone(m.routes)})
	}
	for _, dep := range c.deps {
		switch dep.Kind {
		case KindParam:
			d.Params = append(d.Params, dep.Dependency)
		case KindField:
			d.Fields = append(d.Fields, dep.Dependency)
		default:
			d.Declarations = append(d.Declarations, dep.Dependency)
		}
	}
	return d
}
