package view

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/dmitrymomot/restful/core/di"
)

// Kind tells where a dependency is delivered.
type Kind int

const (
	// KindParam is a constructor parameter, delivered through Args.
	KindParam Kind = iota
	// KindField is assigned to the instance after construction.
	KindField
	// KindDeclared is a bare field declaration. It is never resolved or assigned.
	KindDeclared
)

func (k Kind) String() string {
	switch k {
	case KindParam:
		return "param"
	case KindField:
		return "field"
	default:
		return "declared"
	}
}

// Source tells how a dependency value is obtained.
type Source int

const (
	// SourceNone marks bare declarations.
	SourceNone Source = iota
	// SourceProvider resolves the value through the request scope.
	SourceProvider
	// SourceDefault uses a literal value fixed at declaration time.
	SourceDefault
	// SourceQuery reads a required value from the request query string.
	SourceQuery
)

func (s Source) String() string {
	switch s {
	case SourceProvider:
		return "provider"
	case SourceDefault:
		return "default"
	case SourceQuery:
		return "query"
	default:
		return "none"
	}
}

// Dependency describes one declared dependency of a class.
type Dependency struct {
	Name     string
	Kind     Kind
	Source   Source
	Type     reflect.Type
	Provider di.Key
	Default  any
}

type resolveFunc func(ctx context.Context, s *di.Scope) (any, error)

type dependency[T any] struct {
	Dependency
	resolve resolveFunc
	assign  func(*T, any)
}

// Class collects the declarations of a view type T: constructor, dependencies
// and routed methods. Declarations are made once, before Compose.
//
// Class is not safe for concurrent use.
type Class[T any] struct {
	name    string
	ctor    func(Args) (*T, error)
	deps    []dependency[T]
	methods []*method[T]
	seq     int
	errs    []error

	container *di.Container
	provider  di.Provider[*T]
}

// Define starts the declaration of a view type. A nil ctor allocates a zero T.
// An empty name defaults to the type name.
func Define[T any](name string, ctor func(Args) (*T, error)) *Class[T] {
	if name == "" {
		name = reflect.TypeFor[T]().Name()
	}
	if ctor == nil {
		ctor = func(Args) (*T, error) { return new(T), nil }
	}
	return &Class[T]{name: name, ctor: ctor}
}

// Name returns the class name used in route names and logs.
func (c *Class[T]) Name() string { return c.name }

// Provider returns the provider of the request-scoped instance.
// It is the zero Provider until the class is composed.
func (c *Class[T]) Provider() di.Provider[*T] { return c.provider }

// Param declares a constructor parameter resolved from p.
func Param[T, V any](c *Class[T], name string, p di.Provider[V]) {
	if p.IsZero() {
		c.fail(fmt.Errorf("%w: %s.%s has no provider", ErrMalformedDependency, c.name, name))
		return
	}
	key := p.Key()
	c.add(dependency[T]{
		Dependency: Dependency{Name: name, Kind: KindParam, Source: SourceProvider, Type: reflect.TypeFor[V](), Provider: key},
		resolve:    func(ctx context.Context, s *di.Scope) (any, error) { return s.Get(ctx, key) },
	})
}

// ParamDefault declares a constructor parameter with a literal value.
func ParamDefault[T, V any](c *Class[T], name string, v V) {
	c.add(dependency[T]{
		Dependency: Dependency{Name: name, Kind: KindParam, Source: SourceDefault, Type: reflect.TypeFor[V](), Default: v},
		resolve:    func(context.Context, *di.Scope) (any, error) { return v, nil },
	})
}

// ParamQuery declares a required constructor parameter read from the query
// string. A request without it fails with ErrMissingParameter (422).
func ParamQuery[T any](c *Class[T], name string) {
	c.add(dependency[T]{
		Dependency: Dependency{Name: name, Kind: KindParam, Source: SourceQuery, Type: reflect.TypeFor[string]()},
		resolve: func(ctx context.Context, _ *di.Scope) (any, error) {
			r := Request(ctx)
			if r == nil || !r.URL.Query().Has(name) {
				return nil, missingParameter(name)
			}
			return r.URL.Query().Get(name), nil
		},
	})
}

// Field declares a field resolved from p and assigned with set after construction.
func Field[T, V any](c *Class[T], name string, p di.Provider[V], set func(*T, V)) {
	if p.IsZero() || set == nil {
		c.fail(fmt.Errorf("%w: %s.%s needs a provider and a setter", ErrMalformedDependency, c.name, name))
		return
	}
	key := p.Key()
	c.add(dependency[T]{
		Dependency: Dependency{Name: name, Kind: KindField, Source: SourceProvider, Type: reflect.TypeFor[V](), Provider: key},
		resolve:    func(ctx context.Context, s *di.Scope) (any, error) { return s.Get(ctx, key) },
		assign:     assignTo(set),
	})
}

// FieldDefault declares a field assigned a literal value after construction.
func FieldDefault[T, V any](c *Class[T], name string, v V, set func(*T, V)) {
	if set == nil {
		c.fail(fmt.Errorf("%w: %s.%s needs a setter", ErrMalformedDependency, c.name, name))
		return
	}
	c.add(dependency[T]{
		Dependency: Dependency{Name: name, Kind: KindField, Source: SourceDefault, Type: reflect.TypeFor[V](), Default: v},
		resolve:    func(context.Context, *di.Scope) (any, error) { return v, nil },
		assign:     assignTo(set),
	})
}

// Declare records a bare field. It takes part in name checks and shows up in
// Describe, but is never resolved or assigned; model it with Opt.
func Declare[T any](c *Class[T], name string) {
	c.add(dependency[T]{
		Dependency: Dependency{Name: name, Kind: KindDeclared, Source: SourceNone},
	})
}

func assignTo[T, V any](set func(*T, V)) func(*T, any) {
	return func(inst *T, v any) {
		typed, _ := v.(V)
		set(inst, typed)
	}
}

func (c *Class[T]) add(d dependency[T]) {
	if d.Name == "" {
		c.fail(fmt.Errorf("%w: %s has a dependency without a name", ErrMalformedDependency, c.name))
		return
	}
	if slices.ContainsFunc(c.deps, func(e dependency[T]) bool { return e.Name == d.Name }) {
		c.fail(fmt.Errorf("%w: %s.%s", ErrDuplicateDependency, c.name, d.Name))
		return
	}
	c.deps = append(c.deps, d)
}

func (c *Class[T]) fail(err error) {
	c.errs = append(c.errs, err)
}

// activate builds an instance: constructor parameters in declaration order,
// the constructor, then field dependencies in declaration order.
func (c *Class[T]) activate(ctx context.Context, s *di.Scope) (any, error) {
	args := Args{values: make(map[string]any)}
	for i := range c.deps {
		d := &c.deps[i]
		if d.Kind != KindParam {
			continue
		}
		v, err := d.resolve(ctx, s)
		if err != nil {
			return nil, err
		}
		args.names = append(args.names, d.Name)
		args.values[d.Name] = v
	}

	inst, err := c.ctor(args)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilInstance, c.name)
	}

	for i := range c.deps {
		d := &c.deps[i]
		if d.Kind != KindField {
			continue
		}
		v, err := d.resolve(ctx, s)
		if err != nil {
			return nil, err
		}
		d.assign(inst, v)
	}
	return inst, nil
}

// Args carries resolved constructor parameters.
type Args struct {
	names  []string
	values map[string]any
}

// Names returns the parameter names in declaration order.
func (a Args) Names() []string { return slices.Clone(a.names) }

// Lookup returns the named parameter when it exists and has type V.
func Lookup[V any](a Args, name string) (V, bool) {
	v, ok := a.values[name].(V)
	return v, ok
}

// Arg returns the named parameter, or the zero V.
func Arg[V any](a Args, name string) V {
	v, _ := Lookup[V](a, name)
	return v
}
