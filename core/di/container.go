package di

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/restful/core/logger"
)

// keySeq makes keys unique across containers, so a provider issued by one
// container is never found in another.
var keySeq atomic.Uint64

// Key identifies a registered factory.
type Key struct {
	id   uint64
	name string
}

// Name returns the name the factory was registered with.
func (k Key) Name() string { return k.name }

// IsZero reports whether k was never issued by a container.
func (k Key) IsZero() bool { return k.id == 0 }

func (k Key) String() string { return fmt.Sprintf("%s#%d", k.name, k.id) }

// Factory builds a value for a scope. Factories resolve their own
// dependencies through s and must not retain it beyond the call.
type Factory func(ctx context.Context, s *Scope) (any, error)

// Provider is a typed handle to a registered factory.
type Provider[T any] struct {
	key Key
}

// Key returns the underlying registration key.
func (p Provider[T]) Key() Key { return p.key }

// IsZero reports whether p is the zero Provider.
func (p Provider[T]) IsZero() bool { return p.key.IsZero() }

func (p Provider[T]) String() string { return p.key.String() }

// ProviderOf wraps a key issued by Register into a typed provider.
// The type is checked on resolution.
func ProviderOf[T any](k Key) Provider[T] {
	return Provider[T]{key: k}
}

// Container holds factories. Values are built and cached per Scope.
type Container struct {
	mu        sync.RWMutex
	factories map[Key]Factory
	logger    *slog.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the container logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		factories: make(map[Key]Factory),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register adds a factory under a fresh key.
func (c *Container) Register(name string, f Factory) (Key, error) {
	if name == "" {
		return Key{}, fmt.Errorf("%w: empty name", ErrInvalidProvider)
	}
	if f == nil {
		return Key{}, fmt.Errorf("%w: nil factory for %q", ErrInvalidProvider, name)
	}

	k := Key{id: keySeq.Add(1), name: name}

	c.mu.Lock()
	c.factories[k] = f
	c.mu.Unlock()

	c.logger.Debug("provider registered",
		logger.Component("di"),
		slog.String("provider", k.String()),
	)
	return k, nil
}

// Lookup returns the factory registered under k.
func (c *Container) Lookup(k Key) (Factory, error) {
	c.mu.RLock()
	f, ok := c.factories[k]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, k)
	}
	return f, nil
}

// Has reports whether k is registered.
func (c *Container) Has(k Key) bool {
	_, err := c.Lookup(k)
	return err == nil
}

// Provide registers a typed factory. It panics on an empty name or nil fn,
// the same way the router panics on malformed routes.
func Provide[T any](c *Container, name string, fn func(ctx context.Context, s *Scope) (T, error)) Provider[T] {
	if fn == nil {
		panic(fmt.Errorf("%w: nil factory for %q", ErrInvalidProvider, name))
	}
	k, err := c.Register(name, func(ctx context.Context, s *Scope) (any, error) {
		return fn(ctx, s)
	})
	if err != nil {
		panic(err)
	}
	return Provider[T]{key: k}
}

// Value registers a provider that always yields v.
func Value[T any](c *Container, name string, v T) Provider[T] {
	return Provide(c, name, func(context.Context, *Scope) (T, error) {
		return v, nil
	})
}
