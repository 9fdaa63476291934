package di

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Scope caches resolved values for one unit of work, usually one request.
// Resolving the same key twice in a scope returns the first value.
type Scope struct {
	id     uuid.UUID
	c      *Container
	mu     sync.Mutex
	values map[Key]any
}

// NewScope creates an empty scope bound to the container.
func (c *Container) NewScope() *Scope {
	return &Scope{
		id:     uuid.New(),
		c:      c,
		values: make(map[Key]any),
	}
}

// ID returns the scope identifier.
func (s *Scope) ID() uuid.UUID { return s.id }

// Container returns the container the scope resolves from.
func (s *Scope) Container() *Container { return s.c }

// Get resolves k, building it on first use. Factory errors are returned as-is.
func (s *Scope) Get(ctx context.Context, k Key) (any, error) {
	s.mu.Lock()
	if v, ok := s.values[k]; ok {
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	chain, _ := ctx.Value(resolvingKey{}).([]Key)
	if slices.Contains(chain, k) {
		return nil, fmt.Errorf("%w: %s", ErrCircularDependency, describeChain(append(chain, k)))
	}

	f, err := s.c.Lookup(k)
	if err != nil {
		return nil, err
	}

	// The lock is not held while building so factories can resolve their own dependencies.
	v, err := f(context.WithValue(ctx, resolvingKey{}, append(slices.Clone(chain), k)), s)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.values[k]; ok {
		return prev, nil
	}
	s.values[k] = v
	return v, nil
}

// Resolved reports whether k already has a cached value in the scope.
func (s *Scope) Resolved(k Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[k]
	return ok
}

// Resolve returns the value of p in scope s.
func Resolve[T any](ctx context.Context, s *Scope, p Provider[T]) (T, error) {
	var zero T
	v, err := s.Get(ctx, p.key)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrTypeMismatch, p.key, v)
	}
	return t, nil
}

type resolvingKey struct{}

func describeChain(keys []Key) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.name
	}
	return strings.Join(names, " -> ")
}
