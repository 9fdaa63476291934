package demo

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/restful/core/response"
)

var (
	// ErrItemNotFound is a 404 through response.HTTPError.
	ErrItemNotFound = response.ErrNotFound.WithMessage("item not found")

	errEmptyName = errors.New("empty item name")
)

// Item is a stored record.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository stores items in insertion order.
type Repository interface {
	List(ctx context.Context, tag string) ([]Item, error)
	Get(ctx context.Context, id string) (Item, error)
	Add(ctx context.Context, name string, tags []string) (Item, error)
	Delete(ctx context.Context, id string) error
	Len(ctx context.Context) (int, error)
}

func newItem(name string, tags []string, now time.Time) (Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Item{}, errEmptyName
	}
	return Item{ID: uuid.NewString(), Name: name, Tags: tags, CreatedAt: now.UTC()}, nil
}

func hasTag(it Item, tag string) bool {
	return tag == "" || slices.Contains(it.Tags, tag)
}

// MemoryStore keeps items in memory. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	items []Item
	now   func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) List(_ context.Context, tag string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if hasTag(it, tag) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, ErrItemNotFound
}

func (s *MemoryStore) Add(_ context.Context, name string, tags []string) (Item, error) {
	it, err := newItem(name, tags, s.now())
	if err != nil {
		return Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, it)
	return it, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.items, func(it Item) bool { return it.ID == id })
	if i < 0 {
		return ErrItemNotFound
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

func (s *MemoryStore) Len(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items), nil
}
