package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once

	mu    sync.Mutex
	cache = make(map[reflect.Type]any)
)

// Load fills cfg from the environment. The first call reads .env from the
// working directory if it exists; variables already set are not overridden.
// Each struct type is parsed once and later calls copy the cached value.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return fmt.Errorf("config: nil %T", cfg)
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	typ := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := cache[typ]; ok {
		*cfg = cached.(T)
		return nil
	}

	var v T
	if err := env.Parse(&v); err != nil {
		return fmt.Errorf("config: parse %s: %w", typ, err)
	}
	cache[typ] = v
	*cfg = v
	return nil
}

// MustLoad is like Load but panics on error. Use it at startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Reset drops every cached value so the next Load parses again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	clear(cache)
}
