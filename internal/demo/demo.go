package demo

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/restful/core/di"
	"github.com/dmitrymomot/restful/core/router"
	"github.com/dmitrymomot/restful/core/view"
)

// Config tunes the demo application.
type Config struct {
	PageLimit int      `env:"DEMO_PAGE_LIMIT" envDefault:"50"`
	Sections  []string `env:"DEMO_SECTIONS" envDefault:"books,music,games"`
}

// App is the composed demo: a repository shared through the container and
// the views registered on a host.
type App struct {
	Store     Repository
	Container *di.Container
}

// Setup composes every demo view and resource onto r, under prefix. A nil
// store selects a MemoryStore.
func Setup(r view.Registrar[*router.Context], store Repository, cfg Config, log *slog.Logger, prefix string) (*App, error) {
	if store == nil {
		store = NewMemoryStore()
	}
	c := di.New(di.WithLogger(log))
	storeP := di.Provide(c, "store", func(context.Context, *di.Scope) (Repository, error) {
		return store, nil
	})

	opts := []view.Option{view.WithLogger(log), view.WithPrefix(prefix)}
	if _, err := view.Compose[*router.Context](r, c, ItemsView(storeP, cfg.PageLimit), opts...); err != nil {
		return nil, err
	}
	if _, err := view.Compose[*router.Context](r, c, WhoamiView(), opts...); err != nil {
		return nil, err
	}
	api := view.NewAPI[*router.Context](r, opts...)
	if err := api.AddResource(&Catalog{Sections: cfg.Sections}, "/catalog/?", "/catalog/{path:path}"); err != nil {
		return nil, err
	}
	return &App{Store: store, Container: c}, nil
}
