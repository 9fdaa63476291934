package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/restful/core/config"
	"github.com/dmitrymomot/restful/core/handler"
	"github.com/dmitrymomot/restful/core/health"
	"github.com/dmitrymomot/restful/core/logger"
	"github.com/dmitrymomot/restful/core/response"
	"github.com/dmitrymomot/restful/core/router"
	"github.com/dmitrymomot/restful/core/view"
	"github.com/dmitrymomot/restful/integration/chihost"
	"github.com/dmitrymomot/restful/internal/demo"
	"github.com/dmitrymomot/restful/middleware"
)

// host is what both host routers offer to the CLI.
type host interface {
	http.Handler
	router.Routes
	view.Registrar[*router.Context]
	handle(method, pattern string, fn handler.HandlerFunc[*router.Context])
}

type routerHost struct{ router.Router[*router.Context] }

func (h routerHost) handle(method, pattern string, fn handler.HandlerFunc[*router.Context]) {
	h.Method(pattern, fn, method)
}

type chiHost struct{ *chihost.Host }

func (h chiHost) handle(method, pattern string, fn handler.HandlerFunc[*router.Context]) {
	h.Handle(method, pattern, fn)
}

type application struct {
	cfg      AppConfig
	log      *slog.Logger
	host     host
	demo     *demo.App
	registry *prometheus.Registry
	ready    map[string]health.Check
}

func loadConfig() (AppConfig, error) {
	var cfg AppConfig
	if err := config.Load(&cfg); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg AppConfig) *slog.Logger {
	opts := []logger.Option{logger.WithContextExtractors(middleware.RequestIDExtractor)}
	switch cfg.Env {
	case "production":
		opts = append(opts, logger.WithProduction(cfg.Service))
	case "staging":
		opts = append(opts, logger.WithStaging(cfg.Service))
	default:
		opts = append(opts, logger.WithDevelopment(cfg.Service))
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	}
	if cfg.LogFormat != "" {
		opts = append(opts, logger.WithFormat(logger.Format(strings.ToLower(cfg.LogFormat))))
	}
	return logger.New(opts...)
}

// newApplication builds the host selected by kind, composes the demo over
// store onto it and mounts the operational routes. A nil store keeps items in
// memory.
func newApplication(cfg AppConfig, log *slog.Logger, kind string, store demo.Repository) (*application, error) {
	app := &application{cfg: cfg, log: log, ready: map[string]health.Check{}}

	timing := middleware.TimingConfig{Logger: log}
	if cfg.MetricsEnabled {
		app.registry = prometheus.NewRegistry()
		app.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		hist, err := middleware.NewTimingHistogram(app.registry, "restful")
		if err != nil {
			return nil, fmt.Errorf("register timing histogram: %w", err)
		}
		timing.Histogram = hist
	}

	mws := []handler.Middleware[*router.Context]{
		middleware.RequestID[*router.Context](),
		middleware.LoggingWithLogger[*router.Context](log),
		middleware.TimingWithConfig[*router.Context](timing),
		middleware.BodyLimit[*router.Context](cfg.MaxBodyBytes),
	}

	switch kind {
	case "router", "":
		app.host = routerHost{router.New(
			router.WithLogger[*router.Context](log),
			router.WithErrorHandler[*router.Context](response.JSONErrorHandler[*router.Context]),
			router.WithMiddleware(mws...),
		)}
	case "chi":
		mux := chi.NewRouter()
		mux.Use(chimiddleware.RealIP, chimiddleware.Recoverer)
		app.host = chiHost{chihost.New(
			chihost.WithRouter(mux),
			chihost.WithLogger(log),
			chihost.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
			chihost.WithMiddleware(mws...),
		)}
	default:
		return nil, fmt.Errorf("unknown host %q: want router or chi", kind)
	}

	d, err := demo.Setup(app.host, store, cfg.Demo, log, cfg.Prefix)
	if err != nil {
		return nil, fmt.Errorf("compose demo: %w", err)
	}
	app.demo = d

	app.host.handle(http.MethodGet, "/livez", health.Liveness[*router.Context])
	app.host.handle(http.MethodGet, "/readyz", health.Readiness[*router.Context](log, app.ready))
	if app.registry != nil {
		metrics := promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{Registry: app.registry})
		app.host.handle(http.MethodGet, "/metrics", func(*router.Context) handler.Response {
			return func(w http.ResponseWriter, r *http.Request) error {
				metrics.ServeHTTP(w, r)
				return nil
			}
		})
	}

	return app, nil
}

// readiness adds a named check to /readyz.
func (a *application) readiness(name string, check health.Check) {
	a.ready[name] = check
}

func (a *application) statsTask(ctx context.Context) error {
	n, err := a.demo.Store.Len(ctx)
	if err != nil {
		return err
	}
	a.log.InfoContext(ctx, "demo stats",
		logger.Component("stats"),
		logger.Count("items", n),
		logger.Count("routes", len(a.host.Routes())),
	)
	return nil
}
