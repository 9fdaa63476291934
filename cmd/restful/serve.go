package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/restful/core/health"
	"github.com/dmitrymomot/restful/core/logger"
	"github.com/dmitrymomot/restful/core/server"
	"github.com/dmitrymomot/restful/core/tasks"
	"github.com/dmitrymomot/restful/integration/database/redis"
	"github.com/dmitrymomot/restful/internal/demo"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the demo API over HTTP",
	Long: `Serve the demo views on HTTP_ADDR until SIGINT or SIGTERM.

Besides the API under API_PREFIX, the server answers /livez, /readyz and,
when METRICS_ENABLED is set, /metrics.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store demo.Repository
	var redisCheck health.Check
	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis, log)
		if err != nil {
			return err
		}
		defer client.Close()
		store = demo.NewRedisStore(client, cfg.Redis.KeyPrefix)
		redisCheck = redis.Healthcheck(client)
	}

	app, err := newApplication(cfg, log, hostFlag, store)
	if err != nil {
		return err
	}
	if redisCheck != nil {
		app.readiness("redis", redisCheck)
	}

	stats := tasks.RepeatEvery(cfg.StatsInterval, app.statsTask,
		tasks.WithName("demo-stats"),
		tasks.WithLogger(log),
		tasks.WaitFirst(cfg.StatsInterval),
	)
	if err := stats.Start(ctx); err != nil {
		return fmt.Errorf("start stats task: %w", err)
	}
	app.readiness("stats", func(context.Context) error {
		select {
		case <-stats.Done():
			if err := stats.Err(); err != nil {
				return err
			}
			return errors.New("stats task stopped")
		default:
			return nil
		}
	})

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return err
	}

	log.Info("starting restful",
		logger.Version(version),
		logger.Component("cli"),
		logger.Count("routes", len(app.host.Routes())),
	)
	return srv.Run(ctx, app.host)
}
