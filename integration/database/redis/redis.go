package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/restful/core/logger"
)

// Config is the connection configuration. An empty ConnectionURL means
// Redis is not used.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"restful:"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"1s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool { return c.ConnectionURL != "" }

// Connect opens a client and pings it until it answers, doubling the wait
// between attempts. The client is closed when no attempt succeeds.
func Connect(ctx context.Context, cfg Config, log *slog.Logger) (*goredis.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(cfg.ConnectionURL, "redis://") && !strings.HasPrefix(cfg.ConnectionURL, "rediss://") {
		return nil, fmt.Errorf("%w: scheme must be redis or rediss", ErrFailedToParseRedisConnString)
	}
	opts, err := goredis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = 1
	}
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	client := goredis.NewClient(opts)
	wait := cfg.RetryInterval
	for attempt := 1; ; attempt++ {
		err = client.Ping(ctx).Err()
		if err == nil {
			return client, nil
		}
		if attempt == cfg.RetryAttempts {
			break
		}
		log.WarnContext(ctx, "redis not ready",
			logger.Component("redis"),
			slog.Int("attempt", attempt),
			logger.Error(err),
		)
		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
	}
	_ = client.Close()
	return nil, errors.Join(ErrRedisNotReady, err)
}

// Healthcheck returns a readiness check that pings client.
func Healthcheck(client goredis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
