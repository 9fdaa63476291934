package main

import (
	"time"

	"github.com/dmitrymomot/restful/core/server"
	"github.com/dmitrymomot/restful/integration/database/redis"
	"github.com/dmitrymomot/restful/internal/demo"
)

// AppConfig is the process configuration.
type AppConfig struct {
	Env            string        `env:"APP_ENV" envDefault:"development"`
	Service        string        `env:"APP_SERVICE" envDefault:"restful"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT"`
	Prefix         string        `env:"API_PREFIX" envDefault:"/api"`
	MaxBodyBytes   int64         `env:"HTTP_MAX_BODY_BYTES" envDefault:"1048576"`
	MetricsEnabled bool          `env:"METRICS_ENABLED" envDefault:"true"`
	StatsInterval  time.Duration `env:"STATS_INTERVAL" envDefault:"1m"`

	Server server.Config
	Demo   demo.Config
	Redis  redis.Config
}
