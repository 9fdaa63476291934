// Package config loads environment variables into typed structs with
// caarlos0/env. A .env file in the working directory is read on first use.
//
//	type ServerConfig struct {
//		Addr     string `env:"HTTP_ADDR" envDefault:":8080"`
//		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
//
//	var cfg ServerConfig
//	config.MustLoad(&cfg)
//
// Each struct type is parsed once per process. Later loads of the same type
// return the cached value; different types are cached independently. Reset
// clears the cache, which tests use after changing the environment.
package config
