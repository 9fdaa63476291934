package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restful/core/logger"
)

type ctxKey struct{}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json_with_attrs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithJSONFormatter(),
			logger.WithOutput(&buf),
			logger.WithAttr(slog.String("service", "api")),
		)
		log.Info("served", logger.Component("router"), logger.Route(""))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "served", rec["msg"])
		assert.Equal(t, "api", rec["service"])
		assert.Equal(t, "router", rec["component"])
		assert.NotContains(t, rec, "route")
	})

	t.Run("level_filters_records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))
		log.Info("hidden")
		log.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("development_preset_logs_debug_text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithDevelopment("restful"), logger.WithOutput(&buf))
		log.Debug("tick")

		assert.Contains(t, buf.String(), "msg=tick")
		assert.Contains(t, buf.String(), "service=restful")
	})

	t.Run("context_values_are_added", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithJSONFormatter(),
			logger.WithOutput(&buf),
			logger.WithContextValue("request_id", ctxKey{}),
		).With(logger.Component("test"))

		ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
		log.InfoContext(ctx, "with")
		log.InfoContext(context.Background(), "without")

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 2)
		assert.Contains(t, string(lines[0]), `"request_id":"req-1"`)
		assert.NotContains(t, string(lines[1]), "request_id")
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, logger.ParseLevel(in), in)
	}
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	assert.Equal(t, "error", logger.Error(errors.New("x")).Key)
	assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))
	assert.Len(t, logger.Errors(nil, errors.New("a"), errors.New("b")).Value.Group(), 2)
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.Equal(t, "route", logger.Route("Items.List").Key)
}
