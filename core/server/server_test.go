package server_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restful/core/server"
)

func hello() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "hello")
	})
}

func waitListening(t *testing.T, srv *server.Server) string {
	t.Helper()
	var addr string
	require.Eventually(t, func() bool {
		addr = srv.Addr()
		return addr != "127.0.0.1:0"
	}, time.Second, 5*time.Millisecond)
	return addr
}

func TestServer(t *testing.T) {
	t.Parallel()

	t.Run("serves_until_cancelled", func(t *testing.T) {
		t.Parallel()

		srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(time.Second))
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- srv.Run(ctx, hello()) }()

		addr := waitListening(t, srv)
		resp, err := http.Get("http://" + addr + "/")
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		assert.Equal(t, "hello", string(body))

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("server did not stop")
		}
	})

	t.Run("rejects_second_start", func(t *testing.T) {
		t.Parallel()

		srv := server.New("127.0.0.1:0")
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() { _ = srv.Start(ctx, hello()) }()
		waitListening(t, srv)

		assert.ErrorIs(t, srv.Start(ctx, hello()), server.ErrServerAlreadyRunning)
		assert.NoError(t, srv.Stop())
		assert.NoError(t, srv.Stop())
	})

	t.Run("listen_failure", func(t *testing.T) {
		t.Parallel()

		srv := server.New("256.0.0.1:bad")
		assert.ErrorIs(t, srv.Start(context.Background(), hello()), server.ErrListen)
	})

	t.Run("config", func(t *testing.T) {
		t.Parallel()

		_, err := server.NewFromConfig(server.Config{})
		assert.ErrorIs(t, err, server.ErrMissingAddress)

		srv, err := server.NewFromConfig(server.Config{Addr: ":9999", ReadTimeout: time.Second})
		require.NoError(t, err)
		assert.Equal(t, ":9999", srv.Addr())
	})
}
