package demo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restful/integration/database/redis"
	"github.com/dmitrymomot/restful/internal/demo"
)

func testRepository(t *testing.T, repo demo.Repository) {
	t.Helper()
	ctx := context.Background()

	first, err := repo.Add(ctx, " lamp ", []string{"home"})
	require.NoError(t, err)
	assert.Equal(t, "lamp", first.Name)
	second, err := repo.Add(ctx, "desk", nil)
	require.NoError(t, err)

	_, err = repo.Add(ctx, "   ", nil)
	assert.Error(t, err)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	tagged, err := repo.List(ctx, "home")
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, first.ID, tagged[0].ID)

	got, err := repo.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "desk", got.Name)

	n, err := repo.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, repo.Delete(ctx, first.ID))
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), demo.ErrItemNotFound)
	_, err = repo.Get(ctx, first.ID)
	assert.ErrorIs(t, err, demo.ErrItemNotFound)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	testRepository(t, demo.NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	client, err := redis.Connect(context.Background(), redis.Config{
		ConnectionURL: url,
		RetryAttempts: 3,
		RetryInterval: 100 * time.Millisecond,
	}, nil)
	require.NoError(t, err)
	defer client.Close()

	prefix := "restful-test:" + uuid.NewString() + ":"
	t.Cleanup(func() {
		keys, _ := client.Keys(context.Background(), prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(context.Background(), keys...)
		}
	})

	testRepository(t, demo.NewRedisStore(client, prefix))
}
