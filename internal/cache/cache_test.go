package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/cache"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c := cache.NewRedisWithClient(setupRedis(t))
	defer c.Close()

	type entry struct {
		Name string `json:"name"`
	}

	t.Run("Miss", func(t *testing.T) {
		var got entry
		assert.ErrorIs(t, c.Get(ctx, "missing", &got), cache.ErrCacheMiss)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "repo", entry{Name: "api"}, time.Minute))

		var got entry
		require.NoError(t, c.Get(ctx, "repo", &got))
		assert.Equal(t, "api", got.Name)
	})

	t.Run("Expires", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "short", entry{Name: "x"}, 100*time.Millisecond))
		time.Sleep(300 * time.Millisecond)

		var got entry
		assert.ErrorIs(t, c.Get(ctx, "short", &got), cache.ErrCacheMiss)
	})
}

func TestNop(t *testing.T) {
	var n cache.Nop
	require.NoError(t, n.Set(context.Background(), "k", 1, time.Minute))

	var v int
	assert.ErrorIs(t, n.Get(context.Background(), "k", &v), cache.ErrCacheMiss)
}
