package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/jhoicas/Comercio-api/internal/domain"
)

func TestNoop_NuncaEncuentra(t *testing.T) {
	ctx := context.Background()
	var c Noop
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	_, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.DeletePrefix(ctx, "k"))
}

// redisClient levanta un redis:7 efímero; sin Docker la prueba se salta.
func redisClient(t *testing.T) *RedisCache {
	t.Helper()
	if testing.Short() {
		t.Skip("integración: omitida con -short")
	}
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Skipf("docker no disponible: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })
	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	c := NewRedisCache(NewClient(endpoint, "", 0))
	require.NoError(t, c.Ping(context.Background()))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCache_GetSetDeletePrefix(t *testing.T) {
	c := redisClient(t)
	ctx := context.Background()
	prefix := "test:" + uuid.NewString() + ":"

	_, found, err := c.Get(ctx, prefix+"a")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, prefix+"a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, prefix+"b", []byte("2"), time.Minute))
	val, found, err := c.Get(ctx, prefix+"a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "1", string(val))

	require.NoError(t, c.DeletePrefix(ctx, prefix))
	_, found, err = c.Get(ctx, prefix+"b")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisLocker_Exclusion(t *testing.T) {
	c := redisClient(t)
	ctx := context.Background()
	l := NewRedisLocker(c.client)
	key := "test:lock:" + uuid.NewString()

	release, err := l.Obtain(ctx, key, 5*time.Second)
	require.NoError(t, err)

	_, err = l.Obtain(ctx, key, 5*time.Second)
	assert.ErrorIs(t, err, domain.ErrLocked)

	require.NoError(t, release(ctx))
	again, err := l.Obtain(ctx, key, 5*time.Second)
	require.NoError(t, err)
	assert.NoError(t, again(ctx))
	assert.NoError(t, again(ctx), "liberar dos veces no falla")
}
