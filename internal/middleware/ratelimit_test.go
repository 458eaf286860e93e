package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStorageForTest(t *testing.T) (*miniredis.Miniredis, *RedisStorage) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	return m, NewRedisStorage(client, "limiter:")
}

func TestRedisStorageRoundTrip(t *testing.T) {
	m, store := newRedisStorageForTest(t)
	defer store.Close()

	val, err := store.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, store.Set("k", []byte("v"), time.Minute))
	val, err = store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)
	assert.True(t, m.Exists("limiter:k"))

	m.FastForward(2 * time.Minute)
	val, err = store.Get("k")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, store.Set("a", []byte("1"), 0))
	require.NoError(t, store.Delete("a"))
	assert.False(t, m.Exists("limiter:a"))
}

func TestRedisStorageResetOnlyTouchesPrefix(t *testing.T) {
	m, store := newRedisStorageForTest(t)
	defer store.Close()

	require.NoError(t, m.Set("unrelated", "keep"))
	require.NoError(t, store.Set("x", []byte("1"), 0))
	require.NoError(t, store.Set("y", []byte("2"), 0))

	require.NoError(t, store.Reset())
	assert.False(t, m.Exists("limiter:x"))
	assert.False(t, m.Exists("limiter:y"))
	assert.True(t, m.Exists("unrelated"))
}

func TestRateLimitWithRedisStorage(t *testing.T) {
	_, store := newRedisStorageForTest(t)
	defer store.Close()

	app := fiber.New()
	app.Use(RateLimit("test", 2, store))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, fiber.StatusTooManyRequests}, codes)
}

func TestDialRedisStorage(t *testing.T) {
	m := miniredis.RunT(t)

	store, err := DialRedisStorage(context.Background(), "redis://"+m.Addr()+"/0", "limiter:")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Set("k", []byte("v"), 0))
	assert.True(t, m.Exists("limiter:k"))

	_, err = DialRedisStorage(context.Background(), "not-a-url", "limiter:")
	assert.Error(t, err)
}
