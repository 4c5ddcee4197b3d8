package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowAndRefill(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rl := NewRateLimiter(3, 3*time.Second, clock)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"))
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "buckets are per key")

	clock.Advance(time.Second)
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiter_Sweep(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rl := NewRateLimiter(5, time.Minute, clock)
	rl.Allow("a")
	clock.Advance(20 * time.Minute)
	rl.Allow("b")
	clock.Advance(15 * time.Minute)

	assert.Equal(t, 1, rl.Sweep(30*time.Minute))
	assert.Len(t, rl.buckets, 1)
}

func TestRateLimit_Middleware(t *testing.T) {
	clock := clockwork.NewFakeClock()
	app := fiber.New()
	app.Use(RateLimit(NewRateLimiter(1, time.Minute, clock), ""))
	app.Get("/api/leaderboard", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/js/leaderboard.js", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	get := func(path string) int {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, get("/api/leaderboard"))
	assert.Equal(t, http.StatusTooManyRequests, get("/api/leaderboard"))
	assert.Equal(t, http.StatusOK, get("/health"))
	assert.Equal(t, http.StatusOK, get("/health"))
	assert.Equal(t, http.StatusOK, get("/js/leaderboard.js"))
	assert.Equal(t, http.StatusOK, get("/js/leaderboard.js"))
}
