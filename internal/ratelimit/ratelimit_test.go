package ratelimit

import (
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, perMinute int) (*MemoryRateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)}
	rl := newMemoryRateLimiter(DefaultSubmitConfig(perMinute), clock.Now)
	t.Cleanup(rl.Close)
	return rl, clock
}

func TestAllowWithinWindow(t *testing.T) {
	rl, _ := newTestLimiter(t, 3)

	for i := 0; i < 3; i++ {
		ok, info := rl.Allow("owner:a")
		require.True(t, ok, "attempt %d", i+1)
		assert.Equal(t, 2-i, info.Remaining)
	}

	ok, info := rl.Allow("owner:a")
	assert.False(t, ok)
	assert.True(t, info.Banned)
	assert.Equal(t, time.Minute, info.RetryAfter)

	ok, _ = rl.Allow("owner:b")
	assert.True(t, ok, "other keys are unaffected")
}

func TestBlockedCallerCountsDown(t *testing.T) {
	rl, clock := newTestLimiter(t, 1)

	ok, _ := rl.Allow("x")
	require.True(t, ok)
	ok, _ = rl.Allow("x")
	require.False(t, ok)

	clock.Advance(20 * time.Second)
	ok, info := rl.Allow("x")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, info.RetryAfter)

	clock.Advance(41 * time.Second)
	ok, info = rl.Allow("x")
	assert.True(t, ok)
	assert.Equal(t, 0, info.Remaining)
}

func TestWindowRollsOver(t *testing.T) {
	rl, clock := newTestLimiter(t, 2)

	rl.Allow("x")
	rl.Allow("x")
	clock.Advance(time.Minute)
	ok, info := rl.Allow("x")
	assert.True(t, ok)
	assert.Equal(t, 1, info.Remaining)
}

func TestResetAndSweep(t *testing.T) {
	rl, clock := newTestLimiter(t, 1)

	rl.Allow("x")
	rl.Allow("x")
	rl.Reset("x")
	ok, _ := rl.Allow("x")
	assert.True(t, ok)

	rl.Allow("y")
	rl.Allow("y") // blocked for a minute
	clock.Advance(30 * time.Second)
	assert.Equal(t, 0, rl.sweep(), "live windows and blocks survive")

	clock.Advance(10 * time.Minute)
	assert.Equal(t, 2, rl.sweep())
}

func TestDefaultSubmitConfigFallback(t *testing.T) {
	assert.Equal(t, 20, DefaultSubmitConfig(0).PerWindow)
	rl := NewMemoryRateLimiter(DefaultSubmitConfig(7))
	assert.Equal(t, 7, rl.Limit())
	rl.Close()
	rl.Close()
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", ClientIP(r))

	r.Header.Set("X-Real-IP", "192.0.2.7")
	assert.Equal(t, "192.0.2.7", ClientIP(r))

	r.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.2")
	assert.Equal(t, "203.0.113.9", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "garbage")
	assert.Equal(t, "192.0.2.7", ClientIP(r), "unparseable forwarded values are skipped")
}
