// File: internal/ratelimit/ratelimit.go

// Package ratelimit throttles callers with fixed counting windows held in
// memory. A caller that goes over its allowance is blocked for a cooldown.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

type Config struct {
	Window     time.Duration // length of one counting window
	PerWindow  int           // requests allowed per window
	Cooldown   time.Duration // block applied once PerWindow is exceeded
	SweepEvery time.Duration // how often stale keys are dropped
}

// DefaultSubmitConfig allows perMinute message submissions per workspace.
func DefaultSubmitConfig(perMinute int) *Config {
	if perMinute <= 0 {
		perMinute = 20
	}
	return &Config{
		Window:     time.Minute,
		PerWindow:  perMinute,
		Cooldown:   time.Minute,
		SweepEvery: 5 * time.Minute,
	}
}

// DefaultSessionConfig limits sign-in attempts per client IP.
func DefaultSessionConfig() *Config {
	return &Config{
		Window:     15 * time.Minute,
		PerWindow:  30,
		Cooldown:   15 * time.Minute,
		SweepEvery: 30 * time.Minute,
	}
}

// RateLimitInfo describes the caller's standing after one Allow call.
type RateLimitInfo struct {
	Allowed    bool
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
	Banned     bool
}

type bucket struct {
	start        time.Time
	used         int
	blockedUntil time.Time
}

func (b *bucket) stale(now time.Time, window time.Duration) bool {
	return !now.Before(b.start.Add(window)) && !now.Before(b.blockedUntil)
}

// MemoryRateLimiter keeps one bucket per key. Keys are opaque; the HTTP
// middleware uses "owner:<id>" and "ip:<addr>".
type MemoryRateLimiter struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

func NewMemoryRateLimiter(config *Config) *MemoryRateLimiter {
	return newMemoryRateLimiter(config, time.Now)
}

func newMemoryRateLimiter(config *Config, now func() time.Time) *MemoryRateLimiter {
	rl := &MemoryRateLimiter{
		cfg:     *config,
		now:     now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// Allow counts one request for key and reports whether it may proceed.
func (rl *MemoryRateLimiter) Allow(key string) (bool, *RateLimitInfo) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b := rl.buckets[key]
	if b != nil && now.Before(b.blockedUntil) {
		return false, &RateLimitInfo{
			ResetTime:  b.blockedUntil,
			RetryAfter: b.blockedUntil.Sub(now),
			Banned:     true,
		}
	}
	// A finished window or an expired block starts a fresh count.
	if b == nil || !b.blockedUntil.IsZero() || !now.Before(b.start.Add(rl.cfg.Window)) {
		b = &bucket{start: now}
		rl.buckets[key] = b
	}

	b.used++
	if b.used > rl.cfg.PerWindow {
		b.blockedUntil = now.Add(rl.cfg.Cooldown)
		return false, &RateLimitInfo{
			ResetTime:  b.blockedUntil,
			RetryAfter: rl.cfg.Cooldown,
			Banned:     true,
		}
	}
	return true, &RateLimitInfo{
		Allowed:   true,
		Remaining: rl.cfg.PerWindow - b.used,
		ResetTime: b.start.Add(rl.cfg.Window),
	}
}

// Reset forgets key, block included.
func (rl *MemoryRateLimiter) Reset(key string) {
	rl.mu.Lock()
	delete(rl.buckets, key)
	rl.mu.Unlock()
}

// Limit returns the number of requests allowed per window.
func (rl *MemoryRateLimiter) Limit() int {
	return rl.cfg.PerWindow
}

func (rl *MemoryRateLimiter) sweepLoop() {
	ticker := time.NewTicker(rl.cfg.SweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

func (rl *MemoryRateLimiter) sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	dropped := 0
	for key, b := range rl.buckets {
		if b.stale(now, rl.cfg.Window) {
			delete(rl.buckets, key)
			dropped++
		}
	}
	return dropped
}

// Close stops the sweeper. Safe to call more than once.
func (rl *MemoryRateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// ClientIP returns the first parseable address from X-Forwarded-For, then
// X-Real-IP, then the connection's remote host.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
