package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	assert.False(t, allowed, "11th request is denied")
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
	assert.True(t, info.ResetTime.After(time.Now()))
}

func TestLimiter_Whitelist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
	})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"10.0.0.1": true},
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("10.0.0.1", "/test", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false, DefaultLimit: 1})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/test", "GET")
		assert.True(t, allowed)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer limiter.Stop()

	// generate-pdf has a burst of 5
	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/generate-pdf", "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 30, info.Limit)
	}
	allowed, _ := limiter.Allow("127.0.0.1", "/generate-pdf", "POST")
	assert.False(t, allowed)

	// Other endpoints and clients keep their own buckets.
	allowed, info := limiter.Allow("127.0.0.1", "/history", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 100, info.Limit)

	allowed, _ = limiter.Allow("127.0.0.2", "/generate-pdf", "POST")
	assert.True(t, allowed)
}

func TestLimiter_HealthEndpointsUnlimited(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Hour})
	defer limiter.Stop()

	for i := 0; i < 20; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/health", "GET")
		require.True(t, allowed)
		allowed, _ = limiter.Allow("127.0.0.1", "/metrics", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})
	defer limiter.Stop()

	var allowedCount atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("127.0.0.1", "/test", "GET"); ok {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	// Refill over an hour window is negligible during the test.
	assert.Equal(t, int64(50), allowedCount.Load())
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, IdleTTL: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		limiter.Allow(fmt.Sprintf("10.0.0.%d", i), "/test", "GET")
	}
	limiter.cleanupBuckets(time.Now())
	assert.Len(t, limiter.buckets, 3, "recent buckets kept")

	limiter.cleanupBuckets(time.Now().Add(2 * time.Minute))
	assert.Empty(t, limiter.buckets)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 600, info.Limit)

	// Stop is idempotent.
	limiter.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	assert.Equal(t, "/generate-pdf", MatchEndpoint("/generate-pdf", "POST", configs).Path)
	assert.Equal(t, "/profiles/", MatchEndpoint("/profiles/me", "PUT", configs).Path)
	assert.Nil(t, MatchEndpoint("/profiles/me", "GET", configs))
	assert.Nil(t, MatchEndpoint("/unknown", "POST", configs))
	assert.Zero(t, MatchEndpoint("/health", "GET", configs).Limit)
}

func TestLoadConfig(t *testing.T) {
	env := map[string]string{
		"RATE_LIMIT_DEFAULT_LIMIT":  "42",
		"RATE_LIMIT_WHITELIST":      "127.0.0.1, ::1,",
		"RATE_LIMIT_DEFAULT_WINDOW": "bogus",
	}
	cfg := LoadConfig(func(k string) (string, bool) { v, ok := env[k]; return v, ok })

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.DefaultWindow)
	assert.Equal(t, map[string]bool{"127.0.0.1": true, "::1": true}, cfg.Whitelist)
	assert.NotEmpty(t, cfg.EndpointConfigs)

	disabled := LoadConfig(func(k string) (string, bool) { return "false", k == "RATE_LIMIT_ENABLED" })
	assert.False(t, disabled.Enabled)
}
