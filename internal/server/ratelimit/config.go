package ratelimit

import (
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration // buckets unused for this long are dropped
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig reads rate limiting settings through lookup, usually os.LookupEnv.
func LoadConfig(lookup func(string) (string, bool)) *Config {
	env := envReader(lookup)
	if !env.bool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.int("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         time.Hour,
		Whitelist:       parseIPList(env.string("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(env.string("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Model-backed and compiler-backed operations
		{Path: "/generate-pdf", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/tailor-resume", Method: "POST", Limit: 60, Window: time.Hour, Burst: 5},
		{Path: "/parse-resume", Method: "POST", Limit: 60, Window: time.Hour, Burst: 5},
		{Path: "/analyze-jd", Method: "POST", Limit: 120, Window: time.Hour, Burst: 10},

		// Persistence writes
		{Path: "/profiles/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/history", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

type envReader func(string) (string, bool)

func (e envReader) string(key, defaultValue string) string {
	if value, ok := e(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func (e envReader) int(key string, defaultValue int) int {
	if n, err := strconv.Atoi(e.string(key, "")); err == nil {
		return n
	}
	return defaultValue
}

func (e envReader) bool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(e.string(key, "")); err == nil {
		return b
	}
	return defaultValue
}

func (e envReader) duration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(e.string(key, "")); err == nil {
		return d
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
