package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig controls the Redis token-bucket limiter applied to the
// listing endpoints.  The global user listing and the friends listing are
// throttled independently, so each route group loads its own bucket via
// the PREFIX argument.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
}

// LoadRateLimitConfig builds a limiter configuration from environment
// variables, clamped to sane values.  The prefix doubles as the env var
// namespace, e.g. prefix "rl_users" reads RL_USERS_CAPACITY.
func LoadRateLimitConfig(prefix string, defCapacity int) RateLimitConfig {
	ns := func(k string) string { return strings.ToUpper(prefix) + "_" + k }
	cfg := RateLimitConfig{
		Enabled:        envBool(ns("ENABLED"), true),
		Capacity:       envInt(ns("CAPACITY"), defCapacity),
		RefillTokens:   envInt(ns("REFILL_TOKENS"), defCapacity),
		RefillInterval: envDur(ns("REFILL_INTERVAL"), time.Minute),
		TTL:            envDur(ns("TTL"), 10*time.Minute),
		KeyStrategy:    envStr(ns("KEY_STRATEGY"), "user_route"),
		Prefix:         prefix,
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if min := 5 * cfg.RefillInterval; cfg.TTL < min {
		cfg.TTL = min
	}
	return cfg
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}
