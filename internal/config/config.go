package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Notifications
	DismissAfter time.Duration

	// Sessions
	SessionCookie      string
	SessionIdleTimeout time.Duration
	JanitorInterval    time.Duration

	LogDev bool
}

func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: parseDuration(getenv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),

		DismissAfter: parseDuration(getenv("NOTIFY_DISMISS_AFTER", "5s"), 5*time.Second),

		SessionCookie:      getenv("SESSION_COOKIE", "storefront_session"),
		SessionIdleTimeout: parseDuration(getenv("SESSION_IDLE_TIMEOUT", "30m"), 30*time.Minute),
		JanitorInterval:    parseDuration(getenv("SESSION_JANITOR_INTERVAL", "1m"), time.Minute),

		LogDev: envBool("LOG_DEV", false),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	switch v {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}
