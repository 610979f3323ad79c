package config

import "time"

// Default values for configuration.
const (
	// Server defaults
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	// Telegram API defaults
	DefaultSessionFile  = "tg.session"
	DefaultReadyTimeout = 60 * time.Second

	// Tracking defaults
	DefaultTrackExpiryHours = 24
	DefaultCleanupInterval  = 1 * time.Hour

	// Logging defaults
	DefaultLogLevel = "info"
)
