package leafclient

import (
	"errors"
	"strings"
	"time"
)

// Config holds the static client configuration.
//
// Config instances are intended to be fully populated before Build and then
// treated as immutable.
type Config struct {
	HTTP   HTTPConfig
	Events EventsConfig
}

/*
====================================
HTTP CONFIG
====================================
*/

// HTTPConfig controls the outbound request defaults.
type HTTPConfig struct {
	// BaseURL is the backend origin, e.g. "https://blog.example.com".
	BaseURL string
	// BasePath is prefixed to every request path. Defaults to "/api".
	BasePath string
	// Timeout bounds each request end to end. Defaults to 10s. A request
	// that exceeds it fails as a transport error with no response.
	Timeout time.Duration
	// UserAgent is sent on every request when non-empty.
	UserAgent string
}

/*
====================================
EVENTS CONFIG
====================================
*/

// EventsConfig controls the request-event dispatcher.
type EventsConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events instead of blocking the request path when the
	// buffer is full.
	DropIfFull bool
}

func defaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			BasePath: "/api",
			Timeout:  10 * time.Second,
		},
		Events: EventsConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

// Validate reports the first configuration fault, or nil.
func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTP.BaseURL) == "" {
		return ErrBaseURLRequired
	}
	if strings.HasSuffix(c.HTTP.BaseURL, "/") {
		return errors.New("base url must not end with a slash")
	}
	if c.HTTP.BasePath != "" && !strings.HasPrefix(c.HTTP.BasePath, "/") {
		return errors.New("base path must start with a slash")
	}
	if c.HTTP.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.Events.Enabled && c.Events.BufferSize <= 0 {
		return errors.New("event buffer size must be positive")
	}
	return nil
}
