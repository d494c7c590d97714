// Package serverconfig resolves the bot server configuration from defaults, a
// TOML file, BOTWEAVER_* environment variables, and command-line flags, in
// increasing order of precedence.
package serverconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/drblury/botweaver/parser"
)

// Config holds the bot server settings.
type Config struct {
	Addr             string
	ComponentsPath   string
	BodyLimit        int64
	RequestTimeout   time.Duration
	ShutdownTimeout  time.Duration
	LogLevel         string
	LogFormat        string
	CORSOrigins      []string
	ValidateRequests bool
	MongoURI         string
	// ReadyURLs are HTTP dependencies, such as the bot platform, that must
	// answer 2xx before the server reports ready.
	ReadyURLs []string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ComponentsPath:  "/components",
		BodyLimit:       parser.DefaultLimit,
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// Validate checks the configuration and normalises derived values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr is required")
	}

	c.ComponentsPath = "/" + strings.Trim(strings.TrimSpace(c.ComponentsPath), "/")
	if c.ComponentsPath == "/" {
		return errors.New("components path must not be the server root")
	}

	if c.BodyLimit <= 0 {
		return fmt.Errorf("body limit must be positive, got %d", c.BodyLimit)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative, got %s", c.RequestTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// configSetter applies values unless the matching flag was set explicitly.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt64(flag string, value int64, dst *int64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setDuration(flag string, value *time.Duration, dst *time.Duration) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setDurationString(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

func (s *configSetter) setStrings(flag string, values []string, dst *[]string) {
	if len(values) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), values...)
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}
