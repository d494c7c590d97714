package serverconfig

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvConfig lists the BOTWEAVER_* variables understood by the server.
type EnvConfig struct {
	Addr           string `env:"BOTWEAVER_ADDR"`
	ComponentsPath string `env:"BOTWEAVER_COMPONENTS_PATH"`
	BodyLimit      int64  `env:"BOTWEAVER_BODY_LIMIT"`
	// Durations are pointers so that an explicit "0s" disables the request
	// timeout instead of reading as unset.
	RequestTimeout   *time.Duration `env:"BOTWEAVER_REQUEST_TIMEOUT"`
	ShutdownTimeout  *time.Duration `env:"BOTWEAVER_SHUTDOWN_TIMEOUT"`
	LogLevel         string         `env:"BOTWEAVER_LOG_LEVEL"`
	LogFormat        string         `env:"BOTWEAVER_LOG_FORMAT"`
	CORSOrigins      []string       `env:"BOTWEAVER_CORS_ORIGINS" envSeparator:","`
	ValidateRequests *bool          `env:"BOTWEAVER_VALIDATE_REQUESTS"`
	MongoURI         string         `env:"BOTWEAVER_MONGO_URI"`
	ReadyURLs        []string       `env:"BOTWEAVER_READY_URLS" envSeparator:","`
}

// LoadEnvConfig parses the BOTWEAVER_* variables.
func LoadEnvConfig() (EnvConfig, error) {
	var ec EnvConfig
	if err := env.Parse(&ec); err != nil {
		return ec, fmt.Errorf("parse env: %w", err)
	}
	return ec, nil
}

// ApplyEnvConfig copies environment values into cfg, skipping flags in changed.
func ApplyEnvConfig(cfg *Config, ec EnvConfig, changed map[string]bool) {
	s := newConfigSetter(changed)

	s.setString("addr", ec.Addr, &cfg.Addr)
	s.setString("components-path", ec.ComponentsPath, &cfg.ComponentsPath)
	s.setInt64("body-limit", ec.BodyLimit, &cfg.BodyLimit)
	s.setDuration("timeout", ec.RequestTimeout, &cfg.RequestTimeout)
	s.setDuration("shutdown-timeout", ec.ShutdownTimeout, &cfg.ShutdownTimeout)
	s.setString("log-level", ec.LogLevel, &cfg.LogLevel)
	s.setString("log-format", ec.LogFormat, &cfg.LogFormat)
	s.setStrings("cors-origin", ec.CORSOrigins, &cfg.CORSOrigins)
	s.setBool("validate-requests", ec.ValidateRequests, &cfg.ValidateRequests)
	s.setString("mongo-uri", ec.MongoURI, &cfg.MongoURI)
	s.setStrings("ready-url", ec.ReadyURLs, &cfg.ReadyURLs)
}
