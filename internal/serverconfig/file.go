package serverconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML-friendly field types.
type FileConfig struct {
	Addr             string   `toml:"addr"`
	ComponentsPath   string   `toml:"components_path"`
	BodyLimit        int64    `toml:"body_limit"`
	RequestTimeout   string   `toml:"request_timeout"`
	ShutdownTimeout  string   `toml:"shutdown_timeout"`
	LogLevel         string   `toml:"log_level"`
	LogFormat        string   `toml:"log_format"`
	CORSOrigins      []string `toml:"cors_origins"`
	ValidateRequests *bool    `toml:"validate_requests"`
	MongoURI         string   `toml:"mongo_uri"`
	ReadyURLs        []string `toml:"ready_urls"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.botweaver/config.toml, or "" when the home
// directory cannot be resolved.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".botweaver", "config.toml")
	}
	return ""
}

// FileExists reports whether path names an existing file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ApplyFileConfig copies file values into cfg, skipping flags in changed.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("addr", fc.Addr, &cfg.Addr)
	s.setString("components-path", fc.ComponentsPath, &cfg.ComponentsPath)
	s.setInt64("body-limit", fc.BodyLimit, &cfg.BodyLimit)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("log-format", fc.LogFormat, &cfg.LogFormat)
	s.setStrings("cors-origin", fc.CORSOrigins, &cfg.CORSOrigins)
	s.setBool("validate-requests", fc.ValidateRequests, &cfg.ValidateRequests)
	s.setString("mongo-uri", fc.MongoURI, &cfg.MongoURI)
	s.setStrings("ready-url", fc.ReadyURLs, &cfg.ReadyURLs)

	if err := s.setDurationString("timeout", fc.RequestTimeout, &cfg.RequestTimeout); err != nil {
		return err
	}
	return s.setDurationString("shutdown-timeout", fc.ShutdownTimeout, &cfg.ShutdownTimeout)
}
