package router

import "time"

// Config groups the settings consumed by the default middleware chain.
type Config struct {
	// Timeout bounds request handling. Zero disables the timeout middleware.
	Timeout time.Duration
	// QuietdownRoutes lists paths the logging middleware skips, such as probes.
	QuietdownRoutes []string
	// HideHeaders lists request headers whose values are redacted in logs.
	HideHeaders []string
	CORS        CORSConfig
}

// CORSConfig configures the CORS middleware. It is only installed when at
// least one origin is listed; "*" allows any origin.
type CORSConfig struct {
	Origins          []string
	Methods          []string
	Headers          []string
	AllowCredentials bool
}
