package router

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	oapiMW "github.com/oapi-codegen/nethttp-middleware"

	"github.com/drblury/botweaver/responder"
)

func applyMiddlewares(handler http.Handler, middlewares []Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			handler = middlewares[i](handler)
		}
	}
	return handler
}

// oapiMiddleware validates requests against swagger and reports violations
// as problem documents, the same shape the layers use for their own errors.
func oapiMiddleware(swagger *openapi3.T, logger *slog.Logger) Middleware {
	// Servers are ignored: the document describes paths relative to wherever
	// the router is mounted. The caller's document is left untouched.
	doc := *swagger
	doc.Servers = nil

	resp := responder.NewResponder(responder.WithLogger(logger))
	validate := oapiMW.OapiRequestValidatorWithOptions(&doc, &oapiMW.Options{
		Options: openapi3filter.Options{
			AuthenticationFunc: func(context.Context, *openapi3filter.AuthenticationInput) error {
				return nil
			},
		},
		ErrorHandler: func(w http.ResponseWriter, message string, statusCode int) {
			resp.HandleAPIError(w, nil, statusCode, fmt.Errorf("openapi validation: %s", message))
		},
	})

	return func(next http.Handler) http.Handler {
		return validate(next)
	}
}

// statusRecorder captures the status written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// loggingMiddleware logs one debug line per request once it has been served,
// with redacted headers, the response status, and the duration.
func loggingMiddleware(logger *slog.Logger, quietdownRoutes []string, hideHeaders []string) Middleware {
	quiet := cloneStrings(quietdownRoutes)
	redacted := cloneStrings(hideHeaders)
	logger.Debug("request logging enabled", "quietdownRoutes", quiet, "hideHeaders", redacted)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(quiet, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			started := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(started),
				"header", redactHeaders(r.Header, redacted),
			}
			if r.ContentLength > 0 {
				attrs = append(attrs, "contentLength", r.ContentLength)
			}
			logger.LogAttrs(r.Context(), slog.LevelDebug, "request", slog.Group("http", attrs...))
		})
	}
}

// corsMiddleware answers preflight requests and sets the allow-origin header
// for listed origins. It is a no-op when no origin is configured.
func corsMiddleware(cfg CORSConfig) Middleware {
	cfg = sanitizeCORSConfig(cfg)
	methods := strings.Join(cfg.Methods, ",")
	headers := strings.Join(cfg.Headers, ",")

	return func(next http.Handler) http.Handler {
		if len(cfg.Origins) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if slices.Contains(cfg.Origins, "*") || slices.Contains(cfg.Origins, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func timeoutMiddleware(timeout time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, "request timed out")
	}
}

// redactHeaders returns a copy of src with the values of hidden headers
// replaced by their total length.
func redactHeaders(src http.Header, hidden []string) http.Header {
	headers := src.Clone()
	if headers == nil {
		headers = http.Header{}
	}
	for _, name := range hidden {
		key := http.CanonicalHeaderKey(name)
		values, ok := headers[key]
		if !ok {
			continue
		}
		n := 0
		for _, v := range values {
			n += len(v)
		}
		headers[key] = []string{fmt.Sprintf("[REDACTED - %d bytes]", n)}
	}
	return headers
}
