package responder

import (
	"log/slog"
	"net/http"
)

const (
	jsonContentType    = "application/json"
	problemContentType = "application/problem+json"
	statusDocBaseURL   = "https://httpstatuses.io"
)

// ErrorClassifierFunc maps an error to a status for HandleErrors. Returning
// false leaves the error to the 500 handler.
type ErrorClassifierFunc func(err error) (status int, handled bool)

// ResponderOption configures a Responder.
type ResponderOption func(*Responder)

type statusMeta struct {
	typeURI  string
	title    string
	logLevel slog.Level
	logMsg   string
}

// StatusMetadata overrides the problem type, title, and log line used for one
// status code. Zero fields fall back to the defaults.
type StatusMetadata struct {
	TypeURI  string
	Title    string
	LogLevel slog.Level
	LogMsg   string
}

// Responder writes JSON replies and problem documents for the HTTP layers. Parser and component layers share one Responder so that problem
// documents and trace identifiers look the same no matter which layer failed.
type Responder struct {
	log             *slog.Logger
	statusMetadata  map[int]statusMeta
	errorClassifier ErrorClassifierFunc
}

// NewResponder returns a Responder that logs to slog.Default and carries the
// presets for the statuses the layers emit.
func NewResponder(opts ...ResponderOption) *Responder {
	r := &Responder{
		log:            slog.Default(),
		statusMetadata: defaultStatusMetadata(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// WithLogger sets the logger problem documents are reported to. Layers pass
// the router's logger here.
func WithLogger(logger *slog.Logger) ResponderOption {
	return func(r *Responder) {
		if logger != nil {
			r.log = logger
		}
	}
}

// WithErrorClassifier sets the classifier HandleErrors consults.
func WithErrorClassifier(classifier ErrorClassifierFunc) ResponderOption {
	return func(r *Responder) {
		r.errorClassifier = classifier
	}
}

// WithStatusMetadata replaces the preset for status.
func WithStatusMetadata(status int, meta StatusMetadata) ResponderOption {
	return func(r *Responder) {
		if r.statusMetadata == nil {
			r.statusMetadata = make(map[int]statusMeta)
		}
		r.statusMetadata[status] = normalizeStatusMeta(status, statusMeta{
			typeURI:  meta.TypeURI,
			title:    meta.Title,
			logLevel: meta.LogLevel,
			logMsg:   meta.LogMsg,
		})
	}
}

// Logger returns the logger problems are reported to.
func (r *Responder) Logger() *slog.Logger {
	return r.logger()
}

func (r *Responder) logger() *slog.Logger {
	if r == nil || r.log == nil {
		return slog.Default()
	}
	return r.log
}

func (r *Responder) classifyError(err error) (int, bool) {
	if r.errorClassifier == nil {
		return 0, false
	}
	return r.errorClassifier(err)
}

// Client errors are the bot platform's or the caller's fault and log at Warn.
var clientErrorLogMessages = map[int]string{
	http.StatusBadRequest:            "invalid request",
	http.StatusUnauthorized:          "unauthenticated request",
	http.StatusForbidden:             "request verification failed",
	http.StatusNotFound:              "unknown route or component",
	http.StatusRequestEntityTooLarge: "request body over limit",
	http.StatusUnsupportedMediaType:  "unsupported content type",
}

func defaultStatusMetadata() map[int]statusMeta {
	presets := map[int]statusMeta{
		http.StatusInternalServerError: {logLevel: slog.LevelError, logMsg: "component or handler failed"},
	}
	for status, msg := range clientErrorLogMessages {
		presets[status] = statusMeta{logLevel: slog.LevelWarn, logMsg: msg}
	}
	for status, meta := range presets {
		presets[status] = normalizeStatusMeta(status, meta)
	}
	return presets
}
