package responder

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// ProblemDetails is the RFC 9457 body sent when a layer rejects a request or a
// component fails. TraceID matches the invocation id a component logs with, so
// a bot platform error can be found in the server logs.
type ProblemDetails struct {
	Type      string `json:"type,omitempty"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	TraceID   string `json:"traceId,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// statusMetaFor resolves the preset for status, filling gaps for codes that
// have no preset at all.
func (r *Responder) statusMetaFor(status int) statusMeta {
	return normalizeStatusMeta(status, r.statusMetadata[status])
}

func newProblem(req *http.Request, status int, err error, meta statusMeta) ProblemDetails {
	return ProblemDetails{
		Type:      meta.typeURI,
		Title:     meta.title,
		Status:    status,
		Detail:    err.Error(),
		Instance:  requestInstance(req),
		TraceID:   traceIDFor(req),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (r *Responder) logProblem(req *http.Request, meta statusMeta, problem ProblemDetails, err error, msgs []string) {
	attrs := []slog.Attr{
		slog.String("error", err.Error()),
		slog.String("traceId", problem.TraceID),
		slog.Int("status", problem.Status),
		slog.String("instance", problem.Instance),
	}
	if len(msgs) > 0 {
		attrs = append(attrs, slog.Any("logMessages", msgs))
	}
	r.logger().LogAttrs(requestContext(req), meta.logLevel, meta.logMsg, attrs...)
}

// normalizeStatusMeta treats a zero log level as unset. Presets that want Info
// logging must say so through a level other than zero, which is why client
// errors default to Warn.
func normalizeStatusMeta(status int, meta statusMeta) statusMeta {
	if meta.logLevel == 0 {
		meta.logLevel = slog.LevelError
	}
	if meta.title == "" {
		meta.title = http.StatusText(status)
	}
	if meta.logMsg == "" {
		meta.logMsg = meta.title
	}
	if meta.typeURI == "" {
		meta.typeURI = statusDocBaseURL + "/" + strconv.Itoa(status)
	}
	return meta
}
