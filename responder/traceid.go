package responder

import (
	"context"
	mathrand "math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewTraceID returns a new monotonic ULID.
func NewTraceID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

type traceIDKey struct{}

// ContextWithTraceID returns a copy of ctx carrying id. Problem documents
// rendered for requests with this context reuse id instead of minting one,
// so a failed invocation and its logs share the same identifier.
func ContextWithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// TraceIDFromContext returns the trace id stored by ContextWithTraceID.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(traceIDKey{}).(string)
	return id, ok && id != ""
}

func traceIDFor(req *http.Request) string {
	if id, ok := TraceIDFromContext(requestContext(req)); ok {
		return id
	}
	return NewTraceID()
}
