package parser

import (
	"bytes"
	"context"
	"errors"
	"net/url"

	"github.com/drblury/botweaver/jsonutil"
)

// Kind identifies which parser produced a Body.
type Kind int

const (
	KindJSON Kind = iota + 1
	KindURLEncoded
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindURLEncoded:
		return "urlencoded"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// ErrNotJSON is returned by Body.Decode for bodies that were not parsed as JSON.
var ErrNotJSON = errors.New("parser: body is not json")

// Body is the parsed request body stored in the request context.
type Body struct {
	Kind Kind
	Raw  []byte
	// JSON holds the decoded document for KindJSON.
	JSON any
	// Form holds the decoded values for KindURLEncoded.
	Form url.Values
	// Text holds the body for KindText.
	Text string
}

// Decode unmarshals a JSON body into v. An empty body leaves v untouched.
func (b *Body) Decode(v any) error {
	if b == nil || b.Kind != KindJSON {
		return ErrNotJSON
	}
	raw := bytes.TrimSpace(b.Raw)
	if len(raw) == 0 {
		return nil
	}
	return jsonutil.Unmarshal(raw, v)
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying body.
func NewContext(ctx context.Context, body *Body) context.Context {
	return context.WithValue(ctx, contextKey{}, body)
}

// FromContext returns the body parsed for the current request, if any.
func FromContext(ctx context.Context) (*Body, bool) {
	if ctx == nil {
		return nil, false
	}
	body, ok := ctx.Value(contextKey{}).(*Body)
	return body, ok && body != nil
}
