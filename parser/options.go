package parser

import (
	"fmt"
	"net/http"

	"github.com/drblury/botweaver/responder"
)

// DefaultLimit is the body size limit used when Options.Limit is not set.
const DefaultLimit int64 = 100 << 10

// VerifyFunc inspects the raw body before it is parsed. A non-nil error
// rejects the request with 403, which makes it the hook for signature checks.
type VerifyFunc func(r *http.Request, raw []byte) error

// Options configures the parser layer. When none of JSON, URLEncoded, or
// Text is set, JSON parsing is enabled with its defaults.
type Options struct {
	// Limit caps the number of body bytes read. Zero means DefaultLimit.
	Limit      int64
	JSON       *JSONOptions
	URLEncoded *URLEncodedOptions
	Text       *TextOptions
	Verify     VerifyFunc
	// Responder renders rejected requests. Defaults to a new Responder.
	Responder *responder.Responder
}

// JSONOptions configures JSON parsing.
type JSONOptions struct {
	// Types lists accepted media types. An entry starting with "+" matches a
	// structured syntax suffix, so "+json" accepts application/vnd.api+json.
	Types []string
	// AllowScalars accepts top-level strings, numbers, booleans, and null.
	// By default only objects and arrays are accepted.
	AllowScalars bool
}

// URLEncodedOptions configures application/x-www-form-urlencoded parsing.
type URLEncodedOptions struct {
	Types []string
}

// TextOptions configures plain-text parsing.
type TextOptions struct {
	Types []string
}

var (
	defaultJSONTypes       = []string{"application/json", "+json"}
	defaultURLEncodedTypes = []string{"application/x-www-form-urlencoded"}
	defaultTextTypes       = []string{"text/plain"}
)

func optionsFrom(options any) (Options, error) {
	switch o := options.(type) {
	case nil:
		return Options{}, nil
	case *Options:
		if o == nil {
			return Options{}, nil
		}
		return *o, nil
	case Options:
		return o, nil
	default:
		return Options{}, fmt.Errorf("parser: unexpected options type %T", options)
	}
}

func typesOrDefault(types, fallback []string) []string {
	if len(types) == 0 {
		return fallback
	}
	cloned := make([]string, len(types))
	copy(cloned, types)
	return cloned
}
