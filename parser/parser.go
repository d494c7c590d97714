package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/drblury/botweaver/jsonutil"
	"github.com/drblury/botweaver/responder"
	"github.com/drblury/botweaver/router"
)

var (
	// ErrUnsupportedCharset is reported when a body declares a charset other than UTF-8.
	ErrUnsupportedCharset = errors.New("parser: unsupported charset")
	// ErrStrictJSON is reported when a JSON body is not an object or array.
	ErrStrictJSON = errors.New("parser: json body must be an object or array")
)

// Layer is the body-parsing layer. It is optional: the composition only
// installs it when parser options are supplied.
type Layer struct{}

// Required reports whether the layer is always installed.
func (Layer) Required() bool { return false }

// Extend installs the body-parsing middleware on r. options must be nil, an
// Options value, or a *Options.
func (Layer) Extend(r *router.Router, options any) error {
	opts, err := optionsFrom(options)
	if err != nil {
		return err
	}
	if opts.Limit < 0 {
		return fmt.Errorf("parser: negative body limit %d", opts.Limit)
	}
	if opts.Responder == nil {
		opts.Responder = responder.NewResponder(responder.WithLogger(r.Logger()))
	}
	r.Use(New(opts))
	return nil
}

type matcher struct {
	kind  Kind
	types []string
}

type bodyParser struct {
	limit        int64
	matchers     []matcher
	allowScalars bool
	verify       VerifyFunc
	resp         *responder.Responder
}

// New returns the body-parsing middleware for opts.
func New(opts Options) router.Middleware {
	p := &bodyParser{
		limit:  opts.Limit,
		verify: opts.Verify,
		resp:   opts.Responder,
	}
	if p.limit == 0 {
		p.limit = DefaultLimit
	}
	if p.resp == nil {
		p.resp = responder.NewResponder()
	}

	jsonOpts := opts.JSON
	if jsonOpts == nil && opts.URLEncoded == nil && opts.Text == nil {
		jsonOpts = &JSONOptions{}
	}
	if jsonOpts != nil {
		p.allowScalars = jsonOpts.AllowScalars
		p.matchers = append(p.matchers, matcher{kind: KindJSON, types: typesOrDefault(jsonOpts.Types, defaultJSONTypes)})
	}
	if opts.URLEncoded != nil {
		p.matchers = append(p.matchers, matcher{kind: KindURLEncoded, types: typesOrDefault(opts.URLEncoded.Types, defaultURLEncodedTypes)})
	}
	if opts.Text != nil {
		p.matchers = append(p.matchers, matcher{kind: KindText, types: typesOrDefault(opts.Text.Types, defaultTextTypes)})
	}

	return p.wrap
}

func (p *bodyParser) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if _, parsed := FromContext(req.Context()); parsed || !hasBody(req) {
			next.ServeHTTP(w, req)
			return
		}

		kind, charset, ok := p.match(req.Header.Get("Content-Type"))
		if !ok {
			next.ServeHTTP(w, req)
			return
		}
		if charset != "" && !strings.EqualFold(charset, "utf-8") {
			p.resp.HandleUnsupportedMediaType(w, req, fmt.Errorf("%w %q", ErrUnsupportedCharset, charset))
			return
		}

		if req.ContentLength > p.limit {
			p.resp.HandlePayloadTooLarge(w, req, fmt.Errorf("request body exceeds %d bytes", p.limit))
			return
		}

		raw, err := io.ReadAll(http.MaxBytesReader(w, req.Body, p.limit))
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				p.resp.HandlePayloadTooLarge(w, req, fmt.Errorf("request body exceeds %d bytes", p.limit))
				return
			}
			p.resp.HandleBadRequestError(w, req, fmt.Errorf("read request body: %w", err))
			return
		}

		if p.verify != nil {
			if err := p.verify(req, raw); err != nil {
				p.resp.HandleForbiddenError(w, req, err)
				return
			}
		}

		body, err := p.parse(kind, raw)
		if err != nil {
			p.resp.HandleBadRequestError(w, req, err, "failed to parse request body")
			return
		}

		req.Body = io.NopCloser(bytes.NewReader(raw))
		next.ServeHTTP(w, req.WithContext(NewContext(req.Context(), body)))
	})
}

func (p *bodyParser) match(contentType string) (Kind, string, bool) {
	if contentType == "" {
		return 0, "", false
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return 0, "", false
	}
	for _, m := range p.matchers {
		if typeMatches(mediaType, m.types) {
			return m.kind, params["charset"], true
		}
	}
	return 0, "", false
}

func (p *bodyParser) parse(kind Kind, raw []byte) (*Body, error) {
	body := &Body{Kind: kind, Raw: raw}
	switch kind {
	case KindJSON:
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 {
			body.JSON = map[string]any{}
			return body, nil
		}
		if !p.allowScalars && trimmed[0] != '{' && trimmed[0] != '[' {
			return nil, ErrStrictJSON
		}
		if err := jsonutil.Unmarshal(trimmed, &body.JSON); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
	case KindURLEncoded:
		form, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, fmt.Errorf("decode form body: %w", err)
		}
		body.Form = form
	case KindText:
		body.Text = string(raw)
	}
	return body, nil
}

func typeMatches(mediaType string, accepted []string) bool {
	for _, candidate := range accepted {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		switch {
		case candidate == "":
			continue
		case strings.HasPrefix(candidate, "+"):
			if strings.HasSuffix(mediaType, candidate) {
				return true
			}
		case candidate == mediaType:
			return true
		}
	}
	return false
}

func hasBody(req *http.Request) bool {
	if req.Body == nil || req.Body == http.NoBody {
		return false
	}
	return req.ContentLength > 0 || len(req.TransferEncoding) > 0
}
