package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPOption configures NewHTTPProbe.
type HTTPOption func(*httpProbe)

type httpProbe struct {
	client   HTTPDoer
	method   string
	header   http.Header
	statuses map[int]struct{}
}

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(client HTTPDoer) HTTPOption {
	return func(p *httpProbe) {
		if client != nil {
			p.client = client
		}
	}
}

// WithHTTPMethod sets the request method. The default is GET.
func WithHTTPMethod(method string) HTTPOption {
	return func(p *httpProbe) {
		if m := strings.ToUpper(strings.TrimSpace(method)); m != "" {
			p.method = m
		}
	}
}

// WithHTTPHeader adds a header to every probe request, for example an
// Authorization token for a bot platform health endpoint.
func WithHTTPHeader(key, value string) HTTPOption {
	return func(p *httpProbe) {
		p.header.Add(key, value)
	}
}

// WithHTTPStatuses restricts success to the listed status codes instead of
// any 2xx.
func WithHTTPStatuses(statuses ...int) HTTPOption {
	return func(p *httpProbe) {
		for _, status := range statuses {
			p.statuses[status] = struct{}{}
		}
	}
}

// NewHTTPProbe requests target and fails unless the response status is
// accepted. The response body is drained so connections are reused.
func NewHTTPProbe(name, target string, opts ...HTTPOption) Func {
	p := &httpProbe{
		client:   http.DefaultClient,
		method:   http.MethodGet,
		header:   http.Header{},
		statuses: map[int]struct{}{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	target = strings.TrimSpace(target)

	return func(ctx context.Context) error {
		if target == "" {
			return fmt.Errorf("%s probe: target URL is required", name)
		}

		req, err := http.NewRequestWithContext(contextOrBackground(ctx), p.method, target, nil)
		if err != nil {
			return fmt.Errorf("%s probe: build request: %w", name, err)
		}
		for key, values := range p.header {
			req.Header[key] = append([]string(nil), values...)
		}

		resp, err := p.client.Do(req)
		if err != nil {
			return fmt.Errorf("%s probe request failed: %w", name, err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		if !p.accepts(resp.StatusCode) {
			return fmt.Errorf("%s probe: unexpected status %d %s", name, resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return nil
	}
}

func (p *httpProbe) accepts(status int) bool {
	if len(p.statuses) == 0 {
		return status >= 200 && status < 300
	}
	_, ok := p.statuses[status]
	return ok
}
