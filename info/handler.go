package info

import (
	"errors"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/drblury/botweaver/probe"
	"github.com/drblury/botweaver/responder"
)

// InfoProvider returns the payload that will be exposed by the version endpoint.
type InfoProvider func() any

// SwaggerProvider returns the raw OpenAPI document served by GetOpenAPIJSON.
type SwaggerProvider func() ([]byte, error)

// InfoOption configures an InfoHandler.
type InfoOption func(*InfoHandler)

const defaultProbeTimeout = 2 * time.Second

// ProbeFunc is executed to determine the outcome of liveness or readiness
// probes. Returning a non-nil error marks the probe as failed.
type ProbeFunc = probe.Func

// InfoHandler serves status, probe, version, and OpenAPI endpoints.
type InfoHandler struct {
	*responder.Responder
	infoProvider    InfoProvider
	swaggerProvider SwaggerProvider
	probeTimeout    time.Duration
	livenessChecks  []ProbeFunc
	readinessChecks []ProbeFunc
}

// NewInfoHandler constructs an InfoHandler. Without options the version
// endpoint returns an empty object and the OpenAPI endpoint reports an error.
func NewInfoHandler(opts ...InfoOption) *InfoHandler {
	ih := &InfoHandler{
		Responder: responder.NewResponder(),
		infoProvider: func() any {
			return map[string]string{}
		},
		swaggerProvider: func() ([]byte, error) {
			return nil, errors.New("openapi document not configured")
		},
		probeTimeout: defaultProbeTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ih)
		}
	}
	return ih
}

// WithInfoResponder replaces the responder used to render payloads and errors.
func WithInfoResponder(responder *responder.Responder) InfoOption {
	return func(ih *InfoHandler) {
		if responder != nil {
			ih.Responder = responder
		}
	}
}

// WithInfoProvider swaps the default metadata provider.
func WithInfoProvider(provider InfoProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.infoProvider = provider
		}
	}
}

// WithSwaggerProvider sets the source of the raw OpenAPI document.
func WithSwaggerProvider(provider SwaggerProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.swaggerProvider = provider
		}
	}
}

// WithOpenAPIDocument serves doc, serialised on every request so later edits
// to the document are reflected.
func WithOpenAPIDocument(doc *openapi3.T) InfoOption {
	return func(ih *InfoHandler) {
		if doc != nil {
			ih.swaggerProvider = doc.MarshalJSON
		}
	}
}

// WithProbeTimeout adjusts the maximum duration allowed for probe checks.
func WithProbeTimeout(timeout time.Duration) InfoOption {
	return func(ih *InfoHandler) {
		if timeout > 0 {
			ih.probeTimeout = timeout
		}
	}
}

// WithLivenessChecks replaces the liveness checks.
func WithLivenessChecks(checks ...ProbeFunc) InfoOption {
	return func(ih *InfoHandler) {
		ih.livenessChecks = filterProbes(checks)
	}
}

// WithReadinessChecks replaces the readiness checks.
func WithReadinessChecks(checks ...ProbeFunc) InfoOption {
	return func(ih *InfoHandler) {
		ih.readinessChecks = filterProbes(checks)
	}
}
