package component

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/drblury/botweaver/parser"
	"github.com/drblury/botweaver/responder"
	"github.com/drblury/botweaver/router"
)

// Options configures the component layer.
type Options struct {
	// Components are registered in the layer's registry.
	Components []Component
	// Registry, when set, is used instead of a fresh registry. Components are
	// added to it, so the caller keeps access to everything the layer serves.
	Registry *Registry
	// MaxBodyBytes caps request bodies read by the layer itself, which
	// happens when no parser layer ran first. Zero means parser.DefaultLimit.
	MaxBodyBytes int64
	Responder    *responder.Responder
	Logger       *slog.Logger
}

// Layer is the component registration layer. It is optional: the composition
// only installs it when component options are supplied.
type Layer struct{}

// Required reports whether the layer is always installed.
func (Layer) Required() bool { return false }

// Extend registers the configured components and mounts the catalog and
// invocation endpoints on r. options must be nil, an Options value, or a
// *Options. Registration errors are returned as is.
func (Layer) Extend(r *router.Router, options any) error {
	opts, err := optionsFrom(options)
	if err != nil {
		return err
	}

	registry := opts.Registry
	if registry == nil {
		registry = &Registry{}
	}
	if err := registry.Register(opts.Components...); err != nil {
		return err
	}

	logger := opts.Logger
	if logger == nil {
		logger = r.Logger()
	}
	resp := opts.Responder
	if resp == nil {
		resp = responder.NewResponder(responder.WithLogger(logger))
	}
	limit := opts.MaxBodyBytes
	if limit <= 0 {
		limit = parser.DefaultLimit
	}

	d := &dispatcher{registry: registry, resp: resp, logger: logger, limit: limit}
	r.HandleFunc("GET /{$}", d.catalog)
	r.HandleFunc("POST /{component}", d.invoke)
	return nil
}

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
		return Options{}, fmt.Errorf("component: unexpected options type %T", options)
	}
}

type dispatcher struct {
	registry *Registry
	resp     *responder.Responder
	logger   *slog.Logger
	limit    int64
}

func (d *dispatcher) catalog(w http.ResponseWriter, req *http.Request) {
	d.resp.RespondWithJSON(w, req, http.StatusOK, Catalog{
		Version:    PlatformVersion,
		Components: d.registry.Metadata(),
	})
}

// invoke tags the request with the invocation id up front, so every problem
// document rendered below carries the id found in the component's logs.
func (d *dispatcher) invoke(w http.ResponseWriter, req *http.Request) {
	id := responder.NewTraceID()
	req = req.WithContext(responder.ContextWithTraceID(req.Context(), id))

	name := req.PathValue("component")
	c, ok := d.registry.Get(name)
	if !ok {
		d.resp.HandleNotFoundError(w, req, fmt.Errorf("%w: %s", ErrUnknownComponent, name))
		return
	}

	var in Request
	if !d.readRequest(w, req, &in) {
		return
	}
	if err := c.Metadata().validate(in.Properties); err != nil {
		d.resp.HandleBadRequestError(w, req, err, "invalid component request")
		return
	}

	conv := newConversation(id, name, &in, d.logger)
	started := time.Now()
	err := c.Invoke(req.Context(), conv)
	out := conv.Response()
	if err != nil {
		if !out.Error {
			d.resp.HandleInternalServerError(w, req, fmt.Errorf("component %s: %w", name, err), "component invocation failed")
			return
		}
		// The component flagged the failure itself; the bot gets its response.
		conv.Logger().Warn("component reported error", "error", err)
	}

	conv.Logger().Debug("component invoked",
		"botId", in.BotID,
		"duration", time.Since(started),
		"transition", out.Transition,
		"error", out.Error,
	)
	d.resp.RespondWithJSON(w, req, http.StatusOK, out)
}

// readRequest prefers a body already decoded by the parser layer and falls
// back to reading the raw body under the layer's own limit. An empty body is
// an empty Request.
func (d *dispatcher) readRequest(w http.ResponseWriter, req *http.Request, in *Request) bool {
	if body, ok := parser.FromContext(req.Context()); ok {
		if err := body.Decode(in); err != nil {
			d.resp.HandleBadRequestError(w, req, err, "failed to parse request body")
			return false
		}
		return true
	}

	body := &parser.Body{Kind: parser.KindJSON}
	if req.Body != nil {
		raw, err := io.ReadAll(http.MaxBytesReader(w, req.Body, d.limit))
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				d.resp.HandlePayloadTooLarge(w, req, fmt.Errorf("request body exceeds %d bytes", d.limit))
				return false
			}
			d.resp.HandleBadRequestError(w, req, fmt.Errorf("read request body: %w", err))
			return false
		}
		body.Raw = raw
	}
	if err := body.Decode(in); err != nil {
		d.resp.HandleBadRequestError(w, req, err, "failed to parse request body")
		return false
	}
	return true
}
