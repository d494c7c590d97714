package middleware

import (
	"github.com/drblury/botweaver/component"
	"github.com/drblury/botweaver/parser"
	"github.com/drblury/botweaver/router"
)

// Layer is the contract every bot layer fulfils.
type Layer interface {
	// Required reports whether the layer is installed even without options.
	Required() bool
	// Extend attaches the layer to r. options is the layer's entry from
	// Options, which is a nil pointer when the caller left it unset.
	Extend(r *router.Router, options any) error
}

// Options carries the per-layer configuration. A nil field leaves the layer
// inactive unless it is required.
type Options struct {
	Parser    *parser.Options
	Component *component.Options
}

type entry struct {
	name  string
	layer Layer
	pick  func(Options) (any, bool)
}

type registry []entry

var layers = registry{
	{
		name:  "parser",
		layer: parser.Layer{},
		pick: func(o Options) (any, bool) {
			return o.Parser, o.Parser != nil
		},
	},
	{
		name:  "component",
		layer: component.Layer{},
		pick: func(o Options) (any, bool) {
			return o.Component, o.Component != nil
		},
	},
}

// Init returns a new router with every required or configured layer applied
// in registration order: parser first, then component. The first error
// returned by a layer stops the composition and is returned unchanged.
func Init(opts Options, routerOpts ...router.Option) (*router.Router, error) {
	r := router.New(routerOpts...)
	if err := layers.apply(r, opts); err != nil {
		return nil, err
	}
	return r, nil
}

// Parser returns a router with only the body-parsing layer configured.
func Parser(opts parser.Options, routerOpts ...router.Option) (*router.Router, error) {
	return Init(Options{Parser: &opts}, routerOpts...)
}

func (reg registry) apply(r *router.Router, opts Options) error {
	for _, e := range reg {
		options, configured := e.pick(opts)
		if !e.layer.Required() && !configured {
			continue
		}
		r.Logger().Debug("activating layer", "layer", e.name, "required", e.layer.Required())
		if err := e.layer.Extend(r, options); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the layer names in activation order.
func Names() []string {
	names := make([]string, 0, len(layers))
	for _, e := range layers {
		names = append(names, e.name)
	}
	return names
}
