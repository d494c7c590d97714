// Package botweaver hosts chat bot custom components over HTTP. Each optional
// processing layer attaches to a shared router, and the middleware package
// decides which layers run based on the options the caller supplies.
//
// # Packages
//
//   - middleware: the composition point. Init creates a router and activates
//     every layer that is required or configured, in a fixed order.
//   - parser: the body-parsing layer (JSON, urlencoded, text) with size
//     limits and optional verification.
//   - component: the component registry and dispatch layer, including the
//     catalog endpoint, the wire format, and the Conversation API.
//   - router: the net/http router layers extend, with the default
//     middleware chain (OpenAPI validation, CORS, timeout, logging).
//   - responder: JSON payloads and RFC 9457 problem documents with trace ids.
//   - info and probe: status, health, readiness, version, and OpenAPI
//     endpoints for servers embedding the layers.
//   - jsonutil: thin sonic wrappers.
//
// # Quick Start
//
//	hello := component.New(component.Metadata{Name: "hello.world"},
//	    func(ctx context.Context, conv *component.Conversation) error {
//	        conv.Reply("Hello").Transition()
//	        return nil
//	    })
//
//	r, err := middleware.Init(middleware.Options{
//	    Parser:    &parser.Options{},
//	    Component: &component.Options{Components: []component.Component{hello}},
//	})
//	if err != nil {
//	    return err
//	}
//	http.ListenAndServe(":8080", r)
//
// cmd/botserver wraps the same composition in a CLI with TOML, environment,
// and flag configuration.
package botweaver
