package router

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// Router is the shared request dispatcher that layers attach behaviour to.
// Layers add middlewares with Use and endpoints with Handle; the middleware
// chain is assembled once, on the first request, and is fixed afterwards.
type Router struct {
	settings *options
	mux      *http.ServeMux

	mu      sync.Mutex
	layered []Middleware
	sealed  bool
	once    sync.Once
	handler http.Handler
}

// New returns an empty Router configured with the provided options.
func New(opts ...Option) *Router {
	settings := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(settings)
		}
	}

	return &Router{
		settings: settings,
		mux:      http.NewServeMux(),
	}
}

// Use appends middlewares that wrap every route registered on the router.
// They run after the configured chain, in the order they were added. Use
// panics once the router has served its first request.
func (r *Router) Use(middlewares ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		panic("router: Use called after first request")
	}
	r.layered = append(r.layered, middlewares...)
}

// Handle registers the handler for the given http.ServeMux pattern.
func (r *Router) Handle(pattern string, handler http.Handler) {
	if handler == nil {
		panic("router: handler cannot be nil")
	}
	r.mux.Handle(pattern, handler)
}

// HandleFunc registers the handler function for the given pattern.
func (r *Router) HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	if handler == nil {
		panic("router: handler cannot be nil")
	}
	r.mux.HandleFunc(pattern, handler)
}

// Mount serves handler below prefix with the prefix stripped, so a router
// built for "/" can be exposed at "/components".
func (r *Router) Mount(prefix string, handler http.Handler) {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		r.Handle("/", handler)
		return
	}
	r.Handle(prefix+"/", http.StripPrefix(prefix, handler))
}

// Handler returns the fully wrapped handler. The first call seals the router.
func (r *Router) Handler() http.Handler {
	r.once.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.sealed = true
		r.handler = applyMiddlewares(r.mux, r.settings.middlewareChain(r.layered))
	})
	return r.handler
}

// ServeHTTP dispatches the request through the middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Handler().ServeHTTP(w, req)
}

// Logger returns the logger configured for the router.
func (r *Router) Logger() *slog.Logger {
	if r.settings.logger == nil {
		return slog.Default()
	}
	return r.settings.logger
}

// Swagger returns the OpenAPI document used for request validation, if any.
func (r *Router) Swagger() *openapi3.T {
	return r.settings.swagger
}
