// Package router provides the Router that bot layers attach to. It wraps
// http.ServeMux with OpenAPI validation, CORS, timeouts, and logging defaults,
// and lets layers append their own middlewares and routes before the first
// request is served. ExampleNew_customOptions demonstrates how to combine
// built-in and custom middlewares.
package router
