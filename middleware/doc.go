// Package middleware composes the bot layers onto a single router.
//
// Each layer is activated when the caller configured it or when the layer
// declares itself required:
//
//	r, err := middleware.Init(middleware.Options{
//	    Parser:    &parser.Options{Limit: 1 << 20},
//	    Component: &component.Options{Components: components},
//	})
//	if err != nil {
//	    return err
//	}
//	mux.Handle("/components/", http.StripPrefix("/components", r))
//
// Parser is a shortcut for a router carrying only the body-parsing layer.
package middleware
