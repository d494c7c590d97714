package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/drblury/botweaver/component"
	"github.com/drblury/botweaver/parser"
	"github.com/drblury/botweaver/router"
)

type activation struct {
	name    string
	options any
}

type fakeLayer struct {
	name     string
	required bool
	err      error
	calls    *[]activation
}

func (f *fakeLayer) Required() bool { return f.required }

func (f *fakeLayer) Extend(r *router.Router, options any) error {
	if r == nil {
		return errors.New("nil router")
	}
	*f.calls = append(*f.calls, activation{name: f.name, options: options})
	return f.err
}

// withFakeLayers swaps the built-in layers for recording fakes that keep the
// real option selectors.
func withFakeLayers(t *testing.T, required map[string]bool, errs map[string]error) *[]activation {
	t.Helper()

	calls := &[]activation{}
	fakes := make(registry, len(layers))
	for i, e := range layers {
		fakes[i] = entry{
			name:  e.name,
			pick:  e.pick,
			layer: &fakeLayer{name: e.name, required: required[e.name], err: errs[e.name], calls: calls},
		}
	}

	original := layers
	layers = fakes
	t.Cleanup(func() { layers = original })
	return calls
}

func activated(calls []activation) []string {
	names := make([]string, 0, len(calls))
	for _, c := range calls {
		names = append(names, c.name)
	}
	return names
}

func TestInitActivatesOnlyConfiguredLayers(t *testing.T) {
	t.Run("parser only", func(t *testing.T) {
		calls := withFakeLayers(t, nil, nil)
		parserOpts := &parser.Options{Limit: 42}

		if _, err := Init(Options{Parser: parserOpts}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := activated(*calls); !reflect.DeepEqual(got, []string{"parser"}) {
			t.Fatalf("unexpected activations: %v", got)
		}
		if (*calls)[0].options != any(parserOpts) {
			t.Fatalf("expected parser options to be forwarded unchanged, got %#v", (*calls)[0].options)
		}
	})

	t.Run("component only", func(t *testing.T) {
		calls := withFakeLayers(t, nil, nil)
		componentOpts := &component.Options{}

		if _, err := Init(Options{Component: componentOpts}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := activated(*calls); !reflect.DeepEqual(got, []string{"component"}) {
			t.Fatalf("unexpected activations: %v", got)
		}
		if (*calls)[0].options != any(componentOpts) {
			t.Fatalf("expected component options to be forwarded unchanged, got %#v", (*calls)[0].options)
		}
	})

	t.Run("both in registration order", func(t *testing.T) {
		calls := withFakeLayers(t, nil, nil)

		if _, err := Init(Options{Parser: &parser.Options{}, Component: &component.Options{}}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := activated(*calls); !reflect.DeepEqual(got, []string{"parser", "component"}) {
			t.Fatalf("unexpected activations: %v", got)
		}
	})
}

func TestInitEmptyOptionsActivatesRequiredLayers(t *testing.T) {
	t.Run("nothing required", func(t *testing.T) {
		calls := withFakeLayers(t, nil, nil)

		r, err := Init(Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r == nil {
			t.Fatal("expected a router")
		}
		if len(*calls) != 0 {
			t.Fatalf("expected no activations, got %v", activated(*calls))
		}
	})

	t.Run("required layer still runs", func(t *testing.T) {
		calls := withFakeLayers(t, map[string]bool{"component": true}, nil)

		if _, err := Init(Options{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := activated(*calls); !reflect.DeepEqual(got, []string{"component"}) {
			t.Fatalf("unexpected activations: %v", got)
		}
		opts, ok := (*calls)[0].options.(*component.Options)
		if !ok || opts != nil {
			t.Fatalf("expected a nil *component.Options, got %#v", (*calls)[0].options)
		}
	})
}

func TestInitReturnsLayerErrorUnchanged(t *testing.T) {
	sentinel := errors.New("extend failed")
	calls := withFakeLayers(t, nil, map[string]error{"parser": sentinel})

	r, err := Init(Options{Parser: &parser.Options{}, Component: &component.Options{}})
	if err != sentinel {
		t.Fatalf("expected the layer error itself, got %v", err)
	}
	if r != nil {
		t.Fatal("expected no router on error")
	}
	if got := activated(*calls); !reflect.DeepEqual(got, []string{"parser"}) {
		t.Fatalf("expected composition to stop at the failing layer, got %v", got)
	}
}

func TestParserMatchesInitWithParserOnly(t *testing.T) {
	opts := parser.Options{Limit: 512, Text: &parser.TextOptions{}}

	viaInit := withFakeLayers(t, nil, nil)
	if _, err := Init(Options{Parser: &opts}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	viaParser := withFakeLayers(t, nil, nil)
	if _, err := Parser(opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(activated(*viaInit), activated(*viaParser)) {
		t.Fatalf("activations differ: init=%v parser=%v", activated(*viaInit), activated(*viaParser))
	}
	got, ok := (*viaParser)[0].options.(*parser.Options)
	if !ok || !reflect.DeepEqual(*got, opts) {
		t.Fatalf("expected parser options %+v, got %#v", opts, (*viaParser)[0].options)
	}
}

func TestParserRouterParsesBodies(t *testing.T) {
	r, err := Parser(parser.Options{}, router.WithoutLoggingMiddleware())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var kind parser.Kind
	r.HandleFunc("POST /echo", func(w http.ResponseWriter, req *http.Request) {
		if body, ok := parser.FromContext(req.Context()); ok {
			kind = body.Kind
		}
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"hello":"world"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if kind != parser.KindJSON {
		t.Fatalf("expected json body in context, got %v", kind)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected no component routes, got %d", rr.Code)
	}
}

func TestInitWithBothLayersServesComponents(t *testing.T) {
	greeter := component.New(component.Metadata{
		Name:       "greeter",
		Properties: map[string]component.Property{"name": {Type: "string", Required: true}},
	}, func(ctx context.Context, conv *component.Conversation) error {
		conv.Reply("hi " + conv.StringProperty("name")).Transition()
		return nil
	})

	r, err := Init(Options{
		Parser:    &parser.Options{},
		Component: &component.Options{Components: []component.Component{greeter}},
	}, router.WithoutLoggingMiddleware())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/greeter", strings.NewReader(`{"botId":"b1","properties":{"name":"ada"}}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"text":"hi ada"`) {
		t.Fatalf("expected reply in response, got %s", rr.Body.String())
	}
}

func TestInitPropagatesComponentRegistrationError(t *testing.T) {
	dup := component.New(component.Metadata{Name: "dup"}, nil)

	_, err := Init(Options{Component: &component.Options{Components: []component.Component{dup, dup}}})
	if !errors.Is(err, component.ErrDuplicateComponent) {
		t.Fatalf("expected duplicate component error, got %v", err)
	}
}

func TestNamesListsLayersInOrder(t *testing.T) {
	if got := Names(); !reflect.DeepEqual(got, []string{"parser", "component"}) {
		t.Fatalf("unexpected layer names: %v", got)
	}
}
