package component

import (
	"context"
	"testing"
)

func TestOpenAPIDescribesRegisteredComponents(t *testing.T) {
	reg, err := NewRegistry(greeter(), New(Metadata{Name: "order.pizza"}, nil))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	doc := OpenAPI("", reg)

	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("expected a valid document, got %v", err)
	}
	if doc.Info.Title != "Bot components" {
		t.Fatalf("unexpected title %q", doc.Info.Title)
	}
	if item := doc.Paths.Value("/"); item == nil || item.Get == nil {
		t.Fatal("expected catalog path")
	}

	item := doc.Paths.Value("/greeter")
	if item == nil || item.Post == nil {
		t.Fatal("expected invocation path for greeter")
	}
	body := item.Post.RequestBody.Value.Content.Get("application/json")
	if body == nil {
		t.Fatal("expected json request body")
	}
	props := body.Schema.Value.Properties["properties"].Value
	if len(props.Required) != 1 || props.Required[0] != "name" {
		t.Fatalf("expected name to be required, got %v", props.Required)
	}

	if pizza := doc.Paths.Value("/order.pizza"); pizza == nil || pizza.Post.OperationID != "invoke_order_pizza" {
		t.Fatalf("unexpected operation for order.pizza: %+v", pizza)
	}
}

func TestOpenAPIOperationIDsAreUnique(t *testing.T) {
	reg, err := NewRegistry(
		New(Metadata{Name: "a_b"}, nil),
		New(Metadata{Name: "a.b"}, nil),
		New(Metadata{Name: "a-b"}, nil),
	)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	doc := OpenAPI("", reg)
	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("expected a valid document, got %v", err)
	}

	want := map[string]string{
		"/a-b": "invoke_a_b",
		"/a.b": "invoke_a_b_2",
		"/a_b": "invoke_a_b_3",
	}
	for path, id := range want {
		item := doc.Paths.Value(path)
		if item == nil || item.Post == nil {
			t.Fatalf("expected invocation path %s", path)
		}
		if item.Post.OperationID != id {
			t.Fatalf("expected %s for %s, got %s", id, path, item.Post.OperationID)
		}
	}
}
