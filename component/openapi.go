package component

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPI describes the endpoints the layer serves for reg: the catalog at
// "/" and one invocation path per registered component, with the component's
// properties as the request schema. Paths are relative to where the layer is
// mounted.
func OpenAPI(title string, reg *Registry) *openapi3.T {
	if title == "" {
		title = "Bot components"
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: title, Version: PlatformVersion},
		Paths:   openapi3.NewPaths(),
	}

	doc.Paths.Set("/", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "listComponents",
			Summary:     "List registered components",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, jsonResponse("Component catalog", catalogSchema())),
			),
		},
	})

	ids := map[string]bool{}
	for _, meta := range reg.Metadata() {
		doc.Paths.Set("/"+meta.Name, &openapi3.PathItem{
			Post: &openapi3.Operation{
				OperationID: operationID(ids, meta.Name),
				Summary:     "Invoke " + meta.Name,
				RequestBody: &openapi3.RequestBodyRef{
					Value: openapi3.NewRequestBody().
						WithRequired(true).
						WithJSONSchema(requestSchema(meta)),
				},
				Responses: openapi3.NewResponses(
					openapi3.WithStatus(http.StatusOK, jsonResponse("Invocation result", responseSchema())),
				),
			},
		})
	}

	return doc
}

func jsonResponse(description string, schema *openapi3.Schema) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription(description).WithJSONSchema(schema),
	}
}

func requestSchema(meta Metadata) *openapi3.Schema {
	props := openapi3.NewObjectSchema()
	for name, prop := range meta.Properties {
		props.WithProperty(name, propertySchema(prop.Type))
		if prop.Required {
			props.Required = append(props.Required, name)
		}
	}

	schema := openapi3.NewObjectSchema().
		WithProperty("botId", openapi3.NewStringSchema()).
		WithProperty("platformVersion", openapi3.NewStringSchema()).
		WithProperty("context", openapi3.NewObjectSchema()).
		WithProperty("properties", props)
	if len(props.Required) > 0 {
		schema.Required = []string{"properties"}
	}
	return schema
}

func responseSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("platformVersion", openapi3.NewStringSchema()).
		WithProperty("context", openapi3.NewObjectSchema()).
		WithProperty("action", openapi3.NewStringSchema()).
		WithProperty("keepTurn", openapi3.NewBoolSchema()).
		WithProperty("transition", openapi3.NewBoolSchema()).
		WithProperty("error", openapi3.NewBoolSchema()).
		WithProperty("modifyContext", openapi3.NewBoolSchema()).
		WithProperty("messages", openapi3.NewArraySchema().WithItems(openapi3.NewObjectSchema()))
}

func catalogSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("version", openapi3.NewStringSchema()).
		WithProperty("components", openapi3.NewArraySchema().WithItems(openapi3.NewObjectSchema()))
}

func propertySchema(typ string) *openapi3.Schema {
	switch strings.ToLower(typ) {
	case "string":
		return openapi3.NewStringSchema()
	case "boolean", "bool":
		return openapi3.NewBoolSchema()
	case "int", "integer":
		return openapi3.NewIntegerSchema()
	case "number", "float", "double":
		return openapi3.NewFloat64Schema()
	case "list", "array":
		return openapi3.NewArraySchema().WithItems(&openapi3.Schema{})
	case "map", "object":
		return openapi3.NewObjectSchema()
	default:
		return &openapi3.Schema{}
	}
}

// operationID derives an id from name and numbers it when another component
// already mapped to the same id, as "a.b" and "a_b" do.
func operationID(taken map[string]bool, name string) string {
	base := "invoke_" + sanitizeID(name)
	id := base
	for n := 2; taken[id]; n++ {
		id = base + "_" + strconv.Itoa(n)
	}
	taken[id] = true
	return id
}

func sanitizeID(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
