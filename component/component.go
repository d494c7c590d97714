package component

import (
	"context"
	"errors"
	"fmt"
)

// Component is a unit of bot logic invoked by name.
type Component interface {
	Metadata() Metadata
	Invoke(ctx context.Context, conv *Conversation) error
}

// InvokeFunc is the body of a component built with New.
type InvokeFunc func(ctx context.Context, conv *Conversation) error

// Metadata describes a component to the dialog flow engine.
type Metadata struct {
	Name             string              `json:"name"`
	Properties       map[string]Property `json:"properties,omitempty"`
	SupportedActions []string            `json:"supportedActions,omitempty"`
}

// Property describes one input property of a component.
type Property struct {
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// ErrMissingProperty is reported when a required property is absent from a request.
var ErrMissingProperty = errors.New("component: missing required property")

func (m Metadata) validate(properties map[string]any) error {
	for name, prop := range m.Properties {
		if !prop.Required {
			continue
		}
		if v, ok := properties[name]; !ok || v == nil {
			return fmt.Errorf("%w %q", ErrMissingProperty, name)
		}
	}
	return nil
}

type funcComponent struct {
	meta Metadata
	fn   InvokeFunc
}

// New returns a Component backed by fn.
func New(meta Metadata, fn InvokeFunc) Component {
	return &funcComponent{meta: meta, fn: fn}
}

func (c *funcComponent) Metadata() Metadata { return c.meta }

func (c *funcComponent) Invoke(ctx context.Context, conv *Conversation) error {
	if c.fn == nil {
		return fmt.Errorf("component %q has no invoke function", c.meta.Name)
	}
	return c.fn(ctx, conv)
}
