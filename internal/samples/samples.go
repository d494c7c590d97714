// Package samples holds the components bundled with botserver so a fresh
// deployment has something to dispatch to.
package samples

import (
	"context"
	"fmt"
	"strings"

	"github.com/drblury/botweaver/component"
)

// HelloWorld greets the user by name, defaulting to "world", and stores the
// greeting in the "greeting" variable.
func HelloWorld() component.Component {
	return component.New(component.Metadata{
		Name: "hello.world",
		Properties: map[string]component.Property{
			"human": {Type: "string"},
		},
		SupportedActions: []string{"weekday", "weekend"},
	}, func(ctx context.Context, conv *component.Conversation) error {
		human := strings.TrimSpace(conv.StringProperty("human"))
		if human == "" {
			human = "world"
		}
		greeting := fmt.Sprintf("Hello %s", human)

		conv.Reply(greeting).SetVariable("greeting", greeting).Transition()
		return nil
	})
}

// EchoProperty replies with the value of the required "text" property and
// keeps the turn so the flow continues without waiting for the user.
func EchoProperty() component.Component {
	return component.New(component.Metadata{
		Name: "echo.property",
		Properties: map[string]component.Property{
			"text":   {Type: "string", Required: true},
			"action": {Type: "string"},
		},
		SupportedActions: []string{"echoed"},
	}, func(ctx context.Context, conv *component.Conversation) error {
		action := conv.StringProperty("action")
		if action == "" {
			action = "echoed"
		}
		conv.Reply(conv.StringProperty("text")).KeepTurn(true).Transition(action)
		return nil
	})
}

// All returns every bundled component.
func All() []component.Component {
	return []component.Component{HelloWorld(), EchoProperty()}
}
