package component

import (
	"log/slog"

	"github.com/drblury/botweaver/responder"
)

// Conversation is the view a component has of one invocation. It reads the
// incoming Request and accumulates the Response. A Conversation is not safe
// for concurrent use.
type Conversation struct {
	id     string
	name   string
	req    *Request
	resp   Response
	logger *slog.Logger
}

// NewConversation builds the conversation for invoking component name with
// req. Handlers normally get one from the dispatcher; tests can build their own.
func NewConversation(name string, req *Request, logger *slog.Logger) *Conversation {
	return newConversation(responder.NewTraceID(), name, req, logger)
}

func newConversation(id, name string, req *Request, logger *slog.Logger) *Conversation {
	if req == nil {
		req = &Request{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	vars := make(map[string]Variable, len(req.Context.Variables))
	for k, v := range req.Context.Variables {
		vars[k] = v
	}
	version := req.PlatformVersion
	if version == "" {
		version = PlatformVersion
	}

	return &Conversation{
		id:   id,
		name: name,
		req:  req,
		resp: Response{
			PlatformVersion: version,
			Context:         Context{Variables: vars},
			Messages:        []Message{},
		},
		logger: logger.With("component", name, "invocationId", id),
	}
}

// InvocationID returns the ULID assigned to this invocation.
func (c *Conversation) InvocationID() string { return c.id }

// ComponentName returns the name the component was invoked under.
func (c *Conversation) ComponentName() string { return c.name }

// BotID returns the id of the calling bot.
func (c *Conversation) BotID() string { return c.req.BotID }

// Logger returns a logger annotated with the component and invocation id.
func (c *Conversation) Logger() *slog.Logger { return c.logger }

// Message returns the user message that triggered the invocation.
func (c *Conversation) Message() any { return c.req.Message }

// Properties returns the input properties of the invocation.
func (c *Conversation) Properties() map[string]any { return c.req.Properties }

// Property returns a single input property.
func (c *Conversation) Property(name string) (any, bool) {
	v, ok := c.req.Properties[name]
	return v, ok
}

// StringProperty returns a property as a string, or "" when absent or not a string.
func (c *Conversation) StringProperty(name string) string {
	v, _ := c.req.Properties[name].(string)
	return v
}

// Variable returns the value of a dialog flow variable, including any change
// made during this invocation.
func (c *Conversation) Variable(name string) (any, bool) {
	v, ok := c.resp.Context.Variables[name]
	if !ok {
		return nil, false
	}
	return v.Value, true
}

// SetVariable assigns a dialog flow variable and marks the context modified.
// Unknown variables are created without a type.
func (c *Conversation) SetVariable(name string, value any) *Conversation {
	v := c.resp.Context.Variables[name]
	v.Value = value
	c.resp.Context.Variables[name] = v
	c.resp.ModifyContext = true
	return c
}

// Reply queues a text message for the user. Replying hands the turn back to
// the user unless KeepTurn(true) is called afterwards.
func (c *Conversation) Reply(text string) *Conversation {
	return c.ReplyMessage(Message{Type: "text", Text: text})
}

// ReplyMessage queues an arbitrary message for the user.
func (c *Conversation) ReplyMessage(msg Message) *Conversation {
	if msg.Type == "" {
		msg.Type = "text"
	}
	c.resp.Messages = append(c.resp.Messages, msg)
	c.resp.KeepTurn = false
	return c
}

// KeepTurn controls whether the bot keeps control after this invocation.
func (c *Conversation) KeepTurn(keep bool) *Conversation {
	c.resp.KeepTurn = keep
	return c
}

// Transition asks the dialog flow to move on, optionally via action.
func (c *Conversation) Transition(action ...string) *Conversation {
	c.resp.Transition = true
	if len(action) > 0 {
		c.resp.Action = action[0]
	}
	return c
}

// SetError flags the invocation as failed so the dialog flow takes its error path.
func (c *Conversation) SetError(flag bool) *Conversation {
	c.resp.Error = flag
	return c
}

// Response returns a copy of the response built so far.
func (c *Conversation) Response() Response {
	resp := c.resp
	resp.Messages = append([]Message(nil), c.resp.Messages...)
	if resp.Messages == nil {
		resp.Messages = []Message{}
	}
	vars := make(map[string]Variable, len(c.resp.Context.Variables))
	for k, v := range c.resp.Context.Variables {
		vars[k] = v
	}
	resp.Context.Variables = vars
	return resp
}
