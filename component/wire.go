package component

// PlatformVersion is the wire format version reported by the catalog endpoint.
const PlatformVersion = "1.1"

// Request is the payload posted to POST /{component}.
type Request struct {
	BotID           string         `json:"botId"`
	PlatformVersion string         `json:"platformVersion"`
	Context         Context        `json:"context"`
	Properties      map[string]any `json:"properties,omitempty"`
	Message         any            `json:"message,omitempty"`
}

// Context carries the dialog flow variables.
type Context struct {
	Variables map[string]Variable `json:"variables"`
}

// Variable is a single dialog flow variable.
type Variable struct {
	Type   string `json:"type,omitempty"`
	Entity bool   `json:"entity"`
	Value  any    `json:"value"`
}

// Response is the payload returned after an invocation.
type Response struct {
	PlatformVersion string    `json:"platformVersion"`
	Context         Context   `json:"context"`
	Action          string    `json:"action,omitempty"`
	KeepTurn        bool      `json:"keepTurn"`
	Transition      bool      `json:"transition"`
	Error           bool      `json:"error"`
	ModifyContext   bool      `json:"modifyContext"`
	Messages        []Message `json:"messages"`
}

// Message is a reply sent back to the user.
type Message struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// Catalog is the payload returned by GET /.
type Catalog struct {
	Version    string     `json:"version"`
	Components []Metadata `json:"components"`
}
