// Package component is the custom component layer. Components are registered
// in a Registry and exposed on a router with two endpoints: GET / lists the
// metadata of every registered component, and POST /{component} invokes one
// component with a Request and answers with the Response it built through its
// Conversation.
package component
