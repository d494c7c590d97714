package component

import (
	"testing"
)

func TestConversation(t *testing.T) {
	req := &Request{
		BotID:      "b1",
		Properties: map[string]any{"size": "large", "count": 2.0},
		Context: Context{Variables: map[string]Variable{
			"size": {Type: "string", Value: "small"},
		}},
		Message: map[string]any{"text": "pizza"},
	}
	conv := NewConversation("order", req, nil)

	if conv.InvocationID() == "" || conv.ComponentName() != "order" || conv.BotID() != "b1" {
		t.Fatalf("unexpected identity: %q %q %q", conv.InvocationID(), conv.ComponentName(), conv.BotID())
	}
	if conv.StringProperty("size") != "large" || conv.StringProperty("count") != "" {
		t.Fatal("unexpected string property handling")
	}
	if v, ok := conv.Property("count"); !ok || v != 2.0 {
		t.Fatalf("unexpected property %v", v)
	}

	conv.SetVariable("size", "large")
	if v, _ := conv.Variable("size"); v != "large" {
		t.Fatalf("expected updated variable, got %v", v)
	}
	if req.Context.Variables["size"].Value != "small" {
		t.Fatal("request variables must not be mutated")
	}
	if _, ok := conv.Variable("missing"); ok {
		t.Fatal("expected unknown variable to be absent")
	}

	conv.KeepTurn(true).Reply("one")
	resp := conv.Response()
	if resp.KeepTurn {
		t.Fatal("expected reply to hand the turn back")
	}
	conv.ReplyMessage(Message{Payload: map[string]string{"card": "menu"}}).KeepTurn(true)

	resp = conv.Response()
	if !resp.KeepTurn || len(resp.Messages) != 2 || resp.Messages[1].Type != "text" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Context.Variables["size"].Type != "string" || !resp.ModifyContext {
		t.Fatalf("expected variable type to be kept, got %+v", resp.Context)
	}
	if resp.PlatformVersion != PlatformVersion {
		t.Fatalf("expected default platform version, got %q", resp.PlatformVersion)
	}

	resp.Messages[0].Text = "changed"
	if conv.Response().Messages[0].Text != "one" {
		t.Fatal("expected Response to return a copy")
	}
}

func TestInvocationIDsAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewConversation("c", nil, nil).InvocationID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate invocation id %s", id)
		}
		seen[id] = struct{}{}
	}
}
