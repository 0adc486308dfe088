package providers

import (
	"encoding/json"
	"testing"
)

func TestMessage_JSONShape(t *testing.T) {
	msg := NewMessage(RoleUser, "Hello")

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("failed to marshal message: %v", err)
	}

	expected := `{"role":"user","content":"Hello"}`
	if string(data) != expected {
		t.Errorf("expected %s, got %s", expected, string(data))
	}
}

func TestMessage_EmptyContentIsKept(t *testing.T) {
	data, err := json.Marshal(NewMessage(RoleAssistant, ""))
	if err != nil {
		t.Fatalf("failed to marshal message: %v", err)
	}

	expected := `{"role":"assistant","content":""}`
	if string(data) != expected {
		t.Errorf("expected %s, got %s", expected, string(data))
	}
}
