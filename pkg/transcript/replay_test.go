package transcript

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"mercator-hq/converse/pkg/conversation"
	"mercator-hq/converse/pkg/providers"
)

func TestReplay(t *testing.T) {
	client := conversation.New("sk-test", nil)
	client.PushSystemMessage("sys")

	pushed := Replay(client, []Entry{
		{Role: providers.RoleUser, Content: "q1"},
		{Role: providers.RoleAssistant, Content: "a1"},
		{Role: providers.RoleSystem, Content: "ignored"},
		{Role: providers.RoleUser, Content: "q2"},
	})

	if pushed != 3 {
		t.Errorf("Expected 3 entries pushed, got %d", pushed)
	}

	system := client.SystemMessages()
	if len(system) != 1 || system[0].Content != "sys" {
		t.Errorf("Expected system prompts untouched, got %+v", system)
	}

	chat := client.ChatMessages()
	want := []providers.Message{
		providers.NewMessage(providers.RoleUser, "q1"),
		providers.NewMessage(providers.RoleAssistant, "a1"),
		providers.NewMessage(providers.RoleUser, "q2"),
	}
	if len(chat) != len(want) {
		t.Fatalf("Expected %d chat messages, got %d", len(want), len(chat))
	}
	for i := range want {
		if chat[i] != want[i] {
			t.Errorf("message %d: expected %+v, got %+v", i, want[i], chat[i])
		}
	}
}

func TestReplay_RespectsHistoryLimit(t *testing.T) {
	client := conversation.New("sk-test", nil).SetHistoryLimit(2)

	var entries []Entry
	for i := 0; i < 10; i++ {
		entries = append(entries, Entry{Role: providers.RoleUser, Content: fmt.Sprintf("m%d", i)})
	}

	if pushed := Replay(client, entries); pushed != 10 {
		t.Errorf("Expected 10 pushed, got %d", pushed)
	}

	// The window holds at most limit+1 messages, the most recent ones
	chat := client.ChatMessages()
	if len(chat) != 3 {
		t.Fatalf("Expected 3 messages in window, got %d", len(chat))
	}
	for i, want := range []string{"m7", "m8", "m9"} {
		if chat[i].Content != want {
			t.Errorf("message %d: expected %q, got %q", i, want, chat[i].Content)
		}
	}
}

func TestResume(t *testing.T) {
	store, _ := createTempStore(t)
	ctx := context.Background()

	if err := store.Append(ctx,
		Entry{SessionID: "saved", Role: providers.RoleUser, Content: "hello"},
		Entry{SessionID: "saved", Role: providers.RoleAssistant, Content: "hi"},
	); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	client := conversation.New("sk-test", nil)
	n, err := Resume(ctx, store, client, "saved")
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 entries replayed, got %d", n)
	}
	if client.SessionID() != "saved" {
		t.Errorf("Expected session id %q, got %q", "saved", client.SessionID())
	}
	if len(client.ChatMessages()) != 2 {
		t.Errorf("Expected 2 chat messages, got %d", len(client.ChatMessages()))
	}
}

func TestResume_UnknownSession(t *testing.T) {
	store, _ := createTempStore(t)
	client := conversation.New("sk-test", nil)
	original := client.SessionID()

	_, err := Resume(context.Background(), store, client, "missing")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if client.SessionID() != original {
		t.Error("Expected session id unchanged on failure")
	}
}
