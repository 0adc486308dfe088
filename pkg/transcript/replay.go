package transcript

import (
	"context"
	"fmt"

	"mercator-hq/converse/pkg/conversation"
	"mercator-hq/converse/pkg/providers"
)

// Replay pushes stored user and assistant entries into client in order.
// Entries go through the client's normal push path, so only the most
// recent ones survive when the session is longer than the history limit.
// Entries with any other role are skipped. It returns the number of
// entries pushed.
func Replay(client *conversation.Client, entries []Entry) int {
	pushed := 0
	for _, e := range entries {
		switch e.Role {
		case providers.RoleUser:
			client.PushUserMessage(e.Content)
		case providers.RoleAssistant:
			client.PushAssistantMessage(e.Content)
		default:
			continue
		}
		pushed++
	}
	return pushed
}

// Resume loads sessionID from store, adopts it as the client's session
// and replays its entries.
func Resume(ctx context.Context, store Store, client *conversation.Client, sessionID string) (int, error) {
	entries, err := store.Session(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	client.SetSessionID(sessionID)
	return Replay(client, entries), nil
}
