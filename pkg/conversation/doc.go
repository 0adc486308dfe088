// Package conversation implements a chat completion client that keeps a
// bounded conversation history.
//
// # Basic Usage
//
//	client := conversation.New(os.Getenv("OPENAI_API_KEY"), httpClient)
//	client.PushSystemMessage("You are a terse assistant.")
//
//	client.PushUserMessage("What is the capital of France?")
//	reply, err := client.Completion(ctx)
//	if err != nil {
//	    return err
//	}
//	client.PushAssistantMessage(reply)
//
// # History
//
// System messages are kept for the whole session and always sent first.
// User and assistant messages live in a sliding window bounded by
// SetHistoryLimit (default 30). Eviction is FIFO by count and happens before
// each push, so the window can hold one more message than the limit.
//
// # Errors
//
// Completion returns one of the typed errors from the providers package and
// writes one diagnostic line to the configured logger. It never retries and
// never panics on an unexpected response shape.
package conversation
