// Converse is a terminal client for OpenAI-compatible chat completion APIs.
//
// It keeps a bounded conversation window, optionally records transcripts to
// SQLite and can resume earlier sessions.
//
// Usage:
//
//	# Start an interactive session
//	converse chat
//
//	# Start with a custom configuration file and system prompt
//	converse chat --config ~/.config/converse.yaml --system "Answer in French."
//
//	# One-shot question
//	converse ask "What is a goroutine?"
//
//	# List recorded sessions, then resume one
//	converse history
//	converse chat --resume 1b4e28ba-2fa1-11d2-883f-0016d3cca427
//
//	# Check the credential, endpoint and transcript store
//	converse doctor
//
//	# Show version information
//	converse version
package main

func main() {
	Execute()
}
