package cli

import (
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether stdin is a terminal. Prompts are only
// printed for interactive sessions so piped output stays clean.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
