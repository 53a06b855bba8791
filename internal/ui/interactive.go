package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// IsInteractive reports whether stdin is attached to a terminal. Prompts
// are only offered when it is; automation gets the non-interactive paths.
func IsInteractive() bool {
	return term.IsTerminal(os.Stdin.Fd())
}
