package ui

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// ErrAborted marks a prompt the user backed out of. Callers treat it as a
// clean exit, not a failure.
var ErrAborted = errors.New("aborted")

// NormalizeAbort maps the prompt library's abort error onto ErrAborted so
// callers only need to know about one sentinel.
func NormalizeAbort(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

