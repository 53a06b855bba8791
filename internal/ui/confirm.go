package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
)

// Decision is the outcome of a destructive-action prompt. Declined and
// Interrupted both mean "do not proceed"; they are distinguished only so
// callers can log what happened.
type Decision int

const (
	DecisionProceed Decision = iota
	DecisionDeclined
	DecisionInterrupted
)

func (d Decision) String() string {
	switch d {
	case DecisionProceed:
		return "proceed"
	case DecisionDeclined:
		return "declined"
	case DecisionInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// ConfirmDrop asks the user to confirm dropping the database at dbURL.
// The default answer is No. Interruption (ctrl-c, context cancellation)
// counts as a decline, never as an error; the terminal cursor is restored
// on every exit path.
func ConfirmDrop(ctx context.Context, dbURL string) (Decision, error) {
	return confirmDrop(ctx, os.Stderr, dropPrompt(dbURL))
}

// promptFunc runs a blocking yes/no prompt. Split out so tests can stand
// in for the real form.
type promptFunc func() (bool, error)

func dropPrompt(dbURL string) promptFunc {
	return func() (bool, error) {
		var confirmed bool

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Drop database at %s?", CodeStyle.Render(dbURL))).
					Affirmative("Yes").
					Negative("No").
					Value(&confirmed),
			),
		).WithTheme(huh.ThemeCatppuccin())

		if err := form.Run(); err != nil {
			return false, err
		}

		return confirmed, nil
	}
}

func confirmDrop(ctx context.Context, out io.Writer, prompt promptFunc) (Decision, error) {
	// If this operation is cancelled while we wait for the user to
	// decide, the guard puts the cursor back before control unwinds.
	guard := newCursorGuard(out)

	type answer struct {
		confirmed bool
		err       error
	}

	// The prompt blocks on console input, so it gets its own goroutine;
	// this one only waits on the channel or cancellation.
	ch := make(chan answer, 1)
	go func() {
		confirmed, err := prompt()
		ch <- answer{confirmed: confirmed, err: err}
	}()

	select {
	case <-ctx.Done():
		guard.Restore()
		return DecisionInterrupted, nil
	case a := <-ch:
		if a.err == nil {
			// The prompt finished cleanly and restored the
			// terminal itself.
			guard.Disarm()
			if a.confirmed {
				return DecisionProceed, nil
			}
			return DecisionDeclined, nil
		}

		guard.Restore()
		if errors.Is(a.err, huh.ErrUserAborted) {
			return DecisionInterrupted, nil
		}
		return DecisionDeclined, fmt.Errorf("confirm prompt failed: %w", a.err)
	}
}
