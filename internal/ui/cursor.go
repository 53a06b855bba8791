package ui

import (
	"fmt"
	"io"
	"sync"
)

const showCursorSeq = "\x1b[?25h"

// cursorGuard restores terminal cursor visibility exactly once, no matter
// how the surrounding prompt scope exits. Disarm it when the prompt
// library has finished cleanly and owns the cursor again.
type cursorGuard struct {
	out io.Writer

	mu    sync.Mutex
	spent bool
}

func newCursorGuard(out io.Writer) *cursorGuard {
	return &cursorGuard{out: out}
}

// Disarm marks the guard as settled without touching the terminal.
func (g *cursorGuard) Disarm() {
	g.mu.Lock()
	g.spent = true
	g.mu.Unlock()
}

// Restore makes the cursor visible again. Safe to call after Disarm or a
// previous Restore; only the first call writes.
func (g *cursorGuard) Restore() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.spent {
		return
	}
	g.spent = true
	fmt.Fprint(g.out, showCursorSeq)
}
