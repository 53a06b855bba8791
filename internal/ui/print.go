package ui

import (
	"fmt"
	"os"
)

func PrintInfo(msg string) {
	fmt.Fprintln(os.Stderr, MutedStyle.Render(msg))
}

func PrintWarning(msg string) {
	fmt.Fprintln(os.Stderr, WarningStyle.Render("! ")+msg)
}

func PrintDone(msg string) {
	fmt.Fprintln(os.Stderr, SuccessStyle.Render("✓ "+msg))
}

func PrintError(msg string) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("✗ ")+msg)
}
