package ui

import "github.com/charmbracelet/huh/spinner"

// RunWithSpinner runs fn behind a spinner with the given title. The
// spinner's own error (terminal trouble) takes precedence over fn's.
func RunWithSpinner(title string, fn func() error) error {
	var err error

	if serr := spinner.New().Title(title).Action(func() {
		err = fn()
	}).Run(); serr != nil {
		return serr
	}

	return err
}
