package ui

import "github.com/rivo/tview"

// MenuHint describes a keyboard shortcut for display in the menu bar.
type MenuHint struct {
	Key         string
	Description string
	Numeric     bool // true for 0-9 shortcuts (displayed in a different color)
}

// Component is the interface all screens implement. Refresh re-reads
// application state into the widget; the shell calls it whenever a bus
// event lands or the screen becomes current.
type Component interface {
	tview.Primitive
	Name() string
	Refresh()
	Hints() []MenuHint
}
