package keys

import (
	"github.com/gdamore/tcell/v2"

	"github.com/wooqoo/qoo/internal/tui/ui"
)

// Action represents a keybinding action. Hint with an empty Key is hidden
// from the menu bar.
type Action struct {
	Key     tcell.Key
	Rune    rune
	Hint    ui.MenuHint
	Handler func()
}

// Matches returns true if the event matches this action.
func (a *Action) Matches(ev *tcell.EventKey) bool {
	if a.Key != tcell.KeyRune {
		return ev.Key() == a.Key
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == a.Rune
}

// Registry holds keybindings organized by screen.
type Registry struct {
	Global map[string]*Action
	Views  map[string]map[string]*Action
}

// NewRegistry creates a new keybinding registry.
func NewRegistry() *Registry {
	return &Registry{
		Global: make(map[string]*Action),
		Views:  make(map[string]map[string]*Action),
	}
}

// AddGlobal registers a global keybinding.
func (r *Registry) AddGlobal(name string, action *Action) {
	r.Global[name] = action
}

// AddView registers a screen-specific keybinding.
func (r *Registry) AddView(view, name string, action *Action) {
	if r.Views[view] == nil {
		r.Views[view] = make(map[string]*Action)
	}
	r.Views[view][name] = action
}

// MenuHints returns visible hints for a screen, with its own bindings
// before the global ones.
func (r *Registry) MenuHints(view string) []ui.MenuHint {
	var hints []ui.MenuHint
	if viewBindings, ok := r.Views[view]; ok {
		for _, a := range viewBindings {
			if a.Hint.Key != "" {
				hints = append(hints, a.Hint)
			}
		}
	}
	for _, a := range r.Global {
		if a.Hint.Key != "" {
			hints = append(hints, a.Hint)
		}
	}
	return hints
}

// HandleEvent dispatches a key event to the matching action in the given
// screen. Returns true if a handler matched.
func (r *Registry) HandleEvent(view string, ev *tcell.EventKey) bool {
	if viewBindings, ok := r.Views[view]; ok {
		for _, a := range viewBindings {
			if a.Matches(ev) {
				a.Handler()
				return true
			}
		}
	}
	for _, a := range r.Global {
		if a.Matches(ev) {
			a.Handler()
			return true
		}
	}
	return false
}
