package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"

	"github.com/wooqoo/qoo/internal/tui/ui"
)

// StatusBar displays the profile name, auth state, clock and flash text.
type StatusBar struct {
	*tview.TextView
	theme   *ui.Theme
	profile string
	state   string
	typing  string
	flash   string
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *ui.Theme) *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &StatusBar{TextView: tv, theme: theme}
}

// SetProfile updates the profile name display.
func (sb *StatusBar) SetProfile(name string) {
	sb.profile = name
	sb.render()
}

// SetState updates the auth state display.
func (sb *StatusBar) SetState(state string) {
	sb.state = state
	sb.render()
}

// SetTyping shows or clears the typing indicator text.
func (sb *StatusBar) SetTyping(who string) {
	sb.typing = who
	sb.render()
}

// SetFlash sets a temporary message.
func (sb *StatusBar) SetFlash(msg string) {
	sb.flash = msg
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	clock := time.Now().Format("15:04")

	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s | %s", sb.profile, sb.state, clock)
	if sb.typing != "" {
		line += fmt.Sprintf(" | [green]%s is typing...[-]", tview.Escape(sb.typing))
	}
	if sb.flash != "" {
		line += fmt.Sprintf(" | [yellow]%s[-]", sb.flash)
	}

	_, _ = fmt.Fprint(sb, line)
}
