package ui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// ProfileData holds the account summary shown in the header.
type ProfileData struct {
	Profile string
	Name    string
	Handle  string
	Chats   int
	Unread  int
	Uptime  time.Duration
}

// ProfileInfo displays account metadata in the header.
type ProfileInfo struct {
	*tview.TextView
	theme *Theme
}

// NewProfileInfo creates a new profile info panel.
func NewProfileInfo(theme *Theme) *ProfileInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &ProfileInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the profile info.
func (pi *ProfileInfo) Update(data *ProfileData) {
	pi.Clear()
	if data == nil {
		return
	}

	fgColor := colorName(pi.theme.FgColor)
	counterColor := colorName(pi.theme.CounterColor)

	handle := data.Handle
	if handle == "" {
		handle = "-"
	}

	text := fmt.Sprintf(
		"[%s::b]Profile:[-:-:-] [%s]%s[-]\n"+
			"[%s::b]Name:[-:-:-]    [%s]%s[-]\n"+
			"[%s::b]Handle:[-:-:-]  [%s]%s[-]\n"+
			"[%s::b]Chats:[-:-:-]   [%s]%d[-]\n"+
			"[%s::b]Unread:[-:-:-]  [%s]%d[-]\n"+
			"[%s::b]Uptime:[-:-:-]  [%s]%s[-]",
		fgColor, counterColor, data.Profile,
		fgColor, counterColor, data.Name,
		fgColor, counterColor, handle,
		fgColor, counterColor, data.Chats,
		fgColor, counterColor, data.Unread,
		fgColor, counterColor, formatDuration(data.Uptime),
	)

	_, _ = fmt.Fprint(pi, text)
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
