package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/wooqoo/qoo/internal/ctrl"
	"github.com/wooqoo/qoo/internal/tui/ui"
)

// Story is the full-screen story viewer. It advances by itself on each
// story's duration and closes past the last one; arrow keys move manually.
type Story struct {
	*tview.TextView
	theme *ui.Theme
	ctl   *ctrl.Controller
}

// NewStory creates the story viewer.
func NewStory(theme *ui.Theme, ctl *ctrl.Controller) *Story {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitleColor(theme.TitleColor)

	return &Story{TextView: tv, theme: theme, ctl: ctl}
}

// Name implements Component.
func (v *Story) Name() string { return "Stories" }

// Hints implements Component.
func (v *Story) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "→", Description: "Next"},
		{Key: "←", Description: "Previous"},
		{Key: "Esc", Description: "Close"},
	}
}

// Refresh implements Component.
func (v *Story) Refresh() {
	story, owner, ok := v.ctl.CurrentStory()
	if !ok {
		return
	}

	idx := v.ctl.StoryIndex()
	total := len(owner.Stories)
	v.SetTitle(fmt.Sprintf(" %s · %d/%d ", tview.Escape(sanitizeForTerminal(owner.Name)), idx+1, total))

	// Progress segments, filled through the current story.
	var bar strings.Builder
	for i := 0; i < total; i++ {
		if i <= idx {
			bar.WriteString("━━━")
		} else {
			bar.WriteString("┄┄┄")
		}
		if i < total-1 {
			bar.WriteByte(' ')
		}
	}

	v.Clear()
	_, _ = fmt.Fprintf(v,
		"\n[%s]%s[-]\n\n\n\n[%s::b]%s[-:-:-]\n\n[%s]%s[-]\n\n[%s::d]posted %s · plays for %ds[-:-:-]",
		themeColor(v.theme.AccentColor), bar.String(),
		themeColor(v.theme.CounterColor), tview.Escape(sanitizeForTerminal(owner.Name)),
		themeColor(v.theme.FgColor), tview.Escape(story.MediaURL),
		themeColor(v.theme.MutedColor), formatTimestamp(story.Timestamp), int(story.Duration.Seconds()),
	)
}
