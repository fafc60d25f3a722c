package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/wooqoo/qoo/internal/ctrl"
	"github.com/wooqoo/qoo/internal/entity"
	"github.com/wooqoo/qoo/internal/tui/ui"
)

// Call is the in-call screen. The duration counts up on the call ticker;
// nothing is actually transmitted.
type Call struct {
	*tview.TextView
	theme *ui.Theme
	ctl   *ctrl.Controller
}

// NewCall creates the call screen.
func NewCall(theme *ui.Theme, ctl *ctrl.Controller) *Call {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitleColor(theme.TitleColor)

	return &Call{TextView: tv, theme: theme, ctl: ctl}
}

// Name implements Component.
func (v *Call) Name() string { return "Call" }

// Hints implements Component.
func (v *Call) Hints() []ui.MenuHint {
	return []ui.MenuHint{{Key: "Esc", Description: "End call"}}
}

// Refresh implements Component.
func (v *Call) Refresh() {
	ctx := v.ctl.Context()
	if ctx.ChatID == "" {
		return
	}
	chat, err := v.ctl.Store().Chat(ctx.ChatID)
	if err != nil {
		return
	}

	medium := "Voice call"
	icon := "📞"
	if ctx.CallMedium == entity.CallVideo {
		medium = "Video call"
		icon = "📹"
	}
	v.SetTitle(fmt.Sprintf(" %s ", medium))

	v.Clear()
	_, _ = fmt.Fprintf(v,
		"\n\n\n%s\n\n[%s::b]%s[-:-:-]\n\n[%s]%s[-]\n\n\n[%s::b]%s[-:-:-]\n\n[::d]Esc to hang up",
		icon,
		themeColor(v.theme.CounterColor), tview.Escape(sanitizeForTerminal(chat.DisplayName())),
		themeColor(v.theme.MutedColor), medium,
		themeColor(v.theme.AccentColor), formatClock(v.ctl.CallSeconds()),
	)
}
