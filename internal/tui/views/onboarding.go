package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/wooqoo/qoo/internal/ctrl"
	"github.com/wooqoo/qoo/internal/tui/ui"
)

// Onboarding is the post-social-sign-in landing screen.
type Onboarding struct {
	*tview.Flex
	theme *ui.Theme
	ctl   *ctrl.Controller
	onErr func(error)
}

// NewOnboarding creates the onboarding screen.
func NewOnboarding(theme *ui.Theme, ctl *ctrl.Controller, onErr func(error)) *Onboarding {
	text := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	text.SetBackgroundColor(theme.BgColor)
	_, _ = fmt.Fprintf(text,
		"\n\n[%s::b]You're almost there[-:-:-]\n\n"+
			"Your account is linked. We generated a demo workspace with\n"+
			"contacts, conversations and stories so you can look around.",
		themeColor(theme.TitleColor))

	v := &Onboarding{
		Flex:  tview.NewFlex().SetDirection(tview.FlexRow),
		theme: theme,
		ctl:   ctl,
		onErr: onErr,
	}

	form := tview.NewForm()
	form.SetBackgroundColor(theme.BgColor)
	form.SetButtonBackgroundColor(theme.BorderColor)
	form.AddButton("Take me to my chats", func() {
		if err := ctl.FinishOnboarding(); err != nil && onErr != nil {
			onErr(err)
		}
	})

	v.SetBackgroundColor(theme.BgColor)
	v.AddItem(text, 0, 1, false).
		AddItem(hcenter(form, 30), 3, 0, true).
		AddItem(tview.NewBox().SetBackgroundColor(theme.BgColor), 0, 1, false)
	return v
}

// Name implements Component.
func (v *Onboarding) Name() string { return "Onboarding" }

// Refresh implements Component.
func (v *Onboarding) Refresh() {}

// Hints implements Component.
func (v *Onboarding) Hints() []ui.MenuHint {
	return []ui.MenuHint{{Key: "Enter", Description: "Continue"}}
}
