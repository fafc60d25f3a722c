package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/wooqoo/qoo/internal/ctrl"
	"github.com/wooqoo/qoo/internal/tui/ui"
)

// Welcome is the entry screen with the three onboarding paths.
type Welcome struct {
	*tview.Flex
	theme *ui.Theme
	ctl   *ctrl.Controller
	list  *tview.List
	onErr func(error)
}

// NewWelcome creates the welcome screen.
func NewWelcome(theme *ui.Theme, ctl *ctrl.Controller, onErr func(error)) *Welcome {
	banner := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	banner.SetBackgroundColor(theme.BgColor)
	_, _ = fmt.Fprintf(banner, "\n[%s::b]Welcome to Wooqoo[-:-:-]\n\nMessages, calls and stories, all in your terminal.",
		themeColor(theme.TitleColor))

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	list.SetBorder(true)
	list.SetBorderColor(theme.BorderColor)
	list.SetBackgroundColor(theme.BgColor)
	list.SetMainTextColor(theme.FgColor)
	list.SetSelectedTextColor(theme.TableCursorFg)
	list.SetSelectedBackgroundColor(theme.TableCursorBg)
	list.SetTitle(" Get started ")
	list.SetTitleColor(theme.TitleColor)

	w := &Welcome{
		Flex:  tview.NewFlex().SetDirection(tview.FlexRow),
		theme: theme,
		ctl:   ctl,
		list:  list,
		onErr: onErr,
	}

	list.AddItem("Sign in", "", 'i', func() { w.report(ctl.ChooseSignIn()) })
	list.AddItem("Create account", "", 'c', func() { w.report(ctl.ChooseSignUp()) })
	list.AddItem("Continue with social", "", 's', func() { w.report(ctl.ChooseSocial()) })

	w.SetBackgroundColor(theme.BgColor)
	w.AddItem(banner, 0, 1, false).
		AddItem(hcenter(list, 40), 9, 0, true).
		AddItem(tview.NewBox().SetBackgroundColor(theme.BgColor), 0, 1, false)

	return w
}

func (w *Welcome) report(err error) {
	if err != nil && w.onErr != nil {
		w.onErr(err)
	}
}

// Name implements Component.
func (w *Welcome) Name() string { return "Welcome" }

// Refresh implements Component.
func (w *Welcome) Refresh() {}

// Hints implements Component.
func (w *Welcome) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Choose"},
		{Key: "↑/↓", Description: "Move"},
	}
}

// hcenter wraps a primitive in spacer flexes so it renders at a fixed
// width in the middle of the row.
func hcenter(p tview.Primitive, width int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(p, width, 0, true).
		AddItem(nil, 0, 1, false)
}
