package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/wooqoo/qoo/internal/ctrl"
	"github.com/wooqoo/qoo/internal/nav"
	"github.com/wooqoo/qoo/internal/tui/ui"
)

// Account is the profile and settings hub screen.
type Account struct {
	*tview.Flex
	theme   *ui.Theme
	ctl     *ctrl.Controller
	profile *tview.TextView
	list    *tview.List
	onErr   func(error)
}

// NewAccount creates the account screen.
func NewAccount(theme *ui.Theme, ctl *ctrl.Controller, onErr func(error)) *Account {
	profile := tview.NewTextView().
		SetDynamicColors(true)
	profile.SetBorder(true)
	profile.SetBorderColor(theme.BorderColor)
	profile.SetBackgroundColor(theme.BgColor)
	profile.SetTextColor(theme.FgColor)
	profile.SetTitle(" Profile ")
	profile.SetTitleColor(theme.TitleColor)

	list := tview.NewList().
		ShowSecondaryText(true).
		SetHighlightFullLine(true)
	list.SetBorder(true)
	list.SetBorderColor(theme.BorderColor)
	list.SetBackgroundColor(theme.BgColor)
	list.SetMainTextColor(theme.FgColor)
	list.SetSecondaryTextColor(theme.MutedColor)
	list.SetSelectedTextColor(theme.TableCursorFg)
	list.SetSelectedBackgroundColor(theme.TableCursorBg)
	list.SetTitle(" Settings ")
	list.SetTitleColor(theme.TitleColor)

	v := &Account{
		Flex:    tview.NewFlex().SetDirection(tview.FlexRow),
		theme:   theme,
		ctl:     ctl,
		profile: profile,
		list:    list,
		onErr:   onErr,
	}

	open := func(page nav.SettingsPage) func() {
		return func() { v.report(ctl.OpenSettings(page)) }
	}
	list.AddItem("Account", "Name, username, phone", 'a', open(nav.SettingsAccount))
	list.AddItem("Privacy", "Last seen, read receipts, blocked", 'p', open(nav.SettingsPrivacy))
	list.AddItem("Appearance", "Theme", 't', open(nav.SettingsAppearance))
	list.AddItem("Notifications", "Sounds and previews", 'n', open(nav.SettingsNotifications))
	list.AddItem("Help", "About this build", 'h', open(nav.SettingsHelp))
	list.AddItem("Sign out", "End this session", 'q', func() { v.report(ctl.SignOut()) })

	v.SetBackgroundColor(theme.BgColor)
	v.AddItem(profile, 8, 0, false).
		AddItem(list, 0, 1, true)
	return v
}

func (v *Account) report(err error) {
	if err != nil && v.onErr != nil {
		v.onErr(err)
	}
}

// Name implements Component.
func (v *Account) Name() string { return "Account" }

// Hints implements Component.
func (v *Account) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

// Refresh implements Component.
func (v *Account) Refresh() {
	op := v.ctl.Store().Operator()

	fg := themeColor(v.theme.FgColor)
	counter := themeColor(v.theme.CounterColor)
	muted := themeColor(v.theme.MutedColor)

	v.profile.Clear()
	_, _ = fmt.Fprintf(v.profile,
		" [%s::b]%s[-:-:-]\n"+
			" [%s::b]Username:[-:-:-] %s\n"+
			" [%s::b]Phone:[-:-:-]    %s\n"+
			" [%s]%s[-]",
		counter, tview.Escape(sanitizeForTerminal(op.Name)),
		fg, tview.Escape(op.Username),
		fg, tview.Escape(op.Phone),
		muted, tview.Escape(sanitizeForTerminal(op.Bio)))
}
