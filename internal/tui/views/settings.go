package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/wooqoo/qoo/internal/ctrl"
	"github.com/wooqoo/qoo/internal/nav"
	"github.com/wooqoo/qoo/internal/tui/ui"
)

// Settings renders one account sub-setting page at a time, selected by the
// navigation context. Toggles are prototype-local; only the theme choice
// is persisted, through the onTheme callback.
type Settings struct {
	*tview.Flex
	theme   *ui.Theme
	ctl     *ctrl.Controller
	onTheme func(name string)

	themeName     string
	readReceipts  bool
	lastSeen      bool
	notifSounds   bool
	notifPreviews bool
}

// NewSettings creates the settings screen.
func NewSettings(theme *ui.Theme, ctl *ctrl.Controller, themeName string, onTheme func(name string)) *Settings {
	v := &Settings{
		Flex:          tview.NewFlex().SetDirection(tview.FlexRow),
		theme:         theme,
		ctl:           ctl,
		onTheme:       onTheme,
		themeName:     themeName,
		readReceipts:  true,
		lastSeen:      true,
		notifSounds:   true,
		notifPreviews: true,
	}
	v.SetBackgroundColor(theme.BgColor)
	return v
}

// Name implements Component.
func (v *Settings) Name() string { return "Settings" }

// Hints implements Component.
func (v *Settings) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Esc", Description: "Back"},
	}
}

// Refresh implements Component.
func (v *Settings) Refresh() {
	page := v.ctl.Context().SettingsPage
	v.Clear()
	switch page {
	case nav.SettingsAppearance:
		v.AddItem(v.appearanceForm(), 0, 1, true)
	case nav.SettingsPrivacy:
		v.AddItem(v.privacyForm(), 0, 1, true)
	case nav.SettingsNotifications:
		v.AddItem(v.notificationsForm(), 0, 1, true)
	case nav.SettingsHelp:
		v.AddItem(v.helpText(), 0, 1, true)
	default:
		v.AddItem(v.accountForm(), 0, 1, true)
	}
}

func (v *Settings) newForm(title string) *tview.Form {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetBorderColor(v.theme.BorderColor)
	form.SetBackgroundColor(v.theme.BgColor)
	form.SetFieldBackgroundColor(v.theme.TableCursorBg)
	form.SetFieldTextColor(v.theme.TableCursorFg)
	form.SetLabelColor(v.theme.FgColor)
	form.SetButtonBackgroundColor(v.theme.BorderColor)
	form.SetTitle(" " + title + " ")
	form.SetTitleColor(v.theme.TitleColor)
	return form
}

func (v *Settings) accountForm() tview.Primitive {
	op := v.ctl.Store().Operator()
	form := v.newForm("Account")
	form.AddInputField("Name", op.Name, 32, nil, nil)
	form.AddInputField("Username", op.Username, 32, nil, nil)
	form.AddInputField("Phone", op.Phone, 32, nil, nil)
	form.AddInputField("Bio", op.Bio, 48, nil, nil)
	return form
}

func (v *Settings) privacyForm() tview.Primitive {
	form := v.newForm("Privacy")
	form.AddCheckbox("Show last seen", v.lastSeen, func(checked bool) { v.lastSeen = checked })
	form.AddCheckbox("Send read receipts", v.readReceipts, func(checked bool) { v.readReceipts = checked })
	return form
}

func (v *Settings) appearanceForm() tview.Primitive {
	form := v.newForm("Appearance")
	initial := 0
	if v.themeName == "light" {
		initial = 1
	}
	form.AddDropDown("Theme", []string{"dark", "light"}, initial, func(option string, index int) {
		if option == v.themeName {
			return
		}
		v.themeName = option
		if v.onTheme != nil {
			v.onTheme(option)
		}
	})
	return form
}

func (v *Settings) notificationsForm() tview.Primitive {
	form := v.newForm("Notifications")
	form.AddCheckbox("Sounds", v.notifSounds, func(checked bool) { v.notifSounds = checked })
	form.AddCheckbox("Message previews", v.notifPreviews, func(checked bool) { v.notifPreviews = checked })
	return form
}

func (v *Settings) helpText() tview.Primitive {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBorder(true)
	tv.SetBorderColor(v.theme.BorderColor)
	tv.SetBackgroundColor(v.theme.BgColor)
	tv.SetTextColor(v.theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(v.theme.TitleColor)
	_, _ = fmt.Fprintf(tv,
		"\n\n[%s::b]Wooqoo Terminal[-:-:-]\n\n"+
			"A self-contained messaging prototype. Everything you see is\n"+
			"generated locally; nothing leaves this machine.\n\n"+
			"Logs live under ~/.qoo/profiles/<name>/logs.",
		themeColor(v.theme.TitleColor))
	return tv
}
