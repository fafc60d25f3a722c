package views

import (
	"github.com/rivo/tview"

	"github.com/wooqoo/qoo/internal/ctrl"
	"github.com/wooqoo/qoo/internal/tui/ui"
)

// SignUp is the registration form screen.
type SignUp struct {
	*tview.Flex
	theme *ui.Theme
	ctl   *ctrl.Controller
	form  *tview.Form
	onErr func(error)
}

// NewSignUp creates the sign-up screen.
func NewSignUp(theme *ui.Theme, ctl *ctrl.Controller, onErr func(error)) *SignUp {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetBorderColor(theme.BorderColor)
	form.SetBackgroundColor(theme.BgColor)
	form.SetFieldBackgroundColor(theme.TableCursorBg)
	form.SetFieldTextColor(theme.TableCursorFg)
	form.SetLabelColor(theme.FgColor)
	form.SetButtonBackgroundColor(theme.BorderColor)
	form.SetTitle(" Create account ")
	form.SetTitleColor(theme.TitleColor)

	v := &SignUp{
		Flex:  tview.NewFlex().SetDirection(tview.FlexRow),
		theme: theme,
		ctl:   ctl,
		form:  form,
		onErr: onErr,
	}

	form.AddInputField("Name", "", 32, nil, nil)
	form.AddInputField("Username", "", 32, nil, nil)
	form.AddInputField("Phone", "", 32, nil, nil)
	form.AddButton("Create", v.submit)

	v.SetBackgroundColor(theme.BgColor)
	v.AddItem(hcenter(form, 52), 0, 1, true)
	return v
}

func (v *SignUp) submit() {
	name := v.form.GetFormItem(0).(*tview.InputField).GetText()
	username := v.form.GetFormItem(1).(*tview.InputField).GetText()
	phone := v.form.GetFormItem(2).(*tview.InputField).GetText()
	if err := v.ctl.SignUp(name, username, phone); err != nil {
		if v.onErr != nil {
			v.onErr(err)
		}
		return
	}
	for i := 0; i < 3; i++ {
		v.form.GetFormItem(i).(*tview.InputField).SetText("")
	}
}

// Name implements Component.
func (v *SignUp) Name() string { return "Sign up" }

// Refresh implements Component.
func (v *SignUp) Refresh() {}

// Hints implements Component.
func (v *SignUp) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Back"},
	}
}
