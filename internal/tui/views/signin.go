package views

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/rivo/tview"

	"github.com/wooqoo/qoo/internal/ctrl"
	"github.com/wooqoo/qoo/internal/tui/ui"
)

// SignIn is the credential entry screen. Next to the form it offers a QR
// pairing code for linking from another device; scanning is simulated, the
// code itself is real and scannable.
type SignIn struct {
	*tview.Flex
	theme  *ui.Theme
	ctl    *ctrl.Controller
	form   *tview.Form
	qr     *tview.TextView
	onErr  func(error)
	showQR bool
}

// NewSignIn creates the sign-in screen.
func NewSignIn(theme *ui.Theme, ctl *ctrl.Controller, onErr func(error)) *SignIn {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetBorderColor(theme.BorderColor)
	form.SetBackgroundColor(theme.BgColor)
	form.SetFieldBackgroundColor(theme.TableCursorBg)
	form.SetFieldTextColor(theme.TableCursorFg)
	form.SetLabelColor(theme.FgColor)
	form.SetButtonBackgroundColor(theme.BorderColor)
	form.SetTitle(" Sign in ")
	form.SetTitleColor(theme.TitleColor)

	qr := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	qr.SetBorder(true)
	qr.SetBorderColor(theme.BorderColor)
	qr.SetBackgroundColor(theme.BgColor)
	qr.SetTextColor(theme.FgColor)
	qr.SetTitle(" Link a device ")
	qr.SetTitleColor(theme.TitleColor)

	v := &SignIn{
		Flex:  tview.NewFlex().SetDirection(tview.FlexRow),
		theme: theme,
		ctl:   ctl,
		form:  form,
		qr:    qr,
		onErr: onErr,
	}

	form.AddInputField("Email or username", "", 32, nil, nil)
	form.AddPasswordField("Password", "", 32, '*', nil)
	form.AddButton("Sign in", v.submit)
	form.AddButton("Show QR", v.toggleQR)

	v.SetBackgroundColor(theme.BgColor)
	v.layout()
	return v
}

func (v *SignIn) layout() {
	v.Clear()
	if v.showQR {
		v.AddItem(hcenter(v.form, 52), 11, 0, true).
			AddItem(hcenter(v.qr, 52), 0, 1, false)
	} else {
		v.AddItem(hcenter(v.form, 52), 0, 1, true)
	}
}

func (v *SignIn) submit() {
	handle := v.form.GetFormItem(0).(*tview.InputField).GetText()
	password := v.form.GetFormItem(1).(*tview.InputField).GetText()
	if err := v.ctl.SignIn(handle, password); err != nil {
		if v.onErr != nil {
			v.onErr(err)
		}
		return
	}
	v.resetForm()
}

func (v *SignIn) toggleQR() {
	v.showQR = !v.showQR
	if v.showQR {
		token := "qoo://link/" + uuid.New().String()
		v.qr.Clear()
		_, _ = fmt.Fprintf(v.qr, "\n%s\n[::d]Scan from the mobile app to link this terminal.", renderQR(token))
	}
	v.layout()
}

func (v *SignIn) resetForm() {
	v.form.GetFormItem(0).(*tview.InputField).SetText("")
	v.form.GetFormItem(1).(*tview.InputField).SetText("")
	v.showQR = false
	v.layout()
}

// Name implements Component.
func (v *SignIn) Name() string { return "Sign in" }

// Refresh implements Component.
func (v *SignIn) Refresh() {}

// Hints implements Component.
func (v *SignIn) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Back"},
	}
}

// renderQR converts a string to a compact ASCII QR code using Unicode
// half-block characters.
func renderQR(content string) string {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "  (QR generation failed: " + err.Error() + ")"
	}
	qr.DisableBorder = false

	bitmap := qr.Bitmap()
	rows := len(bitmap)
	cols := 0
	if rows > 0 {
		cols = len(bitmap[0])
	}

	var sb strings.Builder

	for y := 0; y < rows; y += 2 {
		sb.WriteString("  ")
		for x := 0; x < cols; x++ {
			top := bitmap[y][x]
			bot := false
			if y+1 < rows {
				bot = bitmap[y+1][x]
			}
			switch {
			case top && bot:
				sb.WriteRune('█') // █
			case top && !bot:
				sb.WriteRune('▀') // ▀
			case !top && bot:
				sb.WriteRune('▄') // ▄
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}

	return sb.String()
}
