package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/wooqoo/qoo/internal/ctrl"
	"github.com/wooqoo/qoo/internal/entity"
	"github.com/wooqoo/qoo/internal/tui/ui"
)

// ChatInfo is the details screen for the selected conversation. Direct
// chats with an unsaved party carry a save-to-contacts form.
type ChatInfo struct {
	*tview.Flex
	theme   *ui.Theme
	ctl     *ctrl.Controller
	details *tview.TextView
	form    *tview.Form
	onErr   func(error)
}

// NewChatInfo creates the chat details screen.
func NewChatInfo(theme *ui.Theme, ctl *ctrl.Controller, onErr func(error)) *ChatInfo {
	details := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	details.SetBorder(true)
	details.SetBorderColor(theme.BorderColor)
	details.SetBackgroundColor(theme.BgColor)
	details.SetTextColor(theme.FgColor)
	details.SetTitle(" Details ")
	details.SetTitleColor(theme.TitleColor)

	v := &ChatInfo{
		Flex:    tview.NewFlex().SetDirection(tview.FlexRow),
		theme:   theme,
		ctl:     ctl,
		details: details,
		onErr:   onErr,
	}
	v.SetBackgroundColor(theme.BgColor)
	v.AddItem(details, 0, 1, true)
	return v
}

// Name implements Component.
func (v *ChatInfo) Name() string { return "Details" }

// Hints implements Component.
func (v *ChatInfo) Hints() []ui.MenuHint {
	return []ui.MenuHint{{Key: "Esc", Description: "Back"}}
}

// Refresh implements Component.
func (v *ChatInfo) Refresh() {
	chatID := v.ctl.Context().ChatID
	if chatID == "" {
		return
	}
	chat, err := v.ctl.Store().Chat(chatID)
	if err != nil {
		if v.onErr != nil {
			v.onErr(err)
		}
		return
	}

	v.Clear()
	v.renderDetails(chat)
	v.AddItem(v.details, 0, 1, true)

	if chat.UnsavedContact() {
		v.buildSaveForm()
		v.AddItem(v.form, 7, 0, true)
	}
}

func (v *ChatInfo) renderDetails(chat entity.Chat) {
	v.details.Clear()

	fg := themeColor(v.theme.FgColor)
	counter := themeColor(v.theme.CounterColor)
	muted := themeColor(v.theme.MutedColor)

	name := tview.Escape(sanitizeForTerminal(chat.DisplayName()))
	_, _ = fmt.Fprintf(v.details, "\n [%s::b]%s[-:-:-]\n [%s]%s[-]\n\n", counter, name, muted, chat.DisplayAvatar())

	switch chat.Kind {
	case entity.ChatDirect:
		u, ok := chat.Counterpart()
		if !ok {
			return
		}
		online := "offline"
		if u.Online {
			online = "online"
		}
		_, _ = fmt.Fprintf(v.details,
			" [%s::b]Username:[-:-:-] %s\n"+
				" [%s::b]Phone:[-:-:-]    %s\n"+
				" [%s::b]Status:[-:-:-]   %s\n\n"+
				" [%s]%s[-]\n",
			fg, tview.Escape(u.Username),
			fg, tview.Escape(u.Phone),
			fg, online,
			muted, tview.Escape(sanitizeForTerminal(u.Bio)))
	default:
		kind := "Group"
		if chat.Kind == entity.ChatChannel {
			kind = "Channel"
			if chat.Public {
				kind = "Public channel"
			}
		}
		_, _ = fmt.Fprintf(v.details,
			" [%s::b]Type:[-:-:-]    %s\n"+
				" [%s::b]Members:[-:-:-] %d\n\n"+
				" [%s]%s[-]\n\n [%s::b]Participants[-:-:-]\n",
			fg, kind,
			fg, chat.MemberCount,
			muted, tview.Escape(sanitizeForTerminal(chat.Description)),
			fg)
		for _, p := range chat.Participants {
			_, _ = fmt.Fprintf(v.details, "  · %s\n", tview.Escape(sanitizeForTerminal(p.Name)))
		}
	}

	_, _ = fmt.Fprintf(v.details, "\n [%s::b]Messages:[-:-:-] %d  [%s::b]Pinned:[-:-:-] %d\n",
		fg, len(chat.Messages), fg, len(chat.PinnedMessages()))
}

func (v *ChatInfo) buildSaveForm() {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetBorderColor(v.theme.BorderColor)
	form.SetBackgroundColor(v.theme.BgColor)
	form.SetFieldBackgroundColor(v.theme.TableCursorBg)
	form.SetFieldTextColor(v.theme.TableCursorFg)
	form.SetLabelColor(v.theme.FgColor)
	form.SetButtonBackgroundColor(v.theme.BorderColor)
	form.SetTitle(" Save to contacts ")
	form.SetTitleColor(v.theme.TitleColor)

	form.AddInputField("Name", "", 32, nil, nil)
	form.AddButton("Save", func() {
		name := form.GetFormItem(0).(*tview.InputField).GetText()
		if name == "" {
			return
		}
		if err := v.ctl.SaveContact(name); err != nil {
			if v.onErr != nil {
				v.onErr(err)
			}
			return
		}
		v.Refresh()
	})

	v.form = form
}
