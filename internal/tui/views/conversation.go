package views

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/wooqoo/qoo/internal/ctrl"
	"github.com/wooqoo/qoo/internal/entity"
	"github.com/wooqoo/qoo/internal/seed"
	"github.com/wooqoo/qoo/internal/tui/ui"
)

// Conversation is the message thread screen: a pinned banner, the message
// table, a typing indicator line and the composer.
type Conversation struct {
	*tview.Flex
	theme    *ui.Theme
	ctl      *ctrl.Controller
	banner   *tview.TextView
	table    *tview.Table
	typingTV *tview.TextView
	composer *tview.InputField
	pollForm *tview.Form
	voteList *tview.List
	onErr    func(error)
	onFocus  func(tview.Primitive)

	rowIDs  []string
	voting  string // message id of the poll being voted on, empty otherwise
	polling bool   // poll creator form is open
}

// NewConversation creates the conversation screen.
func NewConversation(theme *ui.Theme, ctl *ctrl.Controller, onErr func(error), onFocus func(tview.Primitive)) *Conversation {
	banner := tview.NewTextView().
		SetDynamicColors(true)
	banner.SetBackgroundColor(theme.BgColor)

	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitleColor(theme.TitleColor)

	typingTV := tview.NewTextView().
		SetDynamicColors(true)
	typingTV.SetBackgroundColor(theme.BgColor)

	composer := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	composer.SetBackgroundColor(theme.BgColor)
	composer.SetFieldBackgroundColor(theme.BgColor)
	composer.SetFieldTextColor(theme.FgColor)
	composer.SetLabelColor(theme.MenuKeyColor)

	voteList := tview.NewList().
		ShowSecondaryText(true).
		SetHighlightFullLine(true)
	voteList.SetBorder(true)
	voteList.SetBorderColor(theme.BorderColor)
	voteList.SetBackgroundColor(theme.BgColor)
	voteList.SetMainTextColor(theme.FgColor)
	voteList.SetSecondaryTextColor(theme.MutedColor)
	voteList.SetSelectedTextColor(theme.TableCursorFg)
	voteList.SetSelectedBackgroundColor(theme.TableCursorBg)
	voteList.SetTitleColor(theme.TitleColor)

	v := &Conversation{
		Flex:     tview.NewFlex().SetDirection(tview.FlexRow),
		theme:    theme,
		ctl:      ctl,
		banner:   banner,
		table:    table,
		typingTV: typingTV,
		composer: composer,
		voteList: voteList,
		onErr:    onErr,
		onFocus:  onFocus,
	}

	composer.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		text := composer.GetText()
		if text == "" {
			return
		}
		if err := ctl.SendText(text); err != nil {
			v.report(err)
			return
		}
		composer.SetText("")
	})

	table.SetSelectedFunc(func(row, col int) { v.activate(row) })

	v.SetBackgroundColor(theme.BgColor)
	v.layout()
	return v
}

func (v *Conversation) report(err error) {
	if err != nil && v.onErr != nil {
		v.onErr(err)
	}
}

func (v *Conversation) layout() {
	v.Clear()
	switch {
	case v.voting != "":
		v.AddItem(v.voteList, 0, 1, true)
		v.focus(v.voteList)
	case v.polling:
		v.AddItem(v.pollForm, 0, 1, true)
		v.focus(v.pollForm)
	default:
		bannerText := v.banner.GetText(false)
		if strings.TrimSpace(bannerText) != "" {
			v.AddItem(v.banner, 1, 0, false)
		}
		v.AddItem(v.table, 0, 1, true).
			AddItem(v.typingTV, 1, 0, false).
			AddItem(v.composer, 1, 0, false)
	}
}

func (v *Conversation) focus(p tview.Primitive) {
	if v.onFocus != nil {
		v.onFocus(p)
	}
}

// Name implements Component.
func (v *Conversation) Name() string { return "Conversation" }

// Hints implements Component.
func (v *Conversation) Hints() []ui.MenuHint {
	if v.voting != "" || v.polling {
		return []ui.MenuHint{
			{Key: "Enter", Description: "Choose"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []ui.MenuHint{
		{Key: "i", Description: "Compose"},
		{Key: "Enter", Description: "Vote/Open"},
		{Key: "p", Description: "Pin"},
		{Key: "v", Description: "Voice note"},
		{Key: "o", Description: "New poll"},
		{Key: "c", Description: "Audio call"},
		{Key: "C", Description: "Video call"},
		{Key: "d", Description: "Details"},
	}
}

// Refresh implements Component.
func (v *Conversation) Refresh() {
	chatID := v.ctl.Context().ChatID
	if chatID == "" {
		return
	}
	chat, err := v.ctl.Store().Chat(chatID)
	if err != nil {
		v.report(err)
		return
	}

	v.renderBanner(chat)
	v.renderMessages(chat)
	v.layout()
}

func (v *Conversation) renderBanner(chat entity.Chat) {
	v.banner.Clear()
	if pinned := chat.PinnedMessages(); len(pinned) > 0 {
		last := pinned[len(pinned)-1]
		_, _ = fmt.Fprintf(v.banner, " [%s]📌 %s[-]",
			themeColor(v.theme.AccentColor),
			tview.Escape(sanitizeForTerminal(truncate(messagePreview(last), 60))))
		return
	}
	if chat.UnsavedContact() {
		_, _ = fmt.Fprintf(v.banner, " [%s]Not in your contacts. Press d to view details and save.[-]",
			themeColor(v.theme.FlashWarnColor))
	}
}

func (v *Conversation) renderMessages(chat entity.Chat) {
	v.table.Clear()
	v.rowIDs = v.rowIDs[:0]

	title := chat.DisplayName()
	if chat.Kind != entity.ChatDirect {
		title = fmt.Sprintf("%s (%d members)", title, chat.MemberCount)
	}
	v.table.SetTitle(" " + tview.Escape(sanitizeForTerminal(title)) + " ")

	names := participantNames(chat)
	for i, m := range chat.Messages {
		sender := names[m.SenderID]
		senderColor := themeColor(v.theme.FgColor)
		if m.SenderID == entity.OperatorID {
			sender = "You"
			senderColor = themeColor(v.theme.AccentColor)
		}

		meta := formatTimestamp(m.Timestamp)
		if m.SenderID == entity.OperatorID {
			meta += " " + statusTicks(m.Status)
		}
		if m.Pinned {
			meta += " 📌"
		}

		v.table.SetCell(i, 0, tview.NewTableCell(fmt.Sprintf(" [%s::b]%s[-:-:-]", senderColor, tview.Escape(sender))))
		v.table.SetCell(i, 1, tview.NewTableCell(" "+v.renderBody(m)).SetExpansion(1))
		v.table.SetCell(i, 2, tview.NewTableCell(fmt.Sprintf("[%s]%s[-] ", themeColor(v.theme.MutedColor), meta)).
			SetAlign(tview.AlignRight))
		v.rowIDs = append(v.rowIDs, m.ID)
	}

	if len(chat.Messages) > 0 {
		v.table.Select(len(chat.Messages)-1, 0)
		v.table.ScrollToEnd()
	}
}

func (v *Conversation) renderBody(m entity.Message) string {
	switch m.Kind {
	case entity.KindPoll:
		if m.Poll == nil {
			return ""
		}
		total := 0
		for _, o := range m.Poll.Options {
			total += len(o.Voters)
		}
		return fmt.Sprintf("📊 %s (%d votes, Enter to vote)", tview.Escape(sanitizeForTerminal(m.Poll.Question)), total)
	case entity.KindVoice:
		if m.Voice == nil {
			return "🎤 Voice message"
		}
		return fmt.Sprintf("🎤 %s · [%s::d]%s[-:-:-]",
			formatClock(int(m.Voice.Duration.Seconds())),
			themeColor(v.theme.MutedColor),
			tview.Escape(sanitizeForTerminal(m.Voice.Transcript)))
	case entity.KindCall, entity.KindImage:
		return messagePreview(m)
	default:
		return tview.Escape(sanitizeForTerminal(m.Text))
	}
}

// SetTyping shows or hides remote typing feedback.
func (v *Conversation) SetTyping(active bool) {
	v.typingTV.Clear()
	if !active {
		return
	}
	name := "Someone"
	if chat, err := v.ctl.Store().Chat(v.ctl.Context().ChatID); err == nil {
		if u, ok := chat.Counterpart(); ok {
			name = u.Name
		}
	}
	_, _ = fmt.Fprintf(v.typingTV, " [%s::d]%s is typing...[-:-:-]",
		themeColor(v.theme.AccentColor), tview.Escape(sanitizeForTerminal(name)))
}

// Composer returns the text input for focus handoff.
func (v *Conversation) Composer() tview.Primitive { return v.composer }

// Table returns the message table for focus handoff.
func (v *Conversation) Table() tview.Primitive { return v.table }

// Dismiss closes any transient sub-surface (vote list, poll form, focused
// composer). Returns true if something was consumed, meaning the shell
// should not navigate back.
func (v *Conversation) Dismiss() bool {
	switch {
	case v.voting != "":
		v.voting = ""
		v.layout()
		v.focus(v.table)
		return true
	case v.polling:
		v.polling = false
		v.layout()
		v.focus(v.table)
		return true
	}
	return false
}

func (v *Conversation) selectedMessage() (entity.Message, bool) {
	row, _ := v.table.GetSelection()
	if row < 0 || row >= len(v.rowIDs) {
		return entity.Message{}, false
	}
	chat, err := v.ctl.Store().Chat(v.ctl.Context().ChatID)
	if err != nil {
		return entity.Message{}, false
	}
	for _, m := range chat.Messages {
		if m.ID == v.rowIDs[row] {
			return m, true
		}
	}
	return entity.Message{}, false
}

// activate handles Enter on a message row. Polls open the vote list.
func (v *Conversation) activate(row int) {
	m, ok := v.selectedMessage()
	if !ok || m.Kind != entity.KindPoll || m.Poll == nil {
		return
	}
	v.openVoteList(m)
}

func (v *Conversation) openVoteList(m entity.Message) {
	v.voteList.Clear()
	v.voteList.SetTitle(" " + tview.Escape(sanitizeForTerminal(m.Poll.Question)) + " ")
	msgID := m.ID
	for _, opt := range m.Poll.Options {
		opt := opt
		label := opt.Text
		if opt.HasVoter(entity.OperatorID) {
			label = "✓ " + label
		}
		secondary := fmt.Sprintf("%d votes", len(opt.Voters))
		v.voteList.AddItem(label, secondary, 0, func() {
			if err := v.ctl.Vote(msgID, opt.ID); err != nil {
				v.report(err)
			}
			v.voting = ""
			v.Refresh()
			v.focus(v.table)
		})
	}
	v.voting = m.ID
	v.layout()
}

// TogglePinSelected pins or unpins the selected message.
func (v *Conversation) TogglePinSelected() {
	m, ok := v.selectedMessage()
	if !ok {
		return
	}
	if err := v.ctl.TogglePin(m.ID); err != nil {
		v.report(err)
	}
}

// SendVoiceNote records a canned voice note into the chat.
func (v *Conversation) SendVoiceNote() {
	pool := seed.VoiceNotes()
	note := pool[rand.IntN(len(pool))]
	if err := v.ctl.SendVoice(note); err != nil {
		v.report(err)
	}
}

// OpenPollForm shows the poll creator in place of the thread.
func (v *Conversation) OpenPollForm() {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetBorderColor(v.theme.BorderColor)
	form.SetBackgroundColor(v.theme.BgColor)
	form.SetFieldBackgroundColor(v.theme.TableCursorBg)
	form.SetFieldTextColor(v.theme.TableCursorFg)
	form.SetLabelColor(v.theme.FgColor)
	form.SetButtonBackgroundColor(v.theme.BorderColor)
	form.SetTitle(" New poll ")
	form.SetTitleColor(v.theme.TitleColor)

	form.AddInputField("Question", "", 40, nil, nil)
	form.AddInputField("Option 1", "", 40, nil, nil)
	form.AddInputField("Option 2", "", 40, nil, nil)
	form.AddInputField("Option 3", "", 40, nil, nil)
	form.AddCheckbox("Allow multiple answers", false, nil)
	form.AddButton("Create", func() {
		question := form.GetFormItem(0).(*tview.InputField).GetText()
		var options []string
		for i := 1; i <= 3; i++ {
			if text := strings.TrimSpace(form.GetFormItem(i).(*tview.InputField).GetText()); text != "" {
				options = append(options, text)
			}
		}
		if strings.TrimSpace(question) == "" || len(options) < 2 {
			v.report(fmt.Errorf("a poll needs a question and at least two options"))
			return
		}
		multiple := form.GetFormItem(4).(*tview.Checkbox).IsChecked()
		if err := v.ctl.CreatePoll(question, options, multiple); err != nil {
			v.report(err)
			return
		}
		v.polling = false
		v.Refresh()
		v.focus(v.table)
	})
	form.AddButton("Cancel", func() {
		v.polling = false
		v.layout()
		v.focus(v.table)
	})

	v.pollForm = form
	v.polling = true
	v.layout()
}

func participantNames(chat entity.Chat) map[string]string {
	names := make(map[string]string, len(chat.Participants))
	for _, p := range chat.Participants {
		names[p.ID] = p.Name
	}
	return names
}
