package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/wooqoo/qoo/internal/ctrl"
	"github.com/wooqoo/qoo/internal/entity"
	"github.com/wooqoo/qoo/internal/tui/ui"
)

// Tab selects which listing the home screen shows.
type Tab int

const (
	TabChats Tab = iota
	TabStatus
	TabCalls
	TabContacts
)

var tabNames = []string{"Chats", "Status", "Calls", "Contacts"}

// ChatList is the home screen: a tab bar over a table listing chats,
// story feeds, call history or contacts.
type ChatList struct {
	*tview.Flex
	theme  *ui.Theme
	ctl    *ctrl.Controller
	tabBar *tview.TextView
	table  *tview.Table
	onErr  func(error)

	tab    Tab
	filter string
	rowIDs []string
}

// NewChatList creates the home screen.
func NewChatList(theme *ui.Theme, ctl *ctrl.Controller, onErr func(error)) *ChatList {
	tabBar := tview.NewTextView().
		SetDynamicColors(true)
	tabBar.SetBackgroundColor(theme.BgColor)
	tabBar.SetBorderPadding(0, 0, 1, 0)

	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitleColor(theme.TitleColor)

	cl := &ChatList{
		Flex:   tview.NewFlex().SetDirection(tview.FlexRow),
		theme:  theme,
		ctl:    ctl,
		tabBar: tabBar,
		table:  table,
		onErr:  onErr,
	}

	table.SetSelectedFunc(func(row, col int) { cl.activate(row) })

	cl.SetBackgroundColor(theme.BgColor)
	cl.AddItem(tabBar, 1, 0, false).
		AddItem(table, 0, 1, true)
	cl.Refresh()
	return cl
}

// Name implements Component.
func (cl *ChatList) Name() string { return "Home" }

// Hints implements Component.
func (cl *ChatList) Hints() []ui.MenuHint {
	hints := []ui.MenuHint{
		{Key: "Enter", Description: "Open"},
		{Key: "Tab", Description: "Next tab"},
		{Key: "/", Description: "Filter"},
	}
	if cl.tab == TabChats {
		hints = append(hints, ui.MenuHint{Key: "1-4", Description: "Tab", Numeric: true})
	}
	return hints
}

// Refresh implements Component.
func (cl *ChatList) Refresh() {
	cl.renderTabs()
	switch cl.tab {
	case TabStatus:
		cl.renderStatus()
	case TabCalls:
		cl.renderCalls()
	case TabContacts:
		cl.renderContacts()
	default:
		cl.renderChats()
	}
	if cl.table.GetRowCount() > 1 {
		row, _ := cl.table.GetSelection()
		if row < 1 || row >= cl.table.GetRowCount() {
			cl.table.Select(1, 0)
		}
	}
}

// NextTab cycles to the next tab.
func (cl *ChatList) NextTab() {
	cl.SwitchTab(Tab((int(cl.tab) + 1) % len(tabNames)))
}

// SwitchTab jumps to a tab and clears the filter.
func (cl *ChatList) SwitchTab(t Tab) {
	cl.tab = t
	cl.filter = ""
	cl.Refresh()
	cl.table.Select(1, 0)
}

// SetFilter narrows the current tab's rows by a case-insensitive substring.
func (cl *ChatList) SetFilter(filter string) {
	cl.filter = filter
	cl.Refresh()
}

// activate handles Enter on a row, per tab.
func (cl *ChatList) activate(row int) {
	idx := row - 1
	if idx < 0 || idx >= len(cl.rowIDs) {
		return
	}
	id := cl.rowIDs[idx]

	var err error
	switch cl.tab {
	case TabStatus:
		err = cl.ctl.ViewStories(id)
	case TabCalls, TabChats:
		err = cl.ctl.OpenChat(id)
	case TabContacts:
		if chatID, ok := cl.directChatWith(id); ok {
			err = cl.ctl.OpenChat(chatID)
		} else {
			err = fmt.Errorf("no conversation with this contact yet")
		}
	}
	if err != nil && cl.onErr != nil {
		cl.onErr(err)
	}
}

// directChatWith finds the direct chat whose counterpart is the given user.
func (cl *ChatList) directChatWith(userID string) (string, bool) {
	for _, chat := range cl.ctl.Store().Chats() {
		if u, ok := chat.Counterpart(); ok && u.ID == userID {
			return chat.ID, true
		}
	}
	return "", false
}

func (cl *ChatList) renderTabs() {
	cl.tabBar.Clear()
	var parts []string
	for i, name := range tabNames {
		if Tab(i) == cl.tab {
			parts = append(parts, fmt.Sprintf("[%s:%s:b] %s [-:-:-]",
				themeColor(cl.theme.CrumbActiveFg), themeColor(cl.theme.CrumbActiveBg), name))
		} else {
			parts = append(parts, fmt.Sprintf("[%s] %s [-]",
				themeColor(cl.theme.MutedColor), name))
		}
	}
	_, _ = fmt.Fprint(cl.tabBar, strings.Join(parts, " "))
}

func (cl *ChatList) header(cols ...string) {
	for i, text := range cols {
		cell := tview.NewTableCell(" " + text).
			SetSelectable(false).
			SetTextColor(cl.theme.TableHeaderFg).
			SetBackgroundColor(cl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold)
		if i < 2 {
			cell.SetExpansion(1)
		}
		cl.table.SetCell(0, i, cell)
	}
}

func (cl *ChatList) matches(fields ...string) bool {
	if cl.filter == "" {
		return true
	}
	needle := strings.ToLower(cl.filter)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func (cl *ChatList) cell(row, col int, text string, expand int) {
	cl.table.SetCell(row, col, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(text))).
		SetExpansion(expand).
		SetTextColor(cl.theme.FgColor))
}

func (cl *ChatList) setTitle(label string, shown, total int) {
	if cl.filter != "" {
		cl.table.SetTitle(fmt.Sprintf(" %s (%d/%d) filter: %s ", label, shown, total, cl.filter))
	} else {
		cl.table.SetTitle(fmt.Sprintf(" %s (%d) ", label, total))
	}
}

func (cl *ChatList) renderChats() {
	cl.table.Clear()
	cl.rowIDs = cl.rowIDs[:0]
	cl.header("NAME", "LAST MESSAGE", "TIME", "TYPE")

	chats := cl.ctl.Store().Chats()
	row := 1
	for _, chat := range chats {
		name := chat.DisplayName()
		preview := ""
		ts := ""
		if last, ok := chat.LastMessage(); ok {
			preview = messagePreview(last)
			ts = formatTimestamp(last.Timestamp)
		}
		if !cl.matches(name, preview) {
			continue
		}

		if chat.UnreadCount > 0 {
			name = fmt.Sprintf("(%d) %s", chat.UnreadCount, name)
		}
		if chat.Pinned {
			name = "📌 " + name
		}
		if chat.Muted {
			name += " 🔇"
		}
		if chat.UnsavedContact() {
			name += " [unsaved]"
		}

		kind := strings.ToUpper(string(chat.Kind))

		cl.cell(row, 0, name, 1)
		cl.cell(row, 1, truncate(preview, 48), 2)
		cl.cell(row, 2, ts, 0)
		cl.cell(row, 3, kind, 0)
		cl.rowIDs = append(cl.rowIDs, chat.ID)
		row++
	}
	cl.setTitle("Chats", row-1, len(chats))
}

func (cl *ChatList) renderStatus() {
	cl.table.Clear()
	cl.rowIDs = cl.rowIDs[:0]
	cl.header("NAME", "STORIES", "LATEST", "")

	owners := cl.ctl.Store().StoryOwners()
	row := 1
	for _, u := range owners {
		if !cl.matches(u.Name, u.Username) {
			continue
		}
		name := u.Name
		if u.HasUnreadStories {
			name = "● " + name
		}
		latest := ""
		if n := len(u.Stories); n > 0 {
			latest = formatTimestamp(u.Stories[n-1].Timestamp)
		}
		cl.cell(row, 0, name, 1)
		cl.cell(row, 1, fmt.Sprintf("%d", len(u.Stories)), 0)
		cl.cell(row, 2, latest, 0)
		cl.rowIDs = append(cl.rowIDs, u.ID)
		row++
	}
	cl.setTitle("Status", row-1, len(owners))
}

func (cl *ChatList) renderCalls() {
	cl.table.Clear()
	cl.rowIDs = cl.rowIDs[:0]
	cl.header("NAME", "CALL", "TIME", "LENGTH")

	logs := cl.ctl.Store().CallLogs()
	row := 1
	for _, log := range logs {
		if !cl.matches(log.ChatName) {
			continue
		}
		arrow := "↙"
		switch log.Direction {
		case entity.CallOutgoing:
			arrow = "↗"
		case entity.CallMissed:
			arrow = "✗"
		}
		medium := "audio"
		if log.Medium == entity.CallVideo {
			medium = "video"
		}
		length := ""
		if log.Direction != entity.CallMissed {
			length = formatClock(int(log.Duration.Seconds()))
		}
		cl.cell(row, 0, log.ChatName, 1)
		cl.cell(row, 1, arrow+" "+medium, 0)
		cl.cell(row, 2, formatTimestamp(log.Timestamp), 0)
		cl.cell(row, 3, length, 0)
		cl.rowIDs = append(cl.rowIDs, log.ChatID)
		row++
	}
	cl.setTitle("Calls", row-1, len(logs))
}

func (cl *ChatList) renderContacts() {
	cl.table.Clear()
	cl.rowIDs = cl.rowIDs[:0]
	cl.header("NAME", "USERNAME", "PHONE", "")

	contacts := cl.ctl.Store().Contacts()
	row := 1
	for _, u := range contacts {
		if !cl.matches(u.Name, u.Username, u.Phone) {
			continue
		}
		name := u.Name
		if u.Online {
			name += " ●"
		}
		cl.cell(row, 0, name, 1)
		cl.cell(row, 1, u.Username, 1)
		cl.cell(row, 2, u.Phone, 0)
		cl.rowIDs = append(cl.rowIDs, u.ID)
		row++
	}
	cl.setTitle("Contacts", row-1, len(contacts))
}
