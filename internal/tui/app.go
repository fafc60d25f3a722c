// Package tui is the rendering layer. The shell owns the tview application
// and the page stack; screens implement ui.Component and re-read state on
// Refresh. All mutations go through the controller; the shell only reacts
// to bus events.
package tui

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/wooqoo/qoo/internal/bus"
	"github.com/wooqoo/qoo/internal/config"
	"github.com/wooqoo/qoo/internal/ctrl"
	"github.com/wooqoo/qoo/internal/entity"
	"github.com/wooqoo/qoo/internal/nav"
	"github.com/wooqoo/qoo/internal/tui/keys"
	"github.com/wooqoo/qoo/internal/tui/ui"
	"github.com/wooqoo/qoo/internal/tui/views"
)

// Shell is the top-level TUI application.
type Shell struct {
	app      *tview.Application
	theme    *ui.Theme
	ctl      *ctrl.Controller
	bus      *bus.Bus
	logger   *zap.Logger
	cfg      *config.Config
	cfgPath  string
	profile  string
	registry *keys.Registry

	pages       *ui.Pages
	logo        *ui.Logo
	profileInfo *ui.ProfileInfo
	crumbs      *ui.Crumbs
	menu        *ui.Menu
	flash       *ui.FlashModel
	flashBar    *ui.FlashBar
	prompt      *ui.Prompt
	statusBar   *views.StatusBar
	root        *tview.Flex

	components   map[nav.View]ui.Component
	chatList     *views.ChatList
	conversation *views.Conversation
	callView     *views.Call
	storyView    *views.Story

	started   time.Time
	filtering bool
	unsub     func()
	done      chan struct{}
}

// NewShell builds the application shell and all screens.
func NewShell(ctl *ctrl.Controller, b *bus.Bus, logger *zap.Logger, cfg *config.Config, cfgPath, profile string) *Shell {
	theme := ui.ThemeByName(cfg.Theme)

	s := &Shell{
		app:         tview.NewApplication(),
		theme:       theme,
		ctl:         ctl,
		bus:         b,
		logger:      logger,
		cfg:         cfg,
		cfgPath:     cfgPath,
		profile:     profile,
		registry:    keys.NewRegistry(),
		pages:       ui.NewPages(),
		logo:        ui.NewLogo(theme),
		profileInfo: ui.NewProfileInfo(theme),
		crumbs:      ui.NewCrumbs(theme),
		menu:        ui.NewMenu(theme),
		flash:       ui.NewFlashModel(),
		flashBar:    ui.NewFlashBar(theme),
		prompt:      ui.NewPrompt(theme),
		statusBar:   views.NewStatusBar(theme),
		components:  make(map[nav.View]ui.Component),
		started:     time.Now(),
	}

	onErr := s.reportError
	onFocus := func(p tview.Primitive) { s.app.SetFocus(p) }

	s.chatList = views.NewChatList(theme, ctl, onErr)
	s.conversation = views.NewConversation(theme, ctl, onErr, onFocus)
	s.callView = views.NewCall(theme, ctl)
	s.storyView = views.NewStory(theme, ctl)

	s.components[nav.ViewWelcome] = views.NewWelcome(theme, ctl, onErr)
	s.components[nav.ViewSignIn] = views.NewSignIn(theme, ctl, onErr)
	s.components[nav.ViewSignUp] = views.NewSignUp(theme, ctl, onErr)
	s.components[nav.ViewOnboarding] = views.NewOnboarding(theme, ctl, onErr)
	s.components[nav.ViewChatList] = s.chatList
	s.components[nav.ViewConversation] = s.conversation
	s.components[nav.ViewChatInfo] = views.NewChatInfo(theme, ctl, onErr)
	s.components[nav.ViewCall] = s.callView
	s.components[nav.ViewStoryViewer] = s.storyView
	s.components[nav.ViewAccount] = views.NewAccount(theme, ctl, onErr)
	s.components[nav.ViewSettings] = views.NewSettings(theme, ctl, cfg.Theme, s.saveTheme)

	for view, c := range s.components {
		s.pages.AddPage(string(view), c, true, false)
	}
	s.pages.SetOnChange(func(stack []string) { s.crumbs.Update(stack) })

	s.setupPrompt()
	s.setupBindings()
	s.setupLayout()
	s.syncView()

	return s
}

func (s *Shell) reportError(err error) {
	s.flash.Err(err)
	s.flashBar.Update(s.flash.GetMessage())
	s.logger.Warn("ui action failed", zap.Error(err))
}

func (s *Shell) saveTheme(name string) {
	s.cfg.Theme = name
	if err := config.Save(s.cfgPath, s.cfg); err != nil {
		s.reportError(err)
		return
	}
	s.flash.Info("Theme saved. Takes effect on next launch.")
	s.flashBar.Update(s.flash.GetMessage())
}

func (s *Shell) setupPrompt() {
	s.prompt.SetOnChange(func(text string) {
		if s.ctl.View() == nav.ViewChatList {
			s.chatList.SetFilter(text)
		}
	})
	s.prompt.SetOnSubmit(func(string) { s.closePrompt() })
	s.prompt.SetOnCancel(func() {
		s.chatList.SetFilter("")
		s.closePrompt()
	})
}

func (s *Shell) closePrompt() {
	s.filtering = false
	s.setupLayout()
	s.focusCurrent()
}

func (s *Shell) setupBindings() {
	home := string(nav.ViewChatList)
	s.registry.AddView(home, "next-tab", &keys.Action{
		Key: tcell.KeyTab,
		Handler: func() { s.chatList.NextTab(); s.updateMenu() },
	})
	s.registry.AddView(home, "filter", &keys.Action{
		Key: tcell.KeyRune, Rune: '/',
		Handler: func() {
			s.filtering = true
			s.prompt.Activate("/", "Filter")
			s.setupLayout()
			s.app.SetFocus(s.prompt)
		},
	})
	s.registry.AddView(home, "account", &keys.Action{
		Key: tcell.KeyRune, Rune: 'a',
		Hint:    ui.MenuHint{Key: "a", Description: "Account"},
		Handler: func() { s.do(s.ctl.OpenAccount) },
	})
	for i, tab := range []views.Tab{views.TabChats, views.TabStatus, views.TabCalls, views.TabContacts} {
		tab := tab
		r := rune('1' + i)
		s.registry.AddView(home, "tab-"+string(r), &keys.Action{
			Key: tcell.KeyRune, Rune: r,
			Handler: func() { s.chatList.SwitchTab(tab); s.updateMenu() },
		})
	}

	conv := string(nav.ViewConversation)
	s.registry.AddView(conv, "compose", &keys.Action{
		Key: tcell.KeyRune, Rune: 'i',
		Handler: func() { s.app.SetFocus(s.conversation.Composer()) },
	})
	s.registry.AddView(conv, "pin", &keys.Action{
		Key: tcell.KeyRune, Rune: 'p',
		Handler: s.conversation.TogglePinSelected,
	})
	s.registry.AddView(conv, "voice", &keys.Action{
		Key: tcell.KeyRune, Rune: 'v',
		Handler: s.conversation.SendVoiceNote,
	})
	s.registry.AddView(conv, "poll", &keys.Action{
		Key: tcell.KeyRune, Rune: 'o',
		Handler: s.conversation.OpenPollForm,
	})
	s.registry.AddView(conv, "audio-call", &keys.Action{
		Key: tcell.KeyRune, Rune: 'c',
		Handler: func() { s.do(func() error { return s.ctl.StartCall(entity.CallAudio) }) },
	})
	s.registry.AddView(conv, "video-call", &keys.Action{
		Key: tcell.KeyRune, Rune: 'C',
		Handler: func() { s.do(func() error { return s.ctl.StartCall(entity.CallVideo) }) },
	})
	s.registry.AddView(conv, "details", &keys.Action{
		Key: tcell.KeyRune, Rune: 'd',
		Handler: func() { s.do(s.ctl.OpenChatInfo) },
	})

	story := string(nav.ViewStoryViewer)
	s.registry.AddView(story, "next", &keys.Action{
		Key:     tcell.KeyRight,
		Handler: func() { s.do(s.ctl.AdvanceStory) },
	})
	s.registry.AddView(story, "prev", &keys.Action{
		Key:     tcell.KeyLeft,
		Handler: func() { s.do(s.ctl.PrevStory) },
	})
}

// do runs a controller action and flashes any error.
func (s *Shell) do(fn func() error) {
	if err := fn(); err != nil {
		s.reportError(err)
	}
}

func (s *Shell) setupLayout() {
	header := tview.NewFlex().
		AddItem(s.logo, 18, 0, false).
		AddItem(s.profileInfo, 0, 1, false).
		AddItem(s.menu, 0, 1, false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, 6, 0, false).
		AddItem(s.crumbs, 1, 0, false).
		AddItem(s.pages, 0, 1, true)
	if s.filtering {
		root.AddItem(s.prompt, 3, 0, false)
	}
	root.AddItem(s.flashBar, 1, 0, false).
		AddItem(s.statusBar, 1, 0, false)

	s.root = root
	s.app.SetRoot(root, true)
	s.app.SetInputCapture(s.handleKey)
}

func (s *Shell) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyEscape {
		if s.handleEscape() {
			return nil
		}
		return event
	}

	// Text widgets get all other keys.
	switch s.app.GetFocus().(type) {
	case *tview.InputField, *tview.DropDown, *tview.Checkbox, *tview.Button:
		return event
	}

	if s.registry.HandleEvent(string(s.ctl.View()), event) {
		return nil
	}
	return event
}

// handleEscape maps Esc to the contextual back action of the current
// screen. Returns false to let a focused widget consume it instead.
func (s *Shell) handleEscape() bool {
	if s.filtering {
		return false // prompt's own done func handles it
	}

	switch s.ctl.View() {
	case nav.ViewWelcome:
		return false
	case nav.ViewCall:
		s.do(s.ctl.EndCall)
	case nav.ViewStoryViewer:
		s.do(s.ctl.CloseStories)
	case nav.ViewConversation:
		if s.conversation.Dismiss() {
			return true
		}
		if s.app.GetFocus() == s.conversation.Composer() {
			s.app.SetFocus(s.conversation.Table())
			return true
		}
		s.do(s.ctl.Back)
	default:
		s.do(s.ctl.Back)
	}
	return true
}

// syncView mirrors the navigation machine into the page stack and
// refreshes the now-current screen.
func (s *Shell) syncView() {
	view := s.ctl.View()
	s.pages.SyncStack(viewTrail(view))

	if c, ok := s.components[view]; ok {
		c.Refresh()
		s.app.SetFocus(c)
	}
	s.updateMenu()
	s.updateHeader()
	s.updateStatus()
}

// viewTrail derives the breadcrumb trail for a view from the navigation
// hierarchy.
func viewTrail(view nav.View) []string {
	switch view {
	case nav.ViewSignIn, nav.ViewSignUp, nav.ViewOnboarding:
		return []string{string(nav.ViewWelcome), string(view)}
	case nav.ViewConversation, nav.ViewStoryViewer, nav.ViewAccount:
		return []string{string(nav.ViewChatList), string(view)}
	case nav.ViewChatInfo, nav.ViewCall:
		return []string{string(nav.ViewChatList), string(nav.ViewConversation), string(view)}
	case nav.ViewSettings:
		return []string{string(nav.ViewChatList), string(nav.ViewAccount), string(view)}
	default:
		return []string{string(view)}
	}
}

func (s *Shell) updateMenu() {
	view := s.ctl.View()
	var hints []ui.MenuHint
	if c, ok := s.components[view]; ok {
		hints = append(hints, c.Hints()...)
	}
	hints = append(hints, s.registry.MenuHints(string(view))...)
	s.menu.Update(hints)
}

func (s *Shell) updateHeader() {
	if !s.ctl.Context().Authenticated {
		s.profileInfo.Update(nil)
		return
	}
	op := s.ctl.Store().Operator()
	chats := s.ctl.Store().Chats()
	unread := 0
	for _, c := range chats {
		unread += c.UnreadCount
	}
	s.profileInfo.Update(&ui.ProfileData{
		Profile: s.profile,
		Name:    op.Name,
		Handle:  op.Username,
		Chats:   len(chats),
		Unread:  unread,
		Uptime:  time.Since(s.started),
	})
}

func (s *Shell) updateStatus() {
	s.statusBar.SetProfile(s.profile)
	state := "signed out"
	if s.ctl.Context().Authenticated {
		state = "ready"
	}
	s.statusBar.SetState(state)
	s.statusBar.SetFlash(s.flash.Get())
}

func (s *Shell) focusCurrent() {
	if c, ok := s.components[s.ctl.View()]; ok {
		s.app.SetFocus(c)
	}
}

// Start subscribes to the bus and runs the event pump. It does not block.
func (s *Shell) Start() {
	ch, unsub := s.bus.Subscribe("", 64)
	s.unsub = unsub
	s.done = make(chan struct{})

	go func() {
		for {
			select {
			case evt := <-ch:
				s.handleEvent(evt)
			case <-s.done:
				return
			}
		}
	}()

	go func() {
		for {
			select {
			case <-s.flash.Watch():
				s.app.QueueUpdateDraw(func() {
					s.flashBar.Update(s.flash.GetMessage())
					s.updateStatus()
				})
			case <-s.done:
				return
			}
		}
	}()
}

func (s *Shell) handleEvent(evt bus.Event) {
	s.app.QueueUpdateDraw(func() {
		switch evt.Kind {
		case bus.KindNavChanged:
			s.syncView()
		case bus.KindTyping:
			t, ok := evt.Payload.(bus.Typing)
			active := ok && t.Active && t.ChatID == s.ctl.Context().ChatID
			s.conversation.SetTyping(active)
			who := ""
			if active {
				if chat, err := s.ctl.Store().Chat(t.ChatID); err == nil {
					who = chat.DisplayName()
				}
			}
			s.statusBar.SetTyping(who)
		case bus.KindCallTick:
			s.callView.Refresh()
		case bus.KindStoryAdvanced:
			s.storyView.Refresh()
		default:
			// Store mutation: re-read whatever screen is current.
			if c, ok := s.components[s.ctl.View()]; ok {
				c.Refresh()
			}
			s.updateHeader()
		}
		s.updateStatus()
	})
}

// Run starts the terminal application and blocks until it exits.
func (s *Shell) Run() error {
	defer s.logger.Info("ui stopped")
	return s.app.Run()
}

// Stop tears down the event pump and the terminal.
func (s *Shell) Stop() {
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
	s.app.Stop()
}
