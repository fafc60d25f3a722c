// Package nav is the view state machine: which screen is displayed, the
// minimal context needed to render it, and the rules for moving between
// screens. There is no terminal state; the machine runs for the life of
// the process.
package nav

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/wooqoo/qoo/internal/bus"
	"github.com/wooqoo/qoo/internal/entity"
)

// View identifies one screen. Exactly one is active at a time.
type View string

const (
	ViewWelcome      View = "welcome"
	ViewSignIn       View = "sign-in"
	ViewSignUp       View = "sign-up"
	ViewOnboarding   View = "onboarding"
	ViewChatList     View = "chat-list"
	ViewConversation View = "conversation"
	ViewChatInfo     View = "chat-info"
	ViewCall         View = "call"
	ViewStoryViewer  View = "story-viewer"
	ViewAccount      View = "account"
	ViewSettings     View = "settings"
)

// SettingsPage selects which account sub-setting screen is shown.
type SettingsPage string

const (
	SettingsAccount       SettingsPage = "account"
	SettingsPrivacy       SettingsPage = "privacy"
	SettingsAppearance    SettingsPage = "appearance"
	SettingsNotifications SettingsPage = "notifications"
	SettingsHelp          SettingsPage = "help"
)

// Event is a navigation intent emitted by a screen.
type Event string

const (
	EvChooseSignIn     Event = "choose_sign_in"
	EvChooseSignUp     Event = "choose_sign_up"
	EvChooseSocial     Event = "choose_social"
	EvSubmitAuth       Event = "submit_auth"
	EvFinishOnboarding Event = "finish_onboarding"
	EvOpenChat         Event = "open_chat"
	EvBack             Event = "back"
	EvStartCall        Event = "start_call"
	EvEndCall          Event = "end_call"
	EvOpenChatInfo     Event = "open_chat_info"
	EvViewStories      Event = "view_stories"
	EvCloseStories     Event = "close_stories"
	EvOpenAccount      Event = "open_account"
	EvOpenSettings     Event = "open_settings"
	EvSignOut          Event = "sign_out"
)

// Intent carries an event plus whatever context the transition requires.
type Intent struct {
	Event  Event
	ChatID string
	UserID string
	Medium entity.CallMedium
	Page   SettingsPage
}

// Context is the transient render context owned by the machine. It holds
// ids only; entities stay in the store.
type Context struct {
	Authenticated bool
	ChatID        string
	CallMedium    entity.CallMedium
	StoryUserID   string
	SettingsPage  SettingsPage
}

// Resolver answers whether a context reference still points at a live
// entity. The store implements it.
type Resolver interface {
	ChatExists(id string) bool
	UserExists(id string) bool
}

var (
	// ErrInvalidEvent is returned when the event is not accepted in the
	// current view.
	ErrInvalidEvent = errors.New("event not valid in current view")
	// ErrStaleSelection is returned when a transition referenced an entity
	// that no longer exists; the machine has fallen back to the chat list.
	ErrStaleSelection = errors.New("selected entity no longer exists")
)

// validEvents defines which events each view accepts.
var validEvents = map[View][]Event{
	ViewWelcome:      {EvChooseSignIn, EvChooseSignUp, EvChooseSocial},
	ViewSignIn:       {EvSubmitAuth, EvBack},
	ViewSignUp:       {EvSubmitAuth, EvBack},
	ViewOnboarding:   {EvFinishOnboarding},
	ViewChatList:     {EvOpenChat, EvViewStories, EvOpenAccount},
	ViewConversation: {EvBack, EvStartCall, EvOpenChatInfo},
	ViewChatInfo:     {EvBack},
	ViewCall:         {EvEndCall},
	ViewStoryViewer:  {EvCloseStories},
	ViewAccount:      {EvOpenSettings, EvSignOut, EvBack},
	ViewSettings:     {EvBack},
}

// Change is the payload for nav.changed events.
type Change struct {
	From  View
	To    View
	Event Event
}

// Machine tracks the active view and enforces the transition rules.
type Machine struct {
	mu   sync.RWMutex
	view View
	ctx  Context
	res  Resolver
	bus  *bus.Bus
}

// NewMachine creates a machine. It starts on the welcome screen, or
// directly on the chat list when a session already exists.
func NewMachine(res Resolver, b *bus.Bus, authenticated bool) *Machine {
	m := &Machine{view: ViewWelcome, res: res, bus: b}
	if authenticated {
		m.view = ViewChatList
		m.ctx.Authenticated = true
	}
	return m
}

// View returns the active view.
func (m *Machine) View() View {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view
}

// Context returns a copy of the render context.
func (m *Machine) Context() Context {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ctx
}

// Dispatch applies an intent. It returns the resulting view, which on
// ErrStaleSelection is the chat-list fallback rather than the requested
// screen. Any other error leaves the machine unchanged.
func (m *Machine) Dispatch(in Intent) (View, error) {
	m.mu.Lock()
	from := m.view
	if !slices.Contains(validEvents[from], in.Event) {
		m.mu.Unlock()
		return from, fmt.Errorf("%s in %s: %w", in.Event, from, ErrInvalidEvent)
	}

	to, err := m.apply(from, in)
	m.view = to
	m.mu.Unlock()

	if m.bus != nil && to != from {
		m.bus.Publish(bus.Event{
			Kind:      bus.KindNavChanged,
			Timestamp: time.Now(),
			Payload:   Change{From: from, To: to, Event: in.Event},
		})
	}
	return to, err
}

// apply computes the target view and mutates context. Called with m.mu held.
func (m *Machine) apply(from View, in Intent) (View, error) {
	switch in.Event {
	case EvChooseSignIn:
		return ViewSignIn, nil
	case EvChooseSignUp:
		return ViewSignUp, nil
	case EvChooseSocial:
		return ViewOnboarding, nil
	case EvSubmitAuth, EvFinishOnboarding:
		m.ctx.Authenticated = true
		return ViewChatList, nil

	case EvOpenChat:
		if m.res != nil && !m.res.ChatExists(in.ChatID) {
			return m.fallback()
		}
		m.ctx.ChatID = in.ChatID
		return ViewConversation, nil

	case EvStartCall:
		m.ctx.CallMedium = in.Medium
		return ViewCall, nil

	case EvEndCall:
		m.ctx.CallMedium = ""
		return m.requireChat(ViewConversation)

	case EvOpenChatInfo:
		return ViewChatInfo, nil

	case EvViewStories:
		if m.res != nil && !m.res.UserExists(in.UserID) {
			return m.fallback()
		}
		m.ctx.StoryUserID = in.UserID
		return ViewStoryViewer, nil

	case EvCloseStories:
		m.ctx.StoryUserID = ""
		return ViewChatList, nil

	case EvOpenAccount:
		return ViewAccount, nil

	case EvOpenSettings:
		m.ctx.SettingsPage = in.Page
		return ViewSettings, nil

	case EvSignOut:
		m.ctx = Context{}
		return ViewWelcome, nil

	case EvBack:
		switch from {
		case ViewSignIn, ViewSignUp:
			return ViewWelcome, nil
		case ViewConversation, ViewAccount:
			m.ctx.ChatID = ""
			return ViewChatList, nil
		case ViewChatInfo:
			return m.requireChat(ViewConversation)
		case ViewSettings:
			m.ctx.SettingsPage = ""
			return ViewAccount, nil
		}
	}
	return from, fmt.Errorf("%s in %s: %w", in.Event, from, ErrInvalidEvent)
}

// requireChat guards re-entry into views that render the selected chat;
// if the selection went stale the machine falls back to the chat list.
func (m *Machine) requireChat(to View) (View, error) {
	if m.ctx.ChatID == "" || (m.res != nil && !m.res.ChatExists(m.ctx.ChatID)) {
		return m.fallback()
	}
	return to, nil
}

// fallback clears transient selections and lands on the chat list.
func (m *Machine) fallback() (View, error) {
	m.ctx.ChatID = ""
	m.ctx.StoryUserID = ""
	m.ctx.CallMedium = ""
	return ViewChatList, ErrStaleSelection
}
