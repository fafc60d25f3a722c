package nav

import (
	"errors"
	"testing"
	"time"

	"github.com/wooqoo/qoo/internal/bus"
	"github.com/wooqoo/qoo/internal/entity"
)

// fakeResolver resolves every id as live unless listed in gone.
type fakeResolver struct {
	gone map[string]bool
}

func (f fakeResolver) ChatExists(id string) bool { return !f.gone[id] }
func (f fakeResolver) UserExists(id string) bool { return !f.gone[id] }

func newAuthed(t *testing.T) *Machine {
	t.Helper()
	return NewMachine(fakeResolver{}, nil, true)
}

// walk drives the machine through a sequence of intents, failing on error.
func walk(t *testing.T, m *Machine, intents ...Intent) {
	t.Helper()
	for _, in := range intents {
		if _, err := m.Dispatch(in); err != nil {
			t.Fatalf("walk: Dispatch(%s) error = %v", in.Event, err)
		}
	}
}

func TestInitialView(t *testing.T) {
	if got := NewMachine(fakeResolver{}, nil, false).View(); got != ViewWelcome {
		t.Errorf("unauthenticated initial view = %s, want welcome", got)
	}
	if got := NewMachine(fakeResolver{}, nil, true).View(); got != ViewChatList {
		t.Errorf("authenticated initial view = %s, want chat-list", got)
	}
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		name  string
		setup []Intent
		in    Intent
		want  View
	}{
		{"welcome choose sign-in", nil, Intent{Event: EvChooseSignIn}, ViewSignIn},
		{"welcome choose sign-up", nil, Intent{Event: EvChooseSignUp}, ViewSignUp},
		{"welcome social sign-in", nil, Intent{Event: EvChooseSocial}, ViewOnboarding},
		{"sign-in submit", []Intent{{Event: EvChooseSignIn}}, Intent{Event: EvSubmitAuth}, ViewChatList},
		{"sign-up submit", []Intent{{Event: EvChooseSignUp}}, Intent{Event: EvSubmitAuth}, ViewChatList},
		{"onboarding complete", []Intent{{Event: EvChooseSocial}}, Intent{Event: EvFinishOnboarding}, ViewChatList},
		{
			"chat-list select conversation",
			[]Intent{{Event: EvChooseSignIn}, {Event: EvSubmitAuth}},
			Intent{Event: EvOpenChat, ChatID: "c1"}, ViewConversation,
		},
		{
			"conversation back",
			[]Intent{{Event: EvChooseSignIn}, {Event: EvSubmitAuth}, {Event: EvOpenChat, ChatID: "c1"}},
			Intent{Event: EvBack}, ViewChatList,
		},
		{
			"conversation start call",
			[]Intent{{Event: EvChooseSignIn}, {Event: EvSubmitAuth}, {Event: EvOpenChat, ChatID: "c1"}},
			Intent{Event: EvStartCall, Medium: entity.CallVideo}, ViewCall,
		},
		{
			"conversation open chat info",
			[]Intent{{Event: EvChooseSignIn}, {Event: EvSubmitAuth}, {Event: EvOpenChat, ChatID: "c1"}},
			Intent{Event: EvOpenChatInfo}, ViewChatInfo,
		},
		{
			"chat info back",
			[]Intent{{Event: EvChooseSignIn}, {Event: EvSubmitAuth}, {Event: EvOpenChat, ChatID: "c1"}, {Event: EvOpenChatInfo}},
			Intent{Event: EvBack}, ViewConversation,
		},
		{
			"call end",
			[]Intent{{Event: EvChooseSignIn}, {Event: EvSubmitAuth}, {Event: EvOpenChat, ChatID: "c1"}, {Event: EvStartCall, Medium: entity.CallAudio}},
			Intent{Event: EvEndCall}, ViewConversation,
		},
		{
			"chat-list view stories",
			[]Intent{{Event: EvChooseSignIn}, {Event: EvSubmitAuth}},
			Intent{Event: EvViewStories, UserID: "u1"}, ViewStoryViewer,
		},
		{
			"story viewer close",
			[]Intent{{Event: EvChooseSignIn}, {Event: EvSubmitAuth}, {Event: EvViewStories, UserID: "u1"}},
			Intent{Event: EvCloseStories}, ViewChatList,
		},
		{
			"chat-list open account",
			[]Intent{{Event: EvChooseSignIn}, {Event: EvSubmitAuth}},
			Intent{Event: EvOpenAccount}, ViewAccount,
		},
		{
			"account open sub-setting",
			[]Intent{{Event: EvChooseSignIn}, {Event: EvSubmitAuth}, {Event: EvOpenAccount}},
			Intent{Event: EvOpenSettings, Page: SettingsPrivacy}, ViewSettings,
		},
		{
			"sub-setting back",
			[]Intent{{Event: EvChooseSignIn}, {Event: EvSubmitAuth}, {Event: EvOpenAccount}, {Event: EvOpenSettings, Page: SettingsHelp}},
			Intent{Event: EvBack}, ViewAccount,
		},
		{
			"account sign out",
			[]Intent{{Event: EvChooseSignIn}, {Event: EvSubmitAuth}, {Event: EvOpenAccount}},
			Intent{Event: EvSignOut}, ViewWelcome,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(fakeResolver{}, nil, false)
			walk(t, m, tt.setup...)
			got, err := m.Dispatch(tt.in)
			if err != nil {
				t.Fatalf("Dispatch(%s) error = %v", tt.in.Event, err)
			}
			if got != tt.want {
				t.Errorf("view = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestContextFollowsTransitions(t *testing.T) {
	m := newAuthed(t)

	walk(t, m, Intent{Event: EvOpenChat, ChatID: "c1"})
	if ctx := m.Context(); ctx.ChatID != "c1" {
		t.Errorf("ChatID = %q, want c1", ctx.ChatID)
	}

	walk(t, m, Intent{Event: EvStartCall, Medium: entity.CallVideo})
	if ctx := m.Context(); ctx.CallMedium != entity.CallVideo {
		t.Errorf("CallMedium = %q, want video", ctx.CallMedium)
	}

	walk(t, m, Intent{Event: EvEndCall})
	if ctx := m.Context(); ctx.CallMedium != "" {
		t.Errorf("CallMedium after end = %q, want cleared", ctx.CallMedium)
	}

	walk(t, m, Intent{Event: EvBack})
	if ctx := m.Context(); ctx.ChatID != "" {
		t.Errorf("ChatID after back = %q, want cleared", ctx.ChatID)
	}
}

func TestInvalidEvents(t *testing.T) {
	tests := []struct {
		name  string
		setup []Intent
		in    Intent
	}{
		{"end call from chat list", []Intent{{Event: EvChooseSignIn}, {Event: EvSubmitAuth}}, Intent{Event: EvEndCall}},
		{"open chat from welcome", nil, Intent{Event: EvOpenChat, ChatID: "c1"}},
		{"sign out from conversation", []Intent{{Event: EvChooseSignIn}, {Event: EvSubmitAuth}, {Event: EvOpenChat, ChatID: "c1"}}, Intent{Event: EvSignOut}},
		{"view stories from call", []Intent{{Event: EvChooseSignIn}, {Event: EvSubmitAuth}, {Event: EvOpenChat, ChatID: "c1"}, {Event: EvStartCall, Medium: entity.CallAudio}}, Intent{Event: EvViewStories, UserID: "u1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(fakeResolver{}, nil, false)
			walk(t, m, tt.setup...)
			before := m.View()
			got, err := m.Dispatch(tt.in)
			if !errors.Is(err, ErrInvalidEvent) {
				t.Errorf("error = %v, want ErrInvalidEvent", err)
			}
			if got != before || m.View() != before {
				t.Errorf("view changed on invalid event: %s -> %s", before, got)
			}
		})
	}
}

func TestStaleSelectionFallsBack(t *testing.T) {
	m := NewMachine(fakeResolver{gone: map[string]bool{"c-gone": true, "u-gone": true}}, nil, true)

	got, err := m.Dispatch(Intent{Event: EvOpenChat, ChatID: "c-gone"})
	if !errors.Is(err, ErrStaleSelection) {
		t.Errorf("error = %v, want ErrStaleSelection", err)
	}
	if got != ViewChatList || m.View() != ViewChatList {
		t.Errorf("view = %s, want chat-list fallback", got)
	}
	if ctx := m.Context(); ctx.ChatID != "" {
		t.Errorf("ChatID = %q, want cleared", ctx.ChatID)
	}

	got, err = m.Dispatch(Intent{Event: EvViewStories, UserID: "u-gone"})
	if !errors.Is(err, ErrStaleSelection) {
		t.Errorf("error = %v, want ErrStaleSelection", err)
	}
	if got != ViewChatList {
		t.Errorf("view = %s, want chat-list fallback", got)
	}
}

func TestChatRemovedDuringCall(t *testing.T) {
	res := fakeResolver{gone: map[string]bool{}}
	m := NewMachine(res, nil, true)
	walk(t, m,
		Intent{Event: EvOpenChat, ChatID: "c1"},
		Intent{Event: EvStartCall, Medium: entity.CallAudio},
	)

	// The chat disappears while the call screen is up; ending the call must
	// not re-enter the conversation with a dangling reference.
	res.gone["c1"] = true
	got, err := m.Dispatch(Intent{Event: EvEndCall})
	if !errors.Is(err, ErrStaleSelection) {
		t.Errorf("error = %v, want ErrStaleSelection", err)
	}
	if got != ViewChatList {
		t.Errorf("view = %s, want chat-list fallback", got)
	}
}

func TestSignOutClearsEverything(t *testing.T) {
	m := newAuthed(t)
	walk(t, m,
		Intent{Event: EvOpenChat, ChatID: "c1"},
		Intent{Event: EvBack},
		Intent{Event: EvOpenAccount},
		Intent{Event: EvSignOut},
	)
	if m.View() != ViewWelcome {
		t.Fatalf("view = %s, want welcome", m.View())
	}
	if ctx := m.Context(); ctx != (Context{}) {
		t.Errorf("context after sign out = %+v, want zero", ctx)
	}
}

func TestDispatchPublishesChange(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("nav.", 10)
	defer unsub()

	m := NewMachine(fakeResolver{}, b, false)
	if _, err := m.Dispatch(Intent{Event: EvChooseSignIn}); err != nil {
		t.Fatal(err)
	}

	select {
	case evt := <-ch:
		change, ok := evt.Payload.(Change)
		if !ok {
			t.Fatalf("payload = %T, want Change", evt.Payload)
		}
		if change.From != ViewWelcome || change.To != ViewSignIn {
			t.Errorf("change = %+v", change)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for nav.changed")
	}
}
