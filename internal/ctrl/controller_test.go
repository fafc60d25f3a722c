package ctrl

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wooqoo/qoo/internal/bus"
	"github.com/wooqoo/qoo/internal/entity"
	"github.com/wooqoo/qoo/internal/nav"
	"github.com/wooqoo/qoo/internal/sched"
	"github.com/wooqoo/qoo/internal/store"
)

func newController(t *testing.T, authenticated bool) *Controller {
	t.Helper()
	b := bus.New()
	st := store.New(b)
	st.Load(
		[]entity.User{
			{ID: "u1", Name: "+1-404-555-0100", Phone: "+1-404-555-0100",
				Stories: []entity.Story{
					{ID: "s1", Duration: 20 * time.Millisecond},
					{ID: "s2", Duration: 20 * time.Millisecond},
				},
				HasUnreadStories: true},
			{ID: "u2", Name: "Lena Park", Saved: true,
				Stories:          []entity.Story{{ID: "s3", Duration: time.Hour}},
				HasUnreadStories: true},
			{ID: entity.OperatorID, Name: "You", Saved: true},
		},
		[]entity.Chat{
			{ID: "c1", Kind: entity.ChatDirect, Participants: []entity.User{{ID: "u1", Name: "+1-404-555-0100"}},
				Messages: []entity.Message{{ID: "m1", SenderID: "u1", Kind: entity.KindText, Text: "hi", Timestamp: time.Now()}},
				UnreadCount: 2},
		},
	)
	sc := sched.New()
	t.Cleanup(sc.Stop)
	m := nav.NewMachine(st, b, authenticated)
	return New(st, m, sc, b, zap.NewNop(), 10*time.Millisecond)
}

func TestSignInValidation(t *testing.T) {
	c := newController(t, false)
	if err := c.ChooseSignIn(); err != nil {
		t.Fatal(err)
	}

	if err := c.SignIn("", "secret"); !errors.Is(err, ErrEmptyField) {
		t.Errorf("empty handle: error = %v, want ErrEmptyField", err)
	}
	if err := c.SignIn("lena", "  "); !errors.Is(err, ErrEmptyField) {
		t.Errorf("blank password: error = %v, want ErrEmptyField", err)
	}
	if c.View() != nav.ViewSignIn {
		t.Errorf("view = %s, want still sign-in after blocked submit", c.View())
	}

	if err := c.SignIn("lena", "secret"); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if c.View() != nav.ViewChatList {
		t.Errorf("view = %s, want chat-list", c.View())
	}
}

func TestOpenChatClearsUnread(t *testing.T) {
	c := newController(t, true)
	if err := c.OpenChat("c1"); err != nil {
		t.Fatal(err)
	}
	chat, _ := c.Store().Chat("c1")
	if chat.UnreadCount != 0 {
		t.Errorf("UnreadCount = %d, want 0", chat.UnreadCount)
	}
}

func TestCallTimerRunsAndStops(t *testing.T) {
	c := newController(t, true)
	if err := c.OpenChat("c1"); err != nil {
		t.Fatal(err)
	}
	if err := c.StartCall(entity.CallVideo); err != nil {
		t.Fatal(err)
	}
	if got := c.Context().CallMedium; got != entity.CallVideo {
		t.Errorf("CallMedium = %q, want video", got)
	}

	time.Sleep(55 * time.Millisecond)
	if c.CallSeconds() < 2 {
		t.Errorf("CallSeconds() = %d, want ticking", c.CallSeconds())
	}

	if err := c.EndCall(); err != nil {
		t.Fatal(err)
	}
	stopped := c.CallSeconds()
	time.Sleep(40 * time.Millisecond)
	if got := c.CallSeconds(); got != stopped {
		t.Errorf("timer kept ticking after end: %d -> %d", stopped, got)
	}
	if c.View() != nav.ViewConversation {
		t.Errorf("view = %s, want conversation after end call", c.View())
	}
}

func TestViewStoriesMarksReadAndScopes(t *testing.T) {
	c := newController(t, true)
	if err := c.ViewStories("u2"); err != nil {
		t.Fatal(err)
	}
	if c.View() != nav.ViewStoryViewer {
		t.Fatalf("view = %s, want story-viewer", c.View())
	}

	u2, _ := c.Store().User("u2")
	if u2.HasUnreadStories {
		t.Error("subject's unread flag not cleared")
	}
	u1, _ := c.Store().User("u1")
	if !u1.HasUnreadStories {
		t.Error("another user's unread flag was altered")
	}
}

func TestStoryAutoAdvanceThenClose(t *testing.T) {
	c := newController(t, true)
	// u1 has two stories of 20ms each; the viewer should walk both and
	// then close itself.
	if err := c.ViewStories("u1"); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for c.View() == nav.ViewStoryViewer && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.View() != nav.ViewChatList {
		t.Errorf("view = %s, want chat-list after the last story", c.View())
	}
	if ctx := c.Context(); ctx.StoryUserID != "" {
		t.Errorf("StoryUserID = %q, want cleared", ctx.StoryUserID)
	}
}

func TestCloseStoriesCancelsAdvance(t *testing.T) {
	c := newController(t, true)
	if err := c.ViewStories("u2"); err != nil {
		t.Fatal(err)
	}
	if err := c.CloseStories(); err != nil {
		t.Fatal(err)
	}
	if c.View() != nav.ViewChatList {
		t.Errorf("view = %s, want chat-list", c.View())
	}
}

func TestViewStoriesWithoutStories(t *testing.T) {
	c := newController(t, true)
	if err := c.ViewStories(entity.OperatorID); !errors.Is(err, ErrNoStories) {
		t.Errorf("error = %v, want ErrNoStories", err)
	}
}

func TestSaveContactOnSelectedChat(t *testing.T) {
	c := newController(t, true)
	if err := c.OpenChat("c1"); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveContact("Alex Rivera"); err != nil {
		t.Fatal(err)
	}

	chat, _ := c.Store().Chat("c1")
	if chat.DisplayName() != "Alex Rivera" {
		t.Errorf("DisplayName = %q, want Alex Rivera", chat.DisplayName())
	}
	if chat.UnsavedContact() {
		t.Error("save-contact banner condition still holds")
	}
}

func TestConversationOpsRequireSelection(t *testing.T) {
	c := newController(t, true)
	if err := c.SendText("hello"); !errors.Is(err, ErrNoSelection) {
		t.Errorf("SendText error = %v, want ErrNoSelection", err)
	}
	if err := c.TogglePin("m1"); !errors.Is(err, ErrNoSelection) {
		t.Errorf("TogglePin error = %v, want ErrNoSelection", err)
	}
}

func TestSignOutResets(t *testing.T) {
	c := newController(t, true)
	if err := c.OpenChat("c1"); err != nil {
		t.Fatal(err)
	}
	if err := c.Back(); err != nil {
		t.Fatal(err)
	}
	if err := c.OpenAccount(); err != nil {
		t.Fatal(err)
	}
	if err := c.SignOut(); err != nil {
		t.Fatal(err)
	}
	if c.View() != nav.ViewWelcome {
		t.Errorf("view = %s, want welcome", c.View())
	}
	if ctx := c.Context(); ctx.Authenticated || ctx.ChatID != "" {
		t.Errorf("context = %+v, want cleared", ctx)
	}
}

func TestPollVoteThroughController(t *testing.T) {
	c := newController(t, true)
	if err := c.OpenChat("c1"); err != nil {
		t.Fatal(err)
	}
	if err := c.CreatePoll("Lunch?", []string{"Ramen", "Tacos"}, false); err != nil {
		t.Fatal(err)
	}

	chat, _ := c.Store().Chat("c1")
	poll, _ := chat.LastMessage()
	if err := c.Vote(poll.ID, poll.Poll.Options[0].ID); err != nil {
		t.Fatal(err)
	}

	chat, _ = c.Store().Chat("c1")
	voted, _ := chat.LastMessage()
	if !voted.Poll.Options[0].HasVoter(entity.OperatorID) {
		t.Error("operator vote missing after Vote()")
	}
}
