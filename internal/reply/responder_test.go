package reply

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wooqoo/qoo/internal/bus"
	"github.com/wooqoo/qoo/internal/entity"
	"github.com/wooqoo/qoo/internal/sched"
	"github.com/wooqoo/qoo/internal/store"
)

func setup(t *testing.T) (*store.Store, *bus.Bus, *Responder) {
	t.Helper()
	b := bus.New()
	st := store.New(b)
	st.Load(
		[]entity.User{
			{ID: "u1", Name: "Mira"},
			{ID: "u2", Name: "Tomas"},
			{ID: entity.OperatorID, Name: "You"},
		},
		[]entity.Chat{
			{ID: "direct", Kind: entity.ChatDirect, Participants: []entity.User{{ID: "u1", Name: "Mira"}}},
			{ID: "group", Kind: entity.ChatGroup, Name: "All", Participants: []entity.User{{ID: "u1"}, {ID: "u2"}}},
		},
	)

	sc := sched.New()
	t.Cleanup(sc.Stop)
	r := New(st, sc, b, zap.NewNop(), 5*time.Millisecond, 10*time.Millisecond)
	r.Start()
	t.Cleanup(r.Stop)
	return st, b, r
}

func waitForMessages(t *testing.T, st *store.Store, chatID string, want int) []entity.Message {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c, err := st.Chat(chatID)
		if err != nil {
			t.Fatal(err)
		}
		if len(c.Messages) >= want {
			return c.Messages
		}
		time.Sleep(2 * time.Millisecond)
	}
	c, _ := st.Chat(chatID)
	t.Fatalf("messages = %d, want %d", len(c.Messages), want)
	return nil
}

func TestTextInDirectChatGetsExactlyOneReply(t *testing.T) {
	st, _, _ := setup(t)

	if _, err := st.SendText("direct", "hello"); err != nil {
		t.Fatal(err)
	}

	msgs := waitForMessages(t, st, "direct", 2)
	replyMsg := msgs[1]
	if replyMsg.SenderID != "u1" {
		t.Errorf("reply sender = %q, want u1", replyMsg.SenderID)
	}
	if replyMsg.Kind != entity.KindText || replyMsg.Text == "" {
		t.Errorf("reply = %+v, want non-empty text", replyMsg)
	}

	// Exactly one reply: the reply itself must not trigger another, and
	// nothing further arrives.
	time.Sleep(60 * time.Millisecond)
	c, _ := st.Chat("direct")
	if len(c.Messages) != 2 {
		t.Errorf("messages = %d, want exactly 2", len(c.Messages))
	}
}

func TestReplyTextComesFromPool(t *testing.T) {
	st, _, _ := setup(t)
	if _, err := st.SendText("direct", "hi"); err != nil {
		t.Fatal(err)
	}
	msgs := waitForMessages(t, st, "direct", 2)

	found := false
	for _, p := range pool {
		if msgs[1].Text == p {
			found = true
		}
	}
	if !found {
		t.Errorf("reply %q not in the canned pool", msgs[1].Text)
	}
}

func TestGroupChatGetsNoReply(t *testing.T) {
	st, _, _ := setup(t)
	if _, err := st.SendText("group", "anyone?"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(60 * time.Millisecond)
	c, _ := st.Chat("group")
	if len(c.Messages) != 1 {
		t.Errorf("messages = %d, want 1 (no auto-reply in group chats)", len(c.Messages))
	}
}

func TestNonTextGetsNoReply(t *testing.T) {
	st, _, _ := setup(t)
	if _, err := st.SendVoice("direct", entity.VoiceNote{Duration: 3 * time.Second, Transcript: "hey"}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(60 * time.Millisecond)
	c, _ := st.Chat("direct")
	if len(c.Messages) != 1 {
		t.Errorf("messages = %d, want 1 (voice notes are not answered)", len(c.Messages))
	}
}

func TestTypingIndicatorBracketsReply(t *testing.T) {
	st, b, _ := setup(t)
	ch, unsub := b.Subscribe("chat.typing", 10)
	defer unsub()

	if _, err := st.SendText("direct", "hello"); err != nil {
		t.Fatal(err)
	}

	var states []bool
	timeout := time.After(2 * time.Second)
	for len(states) < 2 {
		select {
		case evt := <-ch:
			states = append(states, evt.Payload.(bus.Typing).Active)
		case <-timeout:
			t.Fatalf("typing events = %v, want [true false]", states)
		}
	}
	if !states[0] || states[1] {
		t.Errorf("typing sequence = %v, want [true false]", states)
	}
}

func TestStopCancelsPendingReply(t *testing.T) {
	st, _, r := setup(t)
	if _, err := st.SendText("direct", "hello"); err != nil {
		t.Fatal(err)
	}
	r.Stop()

	time.Sleep(60 * time.Millisecond)
	c, _ := st.Chat("direct")
	if len(c.Messages) != 1 {
		t.Errorf("messages = %d, want 1 after Stop", len(c.Messages))
	}
}
