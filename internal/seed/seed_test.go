package seed

import (
	"testing"

	"github.com/wooqoo/qoo/internal/entity"
)

func TestExactlyOneOperator(t *testing.T) {
	users, _ := Generate(1, "You")
	n := 0
	for _, u := range users {
		if u.ID == entity.OperatorID {
			n++
			if u.Name != "You" {
				t.Errorf("operator name = %q, want You", u.Name)
			}
		}
	}
	if n != 1 {
		t.Errorf("operator count = %d, want 1", n)
	}
}

func TestUnsavedContactSeeded(t *testing.T) {
	users, chats := Generate(1, "You")

	var unsaved *entity.User
	for i, u := range users {
		if u.ID == UnsavedUserID {
			unsaved = &users[i]
		}
	}
	if unsaved == nil {
		t.Fatal("unsaved user missing")
	}
	if unsaved.Saved {
		t.Error("unsaved user marked saved")
	}
	if unsaved.Name != unsaved.Phone || unsaved.Phone == "" {
		t.Errorf("unsaved display name = %q phone = %q, want phone-number name", unsaved.Name, unsaved.Phone)
	}

	// And there is a direct chat with them whose banner logic holds.
	found := false
	for _, c := range chats {
		if u, ok := c.Counterpart(); ok && u.ID == UnsavedUserID {
			found = true
			if !c.UnsavedContact() {
				t.Error("UnsavedContact() = false for the unsaved party's chat")
			}
		}
	}
	if !found {
		t.Error("no direct chat with the unsaved party")
	}
}

func TestParticipantsExcludeOperator(t *testing.T) {
	_, chats := Generate(2, "You")
	for _, c := range chats {
		for _, p := range c.Participants {
			if p.ID == entity.OperatorID {
				t.Errorf("chat %s lists the operator as a participant", c.ID)
			}
		}
		if len(c.Messages) == 0 {
			t.Errorf("chat %s has no messages", c.ID)
		}
	}
}

func TestMessagesChronological(t *testing.T) {
	_, chats := Generate(3, "You")
	for _, c := range chats {
		for i := 1; i < len(c.Messages); i++ {
			if c.Messages[i].Timestamp.Before(c.Messages[i-1].Timestamp) {
				t.Errorf("chat %s messages out of order at %d", c.ID, i)
			}
		}
	}
}

func TestDeterministicForSeed(t *testing.T) {
	u1, c1 := Generate(7, "You")
	u2, c2 := Generate(7, "You")
	if len(u1) != len(u2) || len(c1) != len(c2) {
		t.Fatalf("sizes differ: %d/%d users, %d/%d chats", len(u1), len(u2), len(c1), len(c2))
	}
	for i := range u1 {
		if u1[i].Name != u2[i].Name || u1[i].Username != u2[i].Username {
			t.Errorf("user %d differs between runs with same seed", i)
		}
	}
}

func TestStoryOwnersFlagged(t *testing.T) {
	users, _ := Generate(4, "You")
	for _, u := range users {
		if u.ID == entity.OperatorID {
			continue
		}
		if len(u.Stories) > 0 && !u.HasUnreadStories {
			t.Errorf("user %s has stories but no unread flag", u.ID)
		}
		if len(u.Stories) == 0 && u.HasUnreadStories {
			t.Errorf("user %s flagged unread without stories", u.ID)
		}
	}
}
