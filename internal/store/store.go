// Package store holds the session's entities in memory. It is the only
// writer of users, chats and messages; reads hand out deep copies so a
// caller never observes a mutation in progress. Nothing is persisted:
// state lives from launch to exit.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wooqoo/qoo/internal/bus"
	"github.com/wooqoo/qoo/internal/entity"
)

var (
	ErrChatNotFound    = errors.New("chat not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrOptionNotFound  = errors.New("poll option not found")
)

// Store is the in-memory entity store.
type Store struct {
	mu    sync.RWMutex
	bus   *bus.Bus
	users []entity.User
	chats []entity.Chat
	now   func() time.Time
}

// New creates an empty store publishing mutation events on b.
func New(b *bus.Bus) *Store {
	return &Store{bus: b, now: time.Now}
}

// Load replaces the store contents with the given dataset.
func (s *Store) Load(users []entity.User, chats []entity.Chat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make([]entity.User, len(users))
	for i, u := range users {
		s.users[i] = u.Clone()
	}
	s.chats = make([]entity.Chat, len(chats))
	for i, c := range chats {
		s.chats[i] = c.Clone()
	}
}

// Operator returns the reserved local user.
func (s *Store) Operator() entity.User {
	u, _ := s.User(entity.OperatorID)
	return u
}

// User returns a copy of the user record for id.
func (s *Store) User(id string) (entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u.Clone(), nil
		}
	}
	return entity.User{}, fmt.Errorf("user %q: %w", id, ErrUserNotFound)
}

// Users returns copies of all user records in load order.
func (s *Store) Users() []entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.User, len(s.users))
	for i, u := range s.users {
		out[i] = u.Clone()
	}
	return out
}

// Contacts returns saved users excluding the operator, sorted by name.
func (s *Store) Contacts() []entity.User {
	var out []entity.User
	for _, u := range s.Users() {
		if u.Saved && u.ID != entity.OperatorID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// StoryOwners returns users that currently have stories, unread first.
func (s *Store) StoryOwners() []entity.User {
	var out []entity.User
	for _, u := range s.Users() {
		if u.ID != entity.OperatorID && len(u.Stories) > 0 {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].HasUnreadStories && !out[j].HasUnreadStories
	})
	return out
}

// Chat returns a copy of the chat with the given id.
func (s *Store) Chat(id string) (entity.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.findChat(id)
	if c == nil {
		return entity.Chat{}, fmt.Errorf("chat %q: %w", id, ErrChatNotFound)
	}
	return c.Clone(), nil
}

// Chats returns copies of all chats, pinned first, then newest activity first.
func (s *Store) Chats() []entity.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Chat, len(s.chats))
	for i, c := range s.chats {
		out[i] = c.Clone()
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pinned != out[j].Pinned {
			return out[i].Pinned
		}
		li, _ := out[i].LastMessage()
		lj, _ := out[j].LastMessage()
		return li.Timestamp.After(lj.Timestamp)
	})
	return out
}

// ChatExists reports whether a chat with the given id is present.
func (s *Store) ChatExists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findChat(id) != nil
}

// UserExists reports whether a user with the given id is present.
func (s *Store) UserExists(id string) bool {
	_, err := s.User(id)
	return err == nil
}

// SaveContact renames the user everywhere they appear and marks them saved:
// the user record itself and the denormalized copy inside every chat's
// participant list, all under one write lock so no reader observes a
// partial rename.
func (s *Store) SaveContact(userID, name string) error {
	s.mu.Lock()
	found := false
	for i := range s.users {
		if s.users[i].ID == userID {
			s.users[i].Name = name
			s.users[i].Saved = true
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return fmt.Errorf("save contact %q: %w", userID, ErrUserNotFound)
	}
	for ci := range s.chats {
		for pi := range s.chats[ci].Participants {
			if s.chats[ci].Participants[pi].ID == userID {
				s.chats[ci].Participants[pi].Name = name
				s.chats[ci].Participants[pi].Saved = true
			}
		}
	}
	s.mu.Unlock()

	s.publish(bus.KindUserUpdated, userID)
	return nil
}

// SendText appends an operator text message to the chat.
func (s *Store) SendText(chatID, text string) (entity.Message, error) {
	return s.appendOperator(chatID, entity.Message{Kind: entity.KindText, Text: text})
}

// SendVoice appends an operator voice note to the chat.
func (s *Store) SendVoice(chatID string, note entity.VoiceNote) (entity.Message, error) {
	return s.appendOperator(chatID, entity.Message{Kind: entity.KindVoice, Voice: &note})
}

// SendPoll appends an operator poll to the chat.
func (s *Store) SendPoll(chatID, question string, options []string, allowMultiple bool) (entity.Message, error) {
	poll := &entity.Poll{Question: question, AllowMultiple: allowMultiple}
	for _, text := range options {
		poll.Options = append(poll.Options, entity.PollOption{ID: uuid.New().String(), Text: text})
	}
	return s.appendOperator(chatID, entity.Message{Kind: entity.KindPoll, Poll: poll})
}

func (s *Store) appendOperator(chatID string, m entity.Message) (entity.Message, error) {
	m.ID = uuid.New().String()
	m.SenderID = entity.OperatorID
	m.Timestamp = s.now()
	m.Status = entity.StatusSent
	if err := s.AppendMessage(chatID, m); err != nil {
		return entity.Message{}, err
	}
	return m, nil
}

// AppendMessage appends a fully built message to the chat's sequence.
// Used by send operations and by the auto-reply responder.
func (s *Store) AppendMessage(chatID string, m entity.Message) error {
	s.mu.Lock()
	c := s.findChat(chatID)
	if c == nil {
		s.mu.Unlock()
		return fmt.Errorf("append to chat %q: %w", chatID, ErrChatNotFound)
	}
	c.Messages = append(c.Messages, m.Clone())
	s.mu.Unlock()

	s.bus.Publish(bus.Event{
		Kind:      bus.KindMessageAppended,
		Timestamp: time.Now(),
		Payload: bus.MessageAppended{
			ChatID:    chatID,
			MessageID: m.ID,
			SenderID:  m.SenderID,
			Kind:      string(m.Kind),
		},
	})
	return nil
}

// TogglePin flips the pinned flag of one message in place and returns the
// new value. Pinned listings are derived by filtering, never stored apart.
func (s *Store) TogglePin(chatID, msgID string) (bool, error) {
	s.mu.Lock()
	c := s.findChat(chatID)
	if c == nil {
		s.mu.Unlock()
		return false, fmt.Errorf("chat %q: %w", chatID, ErrChatNotFound)
	}
	for i := range c.Messages {
		if c.Messages[i].ID == msgID {
			c.Messages[i].Pinned = !c.Messages[i].Pinned
			pinned := c.Messages[i].Pinned
			s.mu.Unlock()
			s.publish(bus.KindChatUpdated, chatID)
			return pinned, nil
		}
	}
	s.mu.Unlock()
	return false, fmt.Errorf("message %q: %w", msgID, ErrMessageNotFound)
}

// ToggleVote toggles voterID in the option's voter set: absent ids are
// added, present ids removed, never duplicated. The poll's AllowMultiple
// flag is deliberately not enforced here; the source behavior is ambiguous
// and is preserved pending product clarification.
func (s *Store) ToggleVote(chatID, msgID, optionID, voterID string) error {
	s.mu.Lock()
	c := s.findChat(chatID)
	if c == nil {
		s.mu.Unlock()
		return fmt.Errorf("chat %q: %w", chatID, ErrChatNotFound)
	}
	for i := range c.Messages {
		m := &c.Messages[i]
		if m.ID != msgID || m.Poll == nil {
			continue
		}
		for oi := range m.Poll.Options {
			opt := &m.Poll.Options[oi]
			if opt.ID != optionID {
				continue
			}
			if opt.HasVoter(voterID) {
				kept := opt.Voters[:0]
				for _, v := range opt.Voters {
					if v != voterID {
						kept = append(kept, v)
					}
				}
				opt.Voters = kept
			} else {
				opt.Voters = append(opt.Voters, voterID)
			}
			s.mu.Unlock()
			s.publish(bus.KindChatUpdated, chatID)
			return nil
		}
		s.mu.Unlock()
		return fmt.Errorf("option %q: %w", optionID, ErrOptionNotFound)
	}
	s.mu.Unlock()
	return fmt.Errorf("poll %q: %w", msgID, ErrMessageNotFound)
}

// MarkStoriesRead clears the user's unread-story flag. Only the story
// viewer entry path calls this.
func (s *Store) MarkStoriesRead(userID string) error {
	s.mu.Lock()
	for i := range s.users {
		if s.users[i].ID == userID {
			s.users[i].HasUnreadStories = false
			s.mu.Unlock()
			s.publish(bus.KindUserUpdated, userID)
			return nil
		}
	}
	s.mu.Unlock()
	return fmt.Errorf("user %q: %w", userID, ErrUserNotFound)
}

// MarkChatRead zeroes the chat's unread counter.
func (s *Store) MarkChatRead(chatID string) error {
	s.mu.Lock()
	c := s.findChat(chatID)
	if c == nil {
		s.mu.Unlock()
		return fmt.Errorf("chat %q: %w", chatID, ErrChatNotFound)
	}
	c.UnreadCount = 0
	s.mu.Unlock()
	s.publish(bus.KindChatUpdated, chatID)
	return nil
}

// CallLogs derives the calls listing by scanning call-kind messages across
// every chat, newest first.
func (s *Store) CallLogs() []entity.CallLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.CallLog
	for _, c := range s.chats {
		for _, m := range c.Messages {
			if m.Kind != entity.KindCall || m.Call == nil {
				continue
			}
			out = append(out, entity.CallLog{
				ID:        m.ID,
				ChatID:    c.ID,
				ChatName:  c.DisplayName(),
				AvatarURL: c.DisplayAvatar(),
				Medium:    m.Call.Medium,
				Direction: m.Call.Direction,
				Timestamp: m.Timestamp,
				Duration:  m.Call.Duration,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

// findChat must be called with s.mu held. Returns the live record.
func (s *Store) findChat(id string) *entity.Chat {
	for i := range s.chats {
		if s.chats[i].ID == id {
			return &s.chats[i]
		}
	}
	return nil
}

func (s *Store) publish(kind, id string) {
	s.bus.Publish(bus.Event{Kind: kind, Timestamp: time.Now(), Payload: id})
}
