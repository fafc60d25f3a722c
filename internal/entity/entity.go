// Package entity defines the in-memory data model: users, chats, messages,
// stories, and the derived call log. Entities are plain values; the store
// owns the authoritative copies and hands out clones.
package entity

import "time"

// OperatorID is the reserved id of the local user of the session. Exactly
// one user in the store carries it; all others are remote parties.
const OperatorID = "operator"

// ChatKind discriminates conversation shapes.
type ChatKind string

const (
	ChatDirect  ChatKind = "direct"
	ChatGroup   ChatKind = "group"
	ChatChannel ChatKind = "channel"
)

// MessageStatus is the delivery status shown next to a message.
type MessageStatus string

const (
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
)

// MessageKind selects the body variant carried by a message.
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindVoice MessageKind = "voice"
	KindPoll  MessageKind = "poll"
	KindCall  MessageKind = "call"
	KindImage MessageKind = "image"
)

// CallMedium is the media type of a call.
type CallMedium string

const (
	CallAudio CallMedium = "audio"
	CallVideo CallMedium = "video"
)

// CallDirection classifies a call record.
type CallDirection string

const (
	CallIncoming CallDirection = "incoming"
	CallOutgoing CallDirection = "outgoing"
	CallMissed   CallDirection = "missed"
)

// Story is an ephemeral media item attached to a user.
type Story struct {
	ID        string
	MediaURL  string
	Timestamp time.Time
	Duration  time.Duration
}

// User is an identity. The store keeps one record per id and additionally
// denormalized copies inside every chat's participant list.
type User struct {
	ID              string
	Name            string
	Username        string
	AvatarURL       string
	Online          bool
	Bio             string
	Phone           string
	Saved           bool
	Stories         []Story
	HasUnreadStories bool
}

// Clone returns a deep copy.
func (u User) Clone() User {
	c := u
	c.Stories = append([]Story(nil), u.Stories...)
	return c
}

// VoiceNote is the body of a voice message.
type VoiceNote struct {
	Duration   time.Duration
	Transcript string
	AudioURL   string
}

// PollOption is a single answer in a poll, holding the set of voter ids.
type PollOption struct {
	ID     string
	Text   string
	Voters []string
}

// HasVoter reports whether the given id is in the voter set.
func (o PollOption) HasVoter(id string) bool {
	for _, v := range o.Voters {
		if v == id {
			return true
		}
	}
	return false
}

// Poll is the body of a poll message. AllowMultiple is carried and rendered
// but the vote toggle does not enforce single choice; see store.ToggleVote.
type Poll struct {
	Question      string
	Options       []PollOption
	AllowMultiple bool
}

// Clone returns a deep copy.
func (p *Poll) Clone() *Poll {
	if p == nil {
		return nil
	}
	c := &Poll{Question: p.Question, AllowMultiple: p.AllowMultiple}
	c.Options = make([]PollOption, len(p.Options))
	for i, o := range p.Options {
		o.Voters = append([]string(nil), o.Voters...)
		c.Options[i] = o
	}
	return c
}

// CallInfo is the body of a call record message.
type CallInfo struct {
	Medium    CallMedium
	Duration  time.Duration
	Direction CallDirection
}

// Message is one entry in a chat's chronological sequence. Kind selects
// which of the body fields is meaningful.
type Message struct {
	ID        string
	SenderID  string
	Timestamp time.Time
	Status    MessageStatus
	Kind      MessageKind
	Pinned    bool
	ReplyTo   string

	Text     string
	Voice    *VoiceNote
	Poll     *Poll
	Call     *CallInfo
	ImageURL string
}

// Clone returns a deep copy.
func (m Message) Clone() Message {
	c := m
	if m.Voice != nil {
		v := *m.Voice
		c.Voice = &v
	}
	c.Poll = m.Poll.Clone()
	if m.Call != nil {
		ci := *m.Call
		c.Call = &ci
	}
	return c
}

// Chat is a conversation. Participants holds denormalized user copies
// excluding the operator; Messages is append-only from the UI's view.
type Chat struct {
	ID           string
	Kind         ChatKind
	Participants []User
	Messages     []Message
	UnreadCount  int
	Muted        bool
	Pinned       bool

	// Group/channel identity. Direct chats display the counterpart instead.
	Name        string
	AvatarURL   string
	Description string
	Public      bool
	MemberCount int
}

// Clone returns a deep copy.
func (c Chat) Clone() Chat {
	out := c
	out.Participants = make([]User, len(c.Participants))
	for i, p := range c.Participants {
		out.Participants[i] = p.Clone()
	}
	out.Messages = make([]Message, len(c.Messages))
	for i, m := range c.Messages {
		out.Messages[i] = m.Clone()
	}
	return out
}

// Counterpart returns the single remote party of a direct chat.
// The second return is false for group/channel chats or empty chats.
func (c Chat) Counterpart() (User, bool) {
	if c.Kind != ChatDirect || len(c.Participants) == 0 {
		return User{}, false
	}
	return c.Participants[0], true
}

// DisplayName resolves what the chat list shows: the counterpart's name for
// direct chats, the conversation-level name otherwise.
func (c Chat) DisplayName() string {
	if u, ok := c.Counterpart(); ok {
		return u.Name
	}
	return c.Name
}

// DisplayAvatar resolves the avatar the same way DisplayName resolves names.
func (c Chat) DisplayAvatar() string {
	if u, ok := c.Counterpart(); ok {
		return u.AvatarURL
	}
	return c.AvatarURL
}

// LastMessage returns the newest message, if any.
func (c Chat) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// PinnedMessages returns the pinned subset, derived by filtering.
func (c Chat) PinnedMessages() []Message {
	var out []Message
	for _, m := range c.Messages {
		if m.Pinned {
			out = append(out, m)
		}
	}
	return out
}

// UnsavedContact reports whether this is a direct chat with a party that has
// not been saved to contacts, which drives the save-contact banner.
func (c Chat) UnsavedContact() bool {
	u, ok := c.Counterpart()
	return ok && !u.Saved
}

// CallLog is one row of the calls listing. It is derived from call-kind
// messages and never independently authoritative.
type CallLog struct {
	ID        string
	ChatID    string
	ChatName  string
	AvatarURL string
	Medium    CallMedium
	Direction CallDirection
	Timestamp time.Time
	Duration  time.Duration
}
