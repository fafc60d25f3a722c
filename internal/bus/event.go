package bus

import "time"

// Event kinds are dot-namespaced so subscribers can filter by prefix:
// "nav." for screen changes, "chat." for conversation mutations, "user."
// for identity mutations, "call." for the in-call ticker, "story." for the
// story viewer.
const (
	KindNavChanged      = "nav.changed"
	KindMessageAppended = "chat.message_appended"
	KindChatUpdated     = "chat.updated"
	KindTyping          = "chat.typing"
	KindUserUpdated     = "user.updated"
	KindCallTick        = "call.tick"
	KindStoryAdvanced   = "story.advanced"
)

// Event is a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// MessageAppended is the payload for chat.message_appended.
type MessageAppended struct {
	ChatID    string
	MessageID string
	SenderID  string
	Kind      string
}

// Typing is the payload for chat.typing.
type Typing struct {
	ChatID string
	Active bool
}

// CallTick is the payload for call.tick.
type CallTick struct {
	Seconds int
}
