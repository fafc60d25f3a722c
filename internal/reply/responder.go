// Package reply simulates the other party answering. There is no transport
// behind this prototype, so the only non-user-initiated mutation in the
// whole system is the canned response this responder appends after a fixed
// delay.
package reply

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wooqoo/qoo/internal/bus"
	"github.com/wooqoo/qoo/internal/entity"
	"github.com/wooqoo/qoo/internal/sched"
	"github.com/wooqoo/qoo/internal/store"
)

// pool is the fixed set of canned responses, picked pseudo-randomly.
var pool = []string{
	"That's interesting! Tell me more 😊",
	"I see what you mean. How did that make you feel?",
	"Thanks for sharing that with me!",
	"That sounds exciting! 🎉",
	"I understand. Want to talk about it more?",
}

// Responder watches for outgoing text messages in direct chats and
// schedules a typing indicator followed by exactly one canned reply from
// the counterpart.
type Responder struct {
	store  *store.Store
	sched  *sched.Scheduler
	bus    *bus.Bus
	logger *zap.Logger

	typingDelay time.Duration
	replyDelay  time.Duration
	pick        func() string

	unsub func()
	done  chan struct{}
}

// New creates a responder. typingDelay is how long after the send the
// typing indicator appears; replyDelay is how long it types before the
// reply lands.
func New(st *store.Store, sc *sched.Scheduler, b *bus.Bus, logger *zap.Logger, typingDelay, replyDelay time.Duration) *Responder {
	return &Responder{
		store:       st,
		sched:       sc,
		bus:         b,
		logger:      logger,
		typingDelay: typingDelay,
		replyDelay:  replyDelay,
		pick:        func() string { return pool[rand.IntN(len(pool))] },
	}
}

// Start subscribes to message events and begins responding.
func (r *Responder) Start() {
	ch, unsub := r.bus.Subscribe("chat.message_appended", 32)
	r.unsub = unsub
	r.done = make(chan struct{})
	go r.loop(ch)
}

// Stop unsubscribes and cancels any reply still in flight. Safe to call
// more than once.
func (r *Responder) Stop() {
	if r.unsub != nil {
		r.unsub()
		r.unsub = nil
	}
	if r.done != nil {
		close(r.done)
		r.done = nil
	}
	r.sched.Cancel(sched.OwnerReply)
}

func (r *Responder) loop(ch <-chan bus.Event) {
	for {
		select {
		case evt := <-ch:
			if p, ok := evt.Payload.(bus.MessageAppended); ok {
				r.consider(p)
			}
		case <-r.done:
			return
		}
	}
}

// consider schedules a reply when the appended message is an operator text
// in a two-party chat. Everything else (group chats, polls, voice notes,
// the replies themselves) stays unanswered.
func (r *Responder) consider(p bus.MessageAppended) {
	if p.SenderID != entity.OperatorID || p.Kind != string(entity.KindText) {
		return
	}
	chat, err := r.store.Chat(p.ChatID)
	if err != nil {
		r.logger.Warn("reply target vanished", zap.String("chat", p.ChatID), zap.Error(err))
		return
	}
	counterpart, ok := chat.Counterpart()
	if !ok {
		return
	}

	r.sched.After(sched.OwnerReply, r.typingDelay, func() {
		r.setTyping(p.ChatID, true)
		r.sched.After(sched.OwnerReply, r.replyDelay, func() {
			r.setTyping(p.ChatID, false)
			msg := entity.Message{
				ID:        uuid.New().String(),
				SenderID:  counterpart.ID,
				Timestamp: time.Now(),
				Status:    entity.StatusDelivered,
				Kind:      entity.KindText,
				Text:      r.pick(),
			}
			if err := r.store.AppendMessage(p.ChatID, msg); err != nil {
				r.logger.Warn("append reply failed", zap.String("chat", p.ChatID), zap.Error(err))
			}
		})
	})
}

func (r *Responder) setTyping(chatID string, active bool) {
	r.bus.Publish(bus.Event{
		Kind:      bus.KindTyping,
		Timestamp: time.Now(),
		Payload:   bus.Typing{ChatID: chatID, Active: active},
	})
}
