package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("chat.", 10)
	defer unsub()

	b.Publish(Event{Kind: KindMessageAppended, Timestamp: time.Now(), Payload: MessageAppended{ChatID: "c1"}})

	select {
	case evt := <-ch:
		if evt.Kind != KindMessageAppended {
			t.Errorf("got kind %q, want %q", evt.Kind, KindMessageAppended)
		}
		if p, ok := evt.Payload.(MessageAppended); !ok || p.ChatID != "c1" {
			t.Errorf("payload = %v, want MessageAppended for c1", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("nav.", 10)
	defer unsub()

	b.Publish(Event{Kind: KindChatUpdated})
	b.Publish(Event{Kind: KindNavChanged})

	select {
	case evt := <-ch:
		if evt.Kind != KindNavChanged {
			t.Errorf("got kind %q, want %q", evt.Kind, KindNavChanged)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	// Ensure the chat event was not delivered.
	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
		// Expected: no more events.
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("chat.", 10)
	unsub()

	b.Publish(Event{Kind: KindChatUpdated})

	select {
	case evt := <-ch:
		t.Errorf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
		// Expected.
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("call.", 1)
	defer unsub()

	// Fill buffer.
	b.Publish(Event{Kind: KindCallTick, Payload: CallTick{Seconds: 1}})
	// This one is dropped (non-blocking publish).
	b.Publish(Event{Kind: KindCallTick, Payload: CallTick{Seconds: 2}})

	evt := <-ch
	if p := evt.Payload.(CallTick); p.Seconds != 1 {
		t.Errorf("got tick %d, want 1", p.Seconds)
	}
}
