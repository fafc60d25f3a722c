package ui

import (
	"reflect"
	"testing"

	"github.com/rivo/tview"
)

func newTestPages() *Pages {
	p := NewPages()
	for _, name := range []string{"chat-list", "conversation", "call"} {
		p.AddPage(name, tview.NewBox(), true, false)
	}
	return p
}

func TestPagesPushPop(t *testing.T) {
	p := newTestPages()

	p.Push("chat-list")
	p.Push("conversation")
	if got := p.Current(); got != "conversation" {
		t.Errorf("Current() = %q, want conversation", got)
	}
	if got := p.Depth(); got != 2 {
		t.Errorf("Depth() = %d, want 2", got)
	}

	if popped := p.Pop(); popped != "conversation" {
		t.Errorf("Pop() = %q, want conversation", popped)
	}
	if got := p.Current(); got != "chat-list" {
		t.Errorf("Current() after pop = %q, want chat-list", got)
	}
}

func TestPagesSyncStack(t *testing.T) {
	p := newTestPages()
	p.Push("chat-list")

	var notified []string
	p.SetOnChange(func(stack []string) { notified = stack })

	want := []string{"chat-list", "conversation", "call"}
	p.SyncStack(want)

	if got := p.Stack(); !reflect.DeepEqual(got, want) {
		t.Errorf("Stack() = %v, want %v", got, want)
	}
	if got := p.Current(); got != "call" {
		t.Errorf("Current() = %q, want call", got)
	}
	if !reflect.DeepEqual(notified, want) {
		t.Errorf("onChange got %v, want %v", notified, want)
	}
}

func TestPagesReset(t *testing.T) {
	p := newTestPages()
	p.Push("chat-list")
	p.Push("conversation")

	p.Reset("chat-list")
	if got := p.Depth(); got != 1 {
		t.Errorf("Depth() after reset = %d, want 1", got)
	}
	if got := p.Current(); got != "chat-list" {
		t.Errorf("Current() after reset = %q, want chat-list", got)
	}
}
