package views

import (
	"testing"
	"time"

	"github.com/wooqoo/qoo/internal/entity"
)

func TestFormatClock(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{9, "00:09"},
		{65, "01:05"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}
	for _, tc := range cases {
		if got := formatClock(tc.seconds); got != tc.want {
			t.Errorf("formatClock(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("short string changed: %q", got)
	}
	if got := truncate("hello world", 8); got != "hello w…" {
		t.Errorf("truncate = %q, want %q", got, "hello w…")
	}
}

func TestMessagePreviewKinds(t *testing.T) {
	voice := entity.Message{Kind: entity.KindVoice, Voice: &entity.VoiceNote{Duration: 15 * time.Second}}
	if got := messagePreview(voice); got != "🎤 Voice message (00:15)" {
		t.Errorf("voice preview = %q", got)
	}

	poll := entity.Message{Kind: entity.KindPoll, Poll: &entity.Poll{Question: "Lunch?"}}
	if got := messagePreview(poll); got != "📊 Lunch?" {
		t.Errorf("poll preview = %q", got)
	}

	missed := entity.Message{Kind: entity.KindCall, Call: &entity.CallInfo{Medium: entity.CallVideo, Direction: entity.CallMissed}}
	if got := messagePreview(missed); got != "📞 Missed video call" {
		t.Errorf("missed call preview = %q", got)
	}

	text := entity.Message{Kind: entity.KindText, Text: "on my way"}
	if got := messagePreview(text); got != "on my way" {
		t.Errorf("text preview = %q", got)
	}
}
