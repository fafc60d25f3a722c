package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/wooqoo/qoo/internal/entity"
)

// themeColor returns a tview-compatible color name string.
func themeColor(c tcell.Color) string {
	for name, val := range tcell.ColorNames {
		if val == c {
			return name
		}
	}
	return fmt.Sprintf("#%06x", c.Hex())
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02")
}

// formatClock renders elapsed seconds as mm:ss, rolling to h:mm:ss past
// an hour.
func formatClock(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// statusTicks maps delivery status to the familiar check marks.
func statusTicks(s entity.MessageStatus) string {
	switch s {
	case entity.StatusRead:
		return "✓✓"
	case entity.StatusDelivered:
		return "✓✓"
	default:
		return "✓"
	}
}

// messagePreview is the one-line summary shown in the chat list.
func messagePreview(m entity.Message) string {
	switch m.Kind {
	case entity.KindVoice:
		d := "0:00"
		if m.Voice != nil {
			d = formatClock(int(m.Voice.Duration.Seconds()))
		}
		return "🎤 Voice message (" + d + ")"
	case entity.KindPoll:
		q := ""
		if m.Poll != nil {
			q = m.Poll.Question
		}
		return "📊 " + q
	case entity.KindCall:
		if m.Call == nil {
			return "📞 Call"
		}
		label := "Call"
		if m.Call.Medium == entity.CallVideo {
			label = "Video call"
		}
		if m.Call.Direction == entity.CallMissed {
			return "📞 Missed " + strings.ToLower(label)
		}
		return "📞 " + label
	case entity.KindImage:
		return "📷 Photo"
	default:
		return m.Text
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
