package ui

import (
	"strings"
	"time"
)

// SystemLogEntry is one server notice.
type SystemLogEntry struct {
	At   time.Time
	Text string
}

// SystemLog is the notice panel under the conversation list. Notices are
// global; they never belong to a conversation.
type SystemLog struct {
	entries []SystemLogEntry
	width   int
	height  int
	now     func() time.Time
}

func NewSystemLog() *SystemLog {
	return &SystemLog{now: time.Now}
}

func (l *SystemLog) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Add records a notice, dropping the oldest once MaxSystemLogEntries is hit.
func (l *SystemLog) Add(text string) {
	text = strings.Join(strings.Fields(Sanitize(text)), " ")
	if text == "" {
		return
	}
	l.entries = append(l.entries, SystemLogEntry{At: l.now(), Text: text})
	if over := len(l.entries) - MaxSystemLogEntries; over > 0 {
		l.entries = append(l.entries[:0:0], l.entries[over:]...)
	}
}

func (l *SystemLog) Entries() []SystemLogEntry {
	out := make([]SystemLogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *SystemLog) Len() int { return len(l.entries) }

// Clear drops all notices.
func (l *SystemLog) Clear() { l.entries = nil }

func (l *SystemLog) View() string {
	ctx := GetViewContext()
	innerWidth := ctx.InnerWidth(l.width)
	rows := max(ctx.InnerHeight(l.height)-TitleHeight, 1)

	lines := []string{PanelTitleStyle.Render("System")}
	start := max(len(l.entries)-rows, 0)
	for _, e := range l.entries[start:] {
		lines = append(lines, " "+RenderNotice(e.At, e.Text, innerWidth-2))
	}
	return PanelStyle.Width(l.width).Height(l.height).Render(strings.Join(lines, "\n"))
}
