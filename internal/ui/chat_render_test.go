package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/zhubert/relaydesk/internal/conversation"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"markup stays literal", "<b>hi</b>", "<b>hi</b>"},
		{"csi stripped", "\x1b[31mred\x1b[0m", "red"},
		{"clear screen stripped", "a\x1b[2Jb", "ab"},
		{"osc stripped", "\x1b]0;pwned\x07title", "title"},
		{"crlf normalized", "a\r\nb", "a\nb"},
		{"bare cr dropped", "a\rb", "ab"},
		{"bell dropped", "ding\a", "ding"},
		{"tab kept", "a\tb", "a\tb"},
		{"bidi override dropped", "abc\u202edef", "abcdef"},
		{"unicode kept", "héllo 世界", "héllo 世界"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderMessage(t *testing.T) {
	m := conversation.Message{
		Author: conversation.Agent,
		Text:   "on it",
		At:     time.Date(2026, 1, 2, 15, 4, 0, 0, time.Local),
	}
	got := stripANSI(RenderMessage(m, 40))
	if !strings.HasPrefix(got, "Agent: 15:04\n") {
		t.Errorf("header line wrong: %q", got)
	}
	if !strings.Contains(got, "on it") {
		t.Errorf("body missing: %q", got)
	}
}

func TestRenderMessage_Wraps(t *testing.T) {
	m := conversation.Message{Author: conversation.Visitor, Text: strings.Repeat("abc ", 30)}
	for _, line := range strings.Split(stripANSI(RenderMessage(m, 20)), "\n") {
		if len(line) > 20 {
			t.Errorf("line %q exceeds 20 cells", line)
		}
	}
}

func TestRenderMessages_Order(t *testing.T) {
	msgs := []conversation.Message{
		{Author: conversation.Visitor, Text: "first"},
		{Author: conversation.Agent, Text: "second"},
		{Author: conversation.System, Text: "third"},
	}
	got := stripANSI(RenderMessages(msgs, 80))
	i, j, k := strings.Index(got, "first"), strings.Index(got, "second"), strings.Index(got, "third")
	if i < 0 || !(i < j && j < k) {
		t.Errorf("messages out of order: %q", got)
	}
	if !strings.Contains(got, "System:") {
		t.Errorf("system author missing: %q", got)
	}
}

func TestRenderNotice(t *testing.T) {
	at := time.Date(2026, 3, 4, 8, 5, 9, 0, time.Local)
	got := stripANSI(RenderNotice(at, "Client abc\x1b[2J\nconnected", 80))
	if got != "08:05:09 Client abc connected" {
		t.Errorf("RenderNotice = %q", got)
	}

	long := stripANSI(RenderNotice(at, strings.Repeat("x", 100), 30))
	if runewidth.StringWidth(long) > 30 {
		t.Errorf("notice %q wider than 30 cells", long)
	}
}
