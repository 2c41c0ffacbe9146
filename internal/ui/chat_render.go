package ui

import (
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/zhubert/relaydesk/internal/conversation"
)

const tabWidth = 4

// Sanitize makes remote text safe to print. Escape sequences are stripped
// and every control or bidi-override character other than newline and tab
// is removed, so message text can never drive the terminal.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case unicode.IsControl(r), unicode.Is(unicode.Bidi_Control, r):
			return -1
		}
		return r
	}, s)
}

func authorStyle(a conversation.Author) (label, body func(...string) string) {
	switch a {
	case conversation.Agent:
		return ChatAgentStyle.Render, ChatMessageStyle.Render
	case conversation.System:
		return ChatSystemStyle.Render, ChatSystemTextStyle.Render
	default:
		return ChatVisitorStyle.Render, ChatMessageStyle.Render
	}
}

// wrap sanitizes text and word-wraps it to width cells.
func wrap(text string, width int) string {
	text = strings.ReplaceAll(Sanitize(strings.TrimSpace(text)), "\t", strings.Repeat(" ", tabWidth))
	if width <= 0 {
		width = DefaultWrapWidth
	}
	return ansi.Wrap(text, width, "")
}

// RenderMessage renders one message as an author line followed by its text.
func RenderMessage(m conversation.Message, width int) string {
	label, body := authorStyle(m.Author)
	var sb strings.Builder
	sb.WriteString(label(m.Author.String() + ":"))
	if !m.At.IsZero() {
		sb.WriteString(" ")
		sb.WriteString(SystemLogTimeStyle.Render(m.At.Format("15:04")))
	}
	sb.WriteString("\n")
	sb.WriteString(body(wrap(m.Text, width)))
	return sb.String()
}

// RenderMessages renders a full history, one block per message, in order.
func RenderMessages(msgs []conversation.Message, width int) string {
	blocks := make([]string, len(msgs))
	for i, m := range msgs {
		blocks[i] = RenderMessage(m, width)
	}
	return strings.Join(blocks, "\n\n")
}

// RenderNotice renders one system notice as a single timestamped line no
// wider than width cells. Notices are kept apart from conversation history.
func RenderNotice(at time.Time, text string, width int) string {
	stamp := at.Format("15:04:05") + " "
	text = strings.Join(strings.Fields(Sanitize(text)), " ")
	avail := max(width-runewidth.StringWidth(stamp), 4)
	return SystemLogTimeStyle.Render(stamp) + SystemLogTextStyle.Render(runewidth.Truncate(text, avail, "…"))
}
