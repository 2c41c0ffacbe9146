package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

// ConnState is the relay connection state shown in the header.
type ConnState int

const (
	ConnConnecting ConnState = iota
	ConnConnected
	ConnDisconnected
	ConnFailed
)

func (s ConnState) String() string {
	switch s {
	case ConnConnected:
		return "connected"
	case ConnDisconnected:
		return "disconnected"
	case ConnFailed:
		return "connection failed"
	default:
		return "connecting"
	}
}

// Header is the top bar. While the relay is unreachable it becomes a
// persistent banner.
type Header struct {
	width  int
	title  string
	state  ConnState
	detail string

	total  int
	unread int
	counts bool
}

func NewHeader(title string) *Header {
	return &Header{title: title}
}

func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetConnection records the connection state and an optional reason.
func (h *Header) SetConnection(state ConnState, detail string) {
	h.state = state
	h.detail = detail
}

func (h *Header) Connection() ConnState { return h.state }

// SetCounts shows the number of conversations and how many are unread.
func (h *Header) SetCounts(total, unread int) {
	h.total = total
	h.unread = unread
	h.counts = true
}

// Banner reports whether the header is currently showing an outage banner.
func (h *Header) Banner() bool {
	return h.state == ConnDisconnected || h.state == ConnFailed
}

func (h *Header) View() string {
	if h.Banner() {
		return h.renderBanner()
	}

	left := " " + h.title
	right := h.state.String()
	if h.state == ConnConnected {
		right = "● " + right
	}
	if h.counts {
		right += fmt.Sprintf(" · %d conversations", h.total)
		if h.unread > 0 {
			right += fmt.Sprintf(", %d unread", h.unread)
		}
	}
	right += " "

	pad := max(h.width-runewidth.StringWidth(left)-runewidth.StringWidth(right), 0)
	return h.renderGradient(left + strings.Repeat(" ", pad) + right)
}

func (h *Header) renderBanner() string {
	text := " ✕ Disconnected from relay"
	if h.state == ConnFailed {
		text = " ✕ Could not reach relay"
	}
	if h.detail != "" {
		text += ": " + h.detail
	}
	text += " · ctrl+r to reconnect"
	if h.width > 0 {
		text = runewidth.Truncate(text, h.width, "…")
	}
	return HeaderBannerStyle.Width(h.width).Render(text)
}

func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient fades the background from the primary color into the
// app background across the width of content.
func (h *Header) renderGradient(content string) string {
	runes := []rune(content)
	if len(runes) == 0 {
		return ""
	}

	sr, sg, sb := parseHexColor(hexPrimary)
	er, eg, eb := parseHexColor(hexBg)
	titleEnd := len([]rune(" " + h.title))

	var out strings.Builder
	for i, r := range runes {
		t := float64(i) / float64(len(runes))
		bg := lipgloss.Color(fmt.Sprintf("#%02X%02X%02X",
			int(float64(sr)*(1-t)+float64(er)*t),
			int(float64(sg)*(1-t)+float64(eg)*t),
			int(float64(sb)*(1-t)+float64(eb)*t),
		))
		style := lipgloss.NewStyle().Background(bg).Foreground(ColorText).Bold(i < titleEnd)
		out.WriteString(style.Render(string(r)))
	}
	return out.String()
}
