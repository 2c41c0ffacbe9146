package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// KeyBinding is a shortcut hint shown in the footer.
type KeyBinding struct {
	Key  string
	Desc string
}

// FlashType selects the icon and color of a flash message.
type FlashType int

const (
	FlashInfo FlashType = iota
	FlashSuccess
	FlashWarning
	FlashError
)

// DefaultFlashDuration is how long a flash stays up.
const DefaultFlashDuration = 4 * time.Second

// FlashMessage temporarily replaces the key hints.
type FlashMessage struct {
	Text      string
	Type      FlashType
	CreatedAt time.Time
	Duration  time.Duration
}

func (f *FlashMessage) IsExpired() bool {
	return time.Since(f.CreatedAt) > f.Duration
}

// FlashTickMsg drives flash expiry.
type FlashTickMsg time.Time

// FlashTick schedules the next expiry check.
func FlashTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// FooterContext selects which bindings are relevant.
type FooterContext struct {
	SidebarFocused bool
	HasActive      bool
	InputEnabled   bool
	Connected      bool
}

// Footer is the bottom bar with key hints or a flash message.
type Footer struct {
	width        int
	bindings     []KeyBinding
	ctx          FooterContext
	flashMessage *FlashMessage
}

// NewFooter creates a footer with the agent dashboard's bindings. The
// visitor widget replaces them with SetBindings.
func NewFooter() *Footer {
	return &Footer{
		bindings: []KeyBinding{
			{Key: "tab", Desc: "switch pane"},
			{Key: "↑/↓", Desc: "navigate"},
			{Key: "enter", Desc: "open"},
			{Key: "y", Desc: "copy transcript"},
			{Key: "ctrl+r", Desc: "reconnect"},
			{Key: "q", Desc: "quit"},
		},
	}
}

func (f *Footer) SetWidth(width int) {
	f.width = width
}

func (f *Footer) SetBindings(bindings []KeyBinding) {
	f.bindings = bindings
}

func (f *Footer) SetContext(ctx FooterContext) {
	f.ctx = ctx
}

func (f *Footer) SetFlash(text string, t FlashType) {
	f.SetFlashWithDuration(text, t, DefaultFlashDuration)
}

func (f *Footer) SetFlashWithDuration(text string, t FlashType, d time.Duration) {
	f.flashMessage = &FlashMessage{Text: text, Type: t, CreatedAt: time.Now(), Duration: d}
}

func (f *Footer) ClearFlash() {
	f.flashMessage = nil
}

func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// Flash returns the current flash text, or "".
func (f *Footer) Flash() string {
	if f.flashMessage == nil {
		return ""
	}
	return f.flashMessage.Text
}

// FlashType returns the current flash's type; FlashInfo when there is none.
func (f *Footer) FlashType() FlashType {
	if f.flashMessage == nil {
		return FlashInfo
	}
	return f.flashMessage.Type
}

// ClearIfExpired drops an expired flash and reports whether it did.
func (f *Footer) ClearIfExpired() bool {
	if f.flashMessage != nil && f.flashMessage.IsExpired() {
		f.flashMessage = nil
		return true
	}
	return false
}

func (f *Footer) View() string {
	if f.flashMessage != nil {
		return f.renderFlash()
	}

	var bindings []KeyBinding
	switch {
	case !f.ctx.SidebarFocused && f.ctx.InputEnabled:
		bindings = []KeyBinding{
			{Key: "enter", Desc: "send"},
			{Key: "shift+enter", Desc: "newline"},
			{Key: "tab", Desc: "switch pane"},
			{Key: "pgup/dn", Desc: "scroll"},
		}
	default:
		for _, b := range f.bindings {
			if b.Key == "y" && !f.ctx.HasActive {
				continue
			}
			if b.Key == "ctrl+r" && f.ctx.Connected {
				continue
			}
			bindings = append(bindings, b)
		}
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, FooterKeyStyle.Render(b.Key)+FooterDescStyle.Render(": "+b.Desc))
	}
	sep := "  " + lipgloss.NewStyle().Foreground(ColorBorder).Render("|") + "  "
	return FooterStyle.Width(f.width).Render(strings.Join(parts, sep))
}

func (f *Footer) renderFlash() string {
	var icon string
	var color = ColorInfo
	switch f.flashMessage.Type {
	case FlashError:
		icon, color = "✕", ColorError
	case FlashWarning:
		icon, color = "⚠", ColorWarning
	case FlashSuccess:
		icon, color = "✓", ColorSuccess
	default:
		icon = "ℹ"
	}
	style := lipgloss.NewStyle().Foreground(color).Bold(true)
	return FooterStyle.Width(f.width).Render(style.Render(icon + " " + f.flashMessage.Text))
}
