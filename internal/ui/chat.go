package ui

import (
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/relaydesk/internal/conversation"
	"github.com/zhubert/relaydesk/internal/keys"
)

const (
	defaultPlaceholder = "Select a conversation from the list."
	inputPlaceholder   = "Type a reply..."
	disabledInputHint  = "Input disabled"
)

// Chat is the conversation pane: a scrollable message history above a
// message input. It holds only the projection it was last given; the
// conversation store stays the source of truth.
type Chat struct {
	viewport viewport.Model
	input    textarea.Model
	width    int
	height   int
	focused  bool

	sid          string
	title        string
	messages     []conversation.Message
	placeholder  string
	inputEnabled bool
}

func NewChat() *Chat {
	ti := textarea.New()
	ti.Placeholder = inputPlaceholder
	ti.CharLimit = 0
	ti.SetHeight(TextareaHeight)
	ti.ShowLineNumbers = false
	ti.Prompt = ""

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	c := &Chat{
		viewport:    vp,
		input:       ti,
		placeholder: defaultPlaceholder,
	}
	c.updateContent()
	return c
}

func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height

	ctx := GetViewContext()
	historyHeight := height - InputTotalHeight
	c.viewport.SetWidth(ctx.InnerWidth(width))
	c.viewport.SetHeight(max(ctx.InnerHeight(historyHeight)-TitleHeight, 1))
	c.input.SetWidth(ctx.InnerWidth(width) - InputPaddingWidth)
	c.updateContent()
}

func (c *Chat) SetFocused(focused bool) {
	c.focused = focused
	c.syncInputFocus()
}

func (c *Chat) IsFocused() bool { return c.focused }

// SetTitle sets the label shown above the history.
func (c *Chat) SetTitle(title string) {
	c.title = title
}

// SID is the conversation currently projected, or "".
func (c *Chat) SID() string { return c.sid }

// HasConversation reports whether a conversation is projected.
func (c *Chat) HasConversation() bool { return c.sid != "" }

// Replay clears the pane and redraws it from a complete history.
func (c *Chat) Replay(sid string, msgs []conversation.Message) {
	c.sid = sid
	c.messages = append(c.messages[:0:0], msgs...)
	c.updateContent()
}

// Append adds one message to the projection.
func (c *Chat) Append(m conversation.Message) {
	c.messages = append(c.messages, m)
	c.updateContent()
}

// Messages returns the projected messages.
func (c *Chat) Messages() []conversation.Message {
	out := make([]conversation.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// ShowPlaceholder clears the pane and shows text instead of a conversation.
func (c *Chat) ShowPlaceholder(text string) {
	c.sid = ""
	c.messages = nil
	c.placeholder = text
	c.input.Reset()
	c.updateContent()
}

// SetInputEnabled gates the message input.
func (c *Chat) SetInputEnabled(enabled bool) {
	c.inputEnabled = enabled
	if enabled {
		c.input.Placeholder = inputPlaceholder
	} else {
		c.input.Placeholder = disabledInputHint
	}
	c.syncInputFocus()
}

func (c *Chat) InputEnabled() bool { return c.inputEnabled }

func (c *Chat) GetInput() string { return c.input.Value() }

func (c *Chat) SetInput(s string) { c.input.SetValue(s) }

func (c *Chat) ClearInput() { c.input.Reset() }

func (c *Chat) syncInputFocus() {
	if c.focused && c.inputEnabled {
		c.input.Focus()
	} else {
		c.input.Blur()
	}
}

func (c *Chat) updateContent() {
	width := c.viewport.Width()
	if width <= 0 {
		width = DefaultWrapWidth
	}
	if c.sid == "" && len(c.messages) == 0 {
		c.viewport.SetContent(ChatPlaceholderStyle.Render(c.placeholder))
		return
	}
	if len(c.messages) == 0 {
		c.viewport.SetContent(ChatPlaceholderStyle.Render("No messages yet."))
		return
	}
	c.viewport.SetContent(RenderMessages(c.messages, width))
	c.viewport.GotoBottom()
}

// Update forwards scroll keys to the history and everything else to the
// input while it is focused and enabled.
func (c *Chat) Update(msg tea.Msg) (*Chat, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case keys.PgUp, keys.PgDown, keys.Home, keys.End:
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			return c, cmd
		}
		if c.focused && c.inputEnabled {
			var cmd tea.Cmd
			c.input, cmd = c.input.Update(msg)
			return c, cmd
		}
		return c, nil
	}

	if c.focused && c.inputEnabled {
		if _, ok := msg.(tea.PasteMsg); ok {
			var cmd tea.Cmd
			c.input, cmd = c.input.Update(msg)
			return c, cmd
		}
	}

	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	return c, cmd
}

func (c *Chat) View() string {
	panelStyle := PanelStyle
	if c.focused {
		panelStyle = PanelFocusedStyle
	}

	title := c.title
	if title == "" {
		title = "Conversation"
	}
	history := lipgloss.JoinVertical(lipgloss.Left,
		PanelTitleStyle.Render(title),
		c.viewport.View(),
	)
	historyPanel := panelStyle.Width(c.width).Height(c.height - InputTotalHeight).Render(history)

	inputStyle := ChatInputStyle
	switch {
	case !c.inputEnabled:
		inputStyle = ChatInputDisabledStyle
	case c.focused:
		inputStyle = ChatInputFocusedStyle
	}
	inputArea := inputStyle.Width(c.width).Render(c.input.View())

	return lipgloss.JoinVertical(lipgloss.Left, historyPanel, inputArea)
}

// Plain returns the projected history without styling, for tests and logs.
func (c *Chat) Plain() string {
	var sb strings.Builder
	for i, m := range c.messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.Author.String() + ": " + Sanitize(m.Text))
	}
	return sb.String()
}
