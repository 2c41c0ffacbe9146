package ui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/zhubert/relaydesk/internal/keys"
)

// SidebarSearchCharLimit bounds the filter query.
const SidebarSearchCharLimit = 64

// SidebarEntry is one conversation as the list shows it.
type SidebarEntry struct {
	SID     string
	Unread  bool
	Preview string
}

// Sidebar lists conversations in first-seen order. It is a projection: the
// caller replaces the entries whenever the store changes, so a conversation
// is listed exactly when it exists.
type Sidebar struct {
	entries      []SidebarEntry
	filtered     []SidebarEntry
	active       string
	selectedIdx  int
	scrollOffset int
	width        int
	height       int
	focused      bool

	searchMode  bool
	searchInput textinput.Model
}

func NewSidebar() *Sidebar {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.CharLimit = SidebarSearchCharLimit
	return &Sidebar{searchInput: ti}
}

func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

func (s *Sidebar) Width() int { return s.width }

func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

func (s *Sidebar) IsFocused() bool { return s.focused }

// SetEntries replaces the list. The cursor stays on the same conversation
// when it is still present.
func (s *Sidebar) SetEntries(entries []SidebarEntry) {
	cur := s.SelectedSID()
	s.entries = entries
	if s.searchMode || s.searchInput.Value() != "" {
		s.applyFilter(s.searchInput.Value())
	}
	s.moveCursorTo(cur)
}

// SetActive highlights sid as the open conversation. "" clears the highlight.
func (s *Sidebar) SetActive(sid string) {
	s.active = sid
	if sid != "" {
		s.moveCursorTo(sid)
	}
}

func (s *Sidebar) Active() string { return s.active }

// Entries returns what the list is currently displaying.
func (s *Sidebar) Entries() []SidebarEntry {
	return s.display()
}

// SelectedSID returns the conversation under the cursor, or "".
func (s *Sidebar) SelectedSID() string {
	d := s.display()
	if s.selectedIdx < 0 || s.selectedIdx >= len(d) {
		return ""
	}
	return d[s.selectedIdx].SID
}

func (s *Sidebar) moveCursorTo(sid string) {
	d := s.display()
	for i, e := range d {
		if e.SID == sid {
			s.selectedIdx = i
			return
		}
	}
	s.selectedIdx = min(s.selectedIdx, max(len(d)-1, 0))
}

func (s *Sidebar) display() []SidebarEntry {
	if s.searchInput.Value() != "" {
		return s.filtered
	}
	return s.entries
}

func (s *Sidebar) EnterSearchMode() tea.Cmd {
	s.searchMode = true
	s.searchInput.SetValue("")
	s.applyFilter("")
	return s.searchInput.Focus()
}

// ExitSearchMode leaves search mode and drops the filter.
func (s *Sidebar) ExitSearchMode() {
	cur := s.SelectedSID()
	s.searchMode = false
	s.searchInput.Blur()
	s.searchInput.SetValue("")
	s.filtered = nil
	s.moveCursorTo(cur)
}

func (s *Sidebar) IsSearchMode() bool { return s.searchMode }

func (s *Sidebar) applyFilter(query string) {
	s.filtered = nil
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return
	}
	for _, e := range s.entries {
		if strings.Contains(strings.ToLower(e.SID), query) ||
			strings.Contains(strings.ToLower(e.Preview), query) {
			s.filtered = append(s.filtered, e)
		}
	}
	s.selectedIdx = min(s.selectedIdx, max(len(s.filtered)-1, 0))
	s.scrollOffset = 0
}

func (s *Sidebar) Update(msg tea.Msg) (*Sidebar, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || !s.focused {
		return s, nil
	}

	if s.searchMode {
		switch key.String() {
		case keys.Escape:
			s.ExitSearchMode()
			return s, nil
		case keys.Enter:
			// Keep the filter, hand enter back to the caller to open.
			s.searchMode = false
			s.searchInput.Blur()
			return s, nil
		case keys.Up, keys.CtrlP:
			s.move(-1)
			return s, nil
		case keys.Down, keys.CtrlN:
			s.move(1)
			return s, nil
		}
		var cmd tea.Cmd
		s.searchInput, cmd = s.searchInput.Update(msg)
		s.applyFilter(s.searchInput.Value())
		return s, cmd
	}

	switch key.String() {
	case keys.Up, "k":
		s.move(-1)
	case keys.Down, "j":
		s.move(1)
	case keys.Home:
		s.selectedIdx = 0
	case keys.End:
		s.selectedIdx = max(len(s.display())-1, 0)
	}
	return s, nil
}

func (s *Sidebar) move(delta int) {
	n := len(s.display())
	if n == 0 {
		return
	}
	s.selectedIdx = max(0, min(n-1, s.selectedIdx+delta))
}

func (s *Sidebar) View() string {
	ctx := GetViewContext()

	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}
	innerWidth := ctx.InnerWidth(s.width)
	innerHeight := ctx.InnerHeight(s.height)

	lines := []string{PanelTitleStyle.Render("Conversations")}
	if s.searchMode || s.searchInput.Value() != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true).Render("/ ")+s.searchInput.View())
	}
	listHeight := max(innerHeight-len(lines), 1)

	d := s.display()
	if len(d) == 0 {
		msg := "No conversations."
		if s.searchInput.Value() != "" {
			msg = "No matches."
		}
		lines = append(lines, SidebarEmptyStyle.Render(msg))
		return style.Width(s.width).Height(s.height).Render(strings.Join(lines, "\n"))
	}

	if s.selectedIdx < s.scrollOffset {
		s.scrollOffset = s.selectedIdx
	} else if s.selectedIdx >= s.scrollOffset+listHeight {
		s.scrollOffset = s.selectedIdx - listHeight + 1
	}
	s.scrollOffset = max(0, min(s.scrollOffset, len(d)-listHeight))

	end := min(len(d), s.scrollOffset+listHeight)
	for i := s.scrollOffset; i < end; i++ {
		lines = append(lines, s.renderEntry(d[i], i == s.selectedIdx, innerWidth))
	}
	return style.Width(s.width).Height(s.height).Render(strings.Join(lines, "\n"))
}

func (s *Sidebar) renderEntry(e SidebarEntry, cursor bool, width int) string {
	marker := "  "
	if e.SID == s.active {
		marker = "▸ "
	}
	dot := ""
	if e.Unread {
		dot = " ●"
	}
	// Padding(0,1) takes two cells.
	avail := max(width-2-runewidth.StringWidth(marker)-runewidth.StringWidth(dot), 4)
	label := runewidth.Truncate(Sanitize(e.SID), avail, "…")

	switch {
	case cursor && s.focused:
		return SidebarSelectedStyle.Width(width).Render(marker + label + dot)
	case e.Unread:
		return SidebarUnreadStyle.Render(marker + label + SidebarUnreadDotStyle.Render(dot))
	default:
		return SidebarItemStyle.Render(marker + label)
	}
}
