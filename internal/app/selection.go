package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/relaydesk/internal/logger"
	"github.com/zhubert/relaydesk/internal/ui"
)

// selectConversation makes sid the open conversation and redraws the pane
// from its full history. Selecting the open conversation or an unknown sid
// does nothing.
func (m *Model) selectConversation(sid string) {
	if sid == "" || sid == m.store.Active() || !m.store.Has(sid) {
		return
	}

	if prev := m.store.Active(); prev != "" {
		m.store.SaveDraft(prev, m.chat.GetInput())
	}
	m.store.SetActive(sid)

	conv, _ := m.store.Get(sid)
	m.chat.Replay(sid, conv.Messages())
	m.chat.SetTitle("Conversation " + ui.Sanitize(sid))
	m.chat.SetInput(m.store.Draft(sid))
	m.chat.SetInputEnabled(m.connected && !m.store.Stale())
	m.refreshSidebar()

	logger.WithSID(sid).Debug("conversation selected", "messages", conv.Len())
}

// openSelected selects the entry under the sidebar cursor and moves focus
// to the chat pane.
func (m *Model) openSelected() tea.Cmd {
	sid := m.sidebar.SelectedSID()
	if sid == "" {
		return nil
	}
	m.selectConversation(sid)
	if m.store.Active() == sid {
		m.setFocus(FocusChat)
	}
	return nil
}

// toggleFocus switches panes. The chat pane needs an open conversation.
func (m *Model) toggleFocus() {
	if m.focus == FocusSidebar {
		m.setFocus(FocusChat)
	} else {
		m.setFocus(FocusSidebar)
	}
}

func (m *Model) setFocus(f Focus) {
	if f == FocusChat && m.store.Active() == "" {
		return
	}
	m.focus = f
	m.sidebar.SetFocused(f == FocusSidebar)
	m.chat.SetFocused(f == FocusChat)
}

// refreshSidebar re-projects the store onto the list and header.
func (m *Model) refreshSidebar() {
	entries := make([]ui.SidebarEntry, 0, m.store.Len())
	for sid := range m.store.SIDs() {
		conv, ok := m.store.Get(sid)
		if !ok {
			continue
		}
		e := ui.SidebarEntry{SID: sid, Unread: conv.HasUnread()}
		if last, ok := conv.Last(); ok {
			e.Preview = last.Text
		}
		entries = append(entries, e)
	}
	m.sidebar.SetEntries(entries)
	m.sidebar.SetActive(m.store.Active())
	m.header.SetCounts(m.store.Len(), m.store.UnreadCount())
}
