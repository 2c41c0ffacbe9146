package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/relaydesk/internal/ui"
)

// updateSizes recalculates and applies dimensions to all UI components
func (m *Model) updateSizes() {
	ctx := ui.GetViewContext()
	ctx.UpdateTerminalSize(m.width, m.height)

	m.header.SetWidth(ctx.TerminalWidth)
	m.footer.SetWidth(ctx.TerminalWidth)
	m.sidebar.SetSize(ctx.SidebarWidth, ctx.ListHeight)
	m.syslog.SetSize(ctx.SidebarWidth, ui.SystemLogHeight)
	m.chat.SetSize(ctx.ChatWidth, ctx.ContentHeight)
}

// View renders the app
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.SetContent(m.RenderToString())
	return v
}

// RenderToString renders the current frame as a string.
func (m *Model) RenderToString() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	m.footer.SetContext(ui.FooterContext{
		SidebarFocused: m.focus == FocusSidebar,
		HasActive:      m.store.Active() != "",
		InputEnabled:   m.chat.InputEnabled(),
		Connected:      m.connected,
	})

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.sidebar.View(),
		m.syslog.View(),
	)
	panels := lipgloss.JoinHorizontal(lipgloss.Top, left, m.chat.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		panels,
		m.footer.View(),
	)
}
