package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/relaydesk/internal/conversation"
	"github.com/zhubert/relaydesk/internal/errors"
	"github.com/zhubert/relaydesk/internal/logger"
	"github.com/zhubert/relaydesk/internal/relay"
	"github.com/zhubert/relaydesk/internal/ui"
)

const disconnectedPlaceholder = "Visitor disconnected. Select another conversation."

func (m *Model) registerHandlers() {
	m.dispatcher.On(relay.EventConnect, m.onConnect)
	m.dispatcher.On(relay.EventConnectError, m.onConnectError)
	m.dispatcher.On(relay.EventDisconnect, m.onDisconnect)
	m.dispatcher.On(relay.EventMessageToAgent, m.onMessageToAgent)
	m.dispatcher.On(relay.EventSystemMessageToAgent, m.onSystemNotice)
}

func (m *Model) handleRelayEvent(ev relay.Event) []tea.Cmd {
	logger.Debug("App: relay event %s", ev)
	return m.dispatcher.Dispatch(ev)
}

// onConnect starts over: nothing from a previous connection survives.
func (m *Model) onConnect(relay.Event) tea.Cmd {
	logger.Info("App: connected to %s", m.config.GetServerAddress())
	m.connected = true
	m.connecting = false
	m.header.SetConnection(ui.ConnConnected, "")

	m.store.Reset()
	m.chat.ShowPlaceholder("Waiting for visitors...")
	m.chat.SetTitle("")
	m.chat.SetInputEnabled(false)
	m.setFocus(FocusSidebar)
	m.refreshSidebar()

	if m.config.GetAuthToken() == "" {
		logger.Warn("App: no agent auth token configured, the relay may reject this connection")
	}
	err := m.transport.Emit(relay.EventAgentConnect, relay.AgentConnect{AuthToken: m.config.GetAuthToken()})
	if err != nil {
		// Without agent_connect the relay never routes visitors here.
		logger.Error("App: sending agent_connect: %v", err)
		m.connected = false
		m.header.SetConnection(ui.ConnFailed, "could not authenticate")
		m.syslog.Add(flashAuthFailed)
		return m.flash(ui.FlashError, flashAuthFailed)
	}
	m.syslog.Add("Connected to relay")
	return nil
}

func (m *Model) onConnectError(ev relay.Event) tea.Cmd {
	reason := relay.ReasonOf(ev)
	logger.Warn("App: connect failed: %s", reason)
	m.connected = false
	m.connecting = false
	m.header.SetConnection(ui.ConnFailed, reason)
	m.store.Invalidate()
	m.chat.SetInputEnabled(false)
	return nil
}

func (m *Model) onDisconnect(ev relay.Event) tea.Cmd {
	reason := relay.ReasonOf(ev)
	logger.Warn("App: disconnected: %s", reason)
	m.connected = false
	m.header.SetConnection(ui.ConnDisconnected, reason)
	m.store.Invalidate()
	m.chat.SetInputEnabled(false)
	m.syslog.Add("Lost connection to relay")
	return nil
}

// onMessageToAgent stores a visitor message and shows it if its
// conversation is open; otherwise the list entry is flagged unread.
func (m *Model) onMessageToAgent(ev relay.Event) tea.Cmd {
	var p relay.MessageToAgent
	if err := relay.Decode(ev, &p); err != nil {
		logger.Warn("App: dropping message_to_agent: %v", err)
		return nil
	}
	if err := p.Validate(); err != nil {
		logger.Warn("App: dropping message_to_agent: %v", err)
		return nil
	}

	msg := conversation.NewMessage(conversation.AuthorFromWire(p.User), p.Text)
	m.store.Append(p.ClientSID, msg)
	logger.WithSID(p.ClientSID).Debug("message routed", "author", msg.Author.String(), "active", p.ClientSID == m.store.Active())

	if p.ClientSID == m.store.Active() {
		m.chat.Append(msg)
	} else if m.config.GetNotificationsEnabled() && msg.Author == conversation.Visitor {
		if err := m.notify(p.ClientSID, p.Text); err != nil {
			logger.Debug("App: notification failed: %v", err)
		}
	}
	m.refreshSidebar()
	return nil
}

// onSystemNotice logs a server notice. A disconnect notice also tears the
// visitor's conversation down.
func (m *Model) onSystemNotice(ev relay.Event) tea.Cmd {
	var n relay.SystemNotice
	if err := relay.Decode(ev, &n); err != nil {
		logger.Warn("App: dropping system notice: %v", err)
		return nil
	}
	body := strings.TrimSpace(n.Body())
	if body == "" && !n.IsDisconnect() {
		logger.Warn("App: dropping system notice: %v", errors.MalformedEvent(ev.Name, "missing text"))
		return nil
	}
	if body != "" {
		m.syslog.Add(body)
	}

	switch {
	case n.IsDisconnect():
		log := logger.WithSID(n.ClientSID)
		if m.store.Remove(n.ClientSID) {
			log.Info("active conversation ended")
			m.chat.ShowPlaceholder(disconnectedPlaceholder)
			m.chat.SetTitle("")
			m.chat.SetInputEnabled(false)
			m.setFocus(FocusSidebar)
		} else {
			log.Info("conversation ended")
		}
	case n.ClientSID == "":
	case n.IsUndeliverable() && !m.store.Has(n.ClientSID):
		// Arrives after the disconnect notice; the session will never be torn
		// down again, so don't bring it back.
		logger.WithSID(n.ClientSID).Debug("ignoring notice for ended conversation")
	default:
		m.store.Ensure(n.ClientSID)
	}
	m.refreshSidebar()
	return nil
}

// sendMessage emits the typed reply for the active conversation and echoes
// it locally. Rejected sends change nothing.
func (m *Model) sendMessage() tea.Cmd {
	text := strings.TrimSpace(m.chat.GetInput())
	if text == "" {
		return nil
	}

	sid := m.store.Active()
	if sid == "" {
		return m.rejectSend(errors.NoActiveConversation())
	}
	if !m.connected {
		return m.rejectSend(errors.NotConnected("app.Send"))
	}
	if err := m.transport.Emit(relay.EventAgentMessage, relay.AgentMessage{ClientSID: sid, Text: text}); err != nil {
		return m.rejectSend(err)
	}

	msg := conversation.NewMessage(conversation.Agent, text)
	m.store.Append(sid, msg)
	m.store.SaveDraft(sid, "")
	m.chat.Append(msg)
	m.chat.ClearInput()
	m.refreshSidebar()
	return nil
}
