// Package visitor is the end-user side of the relay: one conversation with
// whichever agent picks it up.
package visitor

import (
	"context"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/relaydesk/internal/config"
	"github.com/zhubert/relaydesk/internal/conversation"
	"github.com/zhubert/relaydesk/internal/errors"
	"github.com/zhubert/relaydesk/internal/keys"
	"github.com/zhubert/relaydesk/internal/logger"
	"github.com/zhubert/relaydesk/internal/relay"
	"github.com/zhubert/relaydesk/internal/ui"
)

// sessionLabel stands in for the sid the relay assigns; the visitor never
// learns its own.
const sessionLabel = "support"

// EventMsg carries one relay event into the event loop.
type EventMsg struct {
	Event relay.Event
}

type connectResultMsg struct {
	err error
}

// Model is the visitor widget.
type Model struct {
	config *config.Config

	header *ui.Header
	footer *ui.Footer
	chat   *ui.Chat

	conv       *conversation.Conversation
	transport  relay.Transport
	dispatcher *relay.Dispatcher[tea.Cmd]
	connected  bool
	connecting bool
	log        *slog.Logger

	width  int
	height int

	ctx    context.Context
	cancel context.CancelFunc
}

func New(cfg *config.Config, transport relay.Transport) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		config:     cfg,
		header:     ui.NewHeader("relaydesk support"),
		footer:     ui.NewFooter(),
		chat:       ui.NewChat(),
		conv:       conversation.New(sessionLabel),
		transport:  transport,
		dispatcher: relay.NewDispatcher[tea.Cmd](),
		log:        logger.ComponentLogger("visitor"),
		ctx:        ctx,
		cancel:     cancel,
	}
	m.footer.SetBindings([]ui.KeyBinding{
		{Key: "enter", Desc: "send"},
		{Key: "pgup/dn", Desc: "scroll"},
		{Key: "ctrl+r", Desc: "reconnect"},
		{Key: "esc", Desc: "quit"},
	})
	m.chat.SetTitle("Support chat")
	m.chat.SetFocused(true)
	m.chat.SetInputEnabled(false)
	m.chat.ShowPlaceholder("Connecting...")

	m.dispatcher.On(relay.EventConnect, m.onConnect)
	m.dispatcher.On(relay.EventConnectError, m.onConnectionLost)
	m.dispatcher.On(relay.EventDisconnect, m.onConnectionLost)
	m.dispatcher.On(relay.EventMessageToClient, m.onMessage)
	m.dispatcher.On(relay.EventSystemMessageToClient, m.onSystemMessage)
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.connect(), listen(m.transport.Events()))
}

// Connected reports whether the relay connection is up.
func (m *Model) Connected() bool { return m.connected }

// Conversation is the visitor's single conversation.
func (m *Model) Conversation() *conversation.Conversation { return m.conv }

// Shutdown cancels any pending dial and closes the transport.
func (m *Model) Shutdown() {
	m.cancel()
	if err := m.transport.Close(); err != nil {
		m.log.Warn("closing transport", "error", err)
	}
}

func listen(ch <-chan relay.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return EventMsg{Event: ev}
	}
}

func (m *Model) connect() tea.Cmd {
	m.connecting = true
	m.header.SetConnection(ui.ConnConnecting, "")
	t, ctx := m.transport, m.ctx
	return func() tea.Msg {
		return connectResultMsg{err: t.Connect(ctx)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		ctx := ui.GetViewContext()
		ctx.UpdateTerminalSize(msg.Width, msg.Height)
		m.header.SetWidth(ctx.TerminalWidth)
		m.footer.SetWidth(ctx.TerminalWidth)
		m.chat.SetSize(ctx.TerminalWidth, ctx.ContentHeight)

	case tea.KeyPressMsg:
		switch msg.String() {
		case keys.CtrlC, keys.Escape:
			m.Shutdown()
			return m, tea.Quit
		case keys.Enter:
			return m, m.send()
		case keys.ShiftEnter, keys.AltEnter:
			m.chat.SetInput(m.chat.GetInput() + "\n")
			return m, nil
		case keys.CtrlR:
			if m.connected || m.connecting {
				return m, nil
			}
			return m, m.connect()
		}
		_, cmd := m.chat.Update(msg)
		cmds = append(cmds, cmd)

	case EventMsg:
		cmds = append(cmds, m.dispatcher.Dispatch(msg.Event)...)
		cmds = append(cmds, listen(m.transport.Events()))

	case connectResultMsg:
		m.connecting = false
		if msg.err != nil {
			m.log.Debug("connect returned", "error", msg.err)
		}

	case ui.FlashTickMsg:
		if m.footer.HasFlash() && !m.footer.ClearIfExpired() {
			cmds = append(cmds, ui.FlashTick())
		}

	default:
		_, cmd := m.chat.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// onConnect starts a fresh transcript; the relay treats every connection as
// a new visitor.
func (m *Model) onConnect(relay.Event) tea.Cmd {
	m.log.Info("connected", "server", m.config.GetServerAddress())
	m.connected = true
	m.connecting = false
	m.header.SetConnection(ui.ConnConnected, "")
	m.conv.Clear()
	m.chat.Replay(sessionLabel, nil)
	m.chat.SetInputEnabled(true)
	return nil
}

func (m *Model) onConnectionLost(ev relay.Event) tea.Cmd {
	reason := relay.ReasonOf(ev)
	m.log.Warn("connection lost", "event", ev.Name, "reason", reason)
	m.connected = false
	if ev.Name == relay.EventConnectError {
		m.connecting = false
	}
	state := ui.ConnDisconnected
	if ev.Name == relay.EventConnectError {
		state = ui.ConnFailed
	}
	m.header.SetConnection(state, reason)
	m.chat.SetInputEnabled(false)
	return nil
}

func (m *Model) onMessage(ev relay.Event) tea.Cmd {
	var p relay.MessageToClient
	if err := relay.Decode(ev, &p); err != nil {
		m.log.Warn("dropping message", "error", err)
		return nil
	}
	author := conversation.AuthorFromWire(p.User)
	if p.Text == "" && p.SystemMessage != "" {
		author = conversation.System
	}
	m.appendMessage(ev.Name, author, p.Body())
	return nil
}

func (m *Model) onSystemMessage(ev relay.Event) tea.Cmd {
	var p relay.MessageToClient
	if err := relay.Decode(ev, &p); err != nil {
		m.log.Warn("dropping system message", "error", err)
		return nil
	}
	m.appendMessage(ev.Name, conversation.System, p.Body())
	return nil
}

func (m *Model) appendMessage(event string, author conversation.Author, text string) {
	if strings.TrimSpace(text) == "" {
		m.log.Warn("dropping message", "error", errors.MalformedEvent(event, "missing text"))
		return
	}
	msg := conversation.NewMessage(author, text)
	m.conv.Append(msg)
	m.chat.Append(msg)
}

// send emits the typed text and echoes it without waiting for the relay.
func (m *Model) send() tea.Cmd {
	text := strings.TrimSpace(m.chat.GetInput())
	if text == "" {
		return nil
	}
	if !m.connected {
		m.footer.SetFlash("Not connected to support", ui.FlashWarning)
		return ui.FlashTick()
	}
	if err := m.transport.Emit(relay.EventClientMessage, relay.ClientMessage{Text: text}); err != nil {
		m.log.Warn("send failed", "error", err)
		m.footer.SetFlash("Message not sent, try again", ui.FlashError)
		return ui.FlashTick()
	}
	msg := conversation.NewMessage(conversation.Visitor, text)
	m.conv.Append(msg)
	m.chat.Append(msg)
	m.chat.ClearInput()
	return nil
}

func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.SetContent(m.RenderToString())
	return v
}

// RenderToString renders the current frame as a string.
func (m *Model) RenderToString() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	m.footer.SetContext(ui.FooterContext{
		SidebarFocused: true,
		HasActive:      true,
		Connected:      m.connected,
	})
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.chat.View(),
		m.footer.View(),
	)
}
