// Package app is the agent dashboard: a Bubble Tea model that multiplexes
// every visitor conversation arriving over one relay connection.
package app

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/relaydesk/internal/clipboard"
	"github.com/zhubert/relaydesk/internal/config"
	"github.com/zhubert/relaydesk/internal/conversation"
	"github.com/zhubert/relaydesk/internal/keys"
	"github.com/zhubert/relaydesk/internal/logger"
	"github.com/zhubert/relaydesk/internal/notification"
	"github.com/zhubert/relaydesk/internal/relay"
	"github.com/zhubert/relaydesk/internal/ui"
)

// Focus represents which panel is focused
type Focus int

const (
	FocusSidebar Focus = iota
	FocusChat
)

func (f Focus) String() string {
	if f == FocusChat {
		return "chat"
	}
	return "sidebar"
}

// Model is the dashboard's Bubble Tea model. It owns the conversation store;
// every mutation happens inside Update.
type Model struct {
	config  *config.Config
	version string

	header  *ui.Header
	footer  *ui.Footer
	sidebar *ui.Sidebar
	chat    *ui.Chat
	syslog  *ui.SystemLog

	store      *conversation.Store
	transport  relay.Transport
	dispatcher *relay.Dispatcher[tea.Cmd]
	connected  bool
	connecting bool

	width  int
	height int
	focus  Focus

	ctx    context.Context
	cancel context.CancelFunc

	// Swappable for tests.
	copyText func(string) error
	notify   func(sid, text string) error
}

// New creates the dashboard. It does not connect; Init does.
func New(cfg *config.Config, transport relay.Transport, version string) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		config:     cfg,
		version:    version,
		header:     ui.NewHeader("relaydesk"),
		footer:     ui.NewFooter(),
		sidebar:    ui.NewSidebar(),
		chat:       ui.NewChat(),
		syslog:     ui.NewSystemLog(),
		store:      conversation.NewStore(),
		transport:  transport,
		dispatcher: relay.NewDispatcher[tea.Cmd](),
		focus:      FocusSidebar,
		ctx:        ctx,
		cancel:     cancel,
		copyText:   clipboard.WriteText,
		notify:     notification.VisitorMessage,
	}
	m.registerHandlers()
	m.sidebar.SetFocused(true)
	m.chat.SetInputEnabled(false)
	m.refreshSidebar()
	return m
}

// Init connects to the relay and starts listening for its events.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.connect(),
		listenForRelayEvent(m.transport.Events()),
	)
}

// Connected reports whether the relay connection is up.
func (m *Model) Connected() bool { return m.connected }

// Store exposes the conversation store, read-only by convention.
func (m *Model) Store() *conversation.Store { return m.store }

// Shutdown cancels any pending dial and closes the transport.
func (m *Model) Shutdown() {
	m.cancel()
	if err := m.transport.Close(); err != nil {
		logger.Warn("App: closing transport: %v", err)
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.PasteMsg:
		if m.focus == FocusChat {
			_, cmd := m.chat.Update(msg)
			return m, cmd
		}

	case RelayEventMsg:
		cmds = append(cmds, m.handleRelayEvent(msg.Event)...)
		cmds = append(cmds, listenForRelayEvent(m.transport.Events()))

	case ConnectResultMsg:
		m.connecting = false
		if msg.Err != nil {
			logger.Debug("App: connect returned: %v", msg.Err)
		}

	case ui.FlashTickMsg:
		if m.footer.HasFlash() {
			if !m.footer.ClearIfExpired() {
				cmds = append(cmds, ui.FlashTick())
			}
		}

	default:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == keys.CtrlC {
		m.Shutdown()
		return m, tea.Quit
	}

	if m.focus == FocusSidebar && m.sidebar.IsSearchMode() {
		wasEnter := key == keys.Enter
		_, cmd := m.sidebar.Update(msg)
		if wasEnter {
			return m, tea.Batch(cmd, m.openSelected())
		}
		return m, cmd
	}

	switch key {
	case keys.Tab, keys.ShiftTab:
		m.toggleFocus()
		return m, nil
	case keys.CtrlR:
		return m, m.reconnect()
	}

	if m.focus == FocusChat {
		switch key {
		case keys.Enter:
			return m, m.sendMessage()
		case keys.Escape:
			m.toggleFocus()
			return m, nil
		case keys.ShiftEnter, keys.AltEnter:
			m.chat.SetInput(m.chat.GetInput() + "\n")
			return m, nil
		case keys.CtrlY:
			return m, m.copyTranscript()
		}
		_, cmd := m.chat.Update(msg)
		return m, cmd
	}

	switch key {
	case "q":
		m.Shutdown()
		return m, tea.Quit
	case keys.Enter:
		return m, m.openSelected()
	case "/":
		return m, m.sidebar.EnterSearchMode()
	case keys.Escape:
		m.sidebar.ExitSearchMode()
		return m, nil
	case "y":
		return m, m.copyTranscript()
	case keys.PgUp, keys.PgDown:
		_, cmd := m.chat.Update(msg)
		return m, cmd
	}

	_, cmd := m.sidebar.Update(msg)
	return m, cmd
}

// connect dials the relay off the event loop. The transport reports the
// outcome as a connect or connect_error event.
func (m *Model) connect() tea.Cmd {
	m.connecting = true
	m.header.SetConnection(ui.ConnConnecting, "")
	t, ctx := m.transport, m.ctx
	return func() tea.Msg {
		return ConnectResultMsg{Err: t.Connect(ctx)}
	}
}

func (m *Model) reconnect() tea.Cmd {
	switch {
	case m.connected:
		return m.flash(ui.FlashInfo, flashAlreadyUp)
	case m.connecting:
		return m.flash(ui.FlashInfo, flashStillConnecting)
	}
	logger.Info("App: manual reconnect to %s", m.config.GetServerAddress())
	return m.connect()
}

func (m *Model) copyTranscript() tea.Cmd {
	conv, ok := m.store.ActiveConversation()
	if !ok {
		return m.flash(ui.FlashWarning, flashNoConversation)
	}
	if err := m.copyText(conv.Transcript()); err != nil {
		logger.Warn("App: copy transcript for %s: %v", conv.SID(), err)
		return m.flash(ui.FlashError, flashCopyFailed)
	}
	return m.flash(ui.FlashSuccess, flashCopied)
}
