package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/relaydesk/internal/config"
	"github.com/zhubert/relaydesk/internal/keys"
	"github.com/zhubert/relaydesk/internal/relay"
	"github.com/zhubert/relaydesk/internal/relay/relaytest"
)

// testConfig creates a config that never touches disk.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.SetAuthToken("test-token")
	return cfg
}

// testModel creates a Model over an in-memory transport.
func testModel(cfg *config.Config) (*Model, *relaytest.Transport) {
	tr := relaytest.NewTransport()
	m := New(cfg, tr, "0.0.0-test")
	m.copyText = func(string) error { return nil }
	m.notify = func(string, string) error { return nil }
	return m, tr
}

// testModelWithSize creates a test Model and sets its size.
func testModelWithSize(cfg *config.Config, width, height int) (*Model, *relaytest.Transport) {
	m, tr := testModel(cfg)
	m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return m, tr
}

// connectedModel returns a sized model that has seen a connect signal.
func connectedModel(t *testing.T) (*Model, *relaytest.Transport) {
	t.Helper()
	m, tr := testModelWithSize(testConfig(), 120, 40)
	tr.SetConnected(true)
	deliver(m, relay.Lifecycle(relay.EventConnect, ""))
	if !m.Connected() {
		t.Fatal("model did not register the connection")
	}
	return m, tr
}

// keyPress creates a tea.KeyPressMsg for the given key string.
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.Tab:
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case keys.Escape:
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case keys.Home:
		return tea.KeyPressMsg{Code: tea.KeyHome}
	case keys.CtrlC:
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case keys.CtrlR:
		return tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}
	case keys.CtrlY:
		return tea.KeyPressMsg{Code: 'y', Mod: tea.ModCtrl}
	default:
		if len(key) == 1 {
			return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
		}
		return tea.KeyPressMsg{Text: key}
	}
}

// sendKey sends a key press to the model and returns the resulting command.
func sendKey(m *Model, key string) tea.Cmd {
	_, cmd := m.Update(keyPress(key))
	return cmd
}

// deliver runs one relay event through Update, as the listener would.
func deliver(m *Model, ev relay.Event) tea.Cmd {
	_, cmd := m.Update(RelayEventMsg{Event: ev})
	return cmd
}

func visitorSays(m *Model, sid, text string) {
	deliver(m, relaytest.Event(relay.EventMessageToAgent, relay.MessageToAgent{ClientSID: sid, Text: text, User: "Client"}))
}

func notice(m *Model, sid, text string) {
	deliver(m, relaytest.Event(relay.EventSystemMessageToAgent, relay.SystemNotice{ClientSID: sid, Text: text}))
}

// selectSID moves the sidebar cursor to sid and opens it.
func selectSID(t *testing.T, m *Model, sid string) {
	t.Helper()
	m.setFocus(FocusSidebar)
	sendKey(m, keys.Home)
	for i := 0; i < m.store.Len() && m.sidebar.SelectedSID() != sid; i++ {
		sendKey(m, keys.Down)
	}
	if m.sidebar.SelectedSID() != sid {
		t.Fatalf("sidebar has no entry %q", sid)
	}
	sendKey(m, keys.Enter)
	if m.store.Active() != sid {
		t.Fatalf("active = %q, want %q", m.store.Active(), sid)
	}
}

// reply types text into the open conversation and presses enter.
func reply(m *Model, text string) tea.Cmd {
	m.chat.SetInput(text)
	return sendKey(m, keys.Enter)
}
