package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/relaydesk/internal/relay"
)

// RelayEventMsg carries one event from the transport into the event loop.
type RelayEventMsg struct {
	Event relay.Event
}

// ConnectResultMsg reports what Connect returned. The connection outcome
// itself arrives as a lifecycle event; this is only for logging.
type ConnectResultMsg struct {
	Err error
}

// listenForRelayEvent reads exactly one event. Update re-arms it after the
// event has been dispatched, so handlers run strictly one at a time.
func listenForRelayEvent(ch <-chan relay.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return RelayEventMsg{Event: ev}
	}
}
