// Package relay speaks the chat relay's event protocol: named events with a
// JSON payload, carried one per WebSocket text frame.
package relay

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zhubert/relaydesk/internal/errors"
)

// Lifecycle signals generated locally by a Transport.
const (
	EventConnect      = "connect"
	EventConnectError = "connect_error"
	EventDisconnect   = "disconnect"
)

// Agent side of the wire.
const (
	EventAgentConnect         = "agent_connect"
	EventAgentMessage         = "agent_message"
	EventMessageToAgent       = "message_to_agent"
	EventSystemMessageToAgent = "system_message_to_agent"
)

// Visitor side of the wire.
const (
	EventClientMessage         = "client_message"
	EventMessageToClient       = "message_to_client"
	EventSystemMessageToClient = "system_message_to_client"
)

// NoticeDisconnect is the structured "type" of a session teardown notice.
const NoticeDisconnect = "disconnect"

// Event is one frame on the wire.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent encodes payload as the event's data. A nil payload produces an
// event with no data.
func NewEvent(name string, payload any) (Event, error) {
	ev := Event{Name: name}
	if payload == nil {
		return ev, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, errors.E(errors.Op("relay.NewEvent"), errors.KindProtocol, name, err)
	}
	ev.Data = data
	return ev, nil
}

// Decode unmarshals the event payload into v.
func Decode(ev Event, v any) error {
	if len(ev.Data) == 0 {
		return errors.MalformedEvent(ev.Name, "no data")
	}
	if err := json.Unmarshal(ev.Data, v); err != nil {
		return errors.MalformedEvent(ev.Name, err.Error())
	}
	return nil
}

// Lifecycle builds a local connect/connect_error/disconnect signal.
func Lifecycle(name, reason string) Event {
	ev, _ := NewEvent(name, ConnectionStatus{Reason: reason})
	return ev
}

// ConnectionStatus is the payload of the lifecycle signals.
type ConnectionStatus struct {
	Reason string `json:"reason,omitempty"`
}

// ReasonOf extracts the reason from a lifecycle signal, or "".
func ReasonOf(ev Event) string {
	var st ConnectionStatus
	if len(ev.Data) == 0 || json.Unmarshal(ev.Data, &st) != nil {
		return ""
	}
	return st.Reason
}

// AgentConnect authenticates the dashboard. It must be the first event sent
// on every connection.
type AgentConnect struct {
	AuthToken string `json:"auth_token"`
}

// AgentMessage is an agent reply addressed to one visitor session.
type AgentMessage struct {
	ClientSID string `json:"client_sid"`
	Text      string `json:"text"`
}

// MessageToAgent is a visitor message forwarded to the dashboard.
type MessageToAgent struct {
	ClientSID string `json:"client_sid"`
	Text      string `json:"text"`
	User      string `json:"user,omitempty"`
}

// Validate rejects messages that cannot be routed or displayed.
func (m MessageToAgent) Validate() error {
	if strings.TrimSpace(m.ClientSID) == "" {
		return errors.MalformedEvent(EventMessageToAgent, "missing client_sid")
	}
	if strings.TrimSpace(m.Text) == "" {
		return errors.MalformedEvent(EventMessageToAgent, "missing text")
	}
	return nil
}

// SystemNotice is a server notice. The relay sends either Text or
// SystemMessage; ClientSID is set when the notice concerns one session.
type SystemNotice struct {
	ClientSID     string `json:"client_sid,omitempty"`
	User          string `json:"user,omitempty"`
	Text          string `json:"text,omitempty"`
	SystemMessage string `json:"system_message,omitempty"`
	Type          string `json:"type,omitempty"`
}

// Body returns whichever of Text or SystemMessage is set.
func (n SystemNotice) Body() string {
	if n.Text != "" {
		return n.Text
	}
	return n.SystemMessage
}

// IsDisconnect reports whether the notice tears down ClientSID's session.
// A structured type of "disconnect" is authoritative; otherwise the notice
// text must contain the word "disconnected". Notices without a session id
// never tear anything down.
func (n SystemNotice) IsDisconnect() bool {
	if strings.TrimSpace(n.ClientSID) == "" {
		return false
	}
	if n.Type != "" {
		return strings.EqualFold(n.Type, NoticeDisconnect)
	}
	return containsWord(strings.ToLower(n.Body()), "disconnected")
}

// IsUndeliverable reports whether the notice is the relay rejecting a reply
// because ClientSID is already gone ("Client X is no longer connected.").
func (n SystemNotice) IsUndeliverable() bool {
	return strings.Contains(strings.ToLower(n.Body()), "no longer connected")
}

func containsWord(s, word string) bool {
	for _, f := range strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' || r == '-')
	}) {
		if f == word {
			return true
		}
	}
	return false
}

// ClientMessage is a visitor message bound for the agent.
type ClientMessage struct {
	Text string `json:"text"`
}

// MessageToClient is delivered to the visitor widget, either an agent reply
// or a system line.
type MessageToClient struct {
	User          string `json:"user,omitempty"`
	Text          string `json:"text,omitempty"`
	SystemMessage string `json:"system_message,omitempty"`
}

// Body returns whichever of Text or SystemMessage is set.
func (m MessageToClient) Body() string {
	if m.Text != "" {
		return m.Text
	}
	return m.SystemMessage
}

// String omits the payload, which may carry credentials.
func (e Event) String() string {
	return fmt.Sprintf("%s (%d bytes)", e.Name, len(e.Data))
}
