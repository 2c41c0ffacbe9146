// Package relaytest provides relay doubles for tests: an in-memory
// Transport and a WebSocket relay served by httptest.
package relaytest

import (
	"context"
	"sync"

	"github.com/zhubert/relaydesk/internal/errors"
	"github.com/zhubert/relaydesk/internal/relay"
)

// Transport is an in-memory relay.Transport. It records everything emitted
// and lets tests inject inbound events.
type Transport struct {
	mu        sync.Mutex
	events    chan relay.Event
	emitted   []relay.Event
	connected bool
	connects  int
	closed    bool

	// ConnectErr, when set, makes Connect fail with a connect_error signal.
	ConnectErr error
}

var _ relay.Transport = (*Transport)(nil)

func NewTransport() *Transport {
	return &Transport{events: make(chan relay.Event, 1024)}
}

func (t *Transport) Connect(context.Context) error {
	t.mu.Lock()
	t.connects++
	err := t.ConnectErr
	t.connected = err == nil
	t.mu.Unlock()

	if err != nil {
		t.Push(relay.Lifecycle(relay.EventConnectError, err.Error()))
		return errors.ConnectFailed("relaytest", err)
	}
	t.Push(relay.Lifecycle(relay.EventConnect, ""))
	return nil
}

func (t *Transport) Emit(name string, payload any) error {
	ev, err := relay.NewEvent(name, payload)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return errors.NotConnected("relay.Emit")
	}
	t.emitted = append(t.emitted, ev)
	return nil
}

func (t *Transport) Events() <-chan relay.Event { return t.events }

func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.connected = false
	return nil
}

// SetConnected flips the connection state without producing a signal.
func (t *Transport) SetConnected(v bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = v
}

// Drop simulates the relay going away.
func (t *Transport) Drop(reason string) {
	t.SetConnected(false)
	t.Push(relay.Lifecycle(relay.EventDisconnect, reason))
}

// Push queues an inbound event.
func (t *Transport) Push(ev relay.Event) {
	t.events <- ev
}

// Emitted returns a copy of every event emitted so far.
func (t *Transport) Emitted() []relay.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]relay.Event, len(t.emitted))
	copy(out, t.emitted)
	return out
}

// EmittedNamed returns the emitted events called name.
func (t *Transport) EmittedNamed(name string) []relay.Event {
	var out []relay.Event
	for _, ev := range t.Emitted() {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

// Connects is the number of Connect calls.
func (t *Transport) Connects() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connects
}

func (t *Transport) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Drain discards queued inbound events.
func (t *Transport) Drain() {
	for {
		select {
		case <-t.events:
		default:
			return
		}
	}
}

// Event builds an event or fails the process; for test fixtures only.
func Event(name string, payload any) relay.Event {
	ev, err := relay.NewEvent(name, payload)
	if err != nil {
		panic(err)
	}
	return ev
}
