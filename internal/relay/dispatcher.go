package relay

import "github.com/zhubert/relaydesk/internal/logger"

// HandlerFunc reacts to one event and returns a follow-up value, typically a
// command for the UI loop.
type HandlerFunc[R any] func(Event) R

// Dispatcher routes events to handlers registered by name. Handlers run
// synchronously on the caller's goroutine in registration order, so a
// single event loop calling Dispatch never runs two handlers at once.
type Dispatcher[R any] struct {
	handlers map[string][]HandlerFunc[R]
}

func NewDispatcher[R any]() *Dispatcher[R] {
	return &Dispatcher[R]{handlers: make(map[string][]HandlerFunc[R])}
}

// On registers h for events named name.
func (d *Dispatcher[R]) On(name string, h HandlerFunc[R]) {
	d.handlers[name] = append(d.handlers[name], h)
}

// Handles reports whether any handler is registered for name.
func (d *Dispatcher[R]) Handles(name string) bool {
	return len(d.handlers[name]) > 0
}

// Dispatch runs every handler for ev.Name and collects their results.
// Events nobody registered for are logged and dropped.
func (d *Dispatcher[R]) Dispatch(ev Event) []R {
	hs := d.handlers[ev.Name]
	if len(hs) == 0 {
		logger.ComponentLogger("relay").Debug("dropping unhandled event", "event", ev.Name)
		return nil
	}
	out := make([]R, 0, len(hs))
	for _, h := range hs {
		out = append(out, h(ev))
	}
	return out
}
