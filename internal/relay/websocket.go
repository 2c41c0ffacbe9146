package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"

	"github.com/zhubert/relaydesk/internal/errors"
	"github.com/zhubert/relaydesk/internal/logger"
)

// Transport is a connection to the relay. Inbound events and lifecycle
// signals arrive, in order, on Events. Emit is fire-and-forget: a nil error
// means the event was queued, not that the relay received it.
type Transport interface {
	Connect(ctx context.Context) error
	Emit(name string, payload any) error
	Events() <-chan Event
	Close() error
}

const (
	defaultDialTimeout  = 15 * time.Second
	defaultQueueSize    = 64
	defaultPingInterval = 20 * time.Second
	pingTimeout         = 5 * time.Second
	writeTimeout        = 10 * time.Second
	maxFrameBytes       = 1 << 20
	eventBuffer         = 256
)

// Option configures a WebSocket.
type Option func(*WebSocket)

// WithHeader adds HTTP headers to the upgrade request.
func WithHeader(h http.Header) Option {
	return func(w *WebSocket) { w.header = h.Clone() }
}

func WithDialTimeout(d time.Duration) Option {
	return func(w *WebSocket) { w.dialTimeout = d }
}

// WithQueueSize bounds the number of outbound events waiting to be written.
func WithQueueSize(n int) Option {
	return func(w *WebSocket) { w.queueSize = n }
}

// WithPingInterval sets the keepalive period. Zero disables pings.
func WithPingInterval(d time.Duration) Option {
	return func(w *WebSocket) { w.pingInterval = d }
}

// WebSocket is a Transport over a single WebSocket connection. Calling
// Connect again replaces the current connection; the old one is closed
// without producing a disconnect signal.
type WebSocket struct {
	url          string
	header       http.Header
	dialTimeout  time.Duration
	queueSize    int
	pingInterval time.Duration

	events chan Event
	done   chan struct{}
	log    *slog.Logger

	// dialMu serializes Connect so only one dial is in flight.
	dialMu sync.Mutex

	mu     sync.Mutex
	conn   *websocket.Conn
	out    chan []byte
	cancel context.CancelFunc
	gen    uint64
	closed bool
}

// NewWebSocket returns an unconnected transport for the ws:// or wss:// url.
func NewWebSocket(url string, opts ...Option) *WebSocket {
	w := &WebSocket{
		url:          url,
		header:       http.Header{},
		dialTimeout:  defaultDialTimeout,
		queueSize:    defaultQueueSize,
		pingInterval: defaultPingInterval,
		events:       make(chan Event, eventBuffer),
		done:         make(chan struct{}),
		log:          logger.ComponentLogger("relay"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *WebSocket) Events() <-chan Event { return w.events }

// Connect dials the relay. On success a connect signal is delivered before
// any inbound event; on failure a connect_error signal is delivered and the
// error is returned. Overlapping calls run one after another, and each
// successful one supersedes the connection before it.
func (w *WebSocket) Connect(ctx context.Context) error {
	w.dialMu.Lock()
	defer w.dialMu.Unlock()

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return errors.E(errors.Op("relay.Connect"), errors.KindState, "transport closed")
	}
	w.dropLocked("reconnecting")
	w.mu.Unlock()

	w.log.Info("connecting", "url", w.url)
	dialCtx, cancel := context.WithTimeout(ctx, w.dialTimeout)
	conn, _, err := websocket.Dial(dialCtx, w.url, &websocket.DialOptions{HTTPHeader: w.header})
	cancel()
	if err != nil {
		w.log.Warn("connect failed", "url", w.url, "error", err)
		w.deliver(Lifecycle(EventConnectError, err.Error()))
		return errors.ConnectFailed(w.url, err)
	}
	conn.SetReadLimit(maxFrameBytes)

	connCtx, connCancel := context.WithCancel(context.Background())
	out := make(chan []byte, w.queueSize)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		connCancel()
		go conn.Close(websocket.StatusNormalClosure, "client closed")
		return errors.E(errors.Op("relay.Connect"), errors.KindState, "transport closed")
	}
	w.dropLocked("superseded")
	w.gen++
	gen := w.gen
	w.conn, w.out, w.cancel = conn, out, connCancel
	w.mu.Unlock()

	w.log.Info("connected", "url", w.url)
	w.deliver(Lifecycle(EventConnect, ""))

	go w.readLoop(connCtx, conn, gen)
	go w.writeLoop(connCtx, conn, out)
	if w.pingInterval > 0 {
		go w.pingLoop(connCtx, conn)
	}
	return nil
}

// Emit queues a named event for the writer. It fails immediately when there
// is no connection or the outbound queue is full.
func (w *WebSocket) Emit(name string, payload any) error {
	ev, err := NewEvent(name, payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(ev)
	if err != nil {
		return errors.E(errors.Op("relay.Emit"), errors.KindProtocol, name, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		return errors.NotConnected("relay.Emit")
	}
	select {
	case w.out <- frame:
		w.log.Debug("queued event", "event", name)
		return nil
	default:
		return errors.SendQueueFull(name)
	}
}

// Close shuts the transport down for good.
func (w *WebSocket) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	close(w.done)
	w.dropLocked("client closed")
	return nil
}

// Connected reports whether a connection is currently up.
func (w *WebSocket) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn != nil
}

// dropLocked abandons the current connection. Bumping gen keeps its read
// loop from reporting a disconnect. Must be called with mu held.
func (w *WebSocket) dropLocked(reason string) {
	if w.conn == nil {
		return
	}
	conn := w.conn
	w.cancel()
	w.conn, w.out, w.cancel = nil, nil, nil
	w.gen++
	// Close waits for the peer's close frame; don't hold the lock for it.
	go conn.Close(websocket.StatusNormalClosure, reason)
}

func (w *WebSocket) deliver(ev Event) {
	select {
	case w.events <- ev:
	case <-w.done:
	}
}

func (w *WebSocket) readLoop(ctx context.Context, conn *websocket.Conn, gen uint64) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			w.mu.Lock()
			current := w.gen == gen && w.conn == conn
			if current {
				w.cancel()
				w.conn, w.out, w.cancel = nil, nil, nil
			}
			w.mu.Unlock()

			if !current {
				return
			}
			reason := err.Error()
			if status := websocket.CloseStatus(err); status != -1 {
				reason = status.String()
			}
			w.log.Warn("connection lost", "reason", reason)
			w.deliver(Lifecycle(EventDisconnect, reason))
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil || ev.Name == "" {
			w.log.Warn("dropping malformed frame", "bytes", len(data), "error", err)
			continue
		}
		w.log.Debug("received event", "event", ev.Name)
		w.deliver(ev)
	}
}

func (w *WebSocket) writeLoop(ctx context.Context, conn *websocket.Conn, out <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-out:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, frame)
			cancel()
			if err != nil {
				// The read loop notices the broken connection and reports it.
				w.log.Warn("write failed", "error", err)
				return
			}
		}
	}
}

func (w *WebSocket) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(w.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
