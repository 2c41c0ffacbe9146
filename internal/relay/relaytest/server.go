package relaytest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/zhubert/relaydesk/internal/relay"
)

// Server is a fake relay listening on /ws. It records every event clients
// send and can push events to the most recent client.
type Server struct {
	srv      *httptest.Server
	received chan relay.Event
	accepted chan struct{}

	mu     sync.Mutex
	conns  []*websocket.Conn
	live   int
	header http.Header
	resume chan struct{}
}

// NewServer starts a fake relay that is shut down when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		received: make(chan relay.Event, 256),
		accepted: make(chan struct{}, 16),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handle)
	s.srv = httptest.NewServer(mux)
	t.Cleanup(func() {
		s.ResumeReads()
		s.DropAll()
		s.srv.Close()
	})
	return s
}

// URL is the ws:// address of the relay endpoint.
func (s *Server) URL() string {
	return "ws" + strings.TrimPrefix(s.srv.URL, "http") + "/ws"
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}
	s.mu.Lock()
	s.conns = append(s.conns, conn)
	s.live++
	s.header = r.Header.Clone()
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.live--
		s.mu.Unlock()
	}()
	s.accepted <- struct{}{}

	for {
		s.mu.Lock()
		gate := s.resume
		s.mu.Unlock()
		if gate != nil {
			<-gate
		}
		var ev relay.Event
		if err := wsjson.Read(r.Context(), conn, &ev); err != nil {
			return
		}
		s.received <- ev
	}
}

// WaitAccepted blocks until a client has connected.
func (s *Server) WaitAccepted(t testing.TB) {
	t.Helper()
	select {
	case <-s.accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a client to connect")
	}
}

// Next returns the next event received from any client.
func (s *Server) Next(t testing.TB) relay.Event {
	t.Helper()
	select {
	case ev := <-s.received:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a client event")
		return relay.Event{}
	}
}

// Send writes ev to the most recently connected client.
func (s *Server) Send(ctx context.Context, ev relay.Event) error {
	s.mu.Lock()
	conn := s.conns[len(s.conns)-1]
	s.mu.Unlock()
	return wsjson.Write(ctx, conn, ev)
}

// SendTo writes ev to the i-th client ever accepted, live or not.
func (s *Server) SendTo(ctx context.Context, i int, ev relay.Event) error {
	s.mu.Lock()
	conn := s.conns[i]
	s.mu.Unlock()
	return wsjson.Write(ctx, conn, ev)
}

// Live is the number of client connections still being served.
func (s *Server) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// WaitLive blocks until exactly n client connections are being served.
func (s *Server) WaitLive(t testing.TB, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.Live() != n {
		if time.Now().After(deadline) {
			t.Fatalf("live connections = %d, want %d", s.Live(), n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// Header returns the upgrade request headers of the latest client.
func (s *Server) Header() http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.header.Clone()
}

// PauseReads stops the relay reading client frames until ResumeReads, so
// client writes back up.
func (s *Server) PauseReads() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resume == nil {
		s.resume = make(chan struct{})
	}
}

func (s *Server) ResumeReads() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resume != nil {
		close(s.resume)
		s.resume = nil
	}
}

// SendRaw writes an arbitrary text frame to the most recent client.
func (s *Server) SendRaw(ctx context.Context, frame []byte) error {
	s.mu.Lock()
	conn := s.conns[len(s.conns)-1]
	s.mu.Unlock()
	return conn.Write(ctx, websocket.MessageText, frame)
}

// DropAll closes every client connection as a relay shutdown would.
func (s *Server) DropAll() {
	s.mu.Lock()
	conns := s.conns
	s.conns = nil
	s.mu.Unlock()
	for _, c := range conns {
		_ = c.Close(websocket.StatusGoingAway, "relay shutting down")
	}
}
