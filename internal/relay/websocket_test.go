package relay_test

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/zhubert/relaydesk/internal/errors"
	"github.com/zhubert/relaydesk/internal/relay"
	"github.com/zhubert/relaydesk/internal/relay/relaytest"
)

func nextEvent(t *testing.T, tr relay.Transport) relay.Event {
	t.Helper()
	select {
	case ev := <-tr.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for transport event")
		return relay.Event{}
	}
}

func connect(t *testing.T, srv *relaytest.Server) *relay.WebSocket {
	t.Helper()
	ws := relay.NewWebSocket(srv.URL(), relay.WithPingInterval(0))
	t.Cleanup(func() { _ = ws.Close() })

	if err := ws.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if ev := nextEvent(t, ws); ev.Name != relay.EventConnect {
		t.Fatalf("first event = %q, want connect", ev.Name)
	}
	srv.WaitAccepted(t)
	return ws
}

func TestWebSocket_EmitReachesRelay(t *testing.T) {
	srv := relaytest.NewServer(t)
	ws := connect(t, srv)

	if err := ws.Emit(relay.EventAgentConnect, relay.AgentConnect{AuthToken: "tok"}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := ws.Emit(relay.EventAgentMessage, relay.AgentMessage{ClientSID: "abc123", Text: "Hi"}); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	first := srv.Next(t)
	if first.Name != relay.EventAgentConnect {
		t.Fatalf("first event = %q, want agent_connect", first.Name)
	}
	var auth relay.AgentConnect
	if err := relay.Decode(first, &auth); err != nil || auth.AuthToken != "tok" {
		t.Errorf("agent_connect payload = %+v, err %v", auth, err)
	}

	second := srv.Next(t)
	var msg relay.AgentMessage
	if err := relay.Decode(second, &msg); err != nil {
		t.Fatal(err)
	}
	if second.Name != relay.EventAgentMessage || msg.ClientSID != "abc123" || msg.Text != "Hi" {
		t.Errorf("second event = %s %+v", second.Name, msg)
	}
}

func TestWebSocket_InboundOrderPreserved(t *testing.T) {
	srv := relaytest.NewServer(t)
	ws := connect(t, srv)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		ev := relaytest.Event(relay.EventMessageToAgent, relay.MessageToAgent{ClientSID: "s1", Text: text})
		if err := srv.Send(ctx, ev); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}

	for _, want := range []string{"one", "two", "three"} {
		ev := nextEvent(t, ws)
		var m relay.MessageToAgent
		if err := relay.Decode(ev, &m); err != nil {
			t.Fatal(err)
		}
		if m.Text != want {
			t.Errorf("got %q, want %q", m.Text, want)
		}
	}
}

func TestWebSocket_MalformedFrameSkipped(t *testing.T) {
	srv := relaytest.NewServer(t)
	ws := connect(t, srv)
	ctx := context.Background()

	if err := srv.SendRaw(ctx, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	if err := srv.SendRaw(ctx, []byte(`{"data":{}}`)); err != nil {
		t.Fatal(err)
	}
	good := relaytest.Event(relay.EventMessageToAgent, relay.MessageToAgent{ClientSID: "s1", Text: "ok"})
	if err := srv.Send(ctx, good); err != nil {
		t.Fatal(err)
	}

	if ev := nextEvent(t, ws); ev.Name != relay.EventMessageToAgent {
		t.Errorf("expected the valid event after malformed frames, got %q", ev.Name)
	}
}

func TestWebSocket_RelayDropEmitsDisconnect(t *testing.T) {
	srv := relaytest.NewServer(t)
	ws := connect(t, srv)

	srv.DropAll()

	ev := nextEvent(t, ws)
	if ev.Name != relay.EventDisconnect {
		t.Fatalf("event = %q, want disconnect", ev.Name)
	}
	if ws.Connected() {
		t.Error("transport should report disconnected")
	}
	err := ws.Emit(relay.EventAgentMessage, relay.AgentMessage{ClientSID: "s1", Text: "late"})
	if !errors.Is(err, errors.KindState) {
		t.Errorf("Emit after disconnect err = %v, want KindState", err)
	}
}

func TestWebSocket_ConnectFailure(t *testing.T) {
	ws := relay.NewWebSocket("ws://127.0.0.1:1/ws", relay.WithDialTimeout(time.Second))
	defer ws.Close()

	err := ws.Connect(context.Background())
	if !errors.Is(err, errors.KindNetwork) {
		t.Fatalf("Connect err = %v, want KindNetwork", err)
	}
	ev := nextEvent(t, ws)
	if ev.Name != relay.EventConnectError {
		t.Fatalf("event = %q, want connect_error", ev.Name)
	}
	if relay.ReasonOf(ev) == "" {
		t.Error("connect_error should carry a reason")
	}
}

func TestWebSocket_EmitBeforeConnect(t *testing.T) {
	ws := relay.NewWebSocket("ws://127.0.0.1:1/ws")
	defer ws.Close()

	err := ws.Emit(relay.EventClientMessage, relay.ClientMessage{Text: "hi"})
	if !errors.Is(err, errors.KindState) {
		t.Errorf("err = %v, want KindState", err)
	}
}

func TestWebSocket_ReconnectReplacesQuietly(t *testing.T) {
	srv := relaytest.NewServer(t)
	ws := connect(t, srv)

	if err := ws.Connect(context.Background()); err != nil {
		t.Fatalf("second Connect: %v", err)
	}
	if ev := nextEvent(t, ws); ev.Name != relay.EventConnect {
		t.Fatalf("event = %q, want connect", ev.Name)
	}
	srv.WaitAccepted(t)

	select {
	case ev := <-ws.Events():
		t.Errorf("replaced connection should not signal, got %q", ev.Name)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWebSocket_ConnectAfterClose(t *testing.T) {
	ws := relay.NewWebSocket("ws://127.0.0.1:1/ws")
	if err := ws.Close(); err != nil {
		t.Fatal(err)
	}
	if err := ws.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
	if err := ws.Connect(context.Background()); !errors.Is(err, errors.KindState) {
		t.Errorf("Connect after Close err = %v, want KindState", err)
	}
}

func TestWebSocket_OverlappingConnectsLeaveOneConnection(t *testing.T) {
	srv := relaytest.NewServer(t)
	ws := relay.NewWebSocket(srv.URL(), relay.WithPingInterval(0))
	defer ws.Close()

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ws.Connect(context.Background()); err != nil {
				t.Errorf("Connect: %v", err)
			}
		}()
	}
	wg.Wait()

	for range 2 {
		if ev := nextEvent(t, ws); ev.Name != relay.EventConnect {
			t.Fatalf("event = %q, want connect", ev.Name)
		}
	}
	srv.WaitLive(t, 1)

	// Dials are serialized, so the first accepted connection is the one
	// that was replaced.
	ctx := context.Background()
	ghost := relaytest.Event(relay.EventMessageToAgent, relay.MessageToAgent{ClientSID: "ghost", Text: "stale"})
	_ = srv.SendTo(ctx, 0, ghost)
	live := relaytest.Event(relay.EventMessageToAgent, relay.MessageToAgent{ClientSID: "s1", Text: "live"})
	if err := srv.Send(ctx, live); err != nil {
		t.Fatalf("Send: %v", err)
	}

	ev := nextEvent(t, ws)
	var m relay.MessageToAgent
	if err := relay.Decode(ev, &m); err != nil {
		t.Fatal(err)
	}
	if m.ClientSID != "s1" {
		t.Errorf("got event from %q, want only the live connection", m.ClientSID)
	}
	select {
	case ev := <-ws.Events():
		t.Errorf("unexpected extra event %s", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWebSocket_SendsUpgradeHeaders(t *testing.T) {
	srv := relaytest.NewServer(t)
	ws := relay.NewWebSocket(srv.URL(),
		relay.WithPingInterval(0),
		relay.WithHeader(http.Header{"User-Agent": {"relaydesk/test"}}),
	)
	defer ws.Close()

	if err := ws.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	srv.WaitAccepted(t)
	if got := srv.Header().Get("User-Agent"); got != "relaydesk/test" {
		t.Errorf("User-Agent = %q, want relaydesk/test", got)
	}
}

func TestWebSocket_EmitFailsWhenQueueFull(t *testing.T) {
	srv := relaytest.NewServer(t)
	srv.PauseReads()
	ws := relay.NewWebSocket(srv.URL(), relay.WithPingInterval(0), relay.WithQueueSize(1))
	defer ws.Close()

	if err := ws.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	srv.WaitAccepted(t)

	// The relay is not reading, so socket buffers fill and the writer stalls.
	big := strings.Repeat("x", 256<<10)
	var err error
	for i := 0; i < 400 && err == nil; i++ {
		err = ws.Emit(relay.EventAgentMessage, relay.AgentMessage{ClientSID: "s1", Text: big})
	}
	if err == nil {
		t.Fatal("Emit never reported a full queue")
	}
	if !errors.Is(err, errors.KindNetwork) || !strings.Contains(err.Error(), "queue full") {
		t.Errorf("err = %v, want queue full", err)
	}
}
