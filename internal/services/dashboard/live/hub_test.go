package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type wireMessage struct {
	Type      MessageType    `json:"type"`
	Key       string         `json:"key"`
	Value     any            `json:"value"`
	Values    map[string]any `json:"values"`
	Timestamp time.Time      `json:"timestamp"`
}

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		initial := Snapshot(map[string]any{"a": 1}, time.Now())
		if err := hub.Serve(ctx, w, r, initial); err != nil {
			t.Errorf("serve: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg wireMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("ClientCount = %d, want %d", hub.ClientCount(), want)
}

func TestHubSendsSnapshotFirst(t *testing.T) {
	t.Parallel()

	_, srv := startHub(t)
	conn := dial(t, srv)

	msg := readMessage(t, conn)
	if msg.Type != MessageSnapshot {
		t.Fatalf("first message type = %q, want %q", msg.Type, MessageSnapshot)
	}
	if got := msg.Values["a"]; got != float64(1) {
		t.Fatalf("snapshot values[a] = %v, want 1", got)
	}
}

func TestHubBroadcastsToAllClients(t *testing.T) {
	t.Parallel()

	hub, srv := startHub(t)
	first := dial(t, srv)
	second := dial(t, srv)
	readMessage(t, first)
	readMessage(t, second)
	waitForClients(t, hub, 2)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if !hub.Broadcast(StatUpdate("pacientes_activos", 12, at)) {
		t.Fatal("Broadcast dropped message")
	}

	for _, conn := range []*websocket.Conn{first, second} {
		msg := readMessage(t, conn)
		if msg.Type != MessageStatUpdate || msg.Key != "pacientes_activos" {
			t.Fatalf("message = %+v", msg)
		}
		if msg.Value != float64(12) {
			t.Fatalf("value = %v, want 12", msg.Value)
		}
		if !msg.Timestamp.Equal(at) {
			t.Fatalf("timestamp = %v, want %v", msg.Timestamp, at)
		}
	}
}

func TestHubUnregistersClosedClients(t *testing.T) {
	t.Parallel()

	hub, srv := startHub(t)
	conn := dial(t, srv)
	readMessage(t, conn)
	waitForClients(t, hub, 1)

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()
	waitForClients(t, hub, 0)
}

func TestHubStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	// Registration after stop must not block.
	done := make(chan struct{})
	go func() {
		hub.Register(&Client{send: make(chan Message, 1)})
		hub.Unregister(&Client{send: make(chan Message, 1)})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Register blocked after hub stopped")
	}
}

func TestClientTrySendReportsFullBuffer(t *testing.T) {
	t.Parallel()

	c := &Client{send: make(chan Message, 1)}
	if !c.TrySend(Message{Type: MessageStatUpdate}) {
		t.Fatal("first TrySend = false, want true")
	}
	if c.TrySend(Message{Type: MessageStatUpdate}) {
		t.Fatal("second TrySend = true, want false")
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	for i := 0; i < broadcastBufferSize; i++ {
		if !hub.Broadcast(Message{Type: MessageStatUpdate}) {
			t.Fatalf("Broadcast %d dropped early", i)
		}
	}
	if hub.Broadcast(Message{Type: MessageStatUpdate}) {
		t.Fatal("Broadcast on full buffer = true, want false")
	}
}

func TestSlowClientIsDisconnected(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	slow := &Client{ID: "slow", send: make(chan Message)}
	hub.registerClient(slow)

	hub.broadcastMessage(Message{Type: MessageStatUpdate})

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("ClientCount = %d, want 0", got)
	}
	if _, ok := <-slow.send; ok {
		t.Fatal("slow client send channel still open")
	}
}
