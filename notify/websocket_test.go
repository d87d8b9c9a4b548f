package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type roomServer struct {
	srv      *httptest.Server
	messages chan string
	queries  chan string
}

func newRoomServer(t *testing.T) *roomServer {
	t.Helper()
	rs := &roomServer{
		messages: make(chan string, 16),
		queries:  make(chan string, 4),
	}
	upgrader := websocket.Upgrader{}
	rs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "good" {
			http.Error(w, "bad token", http.StatusUnauthorized)
			return
		}
		rs.queries <- r.URL.RawQuery
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		// The chat server greets new members with the user list.
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"users","list":["bot"]}`))
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			rs.messages <- string(data)
		}
	}))
	t.Cleanup(rs.srv.Close)
	return rs
}

func (rs *roomServer) wsURL() string {
	return "ws" + strings.TrimPrefix(rs.srv.URL, "http") + "/ws/chat"
}

func TestWebSocketSendsToRoom(t *testing.T) {
	rs := newRoomServer(t)
	ws, err := NewWebSocket(rs.wsURL(), "ops", "good")
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Close()

	for _, msg := range []string{"first", "second"} {
		if err := ws.Notify(context.Background(), msg); err != nil {
			t.Fatalf("Notify(%q): %v", msg, err)
		}
	}

	select {
	case q := <-rs.queries:
		if q != "room=ops&token=good" {
			t.Errorf("unexpected handshake query %q", q)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no handshake")
	}
	for _, want := range []string{"first", "second"} {
		select {
		case got := <-rs.messages:
			if got != want {
				t.Errorf("expected %q, got %q", want, got)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("message %q never arrived", want)
		}
	}
	if len(rs.queries) != 0 {
		t.Error("expected a single connection for both messages")
	}
}

func TestWebSocketRejectedHandshake(t *testing.T) {
	rs := newRoomServer(t)
	ws, err := NewWebSocket(rs.wsURL(), "lobby", "bad")
	if err != nil {
		t.Fatal(err)
	}
	err = ws.Notify(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected dial failure")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestWebSocketCloseWithoutConnection(t *testing.T) {
	ws, err := NewWebSocket("ws://127.0.0.1:1/ws/chat", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := ws.Close(); err != nil {
		t.Errorf("Close on an idle sink: %v", err)
	}
}

func TestWebSocketLogHidesToken(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	saved := log
	log = logger
	t.Cleanup(func() { log = saved })

	rs := newRoomServer(t)
	ws, err := NewWebSocket(rs.wsURL(), "ops", "good")
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Close()
	if err := ws.Notify(context.Background(), "hi"); err != nil {
		t.Fatal(err)
	}

	entries := hook.AllEntries()
	if len(entries) == 0 {
		t.Fatal("expected a connect log line")
	}
	for _, e := range entries {
		if strings.Contains(e.Message, "token=good") {
			t.Errorf("token leaked into log: %q", e.Message)
		}
	}
	if !strings.Contains(entries[0].Message, "token=xxxxx") {
		t.Errorf("expected masked token, got %q", entries[0].Message)
	}
}
