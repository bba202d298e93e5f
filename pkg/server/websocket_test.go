package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/datastar/pkg/protocol"
)

func TestWebSocketSendsEncodedEvents(t *testing.T) {
	stats := NewStatsCollector()
	done := make(chan struct{})

	events := []protocol.Eventer{
		protocol.NewPatchElements("<div id=\"a\">\n1\n</div>"),
		protocol.NewPatchSignals(`{"n":1}`),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(done)
		ws, err := Upgrade(w, r, WithObserver(stats))
		if err != nil {
			t.Errorf("Upgrade() error = %v", err)
			return
		}
		for _, ev := range events {
			if err := ws.Send(ev); err != nil {
				t.Errorf("Send() error = %v", err)
			}
		}
		<-ws.Context().Done()

		if err := ws.PatchSignals(`{}`); !errors.Is(err, ErrStreamClosed) {
			t.Errorf("Send() after peer close = %v, want ErrStreamClosed", err)
		}
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}

	for _, e := range events {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		kind, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error = %v", err)
		}
		if kind != websocket.TextMessage {
			t.Errorf("message type = %d, want text", kind)
		}
		ev := e.DatastarEvent()
		if string(data) != ev.String() {
			t.Errorf("message = %q, want %q", data, ev.String())
		}
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not observe the peer closing")
	}

	s := stats.Snapshot()
	if s.EventsSent != 2 || s.TotalStreams != 1 {
		t.Errorf("stats = %+v", s)
	}
}

func TestUpgradeRejectsCrossOrigin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := Upgrade(w, r); err == nil {
			t.Error("Upgrade() should fail for a cross-origin request")
		}
	}))
	defer srv.Close()

	header := http.Header{"Origin": {"https://evil.example"}}
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("Dial() should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}
}

func TestWebSocketNilSend(t *testing.T) {
	var ws *WebSocket
	if err := ws.Send(protocol.NewPatchSignals(`{}`)); !errors.Is(err, ErrNoConnection) {
		t.Errorf("Send() = %v, want ErrNoConnection", err)
	}
}
