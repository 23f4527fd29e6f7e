package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	go hub.Run(ctx)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, w, r)
	}))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitConnected(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Connected() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", want, hub.Connected())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubRelaysToEveryClient(t *testing.T) {
	hub, url := startHub(t)
	sender := dial(t, url)
	receiver := dial(t, url)
	waitConnected(t, hub, 2)

	sent := model.ChatMessage{
		ID:               "1760000000000",
		UserID:           "5",
		Text:             "  bom dia  ",
		Timestamp:        "2026-10-16T09:00:00Z",
		OriginalLanguage: model.LanguagePT,
	}
	if err := sender.WriteJSON(sent); err != nil {
		t.Fatalf("write error: %v", err)
	}

	for _, conn := range []*websocket.Conn{sender, receiver} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var got model.ChatMessage
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("read error: %v", err)
		}
		if got.ID != sent.ID || got.Text != "bom dia" {
			t.Fatalf("unexpected relayed message: %+v", got)
		}
	}
}

func TestHubDropsInvalidMessages(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	waitConnected(t, hub, 1)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"text":"no id"}`)); err != nil {
		t.Fatalf("write error: %v", err)
	}
	valid := model.ChatMessage{ID: "2", UserID: "5", Text: "ok"}
	if err := conn.WriteJSON(valid); err != nil {
		t.Fatalf("write error: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got model.ChatMessage
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read error: %v", err)
	}
	if got.ID != "2" {
		t.Fatalf("expected only the valid message, got %+v", got)
	}
}

func TestDecodeMessage(t *testing.T) {
	if _, err := decodeMessage([]byte(`not json`)); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := decodeMessage([]byte(`{"id":"1","userId":"5","text":"   "}`)); err == nil {
		t.Fatalf("expected blank text to be rejected")
	}
}
