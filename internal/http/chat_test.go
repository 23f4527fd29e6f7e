package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/chat"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/config"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestChatUpgradeThroughRouter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := chat.NewHub(nil)
	go hub.Run(ctx)

	var logs syncBuffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	server := NewServer(config.Config{}, &memoryStore{}, nil, hub, logger)
	app := httptest.NewServer(server.Router())
	t.Cleanup(app.Close)

	url := "ws" + strings.TrimPrefix(app.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Connected() != 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	sent := model.ChatMessage{ID: "1760000000000", UserID: "1", Text: "bom dia", OriginalLanguage: model.LanguagePT}
	if err := conn.WriteJSON(sent); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got model.ChatMessage
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.ID != sent.ID || got.Text != sent.Text {
		t.Fatalf("unexpected relay: %+v", got)
	}

	for !strings.Contains(logs.String(), "path=/ws") && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !strings.Contains(logs.String(), "path=/ws status=101") {
		t.Fatalf("expected upgrade logged with status 101: %s", logs.String())
	}
}
