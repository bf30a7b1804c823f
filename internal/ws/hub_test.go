package ws

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jayrweg/afya-plus/entity"
)

func TestChatTurnReachesMonitor(t *testing.T) {
	lg := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(lg)
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, lg, w, r)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Registration goes through the hub's event loop; give it a moment
	// before broadcasting.
	time.Sleep(50 * time.Millisecond)

	hub.ChatTurn(entity.ChatMessage{
		SessionID: "sess-1",
		Direction: "out",
		Text:      "Chagua lugha",
		Stage:     entity.StageLanguage,
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var event struct {
		Type string             `json:"type"`
		Data entity.ChatMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.Type != "chat_turn" {
		t.Fatalf("event type = %q", event.Type)
	}
	if event.Data.SessionID != "sess-1" || event.Data.Text != "Chagua lugha" {
		t.Fatalf("event data = %+v", event.Data)
	}
}

func TestChatTurnNeverBlocks(t *testing.T) {
	lg := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(lg)
	// Run is intentionally not started: the broadcast queue fills up and
	// further turns must be dropped, not block the caller.

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.ChatTurn(entity.ChatMessage{SessionID: "sess-1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ChatTurn blocked on a full queue")
	}
}
