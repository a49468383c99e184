package realtime

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"workconnect/dto"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func dialTestChannel(t *testing.T, hub *Hub) (*websocket.Conn, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ChannelController(router, hub)
	srv := httptest.NewServer(router)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	return ws, func() {
		ws.Close()
		srv.Close()
	}
}

func waitOnline(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Online() != want {
		if time.Now().After(deadline) {
			t.Fatalf("online = %d, want %d", hub.Online(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestChannelRegisterAndPush(t *testing.T) {
	hub := NewHub()
	ws, cleanup := dialTestChannel(t, hub)
	defer cleanup()

	register, err := RegisterEnvelope("user-1")
	if err != nil {
		t.Fatalf("register envelope: %v", err)
	}
	if err := ws.WriteJSON(register); err != nil {
		t.Fatalf("write register: %v", err)
	}
	waitOnline(t, hub, 1)

	conn, ok := hub.Lookup("user-1")
	if !ok {
		t.Fatal("recipient not registered")
	}

	push, err := NewReminderEnvelope(dto.TaskResponse{ID: "t1", Title: "Call back"})
	if err != nil {
		t.Fatalf("reminder envelope: %v", err)
	}
	if err := conn.WriteJSON(push); err != nil {
		t.Fatalf("push: %v", err)
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Envelope
	if err := ws.ReadJSON(&got); err != nil {
		t.Fatalf("read push: %v", err)
	}
	if got.Event != EventNewReminder {
		t.Fatalf("event = %q, want %q", got.Event, EventNewReminder)
	}
	var task dto.TaskResponse
	if err := json.Unmarshal(got.Data, &task); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if task.ID != "t1" || task.Title != "Call back" {
		t.Fatalf("payload = %+v", task)
	}
}

func TestChannelUnregistersOnDisconnect(t *testing.T) {
	hub := NewHub()
	ws, cleanup := dialTestChannel(t, hub)
	defer cleanup()

	register, _ := RegisterEnvelope("user-2")
	if err := ws.WriteJSON(register); err != nil {
		t.Fatalf("write register: %v", err)
	}
	waitOnline(t, hub, 1)

	ws.Close()
	waitOnline(t, hub, 0)
}

func TestChannelIgnoresUnknownEvents(t *testing.T) {
	hub := NewHub()
	ws, cleanup := dialTestChannel(t, hub)
	defer cleanup()

	if err := ws.WriteJSON(Envelope{Event: "ping", Data: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("write: %v", err)
	}
	register, _ := RegisterEnvelope("user-3")
	if err := ws.WriteJSON(register); err != nil {
		t.Fatalf("write register: %v", err)
	}
	waitOnline(t, hub, 1)
}
