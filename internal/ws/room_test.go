package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type eventCapture struct {
	events []Event
}

func (c *eventCapture) hook(event Event) { c.events = append(c.events, event) }

func TestClientSendWithHook(t *testing.T) {
	client := NewClient(nil)
	capture := &eventCapture{}
	client.SetSendHook(capture.hook)

	client.Send(Event{Type: EventStateUpdate, InterviewID: "iv-1"})
	if len(capture.events) != 1 || capture.events[0].Type != EventStateUpdate {
		t.Fatalf("expected captured event, got %#v", capture.events)
	}
}

func TestClientSendWithoutConnDoesNotPanic(t *testing.T) {
	NewClient(nil).Send(Event{Type: EventStateUpdate})
}

func TestClientSendWritesToConn(t *testing.T) {
	upgrader := websocket.Upgrader{}
	received := make(chan Event, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var event Event
		if err := conn.ReadJSON(&event); err == nil {
			received <- event
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close()

	NewClient(conn).Send(Event{Type: EventQuestionAsked, InterviewID: "iv-1"})

	select {
	case event := <-received:
		if event.Type != EventQuestionAsked || event.InterviewID != "iv-1" {
			t.Fatalf("unexpected event: %#v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
	}
}

func TestBroadcastSkipsSender(t *testing.T) {
	room := NewRoom("iv-1")
	sender := NewClient(nil)
	senderCapture := &eventCapture{}
	sender.SetSendHook(senderCapture.hook)

	other := NewClient(nil)
	otherCapture := &eventCapture{}
	other.SetSendHook(otherCapture.hook)

	room.Join(sender)
	room.Join(other)

	room.Broadcast(sender, Event{Type: MsgCodeUpdate, InterviewID: "iv-1"})
	if len(senderCapture.events) != 0 {
		t.Fatal("sender must not receive its own broadcast")
	}
	if len(otherCapture.events) != 1 {
		t.Fatalf("expected 1 event at the other client, got %d", len(otherCapture.events))
	}
}

func TestRoomJoinLeaveCounts(t *testing.T) {
	room := NewRoom("iv-1")
	a, b := NewClient(nil), NewClient(nil)
	room.Join(a)
	room.Join(b)
	if room.ClientCount() != 2 {
		t.Fatalf("expected 2 clients, got %d", room.ClientCount())
	}
	if remaining := room.Leave(a); remaining != 1 {
		t.Fatalf("expected 1 remaining, got %d", remaining)
	}
	// leaving twice is harmless
	if remaining := room.Leave(a); remaining != 1 {
		t.Fatalf("expected 1 remaining after repeat leave, got %d", remaining)
	}
}

func TestHubPublishReachesRoomClients(t *testing.T) {
	hub := NewHub()
	// publishing to a room nobody joined is a no-op
	hub.Publish("iv-1", EventStateUpdate, nil)

	room := hub.GetOrCreate("iv-1")
	client := NewClient(nil)
	capture := &eventCapture{}
	client.SetSendHook(capture.hook)
	room.Join(client)

	hub.Publish("iv-1", EventPhaseChanged, map[string]string{"phase": "wrap-up"})
	if len(capture.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(capture.events))
	}
	if capture.events[0].Type != EventPhaseChanged || capture.events[0].InterviewID != "iv-1" {
		t.Fatalf("unexpected event: %#v", capture.events[0])
	}

	if hub.GetOrCreate("iv-1") != room {
		t.Fatal("GetOrCreate must return the existing room")
	}
	hub.Delete("iv-1")
	if hub.RoomCount() != 0 {
		t.Fatalf("expected 0 rooms after delete, got %d", hub.RoomCount())
	}
}
