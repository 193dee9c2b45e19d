package ws

import "sync"

// Hub manages all active interview rooms. Room membership is process
// local: events only reach clients connected to the instance that
// received the mutation. A documented constraint, not a bug.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewHub() *Hub { return &Hub{rooms: make(map[string]*Room)} }

func (h *Hub) GetOrCreate(interviewID string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[interviewID]; ok {
		return r
	}
	r := NewRoom(interviewID)
	h.rooms[interviewID] = r
	return r
}

func (h *Hub) Delete(interviewID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, interviewID)
}

// Publish broadcasts a server-originated event to the interview's room.
// No-op when nobody is connected.
func (h *Hub) Publish(interviewID string, eventType string, payload interface{}) {
	h.mu.RLock()
	room, ok := h.rooms[interviewID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	room.Broadcast(nil, Event{
		Type:        eventType,
		InterviewID: interviewID,
		Payload:     payload,
	})
}

func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}
