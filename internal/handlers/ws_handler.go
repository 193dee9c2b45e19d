package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/0xteamMuffin/Hireability/internal/interview"
	"github.com/0xteamMuffin/Hireability/internal/ws"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// WSHandler relays interview events between browser clients and the
// state layer.
type WSHandler struct {
	Flow   *InterviewFlow
	logger *zap.Logger
}

func NewWSHandler(flow *InterviewFlow, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{Flow: flow, logger: logger}
}

// InterviewWS joins the caller to the interview's room and pumps inbound
// telemetry into the state store until the connection drops.
func (h *WSHandler) InterviewWS(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	client := ws.NewClient(conn)
	room := h.Flow.Hub.GetOrCreate(interviewID)
	room.Join(client)
	defer func() {
		if left := room.Leave(client); left == 0 {
			h.Flow.Hub.Delete(interviewID)
		}
	}()

	// greet with the current state, if any
	if snapshot := h.Flow.Store.GetStateSnapshot(interviewID); snapshot != nil {
		client.Send(ws.Event{Type: ws.EventStateUpdate, InterviewID: interviewID, Payload: snapshot})
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ws.InboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.logger.Debug("dropping unreadable ws frame", zap.Error(err))
			continue
		}
		h.handleInbound(interviewID, room, client, &msg)
	}
}

func (h *WSHandler) handleInbound(interviewID string, room *ws.Room, sender *ws.Client, msg *ws.InboundMessage) {
	switch msg.Type {
	case ws.MsgCodeUpdate:
		code := msg.Code
		h.Flow.Store.UpdateCodingState(interviewID, interview.CodingUpdate{Code: &code})
		length := len(code)
		h.Flow.Store.UpdateCandidateSignals(interviewID, interview.SignalUpdate{CodeLength: &length})
		// mirror the edit to any other viewers of the room
		room.Broadcast(sender, ws.Event{Type: ws.MsgCodeUpdate, InterviewID: interviewID, Payload: map[string]string{"code": code}})

	case ws.MsgSignals:
		var update interview.SignalUpdate
		if err := json.Unmarshal(msg.Signals, &update); err != nil {
			h.logger.Debug("dropping unreadable signal payload", zap.Error(err))
			return
		}
		h.Flow.Store.UpdateCandidateSignals(interviewID, update)

	default:
		h.logger.Debug("ignoring unknown ws message type", zap.String("type", msg.Type))
	}
}
