package ws

import "encoding/json"

// Event types pushed to interview rooms.
const (
	EventStateUpdate     = "state-update"
	EventQuestionAsked   = "question-asked"
	EventAnswerEvaluated = "answer-evaluated"
	EventCodingProblem   = "coding-problem-assigned"
	EventCodeExecuted    = "code-executed"
	EventHintProvided    = "hint-provided"
	EventPhaseChanged    = "phase-changed"
	EventCompleted       = "interview-completed"
)

// Client -> server message types. Joining is implicit in the connection
// URL, so there is no join message.
const (
	MsgCodeUpdate = "code-update"
	MsgSignals    = "signals"
)

// Event is one frame relayed to a room.
type Event struct {
	Type        string      `json:"type"`
	InterviewID string      `json:"interviewId"`
	Payload     interface{} `json:"payload,omitempty"`
}

// InboundMessage is a frame received from a browser client.
type InboundMessage struct {
	Type        string          `json:"type"`
	InterviewID string          `json:"interviewId"`
	Code        string          `json:"code,omitempty"`
	Signals     json.RawMessage `json:"signals,omitempty"`
}
