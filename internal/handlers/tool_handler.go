package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/0xteamMuffin/Hireability/internal/interview"
	"github.com/0xteamMuffin/Hireability/internal/models"
	"github.com/0xteamMuffin/Hireability/internal/utils"
	"github.com/0xteamMuffin/Hireability/internal/ws"
)

// ToolHandler serves the voice platform's mid-call tool requests. The
// platform has no separate error channel, so every response is HTTP 200
// with errors embedded as strings in the tool result.
type ToolHandler struct {
	Flow   *InterviewFlow
	logger *zap.Logger
}

func NewToolHandler(flow *InterviewFlow, logger *zap.Logger) *ToolHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ToolHandler{Flow: flow, logger: logger}
}

// toolCallEnvelope is the platform's request shape: tool invocations plus
// a call-scoped variable bag carrying the interview and user ids.
type toolCallEnvelope struct {
	Message struct {
		ToolCalls []struct {
			ID       string `json:"id"`
			Function struct {
				Name      string          `json:"name"`
				Arguments json.RawMessage `json:"arguments"`
			} `json:"function"`
		} `json:"toolCalls"`
		Call struct {
			VariableValues map[string]interface{} `json:"variableValues"`
		} `json:"call"`
	} `json:"message"`
}

func (h *ToolHandler) ToolCallHandler(w http.ResponseWriter, r *http.Request) {
	var envelope toolCallEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		// even malformed envelopes answer 200 so the call keeps going
		utils.JSON(w, http.StatusOK, models.ToolCallResponse{
			Results: []models.ToolCallResult{{ToolCallID: "", Result: `{"error": "invalid tool call payload"}`}},
		})
		return
	}

	interviewID, _ := envelope.Message.Call.VariableValues["interviewId"].(string)

	response := models.ToolCallResponse{
		Results: make([]models.ToolCallResult, 0, len(envelope.Message.ToolCalls)),
	}
	for _, call := range envelope.Message.ToolCalls {
		result := h.dispatch(r.Context(), call.Function.Name, interviewID, call.Function.Arguments)
		response.Results = append(response.Results, models.ToolCallResult{
			ToolCallID: call.ID,
			Result:     result,
		})
	}
	utils.JSON(w, http.StatusOK, response)
}

func (h *ToolHandler) dispatch(ctx context.Context, name, interviewID string, arguments json.RawMessage) string {
	if interviewID == "" {
		return errResult("missing interviewId in call variables")
	}

	switch name {
	case "get_interview_state":
		snapshot := h.Flow.Store.GetStateSnapshot(interviewID)
		if snapshot == nil {
			return errResult("no active interview")
		}
		return marshalResult(snapshot)

	case "get_next_question":
		var args struct {
			Category string `json:"category"`
		}
		_ = json.Unmarshal(arguments, &args)
		question := h.Flow.NextQuestion(ctx, interviewID, args.Category, "")
		if question == nil {
			return errResult("no active interview")
		}
		return marshalResult(question)

	case "evaluate_answer":
		var args struct {
			QuestionID string `json:"questionId"`
			Answer     string `json:"answer"`
		}
		if err := json.Unmarshal(arguments, &args); err != nil {
			return errResult("invalid evaluate_answer arguments")
		}
		evaluation := h.Flow.Evaluate(ctx, interviewID, args.QuestionID, args.Answer, "")
		if evaluation == nil {
			return errResult("no matching interview or question")
		}
		return marshalResult(evaluation)

	case "set_phase":
		var args struct {
			Phase string `json:"phase"`
		}
		if err := json.Unmarshal(arguments, &args); err != nil || !interview.ValidPhase(interview.Phase(args.Phase)) {
			return errResult("invalid phase")
		}
		if !h.Flow.Store.SetPhase(interviewID, interview.Phase(args.Phase)) {
			return errResult("no active interview")
		}
		h.Flow.Hub.Publish(interviewID, ws.EventPhaseChanged, map[string]string{"phase": args.Phase})
		return fmt.Sprintf(`{"phase": %q}`, args.Phase)

	case "update_elapsed_time":
		elapsed := h.Flow.Store.UpdateElapsedTime(interviewID)
		return fmt.Sprintf(`{"elapsedSeconds": %.0f}`, elapsed)

	case "assign_coding_problem":
		var args struct {
			Language string `json:"language"`
		}
		_ = json.Unmarshal(arguments, &args)
		coding := h.Flow.AssignProblem(ctx, interviewID, args.Language)
		if coding == nil {
			return errResult("no active interview or no problem available")
		}
		return marshalResult(map[string]string{
			"title":       coding.Problem.Title,
			"description": coding.Problem.Description,
			"difficulty":  coding.Problem.Difficulty,
		})

	case "provide_hint":
		payload := h.Flow.Hint(ctx, interviewID)
		if payload == nil {
			return errResult("no active coding round")
		}
		return marshalResult(payload)

	case "complete_interview":
		snapshot := h.Flow.Complete(ctx, interviewID)
		if snapshot == nil {
			return errResult("no active interview")
		}
		return marshalResult(snapshot)

	default:
		h.logger.Warn("unknown tool call", zap.String("tool", name))
		return errResult("unknown tool: " + name)
	}
}

func marshalResult(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return errResult("failed to serialize result")
	}
	return string(data)
}

func errResult(message string) string {
	data, _ := json.Marshal(map[string]string{"error": message})
	return string(data)
}
