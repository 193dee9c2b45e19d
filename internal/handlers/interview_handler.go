package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/0xteamMuffin/Hireability/internal/interview"
	"github.com/0xteamMuffin/Hireability/internal/metrics"
	"github.com/0xteamMuffin/Hireability/internal/middleware"
	"github.com/0xteamMuffin/Hireability/internal/models"
	"github.com/0xteamMuffin/Hireability/internal/utils"
	"github.com/0xteamMuffin/Hireability/internal/ws"
)

// InterviewHandler exposes the state operations over HTTP. Missing-state
// lookups answer 404 with the standard envelope; they never panic the
// state layer.
type InterviewHandler struct {
	Flow   *InterviewFlow
	logger *zap.Logger
}

func NewInterviewHandler(flow *InterviewFlow, logger *zap.Logger) *InterviewHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterviewHandler{Flow: flow, logger: logger}
}

func (h *InterviewHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	snapshot, err := h.Flow.StartInterview(r.Context(), middleware.UserID(r), interviewID)
	if errors.Is(err, ErrRoundNotFound) {
		utils.Fail(w, http.StatusNotFound, "interview round not found")
		return
	}
	if err != nil {
		h.logger.Error("interview start failed", zap.String("interview_id", interviewID), zap.Error(err))
		utils.Fail(w, http.StatusInternalServerError, "failed to start interview")
		return
	}
	utils.JSON(w, http.StatusOK, models.APIResponse{Success: true, Data: snapshot})
}

func (h *InterviewHandler) RecoverHandler(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	snapshot, err := h.Flow.RecoverInterview(r.Context(), middleware.UserID(r), interviewID)
	if errors.Is(err, ErrRoundNotFound) {
		utils.Fail(w, http.StatusNotFound, "interview round not found")
		return
	}
	if err != nil {
		h.logger.Error("interview recovery failed", zap.String("interview_id", interviewID), zap.Error(err))
		utils.Fail(w, http.StatusInternalServerError, "failed to recover interview")
		return
	}
	utils.JSON(w, http.StatusOK, models.APIResponse{Success: true, Data: snapshot})
}

func (h *InterviewHandler) SnapshotHandler(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	snapshot := h.Flow.Store.GetStateSnapshot(interviewID)
	if snapshot == nil {
		utils.Fail(w, http.StatusNotFound, "no active interview state")
		return
	}
	utils.JSON(w, http.StatusOK, models.APIResponse{Success: true, Data: snapshot})
}

func (h *InterviewHandler) QuestionHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.GenerateQuestionRequest](r)
	response := h.Flow.NextQuestion(r.Context(), req.InterviewID, req.Category, req.RequestID)
	if response == nil {
		utils.Fail(w, http.StatusNotFound, "no active interview state")
		return
	}
	utils.JSON(w, http.StatusOK, response)
}

func (h *InterviewHandler) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.EvaluateAnswerRequest](r)
	response := h.Flow.Evaluate(r.Context(), req.InterviewID, req.QuestionID, req.Answer, req.RequestID)
	if response == nil {
		utils.Fail(w, http.StatusNotFound, "no matching interview or question")
		return
	}
	utils.JSON(w, http.StatusOK, response)
}

type setPhaseRequest struct {
	Phase string `json:"phase"`
}

func (h *InterviewHandler) SetPhaseHandler(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	var req setPhaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	phase := interview.Phase(req.Phase)
	if !interview.ValidPhase(phase) {
		utils.Fail(w, http.StatusBadRequest, "unknown phase")
		return
	}
	if !h.Flow.Store.SetPhase(interviewID, phase) {
		utils.Fail(w, http.StatusNotFound, "no active interview state")
		return
	}
	h.Flow.Hub.Publish(interviewID, ws.EventPhaseChanged, map[string]string{"phase": req.Phase})
	utils.JSON(w, http.StatusOK, models.APIResponse{Success: true})
}

func (h *InterviewHandler) CompleteHandler(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	snapshot := h.Flow.Complete(r.Context(), interviewID)
	if snapshot == nil {
		utils.Fail(w, http.StatusNotFound, "no active interview state")
		return
	}
	utils.JSON(w, http.StatusOK, models.APIResponse{Success: true, Data: snapshot})
}

func (h *InterviewHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	h.Flow.Store.DeleteState(interviewID)
	h.Flow.Hub.Delete(interviewID)
	metrics.ActiveInterviews.Set(float64(h.Flow.Store.ActiveCount()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *InterviewHandler) ProblemHandler(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	var req struct {
		Language string `json:"language"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	coding := h.Flow.AssignProblem(r.Context(), interviewID, req.Language)
	if coding == nil {
		utils.Fail(w, http.StatusNotFound, "no active interview state or no problem available")
		return
	}
	utils.JSON(w, http.StatusOK, models.APIResponse{Success: true, Data: coding})
}

func (h *InterviewHandler) ExecuteHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ExecuteCodeRequest](r)
	result := h.Flow.RunCode(r.Context(), req.InterviewID, req.Language, req.Code)
	if result == nil {
		utils.Fail(w, http.StatusNotFound, "no active coding round")
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

func (h *InterviewHandler) HintHandler(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	payload := h.Flow.Hint(r.Context(), interviewID)
	if payload == nil {
		utils.Fail(w, http.StatusNotFound, "no active coding round")
		return
	}
	utils.JSON(w, http.StatusOK, models.APIResponse{Success: true, Data: payload})
}
