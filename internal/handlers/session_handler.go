package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/0xteamMuffin/Hireability/internal/middleware"
	"github.com/0xteamMuffin/Hireability/internal/models"
	"github.com/0xteamMuffin/Hireability/internal/repositories"
	"github.com/0xteamMuffin/Hireability/internal/utils"
)

// SessionHandler does the durable session/round bookkeeping.
type SessionHandler struct {
	Sessions *repositories.SessionRepository
	logger   *zap.Logger
}

func NewSessionHandler(sessions *repositories.SessionRepository, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{Sessions: sessions, logger: logger}
}

func (h *SessionHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CreateSessionRequest](r)
	userID := middleware.UserID(r)

	session := &models.InterviewSession{
		UserID:        userID,
		TargetRole:    req.TargetRole,
		TargetCompany: req.TargetCompany,
		Status:        "scheduled",
		Rounds:        make([]models.InterviewRound, 0, len(req.Rounds)),
	}
	for i, round := range req.Rounds {
		session.Rounds = append(session.Rounds, models.InterviewRound{
			InterviewID:     uuid.New().String(),
			UserID:          userID,
			RoundType:       round.RoundType,
			RoundOrder:      i + 1,
			DurationMinutes: round.DurationMinutes,
			Status:          "pending",
		})
	}

	if err := h.Sessions.CreateSession(session); err != nil {
		h.logger.Error("session creation failed", zap.Error(err))
		utils.Fail(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	utils.JSON(w, http.StatusCreated, models.APIResponse{Success: true, Data: session})
}

func (h *SessionHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	sessionID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "invalid session id")
		return
	}
	session, err := h.Sessions.GetSession(userID, uint(sessionID))
	if errors.Is(err, repositories.ErrSessionNotFound) {
		utils.Fail(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		h.logger.Error("session lookup failed", zap.Error(err))
		utils.Fail(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	utils.JSON(w, http.StatusOK, models.APIResponse{Success: true, Data: session})
}

func (h *SessionHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	sessions, err := h.Sessions.ListByUser(userID)
	if err != nil {
		h.logger.Error("session list failed", zap.Error(err))
		utils.Fail(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	utils.JSON(w, http.StatusOK, models.APIResponse{Success: true, Data: sessions})
}
