package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/0xteamMuffin/Hireability/internal/middleware"
	"github.com/0xteamMuffin/Hireability/internal/models"
	"github.com/0xteamMuffin/Hireability/internal/repositories"
	"github.com/0xteamMuffin/Hireability/internal/utils"
)

// ProfileHandler manages the user's interview preferences.
type ProfileHandler struct {
	Repo   *repositories.ProfileRepository
	logger *zap.Logger
}

func NewProfileHandler(repo *repositories.ProfileRepository, logger *zap.Logger) *ProfileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileHandler{Repo: repo, logger: logger}
}

func (h *ProfileHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	profile, err := h.Repo.GetByUserID(userID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		utils.Fail(w, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		h.logger.Error("profile lookup failed", zap.Error(err))
		utils.Fail(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	utils.JSON(w, http.StatusOK, models.APIResponse{Success: true, Data: profile})
}

func (h *ProfileHandler) PutHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	var req models.Profile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.UserID = userID
	req.ID = 0 // never trust a client-sent primary key

	saved, err := h.Repo.Upsert(&req)
	if err != nil {
		h.logger.Error("profile save failed", zap.Error(err))
		utils.Fail(w, http.StatusInternalServerError, "failed to save profile")
		return
	}
	utils.JSON(w, http.StatusOK, models.APIResponse{Success: true, Data: saved})
}
