package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/0xteamMuffin/Hireability/internal/llm"
	"github.com/0xteamMuffin/Hireability/internal/middleware"
	"github.com/0xteamMuffin/Hireability/internal/models"
	"github.com/0xteamMuffin/Hireability/internal/prompts"
	"github.com/0xteamMuffin/Hireability/internal/repositories"
	"github.com/0xteamMuffin/Hireability/internal/utils"
)

// DocumentHandler ingests resumes and condenses them via the LLM into
// interview context.
type DocumentHandler struct {
	Repo          *repositories.DocumentRepository
	provider      llm.Provider
	promptManager prompts.PromptProvider
	logger        *zap.Logger
}

func NewDocumentHandler(repo *repositories.DocumentRepository, provider llm.Provider, promptManager prompts.PromptProvider, logger *zap.Logger) *DocumentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentHandler{Repo: repo, provider: provider, promptManager: promptManager, logger: logger}
}

func (h *DocumentHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.UploadDocumentRequest](r)
	userID := middleware.UserID(r)

	condensed := h.condense(r, req)

	doc := &models.Document{
		UserID:    userID,
		Kind:      req.Kind,
		FileName:  req.FileName,
		RawText:   req.Text,
		Condensed: condensed,
	}
	if err := h.Repo.Create(doc); err != nil {
		h.logger.Error("document save failed", zap.Error(err))
		utils.Fail(w, http.StatusInternalServerError, "failed to save document")
		return
	}
	utils.JSON(w, http.StatusCreated, models.APIResponse{Success: true, Data: doc})
}

// condense asks the LLM for a summary; on failure the raw text is
// truncated instead so upload never blocks on the provider.
func (h *DocumentHandler) condense(r *http.Request, req *models.UploadDocumentRequest) string {
	prompt, err := h.promptManager.BuildPrompt("resume", map[string]string{
		"Kind": req.Kind,
		"Text": req.Text,
	})
	if err == nil {
		result, genErr := h.provider.GenerateText(r.Context(), prompt, "")
		if genErr == nil {
			return result.Content
		}
		h.logger.Warn("resume condensing failed, truncating raw text", zap.Error(genErr))
	}
	if len(req.Text) > models.ResumeTextLimit {
		return req.Text[:models.ResumeTextLimit]
	}
	return req.Text
}

func (h *DocumentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	docs, err := h.Repo.ListByUser(userID)
	if err != nil {
		h.logger.Error("document list failed", zap.Error(err))
		utils.Fail(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	utils.JSON(w, http.StatusOK, models.APIResponse{Success: true, Data: docs})
}
