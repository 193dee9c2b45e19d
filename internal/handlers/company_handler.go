package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/0xteamMuffin/Hireability/internal/llm"
	"github.com/0xteamMuffin/Hireability/internal/middleware"
	"github.com/0xteamMuffin/Hireability/internal/models"
	"github.com/0xteamMuffin/Hireability/internal/prompts"
	"github.com/0xteamMuffin/Hireability/internal/scraper"
	"github.com/0xteamMuffin/Hireability/internal/utils"
)

// CompanyHandler proxies the scraping microservice and summarizes the
// result for interview preparation.
type CompanyHandler struct {
	scraper       *scraper.Client
	provider      llm.Provider
	promptManager prompts.PromptProvider
	logger        *zap.Logger
}

func NewCompanyHandler(sc *scraper.Client, provider llm.Provider, promptManager prompts.PromptProvider, logger *zap.Logger) *CompanyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompanyHandler{scraper: sc, provider: provider, promptManager: promptManager, logger: logger}
}

func (h *CompanyHandler) IntelHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CompanyIntelRequest](r)

	content, err := h.scraper.Scrape(r.Context(), req.URL)
	if err != nil {
		h.logger.Warn("scrape failed", zap.String("url", req.URL), zap.Error(err))
		utils.Fail(w, http.StatusBadGateway, "failed to fetch company page")
		return
	}

	summary := content
	prompt, err := h.promptManager.BuildPrompt("company", map[string]string{
		"Company": req.URL,
		"Content": content,
	})
	if err == nil {
		if result, genErr := h.provider.GenerateText(r.Context(), prompt, ""); genErr == nil {
			summary = result.Content
		} else {
			h.logger.Warn("company summary failed, returning raw content", zap.Error(genErr))
		}
	}

	utils.JSON(w, http.StatusOK, models.APIResponse{
		Success: true,
		Data: map[string]string{
			"url":     req.URL,
			"summary": summary,
		},
	})
}
