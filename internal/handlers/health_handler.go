package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/0xteamMuffin/Hireability/internal/llm"
	"github.com/0xteamMuffin/Hireability/internal/utils"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status string                    `json:"status"` // "ready" | "not_ready"
	Checks map[string]ReadinessCheck `json:"checks"`
}

type HealthHandler struct {
	provider llm.Provider
	db       *gorm.DB
}

func NewHealthHandler(provider llm.Provider, db *gorm.DB) *HealthHandler {
	return &HealthHandler{provider: provider, db: db}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "hireability",
		"version": "1.0.0",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	allChecksPass := true

	if handler.provider == nil {
		checks["provider"] = ReadinessCheck{Status: "failed", Message: "AI provider not initialized"}
		allChecksPass = false
	} else {
		checks["provider"] = ReadinessCheck{Status: "ok"}
	}

	if handler.db == nil {
		checks["database"] = ReadinessCheck{Status: "failed", Message: "database not initialized"}
		allChecksPass = false
	} else if sqlDB, err := handler.db.DB(); err != nil || sqlDB.Ping() != nil {
		checks["database"] = ReadinessCheck{Status: "failed", Message: "database unreachable"}
		allChecksPass = false
	} else {
		checks["database"] = ReadinessCheck{Status: "ok"}
	}

	status := "ready"
	code := http.StatusOK
	if !allChecksPass {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}
	utils.JSON(writer, code, ReadinessResponse{Status: status, Checks: checks})
}
