package llm

import (
	"context"
)

// GenerationResult is the raw output of one LLM call.
type GenerationResult struct {
	Content  string
	Metadata GenerationMetadata
}

// GenerationMetadata carries provider bookkeeping for logging.
type GenerationMetadata struct {
	ProcessingTimeMs int
	Provider         string
	Model            string
}

// Provider defines the interface for LLM providers.
type Provider interface {
	GenerateText(ctx context.Context, prompt string, requestID string) (*GenerationResult, error)
	GetProviderName() string
}

// ProviderError represents an error from an LLM provider.
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Common error codes
const (
	ErrCodeAPIKey       = "invalid_api_key"
	ErrCodeRateLimit    = "rate_limit_exceeded"
	ErrCodeServiceDown  = "service_unavailable"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeTimeout      = "timeout"
)
