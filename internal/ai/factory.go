package ai

import (
	"fmt"

	"github.com/AlyonaCIA/AI-diagnostic/internal/ai/anthropic"
	"github.com/AlyonaCIA/AI-diagnostic/internal/ai/gemini"
	"github.com/AlyonaCIA/AI-diagnostic/internal/ai/mock"
	"github.com/AlyonaCIA/AI-diagnostic/internal/ai/openai"
	"github.com/AlyonaCIA/AI-diagnostic/internal/config"
	"github.com/AlyonaCIA/AI-diagnostic/pkg/models"
)

// NewProvider constructs the appropriate AI provider based on config.
// Called once at server startup.
func NewProvider(cfg config.AIConfig) (models.AIProvider, error) {
	switch cfg.Provider {
	case "gemini":
		return gemini.NewProvider(cfg.Gemini), nil
	case "openai":
		return openai.NewProvider(cfg.OpenAI), nil
	case "anthropic":
		return anthropic.NewProvider(cfg.Anthropic), nil
	case "mock":
		return mock.NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of gemini, openai, anthropic, mock", cfg.Provider)
	}
}
