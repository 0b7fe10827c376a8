package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/config"
)

// NewGenerator returns the generator selected by cfg.Provider, or nil when
// that provider has no API key. A nil generator means canned replies only.
func NewGenerator(ctx context.Context, cfg config.ChatConfig) (Generator, error) {
	switch cfg.Provider {
	case config.ChatProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			log.Info().Msg("OPENAI_API_KEY not set, chat will use canned replies")
			return nil, nil
		}
		generator, err := NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, "")
		if err != nil {
			return nil, err
		}
		return generator, nil
	case config.ChatProviderGemini, "":
		if cfg.GeminiAPIKey == "" {
			log.Info().Msg("GOOGLE_GEMINI_API_KEY not set, chat will use canned replies")
			return nil, nil
		}
		generator, err := NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return generator, nil
	default:
		return nil, fmt.Errorf("unsupported chat provider %q", cfg.Provider)
	}
}
