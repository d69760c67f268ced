package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bouquet-api/internal/config"
	"github.com/phrazzld/bouquet-api/internal/generation"
)

// validateConfig checks the settings this adapter cannot run without.
func validateConfig(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) error {
	if cfg.APIKey == "" {
		logger.ErrorContext(ctx, "Missing Gemini API key", "error", "APIKey is empty")
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		logger.ErrorContext(ctx, "Missing Gemini model name", "error", "ModelName is empty")
		return fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		logger.WarnContext(ctx, "Temperature outside the range Gemini accepts",
			"value", cfg.Temperature)
		return fmt.Errorf("%w: temperature %.2f out of range", generation.ErrInvalidConfig, cfg.Temperature)
	}

	return nil
}
