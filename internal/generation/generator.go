package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/bouquet-api/internal/domain"
	"github.com/phrazzld/bouquet-api/internal/redact"
)

// Generator produces a bouquet plan from a free-text description.
type Generator interface {
	// Generate returns a fully defaulted plan, or an error wrapping
	// ErrGenerationFailed when no well-formed plan could be produced.
	Generate(ctx context.Context, description string) (*domain.BouquetPlan, error)
}

// Options configures a PlanGenerator.
type Options struct {
	Temperature float32

	// Timeout bounds each individual model call. Zero means no bound beyond
	// the caller's context.
	Timeout time.Duration

	// InstructionSteps is the number of arrangement steps to ask for.
	InstructionSteps int

	// StructuredOutput asks the provider for schema-constrained JSON.
	StructuredOutput bool

	Retry RetryPolicy
}

// PlanGenerator implements Generator over any ChatModel.
type PlanGenerator struct {
	model             ChatModel
	logger            *slog.Logger
	systemInstruction string
	opts              Options
}

var _ Generator = (*PlanGenerator)(nil)

// NewPlanGenerator creates a PlanGenerator. The system instruction is rendered
// once here and shared by every request.
func NewPlanGenerator(model ChatModel, logger *slog.Logger, opts Options) (*PlanGenerator, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: chat model cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if opts.Temperature < 0 {
		return nil, fmt.Errorf("%w: temperature cannot be negative", ErrInvalidConfig)
	}

	instruction, err := BuildSystemInstruction(opts.InstructionSteps)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &PlanGenerator{
		model:             model,
		logger:            logger,
		systemInstruction: instruction,
		opts:              opts,
	}, nil
}

// Generate sends the description to the model and parses its reply.
//
// Unparsable replies are resubmitted according to the retry policy. A reply
// with no JSON object fails immediately unless the policy says otherwise, and
// transport failures are never retried.
func (g *PlanGenerator) Generate(ctx context.Context, description string) (*domain.BouquetPlan, error) {
	req := ChatRequest{
		SystemInstruction: g.systemInstruction,
		UserMessage:       BuildUserMessage(description),
		Temperature:       g.opts.Temperature,
		JSONOutput:        g.opts.StructuredOutput,
	}

	maxAttempts := g.opts.Retry.Attempts()

	for attempt := 1; ; attempt++ {
		g.logger.InfoContext(ctx, "requesting bouquet plan",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"description_length", len(description))

		text, err := g.complete(ctx, req)
		if err != nil {
			g.logger.ErrorContext(ctx, "language model call failed",
				"attempt", attempt,
				"error", redact.Error(err))
			return nil, err
		}

		plan, err := parsePlan(text)
		if err == nil {
			g.logger.InfoContext(ctx, "bouquet plan generated",
				"attempt", attempt,
				"flowers", len(plan.ShoppingList.Flowers),
				"decorations", len(plan.ShoppingList.Decorations),
				"steps", len(plan.ArrangementInstructions),
				"has_image_prompt", plan.HasImagePrompt())
			if n := len(plan.ArrangementInstructions); n != g.steps() {
				g.logger.WarnContext(ctx, "unexpected number of arrangement steps",
					"expected", g.steps(),
					"got", n)
			}
			return plan, nil
		}

		g.logger.WarnContext(ctx, "could not parse language model reply",
			"attempt", attempt,
			"reply_length", len(text),
			"error", err)

		if !g.opts.Retry.Retryable(err) {
			return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		}
		if !g.opts.Retry.ShouldRetry(err, attempt) {
			return nil, fmt.Errorf("%w: invalid JSON after %d attempts: %w", ErrGenerationFailed, attempt, err)
		}

		if err := g.opts.Retry.Wait(ctx, attempt); err != nil {
			return nil, fmt.Errorf("%w: %w: %v", ErrGenerationFailed, ErrTransport, err)
		}
	}
}

// complete performs one bounded model call and classifies its failure.
func (g *PlanGenerator) complete(ctx context.Context, req ChatRequest) (string, error) {
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	text, err := g.model.Complete(ctx, req)
	if err != nil {
		if errors.Is(err, ErrContentBlocked) || errors.Is(err, ErrTransport) {
			return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		}
		return "", fmt.Errorf("%w: %w: %w", ErrGenerationFailed, ErrTransport, err)
	}
	return text, nil
}

func (g *PlanGenerator) steps() int {
	if g.opts.InstructionSteps < 1 {
		return DefaultInstructionSteps
	}
	return g.opts.InstructionSteps
}

// parsePlan extracts and normalizes the JSON payload of one reply.
func parsePlan(text string) (*domain.BouquetPlan, error) {
	payload, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	return NormalizePlan([]byte(payload))
}
