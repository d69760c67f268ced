package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/bouquet-api/internal/domain"
	"github.com/phrazzld/bouquet-api/internal/redact"
)

// PlanGenerator produces a plan from a description. generation.PlanGenerator
// satisfies it.
type PlanGenerator interface {
	Generate(ctx context.Context, description string) (*domain.BouquetPlan, error)
}

// ImageSynthesizer renders an image prompt. imaging.Synthesizer satisfies it.
type ImageSynthesizer interface {
	Synthesize(ctx context.Context, prompt string) (*domain.ImageArtifact, error)
}

// ResultAssembler renders results. render.Assembler satisfies it.
type ResultAssembler interface {
	Assemble(plan *domain.BouquetPlan, image *domain.ImageArtifact) *domain.BouquetResult
	RenderFailure(message string) *domain.BouquetResult
}

// BouquetService runs the bouquet pipeline.
type BouquetService interface {
	// Generate turns a request into a result. On plan-generation failure it
	// returns a rendered failure result together with an error wrapping
	// generation.ErrGenerationFailed. Image failures never surface as errors.
	Generate(ctx context.Context, req domain.BouquetRequest) (*domain.BouquetResult, error)
}

// Options tunes the bouquet service.
type Options struct {
	// MaxDescriptionLength rejects longer descriptions, counted in
	// characters. Zero disables the check.
	MaxDescriptionLength int
}

type bouquetServiceImpl struct {
	generator PlanGenerator
	images    ImageSynthesizer
	assembler ResultAssembler
	logger    *slog.Logger
	opts      Options
}

// NewBouquetService creates a BouquetService. images may be nil, in which
// case every request skips the image step.
func NewBouquetService(
	generator PlanGenerator,
	images ImageSynthesizer,
	assembler ResultAssembler,
	logger *slog.Logger,
	opts Options,
) (BouquetService, error) {
	if generator == nil {
		return nil, &BouquetServiceError{Operation: "create_service", Message: "generator cannot be nil"}
	}
	if assembler == nil {
		return nil, &BouquetServiceError{Operation: "create_service", Message: "assembler cannot be nil"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &bouquetServiceImpl{
		generator: generator,
		images:    images,
		assembler: assembler,
		logger:    logger.With("component", "bouquet_service"),
		opts:      opts,
	}, nil
}

// Generate implements BouquetService.
func (s *bouquetServiceImpl) Generate(ctx context.Context, req domain.BouquetRequest) (*domain.BouquetResult, error) {
	trace := []domain.PipelineState{domain.StateReceived}

	if err := req.CheckLength(s.opts.MaxDescriptionLength); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	start := time.Now()
	plan, err := s.generator.Generate(ctx, req.Description)
	if err != nil {
		s.logger.ErrorContext(ctx, "bouquet plan generation failed",
			"error", redact.Error(err),
			"duration_ms", time.Since(start).Milliseconds())

		result := s.assembler.RenderFailure("")
		result.Trace = append(trace, domain.StateFailed)
		return result, NewBouquetServiceError("generate_plan", "failed to generate bouquet plan", err)
	}
	if plan == nil {
		s.logger.WarnContext(ctx, "plan generator returned no plan, using an empty plan")
		plan = domain.NewEmptyPlan()
	}
	trace = append(trace, domain.StatePlanGenerated)

	var image *domain.ImageArtifact
	switch {
	case s.images == nil:
		trace = append(trace, domain.StateImageSkipped)
		s.logger.DebugContext(ctx, "image generation disabled")

	case !plan.HasImagePrompt():
		trace = append(trace, domain.StateImageSkipped)
		s.logger.InfoContext(ctx, "plan has no image prompt, skipping image")

	default:
		trace = append(trace, domain.StateImageAttempted)
		imageStart := time.Now()
		image, err = s.images.Synthesize(ctx, plan.ImagePrompt)
		if err != nil {
			s.logger.WarnContext(ctx, "continuing without image",
				"error", redact.Error(err),
				"duration_ms", time.Since(imageStart).Milliseconds())
			image = nil
		}
	}

	result := s.assembler.Assemble(plan, image)
	result.Trace = append(trace, domain.StateAssembled)

	s.logger.InfoContext(ctx, "bouquet assembled",
		"flowers", len(plan.ShoppingList.Flowers),
		"decorations", len(plan.ShoppingList.Decorations),
		"steps", len(plan.ArrangementInstructions),
		"has_image", image != nil,
		"duration_ms", time.Since(start).Milliseconds())

	return result, nil
}
