package imaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/bouquet-api/internal/domain"
	"github.com/phrazzld/bouquet-api/internal/redact"
)

// Renderer is the image-generation service: prompt in, image bytes and their
// media type out. huggingface.Client satisfies it.
type Renderer interface {
	Render(ctx context.Context, prompt string) ([]byte, string, error)
}

// Synthesizer renders image prompts and stores the result through a Sink.
type Synthesizer struct {
	renderer Renderer
	sink     Sink
	logger   *slog.Logger
	timeout  time.Duration
}

// NewSynthesizer creates a Synthesizer. timeout bounds the render call; zero
// leaves it to the caller's context.
func NewSynthesizer(renderer Renderer, sink Sink, logger *slog.Logger, timeout time.Duration) (*Synthesizer, error) {
	if renderer == nil {
		return nil, errors.New("renderer cannot be nil")
	}
	if sink == nil {
		return nil, errors.New("sink cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Synthesizer{
		renderer: renderer,
		sink:     sink,
		logger:   logger,
		timeout:  timeout,
	}, nil
}

// Synthesize renders prompt and stores the image. It makes one call and never
// retries; every error wraps ErrImageFailed.
func (s *Synthesizer) Synthesize(ctx context.Context, prompt string) (*domain.ImageArtifact, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: %w", ErrImageFailed, ErrEmptyPrompt)
	}

	renderCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	data, mimeType, err := s.renderer.Render(renderCtx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageFailed, err)
	}

	mimeType, err = resolveMIMEType(data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageFailed, err)
	}

	s.logger.DebugContext(ctx, "image rendered",
		"bytes", len(data),
		"mime_type", mimeType,
		"duration_ms", time.Since(start).Milliseconds())

	artifact, err := s.sink.Store(ctx, data, mimeType)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to store image", "error", redact.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrImageFailed, err)
	}

	return artifact, nil
}

// resolveMIMEType trusts the declared type when it names an image and
// otherwise sniffs the bytes.
func resolveMIMEType(data []byte, declared string) (string, error) {
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = declared[:i]
	}
	declared = strings.TrimSpace(strings.ToLower(declared))
	if strings.HasPrefix(declared, "image/") {
		return declared, nil
	}

	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed, nil
	}
	return "", fmt.Errorf("%w (%s)", ErrNotAnImage, sniffed)
}
