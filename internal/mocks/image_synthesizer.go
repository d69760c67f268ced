package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/bouquet-api/internal/domain"
	"github.com/phrazzld/bouquet-api/internal/service"
)

// MockImageSynthesizer implements service.ImageSynthesizer for testing
type MockImageSynthesizer struct {
	SynthesizeFn func(ctx context.Context, prompt string) (*domain.ImageArtifact, error)

	Image *domain.ImageArtifact
	Err   error

	SynthesizeCalls struct {
		mu sync.Mutex

		Count   int
		Prompts []string
	}
}

var _ service.ImageSynthesizer = (*MockImageSynthesizer)(nil)

// Synthesize implements service.ImageSynthesizer
func (m *MockImageSynthesizer) Synthesize(ctx context.Context, prompt string) (*domain.ImageArtifact, error) {
	m.SynthesizeCalls.mu.Lock()
	m.SynthesizeCalls.Count++
	m.SynthesizeCalls.Prompts = append(m.SynthesizeCalls.Prompts, prompt)
	m.SynthesizeCalls.mu.Unlock()

	if m.SynthesizeFn != nil {
		return m.SynthesizeFn(ctx, prompt)
	}
	return m.Image, m.Err
}
