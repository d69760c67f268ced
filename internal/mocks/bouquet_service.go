package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/bouquet-api/internal/domain"
	"github.com/phrazzld/bouquet-api/internal/service"
)

// MockBouquetService implements service.BouquetService for testing
type MockBouquetService struct {
	GenerateFn func(ctx context.Context, req domain.BouquetRequest) (*domain.BouquetResult, error)

	Result *domain.BouquetResult
	Err    error

	GenerateCalls struct {
		mu sync.Mutex

		Count    int
		Requests []domain.BouquetRequest
	}
}

var _ service.BouquetService = (*MockBouquetService)(nil)

// Generate implements service.BouquetService
func (m *MockBouquetService) Generate(ctx context.Context, req domain.BouquetRequest) (*domain.BouquetResult, error) {
	m.GenerateCalls.mu.Lock()
	m.GenerateCalls.Count++
	m.GenerateCalls.Requests = append(m.GenerateCalls.Requests, req)
	m.GenerateCalls.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, req)
	}
	return m.Result, m.Err
}

// LastRequest returns the most recent request, or the zero request if
// Generate was never called.
func (m *MockBouquetService) LastRequest() domain.BouquetRequest {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()
	if len(m.GenerateCalls.Requests) == 0 {
		return domain.BouquetRequest{}
	}
	return m.GenerateCalls.Requests[len(m.GenerateCalls.Requests)-1]
}
