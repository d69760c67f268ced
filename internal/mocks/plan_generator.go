package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/bouquet-api/internal/domain"
	"github.com/phrazzld/bouquet-api/internal/service"
)

// MockPlanGenerator implements service.PlanGenerator for testing
type MockPlanGenerator struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, description string) (*domain.BouquetPlan, error)

	// Default response values
	Plan *domain.BouquetPlan
	Err  error

	// Call tracking for verification
	GenerateCalls struct {
		mu sync.Mutex

		Count        int
		Descriptions []string
	}
}

var _ service.PlanGenerator = (*MockPlanGenerator)(nil)

// Generate implements service.PlanGenerator
func (m *MockPlanGenerator) Generate(ctx context.Context, description string) (*domain.BouquetPlan, error) {
	m.GenerateCalls.mu.Lock()
	m.GenerateCalls.Count++
	m.GenerateCalls.Descriptions = append(m.GenerateCalls.Descriptions, description)
	m.GenerateCalls.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, description)
	}
	return m.Plan, m.Err
}

// NewMockPlanGeneratorWithPlan creates a MockPlanGenerator that returns plan
func NewMockPlanGeneratorWithPlan(plan *domain.BouquetPlan) *MockPlanGenerator {
	return &MockPlanGenerator{Plan: plan}
}

// NewMockPlanGeneratorWithError creates a MockPlanGenerator that fails with err
func NewMockPlanGeneratorWithError(err error) *MockPlanGenerator {
	return &MockPlanGenerator{Err: err}
}

// NewMockPlanGeneratorWithDefaultPlan creates a MockPlanGenerator with a
// small sample plan.
func NewMockPlanGeneratorWithDefaultPlan() *MockPlanGenerator {
	return NewMockPlanGeneratorWithPlan(&domain.BouquetPlan{
		ShoppingList: domain.ShoppingList{
			Flowers: []domain.LineItem{
				{Name: "ורד אדום", Quantity: 12},
				{Name: "אקליפטוס", Quantity: 3},
			},
			Decorations: []domain.LineItem{{Name: "סרט סאטן", Quantity: 1}},
		},
		ArrangementInstructions: []string{"חתכו את הגבעולים", "סדרו במעגל", "קשרו", "עטפו"},
		ImagePrompt:             "a bouquet of red roses with eucalyptus",
	})
}
