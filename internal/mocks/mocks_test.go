package mocks_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/phrazzld/bouquet-api/internal/domain"
	"github.com/phrazzld/bouquet-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockPlanGenerator(t *testing.T) {
	t.Parallel()

	t.Run("default plan", func(t *testing.T) {
		t.Parallel()

		gen := mocks.NewMockPlanGeneratorWithDefaultPlan()
		plan, err := gen.Generate(context.Background(), "roses")

		require.NoError(t, err)
		assert.Len(t, plan.ShoppingList.Flowers, 2)
		assert.True(t, plan.HasImagePrompt())
		assert.Equal(t, 1, gen.GenerateCalls.Count)
		assert.Equal(t, []string{"roses"}, gen.GenerateCalls.Descriptions)
	})

	t.Run("custom function wins over defaults", func(t *testing.T) {
		t.Parallel()

		gen := mocks.NewMockPlanGeneratorWithError(errors.New("unused"))
		gen.GenerateFn = func(_ context.Context, description string) (*domain.BouquetPlan, error) {
			return &domain.BouquetPlan{ImagePrompt: description}, nil
		}

		plan, err := gen.Generate(context.Background(), "lilies")
		require.NoError(t, err)
		assert.Equal(t, "lilies", plan.ImagePrompt)
	})

	t.Run("concurrent calls are counted", func(t *testing.T) {
		t.Parallel()

		gen := mocks.NewMockPlanGeneratorWithDefaultPlan()
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = gen.Generate(context.Background(), "x")
			}()
		}
		wg.Wait()

		assert.Equal(t, 10, gen.GenerateCalls.Count)
	})
}

func TestMockBouquetServiceLastRequest(t *testing.T) {
	t.Parallel()

	svc := &mocks.MockBouquetService{}
	assert.Equal(t, domain.BouquetRequest{}, svc.LastRequest())

	_, _ = svc.Generate(context.Background(), domain.NewBouquetRequest("first"))
	_, _ = svc.Generate(context.Background(), domain.NewBouquetRequest("second"))

	assert.Equal(t, "second", svc.LastRequest().Description)
	assert.Equal(t, 2, svc.GenerateCalls.Count)
}
