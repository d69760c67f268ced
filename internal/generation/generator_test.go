package generation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/bouquet-api/internal/domain"
	"github.com/phrazzld/bouquet-api/internal/generation"
	"github.com/phrazzld/bouquet-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedModel returns its replies in order, repeating the last one.
type scriptedModel struct {
	mu       sync.Mutex
	replies  []string
	err      error
	requests []generation.ChatRequest
}

func (m *scriptedModel) Complete(ctx context.Context, req generation.ChatRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	i := len(m.requests) - 1
	if i >= len(m.replies) {
		i = len(m.replies) - 1
	}
	return m.replies[i], nil
}

func (m *scriptedModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func fastOptions() generation.Options {
	return generation.Options{
		Temperature:      0.7,
		InstructionSteps: 4,
		StructuredOutput: true,
		Retry:            generation.RetryPolicy{MaxAttempts: 3},
	}
}

func newGenerator(t *testing.T, model generation.ChatModel, opts generation.Options) *generation.PlanGenerator {
	t.Helper()
	gen, err := generation.NewPlanGenerator(model, logger.NewDiscardLogger(), opts)
	require.NoError(t, err)
	return gen
}

const rosesReply = `{"shopping_list":{"flowers":{"ורד אדום":12},"decorations":{}},` +
	`"arrangement_instructions":["a","b","c","d"],"image_prompt":"red roses bouquet"}`

func TestNewPlanGeneratorValidation(t *testing.T) {
	t.Parallel()

	_, err := generation.NewPlanGenerator(nil, logger.NewDiscardLogger(), fastOptions())
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = generation.NewPlanGenerator(&scriptedModel{}, nil, fastOptions())
	assert.Error(t, err)

	opts := fastOptions()
	opts.Temperature = -1
	_, err = generation.NewPlanGenerator(&scriptedModel{}, logger.NewDiscardLogger(), opts)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestGenerateWellFormedReply(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{replies: []string{rosesReply}}
	gen := newGenerator(t, model, fastOptions())

	plan, err := gen.Generate(context.Background(), "זר ורדים אדומים ליום הולדת")
	require.NoError(t, err)

	assert.Equal(t, []domain.LineItem{{Name: "ורד אדום", Quantity: 12}}, plan.ShoppingList.Flowers)
	assert.Empty(t, plan.ShoppingList.Decorations)
	assert.Len(t, plan.ArrangementInstructions, 4)
	assert.Equal(t, "red roses bouquet", plan.ImagePrompt)

	require.Equal(t, 1, model.calls())
	req := model.requests[0]
	assert.Contains(t, req.UserMessage, "זר ורדים אדומים ליום הולדת")
	assert.Contains(t, req.SystemInstruction, "image_prompt")
	assert.InDelta(t, 0.7, req.Temperature, 0.0001)
	assert.True(t, req.JSONOutput)
}

func TestGenerateReplyWrappedInProse(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{replies: []string{"Here is your plan:\n```json\n" + rosesReply + "\n```\nEnjoy!"}}
	gen := newGenerator(t, model, fastOptions())

	plan, err := gen.Generate(context.Background(), "roses")
	require.NoError(t, err)
	assert.Equal(t, "red roses bouquet", plan.ImagePrompt)
	assert.Equal(t, 1, model.calls())
}

func TestGenerateFencedReplyWithBackticksInStrings(t *testing.T) {
	t.Parallel()

	reply := "```json\n" +
		`{"shopping_list":{"flowers":{"ורד":5}},` +
		`"arrangement_instructions":["wrap the stems like a ` + "```" + ` code block"],` +
		`"image_prompt":"roses"}` +
		"\n```"
	model := &scriptedModel{replies: []string{reply}}

	plan, err := newGenerator(t, model, fastOptions()).Generate(context.Background(), "roses")

	require.NoError(t, err)
	assert.Equal(t, 1, model.calls())
	assert.Equal(t, []string{"wrap the stems like a ``` code block"}, plan.ArrangementInstructions)
	assert.Equal(t, "roses", plan.ImagePrompt)
}

func TestGenerateRetriesMalformedJSON(t *testing.T) {
	t.Parallel()

	t.Run("recovers on a later attempt", func(t *testing.T) {
		model := &scriptedModel{replies: []string{`{"shopping_list": {`, rosesReply}}
		gen := newGenerator(t, model, fastOptions())

		plan, err := gen.Generate(context.Background(), "roses")
		require.NoError(t, err)
		assert.Equal(t, "red roses bouquet", plan.ImagePrompt)
		assert.Equal(t, 2, model.calls())
	})

	t.Run("fails after the attempt budget", func(t *testing.T) {
		model := &scriptedModel{replies: []string{`{"shopping_list": {"flowers": }`}}
		gen := newGenerator(t, model, fastOptions())

		plan, err := gen.Generate(context.Background(), "roses")
		assert.Nil(t, plan)
		assert.ErrorIs(t, err, generation.ErrGenerationFailed)
		assert.ErrorIs(t, err, generation.ErrInvalidJSON)
		assert.Contains(t, err.Error(), "3 attempts")
		assert.Equal(t, 3, model.calls())
	})
}

func TestGenerateNoJSONFailsImmediately(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{replies: []string{"I'm sorry, I can only talk about flowers."}}
	gen := newGenerator(t, model, fastOptions())

	_, err := gen.Generate(context.Background(), "roses")
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)
	assert.ErrorIs(t, err, generation.ErrNoJSONFound)
	assert.Equal(t, 1, model.calls())
}

func TestGenerateNoJSONRetriedWhenEnabled(t *testing.T) {
	t.Parallel()

	opts := fastOptions()
	opts.Retry.RetryOnMissingJSON = true

	model := &scriptedModel{replies: []string{"thinking...", rosesReply}}
	gen := newGenerator(t, model, opts)

	_, err := gen.Generate(context.Background(), "roses")
	require.NoError(t, err)
	assert.Equal(t, 2, model.calls())
}

func TestGenerateTransportErrorNotRetried(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: connection refused")
	model := &scriptedModel{err: cause}
	gen := newGenerator(t, model, fastOptions())

	_, err := gen.Generate(context.Background(), "roses")
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)
	assert.ErrorIs(t, err, generation.ErrTransport)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, model.calls())
}

func TestGenerateContentBlocked(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{err: generation.ErrContentBlocked}
	gen := newGenerator(t, model, fastOptions())

	_, err := gen.Generate(context.Background(), "roses")
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)
	assert.ErrorIs(t, err, generation.ErrContentBlocked)
	assert.NotErrorIs(t, err, generation.ErrTransport)
}

func TestGenerateStopsWaitingOnCancel(t *testing.T) {
	t.Parallel()

	opts := fastOptions()
	opts.Retry.BaseDelay = time.Hour

	model := &scriptedModel{replies: []string{`{bad`}}
	gen := newGenerator(t, model, opts)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := gen.Generate(ctx, "roses")
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)
	assert.Less(t, time.Since(start), time.Minute)
	assert.Equal(t, 1, model.calls())
}

func TestGenerateDefaultsMissingFields(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{replies: []string{`{"image_prompt": "white lilies"}`}}
	gen := newGenerator(t, model, fastOptions())

	plan, err := gen.Generate(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, plan.ShoppingList.Flowers)
	assert.Empty(t, plan.ArrangementInstructions)
	assert.True(t, plan.HasImagePrompt())
}
