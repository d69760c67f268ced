package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/bouquet-api/internal/config"
	"github.com/phrazzld/bouquet-api/internal/generation"
	"google.golang.org/genai"
)

// ChatModel implements generation.ChatModel over the Gemini API.
type ChatModel struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

var _ generation.ChatModel = (*ChatModel)(nil)

// NewChatModel creates a Gemini-backed ChatModel. cfg.Endpoint, when set,
// replaces the API base URL.
func NewChatModel(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*ChatModel, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if err := validateConfig(ctx, logger, cfg); err != nil {
		return nil, err
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	logger.InfoContext(ctx, "Gemini chat model initialized", "model", cfg.ModelName)

	return &ChatModel{
		logger: logger,
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Complete sends one system instruction and one user message and returns the
// text of the first candidate.
func (m *ChatModel) Complete(ctx context.Context, req generation.ChatRequest) (string, error) {
	temperature := req.Temperature
	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		},
		Temperature: &temperature,
	}
	if req.JSONOutput {
		genConfig.ResponseMIMEType = "application/json"
		genConfig.ResponseSchema = planSchema()
	}

	m.logger.DebugContext(ctx, "Calling Gemini",
		"model", m.model,
		"json_output", req.JSONOutput,
		"message_length", len(req.UserMessage))

	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(req.UserMessage), genConfig)
	if err != nil {
		return "", fmt.Errorf("%w: %w", generation.ErrTransport, err)
	}

	return responseText(resp)
}

// responseText concatenates the text parts of the first candidate and maps
// safety stops and empty replies to generation errors.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrEmptyResponse)
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, fb.BlockReason)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", generation.ErrEmptyResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: reply stopped by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: candidate has no content", generation.ErrEmptyResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}

	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("%w: candidate has no text", generation.ErrEmptyResponse)
	}
	return b.String(), nil
}
