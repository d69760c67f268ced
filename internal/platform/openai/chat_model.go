package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/bouquet-api/internal/config"
	"github.com/phrazzld/bouquet-api/internal/generation"
)

// DefaultBaseURL is used when no endpoint is configured.
const DefaultBaseURL = "https://api.openai.com/v1"

// maxErrorBody caps how much of an error response is kept in the error text.
const maxErrorBody = 2048

// ChatModel implements generation.ChatModel over the chat completions API.
type ChatModel struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

var _ generation.ChatModel = (*ChatModel)(nil)

// NewChatModel creates a ChatModel. A nil client uses http.DefaultClient;
// per-call deadlines come from the request context.
func NewChatModel(logger *slog.Logger, client *http.Client, cfg config.LLMConfig) (*ChatModel, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if client == nil {
		client = http.DefaultClient
	}

	baseURL := DefaultBaseURL
	if cfg.Endpoint != "" {
		baseURL = strings.TrimRight(cfg.Endpoint, "/")
	}

	return &ChatModel{
		logger:  logger,
		client:  client,
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.ModelName,
	}, nil
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float32         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete posts one system and one user message and returns the first
// choice's content.
func (m *ChatModel) Complete(ctx context.Context, req generation.ChatRequest) (string, error) {
	body := chatRequest{
		Model: m.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemInstruction},
			{Role: "user", Content: req.UserMessage},
		},
		Temperature: req.Temperature,
	}
	if req.JSONOutput {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/chat/completions", bytes.NewReader(bodyJSON))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)

	m.logger.DebugContext(ctx, "Calling chat completions",
		"model", m.model,
		"json_output", req.JSONOutput,
		"message_length", len(req.UserMessage))

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: http request: %w", generation.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", generation.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: api error (status %d): %s",
			generation.ErrTransport, resp.StatusCode, truncate(respBody, maxErrorBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %w", generation.ErrTransport, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%w: api error: %s", generation.ErrTransport, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", generation.ErrEmptyResponse)
	}

	choice := parsed.Choices[0]
	if choice.FinishReason == "content_filter" {
		return "", fmt.Errorf("%w: reply stopped by content filter", generation.ErrContentBlocked)
	}
	if strings.TrimSpace(choice.Message.Content) == "" {
		return "", fmt.Errorf("%w: empty message content", generation.ErrEmptyResponse)
	}

	return choice.Message.Content, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
