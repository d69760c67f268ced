// Package huggingface calls the Hugging Face inference API for text-to-image
// models.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/phrazzld/bouquet-api/internal/config"
)

// DefaultEndpoint is the inference router used when none is configured.
const DefaultEndpoint = "https://router.huggingface.co/hf-inference/models"

// maxImageBytes is the default cap on a successful response body.
const maxImageBytes = 32 << 20

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 2048

// ErrEmptyImage is returned when the service answers 200 with no bytes.
var ErrEmptyImage = errors.New("image service returned an empty body")

// ErrImageTooLarge is returned when the image exceeds the configured size cap.
var ErrImageTooLarge = errors.New("image service response exceeds size limit")

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("image service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("image service returned status %d: %s", e.StatusCode, e.Body)
}

// Client renders prompts into images with one configured model.
type Client struct {
	http         *http.Client
	url          string
	apiKey       string
	waitForModel bool
	maxBytes     int64
}

// NewClient creates a Client. A nil httpClient uses http.DefaultClient.
func NewClient(cfg config.ImageConfig, httpClient *http.Client) (*Client, error) {
	if cfg.Model == "" {
		return nil, errors.New("image model cannot be empty")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	endpoint := DefaultEndpoint
	if cfg.Endpoint != "" {
		endpoint = cfg.Endpoint
	}

	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = maxImageBytes
	}

	return &Client{
		http:         httpClient,
		url:          strings.TrimRight(endpoint, "/") + "/" + strings.TrimLeft(cfg.Model, "/"),
		apiKey:       cfg.APIKey,
		waitForModel: cfg.WaitForModel,
		maxBytes:     maxBytes,
	}, nil
}

type inferenceRequest struct {
	Inputs  string           `json:"inputs"`
	Options inferenceOptions `json:"options"`
}

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// Render posts the prompt and returns the image bytes with the response's
// Content-Type. Non-2xx answers return a *StatusError.
func (c *Client) Render(ctx context.Context, prompt string) ([]byte, string, error) {
	body, err := json.Marshal(inferenceRequest{
		Inputs:  prompt,
		Options: inferenceOptions{WaitForModel: c.waitForModel},
	})
	if err != nil {
		return nil, "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, "", &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(errBody)),
		}
	}

	// One byte past the cap tells a full-size image from a truncated one.
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, "", fmt.Errorf("%w: more than %d bytes", ErrImageTooLarge, c.maxBytes)
	}
	if len(data) == 0 {
		return nil, "", ErrEmptyImage
	}

	return data, resp.Header.Get("Content-Type"), nil
}
