package generation

import "context"

// ChatRequest is a single chat-completion call: one system instruction and
// one user message.
type ChatRequest struct {
	SystemInstruction string
	UserMessage       string
	Temperature       float32

	// JSONOutput asks the provider for schema-constrained JSON when it
	// supports it. Replies still go through ExtractJSON.
	JSONOutput bool
}

// ChatModel is the boundary between plan generation and a language-model
// provider.
type ChatModel interface {
	// Complete sends the request and returns the model's raw text reply.
	// Errors describe transport or provider failures; the reply itself is
	// never validated here.
	Complete(ctx context.Context, req ChatRequest) (string, error)
}
