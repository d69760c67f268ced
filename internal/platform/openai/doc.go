// Package openai adapts any OpenAI-compatible chat-completions endpoint
// (OpenAI, Azure, Ollama, vLLM and similar gateways) to the
// generation.ChatModel interface.
package openai
