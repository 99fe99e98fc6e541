package interfaces

import (
	"context"
)

// LLMProvider identifies which hosted model backs the LLM service.
type LLMProvider string

const (
	// LLMProviderGemini uses the Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"

	// LLMProviderClaude uses the Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// LLMService defines the interface for language model operations: embedding
// generation and chat completions. The generation side returns an untyped
// string; callers own all parse-with-fallback handling of structured output.
type LLMService interface {
	// Embed generates a fixed-dimension embedding vector for the given text.
	// Providers without an embedding model return an error.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Chat generates a completion response for the conversation history.
	// The messages slice should contain the full context in chronological
	// order including system prompts.
	Chat(ctx context.Context, messages []Message) (string, error)

	// HealthCheck verifies the provider is reachable and can serve requests.
	HealthCheck(ctx context.Context) error

	// Provider returns which hosted model backs this service.
	Provider() LLMProvider

	// Close releases client resources.
	Close() error
}
