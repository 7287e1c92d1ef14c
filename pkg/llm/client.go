package llm

import (
	"context"

	"github.com/devgraph-ai/devgraph/pkg/types"
)

// Client is the narrow chat interface the core depends on.
type Client interface {
	// Chat sends a chat completion request and returns the response.
	Chat(ctx context.Context, messages []types.Message) (*types.Response, error)

	// Close cleans up any resources.
	Close() error
}

// Config holds configuration for an LLM client.
type Config struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	MaxTokens   int
}
