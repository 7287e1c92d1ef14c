package embedder

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is the embedding model used when none is configured.
	DefaultModel = "text-embedding-3-small"
	// DefaultBatchSize bounds texts per embedding request.
	DefaultBatchSize = 100
)

// OpenAIClient implements Client against an OpenAI-compatible API.
type OpenAIClient struct {
	client *openai.Client
	config Config
}

// NewOpenAIClient creates an embedding client. BaseURL may point at any
// OpenAI-compatible endpoint.
func NewOpenAIClient(config Config) *OpenAIClient {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

// Embed generates embeddings for the given texts, batching requests to
// the provider limit.
func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.config.BatchSize {
		end := start + c.config.BatchSize
		if end > len(texts) {
			end = len(texts)
		}

		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts[start:end],
			Model: openai.EmbeddingModel(c.config.Model),
		})
		if err != nil {
			return nil, fmt.Errorf("create embeddings: %w", err)
		}
		for _, item := range resp.Data {
			embeddings = append(embeddings, item.Embedding)
		}
	}

	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d texts", len(embeddings), len(texts))
	}
	return embeddings, nil
}

// EmbedSingle generates an embedding for a single text.
func (c *OpenAIClient) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return embeddings[0], nil
}

// Dimensions returns the configured vector dimensionality.
func (c *OpenAIClient) Dimensions() int {
	return c.config.Dimensions
}

// Close cleans up any resources.
func (c *OpenAIClient) Close() error {
	return nil
}
