package embedder

import "context"

// Client generates vector embeddings for text.
type Client interface {
	// Embed generates embeddings for the given texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the dimensionality of produced vectors.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

// Config holds common embedder configuration.
type Config struct {
	Model      string
	BaseURL    string
	APIKey     string
	Dimensions int
	BatchSize  int
}
