package devgraph

import (
	"context"
	"log/slog"
	"time"

	"github.com/devgraph-ai/devgraph/pkg/config"
	"github.com/devgraph-ai/devgraph/pkg/embedder"
	"github.com/devgraph-ai/devgraph/pkg/extract"
	"github.com/devgraph-ai/devgraph/pkg/graph"
	"github.com/devgraph-ai/devgraph/pkg/ingest"
	"github.com/devgraph-ai/devgraph/pkg/llm"
	"github.com/devgraph-ai/devgraph/pkg/query"
	"github.com/devgraph-ai/devgraph/pkg/ripple"
	"github.com/devgraph-ai/devgraph/pkg/synth"
	"github.com/devgraph-ai/devgraph/pkg/types"
)

// Client is the main implementation of the DevGraph interface.
type Client struct {
	store    *graph.Store
	index    *embedder.Index
	llm      llm.Client
	embedder embedder.Client
	ingestor *ingest.Ingestor
	engine   *query.Engine
	detector *ripple.Detector
	logger   *slog.Logger
}

// Option customizes client construction.
type Option func(*options)

type options struct {
	llmClient   llm.Client
	embedClient embedder.Client
	extractor   extract.Extractor
	synthesizer synth.Synthesizer
	logger      *slog.Logger
}

// WithLLMClient substitutes the chat client, bypassing the configured
// OpenAI wiring.
func WithLLMClient(c llm.Client) Option {
	return func(o *options) { o.llmClient = c }
}

// WithEmbedderClient substitutes the embedding client.
func WithEmbedderClient(c embedder.Client) Option {
	return func(o *options) { o.embedClient = c }
}

// WithExtractor substitutes the extraction capability.
func WithExtractor(e extract.Extractor) Option {
	return func(o *options) { o.extractor = e }
}

// WithSynthesizer substitutes the synthesis capability.
func WithSynthesizer(s synth.Synthesizer) Option {
	return func(o *options) { o.synthesizer = s }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New wires a client from configuration. The chat client carries retry
// and, when enabled, circuit breaking; extraction and synthesis share
// it.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	llmClient := o.llmClient
	if llmClient == nil {
		llmClient = llm.NewRetryClient(llm.NewOpenAIClient(llm.Config{
			Model:       cfg.LLM.Model,
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		}), nil)
		if cfg.CircuitBreaker.Enabled {
			llmClient = llm.NewCircuitBreakerClient(llmClient, llm.BreakerConfig{
				Enabled:          true,
				MaxRequests:      cfg.CircuitBreaker.MaxRequests,
				Interval:         time.Duration(cfg.CircuitBreaker.Interval) * time.Second,
				Timeout:          time.Duration(cfg.CircuitBreaker.Timeout) * time.Second,
				ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
			}, "llm", o.logger)
		}
	}

	embedClient := o.embedClient
	if embedClient == nil {
		embedClient = embedder.NewOpenAIClient(embedder.Config{
			Model:      cfg.Embedding.Model,
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Dimensions: cfg.Embedding.Dimensions,
			BatchSize:  cfg.Embedding.BatchSize,
		})
	}

	extractor := o.extractor
	if extractor == nil {
		extractor = extract.NewLLMExtractor(llmClient, o.logger)
	}
	synthesizer := o.synthesizer
	if synthesizer == nil {
		synthesizer = synth.NewLLMSynthesizer(llmClient)
	}

	store := graph.NewStore()
	index := embedder.NewIndex(embedClient)

	return &Client{
		store:    store,
		index:    index,
		llm:      llmClient,
		embedder: embedClient,
		ingestor: ingest.New(store, index, extractor, o.logger, cfg.Ingest.MaxConcurrency),
		engine: query.NewEngine(store, index, synthesizer, o.logger, query.Options{
			TopK:         cfg.Query.TopK,
			MinRelevance: cfg.Query.MinRelevance,
		}),
		detector: ripple.NewDetector(store, synthesizer, o.logger, ripple.Options{
			MaxDepth:       cfg.Ripple.MaxDepth,
			MaxConcurrency: cfg.Ripple.MaxConcurrency,
			EvalTimeout:    time.Duration(cfg.Ripple.EvalTimeout) * time.Second,
		}),
		logger: o.logger,
	}, nil
}

// Ingest merges one record into the graph and index.
func (c *Client) Ingest(ctx context.Context, record *types.IngestRecord) (*ingest.Result, error) {
	return c.ingestor.Ingest(ctx, record)
}

// IngestBatch merges independent records concurrently.
func (c *Client) IngestBatch(ctx context.Context, records []*types.IngestRecord) *ingest.BatchResult {
	return c.ingestor.IngestBatch(ctx, records)
}

// Query runs hybrid retrieval and grounded synthesis.
func (c *Client) Query(ctx context.Context, question string) (*query.Result, error) {
	return c.engine.Query(ctx, question)
}

// DetectRipple judges every artifact downstream of a change.
func (c *Client) DetectRipple(ctx context.Context, changedID, change string) (*ripple.Report, error) {
	return c.detector.DetectRipple(ctx, changedID, change)
}

// GetArtifact retrieves one artifact by id.
func (c *Client) GetArtifact(id string) (*types.Artifact, error) {
	return c.store.Get(id)
}

// Neighbors lists artifacts adjacent to id.
func (c *Client) Neighbors(id string, opts graph.NeighborOptions) ([]*types.Artifact, error) {
	return c.store.Neighbors(id, opts)
}

// Resolve maps a natural key to an artifact id, if present.
func (c *Client) Resolve(naturalKey string) (string, bool) {
	return c.store.Resolve(naturalKey)
}

// Stats summarizes the graph.
func (c *Client) Stats() graph.Stats {
	return c.store.Stats()
}

// AddArtifact inserts or deduplicates an artifact and indexes its text.
// Person nodes are not indexed; their names reach queries through graph
// expansion instead.
func (c *Client) AddArtifact(ctx context.Context, artifact *types.Artifact) (string, error) {
	id, err := c.store.UpsertArtifact(artifact)
	if err != nil {
		return "", err
	}
	if artifact.Kind != types.KindPerson {
		if err := c.index.Upsert(ctx, id, artifact.Text); err != nil {
			return "", err
		}
	}
	return id, nil
}

// AddRelationship adds a typed edge between existing artifacts.
func (c *Client) AddRelationship(fromID, toID string, kind types.RelationKind) error {
	return c.store.AddRelationship(fromID, toID, kind)
}

// Close releases the underlying model clients.
func (c *Client) Close() error {
	if err := c.llm.Close(); err != nil {
		return err
	}
	return c.embedder.Close()
}
