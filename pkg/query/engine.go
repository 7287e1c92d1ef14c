package query

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/devgraph-ai/devgraph/pkg/embedder"
	"github.com/devgraph-ai/devgraph/pkg/graph"
	"github.com/devgraph-ai/devgraph/pkg/synth"
	"github.com/devgraph-ai/devgraph/pkg/types"
)

const (
	// DefaultTopK is the number of vector hits seeding retrieval.
	DefaultTopK = 5
	// DefaultMinRelevance drops vector hits below this cosine score.
	DefaultMinRelevance = 0.25
)

// expansionKinds are the edges followed one hop out from each vector
// hit to assemble answer context.
var expansionKinds = []types.RelationKind{
	types.RelationContains,
	types.RelationDiscusses,
	types.RelationMadeBy,
	types.RelationRelatesTo,
	types.RelationFollowsUp,
}

// Source is one artifact the answer is grounded in.
type Source struct {
	ID    string     `json:"id"`
	Kind  types.Kind `json:"kind"`
	Text  string     `json:"text"`
	Score float64    `json:"score"`
}

// Result is the outcome of one question. Found is false when nothing
// relevant exists in the graph; that is an answer, not an error.
type Result struct {
	Answer    string   `json:"answer"`
	Sources   []Source `json:"sources"`
	Found     bool     `json:"found"`
	LatencyMS int64    `json:"latency_ms"`
}

// Options tune retrieval behavior.
type Options struct {
	TopK         int
	MinRelevance float64
}

// Engine runs hybrid retrieval and synthesis.
type Engine struct {
	store        *graph.Store
	index        *embedder.Index
	synthesizer  synth.Synthesizer
	logger       *slog.Logger
	topK         int
	minRelevance float64
}

// NewEngine creates a query engine. Zero options fall back to defaults.
func NewEngine(store *graph.Store, index *embedder.Index, synthesizer synth.Synthesizer, logger *slog.Logger, opts Options) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.MinRelevance <= 0 {
		opts.MinRelevance = DefaultMinRelevance
	}
	return &Engine{
		store:        store,
		index:        index,
		synthesizer:  synthesizer,
		logger:       logger,
		topK:         opts.TopK,
		minRelevance: opts.MinRelevance,
	}
}

// Query answers a question. The returned sources list only the
// artifacts the synthesis actually relied on, never the full candidate
// set.
func (e *Engine) Query(ctx context.Context, question string) (*Result, error) {
	start := time.Now()

	// An empty question can match nothing; that is the no-answer
	// outcome, not a failure.
	if strings.TrimSpace(question) == "" {
		return &Result{
			Answer:    "No relevant information found in the knowledge graph.",
			Found:     false,
			LatencyMS: time.Since(start).Milliseconds(),
		}, nil
	}

	hits, err := e.index.Search(ctx, question, e.topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	candidates := e.expand(hits)
	if len(candidates) == 0 {
		e.logger.Info("no relevant artifacts", "question", question)
		return &Result{
			Answer:    "No relevant information found in the knowledge graph.",
			Found:     false,
			LatencyMS: time.Since(start).Milliseconds(),
		}, nil
	}

	bundle := make([]synth.BundleItem, len(candidates))
	for i, c := range candidates {
		bundle[i] = synth.BundleItem{
			ID:      c.artifact.ID,
			Kind:    c.artifact.Kind,
			Text:    c.artifact.Text,
			Context: c.context,
		}
	}

	synthesized, err := e.synthesizer.Synthesize(ctx, question, bundle)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]candidate, len(candidates))
	for _, c := range candidates {
		byID[c.artifact.ID] = c
	}
	sources := make([]Source, 0, len(synthesized.UsedIDs))
	for _, id := range synthesized.UsedIDs {
		c, ok := byID[id]
		if !ok {
			continue
		}
		sources = append(sources, Source{
			ID:    c.artifact.ID,
			Kind:  c.artifact.Kind,
			Text:  c.artifact.Text,
			Score: c.score,
		})
	}

	result := &Result{
		Answer:    synthesized.Text,
		Sources:   sources,
		Found:     true,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	e.logger.Info("answered question",
		"question", question,
		"candidates", len(candidates),
		"sources", len(sources),
		"latency_ms", result.LatencyMS)
	return result, nil
}

type candidate struct {
	artifact *types.Artifact
	score    float64
	context  string
}

// expand filters vector hits by the relevance floor and pulls in each
// hit's one-hop neighborhood. Direct hits keep their vector score;
// expansion-only artifacts carry score zero and are ranked after the
// hits, newest first.
func (e *Engine) expand(hits []embedder.ScoredID) []candidate {
	seen := make(map[string]bool)
	var out []candidate

	for _, hit := range hits {
		if hit.Score < e.minRelevance {
			continue
		}
		artifact, err := e.store.Get(hit.ID)
		if err != nil {
			// Index entries can outlive their artifacts only through
			// caller misuse; skip rather than fail the whole query.
			e.logger.Warn("indexed id missing from graph", "id", hit.ID)
			continue
		}
		if !seen[artifact.ID] {
			seen[artifact.ID] = true
			out = append(out, candidate{artifact: artifact, score: hit.Score, context: e.describe(artifact)})
		}

		neighbors, err := e.store.Neighbors(hit.ID, graph.NeighborOptions{
			Kinds:     expansionKinds,
			Direction: types.DirectionBoth,
		})
		if err != nil {
			continue
		}
		for _, n := range neighbors {
			if n.Kind == types.KindPerson || seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			out = append(out, candidate{artifact: n, context: e.describe(n)})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].artifact.CreatedAt.After(out[j].artifact.CreatedAt)
	})
	return out
}

// describe renders graph context the model can ground on: the people
// attached to the artifact and, for action items and blockers, the
// current lifecycle state.
func (e *Engine) describe(a *types.Artifact) string {
	var parts []string

	switch a.Kind {
	case types.KindDecision:
		if makers, err := e.store.Neighbors(a.ID, graph.NeighborOptions{
			Kinds:     []types.RelationKind{types.RelationMadeBy},
			Direction: types.DirectionOutgoing,
		}); err == nil {
			for _, m := range makers {
				parts = append(parts, "decided by "+m.Name)
			}
		}
	case types.KindActionItem:
		if a.Assignee != "" {
			parts = append(parts, "assigned to "+a.Assignee)
		}
		if a.Status != "" {
			parts = append(parts, "status "+string(a.Status))
		}
	case types.KindBlocker:
		if a.Severity != "" {
			parts = append(parts, "severity "+a.Severity)
		}
		if a.ResolvedAt != nil {
			parts = append(parts, "resolved "+a.ResolvedAt.Format("2006-01-02"))
		} else {
			parts = append(parts, "unresolved")
		}
	}
	if !a.CreatedAt.IsZero() {
		parts = append(parts, "recorded "+a.CreatedAt.Format("2006-01-02"))
	}
	return strings.Join(parts, ", ")
}
