package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/devgraph-ai/devgraph/pkg/embedder"
	"github.com/devgraph-ai/devgraph/pkg/extract"
	"github.com/devgraph-ai/devgraph/pkg/graph"
	"github.com/devgraph-ai/devgraph/pkg/types"
	"github.com/devgraph-ai/devgraph/pkg/utils"
)

// Result summarizes one ingested record.
type Result struct {
	SourceID    string   `json:"source_id"`
	ArtifactIDs []string `json:"artifact_ids"`
	// StatusUpdates counts mutations applied to existing artifacts.
	StatusUpdates int `json:"status_updates"`
}

// BatchResult holds per-record outcomes of a batch load, index-aligned
// with the input records.
type BatchResult struct {
	Results []*Result `json:"results"`
	Errors  []error   `json:"-"`
}

// Succeeded counts records ingested without error.
func (b *BatchResult) Succeeded() int {
	n := 0
	for _, err := range b.Errors {
		if err == nil {
			n++
		}
	}
	return n
}

// Ingestor merges records into the graph store and embedding index.
type Ingestor struct {
	store          *graph.Store
	index          *embedder.Index
	extractor      extract.Extractor
	logger         *slog.Logger
	maxConcurrency int
}

// New creates an ingestor.
func New(store *graph.Store, index *embedder.Index, extractor extract.Extractor, logger *slog.Logger, maxConcurrency int) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		store:          store,
		index:          index,
		extractor:      extractor,
		logger:         logger,
		maxConcurrency: maxConcurrency,
	}
}

// Ingest merges one record. Artifact ids derive from natural keys, so
// ingesting the same record twice yields an identical graph.
func (g *Ingestor) Ingest(ctx context.Context, record *types.IngestRecord) (*Result, error) {
	if record == nil {
		return nil, &types.ValidationError{Field: "record", Reason: "record is nil"}
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	extraction, err := g.extractor.Extract(ctx, record.BodyText)
	if err != nil {
		return nil, fmt.Errorf("extract %q: %w", record.ID, err)
	}

	result := &Result{SourceID: record.ID}

	sourceID, err := g.store.UpsertArtifact(&types.Artifact{
		ID:         record.ID,
		Kind:       record.Kind,
		Text:       record.Title,
		CreatedAt:  record.Date,
		Confidence: 1.0,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert source %q: %w", record.ID, err)
	}
	if err := g.index.Upsert(ctx, sourceID, record.Title+"\n"+record.BodyText); err != nil {
		return nil, fmt.Errorf("index source %q: %w", record.ID, err)
	}

	for _, name := range record.Participants {
		personID, err := g.upsertPerson(name, "", sourceID)
		if err != nil {
			return nil, err
		}
		if err := g.store.AddRelationship(sourceID, personID, types.RelationRelatesTo); err != nil {
			return nil, err
		}
	}

	if err := g.mergeDecisions(ctx, record, sourceID, extraction.Decisions, result); err != nil {
		return nil, err
	}
	blockerIDs, err := g.mergeBlockers(ctx, record, sourceID, extraction.Blockers, result)
	if err != nil {
		return nil, err
	}
	if err := g.mergeActionItems(ctx, record, sourceID, extraction.ActionItems, blockerIDs, result); err != nil {
		return nil, err
	}
	if err := g.mergeTopics(ctx, record, sourceID, extraction.Topics, result); err != nil {
		return nil, err
	}

	g.logger.Info("ingested record",
		"source", record.ID,
		"artifacts", len(result.ArtifactIDs),
		"status_updates", result.StatusUpdates)
	return result, nil
}

// IngestBatch merges independent records concurrently. One bad record
// does not abort the batch; its error lands at its index in the result.
func (g *Ingestor) IngestBatch(ctx context.Context, records []*types.IngestRecord) *BatchResult {
	fns := make([]func() (*Result, error), len(records))
	for i, record := range records {
		record := record
		fns[i] = func() (*Result, error) {
			return g.Ingest(ctx, record)
		}
	}

	results, errs := utils.ExecuteWithResults(ctx, g.maxConcurrency, fns...)
	for i, err := range errs {
		if err != nil {
			g.logger.Warn("record rejected", "index", i, "error", err)
		}
	}
	return &BatchResult{Results: results, Errors: errs}
}

func (g *Ingestor) upsertPerson(name, role, sourceRef string) (string, error) {
	id, err := g.store.UpsertArtifact(&types.Artifact{
		Kind:       types.KindPerson,
		Name:       name,
		Role:       role,
		Text:       name,
		SourceRef:  sourceRef,
		Confidence: 1.0,
	})
	if err != nil {
		return "", fmt.Errorf("upsert person %q: %w", name, err)
	}
	return id, nil
}

func (g *Ingestor) mergeDecisions(ctx context.Context, record *types.IngestRecord, sourceID string, items []types.ExtractedItem, result *Result) error {
	for _, item := range items {
		id, err := g.store.UpsertArtifact(&types.Artifact{
			Kind:       types.KindDecision,
			Text:       item.Text,
			CreatedAt:  record.Date,
			Confidence: item.Confidence,
			SourceRef:  sourceID,
		})
		if err != nil {
			return err
		}
		if err := g.store.AddRelationship(sourceID, id, types.RelationContains); err != nil {
			return err
		}
		if item.LinkedPerson != "" {
			personID, err := g.upsertPerson(item.LinkedPerson, item.PersonRole, sourceID)
			if err != nil {
				return err
			}
			if err := g.store.AddRelationship(id, personID, types.RelationMadeBy); err != nil {
				return err
			}
		}
		if err := g.index.Upsert(ctx, id, item.Text); err != nil {
			return err
		}
		result.ArtifactIDs = append(result.ArtifactIDs, id)
	}
	return nil
}

func (g *Ingestor) mergeActionItems(ctx context.Context, record *types.IngestRecord, sourceID string, items []types.ExtractedItem, blockerIDs []string, result *Result) error {
	for _, item := range items {
		if item.StatusUpdate {
			if existing, ok := g.store.FindByText(types.KindActionItem, item.Text); ok {
				status := item.Status
				if status == "" {
					status = types.ActionOpen
				}
				if err := g.store.UpdateActionStatus(existing, status, sourceID); err != nil {
					return err
				}
				if err := g.store.AddRelationship(sourceID, existing, types.RelationDiscusses); err != nil {
					return err
				}
				result.StatusUpdates++
				continue
			}
			// No matching item; treat the report as a new action item.
		}

		id, err := g.store.UpsertArtifact(&types.Artifact{
			Kind:         types.KindActionItem,
			Text:         item.Text,
			CreatedAt:    record.Date,
			Confidence:   item.Confidence,
			SourceRef:    sourceID,
			Assignee:     item.LinkedPerson,
			Status:       item.Status,
			StatusSource: sourceID,
		})
		if err != nil {
			return err
		}
		if err := g.store.AddRelationship(sourceID, id, types.RelationContains); err != nil {
			return err
		}
		if item.LinkedPerson != "" {
			personID, err := g.upsertPerson(item.LinkedPerson, item.PersonRole, sourceID)
			if err != nil {
				return err
			}
			if err := g.store.AddRelationship(id, personID, types.RelationAssignedTo); err != nil {
				return err
			}
		}
		if item.Status == types.ActionBlocked {
			for _, blockerID := range blockerIDs {
				if err := g.store.AddRelationship(id, blockerID, types.RelationBlockedBy); err != nil {
					return err
				}
			}
		}
		if err := g.index.Upsert(ctx, id, item.Text); err != nil {
			return err
		}
		result.ArtifactIDs = append(result.ArtifactIDs, id)
	}
	return nil
}

func (g *Ingestor) mergeBlockers(ctx context.Context, record *types.IngestRecord, sourceID string, items []types.ExtractedItem, result *Result) ([]string, error) {
	var ids []string
	for _, item := range items {
		if item.Resolved {
			if existing, ok := g.store.FindByText(types.KindBlocker, item.Text); ok {
				if err := g.store.ResolveBlocker(existing, record.Date, sourceID); err != nil {
					return nil, err
				}
				if err := g.store.AddRelationship(sourceID, existing, types.RelationDiscusses); err != nil {
					return nil, err
				}
				result.StatusUpdates++
				continue
			}
		}

		id, err := g.store.UpsertArtifact(&types.Artifact{
			Kind:       types.KindBlocker,
			Text:       item.Text,
			CreatedAt:  record.Date,
			Confidence: item.Confidence,
			SourceRef:  sourceID,
			Severity:   item.Severity,
		})
		if err != nil {
			return nil, err
		}
		if err := g.store.AddRelationship(sourceID, id, types.RelationContains); err != nil {
			return nil, err
		}
		if err := g.index.Upsert(ctx, id, item.Text); err != nil {
			return nil, err
		}
		ids = append(ids, id)
		result.ArtifactIDs = append(result.ArtifactIDs, id)
	}
	return ids, nil
}

func (g *Ingestor) mergeTopics(ctx context.Context, record *types.IngestRecord, sourceID string, items []types.ExtractedItem, result *Result) error {
	for _, item := range items {
		id, err := g.store.UpsertArtifact(&types.Artifact{
			Kind:       types.KindTopic,
			Text:       item.Text,
			CreatedAt:  record.Date,
			Confidence: item.Confidence,
			SourceRef:  sourceID,
		})
		if err != nil {
			return err
		}
		if err := g.store.AddRelationship(sourceID, id, types.RelationDiscusses); err != nil {
			return err
		}
		if err := g.index.Upsert(ctx, id, item.Text); err != nil {
			return err
		}
		result.ArtifactIDs = append(result.ArtifactIDs, id)
	}
	return nil
}
