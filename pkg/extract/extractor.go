package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/devgraph-ai/devgraph/pkg/types"
)

// Extractor turns raw transcript or document text into typed candidate
// entities. Implementations are injected into ingestion so tests can
// substitute deterministic stubs.
type Extractor interface {
	Extract(ctx context.Context, bodyText string) (*types.Extraction, error)
}

// ValidateExtraction filters an extraction in place: items with empty
// text are dropped, confidences are clamped into [0, 1], and invalid
// action statuses are reset to open. Dropped items are logged, never
// silently corrupting the graph.
func ValidateExtraction(raw *types.Extraction, logger *slog.Logger) *types.Extraction {
	if raw == nil {
		return &types.Extraction{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	clean := &types.Extraction{
		Decisions:   validateItems(raw.Decisions, "decision", logger),
		ActionItems: validateItems(raw.ActionItems, "action_item", logger),
		Blockers:    validateItems(raw.Blockers, "blocker", logger),
		Topics:      validateItems(raw.Topics, "topic", logger),
	}
	return clean
}

func validateItems(items []types.ExtractedItem, label string, logger *slog.Logger) []types.ExtractedItem {
	out := make([]types.ExtractedItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Text) == "" {
			logger.Warn("dropping extracted item with empty text", "type", label)
			continue
		}
		if item.Confidence < 0 {
			item.Confidence = 0
		}
		if item.Confidence > 1 {
			item.Confidence = 1
		}
		if item.Status != "" && !item.Status.Valid() {
			logger.Warn("resetting unrecognized status", "type", label, "status", item.Status)
			item.Status = types.ActionOpen
		}
		out = append(out, item)
	}
	return out
}
