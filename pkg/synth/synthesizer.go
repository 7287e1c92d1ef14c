package synth

import (
	"context"

	"github.com/devgraph-ai/devgraph/pkg/types"
)

// BundleItem is one piece of graph context handed to synthesis.
type BundleItem struct {
	ID   string     `json:"id"`
	Kind types.Kind `json:"kind"`
	Text string     `json:"text"`
	// Context carries enrichment such as who made a decision or which
	// meeting contains it.
	Context string `json:"context,omitempty"`
}

// Result is the synthesis output: free text plus the bundle ids the
// capability actually drew on. Callers must cite UsedIDs, not the full
// bundle.
type Result struct {
	Text    string   `json:"text"`
	UsedIDs []string `json:"used_ids"`
}

// Synthesizer is the external capability contract. Failures map onto
// types.ErrSynthesisTimeout and types.ErrSynthesisUnavailable so both
// consumers apply their failure policies uniformly.
type Synthesizer interface {
	Synthesize(ctx context.Context, prompt string, bundle []BundleItem) (*Result, error)
}
