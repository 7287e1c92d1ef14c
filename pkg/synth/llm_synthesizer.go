package synth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"

	"github.com/devgraph-ai/devgraph/pkg/llm"
	"github.com/devgraph-ai/devgraph/pkg/types"
)

const synthesisSystemPrompt = `You answer questions and evaluate changes against a knowledge graph of software-development artifacts.

You receive a request and numbered sources, each with a stable id. Ground your response strictly in the sources; if they do not contain the answer, say so.

Return ONLY a JSON object:
{"text": "your response", "used_ids": ["ids of the sources you actually relied on"]}

Never list an id in used_ids that you did not rely on.`

// LLMSynthesizer implements Synthesizer on top of a chat model.
type LLMSynthesizer struct {
	client llm.Client
}

// NewLLMSynthesizer creates a synthesizer backed by the given chat client.
func NewLLMSynthesizer(client llm.Client) *LLMSynthesizer {
	return &LLMSynthesizer{client: client}
}

// Synthesize formats the bundle, invokes the model, and parses the
// response. Transport failures surface as the typed synthesis errors.
func (s *LLMSynthesizer) Synthesize(ctx context.Context, prompt string, bundle []BundleItem) (*Result, error) {
	resp, err := s.client.Chat(ctx, []types.Message{
		types.NewSystemMessage(synthesisSystemPrompt),
		types.NewUserMessage(formatRequest(prompt, bundle)),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", types.ErrSynthesisTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", types.ErrSynthesisUnavailable, err)
	}

	repaired, repairErr := jsonrepair.JSONRepair(resp.Content)
	if repairErr != nil {
		repaired = resp.Content
	}

	var result Result
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return nil, fmt.Errorf("%w: unparseable synthesis output: %v", types.ErrSynthesisUnavailable, err)
	}

	// A model may echo ids that were never offered; keep only real ones.
	offered := make(map[string]bool, len(bundle))
	for _, item := range bundle {
		offered[item.ID] = true
	}
	kept := result.UsedIDs[:0]
	for _, id := range result.UsedIDs {
		if offered[id] {
			kept = append(kept, id)
		}
	}
	result.UsedIDs = kept

	return &result, nil
}

func formatRequest(prompt string, bundle []BundleItem) string {
	var b strings.Builder
	b.WriteString("Request: ")
	b.WriteString(prompt)
	b.WriteString("\n\nSources:\n")

	if len(bundle) == 0 {
		b.WriteString("(none)\n")
		return b.String()
	}

	for i, item := range bundle {
		fmt.Fprintf(&b, "--- Source %d (id=%s, kind=%s) ---\n%s\n", i+1, item.ID, item.Kind, item.Text)
		if item.Context != "" {
			fmt.Fprintf(&b, "Context: %s\n", item.Context)
		}
	}
	return b.String()
}
