package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	jsonrepair "github.com/kaptinlin/jsonrepair"

	"github.com/devgraph-ai/devgraph/pkg/llm"
	"github.com/devgraph-ai/devgraph/pkg/types"
)

const extractionSystemPrompt = `You extract software-development artifacts from meeting transcripts and documents.

Return ONLY a JSON object with this shape:
{
  "decisions":    [{"text": "...", "confidence": 0.9, "linked_person": "name of decision maker", "person_role": "optional role"}],
  "action_items": [{"text": "...", "confidence": 0.9, "linked_person": "assignee name", "status": "open|blocked|done", "status_update": false}],
  "blockers":     [{"text": "...", "confidence": 0.9, "severity": "low|medium|high|critical", "resolved": false}],
  "topics":       [{"text": "...", "confidence": 0.9}]
}

Rules:
- "text" is a self-contained description; never quote the whole transcript.
- Set "status_update": true when the item reports progress on an existing task rather than a new assignment.
- Set "resolved": true when the text reports an existing blocker as cleared.
- Confidence reflects how explicitly the transcript states the item.
- Omit categories with no findings using empty arrays. No prose outside the JSON.`

// LLMExtractor implements Extractor on top of a chat model.
type LLMExtractor struct {
	client llm.Client
	logger *slog.Logger
}

// NewLLMExtractor creates an extractor backed by the given chat client.
func NewLLMExtractor(client llm.Client, logger *slog.Logger) *LLMExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMExtractor{client: client, logger: logger}
}

// Extract sends the body text to the model and parses the structured
// response. Model output is repaired before unmarshalling; items that
// fail validation are dropped rather than failing the whole record.
func (e *LLMExtractor) Extract(ctx context.Context, bodyText string) (*types.Extraction, error) {
	resp, err := e.client.Chat(ctx, []types.Message{
		types.NewSystemMessage(extractionSystemPrompt),
		types.NewUserMessage(bodyText),
	})
	if err != nil {
		return nil, fmt.Errorf("extraction call: %w", err)
	}

	repaired, err := jsonrepair.JSONRepair(resp.Content)
	if err != nil {
		repaired = resp.Content
	}

	var raw types.Extraction
	if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
		return nil, &types.ValidationError{Field: "extraction", Reason: "model returned unparseable output: " + err.Error()}
	}

	return ValidateExtraction(&raw, e.logger), nil
}
