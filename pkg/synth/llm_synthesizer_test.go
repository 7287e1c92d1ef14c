package synth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devgraph-ai/devgraph/pkg/types"
)

type cannedChat struct {
	content string
	err     error
}

func (c *cannedChat) Chat(_ context.Context, _ []types.Message) (*types.Response, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &types.Response{Content: c.content}, nil
}

func (c *cannedChat) Close() error { return nil }

func TestSynthesizeParsesAndFiltersUsedIDs(t *testing.T) {
	s := NewLLMSynthesizer(&cannedChat{
		content: `{"text": "OAuth was chosen for SSO support", "used_ids": ["d-1", "fabricated"]}`,
	})

	result, err := s.Synthesize(context.Background(), "why OAuth", []BundleItem{
		{ID: "d-1", Kind: types.KindDecision, Text: "use OAuth 2.0"},
		{ID: "d-2", Kind: types.KindDecision, Text: "use postgres"},
	})
	require.NoError(t, err)
	assert.Equal(t, "OAuth was chosen for SSO support", result.Text)
	assert.Equal(t, []string{"d-1"}, result.UsedIDs, "ids never offered must be filtered out")
}

func TestSynthesizeRepairsSloppyJSON(t *testing.T) {
	// Trailing comma and unquoted key, the usual model sloppiness.
	s := NewLLMSynthesizer(&cannedChat{
		content: "{text: \"answer\", \"used_ids\": [\"d-1\",],}",
	})

	result, err := s.Synthesize(context.Background(), "q", []BundleItem{
		{ID: "d-1", Kind: types.KindDecision, Text: "x"},
	})
	require.NoError(t, err)
	assert.Equal(t, "answer", result.Text)
}

func TestSynthesizeTimeoutTyped(t *testing.T) {
	s := NewLLMSynthesizer(&cannedChat{err: context.DeadlineExceeded})

	_, err := s.Synthesize(context.Background(), "q", nil)
	assert.ErrorIs(t, err, types.ErrSynthesisTimeout)
}

func TestSynthesizeUnavailableTyped(t *testing.T) {
	s := NewLLMSynthesizer(&cannedChat{err: errors.New("connection refused")})

	_, err := s.Synthesize(context.Background(), "q", nil)
	assert.ErrorIs(t, err, types.ErrSynthesisUnavailable)
}
