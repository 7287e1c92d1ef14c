package ingest

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devgraph-ai/devgraph/pkg/embedder"
	"github.com/devgraph-ai/devgraph/pkg/graph"
	"github.com/devgraph-ai/devgraph/pkg/types"
)

// scriptedExtractor returns a canned extraction per body text.
type scriptedExtractor struct {
	byBody map[string]*types.Extraction
	err    error
}

func (e *scriptedExtractor) Extract(_ context.Context, bodyText string) (*types.Extraction, error) {
	if e.err != nil {
		return nil, e.err
	}
	if extraction, ok := e.byBody[bodyText]; ok {
		return extraction, nil
	}
	return &types.Extraction{}, nil
}

// hashEmbedder is a deterministic bag-of-words embedding stub.
type hashEmbedder struct{}

func (hashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := hashEmbedder{}.EmbedSingle(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (hashEmbedder) EmbedSingle(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 64)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%64]++
	}
	return vec, nil
}

func (hashEmbedder) Dimensions() int { return 64 }
func (hashEmbedder) Close() error    { return nil }

func newTestIngestor(extractor *scriptedExtractor) (*Ingestor, *graph.Store, *embedder.Index) {
	store := graph.NewStore()
	index := embedder.NewIndex(hashEmbedder{})
	return New(store, index, extractor, nil, 4), store, index
}

func meetingRecord(id, title, body string, day int, participants ...string) *types.IngestRecord {
	return &types.IngestRecord{
		ID:           id,
		Kind:         types.KindMeeting,
		Title:        title,
		Date:         time.Date(2026, 3, day, 10, 0, 0, 0, time.UTC),
		Participants: participants,
		BodyText:     body,
	}
}

func TestIngestBuildsDecisionWithMaker(t *testing.T) {
	extractor := &scriptedExtractor{byBody: map[string]*types.Extraction{
		"auth body": {
			Decisions: []types.ExtractedItem{{
				Text:         "use OAuth 2.0 instead of SAML",
				Confidence:   0.9,
				LinkedPerson: "Mike",
			}},
			Topics: []types.ExtractedItem{{Text: "authentication", Confidence: 0.8}},
		},
	}}
	g, store, index := newTestIngestor(extractor)

	result, err := g.Ingest(context.Background(), meetingRecord("m-1", "Auth sync", "auth body", 2, "Mike", "Sarah"))
	require.NoError(t, err)
	assert.Equal(t, "m-1", result.SourceID)
	assert.Len(t, result.ArtifactIDs, 2)

	stats := store.Stats()
	assert.Equal(t, 1, stats.Artifacts[types.KindMeeting])
	assert.Equal(t, 1, stats.Artifacts[types.KindDecision])
	assert.Equal(t, 1, stats.Artifacts[types.KindTopic])
	assert.Equal(t, 2, stats.Artifacts[types.KindPerson])

	decisionKey := (&types.Artifact{Kind: types.KindDecision, Text: "use OAuth 2.0 instead of SAML", SourceRef: "m-1"}).NaturalKey()
	decisionID, ok := store.Resolve(decisionKey)
	require.True(t, ok)

	makers, err := store.Neighbors(decisionID, graph.NeighborOptions{
		Kinds:     []types.RelationKind{types.RelationMadeBy},
		Direction: types.DirectionOutgoing,
	})
	require.NoError(t, err)
	require.Len(t, makers, 1)
	assert.Equal(t, "Mike", makers[0].Name)

	// Meeting body, decision and topic are all indexed.
	assert.Equal(t, 3, index.Len())
}

func TestIngestIdempotent(t *testing.T) {
	extractor := &scriptedExtractor{byBody: map[string]*types.Extraction{
		"body": {
			Decisions:   []types.ExtractedItem{{Text: "ship v2 behind a flag", Confidence: 0.8}},
			ActionItems: []types.ExtractedItem{{Text: "write rollout runbook", Confidence: 0.7, LinkedPerson: "Ana"}},
		},
	}}
	g, store, _ := newTestIngestor(extractor)
	record := meetingRecord("m-1", "Planning", "body", 3, "Ana")

	_, err := g.Ingest(context.Background(), record)
	require.NoError(t, err)
	first := store.Stats()

	_, err = g.Ingest(context.Background(), record)
	require.NoError(t, err)
	second := store.Stats()

	assert.Equal(t, first.TotalNodes, second.TotalNodes, "re-ingestion must not mint nodes")
	assert.Equal(t, first.Relationships, second.Relationships, "re-ingestion must not mint edges")
}

func TestIngestMergesPersonAcrossMeetings(t *testing.T) {
	extractor := &scriptedExtractor{byBody: map[string]*types.Extraction{
		"b1": {Decisions: []types.ExtractedItem{{Text: "d1", Confidence: 1, LinkedPerson: "Sarah Chen"}}},
		"b2": {Decisions: []types.ExtractedItem{{Text: "d2", Confidence: 1, LinkedPerson: "sarah  chen"}}},
	}}
	g, store, _ := newTestIngestor(extractor)

	_, err := g.Ingest(context.Background(), meetingRecord("m-1", "One", "b1", 1))
	require.NoError(t, err)
	_, err = g.Ingest(context.Background(), meetingRecord("m-2", "Two", "b2", 2))
	require.NoError(t, err)

	assert.Equal(t, 1, store.Stats().Artifacts[types.KindPerson],
		"name variants differing only in case and spacing share one node")
}

func TestIngestStatusUpdateMutatesExistingAction(t *testing.T) {
	extractor := &scriptedExtractor{byBody: map[string]*types.Extraction{
		"b1": {ActionItems: []types.ExtractedItem{{Text: "migrate the billing tables", Confidence: 0.9}}},
		"b2": {ActionItems: []types.ExtractedItem{{
			Text:         "Migrate the billing tables",
			Confidence:   0.9,
			Status:       types.ActionDone,
			StatusUpdate: true,
		}}},
	}}
	g, store, _ := newTestIngestor(extractor)

	_, err := g.Ingest(context.Background(), meetingRecord("m-1", "Kickoff", "b1", 1))
	require.NoError(t, err)
	result, err := g.Ingest(context.Background(), meetingRecord("m-2", "Standup", "b2", 8))
	require.NoError(t, err)
	assert.Equal(t, 1, result.StatusUpdates)

	assert.Equal(t, 1, store.Stats().Artifacts[types.KindActionItem])

	id, ok := store.FindByText(types.KindActionItem, "migrate the billing tables")
	require.True(t, ok)
	action, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, types.ActionDone, action.Status)
	assert.Equal(t, "m-2", action.StatusSource)
}

func TestIngestBlockedActionLinksBlocker(t *testing.T) {
	extractor := &scriptedExtractor{byBody: map[string]*types.Extraction{
		"b": {
			ActionItems: []types.ExtractedItem{{
				Text:       "enable the new gateway",
				Confidence: 0.9,
				Status:     types.ActionBlocked,
			}},
			Blockers: []types.ExtractedItem{{
				Text:       "waiting on security review",
				Confidence: 0.9,
				Severity:   "high",
			}},
		},
	}}
	g, store, _ := newTestIngestor(extractor)

	_, err := g.Ingest(context.Background(), meetingRecord("m-1", "Sync", "b", 5))
	require.NoError(t, err)

	actionID, ok := store.FindByText(types.KindActionItem, "enable the new gateway")
	require.True(t, ok)
	blocking, err := store.Neighbors(actionID, graph.NeighborOptions{
		Kinds:     []types.RelationKind{types.RelationBlockedBy},
		Direction: types.DirectionOutgoing,
	})
	require.NoError(t, err)
	require.Len(t, blocking, 1)
	assert.Equal(t, types.KindBlocker, blocking[0].Kind)
	assert.Equal(t, "high", blocking[0].Severity)
}

func TestIngestBlockerResolution(t *testing.T) {
	extractor := &scriptedExtractor{byBody: map[string]*types.Extraction{
		"b1": {Blockers: []types.ExtractedItem{{Text: "cert rotation pending", Confidence: 1, Severity: "medium"}}},
		"b2": {Blockers: []types.ExtractedItem{{Text: "cert rotation pending", Confidence: 1, Resolved: true}}},
	}}
	g, store, _ := newTestIngestor(extractor)

	_, err := g.Ingest(context.Background(), meetingRecord("m-1", "Ops", "b1", 1))
	require.NoError(t, err)
	_, err = g.Ingest(context.Background(), meetingRecord("m-2", "Ops follow-up", "b2", 9))
	require.NoError(t, err)

	id, ok := store.FindByText(types.KindBlocker, "cert rotation pending")
	require.True(t, ok)
	blocker, err := store.Get(id)
	require.NoError(t, err)
	require.NotNil(t, blocker.ResolvedAt)
	assert.Equal(t, 9, blocker.ResolvedAt.Day())
	assert.Equal(t, "m-2", blocker.StatusSource)
}

func TestIngestIndexesBlockers(t *testing.T) {
	extractor := &scriptedExtractor{byBody: map[string]*types.Extraction{
		"infra body": {Blockers: []types.ExtractedItem{{
			Text:       "gateway rollout waiting on TLS certificates",
			Confidence: 0.9,
			Severity:   "high",
		}}},
	}}
	g, store, index := newTestIngestor(extractor)

	_, err := g.Ingest(context.Background(), meetingRecord("m-1", "Infra sync", "infra body", 4))
	require.NoError(t, err)
	assert.Equal(t, 2, index.Len(), "meeting body and blocker are both indexed")

	blockerID, ok := store.FindByText(types.KindBlocker, "gateway rollout waiting on TLS certificates")
	require.True(t, ok)

	hits, err := index.Search(context.Background(), "what is blocking the gateway rollout", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, blockerID, hits[0].ID, "blockers are retrievable by similarity")
}

func TestIngestRejectsRecordOnExtractionFailure(t *testing.T) {
	g, store, _ := newTestIngestor(&scriptedExtractor{err: errors.New("model unavailable")})

	_, err := g.Ingest(context.Background(), meetingRecord("m-1", "Sync", "b", 1))
	require.Error(t, err)
	assert.Equal(t, 0, store.Stats().TotalNodes, "failed extraction must not touch the graph")
}

func TestIngestRejectsInvalidRecord(t *testing.T) {
	g, _, _ := newTestIngestor(&scriptedExtractor{})

	_, err := g.Ingest(context.Background(), &types.IngestRecord{
		ID:   "m-1",
		Kind: types.KindDecision,
		Date: time.Now(),
	})
	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestIngestBatchIsolatesFailures(t *testing.T) {
	extractor := &scriptedExtractor{byBody: map[string]*types.Extraction{
		"good": {Topics: []types.ExtractedItem{{Text: "roadmap", Confidence: 1}}},
	}}
	g, store, _ := newTestIngestor(extractor)

	batch := g.IngestBatch(context.Background(), []*types.IngestRecord{
		meetingRecord("m-1", "Good", "good", 1),
		{ID: "m-2", Kind: types.KindMeeting}, // missing body and date
		meetingRecord("m-3", "Also good", "good", 2),
	})

	assert.Equal(t, 2, batch.Succeeded())
	assert.NoError(t, batch.Errors[0])
	assert.Error(t, batch.Errors[1])
	assert.NoError(t, batch.Errors[2])
	assert.Equal(t, 2, store.Stats().Artifacts[types.KindMeeting])
}
