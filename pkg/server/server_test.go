package server

import (
	"bytes"
	"context"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devgraph-ai/devgraph"
	"github.com/devgraph-ai/devgraph/pkg/config"
	"github.com/devgraph-ai/devgraph/pkg/synth"
	"github.com/devgraph-ai/devgraph/pkg/types"
)

type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, bodyText string) (*types.Extraction, error) {
	if strings.Contains(bodyText, "OAuth") {
		return &types.Extraction{
			Decisions: []types.ExtractedItem{{
				Text:         "use OAuth 2.0 instead of SAML",
				Confidence:   0.9,
				LinkedPerson: "Mike",
			}},
		}, nil
	}
	return &types.Extraction{}, nil
}

type stubSynthesizer struct{}

func (stubSynthesizer) Synthesize(_ context.Context, prompt string, bundle []synth.BundleItem) (*synth.Result, error) {
	if strings.Contains(prompt, "SEVERITY") {
		return &synth.Result{Text: "SEVERITY: needs_review\nREASON: depends on the changed artifact"}, nil
	}
	ids := make([]string, len(bundle))
	for i, item := range bundle {
		ids[i] = item.ID
	}
	return &synth.Result{Text: "stubbed answer", UsedIDs: ids}, nil
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, _ := stubEmbedder{}.EmbedSingle(ctx, text)
		out[i] = v
	}
	return out, nil
}

func (stubEmbedder) EmbedSingle(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 64)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%64]++
	}
	return vec, nil
}

func (stubEmbedder) Dimensions() int { return 64 }
func (stubEmbedder) Close() error    { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Mode = "test"

	client, err := devgraph.New(cfg,
		devgraph.WithExtractor(stubExtractor{}),
		devgraph.WithSynthesizer(stubSynthesizer{}),
		devgraph.WithEmbedderClient(stubEmbedder{}),
	)
	require.NoError(t, err)

	srv := New(cfg, client)
	srv.Setup()
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func ingestBody(id string) map[string]any {
	return map[string]any{
		"id":           id,
		"kind":         "meeting",
		"title":        "Auth sync",
		"date":         time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		"participants": []string{"Mike"},
		"body_text":    "We discussed OAuth at length.",
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health", "/ready", "/live"} {
		w := doJSON(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestIngestAndQuery(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/ingest", ingestBody("m-1"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var ingested struct {
		SourceID    string   `json:"source_id"`
		ArtifactIDs []string `json:"artifact_ids"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingested))
	assert.Equal(t, "m-1", ingested.SourceID)
	require.Len(t, ingested.ArtifactIDs, 1)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/query", map[string]string{
		"question": "what did we decide about OAuth",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var answer struct {
		Answer string `json:"answer"`
		Found  bool   `json:"found"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &answer))
	assert.True(t, answer.Found)
	assert.Equal(t, "stubbed answer", answer.Answer)
}

func TestIngestRejectsInvalidKind(t *testing.T) {
	srv := newTestServer(t)

	body := ingestBody("m-1")
	body["kind"] = "decision"
	w := doJSON(t, srv, http.MethodPost, "/api/v1/ingest", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatchIngestPartialFailure(t *testing.T) {
	srv := newTestServer(t)

	bad := ingestBody("m-2")
	bad["body_text"] = ""
	w := doJSON(t, srv, http.MethodPost, "/api/v1/ingest/batch", map[string]any{
		"records": []map[string]any{ingestBody("m-1"), bad},
	})
	assert.Equal(t, http.StatusMultiStatus, w.Code, w.Body.String())

	var resp struct {
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
}

func TestRippleOverDependencyChain(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/artifacts", map[string]any{
		"id":   "req-1",
		"kind": "requirement_doc",
		"text": "settle payments within 24 hours",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, srv, http.MethodPost, "/api/v1/artifacts", map[string]any{
		"id":   "bp-1",
		"kind": "blueprint_doc",
		"text": "settlement pipeline design",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/relationships", map[string]any{
		"from_id": "req-1",
		"to_id":   "bp-1",
		"kind":    "IMPLEMENTED_BY",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, srv, http.MethodPost, "/api/v1/ripple", map[string]any{
		"artifact_id": "req-1",
		"change":      "settlement window tightened",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report struct {
		Affected []struct {
			ArtifactID string `json:"artifact_id"`
			Severity   string `json:"severity"`
		} `json:"affected"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Affected, 1)
	assert.Equal(t, "bp-1", report.Affected[0].ArtifactID)
	assert.Equal(t, "needs_review", report.Affected[0].Severity)
}

func TestCycleRejectedWithConflict(t *testing.T) {
	srv := newTestServer(t)

	for _, a := range []map[string]any{
		{"id": "a-1", "kind": "work_order", "text": "order one"},
		{"id": "a-2", "kind": "work_order", "text": "order two"},
	} {
		w := doJSON(t, srv, http.MethodPost, "/api/v1/artifacts", a)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, srv, http.MethodPost, "/api/v1/relationships", map[string]any{
		"from_id": "a-1", "to_id": "a-2", "kind": "BROKEN_INTO",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/relationships", map[string]any{
		"from_id": "a-2", "to_id": "a-1", "kind": "BROKEN_INTO",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetArtifactNotFound(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/artifacts/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetNeighbors(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/ingest", ingestBody("m-1"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/artifacts/m-1/neighbors?direction=out&kind=CONTAINS", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
}

func TestStats(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/ingest", ingestBody("m-1"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		TotalNodes int `json:"total_nodes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Greater(t, stats.TotalNodes, 0)
}
