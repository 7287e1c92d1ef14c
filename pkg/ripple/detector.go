package ripple

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/devgraph-ai/devgraph/pkg/graph"
	"github.com/devgraph-ai/devgraph/pkg/synth"
	"github.com/devgraph-ai/devgraph/pkg/types"
	"github.com/devgraph-ai/devgraph/pkg/utils"
)

// Severity grades how strongly a change hits a downstream artifact.
type Severity string

const (
	// SeverityInvalidated means the artifact is contradicted by the change.
	SeverityInvalidated Severity = "invalidated"
	// SeverityNeedsReview means the artifact likely needs rework.
	SeverityNeedsReview Severity = "needs_review"
	// SeverityManualReview means the automated judgment failed and a
	// human has to look.
	SeverityManualReview Severity = "needs_manual_review"
	// SeverityUnaffected means the change does not touch the artifact.
	// Unaffected entries are dropped from reports.
	SeverityUnaffected Severity = "unaffected"
)

// rank orders severities for report sorting, most severe first.
func (s Severity) rank() int {
	switch s {
	case SeverityInvalidated:
		return 3
	case SeverityNeedsReview:
		return 2
	case SeverityManualReview:
		return 1
	}
	return 0
}

// Impact is one affected downstream artifact.
type Impact struct {
	ArtifactID string     `json:"artifact_id"`
	Kind       types.Kind `json:"kind"`
	Text       string     `json:"text"`
	Severity   Severity   `json:"severity"`
	Reason     string     `json:"reason"`
	// Distance is the BFS hop count from the changed artifact.
	Distance int `json:"distance"`
}

// NotifyTarget identifies a person attached to an affected artifact.
// The id resolves to the Person node so consumers can follow provenance.
type NotifyTarget struct {
	PersonID string `json:"person_id"`
	Name     string `json:"name"`
}

// Report is the full outcome of one ripple analysis.
type Report struct {
	ChangedID string   `json:"changed_id"`
	Change    string   `json:"change"`
	Affected  []Impact `json:"affected"`
	// Notify lists the people attached to affected artifacts,
	// deduplicated by node id.
	Notify    []NotifyTarget `json:"notify"`
	Evaluated int            `json:"evaluated"`
	LatencyMS int64          `json:"latency_ms"`
}

const (
	// DefaultMaxDepth bounds the dependency traversal.
	DefaultMaxDepth = 4
	// DefaultEvalTimeout bounds each per-artifact judgment.
	DefaultEvalTimeout = 30 * time.Second
)

// traversalKinds are the edges a change propagates along.
var traversalKinds = []types.RelationKind{
	types.RelationImplementedBy,
	types.RelationBrokenInto,
	types.RelationFollowsUp,
	types.RelationRelatesTo,
}

// Options tune traversal and evaluation.
type Options struct {
	MaxDepth       int
	MaxConcurrency int
	EvalTimeout    time.Duration
}

// Detector runs change-impact analysis over the graph.
type Detector struct {
	store          *graph.Store
	synthesizer    synth.Synthesizer
	logger         *slog.Logger
	maxDepth       int
	maxConcurrency int
	evalTimeout    time.Duration
}

// NewDetector creates a detector. Zero options fall back to defaults.
func NewDetector(store *graph.Store, synthesizer synth.Synthesizer, logger *slog.Logger, opts Options) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = utils.DefaultMaxConcurrency
	}
	if opts.EvalTimeout <= 0 {
		opts.EvalTimeout = DefaultEvalTimeout
	}
	return &Detector{
		store:          store,
		synthesizer:    synthesizer,
		logger:         logger,
		maxDepth:       opts.MaxDepth,
		maxConcurrency: opts.MaxConcurrency,
		evalTimeout:    opts.EvalTimeout,
	}
}

// DetectRipple judges every artifact reachable from changedID along
// dependency and relates-to edges. Affected entries are ordered by
// severity, then by hop distance, closest first. A judgment failure on
// one artifact never hides the rest of the report.
func (d *Detector) DetectRipple(ctx context.Context, changedID, change string) (*Report, error) {
	start := time.Now()

	if strings.TrimSpace(change) == "" {
		return nil, &types.ValidationError{Field: "change", Reason: "change description cannot be empty"}
	}
	changed, err := d.store.Get(changedID)
	if err != nil {
		return nil, err
	}

	visits, err := d.store.Reach(changedID, traversalKinds, d.maxDepth)
	if err != nil {
		return nil, err
	}

	report := &Report{ChangedID: changedID, Change: change, Evaluated: len(visits)}
	if len(visits) == 0 {
		report.LatencyMS = time.Since(start).Milliseconds()
		return report, nil
	}

	fns := make([]func() (Impact, error), len(visits))
	for i, visit := range visits {
		visit := visit
		fns[i] = func() (Impact, error) {
			return d.evaluate(ctx, changed, change, visit)
		}
	}
	impacts, errs := utils.ExecuteWithResults(ctx, d.maxConcurrency, fns...)

	notify := make(map[string]NotifyTarget)
	for i, impact := range impacts {
		if errs[i] != nil {
			visit := visits[i]
			d.logger.Warn("impact judgment failed, flagging for manual review",
				"artifact", visit.Artifact.ID, "error", errs[i])
			impact = Impact{
				ArtifactID: visit.Artifact.ID,
				Kind:       visit.Artifact.Kind,
				Text:       visit.Artifact.Text,
				Severity:   SeverityManualReview,
				Reason:     fmt.Sprintf("automated judgment failed: %v", errs[i]),
				Distance:   visit.Depth,
			}
		}
		if impact.Severity == SeverityUnaffected {
			continue
		}
		report.Affected = append(report.Affected, impact)
		for _, target := range d.peopleFor(impact.ArtifactID) {
			notify[target.PersonID] = target
		}
	}

	sort.SliceStable(report.Affected, func(i, j int) bool {
		a, b := report.Affected[i], report.Affected[j]
		if a.Severity.rank() != b.Severity.rank() {
			return a.Severity.rank() > b.Severity.rank()
		}
		return a.Distance < b.Distance
	})

	for _, target := range notify {
		report.Notify = append(report.Notify, target)
	}
	sort.Slice(report.Notify, func(i, j int) bool {
		a, b := report.Notify[i], report.Notify[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.PersonID < b.PersonID
	})

	report.LatencyMS = time.Since(start).Milliseconds()
	d.logger.Info("ripple analysis complete",
		"changed", changedID,
		"evaluated", report.Evaluated,
		"affected", len(report.Affected),
		"latency_ms", report.LatencyMS)
	return report, nil
}

const evaluationPrompt = `An artifact this one depends on has changed. Judge the impact on the candidate artifact.

Respond with exactly two lines:
SEVERITY: one of invalidated, needs_review, unaffected
REASON: one sentence explaining the judgment`

// evaluate judges one candidate under the per-call timeout.
func (d *Detector) evaluate(ctx context.Context, changed *types.Artifact, change string, visit graph.Visit) (Impact, error) {
	evalCtx, cancel := context.WithTimeout(ctx, d.evalTimeout)
	defer cancel()

	prompt := fmt.Sprintf("%s\n\nChanged artifact (%s): %s\nChange: %s",
		evaluationPrompt, changed.Kind, changed.Text, change)
	result, err := d.synthesizer.Synthesize(evalCtx, prompt, []synth.BundleItem{{
		ID:   visit.Artifact.ID,
		Kind: visit.Artifact.Kind,
		Text: visit.Artifact.Text,
	}})
	if err != nil {
		return Impact{}, err
	}

	severity, reason := parseJudgment(result.Text)
	return Impact{
		ArtifactID: visit.Artifact.ID,
		Kind:       visit.Artifact.Kind,
		Text:       visit.Artifact.Text,
		Severity:   severity,
		Reason:     reason,
		Distance:   visit.Depth,
	}, nil
}

// peopleFor returns the people attached to an artifact via assignment or
// decision-maker edges.
func (d *Detector) peopleFor(artifactID string) []NotifyTarget {
	neighbors, err := d.store.Neighbors(artifactID, graph.NeighborOptions{
		Kinds:     []types.RelationKind{types.RelationAssignedTo, types.RelationMadeBy},
		Direction: types.DirectionOutgoing,
	})
	if err != nil {
		return nil
	}
	var targets []NotifyTarget
	for _, n := range neighbors {
		if n.Kind == types.KindPerson && n.Name != "" {
			targets = append(targets, NotifyTarget{PersonID: n.ID, Name: n.Name})
		}
	}
	return targets
}

// parseJudgment reads the SEVERITY and REASON lines from a model
// response. Anything unrecognized degrades to manual review so a
// malformed response is never mistaken for "unaffected".
func parseJudgment(text string) (Severity, string) {
	severity := SeverityManualReview
	reason := "unparseable judgment: " + strings.TrimSpace(text)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(line, "SEVERITY:"); ok {
			switch Severity(strings.ToLower(strings.TrimSpace(after))) {
			case SeverityInvalidated:
				severity = SeverityInvalidated
			case SeverityNeedsReview:
				severity = SeverityNeedsReview
			case SeverityUnaffected:
				severity = SeverityUnaffected
			}
		} else if after, ok := strings.CutPrefix(line, "REASON:"); ok {
			reason = strings.TrimSpace(after)
		}
	}
	return severity, reason
}
