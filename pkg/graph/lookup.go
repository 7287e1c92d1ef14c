package graph

import "github.com/devgraph-ai/devgraph/pkg/types"

// FindByText looks up an artifact of the given kind by normalized text,
// regardless of which source produced it. Status-change reports from
// later meetings use this to locate the artifact they refer to.
func (s *Store) FindByText(kind types.Kind, text string) (string, bool) {
	want := types.NormalizeName(text)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, node := range s.nodes {
		if node.Kind == kind && types.NormalizeName(node.Text) == want {
			return id, true
		}
	}
	return "", false
}
