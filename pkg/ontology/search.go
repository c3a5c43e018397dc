package ontology

import (
	"cmp"
	"slices"
	"strings"
)

// SearchResult is a class matched by [Registry.Search].
type SearchResult struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the name.
func (s SearchResult) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Name
}

// Search returns classes whose name or label contains query, ignoring case.
// Results are ordered by display label, then id. An empty query matches
// every class. limit <= 0 means no limit.
func (r *Registry) Search(query string, limit int) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))

	var results []SearchResult
	for _, id := range r.IDs() {
		n, _ := r.Node(id)
		if q != "" &&
			!strings.Contains(strings.ToLower(n.Name), q) &&
			!strings.Contains(strings.ToLower(n.Label), q) {
			continue
		}
		results = append(results, SearchResult{ID: id, Name: n.Name, Label: n.Label})
	}

	slices.SortStableFunc(results, func(a, b SearchResult) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.DisplayLabel()), strings.ToLower(b.DisplayLabel())),
			cmp.Compare(a.ID, b.ID),
		)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
