// Package feature selects target feature lists for presence matrices.
package feature

import (
	"sort"

	"github.com/inodb/oncomatrix/internal/variant"
)

// Extractor returns the feature values carried by a row. A row may carry
// several values (e.g. a COSMIC column listing multiple catalog IDs) or
// none.
type Extractor func(*variant.Row) []string

// Genes extracts the gene symbol of a row.
func Genes(r *variant.Row) []string {
	if r.Gene == "" || r.Gene == variant.Missing {
		return nil
	}
	return []string{r.Gene}
}

// CosmicIDs extracts the COSMIC catalog identifiers of a row.
func CosmicIDs(r *variant.Row) []string {
	return r.CosmicIDs()
}

// AAChanges extracts the amino-acid change identifier of a row.
func AAChanges(r *variant.Row) []string {
	if !r.HasAAChange() {
		return nil
	}
	return []string{r.AAChange}
}

// Count tallies feature values over an aggregate table. Rows without a
// COSMIC annotation are excluded before counting.
func Count(rows []*variant.Row, extract Extractor) map[string]int {
	counts := make(map[string]int)
	for _, r := range rows {
		if !r.HasCosmic() {
			continue
		}
		for _, v := range extract(r) {
			counts[v]++
		}
	}
	return counts
}

// TopN returns the n most frequent features, ordered by frequency
// descending. Ties break by name ascending so the selection is
// deterministic across runs.
func TopN(counts map[string]int, n int) List {
	features := make([]string, 0, len(counts))
	for f := range counts {
		features = append(features, f)
	}
	sort.Slice(features, func(i, j int) bool {
		if counts[features[i]] != counts[features[j]] {
			return counts[features[i]] > counts[features[j]]
		}
		return features[i] < features[j]
	})

	if n > 0 && n < len(features) {
		features = features[:n]
	}
	return List(features)
}

// List is an ordered, duplicate-free feature list. Column order in the
// output matrix follows the list exactly.
type List []string

// Append adds manually curated features to the list, skipping values
// already present.
func (l List) Append(extra ...string) List {
	seen := make(map[string]bool, len(l))
	for _, f := range l {
		seen[f] = true
	}
	for _, f := range extra {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		l = append(l, f)
	}
	return l
}

// Contains reports whether the list includes f.
func (l List) Contains(f string) bool {
	for _, v := range l {
		if v == f {
			return true
		}
	}
	return false
}
