package search

import (
	"sort"

	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// fuse merges clause hit lists by summing each product's scores across lists.
// The first list a product appears in supplies its stored fields. Hits scoring
// below minScore are dropped before the result is cut to size; ties break on id.
func fuse(minScore float64, size int, lists ...[]result.Result) []result.Result {
	type scored struct {
		res   result.Result
		score float64
	}

	merged := make(map[string]*scored)
	order := make([]string, 0)

	for _, list := range lists {
		for _, r := range list {
			if existing, ok := merged[r.ID()]; ok {
				existing.score += r.Score()
				continue
			}
			merged[r.ID()] = &scored{res: r, score: r.Score()}
			order = append(order, r.ID())
		}
	}

	results := make([]result.Result, 0, len(merged))
	for _, id := range order {
		s := merged[id]
		if s.score < minScore {
			continue
		}
		results = append(results, s.res.WithScore(s.score))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score() != results[j].Score() {
			return results[i].Score() > results[j].Score()
		}
		return results[i].ID() < results[j].ID()
	})

	if size >= 0 && len(results) > size {
		results = results[:size]
	}

	return results
}
