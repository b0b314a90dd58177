package search

import (
	"sort"

	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/result"
)

// DefaultRRFK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const DefaultRRFK = 60

// Fuse merges lexical and semantic results via weighted Reciprocal Rank Fusion.
// score(d) = sum of weight_i/(k + rank_i(d) + 1) for each ranking where d appears.
// The output is the full union sorted by fused score. A document in both lists keeps
// the lexical copy's fields and both per-source scores.
func Fuse(text, semantic []result.Result, textWeight, semanticWeight float64, k int) []result.Result {
	if k <= 0 {
		k = DefaultRRFK
	}

	type scored struct {
		res   result.Result
		score float64
		first int
	}

	merged := make(map[string]*scored, len(text)+len(semantic))
	order := 0

	add := func(list []result.Result, weight float64, isText bool) {
		for rank, r := range list {
			s := weight / float64(k+rank+1)
			existing, ok := merged[r.ID]
			if !ok {
				existing = &scored{res: r, first: order}
				order++
				merged[r.ID] = existing
			}
			existing.score += s

			// per-source scores fall back to the branch score when the searcher left them unset
			if isText {
				if existing.res.TextScore == nil {
					existing.res.TextScore = pick(r.TextScore, r.Score)
				}
			} else if existing.res.SemanticScore == nil {
				existing.res.SemanticScore = pick(r.SemanticScore, r.Score)
			}
		}
	}
	add(text, textWeight, true)
	add(semantic, semanticWeight, false)

	all := make([]*scored, 0, len(merged))
	for _, s := range merged {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].first < all[j].first
	})

	results := make([]result.Result, len(all))
	for i, s := range all {
		s.res.Score = s.score
		results[i] = s.res
	}
	return results
}

func pick(score *float64, fallback float64) *float64 {
	if score != nil {
		return score
	}
	return result.Float(fallback)
}
