package search

import (
	"math"
	"testing"

	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/result"
)

func makeResult(id string) result.Result {
	return result.Result{ID: id, Name: "name-" + id}
}

func makeScored(id string, score float64) result.Result {
	return result.Result{ID: id, Name: "name-" + id, Score: score}
}

func TestFuse_DisjointLists(t *testing.T) {
	text := []result.Result{makeResult("a"), makeResult("b")}
	semantic := []result.Result{makeResult("c"), makeResult("d")}

	results := Fuse(text, semantic, 1, 1, DefaultRRFK)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	ids := make(map[string]bool)
	for _, r := range results {
		ids[r.ID] = true
	}
	for _, id := range []string{"a", "b", "c", "d"} {
		if !ids[id] {
			t.Errorf("missing result %s", id)
		}
	}
}

func TestFuse_UnionCompleteness(t *testing.T) {
	text := []result.Result{makeScored("a", 1), makeScored("b", 0.5), makeScored("c", 0.33)}
	semantic := []result.Result{makeScored("b", 0.9), makeScored("d", 0.8), makeScored("a", 0.75)}

	results := Fuse(text, semantic, 0.3, 0.7, DefaultRRFK)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	seen := make(map[string]int)
	for _, r := range results {
		seen[r.ID]++
		both := r.ID == "a" || r.ID == "b"
		if both && (r.TextScore == nil || r.SemanticScore == nil) {
			t.Errorf("%s: expected both source scores, got text=%v semantic=%v", r.ID, r.TextScore, r.SemanticScore)
		}
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("%s appears %d times", id, n)
		}
	}

	for _, r := range results {
		if r.ID == "b" && *r.SemanticScore != 0.9 {
			t.Errorf("b semantic score = %v, want 0.9", *r.SemanticScore)
		}
	}
}

func TestFuse_OverlapBeatsSingleList(t *testing.T) {
	text := []result.Result{makeResult("a"), makeResult("b"), makeResult("c")}
	semantic := []result.Result{makeResult("b"), makeResult("d"), makeResult("a")}

	results := Fuse(text, semantic, 1, 1, DefaultRRFK)

	// "b": 1/62 + 1/61, "a": 1/61 + 1/63
	if results[0].ID != "b" || results[1].ID != "a" {
		t.Fatalf("expected b, a first, got %s, %s", results[0].ID, results[1].ID)
	}
	for _, r := range results[2:] {
		if r.Score >= results[1].Score {
			t.Errorf("single-list %s scored %f >= overlap %f", r.ID, r.Score, results[1].Score)
		}
	}
}

func TestFuse_EmptyInputs(t *testing.T) {
	t.Run("both empty", func(t *testing.T) {
		results := Fuse(nil, nil, 0.3, 0.7, DefaultRRFK)
		if len(results) != 0 {
			t.Fatalf("expected 0 results, got %d", len(results))
		}
	})

	t.Run("semantic empty", func(t *testing.T) {
		results := Fuse([]result.Result{makeResult("a")}, nil, 0.3, 0.7, DefaultRRFK)
		if len(results) != 1 || results[0].SemanticScore != nil {
			t.Fatalf("expected 1 lexical-only result, got %+v", results)
		}
	})

	t.Run("text empty", func(t *testing.T) {
		results := Fuse(nil, []result.Result{makeResult("a")}, 0.3, 0.7, DefaultRRFK)
		if len(results) != 1 || results[0].TextScore != nil {
			t.Fatalf("expected 1 semantic-only result, got %+v", results)
		}
	})
}

func TestFuse_SortedByScore(t *testing.T) {
	text := []result.Result{makeResult("a"), makeResult("b")}
	semantic := []result.Result{makeResult("c"), makeResult("d")}

	results := Fuse(text, semantic, 0.3, 0.7, DefaultRRFK)
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted: %f > %f at index %d",
				results[i].Score, results[i-1].Score, i)
		}
	}
	if results[0].ID != "c" {
		t.Errorf("expected heavier semantic list to lead, got %s", results[0].ID)
	}
}

func TestFuse_RankMonotonic(t *testing.T) {
	list := make([]result.Result, 50)
	for i := range list {
		list[i] = makeResult(string(rune('A' + i)))
	}

	results := Fuse(list, nil, 1, 0, DefaultRRFK)
	for i := 1; i < len(results); i++ {
		if results[i].Score >= results[i-1].Score {
			t.Fatalf("rank %d scored %f, not below rank %d (%f)", i, results[i].Score, i-1, results[i-1].Score)
		}
		if results[i].ID != list[i].ID {
			t.Fatalf("order changed at %d", i)
		}
	}
}

func TestFuse_ScoreFormula(t *testing.T) {
	text := []result.Result{makeResult("a")}
	semantic := []result.Result{makeResult("a")}

	results := Fuse(text, semantic, 0.3, 0.7, DefaultRRFK)
	// rank 0 in both: 0.3/61 + 0.7/61
	expected := 1.0 / 61.0
	if math.Abs(results[0].Score-expected) > 1e-12 {
		t.Errorf("expected score %f, got %f", expected, results[0].Score)
	}
}

func TestFuse_DefaultK(t *testing.T) {
	a := Fuse([]result.Result{makeResult("a")}, nil, 1, 1, 0)
	b := Fuse([]result.Result{makeResult("a")}, nil, 1, 1, DefaultRRFK)
	if a[0].Score != b[0].Score {
		t.Errorf("k=0 should use the default, got %f vs %f", a[0].Score, b[0].Score)
	}
}
