package search

import (
	"testing"

	"github.com/willianpinho/document-management-system-sub001/internal/db/postgres/pgtest"
)

const org = "0f8fad5b-d9cb-469f-a165-70867728950e"

func newTestRepo(t *testing.T) (*Repo, *pgtest.Querier) {
	t.Helper()
	q := &pgtest.Querier{}
	return New(q), q
}

func testVector() []float32 {
	vec := make([]float32, 4)
	for i := range vec {
		vec[i] = 0.5
	}
	return vec
}
