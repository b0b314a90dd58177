// Package result holds scored search hits and the metadata returned with them.
package result

import (
	"time"

	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/algorithm"
)

// Result is a single scored hit. Score is the ranking key at every pipeline stage;
// the per-source scores are kept for observability and are never cleared on merge.
type Result struct {
	ID            string
	Name          string
	MimeType      string
	FolderID      *string
	TextScore     *float64
	SemanticScore *float64
	RerankScore   *float64
	Score         float64
	Snippet       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Page is one page of a ranked list plus the size of the whole candidate set.
type Page struct {
	Items []Result
	Total int
}

// Meta describes how a result list was produced.
type Meta struct {
	Query          string
	Algorithm      algorithm.Algorithm
	Total          int
	Page           int
	Limit          int
	TotalPages     int
	Took           time.Duration
	Threshold      *float64
	Reranked       *bool
	TextWeight     *float64
	SemanticWeight *float64
}

// Response is a search result page with its metadata.
type Response struct {
	Results []Result
	Meta    Meta
}

// TotalPages returns ceil(total/limit), zero when limit is not positive.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Paginate returns the [offset, offset+limit) window of items, clamped to bounds.
func Paginate(items []Result, offset, limit int) []Result {
	if offset >= len(items) || limit <= 0 {
		return []Result{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
