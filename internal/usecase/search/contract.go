package search

import (
	"context"

	"github.com/willianpinho/document-management-system-sub001/internal/domain"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/filter"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/request"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/result"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/suggestion"
)

// LexicalSearcher matches query text against document names and extracted text.
type LexicalSearcher interface {
	Search(ctx context.Context, req *request.Request, offset, limit int) (result.Page, error)
	SuggestCandidates(
		ctx context.Context, organizationID, prefix string, scope suggestion.Scope, limit int,
	) (suggestion.Candidates, error)
}

// SemanticSearcher finds documents by embedding similarity.
type SemanticSearcher interface {
	SearchKNN(
		ctx context.Context, organizationID string,
		vector []float32, filters filter.Filters, topK int, threshold float64,
	) ([]result.Result, error)
}

// Embedder vectorizes the query. IsAvailable is false when no provider is configured.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
	IsAvailable() bool
}

// Reranker reorders the head of a ranked list; the bool reports whether it did.
type Reranker interface {
	Rerank(ctx context.Context, query string, results []result.Result) ([]result.Result, bool)
	IsAvailable() bool
}
