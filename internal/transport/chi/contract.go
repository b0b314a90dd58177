package chi

import (
	"context"

	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/request"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/result"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/suggestion"
	healthuc "github.com/willianpinho/document-management-system-sub001/internal/usecase/health"
	indexinguc "github.com/willianpinho/document-management-system-sub001/internal/usecase/indexing"
)

// Searcher serves the four search operations.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Response, error)
	SemanticSearch(ctx context.Context, req *request.Request) (result.Response, error)
	HybridSearch(ctx context.Context, req *request.Request) (result.Response, error)
	Suggest(
		ctx context.Context, organizationID, prefix string, scope suggestion.Scope, limit int,
	) ([]suggestion.Suggestion, error)
}

// Indexer embeds stored documents.
type Indexer interface {
	IndexDocument(ctx context.Context, organizationID, documentID string) (indexinguc.Result, error)
}

// HealthChecker aggregates dependency health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
