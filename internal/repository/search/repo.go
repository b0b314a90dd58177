// Package search is the semantic searcher over stored document embeddings.
package search

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"

	"github.com/willianpinho/document-management-system-sub001/internal/db"
	"github.com/willianpinho/document-management-system-sub001/internal/db/postgres"
	"github.com/willianpinho/document-management-system-sub001/internal/domain"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/filter"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/result"
	"github.com/willianpinho/document-management-system-sub001/internal/text"
)

// maxPrealloc bounds the result slice allocated before rows arrive; topK is caller-controlled.
const maxPrealloc = 256

// store is the consumer interface for embedding queries (ISP).
type store interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ store = (postgres.Querier)(nil)

// Repo implements usecase/search.SemanticSearcher.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SearchKNN returns up to topK live documents of the organization whose cosine
// similarity to vector is at least threshold, most similar first.
func (r *Repo) SearchKNN(
	ctx context.Context, organizationID string,
	vector []float32, filters filter.Filters, topK int, threshold float64,
) ([]result.Result, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("search knn: %w", domain.ErrEmptyInput)
	}

	b := db.Select("d.id", "d.name", "d.mime_type", "d.folder_id", "d.created_at", "d.updated_at",
		"left(coalesce(d.extracted_text, ''), 400)").
		From("document_embeddings e").
		Join("JOIN documents d ON d.id = e.document_id")
	vec := b.Bind(vectorLiteral(vector))
	similarity := fmt.Sprintf("1 - (e.embedding <=> %s::vector)", vec)
	b.Columns(similarity)

	postgres.ScopeDocuments(b, "d", organizationID)
	postgres.ApplyFilters(b, "d", filters)
	b.Where(fmt.Sprintf("%s >= %s", similarity, b.Bind(threshold)))
	b.OrderBy(fmt.Sprintf("e.embedding <=> %s::vector", vec)).Limit(topK)

	sql, args := b.Build()
	rows, err := r.store.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w: %w", domain.ErrVectorIndex, err)
	}
	defer rows.Close()

	results := make([]result.Result, 0, min(max(topK, 0), maxPrealloc))
	for rows.Next() {
		var (
			res     result.Result
			excerpt string
			score   float64
		)
		if err := rows.Scan(&res.ID, &res.Name, &res.MimeType, &res.FolderID,
			&res.CreatedAt, &res.UpdatedAt, &excerpt, &score); err != nil {
			return nil, fmt.Errorf("search knn: %w: %w", domain.ErrVectorIndex, &db.Error{Op: db.OpScan, Err: err})
		}
		res.Snippet = text.GenerateSnippet(excerpt, text.DefaultSnippetLength)
		res.SemanticScore = result.Float(score)
		res.Score = score
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search knn: %w: %w", domain.ErrVectorIndex, err)
	}

	return results, nil
}

// Upsert stores or replaces a document's embedding.
func (r *Repo) Upsert(ctx context.Context, e domain.StoredEmbedding) error {
	if len(e.Vector) == 0 {
		return fmt.Errorf("upsert embedding %s: %w", e.DocumentID, domain.ErrEmptyInput)
	}
	_, err := r.store.Exec(ctx, `
INSERT INTO document_embeddings (document_id, organization_id, embedding, model, tokens_used, chunk_count, updated_at)
VALUES ($1, $2, $3::vector, $4, $5, $6, now())
ON CONFLICT (document_id) DO UPDATE SET
    embedding = EXCLUDED.embedding,
    model = EXCLUDED.model,
    tokens_used = EXCLUDED.tokens_used,
    chunk_count = EXCLUDED.chunk_count,
    updated_at = now()`,
		e.DocumentID, e.OrganizationID, vectorLiteral(e.Vector), e.Model, e.TokensUsed, e.ChunkCount,
	)
	if err != nil {
		return fmt.Errorf("upsert embedding %s: %w", e.DocumentID, &db.Error{Op: db.OpExec, Err: err})
	}
	return nil
}

// vectorLiteral renders v in pgvector's text form, e.g. "[0.1,0.2]".
func vectorLiteral(v []float32) string {
	return pgvector.NewVector(v).String()
}
