// Package document is the lexical searcher over the documents and folders tables.
package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/willianpinho/document-management-system-sub001/internal/db"
	"github.com/willianpinho/document-management-system-sub001/internal/db/postgres"
	"github.com/willianpinho/document-management-system-sub001/internal/domain"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/request"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/result"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/suggestion"
	"github.com/willianpinho/document-management-system-sub001/internal/text"
)

// excerptRadius is how many characters before the first match are fetched for snippets.
const excerptRadius = 200

// excerptLength is the number of characters fetched for snippet generation.
const excerptLength = 1000

// store is the consumer interface for documents (ISP).
type store interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ store = (postgres.Querier)(nil)

// Repo is the lexical searcher over the documents table.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

var sortColumns = map[request.SortField]string{
	request.SortByName:      "d.name",
	request.SortByCreatedAt: "d.created_at",
	request.SortByUpdatedAt: "d.updated_at",
	request.SortBySize:      "d.size_bytes",
}

// Search returns live documents of the request's organization whose name or extracted
// text contains the query, case-insensitively. Items are ordered by req.Sort() and
// scored 1/position over the whole result set.
func (r *Repo) Search(ctx context.Context, req *request.Request, offset, limit int) (result.Page, error) {
	b := db.Select("d.id", "d.name", "d.mime_type", "d.folder_id", "d.created_at", "d.updated_at").
		From("documents d")
	postgres.ScopeDocuments(b, "d", req.OrganizationID())
	pattern := b.Bind("%" + db.EscapeLike(req.Query()) + "%")
	b.Where(fmt.Sprintf("(d.name ILIKE %s OR d.extracted_text ILIKE %s)", pattern, pattern))
	postgres.ApplyFilters(b, "d", req.Filters())

	total, err := r.count(ctx, b)
	if err != nil {
		return result.Page{}, err
	}
	if total == 0 || offset >= total {
		return result.Page{Items: []result.Result{}, Total: total}, nil
	}

	// bound only after counting: the count statement has no excerpt column to reference it
	raw := b.Bind(req.Query())
	b.Columns(fmt.Sprintf(
		"coalesce(substring(d.extracted_text from greatest(strpos(lower(d.extracted_text), lower(%s)) - %d, 1) for %d), '')",
		raw, excerptRadius, excerptLength))

	sort := req.Sort()
	dir := "DESC"
	if sort.Ascending {
		dir = "ASC"
	}
	b.OrderBy(sortColumns[sort.Field] + " " + dir).OrderBy("d.id").Limit(limit).Offset(offset)

	sql, args := b.Build()
	rows, err := r.store.Query(ctx, sql, args...)
	if err != nil {
		return result.Page{}, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer rows.Close()

	items := make([]result.Result, 0, min(limit, total-offset))
	for rows.Next() {
		var (
			res     result.Result
			excerpt string
		)
		if err := rows.Scan(&res.ID, &res.Name, &res.MimeType, &res.FolderID,
			&res.CreatedAt, &res.UpdatedAt, &excerpt); err != nil {
			return result.Page{}, &db.Error{Op: db.OpScan, Err: err}
		}
		score := 1 / float64(offset+len(items)+1)
		res.TextScore = result.Float(score)
		res.Score = score
		if excerpt != "" {
			res.Snippet = text.HighlightSnippet(excerpt, req.Query(), text.DefaultSnippetLength)
		}
		items = append(items, res)
	}
	if err := rows.Err(); err != nil {
		return result.Page{}, &db.Error{Op: db.OpScan, Err: err}
	}

	return result.Page{Items: items, Total: total}, nil
}

func (r *Repo) count(ctx context.Context, b *db.SelectBuilder) (int, error) {
	sql, args := b.BuildCount()
	var total int64
	if err := r.store.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, &db.Error{Op: db.OpQuery, Err: err}
	}
	return int(total), nil
}

// SuggestCandidates fetches up to limit documents and/or folders whose name contains
// prefix. Names starting with prefix are fetched first.
func (r *Repo) SuggestCandidates(
	ctx context.Context, organizationID, prefix string, scope suggestion.Scope, limit int,
) (suggestion.Candidates, error) {
	var docs, folders []suggestion.Candidate
	var err error

	if scope == suggestion.DocumentsOnly || scope == suggestion.Both {
		if docs, err = r.nameCandidates(ctx, "documents", organizationID, prefix, limit); err != nil {
			return suggestion.Candidates{}, err
		}
	}
	if scope == suggestion.FoldersOnly || scope == suggestion.Both {
		if folders, err = r.nameCandidates(ctx, "folders", organizationID, prefix, limit); err != nil {
			return suggestion.Candidates{}, err
		}
	}

	switch scope {
	case suggestion.DocumentsOnly:
		return suggestion.NewDocumentCandidates(docs), nil
	case suggestion.FoldersOnly:
		return suggestion.NewFolderCandidates(folders), nil
	default:
		return suggestion.NewCandidates(docs, folders), nil
	}
}

// nameCandidates queries a whitelisted table by name.
func (r *Repo) nameCandidates(ctx context.Context, table, organizationID, prefix string, limit int) (
	[]suggestion.Candidate, error,
) {
	b := db.Select("t.id", "t.name").From(table + " t")
	b.Where("t.organization_id = " + b.Bind(organizationID))
	b.Where("t.deleted_at IS NULL")
	escaped := db.EscapeLike(prefix)
	b.Where("t.name ILIKE " + b.Bind("%"+escaped+"%"))
	b.OrderBy("(t.name ILIKE " + b.Bind(escaped+"%") + ") DESC").OrderBy("t.updated_at DESC").Limit(limit)

	sql, args := b.Build()
	rows, err := r.store.Query(ctx, sql, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer rows.Close()

	var out []suggestion.Candidate
	for rows.Next() {
		var c suggestion.Candidate
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}
	return out, nil
}

// Text returns a document's extracted text for embedding.
func (r *Repo) Text(ctx context.Context, organizationID, documentID string) (string, error) {
	var body string
	err := r.store.QueryRow(ctx,
		`SELECT coalesce(extracted_text, '') FROM documents
		 WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL`,
		documentID, organizationID,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
		}
		return "", &db.Error{Op: db.OpQuery, Err: err}
	}
	return body, nil
}
