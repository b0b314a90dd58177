package chi

import (
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/willianpinho/document-management-system-sub001/internal/domain"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/filter"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/request"
)

// OrganizationHeader carries the tenant scope of every /v1 request.
const OrganizationHeader = "X-Organization-ID"

type queryBinding struct {
	name     string
	required bool
	dest     any
}

// bindQuery binds form-style exploded query parameters. Optional destinations are
// pointers to pointer fields, which stay nil when the parameter is absent.
func bindQuery(values url.Values, bindings ...queryBinding) error {
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, b.required, b.name, values, b.dest); err != nil {
			return &domain.ValidationError{Field: b.name, Reason: err.Error()}
		}
	}
	return nil
}

func organizationID(r *http.Request) (string, error) {
	id := r.Header.Get(OrganizationHeader)
	if id == "" {
		return "", domain.NewValidationError("organization_id", "%s header is required", OrganizationHeader)
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", domain.NewValidationError("organization_id", "must be a uuid")
	}
	return id, nil
}

type searchQuery struct {
	Q                 string
	Page              *int
	Limit             *int
	SortBy            *string
	SortOrder         *string
	Threshold         *float64
	TextWeight        *float64
	SemanticWeight    *float64
	Rerank            *bool
	FolderID          *string
	IncludeSubfolders *bool
	MimeTypes         *[]string
	Statuses          *[]string
	Tags              *[]string
	OwnerID           *string
	Category          *string
	CreatedFrom       *time.Time
	CreatedTo         *time.Time
	UpdatedFrom       *time.Time
	UpdatedTo         *time.Time
	MinSize           *int64
	MaxSize           *int64
}

// parseSearchRequest binds and validates a search request from the query string
// and the organization header.
func parseSearchRequest(r *http.Request, defaults request.Defaults) (request.Request, error) {
	orgID, err := organizationID(r)
	if err != nil {
		return request.Request{}, err
	}

	var q searchQuery
	err = bindQuery(r.URL.Query(),
		queryBinding{"q", true, &q.Q},
		queryBinding{"page", false, &q.Page},
		queryBinding{"limit", false, &q.Limit},
		queryBinding{"sort_by", false, &q.SortBy},
		queryBinding{"sort_order", false, &q.SortOrder},
		queryBinding{"threshold", false, &q.Threshold},
		queryBinding{"text_weight", false, &q.TextWeight},
		queryBinding{"semantic_weight", false, &q.SemanticWeight},
		queryBinding{"rerank", false, &q.Rerank},
		queryBinding{"folder_id", false, &q.FolderID},
		queryBinding{"include_subfolders", false, &q.IncludeSubfolders},
		queryBinding{"mime_type", false, &q.MimeTypes},
		queryBinding{"status", false, &q.Statuses},
		queryBinding{"tag", false, &q.Tags},
		queryBinding{"owner_id", false, &q.OwnerID},
		queryBinding{"category", false, &q.Category},
		queryBinding{"created_from", false, &q.CreatedFrom},
		queryBinding{"created_to", false, &q.CreatedTo},
		queryBinding{"updated_from", false, &q.UpdatedFrom},
		queryBinding{"updated_to", false, &q.UpdatedTo},
		queryBinding{"min_size", false, &q.MinSize},
		queryBinding{"max_size", false, &q.MaxSize},
	)
	if err != nil {
		return request.Request{}, err
	}

	filters, err := filter.New(filter.Params{
		FolderID:          deref(q.FolderID),
		IncludeSubfolders: deref(q.IncludeSubfolders),
		MimeTypes:         deref(q.MimeTypes),
		Statuses:          deref(q.Statuses),
		Tags:              deref(q.Tags),
		OwnerID:           deref(q.OwnerID),
		Category:          deref(q.Category),
		CreatedFrom:       q.CreatedFrom,
		CreatedTo:         q.CreatedTo,
		UpdatedFrom:       q.UpdatedFrom,
		UpdatedTo:         q.UpdatedTo,
		MinSize:           q.MinSize,
		MaxSize:           q.MaxSize,
	})
	if err != nil {
		return request.Request{}, err
	}

	return request.New(request.Params{
		OrganizationID: orgID,
		Query:          q.Q,
		Filters:        filters,
		Page:           deref(q.Page),
		Limit:          deref(q.Limit),
		SortBy:         deref(q.SortBy),
		SortOrder:      deref(q.SortOrder),
		Threshold:      q.Threshold,
		TextWeight:     q.TextWeight,
		SemanticWeight: q.SemanticWeight,
		Rerank:         deref(q.Rerank),
		Defaults:       &defaults,
	})
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
