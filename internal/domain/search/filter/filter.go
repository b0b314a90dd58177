// Package filter holds the optional predicate set shared by lexical and vector search.
package filter

import (
	"time"

	"github.com/google/uuid"

	"github.com/willianpinho/document-management-system-sub001/internal/domain"
)

// MaxValuesPerField is the maximum number of values accepted in a set-valued filter.
const MaxValuesPerField = 32

// Params is the raw, unvalidated filter input.
type Params struct {
	FolderID          string
	IncludeSubfolders bool
	MimeTypes         []string
	Statuses          []string
	CreatedFrom       *time.Time
	CreatedTo         *time.Time
	UpdatedFrom       *time.Time
	UpdatedTo         *time.Time
	MinSize           *int64
	MaxSize           *int64
	OwnerID           string
	Category          string
	Tags              []string
}

// DateRange is an inclusive time window. Either bound may be nil.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IsEmpty reports whether neither bound is set.
func (r DateRange) IsEmpty() bool { return r.From == nil && r.To == nil }

// SizeRange is an inclusive byte-size window. Either bound may be nil.
type SizeRange struct {
	Min *int64
	Max *int64
}

// IsEmpty reports whether neither bound is set.
func (r SizeRange) IsEmpty() bool { return r.Min == nil && r.Max == nil }

// Filters is a validated predicate set. A zero value constrains nothing.
type Filters struct {
	folderID          string
	includeSubfolders bool
	mimeTypes         []string
	statuses          []string
	created           DateRange
	updated           DateRange
	size              SizeRange
	ownerID           string
	category          string
	tags              []string
}

// New validates p and creates Filters.
func New(p Params) (Filters, error) {
	if p.FolderID != "" {
		if _, err := uuid.Parse(p.FolderID); err != nil {
			return Filters{}, domain.NewValidationError("folder_id", "must be a uuid")
		}
	} else if p.IncludeSubfolders {
		return Filters{}, domain.NewValidationError("include_subfolders", "requires folder_id")
	}
	if p.OwnerID != "" {
		if _, err := uuid.Parse(p.OwnerID); err != nil {
			return Filters{}, domain.NewValidationError("owner_id", "must be a uuid")
		}
	}

	for field, values := range map[string][]string{
		"mime_type": p.MimeTypes,
		"status":    p.Statuses,
		"tags":      p.Tags,
	} {
		if len(values) > MaxValuesPerField {
			return Filters{}, domain.NewValidationError(field, "too many values (max %d)", MaxValuesPerField)
		}
		for _, v := range values {
			if v == "" {
				return Filters{}, domain.NewValidationError(field, "empty value")
			}
		}
	}

	created := DateRange{From: p.CreatedFrom, To: p.CreatedTo}
	if err := validateDates("created", created); err != nil {
		return Filters{}, err
	}
	updated := DateRange{From: p.UpdatedFrom, To: p.UpdatedTo}
	if err := validateDates("updated", updated); err != nil {
		return Filters{}, err
	}

	size := SizeRange{Min: p.MinSize, Max: p.MaxSize}
	if (size.Min != nil && *size.Min < 0) || (size.Max != nil && *size.Max < 0) {
		return Filters{}, domain.NewValidationError("size", "must not be negative")
	}
	if size.Min != nil && size.Max != nil && *size.Min > *size.Max {
		return Filters{}, domain.NewValidationError("size", "min_size exceeds max_size")
	}

	return Filters{
		folderID:          p.FolderID,
		includeSubfolders: p.IncludeSubfolders,
		mimeTypes:         p.MimeTypes,
		statuses:          p.Statuses,
		created:           created,
		updated:           updated,
		size:              size,
		ownerID:           p.OwnerID,
		category:          p.Category,
		tags:              p.Tags,
	}, nil
}

func validateDates(field string, r DateRange) error {
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return domain.NewValidationError(field, "range start is after range end")
	}
	return nil
}

// FolderID returns the folder scope, empty when unscoped.
func (f Filters) FolderID() string { return f.folderID }

// IncludeSubfolders reports whether descendants of FolderID are in scope.
func (f Filters) IncludeSubfolders() bool { return f.includeSubfolders }

// MimeTypes returns the accepted mime types.
func (f Filters) MimeTypes() []string { return f.mimeTypes }

// Statuses returns the accepted document statuses.
func (f Filters) Statuses() []string { return f.statuses }

// Created returns the creation date window.
func (f Filters) Created() DateRange { return f.created }

// Updated returns the update date window.
func (f Filters) Updated() DateRange { return f.updated }

// Size returns the byte-size window.
func (f Filters) Size() SizeRange { return f.size }

// OwnerID returns the owner constraint.
func (f Filters) OwnerID() string { return f.ownerID }

// Category returns the category constraint.
func (f Filters) Category() string { return f.category }

// Tags returns tags that must all be present on a document.
func (f Filters) Tags() []string { return f.tags }

// IsEmpty reports whether no predicate is set.
func (f Filters) IsEmpty() bool {
	return f.folderID == "" && len(f.mimeTypes) == 0 && len(f.statuses) == 0 &&
		f.created.IsEmpty() && f.updated.IsEmpty() && f.size.IsEmpty() &&
		f.ownerID == "" && f.category == "" && len(f.tags) == 0
}
