package request

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/willianpinho/document-management-system-sub001/internal/domain"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/filter"
)

// Search parameter limits and defaults.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength        = 4096
	DefaultLimit          = 20
	MaxLimit              = 100
	DefaultThreshold      = 0.7
	DefaultTextWeight     = 0.3
	DefaultSemanticWeight = 0.7
	// MaxWindow caps page*limit, the number of ranked results a request may reach into.
	MaxWindow             = 10000
)

// Defaults are the fallbacks applied to omitted parameters.
type Defaults struct {
	Limit          int
	MaxLimit       int
	Threshold      float64
	TextWeight     float64
	SemanticWeight float64
}

// BuiltinDefaults returns the package defaults.
func BuiltinDefaults() Defaults {
	return Defaults{
		Limit:          DefaultLimit,
		MaxLimit:       MaxLimit,
		Threshold:      DefaultThreshold,
		TextWeight:     DefaultTextWeight,
		SemanticWeight: DefaultSemanticWeight,
	}
}

// SortField is a whitelisted lexical ordering column.
type SortField string

// Sort fields.
const (
	SortByName      SortField = "name"
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
	SortBySize      SortField = "size"
)

// IsValid checks if the field is one of the supported values.
func (f SortField) IsValid() bool {
	return f == SortByName || f == SortByCreatedAt || f == SortByUpdatedAt || f == SortBySize
}

// Sort is a lexical ordering. The zero value means updated_at descending.
type Sort struct {
	Field     SortField
	Ascending bool
}

// Params is the raw search input.
type Params struct {
	OrganizationID string
	Query          string
	Filters        filter.Filters
	Page           int
	Limit          int
	SortBy         string
	SortOrder      string
	Threshold      *float64
	TextWeight     *float64
	SemanticWeight *float64
	Rerank         bool
	// Defaults overrides BuiltinDefaults when set.
	Defaults       *Defaults
}

// Request is a validated search query.
type Request struct {
	organizationID string
	query          string
	filters        filter.Filters
	page           int
	limit          int
	sort           Sort
	threshold      float64
	textWeight     float64
	semanticWeight float64
	rerank         bool
}

// New validates and normalizes search parameters.
// Defaults: page=1, limit=20 (clamped to 100), sort=updated_at desc, threshold=0.7,
// weights=0.3/0.7, unless p.Defaults says otherwise. page*limit may not exceed MaxWindow.
func New(p Params) (Request, error) {
	d := BuiltinDefaults()
	if p.Defaults != nil {
		d = *p.Defaults
	}

	if _, err := uuid.Parse(p.OrganizationID); err != nil {
		return Request{}, domain.NewValidationError("organization_id", "must be a uuid")
	}
	query := strings.TrimSpace(p.Query)
	if query == "" {
		return Request{}, domain.NewValidationError("q", "query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, domain.NewValidationError("q", "query too long (max %d chars)", MaxQueryLength)
	}

	page := p.Page
	if page <= 0 {
		page = 1
	}
	limit := p.Limit
	if limit <= 0 {
		limit = d.Limit
	}
	if d.MaxLimit > 0 && limit > d.MaxLimit {
		limit = d.MaxLimit
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if page > MaxWindow/limit {
		return Request{}, domain.NewValidationError("page", "page*limit must not exceed %d", MaxWindow)
	}

	sort, err := parseSort(p.SortBy, p.SortOrder)
	if err != nil {
		return Request{}, err
	}

	threshold := d.Threshold
	if p.Threshold != nil {
		threshold = *p.Threshold
	}
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return Request{}, domain.NewValidationError("threshold", "must be between 0 and 1")
	}

	tw, sw := d.TextWeight, d.SemanticWeight
	if p.TextWeight != nil {
		tw = *p.TextWeight
	}
	if p.SemanticWeight != nil {
		sw = *p.SemanticWeight
	}
	if err := ValidateWeights(tw, sw); err != nil {
		return Request{}, err
	}

	return Request{
		organizationID: p.OrganizationID,
		query:          query,
		filters:        p.Filters,
		page:           page,
		limit:          limit,
		sort:           sort,
		threshold:      threshold,
		textWeight:     tw,
		semanticWeight: sw,
		rerank:         p.Rerank,
	}, nil
}

// ValidateWeights checks a lexical/semantic fusion weight pair.
func ValidateWeights(text, semantic float64) error {
	if math.IsNaN(text) || text < 0 || math.IsNaN(semantic) || semantic < 0 {
		return domain.NewValidationError("weights", "must not be negative")
	}
	if text+semantic == 0 {
		return domain.NewValidationError("weights", "at least one weight must be positive")
	}
	return nil
}

func parseSort(by, order string) (Sort, error) {
	s := Sort{Field: SortByUpdatedAt}
	if by != "" {
		s.Field = SortField(by)
		if !s.Field.IsValid() {
			return Sort{}, domain.NewValidationError("sort_by", "unsupported value %q", by)
		}
	}
	switch strings.ToLower(order) {
	case "", "desc":
	case "asc":
		s.Ascending = true
	default:
		return Sort{}, domain.NewValidationError("sort_order", "must be asc or desc")
	}
	return s, nil
}

// OrganizationID returns the tenant scope.
func (r *Request) OrganizationID() string { return r.organizationID }

// Query returns the trimmed search text.
func (r *Request) Query() string { return r.query }

// Filters returns the predicate set.
func (r *Request) Filters() filter.Filters { return r.filters }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }

// Offset returns the number of results skipped before this page.
func (r *Request) Offset() int { return (r.page - 1) * r.limit }

// Sort returns the lexical ordering.
func (r *Request) Sort() Sort { return r.sort }

// Threshold returns the minimum cosine similarity for semantic candidates.
func (r *Request) Threshold() float64 { return r.threshold }

// TextWeight returns the lexical RRF weight.
func (r *Request) TextWeight() float64 { return r.textWeight }

// SemanticWeight returns the semantic RRF weight.
func (r *Request) SemanticWeight() float64 { return r.semanticWeight }

// Rerank reports whether LLM reranking was requested.
func (r *Request) Rerank() bool { return r.rerank }
