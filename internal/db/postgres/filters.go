package postgres

import (
	"github.com/willianpinho/document-management-system-sub001/internal/db"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/filter"
)

// ScopeDocuments restricts b to live documents of one organization. alias names the
// documents table in b.
func ScopeDocuments(b *db.SelectBuilder, alias, organizationID string) {
	b.Where(alias + ".organization_id = " + b.Bind(organizationID))
	b.Where(alias + ".deleted_at IS NULL")
}

// ApplyFilters adds one bound predicate per set field of f. Unset fields add nothing.
func ApplyFilters(b *db.SelectBuilder, alias string, f filter.Filters) {
	if f.IsEmpty() {
		return
	}
	col := func(name string) string { return alias + "." + name }

	if id := f.FolderID(); id != "" {
		if f.IncludeSubfolders() {
			// subtree by materialized path, compared literally so '%' or '_' in folder names stay inert
			b.Where(col("folder_id") + " IN (SELECT sub.id FROM folders sub JOIN folders root" +
				" ON root.id = " + b.Bind(id) +
				" WHERE sub.organization_id = root.organization_id AND sub.deleted_at IS NULL" +
				" AND (sub.id = root.id OR left(sub.path, length(root.path) + 1) = root.path || '/'))")
		} else {
			b.Where(col("folder_id") + " = " + b.Bind(id))
		}
	}
	if v := f.MimeTypes(); len(v) > 0 {
		b.Where(col("mime_type") + " = ANY(" + b.Bind(v) + ")")
	}
	if v := f.Statuses(); len(v) > 0 {
		b.Where(col("status") + " = ANY(" + b.Bind(v) + ")")
	}
	if r := f.Created(); r.From != nil {
		b.Where(col("created_at") + " >= " + b.Bind(*r.From))
	}
	if r := f.Created(); r.To != nil {
		b.Where(col("created_at") + " <= " + b.Bind(*r.To))
	}
	if r := f.Updated(); r.From != nil {
		b.Where(col("updated_at") + " >= " + b.Bind(*r.From))
	}
	if r := f.Updated(); r.To != nil {
		b.Where(col("updated_at") + " <= " + b.Bind(*r.To))
	}
	if s := f.Size(); s.Min != nil {
		b.Where(col("size_bytes") + " >= " + b.Bind(*s.Min))
	}
	if s := f.Size(); s.Max != nil {
		b.Where(col("size_bytes") + " <= " + b.Bind(*s.Max))
	}
	if v := f.OwnerID(); v != "" {
		b.Where(col("owner_id") + " = " + b.Bind(v))
	}
	if v := f.Category(); v != "" {
		b.Where(col("category") + " = " + b.Bind(v))
	}
	if v := f.Tags(); len(v) > 0 {
		b.Where(col("tags") + " @> " + b.Bind(v))
	}
}
