package db

import (
	"slices"
	"strconv"
	"strings"
)

// SelectBuilder is a fluent builder for parameterized SELECT statements.
// Values only ever enter a statement through Bind, which returns the
// positional placeholder ($1, $2, ...) to splice into SQL text.
type SelectBuilder struct {
	columns []string
	from    string
	joins   []string
	where   []string
	orderBy []string
	limit   int
	offset  int
	args    []any
}

// Select starts building a SELECT over the given columns.
func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

// Bind records v as the next positional argument and returns its placeholder.
func (b *SelectBuilder) Bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// Columns appends result columns.
func (b *SelectBuilder) Columns(columns ...string) *SelectBuilder {
	b.columns = append(b.columns, columns...)
	return b
}

// From sets the source table expression.
func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.from = table
	return b
}

// Join appends a join clause, e.g. "JOIN folders f ON f.id = d.folder_id".
func (b *SelectBuilder) Join(clause string) *SelectBuilder {
	b.joins = append(b.joins, clause)
	return b
}

// Where appends a condition; conditions are AND-ed.
func (b *SelectBuilder) Where(cond string) *SelectBuilder {
	b.where = append(b.where, cond)
	return b
}

// OrderBy appends an ordering expression. Callers must whitelist column names.
func (b *SelectBuilder) OrderBy(expr string) *SelectBuilder {
	b.orderBy = append(b.orderBy, expr)
	return b
}

// Limit caps the number of rows. Zero means no limit.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	return b
}

// Offset skips rows before returning.
func (b *SelectBuilder) Offset(n int) *SelectBuilder {
	b.offset = n
	return b
}

// Build renders the statement and its arguments. LIMIT and OFFSET are bound
// as trailing arguments; the builder itself is left unchanged.
func (b *SelectBuilder) Build() (string, []any) {
	args := slices.Clone(b.args)
	var sb strings.Builder

	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.columns, ", "))
	b.writeBody(&sb)

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		args = append(args, b.limit)
		sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}
	if b.offset > 0 {
		args = append(args, b.offset)
		sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	}
	return sb.String(), args
}

// BuildCount renders SELECT count(*) over the same source and conditions.
func (b *SelectBuilder) BuildCount() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT count(*)")
	b.writeBody(&sb)
	return sb.String(), slices.Clone(b.args)
}

func (b *SelectBuilder) writeBody(sb *strings.Builder) {
	sb.WriteString(" FROM ")
	sb.WriteString(b.from)
	for _, j := range b.joins {
		sb.WriteString(" ")
		sb.WriteString(j)
	}
	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}
}

// EscapeLike escapes LIKE/ILIKE wildcards so s matches literally with the default '\' escape.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
