package db

import (
	"strings"
	"testing"
)

func TestSelectBuilder_Build(t *testing.T) {
	b := Select("d.id", "d.name").From("documents d")
	b.Join("LEFT JOIN folders f ON f.id = d.folder_id")
	b.Where("d.organization_id = " + b.Bind("org-1"))
	b.Where("d.deleted_at IS NULL")
	b.OrderBy("d.updated_at DESC").Limit(20).Offset(40)

	sql, args := b.Build()

	want := "SELECT d.id, d.name FROM documents d LEFT JOIN folders f ON f.id = d.folder_id " +
		"WHERE d.organization_id = $1 AND d.deleted_at IS NULL ORDER BY d.updated_at DESC LIMIT $2 OFFSET $3"
	if sql != want {
		t.Errorf("sql =\n%s\nwant\n%s", sql, want)
	}
	if len(args) != 3 || args[0] != "org-1" || args[1] != 20 || args[2] != 40 {
		t.Errorf("args = %v", args)
	}
}

func TestSelectBuilder_BuildCountIgnoresPaging(t *testing.T) {
	b := Select("id").From("documents")
	b.Where("name ILIKE " + b.Bind("%x%"))
	b.OrderBy("name").Limit(5)

	sql, args := b.BuildCount()

	if sql != "SELECT count(*) FROM documents WHERE name ILIKE $1" {
		t.Errorf("sql = %s", sql)
	}
	if len(args) != 1 {
		t.Errorf("args = %v", args)
	}
}

func TestSelectBuilder_BuildIsRepeatable(t *testing.T) {
	b := Select("id").From("documents").Limit(10)
	b.Where("id = " + b.Bind("a"))

	first, a1 := b.Build()
	second, a2 := b.Build()

	if first != second || len(a1) != len(a2) {
		t.Errorf("Build mutated builder: %q vs %q", first, second)
	}
}

func TestSelectBuilder_NoValuesInSQL(t *testing.T) {
	hostile := "'; DROP TABLE documents; --"
	b := Select("id").From("documents")
	b.Where("category = " + b.Bind(hostile))

	sql, args := b.Build()

	if strings.Contains(sql, "DROP") {
		t.Fatalf("value leaked into SQL: %s", sql)
	}
	if args[0] != hostile {
		t.Errorf("args = %v", args)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"plain":     "plain",
		"100%":      `100\%`,
		"a_b":       `a\_b`,
		`back\wash`: `back\\wash`,
	}
	for in, want := range tests {
		if got := EscapeLike(in); got != want {
			t.Errorf("EscapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
