package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willianpinho/document-management-system-sub001/internal/db"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/filter"
)

const (
	org    = "0f8fad5b-d9cb-469f-a165-70867728950e"
	folder = "5b1c4a9e-3f2d-4f7a-9c51-0d2e8b6a1f30"
	owner  = "9a7b3c1d-2e4f-4a6b-8c0d-1e2f3a4b5c6d"
)

func TestApplyFilters_EmptyAddsNothing(t *testing.T) {
	b := db.Select("d.id").From("documents d")
	ScopeDocuments(b, "d", org)
	ApplyFilters(b, "d", filter.Filters{})

	sql, args := b.Build()

	assert.Equal(t, "SELECT d.id FROM documents d WHERE d.organization_id = $1 AND d.deleted_at IS NULL", sql)
	assert.Equal(t, []any{org}, args)
}

func TestApplyFilters_AllFieldsBound(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 6, 0)
	minSize, maxSize := int64(1), int64(1<<20)
	hostile := "x' OR '1'='1"

	f, err := filter.New(filter.Params{
		FolderID:    folder,
		MimeTypes:   []string{"application/pdf"},
		Statuses:    []string{"ready"},
		CreatedFrom: &from,
		CreatedTo:   &to,
		UpdatedFrom: &from,
		UpdatedTo:   &to,
		MinSize:     &minSize,
		MaxSize:     &maxSize,
		OwnerID:     owner,
		Category:    hostile,
		Tags:        []string{"finance", "2024"},
	})
	require.NoError(t, err)

	b := db.Select("d.id").From("documents d")
	ApplyFilters(b, "d", f)
	sql, args := b.Build()

	assert.Len(t, args, 12)
	assert.NotContains(t, sql, hostile)
	assert.NotContains(t, sql, "finance")
	assert.NotContains(t, sql, folder)
	for _, frag := range []string{
		"d.folder_id = $1",
		"d.mime_type = ANY($2)",
		"d.status = ANY($3)",
		"d.created_at >= $4",
		"d.created_at <= $5",
		"d.updated_at >= $6",
		"d.updated_at <= $7",
		"d.size_bytes >= $8",
		"d.size_bytes <= $9",
		"d.owner_id = $10",
		"d.category = $11",
		"d.tags @> $12",
	} {
		assert.Contains(t, sql, frag)
	}
}

func TestApplyFilters_Subfolders(t *testing.T) {
	f, err := filter.New(filter.Params{FolderID: folder, IncludeSubfolders: true})
	require.NoError(t, err)

	b := db.Select("d.id").From("documents d")
	ApplyFilters(b, "d", f)
	sql, args := b.Build()

	assert.Equal(t, []any{folder}, args)
	assert.Contains(t, sql, "root.id = $1")
	assert.True(t, strings.Contains(sql, "d.folder_id IN (SELECT sub.id FROM folders sub"))
	assert.NotContains(t, sql, "LIKE")
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db?sslmode=disable", migrateURL("postgres://u:p@h:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://h/db", migrateURL("postgresql://h/db"))
	assert.Equal(t, "pgx5://h/db", migrateURL("pgx5://h/db"))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	// every up has a matching down
	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Positive(t, ups)
	assert.Equal(t, ups, downs)
}
