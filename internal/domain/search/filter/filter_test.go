package filter

import (
	"errors"
	"testing"
	"time"

	"github.com/willianpinho/document-management-system-sub001/internal/domain"
)

func int64Ptr(v int64) *int64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }

const folder = "5b1c4a9e-3f2d-4f7a-9c51-0d2e8b6a1f30"

func TestNew_Empty(t *testing.T) {
	f, err := New(Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.IsEmpty() {
		t.Error("zero params should produce empty filters")
	}
}

func TestNew_Valid(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f, err := New(Params{
		FolderID:          folder,
		IncludeSubfolders: true,
		MimeTypes:         []string{"application/pdf"},
		Statuses:          []string{"ready"},
		CreatedFrom:       timePtr(from),
		CreatedTo:         timePtr(from.AddDate(0, 1, 0)),
		MinSize:           int64Ptr(10),
		MaxSize:           int64Ptr(10),
		Category:          "invoice",
		Tags:              []string{"finance"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.IsEmpty() {
		t.Error("expected non-empty filters")
	}
	if f.FolderID() != folder || !f.IncludeSubfolders() {
		t.Errorf("folder scope = %q/%v", f.FolderID(), f.IncludeSubfolders())
	}
	if f.Created().From == nil || !f.Created().From.Equal(from) {
		t.Error("created range lost")
	}
	if !f.Updated().IsEmpty() {
		t.Error("updated range should be empty")
	}
	if *f.Size().Min != 10 || *f.Size().Max != 10 {
		t.Error("size range lost")
	}
}

func TestNew_Invalid(t *testing.T) {
	now := time.Now()
	tooMany := make([]string, MaxValuesPerField+1)
	for i := range tooMany {
		tooMany[i] = "x"
	}

	tests := []struct {
		name  string
		p     Params
		field string
	}{
		{"bad folder", Params{FolderID: "root"}, "folder_id"},
		{"subfolders without folder", Params{IncludeSubfolders: true}, "include_subfolders"},
		{"bad owner", Params{OwnerID: "42"}, "owner_id"},
		{"too many mime types", Params{MimeTypes: tooMany}, "mime_type"},
		{"empty status", Params{Statuses: []string{""}}, "status"},
		{"inverted created", Params{CreatedFrom: timePtr(now), CreatedTo: timePtr(now.Add(-time.Hour))}, "created"},
		{"inverted updated", Params{UpdatedFrom: timePtr(now), UpdatedTo: timePtr(now.Add(-time.Hour))}, "updated"},
		{"negative size", Params{MinSize: int64Ptr(-1)}, "size"},
		{"inverted size", Params{MinSize: int64Ptr(5), MaxSize: int64Ptr(1)}, "size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.p)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("field = %v, want %q", ve, tt.field)
			}
		})
	}
}
