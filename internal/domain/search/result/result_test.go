package result

import "testing"

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestPaginate(t *testing.T) {
	items := []Result{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	if got := Paginate(items, 0, 2); len(got) != 2 || got[1].ID != "b" {
		t.Errorf("first page = %+v", got)
	}
	if got := Paginate(items, 2, 2); len(got) != 1 || got[0].ID != "c" {
		t.Errorf("last page = %+v", got)
	}
	if got := Paginate(items, 3, 2); got == nil || len(got) != 0 {
		t.Errorf("past end = %+v, want empty non-nil", got)
	}
}
