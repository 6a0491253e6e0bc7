package pagination

import "testing"

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name      string
		params    *PaginationParams
		wantItems []int
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"first page", &PaginationParams{Page: 1, PerPage: 3}, []int{1, 2, 3}, 3, true, false},
		{"last partial page", &PaginationParams{Page: 3, PerPage: 3}, []int{7}, 3, false, true},
		{"past the end", &PaginationParams{Page: 9, PerPage: 3}, []int{}, 3, false, true},
		{"invalid params use defaults", &PaginationParams{}, items, 1, false, false},
		{"nil params", nil, items, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(items, tt.params)
			if len(got.Items) != len(tt.wantItems) {
				t.Fatalf("items = %v, want %v", got.Items, tt.wantItems)
			}
			for i := range got.Items {
				if got.Items[i] != tt.wantItems[i] {
					t.Fatalf("items = %v, want %v", got.Items, tt.wantItems)
				}
			}
			if got.Pagination.Total != int64(len(items)) {
				t.Errorf("total = %d, want %d", got.Pagination.Total, len(items))
			}
			if got.Pagination.TotalPages != tt.wantPages {
				t.Errorf("total pages = %d, want %d", got.Pagination.TotalPages, tt.wantPages)
			}
			if got.Pagination.HasNext != tt.wantNext || got.Pagination.HasPrev != tt.wantPrev {
				t.Errorf("has next/prev = %v/%v, want %v/%v", got.Pagination.HasNext, got.Pagination.HasPrev, tt.wantNext, tt.wantPrev)
			}
		})
	}
}

func TestPaginateDoesNotAliasInput(t *testing.T) {
	items := []string{"a", "b"}
	got := Paginate(items, &PaginationParams{Page: 1, PerPage: 5})
	got.Items[0] = "z"
	if items[0] != "a" {
		t.Fatal("page shares backing array with input")
	}
}
