package votes

import (
	"testing"
)

func TestPaginate(t *testing.T) {
	items := []int{10, 20, 30, 40}

	tests := []struct {
		name     string
		offset   int
		limit    int
		wantPage []int
		wantNext *int
	}{
		{
			name:     "first page with more remaining",
			offset:   0,
			limit:    2,
			wantPage: []int{10, 20},
			wantNext: intPtr(2),
		},
		{
			name:     "middle page ending exactly at the list",
			offset:   2,
			limit:    2,
			wantPage: []int{30, 40},
			wantNext: nil,
		},
		{
			name:     "limit larger than remainder",
			offset:   3,
			limit:    10,
			wantPage: []int{40},
			wantNext: nil,
		},
		{
			name:     "offset equals length",
			offset:   4,
			limit:    2,
			wantPage: []int{},
			wantNext: nil,
		},
		{
			name:     "offset past length",
			offset:   9,
			limit:    2,
			wantPage: []int{},
			wantNext: nil,
		},
		{
			name:     "negative offset",
			offset:   -1,
			limit:    2,
			wantPage: []int{},
			wantNext: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, next := Paginate(items, tt.offset, tt.limit)

			if len(page) != len(tt.wantPage) {
				t.Fatalf("page length = %d, want %d", len(page), len(tt.wantPage))
			}
			for i := range page {
				if page[i] != tt.wantPage[i] {
					t.Errorf("page[%d] = %d, want %d", i, page[i], tt.wantPage[i])
				}
			}

			switch {
			case tt.wantNext == nil && next != nil:
				t.Errorf("next offset = %d, want absent", *next)
			case tt.wantNext != nil && next == nil:
				t.Errorf("next offset absent, want %d", *tt.wantNext)
			case tt.wantNext != nil && *next != *tt.wantNext:
				t.Errorf("next offset = %d, want %d", *next, *tt.wantNext)
			}
		})
	}
}

// TestPaginateEmptyList covers the degenerate input: any offset is out of range
func TestPaginateEmptyList(t *testing.T) {
	page, next := Paginate([]string{}, 0, 50)
	if len(page) != 0 {
		t.Errorf("page length = %d, want 0", len(page))
	}
	if next != nil {
		t.Errorf("next offset = %d, want absent", *next)
	}
}

// TestPaginateChaining walks pages via the returned next offset and verifies
// every element is visited exactly once, in order.
func TestPaginateChaining(t *testing.T) {
	items := make([]int, 17)
	for i := range items {
		items[i] = i
	}

	for _, limit := range []int{1, 3, 17, 50} {
		var visited []int
		offset := 0
		for {
			page, next := Paginate(items, offset, limit)
			visited = append(visited, page...)
			if next == nil {
				break
			}
			offset = *next
		}

		if len(visited) != len(items) {
			t.Fatalf("limit %d: visited %d elements, want %d", limit, len(visited), len(items))
		}
		for i := range items {
			if visited[i] != items[i] {
				t.Errorf("limit %d: visited[%d] = %d, want %d", limit, i, visited[i], items[i])
			}
		}
	}
}

func intPtr(v int) *int {
	return &v
}
