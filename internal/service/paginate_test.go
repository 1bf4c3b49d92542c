package service

import (
	"reflect"
	"strconv"
	"testing"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginateThirteenBySix(t *testing.T) {
	all := seq(13)
	tests := []struct {
		page int
		want []int
	}{
		{1, []int{1, 2, 3, 4, 5, 6}},
		{2, []int{7, 8, 9, 10, 11, 12}},
		{3, []int{13}},
		{4, []int{}},
		{0, []int{}},
		{-1, []int{}},
	}
	for _, tt := range tests {
		got := Paginate(all, tt.page, 6)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Paginate(13 items, %d, 6) = %v, want %v", tt.page, got, tt.want)
		}
	}
}

func TestPaginateMatchesSlice(t *testing.T) {
	all := seq(20)
	for size := 1; size <= 7; size++ {
		for page := 1; page <= TotalPages(len(all), size); page++ {
			start, end := (page-1)*size, min(page*size, len(all))
			if got := Paginate(all, page, size); !reflect.DeepEqual(got, all[start:end]) {
				t.Errorf("Paginate(all, %d, %d) = %v, want %v", page, size, got, all[start:end])
			}
		}
	}
}

func TestPaginateDoesNotAliasInput(t *testing.T) {
	all := seq(5)
	got := Paginate(all, 1, 3)
	got[0] = 99
	if all[0] != 1 {
		t.Errorf("input modified through page: all[0] = %d", all[0])
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct{ total, size, want int }{
		{0, 6, 0}, {1, 6, 1}, {6, 6, 1}, {7, 6, 2}, {13, 6, 3}, {5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

// render writes a pager as e.g. "1 … 4 5 6 … 10".
func render(items []PageItem) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += " "
		}
		if it.Ellipsis {
			out += "…"
			continue
		}
		out += strconv.Itoa(it.Number)
	}
	return out
}

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		current, total, window int
		want                   string
	}{
		{1, 0, 5, ""},
		{1, 1, 5, "1"},
		{2, 4, 5, "1 2 3 4"},
		{3, 5, 5, "1 2 3 4 5"},
		{1, 10, 5, "1 2 3 4 5 … 10"},
		{5, 10, 5, "1 … 3 4 5 6 7 … 10"},
		{4, 10, 3, "1 … 3 4 5 … 10"},
		{10, 10, 5, "1 … 6 7 8 9 10"},
		{2, 10, 3, "1 2 3 … 10"},
		{3, 10, 3, "1 2 3 4 … 10"},
		{8, 10, 3, "1 … 7 8 9 10"},
		{99, 10, 3, "1 … 8 9 10"},
	}
	for _, tt := range tests {
		if got := render(PageNumbers(tt.current, tt.total, tt.window)); got != tt.want {
			t.Errorf("PageNumbers(%d, %d, %d) = %q, want %q", tt.current, tt.total, tt.window, got, tt.want)
		}
	}
}
