package page

import (
	"errors"
	"testing"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate_ThirteenBySix(t *testing.T) {
	items := seq(13)

	tests := []struct {
		number    int
		wantItems []int
		wantErr   error
	}{
		{1, []int{1, 2, 3, 4, 5, 6}, nil},
		{2, []int{7, 8, 9, 10, 11, 12}, nil},
		{3, []int{13}, nil},
		{4, nil, ErrEmpty},
	}
	for _, tt := range tests {
		p, err := Paginate(items, tt.number, 6)
		if !errors.Is(err, tt.wantErr) {
			t.Fatalf("page %d: err = %v, want %v", tt.number, err, tt.wantErr)
		}
		if p.TotalPages != 3 {
			t.Errorf("page %d: TotalPages = %d, want 3", tt.number, p.TotalPages)
		}
		if p.TotalResults != 13 {
			t.Errorf("page %d: TotalResults = %d, want 13", tt.number, p.TotalResults)
		}
		if p.CurrentPage != tt.number {
			t.Errorf("page %d: CurrentPage = %d", tt.number, p.CurrentPage)
		}
		if len(p.Items) != len(tt.wantItems) {
			t.Fatalf("page %d: got %d items, want %d", tt.number, len(p.Items), len(tt.wantItems))
		}
		for i := range tt.wantItems {
			if p.Items[i] != tt.wantItems[i] {
				t.Errorf("page %d item %d: got %d, want %d", tt.number, i, p.Items[i], tt.wantItems[i])
			}
		}
	}
}

func TestPaginate_PageBelowOne(t *testing.T) {
	for _, n := range []int{0, -3} {
		p, err := Paginate(seq(4), n, 3)
		if err != nil {
			t.Fatalf("page %d: unexpected error: %v", n, err)
		}
		if p.CurrentPage != 1 || len(p.Items) != 3 || p.Items[0] != 1 {
			t.Errorf("page %d: got current=%d items=%v", n, p.CurrentPage, p.Items)
		}
	}
}

func TestPaginate_EmptySource(t *testing.T) {
	p, err := Paginate([]string{}, 1, 10)
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if p.TotalPages != 0 || p.TotalResults != 0 {
		t.Errorf("TotalPages = %d, TotalResults = %d", p.TotalPages, p.TotalResults)
	}
}

func TestPaginate_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := Paginate(seq(3), 1, size); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("size %d: expected ErrInvalidSize, got %v", size, err)
		}
	}
}

func TestPaginate_ExactMultiple(t *testing.T) {
	p, err := Paginate(seq(12), 2, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TotalPages != 2 || len(p.Items) != 6 || p.Items[5] != 12 {
		t.Errorf("got TotalPages=%d items=%v", p.TotalPages, p.Items)
	}
	if _, err := Paginate(seq(12), 3, 6); !errors.Is(err, ErrEmpty) {
		t.Errorf("page 3: expected ErrEmpty, got %v", err)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct{ total, size, want int }{
		{0, 6, 0},
		{1, 6, 1},
		{6, 6, 1},
		{7, 6, 2},
		{13, 6, 3},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestPaginate_HugePageNumber(t *testing.T) {
	if _, err := Paginate(seq(3), int(^uint(0)>>1), 100); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}
