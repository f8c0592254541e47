package page

import "errors"

var (
	// ErrEmpty is returned when the requested page holds no items, either
	// because the source is empty or the page lies beyond the last one.
	ErrEmpty = errors.New("page is empty")
	// ErrInvalidSize is returned for a page size below 1.
	ErrInvalidSize = errors.New("page size must be positive")
)

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items        []T
	TotalResults int
	CurrentPage  int
	TotalPages   int
	PageSize     int
}

// Paginate returns items[(number-1)*size : number*size], clipped to the
// available length. number below 1 is treated as 1. TotalResults counts the
// whole input. An empty result yields ErrEmpty together with the page
// metadata, so callers can still report totals.
func Paginate[T any](items []T, number, size int) (Page[T], error) {
	if size < 1 {
		return Page[T]{}, ErrInvalidSize
	}
	if number < 1 {
		number = 1
	}

	total := len(items)
	p := Page[T]{
		TotalResults: total,
		CurrentPage:  number,
		TotalPages:   TotalPages(total, size),
		PageSize:     size,
	}

	if number > p.TotalPages {
		return p, ErrEmpty
	}
	skip := (number - 1) * size
	end := min(skip+size, total)
	p.Items = items[skip:end]
	return p, nil
}

// TotalPages returns ceil(total/size), or 0 for an empty set.
func TotalPages(total, size int) int {
	if total <= 0 || size < 1 {
		return 0
	}
	return (total + size - 1) / size
}
