package core

import "errors"

// DefaultPageSize is the page size used when the caller does not choose one.
const DefaultPageSize = 10

// ErrInvalidPage rejects page numbers below one instead of producing a
// negative skip offset.
var ErrInvalidPage = errors.New("page number must be at least 1")

// TotalPages returns ceil(count / size). Zero matches means zero pages.
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// PageOffset returns the number of records to skip for a 1-based page number.
func PageOffset(page, size int) (int, error) {
	if page < 1 {
		return 0, ErrInvalidPage
	}
	return (page - 1) * size, nil
}
