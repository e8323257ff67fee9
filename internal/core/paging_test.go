package core

import (
	"errors"
	"testing"
)

func TestTotalPages(t *testing.T) {
	cases := []struct {
		count, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{23, 10, 3},
		{100, 10, 10},
		{5, 2, 3},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.count, tc.size); got != tc.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", tc.count, tc.size, got, tc.want)
		}
	}
}

func TestPageOffset(t *testing.T) {
	cases := []struct {
		page, size, want int
	}{
		{1, 10, 0},
		{2, 10, 10},
		{3, 7, 14},
	}
	for _, tc := range cases {
		got, err := PageOffset(tc.page, tc.size)
		if err != nil {
			t.Fatalf("PageOffset(%d, %d): %v", tc.page, tc.size, err)
		}
		if got != tc.want {
			t.Fatalf("PageOffset(%d, %d) = %d, want %d", tc.page, tc.size, got, tc.want)
		}
	}
}

func TestPageOffsetRejectsBadPage(t *testing.T) {
	for _, page := range []int{0, -1, -10} {
		if _, err := PageOffset(page, 10); !errors.Is(err, ErrInvalidPage) {
			t.Fatalf("PageOffset(%d, 10): want ErrInvalidPage, got %v", page, err)
		}
	}
}
