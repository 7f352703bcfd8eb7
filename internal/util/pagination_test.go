package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		page, size int
		from, lim  int
	}{
		{1, 10, 0, 10},
		{3, 20, 40, 20},
		{0, 10, 0, 10},
		{-5, 10, 0, 10},
		{2, 0, 10, 10},
		{2, 1000, 10, 10},
	}

	for _, tc := range cases {
		from, lim := Calculate(tc.page, tc.size)
		require.Equal(t, tc.from, from, "page=%d size=%d", tc.page, tc.size)
		require.Equal(t, tc.lim, lim, "page=%d size=%d", tc.page, tc.size)
	}
}
