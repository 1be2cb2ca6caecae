package apimodels

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaginationWindow(t *testing.T) {
	cases := []struct {
		name   string
		in     Pagination
		limit  int
		offset int
	}{
		{name: "defaults", in: Pagination{}, limit: DefaultPageSize, offset: 0},
		{name: "third page", in: Pagination{Limit: 20, Page: 3}, limit: 20, offset: 40},
		{name: "limit capped", in: Pagination{Limit: 1000, Page: 2}, limit: MaxPageSize, offset: MaxPageSize},
		{name: "negative values", in: Pagination{Limit: -5, Page: -1}, limit: DefaultPageSize, offset: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name+" check", func(t *testing.T) {
			limit, offset := tc.in.Window()
			require.Equal(t, tc.limit, limit)
			require.Equal(t, tc.offset, offset)
		})
	}
}

func TestResponses(t *testing.T) {
	require.Equal(t, Response{Status: StatusFail, Message: "nope"}, NewError("nope"))
	scroller := NewScrollerResponse([]int{1}, 7)
	require.Equal(t, StatusSuccess, scroller.Status)
	require.Equal(t, int64(7), scroller.RowCount)
}
