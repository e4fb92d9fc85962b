package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		page    int
		perPage int
		want    Page
	}{
		{
			name: "first of three pages", total: 25, page: 1, perPage: 10,
			want: Page{Page: 1, PerPage: 10, TotalCount: 25, TotalPages: 3, HasNext: true, HasPrev: false},
		},
		{
			name: "middle page", total: 25, page: 2, perPage: 10,
			want: Page{Page: 2, PerPage: 10, TotalCount: 25, TotalPages: 3, HasNext: true, HasPrev: true},
		},
		{
			name: "last short page", total: 25, page: 3, perPage: 10,
			want: Page{Page: 3, PerPage: 10, TotalCount: 25, TotalPages: 3, HasNext: false, HasPrev: true},
		},
		{
			name: "past the end is empty not an error", total: 25, page: 4, perPage: 10,
			want: Page{Page: 4, PerPage: 10, TotalCount: 25, TotalPages: 3, HasNext: false, HasPrev: true},
		},
		{
			name: "exact multiple", total: 20, page: 2, perPage: 10,
			want: Page{Page: 2, PerPage: 10, TotalCount: 20, TotalPages: 2, HasNext: false, HasPrev: true},
		},
		{
			name: "empty collection", total: 0, page: 1, perPage: 10,
			want: Page{Page: 1, PerPage: 10, TotalCount: 0, TotalPages: 0, HasNext: false, HasPrev: false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPage(tt.total, tt.page, tt.perPage))
		})
	}
}
