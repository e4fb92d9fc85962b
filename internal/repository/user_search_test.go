package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSort(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"created_at", "created_at"},
		{"updated_at", "updated_at"},
		{"password", "created_at"}, // not on the allow-list
		{"username", "created_at"},
		{"", "created_at"},
		{"CREATED_AT", "created_at"}, // allow-list is exact-match
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveSort(tt.in), "sort %q", tt.in)
	}
}

func TestResolveOrder(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"asc", "ASC"},
		{"ASC", "ASC"},
		{"desc", "DESC"},
		{"sideways", "DESC"},
		{"", "DESC"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveOrder(tt.in), "order %q", tt.in)
	}
}

func TestSearchQueryNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   SearchQuery
		want SearchQuery
	}{
		{
			name: "zero values get defaults",
			in:   SearchQuery{},
			want: SearchQuery{Page: 1, PerPage: defaultPerPage, Sort: "created_at", Order: "DESC"},
		},
		{
			name: "negative page clamps to first",
			in:   SearchQuery{Page: -3, PerPage: 20, Sort: "updated_at", Order: "asc"},
			want: SearchQuery{Page: 1, PerPage: 20, Sort: "updated_at", Order: "ASC"},
		},
		{
			name: "oversized per_page clamps to the maximum",
			in:   SearchQuery{Page: 2, PerPage: 9999, Sort: "password", Order: "up"},
			want: SearchQuery{Page: 2, PerPage: maxPerPage, Sort: "created_at", Order: "DESC"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.normalize())
		})
	}
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%%", likePattern(""), "empty keyword matches everything")
	assert.Equal(t, "%bob%", likePattern("Bob"))
}
