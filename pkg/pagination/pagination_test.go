// Copyright (c) 2026 Promptix. All rights reserved.

package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query  string
		page   int
		limit  int
		offset int
	}{
		{"", DefaultPage, DefaultLimit, 0},
		{"?page=3&limit=10", 3, 10, 20},
		{"?page=-1&limit=1000", DefaultPage, DefaultLimit, 0},
		{"?page=abc&limit=x", DefaultPage, DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			params := FromRequest(httptest.NewRequest("GET", "/api/v1/tasks"+tt.query, nil))
			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
			assert.Equal(t, tt.offset, params.Offset())
		})
	}
}

func TestNewMeta(t *testing.T) {
	assert.Equal(t, 3, NewMeta(1, 20, 41).TotalPages)
	assert.Equal(t, 0, NewMeta(1, 20, 0).TotalPages)
}
