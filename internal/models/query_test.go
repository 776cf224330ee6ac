package models

import (
	"testing"
)

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name      string
		query     *SearchQuery
		wantLimit int
	}{
		{"empty query keeps default", &SearchQuery{Query: ""}, 10},
		{"sets default limit", &SearchQuery{Query: "x", Limit: 0}, 10},
		{"negative limit", &SearchQuery{Query: "x", Limit: -3}, 10},
		{"keeps explicit limit", &SearchQuery{Query: "x", Limit: 7}, 7},
		{"caps limit at max", &SearchQuery{Query: "x", Limit: 200}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.query.Validate(10, 100)
			if tt.query.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", tt.query.Limit, tt.wantLimit)
			}
		})
	}
}

func TestSearchQuery_ValidateNoMax(t *testing.T) {
	q := &SearchQuery{Query: "x", Limit: 500}
	q.Validate(10, 0)
	if q.Limit != 500 {
		t.Errorf("Limit = %d, want 500 when max is unset", q.Limit)
	}
}
