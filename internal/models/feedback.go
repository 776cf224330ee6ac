package models

import "time"

// Feedback is a user rating of the results returned for a query.
type Feedback struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Query     string          `json:"query"`
	Results   []*SearchResult `json:"results"`
	Comment   string          `json:"comment"`
}
