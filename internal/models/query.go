package models

// SearchQuery is a search request.
type SearchQuery struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// Validate normalizes the limit: non-positive values become defaultLimit and
// values above maxLimit are capped. An empty query is valid and yields no results.
func (q *SearchQuery) Validate(defaultLimit, maxLimit int) {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
}
