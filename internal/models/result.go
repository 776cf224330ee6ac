package models

// SearchResult is a single ranked paper with highlighted fields.
// Matched tokens and entries are wrapped in highlight markers.
type SearchResult struct {
	Rank    int      `json:"rank"`
	DocID   int      `json:"doc_id"`
	Score   float64  `json:"score"`
	Title   string   `json:"title"`
	Snippet string   `json:"snippet"`
	URL     string   `json:"url"`
	Date    string   `json:"date"`
	Author  []string `json:"author"`
	Keyword []string `json:"keyword"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Query string `json:"query"`
	// Results holds at most the requested number of hits, best first.
	Results []*SearchResult `json:"results"`
	// Total is the number of matching documents before truncation.
	Total     int   `json:"total"`
	QueryTime int64 `json:"query_time_ms"`
}
