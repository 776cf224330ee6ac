// Package models defines core data structures for papers, queries, and search results.
package models

// Document is one paper record of the corpus. ID is the record's 0-based
// position in the corpus file and is stable for the process lifetime.
type Document struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Abstract string   `json:"abstract"`
	Author   []string `json:"author"`
	Keyword  []string `json:"keyword"`
	URL      string   `json:"url"`
	Date     string   `json:"date"`
}

// Field names a searchable part of a Document.
type Field string

const (
	FieldTitle    Field = "title"
	FieldAbstract Field = "abstract"
	FieldAuthor   Field = "author"
	FieldKeyword  Field = "keyword"
)

// Fields lists all fields in index processing order.
var Fields = []Field{FieldTitle, FieldAbstract, FieldAuthor, FieldKeyword}
