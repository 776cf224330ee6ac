package indexer

import (
	"github.com/hyperjump/scholar/internal/index"
	"github.com/hyperjump/scholar/internal/models"
)

// fixedScore is the weight stored for author and keyword postings.
const fixedScore = 1.0

// Assemble builds the inverted index from analyzed fields and term scores.
//
// Fields are applied in models.Fields order and each one overwrites the
// posting's score, so when a term occurs in several fields of a document the
// score of the last field (title, abstract, author, keyword) is kept.
func Assemble(fields []*DocumentFields, scores *TermScores) index.InvertedIndex {
	idx := make(index.InvertedIndex)
	for id, f := range fields {
		for _, field := range models.Fields {
			for term, poses := range f.Field(field) {
				p := idx.Add(term, id)
				switch field {
				case models.FieldTitle:
					p.TitlePositions = poses
				case models.FieldAbstract:
					p.AbstractPositions = poses
				case models.FieldAuthor:
					p.AuthorPositions = poses
				case models.FieldKeyword:
					p.KeywordPositions = poses
				}
				p.Score = fieldScore(field, term, scores)
			}
		}
	}
	return idx
}

func fieldScore(field models.Field, term string, scores *TermScores) float64 {
	if field == models.FieldAuthor || field == models.FieldKeyword {
		return fixedScore
	}
	s, _ := scores.Get(term)
	return s.Final
}
