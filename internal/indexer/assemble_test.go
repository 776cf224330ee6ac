package indexer

import (
	"testing"

	"github.com/hyperjump/scholar/internal/models"
)

func TestAssemble(t *testing.T) {
	a := testAnalyzer()
	docs := []models.Document{
		{Title: "图神经网络", Author: []string{"张三"}, Keyword: []string{"图"}},
		{Abstract: "神经网络模型", Author: []string{"李四", "张三"}},
		{},
	}
	fields := make([]*DocumentFields, len(docs))
	for i := range docs {
		fields[i] = a.AnalyzeDocument(&docs[i])
	}
	scores := ScoreTerms(fields)
	idx := Assemble(fields, scores)

	nn, _ := scores.Get("神经网络")
	for _, id := range []int{0, 1} {
		p := idx.Posting("神经网络", id)
		if p == nil {
			t.Fatalf("missing posting for doc %d", id)
		}
		if p.Score != nn.Final {
			t.Errorf("doc %d score = %v, want term final %v", id, p.Score, nn.Final)
		}
	}
	if p := idx.Posting("神经网络", 0); len(p.TitlePositions) != 1 || len(p.AbstractPositions) != 0 {
		t.Errorf("doc 0 positions: %+v", p)
	}

	t.Run("author and keyword score", func(t *testing.T) {
		for _, id := range []int{0, 1} {
			p := idx.Posting("张三", id)
			if p == nil || p.Score != 1.0 {
				t.Errorf("张三 in doc %d: %+v", id, p)
			}
		}
		if p := idx.Posting("张三", 1); p.AuthorPositions[0] != 1 {
			t.Errorf("author position = %v, want [1]", p.AuthorPositions)
		}
	})

	t.Run("later field overwrites score", func(t *testing.T) {
		p := idx.Posting("图", 0)
		if p == nil {
			t.Fatal("missing posting")
		}
		if len(p.TitlePositions) != 1 || len(p.KeywordPositions) != 1 {
			t.Errorf("positions: %+v", p)
		}
		if p.Score != 1.0 {
			t.Errorf("score = %v, want keyword score 1.0", p.Score)
		}
	})

	t.Run("empty document has no postings", func(t *testing.T) {
		for term, ps := range idx {
			if _, ok := ps[2]; ok {
				t.Errorf("term %q has posting for empty document", term)
			}
		}
	})

	t.Run("lists never nil", func(t *testing.T) {
		for term, ps := range idx {
			for id, p := range ps {
				if p.TitlePositions == nil || p.AbstractPositions == nil || p.AuthorPositions == nil || p.KeywordPositions == nil {
					t.Errorf("%q/%d has nil list", term, id)
				}
				if p.Empty() {
					t.Errorf("%q/%d has no positions", term, id)
				}
			}
		}
	})
}
