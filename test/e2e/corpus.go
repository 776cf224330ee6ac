// Package e2e provides end-to-end tests over a synthetic paper corpus.
package e2e

import (
	"fmt"
	"strings"

	"github.com/hyperjump/scholar/internal/models"
)

// QueryTestCase defines a query and the documents it must return.
// When RankFirst is set the single expected document must be ranked first.
type QueryTestCase struct {
	Query          string
	ExpectedDocIDs []int
	RankFirst      bool
	Description    string
}

// Corpus holds documents, the segmenter vocabulary and query test cases.
type Corpus struct {
	Documents    []models.Document
	Words        []string
	Stopwords    []string
	TestCases    []QueryTestCase
	TotalDocs    int
	TotalQueries int
}

// Topic phrases; none is a substring of another so each query matches only
// its own keyword entries.
var topics = []string{
	"图神经网络", "强化学习", "知识图谱", "机器翻译", "目标检测",
	"推荐系统", "语音识别", "情感分析", "联邦学习", "对比学习",
	"图像分割", "文本摘要", "问答系统", "预训练语言模型", "异常检测",
	"时间序列预测", "多智能体", "迁移学习", "生成对抗网络", "命名实体识别",
	"信息检索", "点云配准", "行人重识别", "因果推断", "量子计算",
	"边缘计算", "区块链", "自动驾驶", "医学影像", "蛋白质结构预测",
}

var suffixes = []string{"研究", "综述", "方法", "应用"}

var templateWords = []string{"本文", "提出", "一种", "基于", "实验", "表明", "有效"}

// BuildCorpus returns a corpus of 100 papers. Papers sharing a topic share
// its phrase in title, abstract and keyword; every paper has a unique author.
func BuildCorpus() *Corpus {
	docs := buildDocuments(100)
	cases := buildQueryTestCases(docs)
	words := append(append(append([]string{}, topics...), suffixes...), templateWords...)
	return &Corpus{
		Documents:    docs,
		Words:        words,
		Stopwords:    []string{"的", "一种", "，", "。"},
		TestCases:    cases,
		TotalDocs:    len(docs),
		TotalQueries: len(cases),
	}
}

func authorName(i int) string {
	return fmt.Sprintf("作者%03d", i)
}

func buildDocuments(n int) []models.Document {
	out := make([]models.Document, 0, n)
	for i := 0; i < n; i++ {
		phrase := topics[i%len(topics)]
		suffix := suffixes[(i/len(topics))%len(suffixes)]
		out = append(out, models.Document{
			ID:       i,
			Title:    phrase + suffix,
			Abstract: fmt.Sprintf("本文提出一种基于%s的新%s，实验表明有效。", phrase, suffix),
			Author:   []string{authorName(i)},
			Keyword:  []string{phrase, "&nbsp"},
			URL:      fmt.Sprintf("https://papers.example.org/%03d", i),
			Date:     fmt.Sprintf("20%02d-01-01", 10+i%15),
		})
	}
	return out
}

func buildQueryTestCases(docs []models.Document) []QueryTestCase {
	if len(docs) == 0 {
		return nil
	}
	var cases []QueryTestCase
	for _, phrase := range topics {
		var ids []int
		for _, d := range docs {
			if strings.HasPrefix(d.Title, phrase) {
				ids = append(ids, d.ID)
			}
		}
		if len(ids) == 0 {
			continue
		}
		cases = append(cases, QueryTestCase{
			Query:          phrase,
			ExpectedDocIDs: ids,
			Description:    fmt.Sprintf("topic %s returns %d papers", phrase, len(ids)),
		})
	}
	for _, i := range []int{0, 7, 42, len(docs) - 1} {
		if i >= len(docs) {
			continue
		}
		cases = append(cases, QueryTestCase{
			Query:          authorName(i),
			ExpectedDocIDs: []int{i},
			RankFirst:      true,
			Description:    fmt.Sprintf("author %s ranks paper %d first", authorName(i), i),
		})
	}
	return cases
}

func containsQuery(d models.Document, query string) bool {
	if strings.Contains(d.Title, query) {
		return true
	}
	for _, a := range d.Author {
		if a == query {
			return true
		}
	}
	return false
}
