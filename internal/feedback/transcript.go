// Package feedback records user ratings of search results.
package feedback

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/scholar/internal/models"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	noResults       = "未找到相关内容。"
)

var separator = strings.Repeat("-", 50)

// WriteResults renders results the way the interactive query loop prints them.
func WriteResults(w io.Writer, results []*models.SearchResult) error {
	bw := bufio.NewWriter(w)
	if len(results) == 0 {
		fmt.Fprintln(bw, noResults)
		return bw.Flush()
	}
	fmt.Fprintf(bw, "\nTop%d 搜索结果：\n", len(results))
	for i, r := range results {
		fmt.Fprintf(bw, "%d. 相关度: %.2f\n", i+1, r.Score)
		fmt.Fprintf(bw, "   标题: %s\n", r.Title)
		fmt.Fprintf(bw, "   作者: %s\n", strings.Join(r.Author, " "))
		fmt.Fprintf(bw, "   摘要: %s\n", r.Snippet)
		fmt.Fprintf(bw, "   关键词: %s\n", strings.Join(r.Keyword, " "))
		fmt.Fprintf(bw, "   URL: %s\n", r.URL)
		fmt.Fprintf(bw, "   日期: %s\n\n", r.Date)
	}
	return bw.Flush()
}

// Transcript renders a feedback entry for the text log: timestamp, query,
// the rated results, the comment and a separator line.
func Transcript(fb *models.Feedback) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[评价时间] %s\n", fb.CreatedAt.Format(timestampLayout))
	fmt.Fprintf(&b, "搜索词: %s\n", fb.Query)
	_ = WriteResults(&b, fb.Results)
	fmt.Fprintf(&b, "用户评价：\n%s\n", fb.Comment)
	b.WriteString(separator)
	b.WriteString("\n")
	return b.String()
}

// ReadComment reads comment lines from sc until two consecutive empty lines
// or end of input. Trailing empty lines are dropped.
func ReadComment(sc *bufio.Scanner) (string, error) {
	var lines []string
	prevEmpty := false
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" && prevEmpty {
			break
		}
		prevEmpty = line == ""
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n"), nil
}
