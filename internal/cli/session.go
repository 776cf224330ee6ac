package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/scholar/internal/feedback"
	"github.com/hyperjump/scholar/internal/models"
)

// ErrNoPreviousQuery is returned by Rate before any query has run.
var ErrNoPreviousQuery = errors.New("尚未进行过搜索")

const (
	banner     = "查询程序启动，输入 exit 退出，输入 rate 进行评价"
	prompt     = "\n请输入查询/命令："
	ratePrompt = "\n请对本次搜索进行评价（连续两次Enter结束）："
	goodbye    = "拜拜！"
	thanks     = "感谢评价！"
	cmdExit    = "exit"
	cmdRate    = "rate"
)

// Searcher runs a query.
type Searcher interface {
	Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error)
}

// Recorder stores a rating of the results of a query.
type Recorder interface {
	Record(ctx context.Context, query string, results []*models.SearchResult, comment string) (*models.Feedback, error)
}

// Session is an interactive query loop. It keeps only the last query and
// its results, for rating.
type Session struct {
	searcher Searcher
	recorder Recorder
	limit    int
	logger   *zap.Logger

	hasLast     bool
	lastQuery   string
	lastResults []*models.SearchResult
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLimit sets the number of results per query; 0 uses the engine default.
func WithLimit(n int) SessionOption {
	return func(s *Session) { s.limit = n }
}

// WithLogger sets a logger.
func WithLogger(l *zap.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// NewSession creates a session.
func NewSession(searcher Searcher, recorder Recorder, opts ...SessionOption) *Session {
	s := &Session{searcher: searcher, recorder: recorder, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Query runs q and remembers it as the last query.
func (s *Session) Query(ctx context.Context, q string) (*models.SearchResponse, error) {
	resp, err := s.searcher.Search(ctx, &models.SearchQuery{Query: q, Limit: s.limit})
	if err != nil {
		return nil, err
	}
	s.hasLast = true
	s.lastQuery = q
	s.lastResults = resp.Results
	return resp, nil
}

// Rate records comment against the last query and its results.
func (s *Session) Rate(ctx context.Context, comment string) (*models.Feedback, error) {
	if !s.hasLast {
		return nil, ErrNoPreviousQuery
	}
	return s.recorder.Record(ctx, s.lastQuery, s.lastResults, comment)
}

// Run reads commands from in until "exit", end of input or ctx is done.
// Any other line is a query. Errors from a single query or rating are
// printed and the loop continues.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	fmt.Fprintln(out, banner)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, prompt)
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch strings.ToLower(line) {
		case cmdExit:
			fmt.Fprintln(out, goodbye)
			return nil
		case cmdRate:
			s.rate(ctx, sc, out)
		default:
			resp, err := s.Query(ctx, line)
			if err != nil {
				s.logger.Error("search failed", zap.String("query", line), zap.Error(err))
				fmt.Fprintf(out, "搜索失败: %v\n", err)
				continue
			}
			if err := feedback.WriteResults(out, resp.Results); err != nil {
				return err
			}
		}
	}
}

func (s *Session) rate(ctx context.Context, sc *bufio.Scanner, out io.Writer) {
	if !s.hasLast {
		fmt.Fprintln(out, ErrNoPreviousQuery)
		return
	}
	fmt.Fprintln(out, ratePrompt)
	comment, err := feedback.ReadComment(sc)
	if err != nil {
		fmt.Fprintf(out, "读取评价失败: %v\n", err)
		return
	}
	if _, err := s.Rate(ctx, comment); err != nil {
		s.logger.Error("record feedback failed", zap.Error(err))
		fmt.Fprintf(out, "评价保存失败: %v\n", err)
		return
	}
	fmt.Fprintln(out, thanks)
}
