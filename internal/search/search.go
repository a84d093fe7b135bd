package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
)

// Result is the outcome of one search that was not superseded.
type Result struct {
	Query    string
	Projects []naotimes.ProjectSummary
	Err      error
}

// Searcher sends debounced project searches through a gateway and
// publishes the answers on Results.
type Searcher struct {
	gw       naotimes.Gateway
	logger   *slog.Logger
	debounce *Debouncer
	results  chan Result
}

// NewSearcher builds a searcher bound to ctx. A nil logger discards.
func NewSearcher(ctx context.Context, gw naotimes.Gateway, delay time.Duration, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Searcher{gw: gw, logger: logger, results: make(chan Result, 1)}
	s.debounce = NewDebouncer(ctx, delay, s.run)
	return s
}

// Results delivers completed searches. Superseded searches are dropped.
func (s *Searcher) Results() <-chan Result { return s.results }

// Type records a change to the search box. Blank queries only cancel.
func (s *Searcher) Type(query string) {
	if strings.TrimSpace(query) == "" {
		s.debounce.Stop()
		return
	}
	s.debounce.Trigger(query)
}

// Stop cancels the pending search.
func (s *Searcher) Stop() { s.debounce.Stop() }

func (s *Searcher) run(ctx context.Context, query string) {
	projects, err := s.gw.SearchProjects(ctx, strings.TrimSpace(query))
	if ctx.Err() != nil {
		return
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("project search failed", "query", query, "error", err)
	}
	res := Result{Query: query, Projects: projects, Err: err}

	// Keep only the freshest answer.
	select {
	case <-s.results:
	default:
	}
	select {
	case s.results <- res:
	case <-ctx.Done():
	}
}
