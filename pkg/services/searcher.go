package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/kerbaras/animeverse/pkg/sources"
	"go.uber.org/zap"
)

// ErrSuperseded marks a search whose answer arrived after a newer query was
// issued. Callers drop such results instead of overwriting fresher ones.
var ErrSuperseded = errors.New("search superseded by a newer query")

// DefaultDebounce is how long input must stay unchanged before a search fires.
const DefaultDebounce = 500 * time.Millisecond

// SearchResult is the outcome of one sequenced search.
type SearchResult struct {
	Seq     uint64
	Query   string
	Results []data.AnimeRecord
	Err     error
}

// Searcher debounces search input and tags every query with a monotonically
// increasing sequence number so that stale responses can be discarded.
type Searcher struct {
	source sources.Source
	delay  time.Duration
	latest atomic.Uint64
	logger *zap.Logger
}

func NewSearcher(source sources.Source, delay time.Duration, logger *zap.Logger) *Searcher {
	if delay < 0 {
		delay = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Searcher{source: source, delay: delay, logger: logger}
}

func (s *Searcher) Delay() time.Duration {
	return s.delay
}

// Issue registers a new query and returns its sequence number. Every result
// tagged with an older number becomes stale.
func (s *Searcher) Issue() uint64 {
	return s.latest.Add(1)
}

func (s *Searcher) IsLatest(seq uint64) bool {
	return s.latest.Load() == seq
}

// Run queries the source for seq. The result carries ErrSuperseded when a
// newer query was issued before the request started or before it returned.
func (s *Searcher) Run(ctx context.Context, seq uint64, query string) SearchResult {
	res := SearchResult{Seq: seq, Query: query}
	if !s.IsLatest(seq) {
		res.Err = ErrSuperseded
		return res
	}

	query = strings.TrimSpace(query)
	if query == "" {
		res.Results = []data.AnimeRecord{}
		return res
	}

	start := time.Now()
	results, err := s.source.Search(ctx, query)
	if !s.IsLatest(seq) {
		s.logger.Debug("discarding stale search response", zap.Uint64("seq", seq), zap.String("query", query))
		res.Err = ErrSuperseded
		return res
	}
	if err != nil {
		s.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
		res.Err = err
		return res
	}
	s.logger.Debug("search complete",
		zap.Uint64("seq", seq),
		zap.String("query", query),
		zap.Int("results", len(results)),
		zap.Duration("took", time.Since(start)))
	res.Results = results
	return res
}

// Search issues query, waits out the debounce delay and runs it. A call that
// is overtaken by a newer Search returns ErrSuperseded without reaching the
// network if the newer call arrived during the delay.
func (s *Searcher) Search(ctx context.Context, query string) SearchResult {
	seq := s.Issue()
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return SearchResult{Seq: seq, Query: query, Err: ctx.Err()}
		case <-timer.C:
		}
	}
	return s.Run(ctx, seq, query)
}
