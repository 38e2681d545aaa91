package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kerbaras/animeverse/pkg/data"
	"golang.org/x/sync/errgroup"
)

// MultiSource fans a query out to several providers in parallel and merges
// the answers in provider order, dropping IDs already seen.
type MultiSource struct {
	sources []Source
}

func NewMultiSource(sources ...Source) *MultiSource {
	return &MultiSource{sources: sources}
}

func (m *MultiSource) Name() string {
	names := make([]string, len(m.sources))
	for i, s := range m.sources {
		names[i] = s.Name()
	}
	return strings.Join(names, "+")
}

// Search succeeds when at least one provider answers; provider failures are
// returned only when every provider failed.
func (m *MultiSource) Search(ctx context.Context, query string) ([]data.AnimeRecord, error) {
	results := make([][]data.AnimeRecord, len(m.sources))
	errs := make([]error, len(m.sources))

	var g errgroup.Group
	for i, src := range m.sources {
		g.Go(func() error {
			results[i], errs[i] = src.Search(ctx, query)
			return nil
		})
	}
	_ = g.Wait()

	var merged []data.AnimeRecord
	seen := make(map[int]bool)
	failed := 0
	for i := range m.sources {
		if errs[i] != nil {
			failed++
			continue
		}
		for _, rec := range results[i] {
			if seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true
			merged = append(merged, rec)
		}
	}
	if failed > 0 && failed == len(m.sources) {
		return nil, errors.Join(errs...)
	}
	if merged == nil {
		merged = []data.AnimeRecord{}
	}
	return merged, nil
}

// GetAnime asks each provider in order and returns the first hit.
func (m *MultiSource) GetAnime(ctx context.Context, id int) (*data.AnimeRecord, error) {
	var errs []error
	for _, src := range m.sources {
		rec, err := src.GetAnime(ctx, id)
		if err == nil {
			return rec, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: no providers configured", data.ErrNetwork)
	}
	return nil, errors.Join(errs...)
}

// New builds the source named by provider: "jikan", "anilist" or "all".
func New(provider, jikanURL, aniListURL string, timeout time.Duration) (Source, error) {
	switch provider {
	case "", "jikan":
		return NewJikan(jikanURL, timeout), nil
	case "anilist":
		return NewAniList(aniListURL, timeout), nil
	case "all":
		return NewMultiSource(NewJikan(jikanURL, timeout), NewAniList(aniListURL, timeout)), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
