package sources

import (
	"context"
	"fmt"
	"testing"

	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name    string
	results []data.AnimeRecord
	err     error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Search(context.Context, string) ([]data.AnimeRecord, error) {
	return s.results, s.err
}

func (s *stubSource) GetAnime(_ context.Context, id int) (*data.AnimeRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, r := range s.results {
		if r.ID == id {
			rec := r
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("%w: anime %d", data.ErrNotFound, id)
}

func TestMultiSourceMergesInProviderOrder(t *testing.T) {
	m := NewMultiSource(
		&stubSource{name: "jikan", results: []data.AnimeRecord{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}},
		&stubSource{name: "anilist", results: []data.AnimeRecord{{ID: 2, Title: "b'"}, {ID: 3, Title: "c"}}},
	)

	got, err := m.Search(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "b", got[1].Title)
	assert.Equal(t, "jikan+anilist", m.Name())
}

func TestMultiSourceKeepsAniListOnlyMedia(t *testing.T) {
	m := NewMultiSource(
		&stubSource{name: "jikan", results: []data.AnimeRecord{{ID: 21, Title: "One Piece"}}},
		&stubSource{name: "anilist", results: []data.AnimeRecord{*(&Media{ID: 21}).ToAnime()}},
	)

	got, err := m.Search(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []int{21, -21}, []int{got[0].ID, got[1].ID})
}

func TestMultiSourcePartialFailure(t *testing.T) {
	m := NewMultiSource(
		&stubSource{name: "jikan", err: fmt.Errorf("%w: boom", data.ErrNetwork)},
		&stubSource{name: "anilist", results: []data.AnimeRecord{{ID: 3}}},
	)

	got, err := m.Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMultiSourceAllFail(t *testing.T) {
	m := NewMultiSource(
		&stubSource{name: "jikan", err: fmt.Errorf("%w: boom", data.ErrNetwork)},
		&stubSource{name: "anilist", err: fmt.Errorf("%w: bang", data.ErrNetwork)},
	)

	_, err := m.Search(context.Background(), "q")
	assert.ErrorIs(t, err, data.ErrNetwork)
}

func TestMultiSourceGetAnimeFallsThrough(t *testing.T) {
	m := NewMultiSource(
		&stubSource{name: "jikan"},
		&stubSource{name: "anilist", results: []data.AnimeRecord{{ID: 7, Title: "found"}}},
	)

	rec, err := m.GetAnime(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "found", rec.Title)
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New("kitsu", "", "", 0)
	assert.Error(t, err)
}
