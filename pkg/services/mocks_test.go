package services

import (
	"context"

	"github.com/kerbaras/animeverse/pkg/data"
)

type mockSource struct {
	searchFunc   func(ctx context.Context, query string) ([]data.AnimeRecord, error)
	getAnimeFunc func(ctx context.Context, id int) (*data.AnimeRecord, error)
}

func (m *mockSource) Name() string { return "mock" }

func (m *mockSource) Search(ctx context.Context, query string) ([]data.AnimeRecord, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query)
	}
	return nil, nil
}

func (m *mockSource) GetAnime(ctx context.Context, id int) (*data.AnimeRecord, error) {
	if m.getAnimeFunc != nil {
		return m.getAnimeFunc(ctx, id)
	}
	return nil, nil
}
