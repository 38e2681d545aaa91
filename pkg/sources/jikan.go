package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/kerbaras/animeverse/pkg/utils"
)

const DefaultJikanURL = "https://api.jikan.moe/v4"

// Anime is the Jikan v4 anime resource, reduced to what the app shows.
type Anime struct {
	MalID        int    `json:"mal_id"`
	Title        string `json:"title"`
	TitleEnglish string `json:"title_english"`
	Synopsis     string `json:"synopsis"`
	Images       struct {
		JPG struct {
			ImageURL      string `json:"image_url"`
			LargeImageURL string `json:"large_image_url"`
		} `json:"jpg"`
	} `json:"images"`
}

func (a *Anime) ToAnime() *data.AnimeRecord {
	cover := a.Images.JPG.LargeImageURL
	if cover == "" {
		cover = a.Images.JPG.ImageURL
	}
	return &data.AnimeRecord{
		ID:          a.MalID,
		Title:       a.Title,
		CoverImage:  cover,
		Description: a.Synopsis,
		Source:      "jikan",
	}
}

// Jikan is the REST title/synopsis provider (an unofficial MyAnimeList API).
type Jikan struct {
	api *utils.API
}

func NewJikan(baseURL string, timeout time.Duration) *Jikan {
	if baseURL == "" {
		baseURL = DefaultJikanURL
	}
	return &Jikan{api: utils.NewAPI(baseURL, timeout)}
}

func (j *Jikan) Name() string { return "jikan" }

func (j *Jikan) Search(ctx context.Context, query string) ([]data.AnimeRecord, error) {
	var page struct {
		Data []Anime `json:"data"`
	}
	params := url.Values{"q": {query}}
	if err := j.api.Get(ctx, "/anime", params, &page); err != nil {
		return nil, networkError(j.Name(), err)
	}
	out := make([]data.AnimeRecord, len(page.Data))
	for i, anime := range page.Data {
		out[i] = *anime.ToAnime()
	}
	return out, nil
}

func (j *Jikan) GetAnime(ctx context.Context, id int) (*data.AnimeRecord, error) {
	if id <= 0 {
		// negative ids are AniList-only media
		return nil, fmt.Errorf("%w: anime %d", data.ErrNotFound, id)
	}
	var anime struct {
		Data Anime `json:"data"`
	}
	if err := j.api.Get(ctx, fmt.Sprintf("/anime/%d", id), nil, &anime); err != nil {
		var status *utils.StatusError
		if errors.As(err, &status) && status.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: anime %d", data.ErrNotFound, id)
		}
		return nil, networkError(j.Name(), err)
	}
	return anime.Data.ToAnime(), nil
}

func networkError(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", data.ErrNetwork, source, err)
}
