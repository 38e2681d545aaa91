package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/kerbaras/animeverse/pkg/utils"
)

const DefaultAniListURL = "https://graphql.anilist.co"

const searchQuery = `query ($search: String, $perPage: Int) {
  Page(perPage: $perPage) {
    media(search: $search, type: ANIME) {
      id
      idMal
      title { romaji english }
      coverImage { large }
      description
    }
  }
}`

const mediaQuery = `query ($idMal: Int) {
  Media(idMal: $idMal, type: ANIME) {
    id
    idMal
    title { romaji english }
    coverImage { large }
    description
  }
}`

const mediaByIDQuery = `query ($id: Int) {
  Media(id: $id, type: ANIME) {
    id
    idMal
    title { romaji english }
    coverImage { large }
    description
  }
}`

// Media is the AniList media object selected by the queries above.
type Media struct {
	ID    int `json:"id"`
	IDMal int `json:"idMal"`
	Title struct {
		Romaji  string `json:"romaji"`
		English string `json:"english"`
	} `json:"title"`
	CoverImage struct {
		Large string `json:"large"`
	} `json:"coverImage"`
	Description string `json:"description"`
}

// ToAnime maps the media onto the MyAnimeList id space shared with Jikan.
// Media without a MAL id get their AniList id negated so they never collide
// with a MAL id.
func (m *Media) ToAnime() *data.AnimeRecord {
	id := m.IDMal
	if id == 0 {
		id = -m.ID
	}
	title := m.Title.English
	if title == "" {
		title = m.Title.Romaji
	}
	return &data.AnimeRecord{
		ID:          id,
		Title:       title,
		CoverImage:  m.CoverImage.Large,
		Description: m.Description,
		Source:      "anilist",
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// AniList is the GraphQL media-search provider.
type AniList struct {
	api     *utils.API
	perPage int
}

func NewAniList(baseURL string, timeout time.Duration) *AniList {
	if baseURL == "" {
		baseURL = DefaultAniListURL
	}
	return &AniList{api: utils.NewAPI(baseURL, timeout), perPage: 25}
}

func (a *AniList) Name() string { return "anilist" }

func (a *AniList) Search(ctx context.Context, query string) ([]data.AnimeRecord, error) {
	var resp struct {
		Data struct {
			Page struct {
				Media []Media `json:"media"`
			} `json:"Page"`
		} `json:"data"`
		Errors []graphQLError `json:"errors"`
	}
	req := graphQLRequest{
		Query:     searchQuery,
		Variables: map[string]any{"search": query, "perPage": a.perPage},
	}
	if err := a.api.Post(ctx, "", req, &resp); err != nil {
		return nil, networkError(a.Name(), err)
	}
	if err := joinErrors(resp.Errors); err != nil {
		return nil, networkError(a.Name(), err)
	}
	out := make([]data.AnimeRecord, len(resp.Data.Page.Media))
	for i, m := range resp.Data.Page.Media {
		out[i] = *m.ToAnime()
	}
	return out, nil
}

func (a *AniList) GetAnime(ctx context.Context, id int) (*data.AnimeRecord, error) {
	var resp struct {
		Data struct {
			Media *Media `json:"Media"`
		} `json:"data"`
		Errors []graphQLError `json:"errors"`
	}
	req := graphQLRequest{Query: mediaQuery, Variables: map[string]any{"idMal": id}}
	if id < 0 {
		req = graphQLRequest{Query: mediaByIDQuery, Variables: map[string]any{"id": -id}}
	}
	if err := a.api.Post(ctx, "", req, &resp); err != nil {
		var status *utils.StatusError
		if errors.As(err, &status) && status.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: anime %d", data.ErrNotFound, id)
		}
		return nil, networkError(a.Name(), err)
	}
	if err := joinErrors(resp.Errors); err != nil {
		return nil, networkError(a.Name(), err)
	}
	if resp.Data.Media == nil {
		return nil, fmt.Errorf("%w: anime %d", data.ErrNotFound, id)
	}
	return resp.Data.Media.ToAnime(), nil
}

func joinErrors(errs []graphQLError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return fmt.Errorf("graphql: %s", strings.Join(msgs, "; "))
}
