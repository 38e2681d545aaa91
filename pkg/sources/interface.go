package sources

import (
	"context"

	"github.com/kerbaras/animeverse/pkg/data"
)

// Source is a remote anime catalog. Implementations map their response
// shape into data.AnimeRecord and report failures as data.ErrNetwork.
type Source interface {
	Name() string
	Search(ctx context.Context, query string) ([]data.AnimeRecord, error)
	GetAnime(ctx context.Context, id int) (*data.AnimeRecord, error)
}
