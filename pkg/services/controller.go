package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/kerbaras/animeverse/pkg/sources"
	"github.com/kerbaras/animeverse/pkg/store"
	"go.uber.org/zap"
)

// ControllerConfig carries the collaborators an AnimeController is built from.
type ControllerConfig struct {
	Source     sources.Source
	KV         data.KV
	AlbumDir   string
	DateLayout string
	Debounce   time.Duration
	Logger     *zap.Logger
	Now        func() time.Time
}

// AnimeController is constructed once at start-up and shared by the CLI
// commands and the TUI screens. It owns the three stores and the searcher.
type AnimeController struct {
	source    sources.Source
	kv        data.KV
	searcher  *Searcher
	watched   *store.ListStore
	watchlist *store.ListStore
	album     *store.ImageNoteStore
	logger    *zap.Logger
}

func NewAnimeController(cfg ControllerConfig) *AnimeController {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	kv := cfg.KV
	if kv == nil {
		kv = data.NewMemoryKV()
	}
	albumOpts := []store.ImageOption{
		store.WithImageLogger(logger.With(zap.String("store", "album"))),
		store.WithDateLayout(cfg.DateLayout),
	}
	if cfg.Now != nil {
		albumOpts = append(albumOpts, store.WithClock(cfg.Now))
	}

	return &AnimeController{
		source:    cfg.Source,
		kv:        kv,
		searcher:  NewSearcher(cfg.Source, cfg.Debounce, logger.Named("search")),
		watched:   store.NewWatchedStore(kv, logger),
		watchlist: store.NewWatchlistStore(kv, logger),
		album:     store.NewImageNoteStore(cfg.AlbumDir, albumOpts...),
		logger:    logger,
	}
}

// Load reads both anime collections from storage.
func (c *AnimeController) Load(ctx context.Context) error {
	if _, err := c.watched.Load(ctx); err != nil {
		return err
	}
	if _, err := c.watchlist.Load(ctx); err != nil {
		return err
	}
	return nil
}

// LoadAlbum checks album access and reads the album from disk.
func (c *AnimeController) LoadAlbum(ctx context.Context) error {
	if err := c.album.CheckAccess(ctx); err != nil {
		return err
	}
	return c.album.Load(ctx)
}

func (c *AnimeController) Searcher() *Searcher { return c.searcher }
func (c *AnimeController) Watched() *store.ListStore { return c.watched }
func (c *AnimeController) Watchlist() *store.ListStore { return c.watchlist }
func (c *AnimeController) Album() *store.ImageNoteStore { return c.album }
func (c *AnimeController) SourceName() string { return c.source.Name() }
func (c *AnimeController) Logger() *zap.Logger { return c.logger }

// List returns the collection stored under key.
func (c *AnimeController) List(key string) *store.ListStore {
	if key == store.WatchlistKey {
		return c.watchlist
	}
	return c.watched
}

// Search queries the source directly, without debouncing.
func (c *AnimeController) Search(ctx context.Context, query string) ([]data.AnimeRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", data.ErrValidation)
	}
	return c.source.Search(ctx, query)
}

func (c *AnimeController) GetAnime(ctx context.Context, id int) (*data.AnimeRecord, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: invalid anime id %d", data.ErrValidation, id)
	}
	return c.source.GetAnime(ctx, id)
}

func (c *AnimeController) AddToWatched(ctx context.Context, rec data.AnimeRecord) (bool, error) {
	return c.watched.Add(ctx, rec)
}

func (c *AnimeController) AddToWatchlist(ctx context.Context, rec data.AnimeRecord) (bool, error) {
	return c.watchlist.Add(ctx, rec)
}

func (c *AnimeController) RemoveFromWatched(ctx context.Context, id int) (bool, error) {
	return c.watched.Remove(ctx, id)
}

func (c *AnimeController) RemoveFromWatchlist(ctx context.Context, id int) (bool, error) {
	return c.watchlist.Remove(ctx, id)
}

// Resolve finds the anime named by ref in list: either its numeric ID or a
// case-insensitive title match.
func (c *AnimeController) Resolve(list *store.ListStore, ref string) (data.AnimeRecord, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return data.AnimeRecord{}, fmt.Errorf("%w: empty anime reference", data.ErrValidation)
	}
	if id, err := strconv.Atoi(ref); err == nil {
		if rec, ok := list.Get(id); ok {
			return rec, nil
		}
	}
	for _, rec := range list.List() {
		if strings.EqualFold(rec.Title, ref) {
			return rec, nil
		}
	}
	return data.AnimeRecord{}, fmt.Errorf("%w: %q in %s", data.ErrNotFound, ref, list.Key())
}

// Close releases the storage backend.
func (c *AnimeController) Close() error {
	return c.kv.Close()
}
