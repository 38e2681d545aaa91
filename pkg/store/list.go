package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kerbaras/animeverse/pkg/data"
	"go.uber.org/zap"
)

// Storage keys of the two anime collections.
const (
	WatchedKey   = "watched"
	WatchlistKey = "watchlist"
)

// ListStore is a de-duplicated, ordered collection of anime persisted as one
// JSON array under a single KV key. Mutations are serialised per store and
// rewrite the whole array.
type ListStore struct {
	mu      sync.Mutex
	kv      data.KV
	key     string
	logger  *zap.Logger
	records []data.AnimeRecord
}

func NewListStore(kv data.KV, key string, logger *zap.Logger) *ListStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListStore{
		kv:      kv,
		key:     key,
		logger:  logger.With(zap.String("store", key)),
		records: []data.AnimeRecord{},
	}
}

func NewWatchedStore(kv data.KV, logger *zap.Logger) *ListStore {
	return NewListStore(kv, WatchedKey, logger)
}

func NewWatchlistStore(kv data.KV, logger *zap.Logger) *ListStore {
	return NewListStore(kv, WatchlistKey, logger)
}

// Key returns the storage key backing this store.
func (s *ListStore) Key() string {
	return s.key
}

// Load replaces the in-memory collection with the persisted one. A missing
// key yields an empty collection. Corrupt JSON is logged and also yields an
// empty collection without an error.
func (s *ListStore) Load(ctx context.Context) ([]data.AnimeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", data.ErrIO, s.key, err)
	}

	records := []data.AnimeRecord{}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &records); err != nil {
			s.logger.Warn("ignoring corrupt collection", zap.Error(fmt.Errorf("%w: %w", data.ErrParse, err)))
			records = []data.AnimeRecord{}
		}
	}
	s.records = records
	return s.snapshot(), nil
}

// Add appends rec unless a record with the same ID is already stored.
// added is false for the duplicate no-op.
func (s *ListStore) Add(ctx context.Context, rec data.AnimeRecord) (added bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(rec.ID) >= 0 {
		return false, nil
	}
	updated := make([]data.AnimeRecord, len(s.records), len(s.records)+1)
	copy(updated, s.records)
	updated = append(updated, rec)

	if err := s.persist(ctx, updated); err != nil {
		return false, err
	}
	s.records = updated
	s.logger.Debug("anime added", zap.Int("id", rec.ID), zap.String("title", rec.Title))
	return true, nil
}

// Remove drops the record with the given ID. removed is false when the ID is
// not stored, in which case nothing is written.
func (s *ListStore) Remove(ctx context.Context, id int) (removed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	updated := make([]data.AnimeRecord, 0, len(s.records)-1)
	updated = append(updated, s.records[:idx]...)
	updated = append(updated, s.records[idx+1:]...)

	if err := s.persist(ctx, updated); err != nil {
		return false, err
	}
	s.records = updated
	s.logger.Debug("anime removed", zap.Int("id", id))
	return true, nil
}

func (s *ListStore) List() []data.AnimeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *ListStore) Contains(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// Get returns the stored record with the given ID.
func (s *ListStore) Get(id int) (data.AnimeRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.records[idx], true
	}
	return data.AnimeRecord{}, false
}

func (s *ListStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *ListStore) persist(ctx context.Context, records []data.AnimeRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: failed to encode %s: %w", data.ErrIO, s.key, err)
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", data.ErrIO, s.key, err)
	}
	return nil
}

func (s *ListStore) indexOf(id int) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *ListStore) snapshot() []data.AnimeRecord {
	out := make([]data.AnimeRecord, len(s.records))
	copy(out, s.records)
	return out
}
