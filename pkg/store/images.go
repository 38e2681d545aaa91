package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/kerbaras/animeverse/pkg/utils"
	"go.uber.org/zap"
)

// MaxNoteWords is the longest note, in words, an image may carry.
const MaxNoteWords = 30

// DefaultDateLayout renders note dates as DD/MM/YYYY.
const DefaultDateLayout = "02/01/2006"

// ImageNoteStore owns the album: image files copied under <root>/images and
// a single notes.json keyed by image URI.
type ImageNoteStore struct {
	mu         sync.Mutex
	imageDir   string
	notesPath  string
	dateLayout string
	now        func() time.Time
	logger     *zap.Logger

	images []string
	notes  map[string]data.Note
}

// ImageOption customises an ImageNoteStore.
type ImageOption func(*ImageNoteStore)

func WithClock(now func() time.Time) ImageOption {
	return func(s *ImageNoteStore) { s.now = now }
}

func WithDateLayout(layout string) ImageOption {
	return func(s *ImageNoteStore) {
		if layout != "" {
			s.dateLayout = layout
		}
	}
}

func WithImageLogger(logger *zap.Logger) ImageOption {
	return func(s *ImageNoteStore) { s.logger = logger }
}

func NewImageNoteStore(root string, opts ...ImageOption) *ImageNoteStore {
	s := &ImageNoteStore{
		imageDir:   filepath.Join(root, "images"),
		notesPath:  filepath.Join(root, "notes.json"),
		dateLayout: DefaultDateLayout,
		now:        time.Now,
		logger:     zap.NewNop(),
		notes:      make(map[string]data.Note),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory images are copied into.
func (s *ImageNoteStore) Dir() string {
	return s.imageDir
}

// CheckAccess verifies the album directory can be created and written.
func (s *ImageNoteStore) CheckAccess(_ context.Context) error {
	if err := os.MkdirAll(s.imageDir, 0o755); err != nil {
		return accessError(err)
	}
	probe, err := os.CreateTemp(s.imageDir, ".probe-*")
	if err != nil {
		return accessError(err)
	}
	if err := probe.Close(); err != nil {
		s.logger.Debug("closing access probe failed", zap.String("path", probe.Name()), zap.Error(err))
	}
	if err := os.Remove(probe.Name()); err != nil {
		s.logger.Debug("removing access probe failed", zap.String("path", probe.Name()), zap.Error(err))
	}
	return nil
}

func accessError(err error) error {
	if errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", data.ErrPermissionDenied, err)
	}
	return fmt.Errorf("%w: %w", data.ErrIO, err)
}

// Load re-derives the image list from the directory listing and reads the
// note map. A corrupt notes file is logged and treated as empty.
func (s *ImageNoteStore) Load(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.imageDir, 0o755); err != nil {
		return accessError(err)
	}
	entries, err := os.ReadDir(s.imageDir)
	if err != nil {
		return fmt.Errorf("%w: failed to list images: %w", data.ErrIO, err)
	}

	images := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		images = append(images, filepath.Join(s.imageDir, e.Name()))
	}
	sort.Strings(images)

	notes, err := s.readNotes()
	if err != nil {
		if !errors.Is(err, data.ErrParse) {
			return err
		}
		s.logger.Warn("ignoring corrupt notes file", zap.String("path", s.notesPath), zap.Error(err))
		notes = make(map[string]data.Note)
	}
	for uri := range notes {
		if !slices.Contains(images, uri) {
			s.logger.Debug("dropping note of missing image", zap.String("uri", uri))
			delete(notes, uri)
		}
	}

	s.images = images
	s.notes = notes
	return nil
}

func (s *ImageNoteStore) readNotes() (map[string]data.Note, error) {
	notes := make(map[string]data.Note)
	raw, err := os.ReadFile(s.notesPath)
	if errors.Is(err, os.ErrNotExist) {
		return notes, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read notes: %w", data.ErrIO, err)
	}
	if err := json.Unmarshal(raw, &notes); err != nil {
		return nil, fmt.Errorf("%w: %w", data.ErrParse, err)
	}
	return notes, nil
}

// Add copies the image at sourcePath into the album. On failure the album is
// left untouched and no partial file remains.
func (s *ImageNoteStore) Add(_ context.Context, sourcePath string) (data.ImageRecord, error) {
	if strings.TrimSpace(sourcePath) == "" {
		return data.ImageRecord{}, fmt.Errorf("%w: no image path provided", data.ErrCopy)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := uuid.NewV7()
	if err != nil {
		return data.ImageRecord{}, fmt.Errorf("%w: %w", data.ErrCopy, err)
	}
	dest := filepath.Join(s.imageDir, id.String()+"-"+utils.SanitizeFilename(filepath.Base(sourcePath)))

	if err := copyFile(sourcePath, dest); err != nil {
		return data.ImageRecord{}, fmt.Errorf("%w: %w", data.ErrCopy, err)
	}

	s.images = append(s.images, dest)
	s.logger.Debug("image saved", zap.String("uri", dest))
	return data.ImageRecord{URI: dest}, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return err
	}
	return nil
}

// Remove deletes the image file and its note. Unknown URIs are a no-op.
func (s *ImageNoteStore) Remove(_ context.Context, uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(uri)
	if idx < 0 {
		return nil
	}

	// the note goes first so a failed write leaves image and note together
	if _, ok := s.notes[uri]; ok {
		updated := s.copyNotes()
		delete(updated, uri)
		if err := s.writeNotes(updated); err != nil {
			return err
		}
		s.notes = updated
	}

	if err := os.Remove(uri); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: failed to delete image: %w", data.ErrIO, err)
	}
	s.images = append(s.images[:idx:idx], s.images[idx+1:]...)
	return nil
}

// SetNote validates and stores text as the note for uri, dated today. Empty
// text clears the note.
func (s *ImageNoteStore) SetNote(_ context.Context, uri, text string) (data.Note, error) {
	text = strings.TrimSpace(text)
	if n := utils.CountWords(text); n > MaxNoteWords {
		return data.Note{}, fmt.Errorf("%w: note must be %d words or less, got %d", data.ErrValidation, MaxNoteWords, n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(uri) < 0 {
		return data.Note{}, fmt.Errorf("%w: image %s", data.ErrNotFound, uri)
	}

	updated := s.copyNotes()
	var note data.Note
	if text == "" {
		delete(updated, uri)
	} else {
		note = data.Note{Text: text, Date: s.now().Format(s.dateLayout)}
		updated[uri] = note
	}
	if err := s.writeNotes(updated); err != nil {
		return data.Note{}, err
	}
	s.notes = updated
	return note, nil
}

// Note returns the note attached to uri, if any.
func (s *ImageNoteStore) Note(uri string) (data.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[uri]
	return n, ok
}

// List returns the album in insertion order.
func (s *ImageNoteStore) List() []data.ImageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]data.ImageRecord, len(s.images))
	for i, uri := range s.images {
		out[i] = data.ImageRecord{URI: uri}
		if n, ok := s.notes[uri]; ok {
			note := n
			out[i].Note = &note
		}
	}
	return out
}

func (s *ImageNoteStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images)
}

func (s *ImageNoteStore) indexOf(uri string) int {
	for i, u := range s.images {
		if u == uri {
			return i
		}
	}
	return -1
}

func (s *ImageNoteStore) copyNotes() map[string]data.Note {
	out := make(map[string]data.Note, len(s.notes)+1)
	for k, v := range s.notes {
		out[k] = v
	}
	return out
}

// writeNotes atomically replaces notes.json with the full map.
func (s *ImageNoteStore) writeNotes(notes map[string]data.Note) error {
	if err := writeJSONAtomic(s.notesPath, notes); err != nil {
		return fmt.Errorf("%w: failed to save notes: %w", data.ErrIO, err)
	}
	return nil
}

func writeJSONAtomic(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "notes-*.tmp")
	if err != nil {
		return err
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
