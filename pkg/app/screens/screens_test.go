package screens

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/kerbaras/animeverse/pkg/pomodoro"
	"github.com/kerbaras/animeverse/pkg/services"
	"github.com/kerbaras/animeverse/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	searchFunc func(ctx context.Context, query string) ([]data.AnimeRecord, error)
}

func (m *mockSource) Name() string { return "mock" }

func (m *mockSource) Search(ctx context.Context, query string) ([]data.AnimeRecord, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query)
	}
	return nil, nil
}

func (m *mockSource) GetAnime(context.Context, int) (*data.AnimeRecord, error) {
	return nil, data.ErrNotFound
}

func newTestController(t *testing.T, source *mockSource) *services.AnimeController {
	t.Helper()
	if source == nil {
		source = &mockSource{}
	}
	ctrl := services.NewAnimeController(services.ControllerConfig{
		Source:   source,
		KV:       data.NewMemoryKV(),
		AlbumDir: t.TempDir(),
		Now:      func() time.Time { return time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC) },
	})
	t.Cleanup(func() { ctrl.Close() })
	return ctrl
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sized(m tea.Model) {
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
}

func TestSearchScreenIgnoresStaleResults(t *testing.T) {
	ctrl := newTestController(t, nil)
	s := NewSearchScreen(context.Background(), ctrl, "notty")
	sized(s)

	older := ctrl.Searcher().Issue()
	latest := ctrl.Searcher().Issue()

	s.Update(searchResultMsg{Seq: older, Query: "nar", Results: []data.AnimeRecord{{ID: 1, Title: "Old"}}})
	assert.Empty(t, s.results.Items)

	s.Update(searchResultMsg{Seq: latest, Query: "naruto", Results: []data.AnimeRecord{{ID: 20, Title: "Naruto"}}})
	require.Len(t, s.results.Items, 1)
	assert.Equal(t, "Naruto", s.results.Items[0].Anime.Title)

	s.Update(searchResultMsg{Seq: latest, Query: "naruto", Err: services.ErrSuperseded})
	assert.Len(t, s.results.Items, 1)
	assert.NoError(t, s.err)
}

func TestSearchScreenTypingIssuesNewQuery(t *testing.T) {
	ctrl := newTestController(t, nil)
	s := NewSearchScreen(context.Background(), ctrl, "notty")
	before := ctrl.Searcher().Issue()

	_, cmd := s.Update(keyRunes("a"))
	assert.NotNil(t, cmd)
	assert.False(t, ctrl.Searcher().IsLatest(before))
	assert.Equal(t, "a", s.input.Value())
}

func TestSearchScreenDebounceFiresOnlyForLatest(t *testing.T) {
	ctrl := newTestController(t, &mockSource{
		searchFunc: func(_ context.Context, query string) ([]data.AnimeRecord, error) {
			return []data.AnimeRecord{{ID: 5, Title: strings.ToUpper(query)}}, nil
		},
	})
	s := NewSearchScreen(context.Background(), ctrl, "notty")
	sized(s)

	stale := ctrl.Searcher().Issue()
	latest := ctrl.Searcher().Issue()

	_, cmd := s.Update(searchDebounceMsg{seq: stale, query: "tri"})
	assert.Nil(t, cmd)

	_, cmd = s.Update(searchDebounceMsg{seq: latest, query: "trigun"})
	require.NotNil(t, cmd)
	assert.True(t, s.searching)

	s.Update(cmd())
	assert.False(t, s.searching)
	require.Len(t, s.results.Items, 1)
	assert.Equal(t, "TRIGUN", s.results.Items[0].Anime.Title)
	assert.Contains(t, s.View(), "TRIGUN")
}

func TestSearchScreenNetworkErrorIsInline(t *testing.T) {
	ctrl := newTestController(t, nil)
	s := NewSearchScreen(context.Background(), ctrl, "notty")
	sized(s)

	seq := ctrl.Searcher().Issue()
	s.Update(searchResultMsg{Seq: seq, Query: "x", Err: fmt.Errorf("%w: offline", data.ErrNetwork)})
	assert.Contains(t, s.View(), "Error:")
}

func TestSearchScreenAddToCollections(t *testing.T) {
	ctrl := newTestController(t, nil)
	s := NewSearchScreen(context.Background(), ctrl, "notty")
	sized(s)

	seq := ctrl.Searcher().Issue()
	s.Update(searchResultMsg{Seq: seq, Query: "bebop", Results: []data.AnimeRecord{{ID: 1, Title: "Cowboy Bebop"}}})
	s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, s.input.Focused())

	_, cmd := s.Update(keyRunes("w"))
	require.NotNil(t, cmd)
	_, cmd = s.Update(cmd())
	assert.True(t, ctrl.Watched().Contains(1))
	assert.Equal(t, "Added Cowboy Bebop to watched", s.notice)
	require.NotNil(t, cmd)

	s.Update(cmd())
	assert.True(t, s.results.Items[0].InWatched)

	_, cmd = s.Update(keyRunes("w"))
	s.Update(cmd())
	assert.Equal(t, "Cowboy Bebop is already in watched", s.notice)

	_, cmd = s.Update(keyRunes("l"))
	s.Update(cmd())
	assert.True(t, ctrl.Watchlist().Contains(1))
}

func TestCollectionScreenMarkWatched(t *testing.T) {
	ctrl := newTestController(t, nil)
	ctx := context.Background()
	_, err := ctrl.AddToWatchlist(ctx, data.AnimeRecord{ID: 3, Title: "Mushishi"})
	require.NoError(t, err)

	s := NewWatchlistScreen(ctx, ctrl, "notty")
	sized(s)
	s.Update(s.Init()())
	require.Len(t, s.list.Items, 1)

	_, cmd := s.Update(keyRunes("w"))
	require.NotNil(t, cmd)
	s.Update(cmd())

	assert.True(t, ctrl.Watched().Contains(3))
	assert.False(t, ctrl.Watchlist().Contains(3))
	assert.Equal(t, "Marked Mushishi as watched", s.notice)

	s.Update(collectionChangedMsg{key: store.WatchlistKey})
	s.Update(s.loadCollection())
	assert.Empty(t, s.list.Items)
}

func TestCollectionScreenRemove(t *testing.T) {
	ctrl := newTestController(t, nil)
	ctx := context.Background()
	_, err := ctrl.AddToWatched(ctx, data.AnimeRecord{ID: 1, Title: "Trigun"})
	require.NoError(t, err)

	s := NewWatchedScreen(ctx, ctrl, "notty")
	sized(s)
	s.Update(s.Init()())

	_, cmd := s.Update(keyRunes("d"))
	require.NotNil(t, cmd)
	s.Update(cmd())
	assert.False(t, ctrl.Watched().Contains(1))

	// The watchlist screen ignores messages for the other key.
	other := NewWatchlistScreen(ctx, ctrl, "notty")
	other.Update(collectionLoadedMsg{key: store.WatchedKey, records: []data.AnimeRecord{{ID: 9}}})
	assert.Empty(t, other.list.Items)
}

func TestCollectionScreenDetailsReadMore(t *testing.T) {
	ctrl := newTestController(t, nil)
	ctx := context.Background()
	desc := strings.Repeat("long ", 60) + "zenith"
	_, err := ctrl.AddToWatched(ctx, data.AnimeRecord{ID: 1, Title: "Planetes", Description: desc})
	require.NoError(t, err)

	s := NewWatchedScreen(ctx, ctrl, "notty")
	sized(s)
	s.Update(s.Init()())

	s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, s.details.Visible())
	assert.NotContains(t, s.View(), "zenith")

	s.Update(keyRunes("m"))
	assert.Contains(t, s.View(), "zenith")

	s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, s.details.Visible())
}

func TestPomodoroScreenTicks(t *testing.T) {
	timer := pomodoro.New(3*time.Second, 2*time.Second)
	s := NewPomodoroScreen(timer, nil)

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeySpace})
	require.NotNil(t, cmd)
	require.True(t, timer.Running())
	gen := s.gen

	_, cmd = s.Update(pomodoroTickMsg{gen: gen - 1})
	assert.Nil(t, cmd)
	assert.Equal(t, 3*time.Second, timer.Remaining())

	_, cmd = s.Update(pomodoroTickMsg{gen: gen})
	assert.NotNil(t, cmd)
	assert.Equal(t, 2*time.Second, timer.Remaining())

	s.Update(pomodoroTickMsg{gen: gen})
	_, cmd = s.Update(pomodoroTickMsg{gen: gen})
	assert.Nil(t, cmd)
	assert.False(t, timer.Running())
	assert.Contains(t, s.View(), "Session finished")
}

func TestPomodoroScreenLoopAndAbort(t *testing.T) {
	timer := pomodoro.New(time.Second, 2*time.Second)
	s := NewPomodoroScreen(timer, nil)

	s.Update(keyRunes("l"))
	require.True(t, timer.Loop())

	s.Update(tea.KeyMsg{Type: tea.KeySpace})
	s.Update(pomodoroTickMsg{gen: s.gen})
	assert.Equal(t, pomodoro.Break, timer.Phase())
	assert.Equal(t, "Time for break!", s.notice)

	gen := s.gen
	s.Update(keyRunes("a"))
	assert.False(t, timer.Running())
	assert.Equal(t, pomodoro.Work, timer.Phase())

	_, cmd := s.Update(pomodoroTickMsg{gen: gen})
	assert.Nil(t, cmd)
	assert.Equal(t, time.Second, timer.Remaining())
}

func TestAlbumScreenAddAndNote(t *testing.T) {
	ctrl := newTestController(t, nil)
	s := NewAlbumScreen(context.Background(), ctrl)
	sized(s)

	_, cmd := s.Update(s.loadAlbum())
	assert.NotNil(t, cmd, "a successful load starts the watcher")
	assert.True(t, s.watching)

	src := filepath.Join(t.TempDir(), "sunset.png")
	require.NoError(t, os.WriteFile(src, []byte("png"), 0o644))

	s.Update(keyRunes("a"))
	require.True(t, s.Capturing())
	s.Update(keyRunes(src))
	_, cmd = s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	s.Update(cmd())

	require.Len(t, s.images, 1)
	assert.Equal(t, "sunset.png", displayName(s.images[0].URI))
	assert.False(t, s.Capturing())

	s.Update(keyRunes("n"))
	s.Update(keyRunes("golden hour"))
	_, cmd = s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s.Update(cmd())
	assert.Equal(t, "Note saved on 07/03/2024", s.notice)
	require.NotNil(t, s.images[0].Note)
	assert.Equal(t, "golden hour", s.images[0].Note.Text)

	s.Update(s.saveNote(s.images[0].URI, strings.Repeat("word ", 31))())
	assert.Contains(t, s.alert, "30 words")
	assert.Equal(t, "golden hour", s.images[0].Note.Text)
	assert.Contains(t, s.View(), "press any key")

	s.Update(keyRunes("x"))
	assert.Empty(t, s.alert)

	s.Update(keyRunes("d"))
	require.True(t, s.Capturing())
	_, cmd = s.Update(keyRunes("y"))
	require.NotNil(t, cmd)
	s.Update(cmd())
	assert.Empty(t, s.images)
}

func TestAlbumScreenCopyFailureAlerts(t *testing.T) {
	ctrl := newTestController(t, nil)
	s := NewAlbumScreen(context.Background(), ctrl)
	s.Update(s.addImage(filepath.Join(t.TempDir(), "missing.png"))())
	assert.Contains(t, s.alert, "Could not save the image")
	assert.Empty(t, s.images)
}

func TestAlertText(t *testing.T) {
	assert.Contains(t, alertText(fmt.Errorf("%w: nope", data.ErrPermissionDenied)), "Permission denied")
	assert.Contains(t, alertText(fmt.Errorf("%w: long", data.ErrValidation)), "30 words")
	assert.Contains(t, alertText(fmt.Errorf("%w: disk", data.ErrIO)), "Could not save your changes")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "cat.png", displayName("/a/01890a5d-ac96-774b-bcce-b302099a8057-cat.png"))
	assert.Equal(t, "plain.png", displayName("/a/plain.png"))
}

func TestRootScreenTabs(t *testing.T) {
	ctrl := newTestController(t, nil)
	r := NewRootScreen(context.Background(), ctrl, Options{InitialTab: TabPomodoro})
	assert.Equal(t, TabPomodoro, r.Active())

	r.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabShop, r.Active())
	r.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabAlbum, r.Active())
	r.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, TabShop, r.Active())

	r.Update(SwitchScreenMsg{Screen: TabSearch})
	assert.Equal(t, TabSearch, r.Active())

	// The search input is focused, so q is typed rather than quitting.
	_, cmd := r.Update(keyRunes("q"))
	if cmd != nil {
		_, isQuit := cmd().(tea.QuitMsg)
		assert.False(t, isQuit)
	}

	r.Update(SwitchScreenMsg{Screen: TabShop})
	_, cmd = r.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	r.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Contains(t, r.View(), "Coming soon")
}

func TestRootScreenBroadcastsTicks(t *testing.T) {
	ctrl := newTestController(t, nil)
	timer := pomodoro.New(5*time.Second, time.Second)
	r := NewRootScreen(context.Background(), ctrl, Options{Timer: timer, InitialTab: TabPomodoro})

	r.Update(tea.KeyMsg{Type: tea.KeySpace})
	require.True(t, timer.Running())
	r.Update(SwitchScreenMsg{Screen: TabShop})

	pomo := r.tabs[4].model.(*PomodoroScreen)
	r.Update(pomodoroTickMsg{gen: pomo.gen})
	assert.Equal(t, 4*time.Second, timer.Remaining())
}
