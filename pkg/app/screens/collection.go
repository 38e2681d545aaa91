package screens

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/animeverse/pkg/app/components"
	"github.com/kerbaras/animeverse/pkg/app/styles"
	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/kerbaras/animeverse/pkg/services"
	"github.com/kerbaras/animeverse/pkg/store"
)

// CollectionScreen lists one of the anime collections (watched or watchlist).
type CollectionScreen struct {
	ctx     context.Context
	ctrl    *services.AnimeController
	key     string
	title   string
	list    *components.AnimeList
	details *components.DetailsPanel
	notice  string
	width   int
	height  int
	err     error
}

func NewCollectionScreen(ctx context.Context, ctrl *services.AnimeController, key, title, emptyText, glamourStyle string) *CollectionScreen {
	return &CollectionScreen{
		ctx:     ctx,
		ctrl:    ctrl,
		key:     key,
		title:   title,
		list:    components.NewAnimeList(emptyText),
		details: components.NewDetailsPanel(glamourStyle),
	}
}

func NewWatchedScreen(ctx context.Context, ctrl *services.AnimeController, glamourStyle string) *CollectionScreen {
	return NewCollectionScreen(ctx, ctrl, store.WatchedKey, "✅ Watched", "You have not marked anything as watched yet", glamourStyle)
}

func NewWatchlistScreen(ctx context.Context, ctrl *services.AnimeController, glamourStyle string) *CollectionScreen {
	return NewCollectionScreen(ctx, ctrl, store.WatchlistKey, "⭐ Watchlist", "Your watchlist is empty", glamourStyle)
}

func (s *CollectionScreen) Init() tea.Cmd {
	return s.loadCollection
}

func (s *CollectionScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.list.Width = msg.Width - 2
		s.list.Height = msg.Height - 10
		s.details.Width = msg.Width - 2

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.list.Prev()
		case "down", "j":
			s.list.Next()
		case "enter":
			if selected := s.list.Selected(); selected != nil {
				if s.details.Visible() {
					s.details.Hide()
				} else {
					s.details.Show(selected.Anime)
				}
			}
		case "esc":
			s.details.Hide()
		case "m":
			if s.details.Visible() {
				s.details.ToggleExpanded()
			}
		case "r":
			return s, s.reloadCollection
		case "d":
			if selected := s.list.Selected(); selected != nil {
				return s, s.removeAnime(selected.Anime)
			}
		case "w":
			if s.key == store.WatchlistKey {
				if selected := s.list.Selected(); selected != nil {
					return s, s.markWatched(selected.Anime)
				}
			}
		}

	case collectionLoadedMsg:
		if msg.key != s.key {
			return s, nil
		}
		s.err = msg.err
		if msg.err == nil {
			s.list.SetRecords(msg.records)
		}

	case collectionChangedMsg:
		if msg.key == s.key {
			return s, s.loadCollection
		}

	case animeRemovedMsg:
		if msg.key != s.key {
			return s, nil
		}
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		s.err = nil
		s.details.Hide()
		s.notice = msg.notice
		return s, tea.Batch(
			func() tea.Msg { return collectionChangedMsg{key: store.WatchedKey} },
			func() tea.Msg { return collectionChangedMsg{key: store.WatchlistKey} },
		)
	}

	return s, nil
}

func (s *CollectionScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render(fmt.Sprintf("%s (%d)", s.title, len(s.list.Items)))

	var status string
	if s.err != nil {
		status = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err)) + "\n\n"
	} else if s.notice != "" {
		status = styles.NoticeStyle.Render(s.notice) + "\n\n"
	}

	body := s.list.View()
	if s.details.Visible() {
		body = s.details.View()
	}

	keys := "↑/k: up • ↓/j: down • enter: details • m: read more • d: remove • r: reload"
	if s.key == store.WatchlistKey {
		keys += " • w: mark watched"
	}
	help := styles.HelpStyle.Render(keys + " • tab: switch view")

	return fmt.Sprintf("%s\n\n%s%s\n%s", header, status, body, help)
}

// Messages
type collectionLoadedMsg struct {
	key     string
	records []data.AnimeRecord
	err     error
}

type animeRemovedMsg struct {
	key    string
	notice string
	err    error
}

// Commands
func (s *CollectionScreen) loadCollection() tea.Msg {
	return collectionLoadedMsg{key: s.key, records: s.ctrl.List(s.key).List()}
}

// reloadCollection re-reads the collection from storage.
func (s *CollectionScreen) reloadCollection() tea.Msg {
	records, err := s.ctrl.List(s.key).Load(s.ctx)
	return collectionLoadedMsg{key: s.key, records: records, err: err}
}

func (s *CollectionScreen) removeAnime(anime data.AnimeRecord) tea.Cmd {
	return func() tea.Msg {
		if _, err := s.ctrl.List(s.key).Remove(s.ctx, anime.ID); err != nil {
			return animeRemovedMsg{key: s.key, err: err}
		}
		return animeRemovedMsg{key: s.key, notice: fmt.Sprintf("Removed %s", anime.Title)}
	}
}

// markWatched moves anime from the watchlist to the watched list.
func (s *CollectionScreen) markWatched(anime data.AnimeRecord) tea.Cmd {
	return func() tea.Msg {
		if _, err := s.ctrl.AddToWatched(s.ctx, anime); err != nil {
			return animeRemovedMsg{key: s.key, err: err}
		}
		if _, err := s.ctrl.RemoveFromWatchlist(s.ctx, anime.ID); err != nil {
			return animeRemovedMsg{key: s.key, err: err}
		}
		return animeRemovedMsg{key: s.key, notice: fmt.Sprintf("Marked %s as watched", anime.Title)}
	}
}
