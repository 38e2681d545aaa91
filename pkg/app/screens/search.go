package screens

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/animeverse/pkg/app/components"
	"github.com/kerbaras/animeverse/pkg/app/styles"
	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/kerbaras/animeverse/pkg/services"
	"github.com/kerbaras/animeverse/pkg/store"
)

type SearchScreen struct {
	ctx     context.Context
	ctrl    *services.AnimeController
	input   textinput.Model
	results *components.AnimeList
	details *components.DetailsPanel

	issued    string
	lastQuery string
	searching bool
	notice    string
	width     int
	height    int
	err       error
}

func NewSearchScreen(ctx context.Context, ctrl *services.AnimeController, glamourStyle string) *SearchScreen {
	ti := textinput.New()
	ti.Placeholder = "Search anime..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50

	return &SearchScreen{
		ctx:     ctx,
		ctrl:    ctrl,
		input:   ti,
		results: components.NewAnimeList("Type to search " + ctrl.SourceName()),
		details: components.NewDetailsPanel(glamourStyle),
	}
}

func (s *SearchScreen) Init() tea.Cmd {
	return textinput.Blink
}

// Capturing reports whether key presses are going to the text input.
func (s *SearchScreen) Capturing() bool {
	return s.input.Focused()
}

func (s *SearchScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.results.Width = msg.Width - 2
		s.results.Height = msg.Height - 14
		s.details.Width = msg.Width - 2

	case tea.KeyMsg:
		if s.input.Focused() {
			switch msg.String() {
			case "esc", "enter", "down":
				if len(s.results.Items) > 0 {
					s.input.Blur()
				}
				return s, nil
			}
			s.input, cmd = s.input.Update(msg)
			return s, tea.Batch(cmd, s.queryChanged())
		}

		switch msg.String() {
		case "esc", "/":
			if s.details.Visible() {
				s.details.Hide()
				return s, nil
			}
			s.input.Focus()
			return s, textinput.Blink
		case "up", "k":
			s.results.Prev()
		case "down", "j":
			s.results.Next()
		case "enter":
			if selected := s.results.Selected(); selected != nil {
				if s.details.Visible() && s.details.Anime.ID == selected.Anime.ID {
					s.details.Hide()
				} else {
					s.details.Show(selected.Anime)
				}
			}
		case "m":
			if s.details.Visible() {
				s.details.ToggleExpanded()
			}
		case "w":
			if selected := s.results.Selected(); selected != nil {
				return s, s.addTo(store.WatchedKey, selected.Anime)
			}
		case "l":
			if selected := s.results.Selected(); selected != nil {
				return s, s.addTo(store.WatchlistKey, selected.Anime)
			}
		}

	case searchDebounceMsg:
		if !s.ctrl.Searcher().IsLatest(msg.seq) {
			return s, nil
		}
		if strings.TrimSpace(msg.query) == "" {
			s.searching = false
			s.err = nil
			s.lastQuery = ""
			s.details.Hide()
			s.results.SetItems(nil)
			return s, nil
		}
		s.searching = true
		return s, s.performSearch(msg.seq, msg.query)

	case searchResultMsg:
		if errors.Is(msg.Err, services.ErrSuperseded) || !s.ctrl.Searcher().IsLatest(msg.Seq) {
			return s, nil
		}
		s.searching = false
		s.lastQuery = msg.Query
		s.err = msg.Err
		if msg.Err == nil {
			s.details.Hide()
			s.results.SetItems(s.decorate(msg.Results))
			s.results.SelectedIndex = 0
		}

	case animeAddedMsg:
		switch {
		case msg.err != nil:
			s.err = msg.err
		case msg.added:
			s.notice = fmt.Sprintf("Added %s to %s", msg.anime.Title, msg.key)
		default:
			s.notice = fmt.Sprintf("%s is already in %s", msg.anime.Title, msg.key)
		}
		if msg.added {
			return s, func() tea.Msg { return collectionChangedMsg{key: msg.key} }
		}

	case collectionChangedMsg:
		records := make([]data.AnimeRecord, len(s.results.Items))
		for i, item := range s.results.Items {
			records[i] = item.Anime
		}
		selected := s.results.SelectedIndex
		s.results.SetItems(s.decorate(records))
		s.results.SelectedIndex = min(selected, max(len(records)-1, 0))
	}

	return s, cmd
}

// queryChanged issues a new sequence number for the current input and
// schedules the debounced search for it.
func (s *SearchScreen) queryChanged() tea.Cmd {
	query := s.input.Value()
	if query == s.issued {
		return nil
	}
	s.issued = query
	searcher := s.ctrl.Searcher()
	seq := searcher.Issue()
	s.notice = ""
	return tea.Tick(searcher.Delay(), func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq, query: query}
	})
}

func (s *SearchScreen) decorate(records []data.AnimeRecord) []components.AnimeListItem {
	items := make([]components.AnimeListItem, len(records))
	for i, r := range records {
		items[i] = components.AnimeListItem{
			Anime:       r,
			InWatched:   s.ctrl.Watched().Contains(r.ID),
			InWatchlist: s.ctrl.Watchlist().Contains(r.ID),
		}
	}
	return items
}

func (s *SearchScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render("🔍 Search Anime")

	inputStyle := styles.InputStyle
	if s.input.Focused() {
		inputStyle = styles.FocusedInputStyle
	}
	inputView := inputStyle.Render(s.input.View())

	var status string
	switch {
	case s.err != nil:
		status = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
	case s.searching:
		status = styles.StatusRunning.Render("Searching...")
	case s.notice != "":
		status = styles.NoticeStyle.Render(s.notice)
	case s.lastQuery != "" && len(s.results.Items) == 0:
		status = styles.MutedStyle.Render("No results found")
	case len(s.results.Items) > 0:
		status = styles.SubtitleStyle.Render(fmt.Sprintf("Found %d results for %q", len(s.results.Items), s.lastQuery))
	}

	body := s.results.View()
	if s.details.Visible() {
		body = s.details.View()
	}

	help := styles.HelpStyle.Render(
		"type to search • esc: switch focus • ↑/k ↓/j: navigate • enter: details • m: read more • w: watched • l: watchlist • tab: switch view",
	)

	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s\n%s", header, inputView, status, body, help)
}

// Messages
type searchDebounceMsg struct {
	seq   uint64
	query string
}

type searchResultMsg services.SearchResult

type animeAddedMsg struct {
	key   string
	anime data.AnimeRecord
	added bool
	err   error
}

// Commands
func (s *SearchScreen) performSearch(seq uint64, query string) tea.Cmd {
	return func() tea.Msg {
		return searchResultMsg(s.ctrl.Searcher().Run(s.ctx, seq, query))
	}
}

func (s *SearchScreen) addTo(key string, anime data.AnimeRecord) tea.Cmd {
	return func() tea.Msg {
		added, err := s.ctrl.List(key).Add(s.ctx, anime)
		return animeAddedMsg{key: key, anime: anime, added: added, err: err}
	}
}
