package screens

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/animeverse/pkg/app/styles"
	"github.com/kerbaras/animeverse/pkg/pomodoro"
	"github.com/kerbaras/animeverse/pkg/services"
)

// tabBarHeight is the number of lines above the active screen.
const tabBarHeight = 3

// Options configure the root screen.
type Options struct {
	Timer        *pomodoro.Timer
	InitialTab   string
	GlamourStyle string
}

type tab struct {
	name  string
	title string
	model tea.Model
}

// capturer is implemented by screens with text inputs. While capturing, the
// root screen does not interpret global keys.
type capturer interface {
	Capturing() bool
}

type RootScreen struct {
	ctrl    *services.AnimeController
	tabs    []tab
	current int

	width  int
	height int
}

func NewRootScreen(ctx context.Context, ctrl *services.AnimeController, opts Options) *RootScreen {
	timer := opts.Timer
	if timer == nil {
		timer = pomodoro.New(pomodoro.DefaultWork, pomodoro.DefaultBreak)
	}

	r := &RootScreen{
		ctrl: ctrl,
		tabs: []tab{
			{TabAlbum, "Album", NewAlbumScreen(ctx, ctrl)},
			{TabSearch, "Search", NewSearchScreen(ctx, ctrl, opts.GlamourStyle)},
			{TabWatched, "Watched", NewWatchedScreen(ctx, ctrl, opts.GlamourStyle)},
			{TabWatchlist, "Watchlist", NewWatchlistScreen(ctx, ctrl, opts.GlamourStyle)},
			{TabPomodoro, "Pomodoro", NewPomodoroScreen(timer, ctrl.Logger().Named("pomodoro"))},
			{TabShop, "Shop", NewShopScreen()},
		},
	}
	r.switchTo(opts.InitialTab)
	return r
}

func (r *RootScreen) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(r.tabs))
	for _, t := range r.tabs {
		cmds = append(cmds, t.model.Init())
	}
	return tea.Batch(cmds...)
}

// Active returns the name of the visible tab.
func (r *RootScreen) Active() string {
	return r.tabs[r.current].name
}

func (r *RootScreen) switchTo(name string) bool {
	for i, t := range r.tabs {
		if t.name == name {
			r.current = i
			return true
		}
	}
	return false
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		return r, r.broadcast(tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - tabBarHeight})

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return r, tea.Quit
		}
		capturing := false
		if c, ok := r.tabs[r.current].model.(capturer); ok {
			capturing = c.Capturing()
		}
		switch msg.String() {
		case "tab":
			r.current = (r.current + 1) % len(r.tabs)
			return r, nil
		case "shift+tab":
			r.current = (r.current - 1 + len(r.tabs)) % len(r.tabs)
			return r, nil
		case "q":
			if !capturing {
				return r, tea.Quit
			}
		}
		return r, r.forward(r.current, msg)

	case SwitchScreenMsg:
		r.switchTo(msg.Screen)
		return r, nil
	}

	return r, r.broadcast(msg)
}

func (r *RootScreen) forward(i int, msg tea.Msg) tea.Cmd {
	model, cmd := r.tabs[i].model.Update(msg)
	r.tabs[i].model = model
	return cmd
}

// broadcast delivers msg to every screen so that background work (timer
// ticks, search results, album reloads) lands even on hidden tabs.
func (r *RootScreen) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(r.tabs))
	for i := range r.tabs {
		cmds = append(cmds, r.forward(i, msg))
	}
	return tea.Batch(cmds...)
}

func (r *RootScreen) View() string {
	return fmt.Sprintf("%s\n\n%s", r.renderTabs(), r.tabs[r.current].model.View())
}

func (r *RootScreen) renderTabs() string {
	rendered := make([]string, len(r.tabs))
	for i, t := range r.tabs {
		if i == r.current {
			rendered[i] = styles.ActiveTabStyle.Render(t.title)
		} else {
			rendered[i] = styles.InactiveTabStyle.Render(t.title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
