package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/animeverse/pkg/app/screens"
	"github.com/kerbaras/animeverse/pkg/services"
)

type App struct {
	ctrl *services.AnimeController
	opts screens.Options
}

func NewApp(ctrl *services.AnimeController, opts screens.Options) *App {
	return &App{ctrl: ctrl, opts: opts}
}

// Run blocks until the user quits. Cancelling ctx stops background work
// such as the album watcher.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := screens.NewRootScreen(ctx, a.ctrl, a.opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
