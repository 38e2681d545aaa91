package screens

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/animeverse/pkg/app/components"
	"github.com/kerbaras/animeverse/pkg/app/styles"
	"github.com/kerbaras/animeverse/pkg/pomodoro"
	"go.uber.org/zap"
)

type PomodoroScreen struct {
	timer  *pomodoro.Timer
	view   *components.TimerView
	logger *zap.Logger

	// gen invalidates tick chains left over from a previous Start.
	gen    int
	notice string
	width  int
	height int
}

func NewPomodoroScreen(timer *pomodoro.Timer, logger *zap.Logger) *PomodoroScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PomodoroScreen{
		timer:  timer,
		view:   components.NewTimerView(60),
		logger: logger,
	}
}

func (s *PomodoroScreen) Init() tea.Cmd {
	return nil
}

func (s *PomodoroScreen) Timer() *pomodoro.Timer {
	return s.timer
}

func (s *PomodoroScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.view.SetWidth(min(msg.Width, 72))

	case tea.KeyMsg:
		switch msg.String() {
		case " ", "s", "enter":
			s.notice = ""
			s.timer.Toggle()
			if s.timer.Running() {
				return s, s.startTicking()
			}
			s.gen++
		case "a", "x":
			s.notice = ""
			s.gen++
			s.timer.Abort()
		case "l":
			s.timer.SetLoop(!s.timer.Loop())
		}

	case pomodoroTickMsg:
		if msg.gen != s.gen || !s.timer.Running() {
			return s, nil
		}
		switch s.timer.Tick() {
		case pomodoro.EventPhaseChange:
			s.notice = fmt.Sprintf("Time for %s!", s.timer.Phase())
			s.logger.Info("pomodoro phase changed", zap.Stringer("phase", s.timer.Phase()))
		case pomodoro.EventFinished:
			s.notice = "Session finished. Press space to go again."
			s.logger.Info("pomodoro finished", zap.Stringer("phase", s.timer.Phase()))
			return s, nil
		}
		return s, s.tick()
	}

	return s, nil
}

func (s *PomodoroScreen) View() string {
	header := styles.TitleStyle.Render("🍅 Pomodoro")

	var notice string
	if s.notice != "" {
		notice = styles.NoticeStyle.Render(s.notice) + "\n\n"
	}

	help := styles.HelpStyle.Render("space/s: start/pause • a: abort • l: toggle loop • tab: switch view")

	return fmt.Sprintf("%s\n\n%s%s\n%s", header, notice, s.view.View(s.timer), help)
}

// Messages
type pomodoroTickMsg struct {
	gen int
}

// Commands
func (s *PomodoroScreen) startTicking() tea.Cmd {
	s.gen++
	return s.tick()
}

func (s *PomodoroScreen) tick() tea.Cmd {
	gen := s.gen
	return tea.Tick(pomodoro.Step, func(time.Time) tea.Msg {
		return pomodoroTickMsg{gen: gen}
	})
}
