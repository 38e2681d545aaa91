package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/animeverse/pkg/app/styles"
	"github.com/kerbaras/animeverse/pkg/pomodoro"
)

// TimerView draws a pomodoro timer: label, clock, bar and controls state.
type TimerView struct {
	width int
}

func NewTimerView(width int) *TimerView {
	return &TimerView{width: width}
}

func (p *TimerView) SetWidth(width int) {
	p.width = width
}

func (p *TimerView) View(t *pomodoro.Timer) string {
	state := "idle"
	if t.Running() {
		state = t.Phase().String()
	}

	loop := "loop: off"
	if t.Loop() {
		loop = "loop: on"
	}

	barWidth := p.width - 8
	if barWidth < 10 {
		barWidth = 10
	}
	total := 1000
	bar := renderProgressBar(int(t.Progress()*float64(total)), total, barWidth)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		styles.SubtitleStyle.Render(t.Label()),
		"",
		styles.ClockStyle.Render(t.String()),
		"",
		bar,
		"",
		styles.StatusStyle(state).Render(strings.ToUpper(state))+"  "+styles.MutedStyle.Render(loop),
	)
	return styles.CardStyle.Width(p.width - 4).Align(lipgloss.Center).Render(content)
}

func renderProgressBar(current, total, width int) string {
	if total == 0 || width <= 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return styles.ProgressBarStyle.Render(bar)
}

// SimpleProgress renders a simple progress bar
func SimpleProgress(current, total, width int) string {
	return renderProgressBar(current, total, width)
}
