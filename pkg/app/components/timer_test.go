package components

import (
	"strings"
	"testing"
	"time"

	"github.com/kerbaras/animeverse/pkg/pomodoro"
)

func TestTimerViewIdle(t *testing.T) {
	view := NewTimerView(60).View(pomodoro.New(0, 0))

	for _, want := range []string{"60:00", "Break time: 25 minutes", "IDLE", "loop: off"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in view", want)
		}
	}
}

func TestTimerViewRunningBreak(t *testing.T) {
	timer := pomodoro.New(2*time.Second, 5*time.Minute)
	timer.SetLoop(true)
	timer.Start()
	timer.Tick()
	timer.Tick()

	view := NewTimerView(60).View(timer)
	for _, want := range []string{"5:00", "Work time: 0 minutes", "BREAK", "loop: on"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in view", want)
		}
	}
}

func TestTimerViewNarrowWidth(t *testing.T) {
	view := NewTimerView(0).View(pomodoro.New(0, 0))
	if strings.Count(view, "█") < 10 {
		t.Error("Expected a minimum bar width")
	}
}

func TestRenderProgressBar(t *testing.T) {
	bar := renderProgressBar(50, 100, 20)

	if strings.Count(bar, "█") != 10 {
		t.Errorf("Expected 10 filled chars, got %d", strings.Count(bar, "█"))
	}
	if strings.Count(bar, "░") != 10 {
		t.Errorf("Expected 10 empty chars, got %d", strings.Count(bar, "░"))
	}
}

func TestRenderProgressBarZeroTotal(t *testing.T) {
	if bar := renderProgressBar(0, 0, 20); bar != "" {
		t.Errorf("Expected empty string for zero total, got: %s", bar)
	}
}

func TestRenderProgressBarClamps(t *testing.T) {
	if got := strings.Count(renderProgressBar(150, 100, 20), "█"); got != 20 {
		t.Errorf("Expected 20 filled chars, got %d", got)
	}
	if got := strings.Count(renderProgressBar(-5, 100, 20), "█"); got != 0 {
		t.Errorf("Expected 0 filled chars, got %d", got)
	}
}

func TestSimpleProgress(t *testing.T) {
	bar := SimpleProgress(25, 100, 40)

	filled := strings.Count(bar, "█")
	if filled < 8 || filled > 12 {
		t.Errorf("Expected approximately 10 filled chars, got %d", filled)
	}
}
