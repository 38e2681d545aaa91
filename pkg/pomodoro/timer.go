// Package pomodoro implements the study timer: a countdown that alternates
// between a work phase and a break phase.
package pomodoro

import (
	"fmt"
	"time"
)

const (
	DefaultWork  = 60 * time.Minute
	DefaultBreak = 25 * time.Minute

	// Step is the discrete time unit removed by each Tick.
	Step = time.Second
)

type Phase int

const (
	Work Phase = iota
	Break
)

func (p Phase) String() string {
	if p == Break {
		return "break"
	}
	return "work"
}

// Event describes what a Tick did.
type Event int

const (
	EventNone Event = iota
	EventTick
	EventPhaseChange
	EventFinished
)

// Timer is not safe for concurrent use; drive it from a single goroutine.
type Timer struct {
	work      time.Duration
	brk       time.Duration
	remaining time.Duration
	phase     Phase
	running   bool
	loop      bool
}

// New returns an idle timer set to the work duration. Non-positive durations
// fall back to the defaults.
func New(work, brk time.Duration) *Timer {
	if work <= 0 {
		work = DefaultWork
	}
	if brk <= 0 {
		brk = DefaultBreak
	}
	return &Timer{work: work, brk: brk, remaining: work, phase: Work}
}

// Start moves an idle timer to running. A timer that finished at zero
// restarts from the full duration of its current phase.
func (t *Timer) Start() {
	if t.running {
		return
	}
	if t.remaining <= 0 {
		t.remaining = t.duration(t.phase)
	}
	t.running = true
}

// Pause stops the countdown. There is no partial resume: the timer returns to
// idle with the work duration, same as Abort.
func (t *Timer) Pause() {
	t.Abort()
}

// Toggle starts an idle timer and pauses a running one.
func (t *Timer) Toggle() {
	if t.running {
		t.Pause()
		return
	}
	t.Start()
}

// Abort stops the timer and resets it to a fresh work phase.
func (t *Timer) Abort() {
	t.running = false
	t.phase = Work
	t.remaining = t.work
}

func (t *Timer) SetLoop(loop bool) {
	t.loop = loop
}

// SetRemaining overrides the countdown of the current phase.
func (t *Timer) SetRemaining(d time.Duration) {
	if d < 0 {
		d = 0
	}
	t.remaining = d
}

// Tick advances a running timer by one Step. The tick that finds one step or
// less remaining expires the phase: with loop on the phase flips and the
// countdown restarts from the other phase's duration, otherwise the timer
// stops at zero without flipping.
func (t *Timer) Tick() Event {
	if !t.running {
		return EventNone
	}
	if t.remaining > Step {
		t.remaining -= Step
		return EventTick
	}
	if t.loop {
		t.phase = t.other()
		t.remaining = t.duration(t.phase)
		return EventPhaseChange
	}
	t.running = false
	t.remaining = 0
	return EventFinished
}

func (t *Timer) Running() bool            { return t.running }
func (t *Timer) Loop() bool               { return t.loop }
func (t *Timer) Phase() Phase             { return t.phase }
func (t *Timer) Remaining() time.Duration { return t.remaining }

// Progress is the share of the current phase still remaining, in [0, 1].
func (t *Timer) Progress() float64 {
	total := t.duration(t.phase)
	if total <= 0 {
		return 0
	}
	p := float64(t.remaining) / float64(total)
	if p > 1 {
		return 1
	}
	return p
}

// Label names the phase that comes next, as shown above the clock.
func (t *Timer) Label() string {
	if t.phase == Break {
		return fmt.Sprintf("Work time: %d minutes", int(t.work.Minutes()))
	}
	return fmt.Sprintf("Break time: %d minutes", int(t.brk.Minutes()))
}

// String renders the remaining time as m:ss.
func (t *Timer) String() string {
	secs := int(t.remaining / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func (t *Timer) other() Phase {
	if t.phase == Work {
		return Break
	}
	return Work
}

func (t *Timer) duration(p Phase) time.Duration {
	if p == Break {
		return t.brk
	}
	return t.work
}
