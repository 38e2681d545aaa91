package cmd

import (
	"fmt"
	"time"

	"github.com/kerbaras/animeverse/pkg/app/screens"
	"github.com/kerbaras/animeverse/pkg/pomodoro"
	"github.com/spf13/cobra"
)

var (
	workFlag  time.Duration
	breakFlag time.Duration
	loopFlag  bool
)

var pomodoroCmd = &cobra.Command{
	Use:         "pomodoro",
	Aliases:     []string{"timer"},
	Short:       "Start the study timer",
	Long:        "Open the pomodoro tab. Work and break durations default to the config file.",
	Annotations: map[string]string{tuiAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		work, brk := cfg.GetWork(), cfg.GetBreak()
		if cmd.Flags().Changed("work") {
			work = workFlag
		}
		if cmd.Flags().Changed("break") {
			brk = breakFlag
		}
		if work <= 0 || brk <= 0 {
			return fmt.Errorf("durations must be positive (work %s, break %s)", work, brk)
		}

		loop := cfg.Pomodoro.Loop
		if cmd.Flags().Changed("loop") {
			loop = loopFlag
		}

		timer := pomodoro.New(work, brk)
		timer.SetLoop(loop)
		return runTUI(cmd.Context(), screens.TabPomodoro, timer)
	},
}

func init() {
	pomodoroCmd.Flags().DurationVar(&workFlag, "work", pomodoro.DefaultWork, "work phase duration")
	pomodoroCmd.Flags().DurationVar(&breakFlag, "break", pomodoro.DefaultBreak, "break phase duration")
	pomodoroCmd.Flags().BoolVar(&loopFlag, "loop", true, "alternate work and break until stopped")
	rootCmd.AddCommand(pomodoroCmd)
}
