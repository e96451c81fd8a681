package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/gesture"
	"github.com/twiced-technology-gmbh/cutboard/internal/output"
	"github.com/twiced-technology-gmbh/cutboard/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Play a scripted session against the board",
	Long: `Runs a YAML script of pointer and keyboard gestures, drops, comments,
billing events, new projects, revisions, deliveries and clock advances
against the board, then prints each step and the resulting board.

Pointer coordinates use the headless layout: columns 30 wide with a gap of 2,
a header of 2, cards 8 tall with a gap of 2.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().Bool("steps-only", false, "print only the step results")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	script, err := replay.Load(args[0])
	if err != nil {
		return err
	}

	start := script.Start
	if start.IsZero() {
		start = time.Now()
	}
	clock := replay.NewClock(start)

	s, err := openStore(board.WithClock(clock.Now))
	if err != nil {
		return err
	}
	defer s.Close()

	results := replay.NewRunner(s.store, clock, gesture.DefaultGrid()).Run(script)
	stepsOnly, _ := cmd.Flags().GetBool("steps-only")
	visible := s.store.VisibleTasks(clock.Now())

	switch outputFormat() {
	case output.FormatJSON:
		if stepsOnly {
			return output.JSON(os.Stdout, results)
		}
		return output.JSON(os.Stdout, map[string]any{
			"steps": results,
			"board": visible,
			"now":   clock.Now(),
		})
	case output.FormatCompact:
		for _, r := range results {
			line := r.Action
			if r.Detail != "" {
				line += ": " + r.Detail
			}
			if r.Error != "" {
				line += " (error: " + r.Error + ")"
			}
			output.Messagef(os.Stdout, "%d %s", r.Step, line)
		}
		if !stepsOnly {
			output.TaskCompact(os.Stdout, visible, clock.Now())
		}
	default:
		output.ReplayTable(os.Stdout, results)
		if !stepsOnly {
			output.Messagef(os.Stdout, "")
			output.TaskTable(os.Stdout, visible, s.cfg, clock.Now())
		}
	}
	return nil
}
