package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/cutboard/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long: `Displays a single task with its revisions, activity journal (newest first)
and markdown notes. Hidden and archived tasks can be shown too.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	t, err := s.task(args[0])
	if err != nil {
		return err
	}

	now := s.store.Now()
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, t)
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t, now)
	default:
		output.TaskDetail(os.Stdout, t, s.cfg, now, output.TerminalWidth(os.Stdout, 80)) //nolint:mnd // fallback width
	}
	return nil
}
