package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/output"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the audit log",
	Long: `Prints journal records appended to activity.jsonl by earlier commands,
oldest first. Use --task to show one task's records only.`,
	RunE: runLog,
}

func init() {
	logCmd.Flags().IntP("limit", "n", 0, "show only the last N entries")
	logCmd.Flags().Int("task", 0, "filter by task id")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	taskID, _ := cmd.Flags().GetInt("task")
	limit, _ := cmd.Flags().GetInt("limit")

	readLimit := limit
	if taskID > 0 {
		readLimit = 0
	}
	entries, err := board.ReadLog(cfg.Dir(), readLimit)
	if err != nil {
		return err
	}

	if taskID > 0 {
		filtered := entries[:0]
		for _, e := range entries {
			if e.TaskID == taskID {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
		if limit > 0 && len(entries) > limit {
			entries = entries[len(entries)-limit:]
		}
	}
	if entries == nil {
		entries = []board.LogEntry{}
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, entries)
	case output.FormatCompact:
		for _, e := range entries {
			output.EntryCompact(os.Stdout, e.Entry())
		}
	default:
		output.LogTable(os.Stdout, entries)
	}
	return nil
}
