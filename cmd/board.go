package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/clierr"
	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/output"
	"github.com/twiced-technology-gmbh/cutboard/internal/watcher"
)

var flagWatch bool

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"summary"},
	Short:   "Show board summary",
	Long: `Displays a summary of the board: task counts per column, overdue and unpaid
counts, and the payment distribution. Settled tasks past the retention window
are left out and reported as hidden.

Use --watch to re-render whenever seed files or the config change on disk.
Press Ctrl+C to stop.`,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "live-update the board on file changes")
	boardCmd.Flags().String("group-by", "", "group board by field ("+strings.Join(board.ValidGroupByFields(), ", ")+")")
}

func runBoard(cmd *cobra.Command, _ []string) error {
	groupBy, _ := cmd.Flags().GetString("group-by")
	if groupBy != "" && !slices.Contains(board.ValidGroupByFields(), groupBy) {
		return clierr.Newf(clierr.InvalidGroupBy, "invalid --group-by field %q; valid: %s",
			groupBy, strings.Join(board.ValidGroupByFields(), ", "))
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	if err := renderBoard(s, groupBy); err != nil {
		return err
	}

	if !flagWatch {
		return nil
	}
	return watchBoard(s.cfg, groupBy)
}

func renderBoard(s *session, groupBy string) error {
	now := s.store.Now()
	visible := s.store.VisibleTasks(now)

	if groupBy != "" {
		grouped := board.GroupBy(visible, groupBy, s.cfg)
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, grouped)
		}
		output.GroupedTable(os.Stdout, grouped)
		return nil
	}

	summary := board.Summary(s.cfg, visible, s.store.Len()-len(visible), now)

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, summary)
	case output.FormatCompact:
		output.OverviewCompact(os.Stdout, summary)
	default:
		output.OverviewTable(os.Stdout, summary)
	}
	return nil
}

func watchBoard(cfg *config.Config, groupBy string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	match := func(name string) bool {
		return strings.HasSuffix(name, ".md") || watcher.Files(config.ConfigFileName, config.RegistriesFileName)(name)
	}
	w, err := watcher.New([]string{cfg.TasksPath(), cfg.Dir()}, match, func() {
		clearScreen()
		s, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: reloading board: %v\n", err)
			return
		}
		defer s.Close()
		if err := renderBoard(s, groupBy); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering board: %v\n", err)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
	})
	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
