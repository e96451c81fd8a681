package cmd

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/clierr"
	"github.com/twiced-technology-gmbh/cutboard/internal/output"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists the tasks on the board with optional filtering and sorting.
Settled tasks past the retention window are hidden unless --all is given.
--archive lists the settled column instead, newest first.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringSlice("column", nil, "filter by column id (comma-separated)")
	listCmd.Flags().StringSlice("client", nil, "filter by client (comma-separated)")
	listCmd.Flags().String("tag", "", "filter by tag")
	listCmd.Flags().StringSlice("payment", nil, "filter by payment status (comma-separated)")
	listCmd.Flags().StringP("search", "s", "", "search by title, client or tag (case-insensitive)")
	listCmd.Flags().String("sort", "board", "sort field ("+strings.Join(board.ValidSortFields(), ", ")+")")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	listCmd.Flags().Bool("all", false, "include tasks hidden by retention")
	listCmd.Flags().Bool("archive", false, "list settled tasks, newest first")
	listCmd.Flags().String("group-by", "", "group results by field ("+strings.Join(board.ValidGroupByFields(), ", ")+")")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	columns, _ := cmd.Flags().GetStringSlice("column")
	clients, _ := cmd.Flags().GetStringSlice("client")
	tag, _ := cmd.Flags().GetString("tag")
	payments, _ := cmd.Flags().GetStringSlice("payment")
	search, _ := cmd.Flags().GetString("search")
	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")
	limit, _ := cmd.Flags().GetInt("limit")
	all, _ := cmd.Flags().GetBool("all")
	archive, _ := cmd.Flags().GetBool("archive")
	groupBy, _ := cmd.Flags().GetString("group-by")

	if groupBy != "" && !slices.Contains(board.ValidGroupByFields(), groupBy) {
		return clierr.Newf(clierr.InvalidGroupBy, "invalid --group-by field %q; valid: %s",
			groupBy, strings.Join(board.ValidGroupByFields(), ", "))
	}
	if !slices.Contains(board.ValidSortFields(), sortBy) {
		return clierr.Newf(clierr.InvalidInput, "invalid --sort field %q; valid: %s",
			sortBy, strings.Join(board.ValidSortFields(), ", "))
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	for _, c := range columns {
		if err := task.ValidateColumn(c, s.cfg.ColumnIDs()); err != nil {
			return err
		}
	}
	filter := board.FilterOptions{Clients: clients, Tag: tag, Search: search, Columns: columns}
	for _, p := range payments {
		ps, err := task.ValidatePaymentStatus(p)
		if err != nil {
			return err
		}
		filter.Payments = append(filter.Payments, ps)
	}

	now := s.store.Now()
	var tasks []*task.Task
	switch {
	case archive:
		tasks = board.Archive(s.store.Tasks(), s.cfg.Stages.Settled, filter)
	case all:
		tasks = board.Filter(s.store.Tasks(), filter)
	default:
		tasks = board.Filter(s.store.VisibleTasks(now), filter)
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	if !archive || cmd.Flags().Changed("sort") {
		board.Sort(tasks, sortBy, reverse, s.cfg)
	}
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}

	if groupBy != "" {
		grouped := board.GroupBy(tasks, groupBy, s.cfg)
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, grouped)
		}
		output.GroupedTable(os.Stdout, grouped)
		return nil
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, tasks)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, tasks, now)
	default:
		output.TaskTable(os.Stdout, tasks, s.cfg, now)
	}
	return nil
}
