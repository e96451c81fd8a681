package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/clierr"
	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/output"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

var moveCmd = &cobra.Command{
	Use:   "move ID [COLUMN]",
	Short: "Drop a task onto a column or another task",
	Long: `Resolves a drop the same way a drag on the board does. Provide the target
column directly or with --to, drop onto another card with --onto, or use
--next/--prev to move along the configured column order.

Dropping on a column appends the task to it. Dropping on a card takes that
card's place. A column change adds a "Moved to" record to the journal.`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // 1 or 2 positional args
	RunE: runMove,
}

func init() {
	moveCmd.Flags().String("to", "", "target column id")
	moveCmd.Flags().Int("onto", 0, "target task id")
	moveCmd.Flags().Bool("next", false, "move to next column")
	moveCmd.Flags().Bool("prev", false, "move to previous column")
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	t, err := s.task(args[0])
	if err != nil {
		return err
	}

	target, err := resolveDropTarget(cmd, args, t, s)
	if err != nil {
		return err
	}

	out := s.store.Reconcile(board.Intent{Subject: t.ID, Target: target})
	t, _ = s.store.Task(t.ID)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, struct {
			output.MutationResult
			Outcome board.Outcome `json:"outcome"`
		}{
			MutationResult: output.MutationResult{ID: t.ID, Applied: out.Changed, Task: t},
			Outcome:        out,
		})
	}

	switch {
	case out.Moved:
		output.Messagef(os.Stdout, "Moved task #%d: %s -> %s", t.ID,
			s.cfg.DisplayName(out.From), s.cfg.DisplayName(out.To))
	case out.Changed:
		output.Messagef(os.Stdout, "Reordered task #%d in %s (position %d)", t.ID,
			s.cfg.DisplayName(t.Column), out.Position+1)
	default:
		output.Messagef(os.Stdout, "Task #%d unchanged", t.ID)
	}
	return nil
}

// resolveDropTarget determines the drop target from args and flags.
func resolveDropTarget(cmd *cobra.Command, args []string, t *task.Task, s *session) (board.DropTarget, error) {
	next, _ := cmd.Flags().GetBool("next")
	prev, _ := cmd.Flags().GetBool("prev")
	to, _ := cmd.Flags().GetString("to")
	onto, _ := cmd.Flags().GetInt("onto")
	if len(args) > 1 {
		if to != "" {
			return board.DropTarget{}, clierr.New(clierr.InvalidInput,
				"column provided both as argument and --to; use one or the other")
		}
		to = args[1]
	}

	given := 0
	for _, set := range []bool{next, prev, to != "", cmd.Flags().Changed("onto")} {
		if set {
			given++
		}
	}
	switch {
	case given == 0:
		return board.DropTarget{}, clierr.New(clierr.InvalidInput, "provide a column, --to, --onto, --next or --prev")
	case given > 1:
		return board.DropTarget{}, clierr.New(clierr.InvalidInput, "use only one of column, --to, --onto, --next or --prev")
	}

	switch {
	case cmd.Flags().Changed("onto"):
		if _, ok := s.store.Task(onto); !ok {
			return board.DropTarget{}, task.NotFound(onto)
		}
		return board.TaskTarget(onto), nil
	case next, prev:
		col, err := adjacentColumn(s.cfg, t.Column, next)
		if err != nil {
			return board.DropTarget{}, err
		}
		return board.ColumnTarget(col), nil
	default:
		if err := task.ValidateColumn(to, s.cfg.ColumnIDs()); err != nil {
			return board.DropTarget{}, err
		}
		return board.ColumnTarget(to), nil
	}
}

// adjacentColumn returns the column after (or before) current.
func adjacentColumn(cfg *config.Config, current string, forward bool) (string, error) {
	ids := cfg.ColumnIDs()
	i := cfg.ColumnIndex(current)
	if forward {
		i++
	} else {
		i--
	}
	if i < 0 || i >= len(ids) {
		dir := "last"
		if !forward {
			dir = "first"
		}
		return "", clierr.Newf(clierr.InvalidColumn, "task is already in the %s column (%s)", dir,
			cfg.DisplayName(current))
	}
	return ids[i], nil
}

// billCmd mirrors an invoice status change onto a task.
var billCmd = &cobra.Command{
	Use:   "bill ID [STATUS]",
	Short: "Record an invoice status for a task",
	Long: fmt.Sprintf(`Mirrors a billing status onto a task. STATUS is one of %s.
Paid records the payment time; any other status clears it.
Use --cycle to advance the invoice Pending -> Paid -> Overdue -> Pending.`, paymentNames()),
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // id and optional status
	RunE: runBill,
}

func init() {
	billCmd.Flags().Bool("cycle", false, "advance the invoice to its next status")
	rootCmd.AddCommand(billCmd)
}

func runBill(cmd *cobra.Command, args []string) error {
	cycle, _ := cmd.Flags().GetBool("cycle")
	if cycle == (len(args) == 2) { //nolint:mnd // id and status
		return clierr.New(clierr.InvalidInput, "provide either STATUS or --cycle")
	}

	var status task.PaymentStatus
	if !cycle {
		var err error
		if status, err = task.ValidatePaymentStatus(args[1]); err != nil {
			return err
		}
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	id, err := board.ParseID(args[0])
	if err != nil {
		return err
	}

	var ok bool
	if cycle {
		status, ok = s.store.CycleInvoice(id)
	} else {
		ok = s.store.OnBillingStatusChanged(id, status)
	}
	if !ok {
		return printSkipped(id, fmt.Sprintf("Task #%d is not on this board; billing event ignored", id))
	}

	t, _ := s.store.Task(id)
	return printTask(s, t, true, fmt.Sprintf("Task #%d payment: %s", id, status))
}

func paymentNames() string {
	var out string
	for i, p := range task.PaymentStatuses {
		if i > 0 {
			out += ", "
		}
		out += string(p)
	}
	return out
}
