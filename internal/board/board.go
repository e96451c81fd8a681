package board

import (
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

// ColumnSummary holds metrics for a single column.
type ColumnSummary struct {
	Column      string `json:"column"`
	DisplayName string `json:"display_name"`
	Count       int    `json:"count"`
	Overdue     int    `json:"overdue"`
	Unpaid      int    `json:"unpaid"`
}

// PaymentCount holds a count for a payment status.
type PaymentCount struct {
	Status task.PaymentStatus `json:"status"`
	Count  int                `json:"count"`
}

// Overview is the aggregate board overview.
type Overview struct {
	BoardName  string          `json:"board_name"`
	TotalTasks int             `json:"total_tasks"`
	Hidden     int             `json:"hidden"`
	Columns    []ColumnSummary `json:"columns"`
	Payments   []PaymentCount  `json:"payments"`
}

// Summary computes a board overview from the visible tasks. hidden is the
// number of tasks the retention policy removed.
func Summary(cfg *config.Config, tasks []*task.Task, hidden int, now time.Time) Overview {
	colMap := make(map[string]*ColumnSummary, len(cfg.Columns))
	cols := make([]ColumnSummary, len(cfg.Columns))
	for i, c := range cfg.Columns {
		cols[i] = ColumnSummary{Column: c.ID, DisplayName: c.DisplayName}
		colMap[c.ID] = &cols[i]
	}

	payMap := make(map[task.PaymentStatus]int, len(task.PaymentStatuses))
	for _, t := range tasks {
		if cs, ok := colMap[t.Column]; ok {
			cs.Count++
			if IsOverdue(t, cfg, now) {
				cs.Overdue++
			}
			if t.Payment != task.Paid {
				cs.Unpaid++
			}
		}
		payMap[t.Payment]++
	}

	payments := make([]PaymentCount, 0, len(task.PaymentStatuses))
	for _, p := range task.PaymentStatuses {
		payments = append(payments, PaymentCount{Status: p, Count: payMap[p]})
	}

	return Overview{
		BoardName:  cfg.Board.Name,
		TotalTasks: len(tasks),
		Hidden:     hidden,
		Columns:    cols,
		Payments:   payments,
	}
}

// IsOverdue reports whether a task outside the settled column is past its
// deadline (or due date, when no deadline is set).
func IsOverdue(t *task.Task, cfg *config.Config, now time.Time) bool {
	if cfg.IsSettled(t.Column) {
		return false
	}
	if t.Deadline != nil {
		return t.Deadline.Before(now)
	}
	if t.Due != nil {
		end := time.Date(t.Due.Year(), t.Due.Month(), t.Due.Day(), 23, 59, 59, 0, now.Location())
		return end.Before(now)
	}
	return false
}

// ParseID parses a single task id argument.
func ParseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(arg), "#"))
	if err != nil || id < 1 {
		return 0, task.ValidateTaskID(arg)
	}
	return id, nil
}
