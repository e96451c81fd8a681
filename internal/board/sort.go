package board

import (
	"sort"
	"strings"

	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

const (
	fieldColumn   = "column"
	fieldClient   = "client"
	fieldTag      = "tag"
	fieldPayment  = "payment"
	fieldBoard    = "board"
	fieldDeadline = "deadline"
)

// ValidSortFields returns the list of valid --sort field names.
func ValidSortFields() []string {
	return []string{fieldBoard, "id", "title", fieldClient, "created", fieldDeadline, fieldColumn}
}

// Sort sorts tasks by the given field. "board" keeps the incoming order and
// column sorting follows the configured column order.
func Sort(tasks []*task.Task, field string, reverse bool, cfg *config.Config) {
	if field == fieldBoard || field == "" {
		if reverse {
			for i, j := 0, len(tasks)-1; i < j; i, j = i+1, j-1 {
				tasks[i], tasks[j] = tasks[j], tasks[i]
			}
		}
		return
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if reverse {
			return compareTasks(tasks[j], tasks[i], field, cfg)
		}
		return compareTasks(tasks[i], tasks[j], field, cfg)
	})
}

func compareTasks(a, b *task.Task, field string, cfg *config.Config) bool {
	switch field {
	case "title":
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	case fieldClient:
		return strings.ToLower(a.Client) < strings.ToLower(b.Client)
	case "created":
		return a.Created.Before(b.Created)
	case fieldDeadline:
		return compareDeadline(a, b)
	case fieldColumn:
		return cfg.ColumnIndex(a.Column) < cfg.ColumnIndex(b.Column)
	default:
		return a.ID < b.ID
	}
}

func compareDeadline(a, b *task.Task) bool {
	if a.Deadline == nil {
		return false // nil sorts last
	}
	if b.Deadline == nil {
		return true
	}
	return a.Deadline.Before(*b.Deadline)
}
