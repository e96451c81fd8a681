package board

import (
	"sort"

	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

// GroupedSummary holds tasks grouped by a field.
type GroupedSummary struct {
	Groups []GroupSummary `json:"groups"`
}

// GroupSummary is one group within a grouped view.
type GroupSummary struct {
	Key     string          `json:"key"`
	Columns []ColumnSummary `json:"columns"`
	Total   int             `json:"total"`
}

// ValidGroupByFields returns the list of valid --group-by field names.
func ValidGroupByFields() []string {
	return []string{fieldColumn, fieldClient, fieldTag, fieldPayment}
}

// GroupBy groups tasks by the specified field and returns column counts per group.
func GroupBy(tasks []*task.Task, field string, cfg *config.Config) GroupedSummary {
	groups := make(map[string][]*task.Task)
	for _, t := range tasks {
		key := groupKey(t, field)
		groups[key] = append(groups[key], t)
	}

	keys := sortGroupKeys(groups, field, cfg)
	result := GroupedSummary{Groups: make([]GroupSummary, 0, len(keys))}
	for _, key := range keys {
		groupTasks := groups[key]
		result.Groups = append(result.Groups, GroupSummary{
			Key:     key,
			Columns: columnCounts(groupTasks, cfg),
			Total:   len(groupTasks),
		})
	}
	return result
}

func groupKey(t *task.Task, field string) string {
	switch field {
	case fieldClient:
		if t.Client == "" {
			return "(no client)"
		}
		return t.Client
	case fieldTag:
		if t.Tag == "" {
			return "(untagged)"
		}
		return t.Tag
	case fieldPayment:
		return string(t.Payment)
	case fieldColumn:
		return t.Column
	default:
		return "(all)"
	}
}

func sortGroupKeys(groups map[string][]*task.Task, field string, cfg *config.Config) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}

	switch field {
	case fieldColumn:
		sort.SliceStable(keys, func(i, j int) bool {
			return cfg.ColumnIndex(keys[i]) < cfg.ColumnIndex(keys[j])
		})
	case fieldPayment:
		sort.SliceStable(keys, func(i, j int) bool {
			return paymentIndex(keys[i]) < paymentIndex(keys[j])
		})
	default:
		sort.Strings(keys)
	}
	return keys
}

func paymentIndex(s string) int {
	for i, p := range task.PaymentStatuses {
		if string(p) == s {
			return i
		}
	}
	return len(task.PaymentStatuses)
}

func columnCounts(tasks []*task.Task, cfg *config.Config) []ColumnSummary {
	counts := make(map[string]int)
	for _, t := range tasks {
		counts[t.Column]++
	}
	out := make([]ColumnSummary, 0, len(cfg.Columns))
	for _, col := range cfg.Columns {
		out = append(out, ColumnSummary{
			Column:      col.ID,
			DisplayName: col.DisplayName,
			Count:       counts[col.ID],
		})
	}
	return out
}
