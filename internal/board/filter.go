package board

import (
	"slices"
	"sort"
	"strings"

	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	Columns  []string
	Clients  []string
	Tag      string
	Payments []task.PaymentStatus
	Search   string // case-insensitive substring match across title, client and tag
}

// Filter returns tasks matching all specified criteria (AND logic).
func Filter(tasks []*task.Task, opts FilterOptions) []*task.Task {
	var result []*task.Task
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t *task.Task, opts FilterOptions) bool {
	if len(opts.Columns) > 0 && !slices.Contains(opts.Columns, t.Column) {
		return false
	}
	if len(opts.Clients) > 0 && !containsFold(opts.Clients, t.Client) {
		return false
	}
	if opts.Tag != "" && !strings.EqualFold(opts.Tag, t.Tag) {
		return false
	}
	if len(opts.Payments) > 0 && !slices.Contains(opts.Payments, t.Payment) {
		return false
	}
	if opts.Search != "" && !MatchesSearch(t, opts.Search) {
		return false
	}
	return true
}

// MatchesSearch performs case-insensitive substring matching across title,
// client and tag.
func MatchesSearch(t *task.Task, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Client), q) ||
		strings.Contains(strings.ToLower(t.Tag), q)
}

// Archive returns the settled-column tasks matching opts, most recently
// created first. Retention does not apply; the archive shows everything.
func Archive(tasks []*task.Task, settled string, opts FilterOptions) []*task.Task {
	opts.Columns = []string{settled}
	out := Filter(tasks, opts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Created.After(out[j].Created)
	})
	return out
}

// Clients returns the distinct client names in first-seen order.
func Clients(tasks []*task.Task) []string {
	var out []string
	for _, t := range tasks {
		if t.Client != "" && !slices.Contains(out, t.Client) {
			out = append(out, t.Client)
		}
	}
	return out
}

func containsFold(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
