package board

import (
	"time"

	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

// RetentionPolicy hides tasks that were paid in full and have sat in the
// settled column for longer than Threshold.
type RetentionPolicy struct {
	SettledColumn string
	Threshold     time.Duration
}

// RetentionFor builds the policy configured for a board.
func RetentionFor(cfg *config.Config) RetentionPolicy {
	return RetentionPolicy{
		SettledColumn: cfg.Stages.Settled,
		Threshold:     cfg.RetentionDuration(),
	}
}

// Hides reports whether t drops off the board at now.
func (p RetentionPolicy) Hides(t *task.Task, now time.Time) bool {
	return t.Column == p.SettledColumn &&
		t.Payment == task.Paid &&
		t.PaidAt != nil &&
		now.Sub(*t.PaidAt) > p.Threshold
}

// Visible returns the tasks the policy keeps, in their original order.
// The input slice and its tasks are not modified.
func (p RetentionPolicy) Visible(tasks []*task.Task, now time.Time) []*task.Task {
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !p.Hides(t, now) {
			out = append(out, t)
		}
	}
	return out
}

// Expired returns the tasks the policy hides at now.
func (p RetentionPolicy) Expired(tasks []*task.Task, now time.Time) []*task.Task {
	var out []*task.Task
	for _, t := range tasks {
		if p.Hides(t, now) {
			out = append(out, t)
		}
	}
	return out
}
