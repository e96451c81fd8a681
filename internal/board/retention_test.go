package board

import (
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

func paidTask(id int, column string, paidAgo time.Duration) *task.Task {
	t := seedTask(id, column)
	t.Payment = task.Paid
	at := testNow.Add(-paidAgo)
	t.PaidAt = &at
	return t
}

func TestRetentionHides(t *testing.T) {
	week := 7 * 24 * time.Hour
	policy := RetentionFor(config.NewDefault("test"))

	cases := []struct {
		name string
		task *task.Task
		want bool
	}{
		{"paid long ago in settled column", paidTask(1, "exported", 8*24*time.Hour), true},
		{"exactly at threshold", paidTask(1, "exported", week), false},
		{"just past threshold", paidTask(1, "exported", week+time.Second), true},
		{"paid recently", paidTask(1, "exported", 2*24*time.Hour), false},
		{"not settled", paidTask(1, "revision", 30*24*time.Hour), false},
		{"pending payment", func() *task.Task {
			t := paidTask(1, "exported", 30*24*time.Hour)
			t.Payment = task.Pending
			return t
		}(), false},
		{"paid without timestamp", func() *task.Task {
			t := paidTask(1, "exported", 0)
			t.PaidAt = nil
			return t
		}(), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := policy.Hides(tc.task, testNow); got != tc.want {
				t.Fatalf("Hides = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRetentionVisibleKeepsOrder(t *testing.T) {
	tasks := []*task.Task{
		seedTask(1, "todo"),
		paidTask(2, "exported", 10*24*time.Hour),
		seedTask(3, "exported"),
		paidTask(4, "exported", time.Hour),
	}
	policy := RetentionFor(config.NewDefault("test"))

	visible := policy.Visible(tasks, testNow)
	var ids []int
	for _, t := range visible {
		ids = append(ids, t.ID)
	}
	if !equalIDs(ids, []int{1, 3, 4}) {
		t.Fatalf("visible = %v", ids)
	}
	if len(tasks) != 4 {
		t.Fatal("input slice modified")
	}

	expired := policy.Expired(tasks, testNow)
	if len(expired) != 1 || expired[0].ID != 2 {
		t.Fatalf("expired = %+v", expired)
	}
}

func TestVisibleTasksLeavesStoreIntact(t *testing.T) {
	s, _ := newTestStore(t, seedTask(1, "todo"), paidTask(2, "exported", 10*24*time.Hour))

	if got := len(s.VisibleTasks(testNow)); got != 1 {
		t.Fatalf("expected 1 visible task, got %d", got)
	}
	if s.Len() != 2 {
		t.Fatalf("retention must not remove tasks, len %d", s.Len())
	}
	if _, ok := s.Task(2); !ok {
		t.Fatal("hidden task no longer addressable")
	}
}

func TestRetentionFollowsConfig(t *testing.T) {
	cfg := config.NewDefault("test")
	cfg.Policy.Retention = "24h"
	policy := RetentionFor(cfg)
	if !policy.Hides(paidTask(1, "exported", 2*24*time.Hour), testNow) {
		t.Fatal("expected a 24h retention to hide a task paid two days ago")
	}
}
