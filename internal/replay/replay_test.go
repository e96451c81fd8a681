package replay

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/clierr"
	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/gesture"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

const session = `start: 2024-06-10T12:00:00Z
steps:
  - pointer: {action: down, x: 5, y: 5}
  - pointer: {action: move, x: 37, y: 5}
  - pointer: {action: up, x: 37, y: 5}
  - advance: 48h
  - key: {action: pickup, task: 2}
  - key: {action: right}
  - key: {action: drop}
  - comment: {task: 1, text: "   "}
  - comment: {task: 1, text: "first cut ready"}
  - billing: {task: 1, cycle: true}
  - create: {client: Lena, title: Teaser, category: reel, date: "2024-06-20"}
`

func seed(start time.Time) []*task.Task {
	paidAt := start.Add(-6 * 24 * time.Hour)
	return []*task.Task{
		{ID: 1, Column: "todo", Title: "Wedding film", Client: "Lena", Payment: task.Unbilled},
		{ID: 2, Column: "todo", Title: "Product ad", Client: "Northwind", Payment: task.Unbilled},
		{ID: 3, Column: "exported", Title: "Tour vlog", Client: "Sam", Payment: task.Paid, PaidAt: &paidAt},
	}
}

func TestRunSession(t *testing.T) {
	script, err := Parse([]byte(session))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	clock := NewClock(script.Start)
	logger, _ := test.NewNullLogger()
	store := board.New(config.NewDefault("test"), seed(script.Start),
		board.WithClock(clock.Now), board.WithLogger(logger))

	results := NewRunner(store, clock, gesture.DefaultGrid()).Run(script)
	if len(results) != len(script.Steps) {
		t.Fatalf("expected %d results, got %d", len(script.Steps), len(results))
	}

	want := []struct {
		changed bool
		detail  string
	}{
		{false, "armed #1"},
		{false, "over column in-progress"},
		{true, "#1 moved todo -> in-progress at 0"},
		{false, "2024-06-12T12:00:00Z"},
		{false, "picked up #2"},
		{false, "over task #1"},
		{true, "#2 moved todo -> in-progress at 1"},
		{false, ""},
		{true, ""},
		{true, "Pending"},
		{true, "created #4"},
	}
	for i, w := range want {
		r := results[i]
		if r.Step != i+1 || r.Changed != w.changed || r.Detail != w.detail || r.Error != "" {
			t.Fatalf("step %d: got %+v, want changed=%v detail=%q", i+1, r, w.changed, w.detail)
		}
	}

	if got := store.Activities(1); len(got) != 2 || got[0].Kind != task.KindComment || got[1].Content != "Moved to In Progress" {
		t.Fatalf("task 1 journal: %+v", got)
	}
	if got := store.Activities(2); len(got) != 1 || got[0].Kind != task.KindMove {
		t.Fatalf("task 2 journal: %+v", got)
	}

	visible := store.VisibleTasks(clock.Now())
	for _, tk := range visible {
		if tk.ID == 3 {
			t.Fatal("task 3 should have dropped off the board after 8 days paid")
		}
	}
	if len(visible) != 3 {
		t.Fatalf("expected 3 visible tasks, got %d", len(visible))
	}

	created, ok := store.Task(4)
	if !ok || created.Tag != "EDITING" || created.Column != "todo" {
		t.Fatalf("created task: %+v", created)
	}
}

func TestRunReportsStepErrors(t *testing.T) {
	script, err := Parse([]byte(`steps:
  - revision: {task: 1, content: "tighten pacing"}
  - billing: {task: 1, status: refunded}
  - deliver: {task: 1, video: "https://cdn.example.com/v.mp4"}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	clock := NewClock(time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC))
	store := board.New(config.NewDefault("test"), seed(clock.Now()), board.WithClock(clock.Now))

	results := NewRunner(store, clock, gesture.DefaultGrid()).Run(script)
	if results[0].Error == "" || results[0].Changed {
		t.Fatalf("revision outside the review column should fail: %+v", results[0])
	}
	if results[1].Error == "" {
		t.Fatalf("unknown billing status should fail: %+v", results[1])
	}
	if !results[2].Changed || results[2].Error != "" {
		t.Fatalf("deliver should succeed after earlier failures: %+v", results[2])
	}
}

func TestParseRejectsBadSteps(t *testing.T) {
	cases := map[string]string{
		"two actions":      "steps:\n  - advance: 1h\n    comment: {task: 1, text: hi}\n",
		"no action":        "steps:\n  - {}\n",
		"bad duration":     "steps:\n  - advance: soon\n",
		"bad pointer":      "steps:\n  - pointer: {action: hover, x: 1, y: 1}\n",
		"pickup no task":   "steps:\n  - key: {action: pickup}\n",
		"drop both":        "steps:\n  - drop: {task: 1, onto: 2, column: todo}\n",
		"billing neither":  "steps:\n  - billing: {task: 1}\n",
		"empty revision":   "steps:\n  - revision: {task: 1}\n",
		"deliver no links": "steps:\n  - deliver: {task: 1}\n",
		"not yaml":         "steps: [",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			if clierr.CodeOf(err) != clierr.InvalidScript {
				t.Fatalf("expected InvalidScript, got %v", err)
			}
		})
	}
}
