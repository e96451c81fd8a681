package board

import (
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/cutboard/internal/clierr"
	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

func sampleTasks() []*task.Task {
	a := seedTask(1, "todo")
	a.Title = "Wedding teaser"
	a.Client = "Lena"
	a.Tag = "EDITING"
	past := testNow.Add(-2 * time.Hour)
	a.Deadline = &past

	b := seedTask(2, "in-progress")
	b.Title = "Product ad"
	b.Client = "Northwind"
	b.Tag = "VFX"
	b.Payment = task.Pending

	c := seedTask(3, "exported")
	c.Title = "Tour vlog"
	c.Client = "lena"
	c.Tag = "FINAL"
	c.Payment = task.Paid
	c.Deadline = &past

	return []*task.Task{a, b, c}
}

func TestSummary(t *testing.T) {
	cfg := config.NewDefault("Studio")
	o := Summary(cfg, sampleTasks(), 4, testNow)

	if o.BoardName != "Studio" || o.TotalTasks != 3 || o.Hidden != 4 {
		t.Fatalf("unexpected overview header %+v", o)
	}
	if len(o.Columns) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(o.Columns))
	}
	todo := o.Columns[0]
	if todo.Column != "todo" || todo.Count != 1 || todo.Overdue != 1 || todo.Unpaid != 1 {
		t.Fatalf("unexpected todo summary %+v", todo)
	}
	exported := o.Columns[3]
	if exported.Count != 1 || exported.Overdue != 0 || exported.Unpaid != 0 {
		t.Fatalf("settled tasks are never overdue: %+v", exported)
	}
	if o.Payments[1].Status != task.Pending || o.Payments[1].Count != 1 {
		t.Fatalf("unexpected payment counts %+v", o.Payments)
	}
}

func TestFilter(t *testing.T) {
	tasks := sampleTasks()

	cases := []struct {
		name string
		opts FilterOptions
		want []int
	}{
		{"all", FilterOptions{}, []int{1, 2, 3}},
		{"column", FilterOptions{Columns: []string{"in-progress"}}, []int{2}},
		{"client case-insensitive", FilterOptions{Clients: []string{"LENA"}}, []int{1, 3}},
		{"tag", FilterOptions{Tag: "vfx"}, []int{2}},
		{"payment", FilterOptions{Payments: []task.PaymentStatus{task.Paid, task.Pending}}, []int{2, 3}},
		{"search", FilterOptions{Search: "VLOG"}, []int{3}},
		{"combined", FilterOptions{Clients: []string{"lena"}, Columns: []string{"todo"}}, []int{1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ids []int
			for _, tk := range Filter(tasks, tc.opts) {
				ids = append(ids, tk.ID)
			}
			if !equalIDs(ids, tc.want) {
				t.Fatalf("Filter = %v, want %v", ids, tc.want)
			}
		})
	}
}

func TestSort(t *testing.T) {
	cfg := config.NewDefault("test")
	ids := func(tasks []*task.Task) []int {
		out := make([]int, len(tasks))
		for i, tk := range tasks {
			out[i] = tk.ID
		}
		return out
	}

	tasks := sampleTasks()
	Sort(tasks, "title", false, cfg)
	if got := ids(tasks); !equalIDs(got, []int{2, 3, 1}) {
		t.Fatalf("title sort = %v", got)
	}

	tasks = sampleTasks()
	Sort(tasks, "board", true, cfg)
	if got := ids(tasks); !equalIDs(got, []int{3, 2, 1}) {
		t.Fatalf("reverse board sort = %v", got)
	}

	tasks = sampleTasks()
	Sort(tasks, "deadline", false, cfg)
	if got := ids(tasks); got[2] != 2 {
		t.Fatalf("tasks without deadline sort last, got %v", got)
	}
}

func TestGroupBy(t *testing.T) {
	g := GroupBy(sampleTasks(), "payment", config.NewDefault("test"))
	if len(g.Groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(g.Groups))
	}
	if g.Groups[0].Key != "Unbilled" || g.Groups[1].Key != "Pending" || g.Groups[2].Key != "Paid" {
		t.Fatalf("groups not in payment order: %+v", g.Groups)
	}
	if g.Groups[2].Columns[3].Count != 1 {
		t.Fatalf("expected paid task in exported column: %+v", g.Groups[2].Columns)
	}
}

func TestArchive(t *testing.T) {
	tasks := sampleTasks()
	older := seedTask(4, "exported")
	older.Created = testNow.Add(-100 * time.Hour)
	tasks = append(tasks, older)

	got := Archive(tasks, "exported", FilterOptions{})
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 4 {
		t.Fatalf("archive should list settled tasks newest first, got %+v", got)
	}
}

func TestParseID(t *testing.T) {
	for _, in := range []string{"7", "#7", " 7 "} {
		id, err := ParseID(in)
		if err != nil || id != 7 {
			t.Fatalf("ParseID(%q) = %d, %v", in, id, err)
		}
	}
	for _, in := range []string{"", "x", "0", "-3"} {
		if _, err := ParseID(in); clierr.CodeOf(err) != clierr.InvalidTaskID {
			t.Fatalf("ParseID(%q): expected InvalidTaskID, got %v", in, err)
		}
	}
}
