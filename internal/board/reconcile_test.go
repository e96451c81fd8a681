package board

import (
	"testing"

	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

func TestReconcileDropOnColumnMovesAndJournals(t *testing.T) {
	s, sink := newTestStore(t, seedTask(1, "todo"), seedTask(2, "in-progress"), seedTask(3, "todo"))

	out := s.Reconcile(Intent{Subject: 1, Target: ColumnTarget("in-progress")})
	if !out.Changed || !out.Moved {
		t.Fatalf("expected changed move, got %+v", out)
	}
	if out.From != "todo" || out.To != "in-progress" {
		t.Fatalf("unexpected from/to: %+v", out)
	}
	if got := columnOrder(s, "in-progress"); !equalIDs(got, []int{2, 1}) {
		t.Fatalf("column target should append, got %v", got)
	}
	if out.Position != 1 {
		t.Fatalf("expected position 1, got %d", out.Position)
	}

	acts := s.Activities(1)
	if len(acts) != 1 {
		t.Fatalf("expected one move record, got %d", len(acts))
	}
	if acts[0].Kind != task.KindMove || acts[0].Content != "Moved to In Progress" {
		t.Fatalf("unexpected record: %+v", acts[0])
	}
	if acts[0].Actor != "You" {
		t.Fatalf("expected default actor, got %q", acts[0].Actor)
	}
	if len(sink.entries) != 1 || sink.entries[0].Column != "in-progress" {
		t.Fatalf("sink did not receive the move: %+v", sink.entries)
	}
}

func TestReconcileDropOnTaskInOtherColumn(t *testing.T) {
	s, _ := newTestStore(t, seedTask(1, "todo"), seedTask(2, "in-progress"), seedTask(3, "in-progress"))

	out := s.Reconcile(Intent{Subject: 1, Target: TaskTarget(3)})
	if !out.Moved {
		t.Fatalf("expected a move, got %+v", out)
	}
	got, _ := s.Task(1)
	if got.Column != "in-progress" {
		t.Fatalf("subject should take the target's column, got %q", got.Column)
	}
	if order := columnOrder(s, "in-progress"); !equalIDs(order, []int{2, 3, 1}) {
		t.Fatalf("unexpected order %v", order)
	}
	if n := len(s.Activities(1)); n != 1 {
		t.Fatalf("expected exactly one record, got %d", n)
	}
}

func TestReconcileReorderWithinColumnDoesNotJournal(t *testing.T) {
	s, sink := newTestStore(t, seedTask(1, "todo"), seedTask(2, "todo"), seedTask(3, "todo"))

	out := s.Reconcile(Intent{Subject: 3, Target: TaskTarget(1)})
	if !out.Changed || out.Moved {
		t.Fatalf("expected a reorder, got %+v", out)
	}
	if order := columnOrder(s, "todo"); !equalIDs(order, []int{3, 1, 2}) {
		t.Fatalf("unexpected order %v", order)
	}
	if out.Position != 0 {
		t.Fatalf("expected position 0, got %d", out.Position)
	}
	if len(s.Activities(3)) != 0 || len(sink.entries) != 0 {
		t.Fatal("a reorder must not produce a record")
	}
}

func TestReconcileNoOps(t *testing.T) {
	cases := []struct {
		name string
		in   Intent
	}{
		{"self", Intent{Subject: 1, Target: TaskTarget(1)}},
		{"own column", Intent{Subject: 1, Target: ColumnTarget("todo")}},
		{"unknown subject", Intent{Subject: 42, Target: ColumnTarget("exported")}},
		{"unknown target task", Intent{Subject: 1, Target: TaskTarget(42)}},
		{"unknown column", Intent{Subject: 1, Target: ColumnTarget("nowhere")}},
		{"empty target", Intent{Subject: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, sink := newTestStore(t, seedTask(1, "todo"), seedTask(2, "todo"))
			before := columnOrder(s, "todo")

			out := s.Reconcile(tc.in)
			if out.Changed || out.Moved {
				t.Fatalf("expected no change, got %+v", out)
			}
			if after := columnOrder(s, "todo"); !equalIDs(before, after) {
				t.Fatalf("order changed: %v -> %v", before, after)
			}
			if len(sink.entries) != 0 {
				t.Fatalf("unexpected records: %+v", sink.entries)
			}
		})
	}
}

func TestReconcileRepeatedMovesOneRecordEach(t *testing.T) {
	s, _ := newTestStore(t, seedTask(1, "todo"))

	s.Reconcile(Intent{Subject: 1, Target: ColumnTarget("in-progress")})
	s.Reconcile(Intent{Subject: 1, Target: ColumnTarget("in-progress")})
	s.Reconcile(Intent{Subject: 1, Target: ColumnTarget("revision")})

	acts := s.Activities(1)
	if len(acts) != 2 {
		t.Fatalf("expected 2 move records, got %d", len(acts))
	}
	if acts[0].Content != "Moved to In Revision" || acts[1].Content != "Moved to In Progress" {
		t.Fatalf("records not newest first: %q, %q", acts[0].Content, acts[1].Content)
	}
}

func TestDropTargetString(t *testing.T) {
	if got := TaskTarget(3).String(); got != "task #3" {
		t.Fatalf("got %q", got)
	}
	if got := ColumnTarget("todo").String(); got != "column todo" {
		t.Fatalf("got %q", got)
	}
	if got := (DropTarget{}).String(); got != "nothing" {
		t.Fatalf("got %q", got)
	}
}

// boardInvariants checks what every reconcile must preserve: the set of
// tasks, valid columns, and one journal record for the subject per column
// change with every other task's journal untouched.
func boardInvariants(t *testing.T, s *Store, in Intent, out Outcome, before map[int][]string, wantIDs []int) {
	t.Helper()
	if s.Len() != len(wantIDs) {
		t.Fatalf("%v: task count %d, want %d", in, s.Len(), len(wantIDs))
	}
	valid := map[string]bool{}
	for _, c := range s.Config().ColumnIDs() {
		valid[c] = true
	}
	seen := map[int]bool{}
	for _, tk := range s.Tasks() {
		if !valid[tk.Column] {
			t.Fatalf("%v: task %d in unregistered column %q", in, tk.ID, tk.Column)
		}
		seen[tk.ID] = true
	}
	for _, id := range wantIDs {
		if !seen[id] {
			t.Fatalf("%v: task %d lost", in, id)
		}
	}

	for id, prev := range before {
		got := activityIDs(s, id)
		if id == in.Subject && out.Moved {
			if len(got) != len(prev)+1 || got[0] != out.Activity.ID {
				t.Fatalf("%v: subject journal %v, want one new record on %v", in, got, prev)
			}
			if !equalStrings(got[1:], prev) {
				t.Fatalf("%v: subject history rewritten: %v -> %v", in, prev, got)
			}
			continue
		}
		if !equalStrings(got, prev) {
			t.Fatalf("%v: journal of task %d changed: %v -> %v", in, id, prev, got)
		}
	}
}

func activityIDs(s *Store, id int) []string {
	var ids []string
	for _, a := range s.Activities(id) {
		ids = append(ids, a.ID)
	}
	return ids
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func journals(s *Store) map[int][]string {
	out := map[int][]string{}
	for _, tk := range s.Tasks() {
		out[tk.ID] = activityIDs(s, tk.ID)
	}
	return out
}

func TestReconcileSequenceKeepsInvariants(t *testing.T) {
	s, sink := newTestStore(t,
		seedTask(1, "todo"), seedTask(2, "todo"), seedTask(3, "in-progress"),
		seedTask(4, "revision"), seedTask(5, "exported"))
	ids := []int{1, 2, 3, 4, 5}

	intents := []Intent{
		{Subject: 1, Target: TaskTarget(3)},
		{Subject: 2, Target: ColumnTarget("exported")},
		{Subject: 3, Target: TaskTarget(1)},
		{Subject: 1, Target: TaskTarget(1)},
		{Subject: 4, Target: ColumnTarget("revision")},
		{Subject: 9, Target: ColumnTarget("todo")},
		{Subject: 4, Target: TaskTarget(9)},
		{Subject: 4, Target: ColumnTarget("archive")},
		{Subject: 5, Target: DropTarget{}},
		{Subject: 5, Target: TaskTarget(4)},
		{Subject: 2, Target: TaskTarget(5)},
		{Subject: 1, Target: ColumnTarget("todo")},
		{Subject: 1, Target: ColumnTarget("in-progress")},
	}

	moves := 0
	for _, in := range intents {
		before := journals(s)
		out := s.Reconcile(in)
		if out.Moved {
			moves++
		}
		boardInvariants(t, s, in, out, before, ids)
	}
	if len(sink.entries) != moves {
		t.Fatalf("sink got %d entries for %d column changes", len(sink.entries), moves)
	}

	// Exhaustive single drops from one fixed board: every subject onto every
	// task and column, including unknown ones.
	targets := []DropTarget{ColumnTarget("nowhere"), TaskTarget(42), {}}
	for _, c := range s.Config().ColumnIDs() {
		targets = append(targets, ColumnTarget(c))
	}
	for _, id := range ids {
		targets = append(targets, TaskTarget(id))
	}
	for _, subject := range append(ids, 42) {
		for _, target := range targets {
			fresh, _ := newTestStore(t,
				seedTask(1, "todo"), seedTask(2, "todo"), seedTask(3, "in-progress"),
				seedTask(4, "revision"), seedTask(5, "exported"))
			in := Intent{Subject: subject, Target: target}
			before := journals(fresh)
			out := fresh.Reconcile(in)
			boardInvariants(t, fresh, in, out, before, ids)
		}
	}
}
