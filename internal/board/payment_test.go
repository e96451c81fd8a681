package board

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

func TestBillingStatusStampsAndClearsPaidAt(t *testing.T) {
	s, sink := newTestStore(t, seedTask(1, "exported"))

	if !s.OnBillingStatusChanged(1, task.Paid) {
		t.Fatal("paid event rejected")
	}
	got, _ := s.Task(1)
	if got.Payment != task.Paid || got.PaidAt == nil || !got.PaidAt.Equal(testNow) {
		t.Fatalf("expected Paid stamped at clock time, got %s %v", got.Payment, got.PaidAt)
	}

	if !s.OnBillingStatusChanged(1, task.Overdue) {
		t.Fatal("overdue event rejected")
	}
	got, _ = s.Task(1)
	if got.Payment != task.Overdue || got.PaidAt != nil {
		t.Fatalf("expected Overdue without paidAt, got %s %v", got.Payment, got.PaidAt)
	}
	if len(sink.entries) != 0 || len(got.Activities) != 0 {
		t.Fatal("payment sync must not journal")
	}
}

func TestBillingStatusKeepsOriginalPaidAt(t *testing.T) {
	seed := seedTask(1, "exported")
	earlier := testNow.Add(-72 * time.Hour)
	seed.Payment = task.Paid
	seed.PaidAt = &earlier
	s, _ := newTestStore(t, seed)

	s.OnBillingStatusChanged(1, task.Paid)
	got, _ := s.Task(1)
	if !got.PaidAt.Equal(earlier) {
		t.Fatalf("repeated Paid event moved paidAt to %v", got.PaidAt)
	}
}

func TestBillingStatusForUntrackedTask(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := New(config.NewDefault("test"), []*task.Task{seedTask(1, "todo")},
		WithClock(func() time.Time { return testNow }),
		WithLogger(logger),
	)

	if s.OnBillingStatusChanged(7, task.Paid) {
		t.Fatal("expected untracked task to be ignored")
	}
	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Level != logrus.InfoLevel || entry.Message != "ignoring billing event for untracked task" {
		t.Fatalf("unexpected log entry: %s %q", entry.Level, entry.Message)
	}
	if entry.Data["task_id"] != 7 {
		t.Fatalf("missing task_id field: %+v", entry.Data)
	}
	got, _ := s.Task(1)
	if got.Payment != task.Unbilled {
		t.Fatal("other tasks must not change")
	}
}

func TestBillingStatusRejectsUnknownStatus(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := New(config.NewDefault("test"), []*task.Task{seedTask(1, "todo")}, WithLogger(logger))

	if s.OnBillingStatusChanged(1, task.PaymentStatus("Refunded")) {
		t.Fatal("expected unknown status to be ignored")
	}
	if entry := hook.LastEntry(); entry == nil || entry.Message != "ignoring billing event with unknown status" {
		t.Fatalf("unexpected log entry: %+v", entry)
	}
}

func TestCycleInvoice(t *testing.T) {
	s, _ := newTestStore(t, seedTask(1, "exported"))

	want := []task.PaymentStatus{task.Pending, task.Paid, task.Overdue, task.Pending}
	for i, w := range want {
		got, ok := s.CycleInvoice(1)
		if !ok || got != w {
			t.Fatalf("cycle %d: got %s (%v), want %s", i, got, ok, w)
		}
	}
	if _, ok := s.CycleInvoice(5); ok {
		t.Fatal("expected unknown task to fail")
	}
}
