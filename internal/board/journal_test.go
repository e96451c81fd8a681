package board

import (
	"testing"

	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

func TestAppendPrependsRecord(t *testing.T) {
	s, sink := newTestStore(t, seedTask(1, "todo"))

	first, ok := s.Append(1, task.KindComment, "rough cut shared", "Priya")
	if !ok {
		t.Fatal("first append rejected")
	}
	second, ok := s.Append(1, task.KindUpload, "Uploaded video: https://example.com/v1", "")
	if !ok {
		t.Fatal("second append rejected")
	}

	acts := s.Activities(1)
	if len(acts) != 2 {
		t.Fatalf("expected 2 records, got %d", len(acts))
	}
	if acts[0].ID != second.ID || acts[1].ID != first.ID {
		t.Fatalf("records not newest first: %+v", acts)
	}
	if first.Actor != "Priya" {
		t.Fatalf("explicit actor lost: %q", first.Actor)
	}
	if second.Actor != "You" {
		t.Fatalf("expected default actor, got %q", second.Actor)
	}
	if first.ID != "id-1" || second.ID != "id-2" {
		t.Fatalf("ids not from injected generator: %q, %q", first.ID, second.ID)
	}
	if len(sink.entries) != 2 || sink.entries[1].TaskID != 1 || sink.entries[1].Column != "todo" {
		t.Fatalf("sink entries: %+v", sink.entries)
	}
}

func TestAppendIgnoresInvalidInput(t *testing.T) {
	cases := []struct {
		name    string
		taskID  int
		kind    task.Kind
		content string
	}{
		{"empty content", 1, task.KindComment, ""},
		{"whitespace content", 1, task.KindComment, "  \n\t "},
		{"unknown kind", 1, task.Kind("shout"), "hello"},
		{"unknown task", 99, task.KindComment, "hello"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, sink := newTestStore(t, seedTask(1, "todo"))
			if _, ok := s.Append(tc.taskID, tc.kind, tc.content, ""); ok {
				t.Fatal("expected append to be ignored")
			}
			if n := len(s.Activities(1)); n != 0 {
				t.Fatalf("expected no records, got %d", n)
			}
			if len(sink.entries) != 0 {
				t.Fatalf("sink should not see ignored appends: %+v", sink.entries)
			}
		})
	}
}

func TestCommentUsesCommentKind(t *testing.T) {
	s, _ := newTestStore(t, seedTask(1, "todo"))
	a, ok := s.Comment(1, "looks great")
	if !ok {
		t.Fatal("comment rejected")
	}
	if a.Kind != task.KindComment || a.Content != "looks great" {
		t.Fatalf("unexpected record %+v", a)
	}
	if !a.Timestamp.Equal(testNow) {
		t.Fatalf("expected clock time, got %v", a.Timestamp)
	}
}

func TestStampContinuesAfterSeededActivities(t *testing.T) {
	seed := seedTask(1, "todo")
	later := testNow.Add(1e9)
	seed.Activities = []task.Activity{{ID: "old", Kind: task.KindCreate, Content: "Project created", Timestamp: later}}
	s, _ := newTestStore(t, seed)

	a, ok := s.Comment(1, "after")
	if !ok {
		t.Fatal("comment rejected")
	}
	if !a.Timestamp.After(later) {
		t.Fatalf("stamp %v should follow seeded record %v", a.Timestamp, later)
	}
}
