package board

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

func logEntry(n int) Entry {
	return Entry{
		TaskID: n,
		Column: "todo",
		Activity: task.Activity{
			ID:        fmt.Sprintf("rec-%d", n),
			Kind:      task.KindComment,
			Content:   fmt.Sprintf("note %d", n),
			Timestamp: testNow,
			Actor:     "You",
		},
	}
}

func TestAuditLogRecordAndRead(t *testing.T) {
	dir := t.TempDir()
	audit := NewAuditLog(dir, 0)

	for i := 1; i <= 3; i++ {
		if err := audit.Record(context.Background(), logEntry(i)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := ReadLog(dir, 0)
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].TaskID != 1 || entries[2].Detail != "note 3" {
		t.Fatalf("entries out of order: %+v", entries)
	}
	back, want := entries[1].Entry(), logEntry(2)
	if back.TaskID != want.TaskID || back.Activity.ID != want.Activity.ID ||
		back.Activity.Content != want.Activity.Content || !back.Activity.Timestamp.Equal(want.Activity.Timestamp) {
		t.Fatalf("Entry() = %+v, want %+v", back, want)
	}

	tail, err := ReadLog(dir, 2)
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if len(tail) != 2 || tail[0].TaskID != 2 {
		t.Fatalf("expected newest two entries, got %+v", tail)
	}
}

func TestAuditLogTruncates(t *testing.T) {
	dir := t.TempDir()
	audit := NewAuditLog(dir, 2)
	for i := 1; i <= 5; i++ {
		if err := audit.Record(context.Background(), logEntry(i)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := ReadLog(dir, 0)
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if len(entries) != 2 || entries[0].TaskID != 4 || entries[1].TaskID != 5 {
		t.Fatalf("expected entries 4 and 5, got %+v", entries)
	}
}

func TestReadLogMissingFile(t *testing.T) {
	entries, err := ReadLog(t.TempDir(), 10)
	if err != nil || entries != nil {
		t.Fatalf("expected empty log, got %v, %v", entries, err)
	}
}

func TestReadLogMalformedLine(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, logFileName), []byte("{not json}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadLog(dir, 0); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestStoreWritesAuditLog(t *testing.T) {
	dir := t.TempDir()
	s, _ := newTestStore(t, seedTask(1, "todo"))
	s.sinks = append(s.sinks, NewAuditLog(dir, 0))

	s.Reconcile(Intent{Subject: 1, Target: ColumnTarget("in-progress")})

	entries, err := ReadLog(dir, 0)
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if len(entries) != 1 || entries[0].Kind != task.KindMove || entries[0].Column != "in-progress" {
		t.Fatalf("unexpected log %+v", entries)
	}
}
