package board

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/cutboard/internal/filelock"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

const (
	logFileName = "activity.jsonl"
	logFileMode = 0o600
)

// LogEntry is one line of the audit log.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      task.Kind `json:"kind"`
	TaskID    int       `json:"task_id"`
	Column    string    `json:"column"`
	Actor     string    `json:"actor"`
	Detail    string    `json:"detail"`
	RecordID  string    `json:"record_id"`
}

// Entry converts a log line back into the journal record it was written from.
func (e LogEntry) Entry() Entry {
	return Entry{
		TaskID: e.TaskID,
		Column: e.Column,
		Activity: task.Activity{
			ID:        e.RecordID,
			Kind:      e.Kind,
			Content:   e.Detail,
			Timestamp: e.Timestamp,
			Actor:     e.Actor,
		},
	}
}

// AuditLog appends journal records to activity.jsonl in the board directory.
// It is write-only: nothing reads it back into a store.
type AuditLog struct {
	path       string
	maxEntries int
}

// NewAuditLog returns a sink writing under dir, keeping at most maxEntries lines
// (0 keeps everything).
func NewAuditLog(dir string, maxEntries int) *AuditLog {
	return &AuditLog{path: filepath.Join(dir, logFileName), maxEntries: maxEntries}
}

// Path returns the log file location.
func (a *AuditLog) Path() string { return a.path }

// Record implements Sink.
func (a *AuditLog) Record(_ context.Context, e Entry) error {
	return filelock.With(a.path+".lock", func() error {
		return a.append(LogEntry{
			Timestamp: e.Activity.Timestamp,
			Kind:      e.Activity.Kind,
			TaskID:    e.TaskID,
			Column:    e.Column,
			Actor:     e.Activity.Actor,
			Detail:    e.Activity.Content,
			RecordID:  e.Activity.ID,
		})
	})
}

func (a *AuditLog) append(entry LogEntry) error {
	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // log path from trusted board dir
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling log entry: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing log entry: %w", err)
	}

	if a.maxEntries > 0 {
		// Best-effort; a long log is not worth failing the append.
		_ = truncateLog(a.path, a.maxEntries)
	}
	return nil
}

// truncateLog rewrites the log keeping only the newest keep lines.
func truncateLog(path string, keep int) error {
	lines, err := readLines(path)
	if err != nil || len(lines) <= keep {
		return err
	}
	lines = lines[len(lines)-keep:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(buf.String()), logFileMode)
}

// ReadLog returns the newest limit entries of the audit log in dir, oldest
// first. limit <= 0 returns everything. A missing log is empty.
func ReadLog(dir string, limit int) ([]LogEntry, error) {
	lines, err := readLines(filepath.Join(dir, logFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}

	entries := make([]LogEntry, 0, len(lines))
	for i, line := range lines {
		var e LogEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return nil, fmt.Errorf("parsing log line %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
