package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/clierr"
	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

// run executes the root command with args and returns what it printed to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	rootCmd.SetArgs(args)
	_, runErr := rootCmd.ExecuteC()
	_ = w.Close()
	return <-done, runErr
}

func TestCLISession(t *testing.T) {
	t.Setenv("CUTBOARD_FEED_ADDR", "")
	dir := filepath.Join(t.TempDir(), config.DefaultDir)

	if _, err := run(t, "init", "--dir", dir, "--name", "Studio", "--samples", "--json"); err != nil {
		t.Fatalf("init: %v", err)
	}
	seed, warnings, err := task.ReadAllLenient(filepath.Join(dir, config.DefaultTasksDir), []string{"todo", "in-progress", "revision", "exported"})
	if err != nil || len(warnings) != 0 || len(seed) != 4 {
		t.Fatalf("samples: %d tasks, warnings %v, err %v", len(seed), warnings, err)
	}

	out, err := run(t, "move", "1", "in-progress", "--dir", dir, "--json")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	var moved struct {
		ID      int           `json:"id"`
		Applied bool          `json:"applied"`
		Outcome board.Outcome `json:"outcome"`
	}
	if err := json.Unmarshal([]byte(out), &moved); err != nil {
		t.Fatalf("move output %q: %v", out, err)
	}
	if moved.ID != 1 || !moved.Applied || !moved.Outcome.Moved || moved.Outcome.To != "in-progress" {
		t.Fatalf("unexpected move result %+v", moved)
	}

	entries, err := board.ReadLog(dir, 0)
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if len(entries) != 1 || entries[0].Kind != task.KindMove || entries[0].Detail != "Moved to In Progress" {
		t.Fatalf("audit log: %+v", entries)
	}

	// Seed files are input only.
	again, _, _ := task.ReadAllLenient(filepath.Join(dir, config.DefaultTasksDir), []string{"todo", "in-progress", "revision", "exported"})
	if again[0].Column != "todo" {
		t.Fatalf("seed file rewritten: column %q", again[0].Column)
	}

	// Ignored requests succeed with applied=false and leave no trace.
	skipped := []struct {
		name string
		args []string
	}{
		{"blank comment", []string{"comment", "1", "   "}},
		{"billing for untracked task", []string{"bill", "99", "Paid"}},
		{"invoice cycle for untracked task", []string{"bill", "99", "--cycle"}},
	}
	for _, tc := range skipped {
		out, err := run(t, append(tc.args, "--dir", dir, "--json")...)
		if err != nil {
			t.Fatalf("%s: expected success, got %v", tc.name, err)
		}
		var res struct {
			ID      int  `json:"id"`
			Applied bool `json:"applied"`
		}
		if err := json.Unmarshal([]byte(out), &res); err != nil {
			t.Fatalf("%s: output %q: %v", tc.name, out, err)
		}
		if res.Applied {
			t.Fatalf("%s: reported as applied", tc.name)
		}
	}
	if entries, _ := board.ReadLog(dir, 0); len(entries) != 1 {
		t.Fatalf("ignored requests reached the audit log: %+v", entries)
	}
	if _, err := run(t, "show", "99", "--dir", dir, "--json"); clierr.CodeOf(err) != clierr.TaskNotFound {
		t.Fatalf("show: expected TaskNotFound, got %v", err)
	}
	if _, err := run(t, "init", "--dir", dir, "--json"); clierr.CodeOf(err) != clierr.BoardAlreadyExists {
		t.Fatalf("re-init: expected BoardAlreadyExists, got %v", err)
	}
}
