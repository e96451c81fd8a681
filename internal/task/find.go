package task

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ReadWarning describes a seed file that could not be used.
type ReadWarning struct {
	File string // base filename
	Err  error
}

// ReadAllLenient reads all seed files, skipping malformed or invalid ones
// instead of aborting. Tasks come back ordered by filename, which is the
// board order the seed directory describes. A task whose id repeats an
// earlier one is reported as a warning.
func ReadAllLenient(tasksDir string, columns []string) ([]*Task, []ReadWarning, error) {
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading tasks directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var tasks []*Task
	var warnings []ReadWarning
	seen := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}

		path := filepath.Join(tasksDir, entry.Name())
		t, readErr := Read(path)
		if readErr == nil {
			readErr = ValidateSeed(t, columns)
		}
		if readErr == nil {
			if prev, dup := seen[t.ID]; dup {
				readErr = fmt.Errorf("duplicate task id %d (already used by %s)", t.ID, prev)
			}
		}
		if readErr != nil {
			warnings = append(warnings, ReadWarning{File: entry.Name(), Err: readErr})
			continue
		}
		seen[t.ID] = entry.Name()
		tasks = append(tasks, t)
	}

	return tasks, warnings, nil
}
