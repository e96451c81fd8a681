package board

import (
	"strings"

	"github.com/twiced-technology-gmbh/cutboard/internal/clierr"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

// AddRevision attaches a review note to a task sitting in the review column.
// Numbers continue from the highest existing one.
func (s *Store) AddRevision(taskID int, content, link string, status task.RevisionStatus) (task.Revision, error) {
	if strings.TrimSpace(content) == "" {
		return task.Revision{}, clierr.New(clierr.InvalidInput, "revision content is required")
	}
	if status == "" {
		status = task.RevisionCreating
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(taskID)
	if i < 0 {
		return task.Revision{}, task.NotFound(taskID)
	}
	t := s.tasks[i]
	if t.Column != s.cfg.Stages.Review {
		return task.Revision{}, clierr.Newf(clierr.WrongColumn,
			"task #%d is in %q; revisions are added in %q",
			t.ID, s.cfg.DisplayName(t.Column), s.cfg.DisplayName(s.cfg.Stages.Review)).
			WithDetails(map[string]any{"id": t.ID, "column": t.Column, "required": s.cfg.Stages.Review})
	}

	rev := task.Revision{
		ID:      s.newID(),
		Number:  task.NextRevisionNumber(t),
		Content: content,
		Link:    strings.TrimSpace(link),
		Created: s.now(),
		Status:  status,
	}
	t.Revisions = append(t.Revisions, rev)
	return rev, nil
}

// SetRevisionStatus changes the one mutable field of a revision.
func (s *Store) SetRevisionStatus(taskID int, revisionID string, status task.RevisionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(taskID)
	if i < 0 {
		return task.NotFound(taskID)
	}
	rev, ok := s.tasks[i].Revision(revisionID)
	if !ok {
		return clierr.Newf(clierr.RevisionNotFound, "revision %q not found on task #%d", revisionID, taskID).
			WithDetails(map[string]any{"id": taskID, "revision": revisionID})
	}
	if rev.Status == status {
		return clierr.Newf(clierr.NoChanges, "revision %d is already %s", rev.Number, status)
	}
	rev.Status = status
	return nil
}

// RevisionByNumber resolves a revision number to its id.
func (s *Store) RevisionByNumber(taskID, number int) (task.Revision, bool) {
	t, ok := s.Task(taskID)
	if !ok {
		return task.Revision{}, false
	}
	for _, r := range t.Revisions {
		if r.Number == number {
			return r, true
		}
	}
	return task.Revision{}, false
}
