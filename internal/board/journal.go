package board

import (
	"strings"

	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

// Append records an activity on a task and returns it. The record becomes the
// head of the task's history. Blank content, unknown kinds and unknown tasks
// are ignored and reported as false.
func (s *Store) Append(taskID int, kind task.Kind, content, actor string) (task.Activity, bool) {
	s.mu.Lock()
	entry, ok := s.appendLocked(taskID, kind, content, actor)
	s.mu.Unlock()
	if !ok {
		return task.Activity{}, false
	}
	s.emit(entry)
	return entry.Activity, true
}

// Comment is the comment collaborator's entry point.
func (s *Store) Comment(taskID int, text string) (task.Activity, bool) {
	return s.Append(taskID, task.KindComment, text, "")
}

func (s *Store) appendLocked(taskID int, kind task.Kind, content, actor string) (Entry, bool) {
	l := s.log.WithField("task_id", taskID)
	if strings.TrimSpace(content) == "" {
		l.WithField("kind", kind).Debug("ignoring blank activity")
		return Entry{}, false
	}
	if !kind.Valid() {
		l.WithField("kind", kind).Debug("ignoring activity of unknown kind")
		return Entry{}, false
	}
	i := s.indexOf(taskID)
	if i < 0 {
		l.Debug("ignoring activity for unknown task")
		return Entry{}, false
	}
	if actor == "" {
		actor = s.cfg.Defaults.Actor
	}

	t := s.tasks[i]
	rec := task.Activity{
		ID:        s.newID(),
		Kind:      kind,
		Content:   content,
		Timestamp: s.stamp(),
		Actor:     actor,
	}
	t.Activities = append([]task.Activity{rec}, t.Activities...)
	return Entry{TaskID: t.ID, Column: t.Column, Activity: rec}, true
}
