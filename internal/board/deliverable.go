package board

import (
	"strings"

	"github.com/twiced-technology-gmbh/cutboard/internal/clierr"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

// Deliverable names a link slot on a task.
type Deliverable string

// Deliverable slots.
const (
	DeliverableVideo   Deliverable = "video"
	DeliverableProject Deliverable = "project"
)

// AttachDeliverable stores a delivery link and journals an upload record.
func (s *Store) AttachDeliverable(taskID int, kind Deliverable, link string) (task.Activity, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return task.Activity{}, clierr.New(clierr.InvalidInput, "deliverable link is required")
	}

	var label string
	switch kind {
	case DeliverableVideo:
		label = "video"
	case DeliverableProject:
		label = "project file"
	default:
		return task.Activity{}, clierr.Newf(clierr.InvalidInput, "unknown deliverable %q", kind)
	}

	s.mu.Lock()
	i := s.indexOf(taskID)
	if i < 0 {
		s.mu.Unlock()
		return task.Activity{}, task.NotFound(taskID)
	}
	t := s.tasks[i]
	if kind == DeliverableVideo {
		t.VideoLink = link
	} else {
		t.ProjectFileLink = link
	}
	entry, _ := s.appendLocked(taskID, task.KindUpload, "Uploaded "+label+": "+link, "")
	s.mu.Unlock()

	s.emit(entry)
	return entry.Activity, nil
}
