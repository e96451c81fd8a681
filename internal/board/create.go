package board

import (
	"strings"

	"github.com/twiced-technology-gmbh/cutboard/internal/date"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

// CreateRequest is what the task creation form supplies.
type CreateRequest struct {
	Client       string
	Title        string
	Category     string
	DeadlineDate string // YYYY-MM-DD, optional
	DeadlineTime string // HH:MM, optional
	Priority     string
	Budget       *float64
	Currency     string
	Notes        string
}

// Create adds a task to the intake column with a single create record.
// Only malformed dates or times are rejected.
func (s *Store) Create(req CreateRequest) (*task.Task, error) {
	now := s.now()
	t := &task.Task{
		Title:    strings.TrimSpace(req.Title),
		Client:   strings.TrimSpace(req.Client),
		Priority: req.Priority,
		Urgency:  task.UrgencyForPriority(req.Priority),
		Created:  now,
		Payment:  task.Unbilled,
		Currency: req.Currency,
		Notes:    req.Notes,
	}
	if req.Budget != nil {
		b := *req.Budget
		t.Budget = &b
	}
	if t.Title == "" {
		t.Title = s.cfg.Defaults.Title
	}
	if t.Currency == "" {
		t.Currency = s.cfg.Defaults.Currency
	}

	if req.DeadlineDate != "" {
		d, err := date.Parse(req.DeadlineDate)
		if err != nil {
			return nil, task.ValidateDate("deadline", req.DeadlineDate, err)
		}
		at, err := task.DeadlineAt(d, req.DeadlineTime, s.cfg.Defaults.DeadlineTime, now.Location())
		if err != nil {
			return nil, task.ValidateClock("deadline", req.DeadlineTime, err)
		}
		t.Due = &d
		t.Deadline = &at
	}

	s.mu.Lock()
	t.ID = s.nextID
	s.nextID++
	t.Tag = s.reg.TagForCategory(req.Category)
	t.Column = s.cfg.Stages.Intake
	s.tasks = append(s.tasks, t)
	entry, _ := s.appendLocked(t.ID, task.KindCreate, "Project created", "")
	created := t.Clone()
	s.mu.Unlock()

	s.emit(entry)
	return created, nil
}
