package board

import (
	"fmt"

	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

// TargetKind says what a drop landed on.
type TargetKind int

// Drop target kinds.
const (
	TargetTask TargetKind = iota + 1
	TargetColumn
)

// DropTarget is either a task or a column. Build one with TaskTarget or
// ColumnTarget; the zero value targets nothing.
type DropTarget struct {
	Kind   TargetKind `json:"kind"`
	TaskID int        `json:"task_id,omitempty"`
	Column string     `json:"column,omitempty"`
}

// TaskTarget targets the task with the given id.
func TaskTarget(id int) DropTarget { return DropTarget{Kind: TargetTask, TaskID: id} }

// ColumnTarget targets the empty area of a column.
func ColumnTarget(id string) DropTarget { return DropTarget{Kind: TargetColumn, Column: id} }

func (d DropTarget) String() string {
	switch d.Kind {
	case TargetTask:
		return fmt.Sprintf("task #%d", d.TaskID)
	case TargetColumn:
		return "column " + d.Column
	default:
		return "nothing"
	}
}

// Intent is the resolved outcome of one drag gesture.
type Intent struct {
	Subject int        `json:"subject"`
	Target  DropTarget `json:"target"`
}

// Outcome describes what Reconcile did.
type Outcome struct {
	// Changed is true when the board order or a column assignment changed.
	Changed bool `json:"changed"`
	// Moved is true when the subject changed column.
	Moved bool   `json:"moved"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	// Position is the subject's index within its column afterwards.
	Position int            `json:"position"`
	Activity *task.Activity `json:"activity,omitempty"`
}

// Reconcile applies a drag intent to the board.
//
// Dropping on a task moves the subject to that task's board position,
// taking on its column. Dropping on a column reassigns the subject and puts it
// last in that column. Each column change appends exactly one move record.
// Unresolvable subjects or targets leave the board untouched.
func (s *Store) Reconcile(in Intent) Outcome {
	s.mu.Lock()
	out, entries := s.reconcileLocked(in)
	s.mu.Unlock()
	s.emit(entries...)
	return out
}

func (s *Store) reconcileLocked(in Intent) (Outcome, []Entry) {
	l := s.log.WithField("task_id", in.Subject).WithField("target", in.Target.String())

	from := s.indexOf(in.Subject)
	if from < 0 {
		l.Debug("reconcile: subject not on board")
		return Outcome{}, nil
	}
	subject := s.tasks[from]
	out := Outcome{From: subject.Column, To: subject.Column}

	var to int
	var dest string
	switch in.Target.Kind {
	case TargetTask:
		to = s.indexOf(in.Target.TaskID)
		if to < 0 {
			l.Debug("reconcile: target task not on board")
			return Outcome{}, nil
		}
		if to == from {
			out.Position = s.positionLocked(subject)
			return out, nil
		}
		dest = s.tasks[to].Column
	case TargetColumn:
		dest = in.Target.Column
		if !s.cfg.HasColumn(dest) {
			l.Debug("reconcile: target column not registered")
			return Outcome{}, nil
		}
		if subject.Column == dest {
			out.Position = s.positionLocked(subject)
			return out, nil
		}
		to = len(s.tasks) - 1
	default:
		l.Debug("reconcile: empty drop target")
		return Outcome{}, nil
	}

	var entries []Entry
	if subject.Column != dest {
		subject.Column = dest
		entry, _ := s.appendLocked(subject.ID, task.KindMove, "Moved to "+s.cfg.DisplayName(dest), "")
		entries = append(entries, entry)
		rec := entry.Activity
		out.Activity = &rec
		out.Moved = true
	}
	moveTask(s.tasks, from, to)

	out.Changed = true
	out.To = dest
	out.Position = s.positionLocked(subject)
	return out, entries
}

func (s *Store) positionLocked(t *task.Task) int {
	pos := 0
	for _, other := range s.tasks {
		if other == t {
			return pos
		}
		if other.Column == t.Column {
			pos++
		}
	}
	return -1
}
