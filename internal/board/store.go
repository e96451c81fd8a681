// Package board owns the in-memory task store and every rule that mutates it:
// drag reconciliation, the activity journal, payment sync, creation and
// revisions. Read-side helpers (retention, filters, sort, summaries) work on
// the snapshots the store hands out.
package board

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

// Entry is a journal record together with the task it was appended to.
type Entry struct {
	TaskID   int           `json:"task_id"`
	Column   string        `json:"column"`
	Activity task.Activity `json:"activity"`
}

// Sink receives every journal record after it has been committed to the store.
// Sink failures are logged and never undo the append.
type Sink interface {
	Record(ctx context.Context, e Entry) error
}

// Store is the canonical ordered collection of tasks for one board.
// All mutation goes through its methods; queries return deep copies.
type Store struct {
	mu    sync.RWMutex
	cfg   *config.Config
	reg   *config.Registries
	tasks []*task.Task // board order; per-column order is this order filtered

	nextID    int
	lastStamp time.Time

	now   func() time.Time
	newID func() string
	log   logrus.FieldLogger
	sinks []Sink
}

// Option configures a Store.
type Option func(*Store)

// WithClock injects the time source used for timestamps and queries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs injects the generator used for activity and revision ids.
func WithIDs(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) { s.log = l }
}

// WithSink adds a journal sink.
func WithSink(sink Sink) Option {
	return func(s *Store) { s.sinks = append(s.sinks, sink) }
}

// WithRegistries sets the tag and category registries.
func WithRegistries(r *config.Registries) Option {
	return func(s *Store) { s.reg = r }
}

// New builds a store seeded with copies of seed, kept in the given order.
func New(cfg *config.Config, seed []*task.Task, opts ...Option) *Store {
	s := &Store{
		cfg:    cfg,
		reg:    config.NewDefaultRegistries(),
		nextID: 1,
		now:    time.Now,
		newID:  uuid.NewString,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tasks = make([]*task.Task, 0, len(seed))
	for _, t := range seed {
		c := t.Clone()
		s.tasks = append(s.tasks, c)
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
		for _, a := range c.Activities {
			if a.Timestamp.After(s.lastStamp) {
				s.lastStamp = a.Timestamp
			}
		}
	}
	return s
}

// Config returns the board configuration.
func (s *Store) Config() *config.Config { return s.cfg }

// Now returns the store clock's current time.
func (s *Store) Now() time.Time { return s.now() }

// Registries returns the current tag and category registries.
func (s *Store) Registries() *config.Registries {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg
}

// SetRegistries swaps in reloaded registries. Existing task tags are untouched.
func (s *Store) SetRegistries(r *config.Registries) {
	s.mu.Lock()
	s.reg = r
	s.mu.Unlock()
}

// Columns returns the column registry.
func (s *Store) Columns() []config.ColumnConfig {
	return append([]config.ColumnConfig{}, s.cfg.Columns...)
}

// Len returns the number of tasks on the board.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Task returns a copy of the task with the given id.
func (s *Store) Task(id int) (*task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return s.tasks[i].Clone(), true
}

// Tasks returns copies of all tasks in board order.
func (s *Store) Tasks() []*task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*task.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// TasksByColumn returns copies of the tasks in column, in column order.
func (s *Store) TasksByColumn(column string) []*task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*task.Task
	for _, t := range s.tasks {
		if t.Column == column {
			out = append(out, t.Clone())
		}
	}
	return out
}

// VisibleTasks returns the tasks the retention policy leaves on the board at now.
func (s *Store) VisibleTasks(now time.Time) []*task.Task {
	return RetentionFor(s.cfg).Visible(s.Tasks(), now)
}

// Activities returns a task's journal, newest first. Unknown ids yield nil.
func (s *Store) Activities(id int) []task.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	return append([]task.Activity(nil), s.tasks[i].Activities...)
}

func (s *Store) indexOf(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// stamp returns the clock time, nudged forward so journal timestamps never
// go backwards within one store.
func (s *Store) stamp() time.Time {
	now := s.now()
	if !now.After(s.lastStamp) {
		now = s.lastStamp.Add(time.Nanosecond)
	}
	s.lastStamp = now
	return now
}

// emit hands committed entries to the sinks. Called without the lock held.
func (s *Store) emit(entries ...Entry) {
	if len(s.sinks) == 0 {
		return
	}
	ctx := context.Background()
	for _, e := range entries {
		for _, sink := range s.sinks {
			if err := sink.Record(ctx, e); err != nil {
				s.log.WithError(err).WithField("task_id", e.TaskID).Warn("journal sink failed")
			}
		}
	}
}

// moveTask removes the task at from and reinserts it at to, keeping the
// relative order of every other task.
func moveTask(tasks []*task.Task, from, to int) {
	if from == to {
		return
	}
	t := tasks[from]
	if from < to {
		copy(tasks[from:to], tasks[from+1:to+1])
	} else {
		copy(tasks[to+1:from+1], tasks[to:from])
	}
	tasks[to] = t
}
