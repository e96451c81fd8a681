// Package task defines board tasks, their revisions and activity records,
// and the seed files they are loaded from.
package task

import (
	"time"

	"github.com/twiced-technology-gmbh/cutboard/internal/date"
)

// Task is one unit of work on the board.
type Task struct {
	ID              int           `yaml:"id" json:"id"`
	Column          string        `yaml:"column" json:"column"`
	Title           string        `yaml:"title" json:"title"`
	Client          string        `yaml:"client" json:"client"`
	Tag             string        `yaml:"tag,omitempty" json:"tag,omitempty"`
	Priority        string        `yaml:"priority,omitempty" json:"priority,omitempty"`
	Created         time.Time     `yaml:"created" json:"created"`
	Due             *date.Date    `yaml:"due,omitempty" json:"due,omitempty"`
	Deadline        *time.Time    `yaml:"deadline,omitempty" json:"deadline,omitempty"`
	Urgency         Urgency       `yaml:"urgency,omitempty" json:"urgency"`
	Payment         PaymentStatus `yaml:"payment" json:"payment"`
	PaidAt          *time.Time    `yaml:"paid_at,omitempty" json:"paid_at,omitempty"`
	Revisions       []Revision    `yaml:"revisions,omitempty" json:"revisions"`
	Activities      []Activity    `yaml:"activities,omitempty" json:"activities"`
	Budget          *float64      `yaml:"budget,omitempty" json:"budget,omitempty"`
	Currency        string        `yaml:"currency,omitempty" json:"currency,omitempty"`
	VideoLink       string        `yaml:"video_link,omitempty" json:"video_link,omitempty"`
	ProjectFileLink string        `yaml:"project_file_link,omitempty" json:"project_file_link,omitempty"`

	// Notes is the markdown content below the frontmatter (not in YAML).
	Notes string `yaml:"-" json:"notes,omitempty"`

	// File is the seed file the task was loaded from (not in YAML).
	File string `yaml:"-" json:"file,omitempty"`
}

// Revision is a numbered review note. Only Status changes after creation.
type Revision struct {
	ID      string         `yaml:"id" json:"id"`
	Number  int            `yaml:"number" json:"number"`
	Content string         `yaml:"content" json:"content"`
	Link    string         `yaml:"link,omitempty" json:"link,omitempty"`
	Created time.Time      `yaml:"created" json:"created"`
	Status  RevisionStatus `yaml:"status" json:"status"`
}

// Activity is an immutable journal record.
type Activity struct {
	ID        string    `yaml:"id" json:"id"`
	Kind      Kind      `yaml:"kind" json:"kind"`
	Content   string    `yaml:"content" json:"content"`
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	Actor     string    `yaml:"actor" json:"actor"`
}

// Clone returns a deep copy so callers outside the store cannot alias its state.
func (t *Task) Clone() *Task {
	c := *t
	if t.Due != nil {
		d := *t.Due
		c.Due = &d
	}
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	if t.PaidAt != nil {
		p := *t.PaidAt
		c.PaidAt = &p
	}
	if t.Budget != nil {
		b := *t.Budget
		c.Budget = &b
	}
	c.Revisions = append([]Revision(nil), t.Revisions...)
	c.Activities = append([]Activity(nil), t.Activities...)
	return &c
}

// Revision returns the revision with the given id.
func (t *Task) Revision(id string) (*Revision, bool) {
	for i := range t.Revisions {
		if t.Revisions[i].ID == id {
			return &t.Revisions[i], true
		}
	}
	return nil, false
}
