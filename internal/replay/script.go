// Package replay runs scripted board sessions: pointer and keyboard gestures,
// comments, billing events, creation and clock changes, against an
// in-memory store.
package replay

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/cutboard/internal/clierr"
)

// Script is a replay file.
type Script struct {
	// Start pins the scripted clock. Zero means the wall clock at load time.
	Start time.Time `yaml:"start,omitempty"`
	Steps []Step    `yaml:"steps"`
}

// Step is one scripted event. Exactly one field is set.
type Step struct {
	Advance  string    `yaml:"advance,omitempty"`
	Pointer  *Pointer  `yaml:"pointer,omitempty"`
	Key      *Key      `yaml:"key,omitempty"`
	Drop     *Drop     `yaml:"drop,omitempty"`
	Comment  *Comment  `yaml:"comment,omitempty"`
	Billing  *Billing  `yaml:"billing,omitempty"`
	Create   *Create   `yaml:"create,omitempty"`
	Revision *Revision `yaml:"revision,omitempty"`
	Deliver  *Deliver  `yaml:"deliver,omitempty"`
}

// Pointer is a mouse event at layout coordinates.
type Pointer struct {
	Action string  `yaml:"action"` // down, move, up
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
}

// Key is a keyboard drag event.
type Key struct {
	Action string `yaml:"action"` // pickup, up, down, left, right, drop, cancel
	Task   int    `yaml:"task,omitempty"`
}

// Drop applies an intent directly, bypassing gestures.
type Drop struct {
	Task   int    `yaml:"task"`
	Onto   int    `yaml:"onto,omitempty"`
	Column string `yaml:"column,omitempty"`
}

// Comment appends a comment.
type Comment struct {
	Task int    `yaml:"task"`
	Text string `yaml:"text"`
}

// Billing delivers an invoice status change.
type Billing struct {
	Task   int    `yaml:"task"`
	Status string `yaml:"status,omitempty"`
	Cycle  bool   `yaml:"cycle,omitempty"`
}

// Create submits the new-task form.
type Create struct {
	Client   string   `yaml:"client"`
	Title    string   `yaml:"title"`
	Category string   `yaml:"category,omitempty"`
	Date     string   `yaml:"date,omitempty"`
	Time     string   `yaml:"time,omitempty"`
	Priority string   `yaml:"priority,omitempty"`
	Budget   *float64 `yaml:"budget,omitempty"`
	Currency string   `yaml:"currency,omitempty"`
}

// Revision adds a revision note or changes a revision's status.
type Revision struct {
	Task    int    `yaml:"task"`
	Content string `yaml:"content,omitempty"`
	Link    string `yaml:"link,omitempty"`
	Number  int    `yaml:"number,omitempty"` // set to change an existing revision's status
	Status  string `yaml:"status,omitempty"`
}

// Deliver attaches delivery links.
type Deliver struct {
	Task    int    `yaml:"task"`
	Video   string `yaml:"video,omitempty"`
	Project string `yaml:"project,omitempty"`
}

// Load reads and validates a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path) //nolint:gosec // script path supplied by the user
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates script bytes.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, clierr.Newf(clierr.InvalidScript, "parsing script: %v", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every step names exactly one known action.
func (s *Script) Validate() error {
	for i, st := range s.Steps {
		if n := st.count(); n != 1 {
			return invalid(i, "must set exactly one action, found %d", n)
		}
		if err := st.validate(); err != nil {
			return invalid(i, "%v", err)
		}
	}
	return nil
}

func invalid(i int, format string, args ...any) error {
	return clierr.Newf(clierr.InvalidScript, "step %d: %s", i+1, fmt.Sprintf(format, args...)).
		WithDetails(map[string]any{"step": i + 1})
}

func (st Step) count() int {
	n := 0
	if st.Advance != "" {
		n++
	}
	for _, set := range []bool{
		st.Pointer != nil, st.Key != nil, st.Drop != nil, st.Comment != nil,
		st.Billing != nil, st.Create != nil, st.Revision != nil, st.Deliver != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

func (st Step) validate() error {
	switch {
	case st.Advance != "":
		if _, err := time.ParseDuration(st.Advance); err != nil {
			return fmt.Errorf("advance: %w", err)
		}
	case st.Pointer != nil:
		switch st.Pointer.Action {
		case "down", "move", "up":
		default:
			return fmt.Errorf("pointer action %q (want down, move or up)", st.Pointer.Action)
		}
	case st.Key != nil:
		switch st.Key.Action {
		case "pickup":
			if st.Key.Task < 1 {
				return fmt.Errorf("key pickup needs a task")
			}
		case "up", "down", "left", "right", "drop", "cancel":
		default:
			return fmt.Errorf("key action %q", st.Key.Action)
		}
	case st.Drop != nil:
		if (st.Drop.Onto == 0) == (st.Drop.Column == "") {
			return fmt.Errorf("drop needs exactly one of onto or column")
		}
	case st.Billing != nil:
		if (st.Billing.Status == "") == !st.Billing.Cycle {
			return fmt.Errorf("billing needs exactly one of status or cycle")
		}
	case st.Revision != nil:
		if st.Revision.Number == 0 && st.Revision.Content == "" {
			return fmt.Errorf("revision needs content or a number")
		}
	case st.Deliver != nil:
		if st.Deliver.Video == "" && st.Deliver.Project == "" {
			return fmt.Errorf("deliver needs video or project")
		}
	}
	return nil
}

// Clock is a settable time source for scripted sessions.
type Clock struct {
	t time.Time
}

// NewClock returns a clock reading start.
func NewClock(start time.Time) *Clock { return &Clock{t: start} }

// Now returns the scripted time.
func (c *Clock) Now() time.Time { return c.t }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.t = c.t.Add(d) }
