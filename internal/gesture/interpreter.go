package gesture

import (
	"github.com/twiced-technology-gmbh/cutboard/internal/board"
)

// State is the interpreter's position in a gesture lifecycle.
type State int

// Gesture states. Resolved and Cancelled are reported through Last; the
// interpreter itself is back in Idle as soon as a gesture ends.
const (
	Idle State = iota
	Armed
	Dragging
	Resolved
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Dragging:
		return "dragging"
	case Resolved:
		return "resolved"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result is what an input event produced.
type Result int

// Results.
const (
	None   Result = iota
	Click         // press and release without a drag; open the task
	Commit        // a drag resolved onto a candidate; Intent is set
	Cancel        // a drag ended without effect
)

// Event is returned by every input method.
type Event struct {
	Result Result
	TaskID int
	Intent board.Intent
}

// Policy holds the tunables of the interpreter.
type Policy struct {
	// ActivationDistance is how far the pointer must travel, strictly, before
	// a press becomes a drag.
	ActivationDistance float64
	TieBreak           TieBreak
}

// Interpreter is the gesture state machine. It is not safe for concurrent use;
// input arrives on one goroutine.
type Interpreter struct {
	policy     Policy
	exists     func(taskID int) bool
	candidates []Candidate

	state    State
	last     State
	subject  int
	keyboard bool
	origin   Point
	rect     Rect
	offset   Point
	over     int
}

// New returns an idle interpreter. exists reports whether a task is still on
// the board; a subject that disappears mid-drag cancels the gesture.
func New(policy Policy, exists func(taskID int) bool) *Interpreter {
	return &Interpreter{policy: policy, exists: exists, over: -1}
}

// SetCandidates replaces the droppables, in registration order. While
// dragging, the hover target is recomputed against the new set.
func (g *Interpreter) SetCandidates(cs []Candidate) {
	g.candidates = append(g.candidates[:0], cs...)
	if g.state == Dragging {
		g.recompute()
	}
}

// State returns the current state.
func (g *Interpreter) State() State { return g.state }

// Last returns how the previous gesture ended (Resolved or Cancelled), or Idle.
func (g *Interpreter) Last() State { return g.last }

// Subject returns the task being dragged, or 0.
func (g *Interpreter) Subject() int {
	if g.state == Idle {
		return 0
	}
	return g.subject
}

// DraggedRect returns the subject's rectangle at its current drag offset.
func (g *Interpreter) DraggedRect() Rect { return g.rect.Translate(g.offset) }

// Over returns the current hover target while dragging.
func (g *Interpreter) Over() (board.DropTarget, bool) {
	if g.state != Dragging || g.over < 0 {
		return board.DropTarget{}, false
	}
	return g.candidates[g.over].Target, true
}

// PointerDown arms a drag on taskID, whose card occupies rect.
func (g *Interpreter) PointerDown(taskID int, p Point, rect Rect) bool {
	return g.arm(taskID, p, rect, false)
}

// PointerMove follows the pointer. It starts the drag once the pointer has
// travelled past the activation distance.
func (g *Interpreter) PointerMove(p Point) Event {
	switch g.state {
	case Armed:
		if g.keyboard || p.Sub(g.origin).Len() <= g.policy.ActivationDistance {
			return Event{}
		}
		g.state = Dragging
	case Dragging:
		if g.keyboard {
			return Event{}
		}
	default:
		return Event{}
	}
	g.offset = p.Sub(g.origin)
	return g.track()
}

// PointerUp ends a pointer gesture. Released before activation it is a click.
func (g *Interpreter) PointerUp(p Point) Event {
	switch g.state {
	case Armed:
		if g.keyboard {
			return Event{}
		}
		id := g.subject
		g.reset(Idle)
		return Event{Result: Click, TaskID: id}
	case Dragging:
		if g.keyboard {
			return Event{}
		}
		g.offset = p.Sub(g.origin)
		if ev := g.track(); ev.Result == Cancel {
			return ev
		}
		return g.resolve()
	default:
		return Event{}
	}
}

// KeyActivate picks up taskID from the keyboard.
func (g *Interpreter) KeyActivate(taskID int, rect Rect) bool {
	return g.arm(taskID, Point{X: rect.X, Y: rect.Y}, rect, true)
}

// KeyMove nudges a keyboard drag by d. The first nudge starts the drag.
func (g *Interpreter) KeyMove(d Point) Event {
	if !g.keyboard || (g.state != Armed && g.state != Dragging) {
		return Event{}
	}
	g.state = Dragging
	g.offset = Point{X: g.offset.X + d.X, Y: g.offset.Y + d.Y}
	return g.track()
}

// Commit drops a keyboard drag. A pickup that never moved is cancelled.
func (g *Interpreter) Commit() Event {
	switch g.state {
	case Dragging:
		return g.resolve()
	case Armed:
		return g.cancel()
	default:
		return Event{}
	}
}

// Cancel aborts any gesture in progress.
func (g *Interpreter) Cancel() Event {
	if g.state == Idle {
		return Event{}
	}
	return g.cancel()
}

func (g *Interpreter) arm(taskID int, p Point, rect Rect, keyboard bool) bool {
	if g.state != Idle || !g.exists(taskID) {
		return false
	}
	g.state = Armed
	g.subject = taskID
	g.keyboard = keyboard
	g.origin = p
	g.rect = rect
	g.offset = Point{}
	g.over = -1
	return true
}

// track re-checks the subject and recomputes the hover target.
func (g *Interpreter) track() Event {
	if !g.exists(g.subject) {
		return g.cancel()
	}
	g.recompute()
	return Event{}
}

func (g *Interpreter) recompute() {
	g.over = ClosestCorners(g.DraggedRect(), g.candidates, g.policy.TieBreak)
}

func (g *Interpreter) resolve() Event {
	if g.over < 0 || !g.exists(g.subject) || !g.targetValid(g.candidates[g.over].Target) {
		return g.cancel()
	}
	in := board.Intent{Subject: g.subject, Target: g.candidates[g.over].Target}
	id := g.subject
	g.reset(Resolved)
	return Event{Result: Commit, TaskID: id, Intent: in}
}

func (g *Interpreter) targetValid(t board.DropTarget) bool {
	switch t.Kind {
	case board.TargetTask:
		return g.exists(t.TaskID)
	case board.TargetColumn:
		return t.Column != ""
	default:
		return false
	}
}

func (g *Interpreter) cancel() Event {
	id := g.subject
	g.reset(Cancelled)
	return Event{Result: Cancel, TaskID: id}
}

func (g *Interpreter) reset(last State) {
	g.state = Idle
	if last != Idle {
		g.last = last
	}
	g.subject = 0
	g.keyboard = false
	g.offset = Point{}
	g.over = -1
}
