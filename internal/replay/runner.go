package replay

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/gesture"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

// Result reports what one step did.
type Result struct {
	Step    int    `json:"step"`
	Action  string `json:"action"`
	Changed bool   `json:"changed"`
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Runner plays steps against a store. Pointer coordinates refer to the grid
// laid out over the tasks visible at the moment of each step.
type Runner struct {
	store  *board.Store
	clock  *Clock
	grid   gesture.Grid
	interp *gesture.Interpreter
}

// NewRunner wires an interpreter to store. The store must read its time from clock.
func NewRunner(store *board.Store, clock *Clock, grid gesture.Grid) *Runner {
	cfg := store.Config()
	policy := gesture.Policy{ActivationDistance: cfg.ActivationDistance()}
	if cfg.Policy.TieBreak == config.TieBreakLatest {
		policy.TieBreak = gesture.LastRegistered
	}
	exists := func(id int) bool {
		_, ok := store.Task(id)
		return ok
	}
	return &Runner{
		store:  store,
		clock:  clock,
		grid:   grid,
		interp: gesture.New(policy, exists),
	}
}

// Run plays every step in order. Step failures are reported in the results and
// do not stop the run.
func (r *Runner) Run(s *Script) []Result {
	results := make([]Result, 0, len(s.Steps))
	for i, st := range s.Steps {
		res := r.step(st)
		res.Step = i + 1
		log.WithFields(log.Fields{"step": res.Step, "action": res.Action, "changed": res.Changed}).Debug("replay step")
		results = append(results, res)
	}
	return results
}

func (r *Runner) lanes() []gesture.Lane {
	cfg := r.store.Config()
	return gesture.LanesFor(cfg.ColumnIDs(), r.store.VisibleTasks(r.clock.Now()))
}

func (r *Runner) step(st Step) Result {
	switch {
	case st.Advance != "":
		d, _ := time.ParseDuration(st.Advance)
		r.clock.Advance(d)
		return Result{Action: "advance", Detail: r.clock.Now().Format(time.RFC3339)}
	case st.Pointer != nil:
		return r.pointer(*st.Pointer)
	case st.Key != nil:
		return r.key(*st.Key)
	case st.Drop != nil:
		target := board.ColumnTarget(st.Drop.Column)
		if st.Drop.Onto != 0 {
			target = board.TaskTarget(st.Drop.Onto)
		}
		return r.reconcile("drop", board.Intent{Subject: st.Drop.Task, Target: target})
	case st.Comment != nil:
		_, ok := r.store.Comment(st.Comment.Task, st.Comment.Text)
		return Result{Action: "comment", Changed: ok}
	case st.Billing != nil:
		return r.billing(*st.Billing)
	case st.Create != nil:
		return r.create(*st.Create)
	case st.Revision != nil:
		return r.revision(*st.Revision)
	case st.Deliver != nil:
		return r.deliver(*st.Deliver)
	}
	return Result{Action: "noop"}
}

func (r *Runner) pointer(p Pointer) Result {
	lanes := r.lanes()
	r.interp.SetCandidates(r.grid.Candidates(lanes))
	at := gesture.Point{X: p.X, Y: p.Y}
	res := Result{Action: "pointer " + p.Action}

	switch p.Action {
	case "down":
		id, rect, ok := r.grid.Hit(lanes, at)
		if ok && r.interp.PointerDown(id, at, rect) {
			res.Detail = fmt.Sprintf("armed #%d", id)
		}
		return res
	case "move":
		return r.event(res, r.interp.PointerMove(at))
	default:
		return r.event(res, r.interp.PointerUp(at))
	}
}

func (r *Runner) key(k Key) Result {
	lanes := r.lanes()
	r.interp.SetCandidates(r.grid.Candidates(lanes))
	res := Result{Action: "key " + k.Action}

	switch k.Action {
	case "pickup":
		lane, row, ok := gesture.Locate(lanes, k.Task)
		if ok && r.interp.KeyActivate(k.Task, r.grid.CardRect(lane, row)) {
			res.Detail = fmt.Sprintf("picked up #%d", k.Task)
		}
		return res
	case "up":
		return r.event(res, r.interp.KeyMove(r.grid.Step(gesture.Up)))
	case "down":
		return r.event(res, r.interp.KeyMove(r.grid.Step(gesture.Down)))
	case "left":
		return r.event(res, r.interp.KeyMove(r.grid.Step(gesture.Left)))
	case "right":
		return r.event(res, r.interp.KeyMove(r.grid.Step(gesture.Right)))
	case "drop":
		return r.event(res, r.interp.Commit())
	default:
		return r.event(res, r.interp.Cancel())
	}
}

func (r *Runner) event(res Result, ev gesture.Event) Result {
	switch ev.Result {
	case gesture.Click:
		res.Detail = fmt.Sprintf("opened #%d", ev.TaskID)
	case gesture.Cancel:
		res.Detail = fmt.Sprintf("cancelled #%d", ev.TaskID)
	case gesture.Commit:
		out := r.store.Reconcile(ev.Intent)
		res.Changed = out.Changed
		res.Detail = describe(ev.Intent, out)
	case gesture.None:
		if over, ok := r.interp.Over(); ok {
			res.Detail = "over " + over.String()
		}
	}
	return res
}

func (r *Runner) reconcile(action string, in board.Intent) Result {
	out := r.store.Reconcile(in)
	return Result{Action: action, Changed: out.Changed, Detail: describe(in, out)}
}

func describe(in board.Intent, out board.Outcome) string {
	if !out.Changed {
		return fmt.Sprintf("#%d onto %s: no change", in.Subject, in.Target)
	}
	if out.Moved {
		return fmt.Sprintf("#%d moved %s -> %s at %d", in.Subject, out.From, out.To, out.Position)
	}
	return fmt.Sprintf("#%d reordered in %s to %d", in.Subject, out.To, out.Position)
}

func (r *Runner) billing(b Billing) Result {
	res := Result{Action: "billing"}
	if b.Cycle {
		next, ok := r.store.CycleInvoice(b.Task)
		res.Changed, res.Detail = ok, string(next)
		return res
	}
	status, err := task.ValidatePaymentStatus(b.Status)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Changed = r.store.OnBillingStatusChanged(b.Task, status)
	res.Detail = string(status)
	return res
}

func (r *Runner) create(c Create) Result {
	t, err := r.store.Create(board.CreateRequest{
		Client:       c.Client,
		Title:        c.Title,
		Category:     c.Category,
		DeadlineDate: c.Date,
		DeadlineTime: c.Time,
		Priority:     c.Priority,
		Budget:       c.Budget,
		Currency:     c.Currency,
	})
	if err != nil {
		return Result{Action: "create", Error: err.Error()}
	}
	return Result{Action: "create", Changed: true, Detail: fmt.Sprintf("created #%d", t.ID)}
}

func (r *Runner) revision(rv Revision) Result {
	res := Result{Action: "revision"}
	var status task.RevisionStatus
	if rv.Status != "" {
		s, err := task.ValidateRevisionStatus(rv.Status)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		status = s
	}

	if rv.Number > 0 {
		rev, ok := r.store.RevisionByNumber(rv.Task, rv.Number)
		if !ok {
			res.Error = fmt.Sprintf("revision %d not found on task #%d", rv.Number, rv.Task)
			return res
		}
		if err := r.store.SetRevisionStatus(rv.Task, rev.ID, status); err != nil {
			res.Error = err.Error()
			return res
		}
		res.Changed = true
		res.Detail = fmt.Sprintf("revision %d %s", rv.Number, status)
		return res
	}

	rev, err := r.store.AddRevision(rv.Task, rv.Content, rv.Link, status)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Changed = true
	res.Detail = fmt.Sprintf("revision %d added", rev.Number)
	return res
}

func (r *Runner) deliver(d Deliver) Result {
	res := Result{Action: "deliver"}
	links := []struct {
		kind board.Deliverable
		link string
	}{{board.DeliverableVideo, d.Video}, {board.DeliverableProject, d.Project}}
	for _, l := range links {
		if l.link == "" {
			continue
		}
		if _, err := r.store.AttachDeliverable(d.Task, l.kind, l.link); err != nil {
			res.Error = err.Error()
			return res
		}
		res.Changed = true
	}
	return res
}
