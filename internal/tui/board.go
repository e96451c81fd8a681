// Package tui implements the interactive terminal board for cutboard.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/gesture"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

// view represents the current screen state.
type view int

const (
	viewBoard view = iota
	viewDetail
	viewComment
)

// Layout constants. Screen cells are mapped onto a pixel-like plane so the
// activation distance keeps its meaning: one column of text is cellW units
// wide and one line is cellH units tall.
const (
	cellW = 8
	cellH = 16

	cardLines    = 5                // border (2) + three content lines
	boardChrome  = 2                // blank line + status bar below the column area
	errorChrome  = 1                // extra line when an error toast is displayed
	tickInterval = 30 * time.Second // how often due labels refresh
)

// Board is the top-level bubbletea model.
type Board struct {
	store  *board.Store
	cfg    *config.Config
	interp *gesture.Interpreter
	keys   keyMap
	help   help.Model
	input  textinput.Model
	log    logrus.FieldLogger

	columns   []column
	total     int
	activeCol int
	activeRow int
	view      view
	detailID  int
	width     int
	height    int
	status    string
	err       error
	now       func() time.Time
}

// column holds the visible tasks of one board column.
type column struct {
	cfg       config.ColumnConfig
	tasks     []*task.Task
	scrollOff int // first visible row index
}

// NewBoard creates a Board over store. The store's clock drives due labels.
func NewBoard(store *board.Store) *Board {
	cfg := store.Config()
	policy := gesture.Policy{ActivationDistance: cfg.ActivationDistance()}
	if cfg.Policy.TieBreak == config.TieBreakLatest {
		policy.TieBreak = gesture.LastRegistered
	}

	in := textinput.New()
	in.Placeholder = "Add a comment"
	in.CharLimit = 500

	b := &Board{
		store: store,
		cfg:   cfg,
		keys:  defaultKeys(),
		help:  help.New(),
		input: in,
		log:   logrus.StandardLogger(),
		now:   store.Now,
	}
	b.interp = gesture.New(policy, func(id int) bool {
		_, ok := store.Task(id)
		return ok
	})
	b.loadTasks()
	return b
}

// SetNow overrides the clock used for rendering (for testing).
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.MouseMsg:
		return b.handleMouse(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.help.Width = msg.Width
		b.loadTasks()
		return b, nil
	case ReloadMsg:
		if msg.Registries != nil {
			b.store.SetRegistries(msg.Registries)
		}
		b.loadTasks()
		return b, nil
	case TickMsg:
		b.loadTasks()
		return b, tickCmd()
	case errMsg:
		b.err = msg.err
		return b, nil
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	switch b.view {
	case viewDetail:
		return b.viewDetail()
	case viewComment:
		return b.viewComment()
	default:
		return b.viewBoard()
	}
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return b, tea.Quit
	}

	switch b.view {
	case viewDetail:
		if key.Matches(msg, b.keys.Cancel, b.keys.Quit, b.keys.Open) {
			b.view = viewBoard
		}
		return b, nil
	case viewComment:
		return b.handleCommentKey(msg)
	}

	if b.interp.State() != gesture.Idle {
		return b.handleDragKey(msg)
	}
	return b.handleBoardKey(msg)
}

func (b *Board) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Quit), key.Matches(msg, b.keys.Cancel):
		return b, tea.Quit
	case key.Matches(msg, b.keys.Left):
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case key.Matches(msg, b.keys.Right):
		if b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case key.Matches(msg, b.keys.Down):
		col := b.currentColumn()
		if col != nil && b.activeRow < len(col.tasks)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case key.Matches(msg, b.keys.Up):
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	case key.Matches(msg, b.keys.Pickup):
		b.pickup()
	case key.Matches(msg, b.keys.Open):
		if t := b.selectedTask(); t != nil {
			b.openDetail(t.ID)
		}
	case key.Matches(msg, b.keys.Comment):
		if t := b.selectedTask(); t != nil {
			b.detailID = t.ID
			b.input.Reset()
			b.input.Focus()
			b.view = viewComment
			return b, textinput.Blink
		}
	case key.Matches(msg, b.keys.Invoice):
		if t := b.selectedTask(); t != nil {
			if next, ok := b.store.CycleInvoice(t.ID); ok {
				b.status = fmt.Sprintf("#%d invoice %s", t.ID, next)
			}
			b.loadTasks()
		}
	}
	return b, nil
}

// handleDragKey routes keys while a card is picked up or being dragged.
func (b *Board) handleDragKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b.syncCandidates()
	var ev gesture.Event
	switch {
	case key.Matches(msg, b.keys.Cancel):
		ev = b.interp.Cancel()
	case key.Matches(msg, b.keys.Drop):
		ev = b.interp.Commit()
	case key.Matches(msg, b.keys.Left):
		ev = b.interp.KeyMove(b.grid().Step(gesture.Left))
	case key.Matches(msg, b.keys.Right):
		ev = b.interp.KeyMove(b.grid().Step(gesture.Right))
	case key.Matches(msg, b.keys.Up):
		ev = b.interp.KeyMove(b.grid().Step(gesture.Up))
	case key.Matches(msg, b.keys.Down):
		ev = b.interp.KeyMove(b.grid().Step(gesture.Down))
	}
	b.apply(ev)
	return b, nil
}

func (b *Board) handleCommentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		b.input.Blur()
		b.view = viewBoard
		return b, nil
	case tea.KeyEnter:
		text := strings.TrimSpace(b.input.Value())
		if _, ok := b.store.Comment(b.detailID, text); ok {
			b.status = fmt.Sprintf("Commented on #%d", b.detailID)
		}
		b.input.Blur()
		b.view = viewBoard
		b.loadTasks()
		return b, nil
	}
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	return b, cmd
}

// handleMouse feeds left-button press, motion and release to the interpreter.
func (b *Board) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if b.view != viewBoard {
		return b, nil
	}
	p := toPlane(msg.X, msg.Y)
	b.syncCandidates()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return b, nil
		}
		if id, rect, ok := b.grid().Hit(b.lanes(), p); ok {
			b.selectTask(id)
			b.interp.PointerDown(id, p, rect)
		}
	case tea.MouseActionMotion:
		b.apply(b.interp.PointerMove(p))
	case tea.MouseActionRelease:
		b.apply(b.interp.PointerUp(p))
	}
	return b, nil
}

// pickup starts a keyboard drag on the selected card.
func (b *Board) pickup() {
	t := b.selectedTask()
	if t == nil {
		return
	}
	b.syncCandidates()
	lane, row, ok := gesture.Locate(b.lanes(), t.ID)
	if !ok {
		return
	}
	if b.interp.KeyActivate(t.ID, b.grid().CardRect(lane, row)) {
		b.status = fmt.Sprintf("Picked up #%d", t.ID)
	}
}

// apply acts on an interpreter event.
func (b *Board) apply(ev gesture.Event) {
	switch ev.Result {
	case gesture.Click:
		b.openDetail(ev.TaskID)
	case gesture.Cancel:
		b.status = fmt.Sprintf("Dropped #%d back", ev.TaskID)
	case gesture.Commit:
		out := b.store.Reconcile(ev.Intent)
		switch {
		case out.Moved:
			b.status = fmt.Sprintf("#%d moved to %s", ev.TaskID, b.cfg.DisplayName(out.To))
		case out.Changed:
			b.status = fmt.Sprintf("#%d reordered", ev.TaskID)
		default:
			b.status = fmt.Sprintf("#%d unchanged", ev.TaskID)
		}
		b.log.WithFields(logrus.Fields{"task_id": ev.TaskID, "target": ev.Intent.Target.String()}).Debug("drop")
		b.loadTasks()
		b.selectTask(ev.TaskID)
	}
}

func (b *Board) openDetail(id int) {
	b.detailID = id
	b.view = viewDetail
}

// loadTasks snapshots the visible tasks into columns.
func (b *Board) loadTasks() {
	visible := b.store.VisibleTasks(b.now())
	b.total = len(visible)

	cols := b.store.Columns()
	b.columns = make([]column, len(cols))
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		b.columns[i] = column{cfg: c}
		index[c.ID] = i
	}
	for _, t := range visible {
		if i, ok := index[t.Column]; ok {
			b.columns[i].tasks = append(b.columns[i].tasks, t)
		}
	}
	b.clampRow()
	b.syncCandidates()
}

// lanes returns the on-screen lanes, starting at each column's scroll offset.
func (b *Board) lanes() []gesture.Lane {
	lanes := make([]gesture.Lane, len(b.columns))
	for i, col := range b.columns {
		lanes[i] = gesture.Lane{Column: col.cfg.ID}
		for _, t := range col.tasks[min(col.scrollOff, len(col.tasks)):] {
			lanes[i].Tasks = append(lanes[i].Tasks, t.ID)
		}
	}
	return lanes
}

func (b *Board) syncCandidates() {
	b.interp.SetCandidates(b.grid().Candidates(b.lanes()))
}

// grid maps the current terminal layout onto the gesture plane.
func (b *Board) grid() gesture.Grid {
	h := b.height - b.chromeHeight()
	if h < 1 {
		h = 1
	}
	return gesture.Grid{
		ColumnWidth:  float64((b.columnWidth() - 1) * cellW),
		ColumnGap:    cellW,
		HeaderHeight: cellH,
		CardHeight:   cardLines * cellH,
		CardGap:      cellH,
		Height:       float64(h * cellH),
	}
}

// toPlane converts a terminal cell to the centre of that cell on the plane.
func toPlane(x, y int) gesture.Point {
	return gesture.Point{X: float64(x*cellW + cellW/2), Y: float64(y*cellH + cellH/2)}
}

func (b *Board) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

func (b *Board) selectedTask() *task.Task {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		return nil
	}
	if b.activeRow >= 0 && b.activeRow < len(col.tasks) {
		return col.tasks[b.activeRow]
	}
	return nil
}

// selectTask moves the cursor onto task id if it is visible.
func (b *Board) selectTask(id int) {
	for ci, col := range b.columns {
		for ri, t := range col.tasks {
			if t.ID == id {
				b.activeCol = ci
				b.activeRow = ri
				b.ensureVisible()
				return
			}
		}
	}
}

func (b *Board) clampRow() {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.tasks) {
		b.activeRow = len(col.tasks) - 1
	}
	b.ensureVisible()
}

// chromeHeight returns the number of lines below the column area.
func (b *Board) chromeHeight() int {
	h := boardChrome
	if b.err != nil {
		h += errorChrome
	}
	return h
}

// visibleCards returns how many fixed-height cards fit below a column header.
func (b *Board) visibleCards() int {
	avail := b.height - b.chromeHeight() - 1
	n := (avail + 1) / (cardLines + 1) // cards are separated by one blank line
	if n < 1 {
		return 1
	}
	return n
}

// ensureVisible adjusts the active column's scroll offset so the selected
// row is within the visible window.
func (b *Board) ensureVisible() {
	col := b.currentColumn()
	if col == nil {
		return
	}
	maxVis := b.visibleCards()
	switch {
	case b.activeRow >= col.scrollOff+maxVis:
		col.scrollOff = b.activeRow - maxVis + 1
	case b.activeRow < col.scrollOff:
		col.scrollOff = b.activeRow
	}
}

func (b *Board) columnWidth() int {
	if b.width == 0 || len(b.columns) == 0 {
		return b.cfg.CardWidth()
	}
	w := b.width / len(b.columns)
	const maxColWidth = 60
	if w > maxColWidth {
		w = maxColWidth
	}
	return w
}

// WatchPaths returns the paths that should be watched for registry changes.
func (b *Board) WatchPaths() []string {
	return []string{b.cfg.Dir()}
}

// --- Messages ---

// ReloadMsg is sent by the file watcher when the registries file changes.
type ReloadMsg struct {
	Registries *config.Registries
}

type errMsg struct{ err error }

// ErrMsg wraps an error for delivery to the board.
func ErrMsg(err error) tea.Msg { return errMsg{err: err} }

// TickMsg is sent periodically to refresh due labels.
type TickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}
