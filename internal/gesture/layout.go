package gesture

import (
	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

// Lane is one column of the board as laid out on screen: its id and the
// task ids it shows, top to bottom.
type Lane struct {
	Column string
	Tasks  []int
}

// Grid places lanes side by side and cards stacked inside them. Cards are
// separated by CardGap so neighbouring cards never share an edge.
type Grid struct {
	ColumnWidth  float64
	ColumnGap    float64
	HeaderHeight float64
	CardHeight   float64
	CardGap      float64
	Height       float64 // total lane height
}

// ColumnRect returns the area of lane i below its header. An empty lane's
// top corners coincide with where its first card would sit.
func (g Grid) ColumnRect(i int) Rect {
	return Rect{
		X: float64(i) * (g.ColumnWidth + g.ColumnGap),
		Y: g.HeaderHeight,
		W: g.ColumnWidth,
		H: g.Height - g.HeaderHeight,
	}
}

// CardRect returns the rectangle of the card at row in lane i.
func (g Grid) CardRect(i, row int) Rect {
	return Rect{
		X: float64(i) * (g.ColumnWidth + g.ColumnGap),
		Y: g.HeaderHeight + float64(row)*(g.CardHeight+g.CardGap),
		W: g.ColumnWidth,
		H: g.CardHeight,
	}
}

// Rows is the number of card slots that fit in a lane, at least one.
func (g Grid) Rows() int {
	step := g.CardHeight + g.CardGap
	if step <= 0 {
		return 1
	}
	return max(int((g.Height-g.HeaderHeight+g.CardGap)/step), 1)
}

// Candidates registers each lane's cards and then the lane's open slots,
// left to right. Every slot below the last card is a card-sized droppable
// for the lane itself, so a card dragged into the empty part of a lane has
// a column corner right where it lands instead of one at the lane's far edge.
func (g Grid) Candidates(lanes []Lane) []Candidate {
	var out []Candidate
	rows := g.Rows()
	for i, lane := range lanes {
		for row, id := range lane.Tasks {
			out = append(out, Candidate{Target: board.TaskTarget(id), Rect: g.CardRect(i, row)})
		}
		target := board.ColumnTarget(lane.Column)
		for row := len(lane.Tasks); row < max(rows, len(lane.Tasks)+1); row++ {
			out = append(out, Candidate{Target: target, Rect: g.CardRect(i, row)})
		}
	}
	return out
}

// Hit returns the card under p.
func (g Grid) Hit(lanes []Lane, p Point) (taskID int, rect Rect, ok bool) {
	for i, lane := range lanes {
		col := g.ColumnRect(i)
		if p.X < col.X || p.X >= col.X+col.W {
			continue
		}
		for row, id := range lane.Tasks {
			if r := g.CardRect(i, row); r.Contains(p) {
				return id, r, true
			}
		}
		return 0, Rect{}, false
	}
	return 0, Rect{}, false
}

// Locate returns the lane and row of taskID.
func Locate(lanes []Lane, taskID int) (lane, row int, ok bool) {
	for i, l := range lanes {
		for r, id := range l.Tasks {
			if id == taskID {
				return i, r, true
			}
		}
	}
	return 0, 0, false
}

// Direction is a keyboard nudge.
type Direction int

// Directions.
const (
	Up Direction = iota
	Down
	Left
	Right
)

// Step returns the offset of one keyboard nudge: a card slot vertically or a
// lane horizontally.
func (g Grid) Step(d Direction) Point {
	switch d {
	case Up:
		return Point{Y: -(g.CardHeight + g.CardGap)}
	case Down:
		return Point{Y: g.CardHeight + g.CardGap}
	case Left:
		return Point{X: -(g.ColumnWidth + g.ColumnGap)}
	default:
		return Point{X: g.ColumnWidth + g.ColumnGap}
	}
}

// DefaultGrid is the headless layout used when no screen is involved.
func DefaultGrid() Grid {
	return Grid{
		ColumnWidth:  30,
		ColumnGap:    2,
		HeaderHeight: 2,
		CardHeight:   8,
		CardGap:      2,
		Height:       200,
	}
}

// LanesFor groups tasks into lanes in column registry order, keeping the
// tasks' relative order.
func LanesFor(columns []string, tasks []*task.Task) []Lane {
	lanes := make([]Lane, len(columns))
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		lanes[i] = Lane{Column: c}
		index[c] = i
	}
	for _, t := range tasks {
		if i, ok := index[t.Column]; ok {
			lanes[i].Tasks = append(lanes[i].Tasks, t.ID)
		}
	}
	return lanes
}
