// Package gesture turns raw pointer and keyboard input into drag intents.
package gesture

import (
	"math"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
)

// Point is a position in layout units.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Len returns the distance of p from the origin.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Rect is an axis-aligned rectangle with its origin at the top-left.
type Rect struct {
	X, Y, W, H float64
}

// Corners returns top-left, top-right, bottom-left, bottom-right.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.X, Y: r.Y},
		{X: r.X + r.W, Y: r.Y},
		{X: r.X, Y: r.Y + r.H},
		{X: r.X + r.W, Y: r.Y + r.H},
	}
}

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

// Contains reports whether p lies inside r (right and bottom edges excluded).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Candidate is a registered droppable.
type Candidate struct {
	Target board.DropTarget
	Rect   Rect
}

// TieBreak chooses between equidistant candidates.
type TieBreak int

const (
	// FirstRegistered keeps the earliest registered candidate.
	FirstRegistered TieBreak = iota
	// LastRegistered keeps the latest registered candidate.
	LastRegistered
)

// cornerDistance is the smallest distance between any corner of a and any corner of b.
func cornerDistance(a, b Rect) float64 {
	best := math.Inf(1)
	bc := b.Corners()
	for _, p := range a.Corners() {
		for _, q := range bc {
			if d := p.Sub(q).Len(); d < best {
				best = d
			}
		}
	}
	return best
}

// ClosestCorners returns the index of the candidate whose corners come
// nearest to the dragged rect's corners, or -1 when there are none.
func ClosestCorners(dragged Rect, candidates []Candidate, tie TieBreak) int {
	best := -1
	bestDist := math.Inf(1)
	for i, c := range candidates {
		d := cornerDistance(dragged, c.Rect)
		if d < bestDist || (tie == LastRegistered && d == bestDist) {
			best, bestDist = i, d
		}
	}
	return best
}
