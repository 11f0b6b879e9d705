// Package pathing measures shortest walkable distances on a world.Grid.
package pathing

import (
	"mapcurator/pkg/engine/world"
)

// PathFinder runs ring-by-ring breadth-first searches over a grid.
// The reached-cell cache and frontier buffers are kept between calls and
// only reallocated when the grid dimensions change, so one PathFinder can
// score a whole population without churning memory. It is not safe for
// concurrent use; give each goroutine its own.
type PathFinder struct {
	reached []bool
	width   int
	height  int

	active []world.Point
	next   []world.Point
}

// New creates an empty PathFinder
func New() *PathFinder {
	return &PathFinder{}
}

func (p *PathFinder) prepare(w, h int) {
	if p.width != w || p.height != h || p.reached == nil {
		p.reached = make([]bool, w*h)
		p.width, p.height = w, h
	} else {
		clear(p.reached)
	}
	p.active = p.active[:0]
	p.next = p.next[:0]
}

// Distance returns the number of rings the search expanded before first
// touching finish, or 0 when finish cannot be reached. Start == finish also
// yields 0; callers that care must compare the endpoints themselves.
// The flood always runs to exhaustion so Reached covers every cell
// connected to start.
func (p *PathFinder) Distance(g *world.Grid, start, finish world.Point) int {
	p.prepare(g.Width(), g.Height())

	if !g.InBounds(start.X, start.Y) {
		return 0
	}
	p.mark(start)
	p.active = append(p.active, start)

	steps := 0
	found := 0
	for len(p.active) > 0 {
		steps++
		for _, cur := range p.active {
			for _, dir := range world.AllDirections() {
				n := cur.Step(dir)
				if !g.TileAt(n).IsPassable() || p.Reached(n.X, n.Y) {
					continue
				}
				p.mark(n)
				p.next = append(p.next, n)
				if n == finish && found == 0 {
					found = steps
				}
			}
		}
		p.active, p.next = p.next, p.active[:0]
	}

	return found
}

func (p *PathFinder) mark(pt world.Point) {
	p.reached[pt.Y*p.width+pt.X] = true
}

// Reached reports whether the last search touched x/y
func (p *PathFinder) Reached(x, y int) bool {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return false
	}
	return p.reached[y*p.width+x]
}

// ReachedCount returns how many cells the last search touched
func (p *PathFinder) ReachedCount() int {
	n := 0
	for _, r := range p.reached {
		if r {
			n++
		}
	}
	return n
}

// WallUnreached overwrites every cell the last search did not touch with
// Wall. The grid must have the dimensions of the last search.
func (p *PathFinder) WallUnreached(g *world.Grid) int {
	walled := 0
	g.ForEachCell(func(x, y int, t world.TileType) {
		if !p.Reached(x, y) && t != world.Wall {
			g.SetTile(x, y, world.Wall)
			walled++
		}
	})
	return walled
}

// Farthest floods from start and returns a cell on the last ring the
// search reached, with that ring's distance. Among the cells of the last
// ring the first one accepted by prefer wins; a nil prefer, or a ring with
// no preferred cell, yields the ring's first cell. A start with no
// passable neighbours returns start and 0.
func (p *PathFinder) Farthest(g *world.Grid, start world.Point, prefer func(world.Point) bool) (world.Point, int) {
	p.prepare(g.Width(), g.Height())

	if !g.InBounds(start.X, start.Y) {
		return start, 0
	}
	p.mark(start)
	p.active = append(p.active, start)

	best, dist := start, 0
	for steps := 1; ; steps++ {
		for _, cur := range p.active {
			for _, dir := range world.AllDirections() {
				n := cur.Step(dir)
				if !g.TileAt(n).IsPassable() || p.Reached(n.X, n.Y) {
					continue
				}
				p.mark(n)
				p.next = append(p.next, n)
			}
		}
		if len(p.next) == 0 {
			break
		}
		best, dist = p.next[0], steps
		if prefer != nil {
			for _, c := range p.next {
				if prefer(c) {
					best = c
					break
				}
			}
		}
		p.active, p.next = p.next, p.active[:0]
	}
	p.active = p.active[:0]
	return best, dist
}
