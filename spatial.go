package main

import "math"

// SpatialCellSize is about three times the largest hitbox a grown player
// reaches in a round.
const SpatialCellSize = 200.0

// EntityRef identifies an entity in the grid
type EntityRef struct {
	Kind byte // 'p'=player
	Idx  int  // index into the corresponding flat list
}

// SpatialGrid is a fixed-size grid for broad-phase rectangle queries
type SpatialGrid struct {
	cols, rows int
	cells      [][]EntityRef
}

// NewSpatialGrid covers a world of the given size
func NewSpatialGrid(worldW, worldH float64) *SpatialGrid {
	cols := int(math.Ceil(worldW/SpatialCellSize)) + 1
	rows := int(math.Ceil(worldH/SpatialCellSize)) + 1
	return &SpatialGrid{
		cols:  cols,
		rows:  rows,
		cells: make([][]EntityRef, cols*rows),
	}
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *SpatialGrid) span(r Rect) (minCX, minCY, maxCX, maxCY int) {
	x0, y0, x1, y1 := r.Bounds()
	minCX = clampCell(int(x0/SpatialCellSize), g.cols)
	maxCX = clampCell(int(x1/SpatialCellSize), g.cols)
	minCY = clampCell(int(y0/SpatialCellSize), g.rows)
	maxCY = clampCell(int(y1/SpatialCellSize), g.rows)
	return
}

func clampCell(c, n int) int {
	if c < 0 {
		return 0
	}
	if c >= n {
		return n - 1
	}
	return c
}

// InsertRect adds an entity reference to all cells overlapping its bounds
func (g *SpatialGrid) InsertRect(r Rect, ref EntityRef) {
	minCX, minCY, maxCX, maxCY := g.span(r)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			idx := cy*g.cols + cx
			g.cells[idx] = append(g.cells[idx], ref)
		}
	}
}

// QueryBuf appends the refs of every cell the rectangle touches to buf.
// A ref spanning several cells appears once per cell; callers dedupe or
// tolerate repeats.
func (g *SpatialGrid) QueryBuf(r Rect, buf []EntityRef) []EntityRef {
	minCX, minCY, maxCX, maxCY := g.span(r)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			buf = append(buf, g.cells[cy*g.cols+cx]...)
		}
	}
	return buf
}
