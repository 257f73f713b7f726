package engine

import "math"

const gridEpsilon = 1e-6

// SpatialGrid is a coarse occupancy index over a sheet. Each cell holds
// the indices of panels whose kerf-padded bounding box covers it, so
// collision checks only visit nearby panels. Cell lists are append-only;
// panels are never removed from a sheet.
type SpatialGrid struct {
	sheetW, sheetH float64
	cols, rows     int
	cellW, cellH   float64
	cells          [][]int
}

// NewSpatialGrid sizes the grid adaptively: the target cell size is the
// average panel dimension times the configured factor, clamped to the
// configured cell-count range.
func NewSpatialGrid(sheetW, sheetH, avgPanelSize float64, cfg *Config) *SpatialGrid {
	if avgPanelSize <= 0 {
		avgPanelSize = math.Max(sheetW, sheetH) / 10
	}
	target := avgPanelSize * cfg.GridSizeFactor

	cols := clampCells(int(sheetW/target), cfg.MinGridCells, cfg.MaxGridCells)
	rows := clampCells(int(sheetH/target), cfg.MinGridCells, cfg.MaxGridCells)

	g := &SpatialGrid{
		sheetW: sheetW,
		sheetH: sheetH,
		cols:   cols,
		rows:   rows,
		cellW:  sheetW / float64(cols),
		cellH:  sheetH / float64(rows),
		cells:  make([][]int, cols*rows),
	}
	return g
}

func clampCells(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// cellRange returns the inclusive cell index range covered by the
// interval [pos, pos+size], clamped to the grid.
func cellRange(pos, size, cell float64, count int) (lo, hi int) {
	lo = int(math.Floor((pos + gridEpsilon) / cell))
	hi = int(math.Ceil((pos+size-gridEpsilon)/cell)) - 1
	if lo < 0 {
		lo = 0
	}
	if hi >= count {
		hi = count - 1
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// Insert records a panel index over the cells covered by its footprint.
func (g *SpatialGrid) Insert(idx int, x, y, w, h float64) {
	c0, c1 := cellRange(x, w, g.cellW, g.cols)
	r0, r1 := cellRange(y, h, g.cellH, g.rows)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			cell := r*g.cols + c
			g.cells[cell] = append(g.cells[cell], idx)
		}
	}
}

// Query returns the distinct panel indices whose footprints may overlap
// the given region.
func (g *SpatialGrid) Query(x, y, w, h float64) []int {
	c0, c1 := cellRange(x, w, g.cellW, g.cols)
	r0, r1 := cellRange(y, h, g.cellH, g.rows)

	seen := make(map[int]struct{})
	var result []int
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			for _, idx := range g.cells[r*g.cols+c] {
				if _, ok := seen[idx]; ok {
					continue
				}
				seen[idx] = struct{}{}
				result = append(result, idx)
			}
		}
	}
	return result
}

// Copy returns an independent grid with the same contents.
func (g *SpatialGrid) Copy() *SpatialGrid {
	c := *g
	c.cells = make([][]int, len(g.cells))
	for i, cell := range g.cells {
		if len(cell) > 0 {
			c.cells[i] = append([]int(nil), cell...)
		}
	}
	return &c
}
