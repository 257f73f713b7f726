package engine

// freeRect is a maximal free rectangle on a sheet.
type freeRect struct {
	x, y, w, h float64
}

func (r freeRect) area() float64 { return r.w * r.h }

func (r freeRect) intersects(x, y, w, h float64) bool {
	return x < r.x+r.w-gridEpsilon && r.x < x+w-gridEpsilon &&
		y < r.y+r.h-gridEpsilon && r.y < y+h-gridEpsilon
}

// contains reports whether r fully contains other.
func (r freeRect) contains(other freeRect) bool {
	return other.x >= r.x-gridEpsilon && other.y >= r.y-gridEpsilon &&
		other.x+other.w <= r.x+r.w+gridEpsilon &&
		other.y+other.h <= r.y+r.h+gridEpsilon
}

// FreeSpaceIndex tracks the maximal free rectangles of a sheet, the
// MaxRects scheme: placing a panel splits every intersecting free rect
// into up to four residuals, then contained rects are pruned.
type FreeSpaceIndex struct {
	rects []freeRect
}

func NewFreeSpaceIndex(w, h float64) *FreeSpaceIndex {
	return &FreeSpaceIndex{rects: []freeRect{{x: 0, y: 0, w: w, h: h}}}
}

// Rects exposes the current free rectangles for candidate generation.
func (f *FreeSpaceIndex) Rects() []freeRect { return f.rects }

// Place carves the footprint [x, x+w) x [y, y+h) out of the free space.
func (f *FreeSpaceIndex) Place(x, y, w, h float64) {
	var next []freeRect
	for _, r := range f.rects {
		if !r.intersects(x, y, w, h) {
			next = append(next, r)
			continue
		}
		// Left residual, full height of the free rect
		if x > r.x+gridEpsilon {
			next = append(next, freeRect{x: r.x, y: r.y, w: x - r.x, h: r.h})
		}
		// Right residual
		if x+w < r.x+r.w-gridEpsilon {
			next = append(next, freeRect{x: x + w, y: r.y, w: r.x + r.w - (x + w), h: r.h})
		}
		// Bottom residual, full width of the free rect
		if y > r.y+gridEpsilon {
			next = append(next, freeRect{x: r.x, y: r.y, w: r.w, h: y - r.y})
		}
		// Top residual
		if y+h < r.y+r.h-gridEpsilon {
			next = append(next, freeRect{x: r.x, y: y + h, w: r.w, h: r.y + r.h - (y + h)})
		}
	}
	f.rects = prune(next)
}

// prune removes rects fully contained in another. Quadratic, but the
// rect list stays small in practice.
func prune(rects []freeRect) []freeRect {
	kept := make([]freeRect, 0, len(rects))
outer:
	for i, r := range rects {
		for j, other := range rects {
			if i == j {
				continue
			}
			if other.contains(r) {
				// Identical rects keep only the first occurrence
				if !r.contains(other) || j < i {
					continue outer
				}
			}
		}
		kept = append(kept, r)
	}
	return kept
}

// Copy returns an independent index with the same contents.
func (f *FreeSpaceIndex) Copy() *FreeSpaceIndex {
	return &FreeSpaceIndex{rects: append([]freeRect(nil), f.rects...)}
}
