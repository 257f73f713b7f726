package engine

import "sort"

// skySegment is one horizontal segment of the skyline contour.
type skySegment struct {
	x, y, w float64
}

// Skyline maintains the upper contour of the placed panels. Segments are
// kept sorted by (y, x) so the lowest open positions come first when
// generating candidates.
type Skyline struct {
	segments []skySegment
}

func NewSkyline(sheetW float64) *Skyline {
	return &Skyline{segments: []skySegment{{x: 0, y: 0, w: sheetW}}}
}

// Segments exposes the contour, lowest first.
func (s *Skyline) Segments() []skySegment { return s.segments }

// Update raises the contour over [x, x+w] to y+h after a placement.
// Shadowed segments are removed, adjacent segments at the same height
// are merged within tolerance, and the segment count is capped.
func (s *Skyline) Update(x, y, w, h float64, mergeTolerance float64, maxSegments int) {
	top := y + h
	var next []skySegment

	for _, seg := range s.segments {
		segEnd := seg.x + seg.w
		if segEnd <= x+gridEpsilon || seg.x >= x+w-gridEpsilon {
			next = append(next, seg)
			continue
		}
		// Part of the segment left of the placement survives
		if seg.x < x-gridEpsilon {
			next = append(next, skySegment{x: seg.x, y: seg.y, w: x - seg.x})
		}
		// Part right of the placement survives
		if segEnd > x+w+gridEpsilon {
			next = append(next, skySegment{x: x + w, y: seg.y, w: segEnd - (x + w)})
		}
		// The covered middle is shadowed unless it was already higher
		if seg.y > top+gridEpsilon {
			lo := seg.x
			if lo < x {
				lo = x
			}
			hi := segEnd
			if hi > x+w {
				hi = x + w
			}
			if hi > lo+gridEpsilon {
				next = append(next, skySegment{x: lo, y: seg.y, w: hi - lo})
			}
		}
	}
	next = append(next, skySegment{x: x, y: top, w: w})

	sort.Slice(next, func(i, j int) bool {
		if next[i].y != next[j].y {
			return next[i].y < next[j].y
		}
		return next[i].x < next[j].x
	})

	s.segments = mergeSegments(next, mergeTolerance)
	if len(s.segments) > maxSegments {
		s.segments = s.segments[:maxSegments]
	}
}

// mergeSegments joins contiguous segments whose heights differ by no
// more than the tolerance. Input must be sorted by (y, x).
func mergeSegments(segs []skySegment, tolerance float64) []skySegment {
	if len(segs) < 2 {
		return segs
	}
	merged := segs[:1]
	for _, seg := range segs[1:] {
		last := &merged[len(merged)-1]
		sameHeight := seg.y-last.y <= tolerance && last.y-seg.y <= tolerance
		contiguous := seg.x-(last.x+last.w) <= tolerance && seg.x-(last.x+last.w) >= -tolerance
		if sameHeight && contiguous {
			last.w = seg.x + seg.w - last.x
			continue
		}
		merged = append(merged, seg)
	}
	return merged
}

// Copy returns an independent skyline with the same contour.
func (s *Skyline) Copy() *Skyline {
	return &Skyline{segments: append([]skySegment(nil), s.segments...)}
}
