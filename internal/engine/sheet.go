package engine

import (
	"sort"

	"github.com/aly-mahmoud97/2d-Nesting/internal/model"
)

// Sheet is one open stock sheet being filled. It keeps three coupled
// indexes over the placed panels: the spatial grid for collision
// queries, the free-rectangle index and the skyline for candidate
// generation.
type Sheet struct {
	W, H       float64
	Kerf       float64
	Grain      model.Grain
	StockIndex int // Index into the stock list this sheet was cut from

	Placed     []*Panel
	FilledArea float64

	grid *SpatialGrid
	free *FreeSpaceIndex
	sky  *Skyline
	cfg  *Config
}

// NewSheet opens a sheet of the given size. avgPanelSize tunes the
// spatial grid resolution.
func NewSheet(w, h, kerf, avgPanelSize float64, grain model.Grain, stockIndex int, cfg *Config) *Sheet {
	return &Sheet{
		W:          w,
		H:          h,
		Kerf:       kerf,
		Grain:      grain,
		StockIndex: stockIndex,
		grid:       NewSpatialGrid(w, h, avgPanelSize, cfg),
		free:       NewFreeSpaceIndex(w, h),
		sky:        NewSkyline(w),
		cfg:        cfg,
	}
}

// Fits reports whether the panel can sit at (x, y) without leaving the
// sheet or overlapping a placed panel. The bounding box check runs
// against the spatial grid; exact outlines are only consulted when a
// shaped panel is involved.
func (s *Sheet) Fits(p *Panel, x, y float64) bool {
	if x < -gridEpsilon || y < -gridEpsilon {
		return false
	}
	pw, ph := p.PlacedW(), p.PlacedH()
	if x+pw > s.W+gridEpsilon || y+ph > s.H+gridEpsilon {
		return false
	}
	for _, idx := range s.grid.Query(x, y, pw, ph) {
		if p.Collides(x, y, s.Placed[idx]) {
			return false
		}
	}
	return true
}

// Place commits the panel at (x, y) and updates all indexes. The caller
// must have verified Fits.
func (s *Sheet) Place(p *Panel, x, y float64) {
	p.X, p.Y = x, y
	idx := len(s.Placed)
	s.Placed = append(s.Placed, p)

	pw, ph := p.PlacedW(), p.PlacedH()
	s.grid.Insert(idx, x, y, pw, ph)
	s.free.Place(x, y, pw, ph)
	s.sky.Update(x, y, pw, ph, s.cfg.SkylineMergeTolerance, s.cfg.MaxSkylineSegments)
	s.FilledArea += p.FootprintArea()
}

// Efficiency returns the filled fraction of the sheet, 0..1. Filled
// area counts kerf-inclusive footprints (exact outline area for shaped
// panels), so the full threshold reflects what the saw actually consumes.
func (s *Sheet) Efficiency() float64 {
	total := s.W * s.H
	if total == 0 {
		return 0
	}
	return s.FilledArea / total
}

type candidate struct {
	x, y  float64
	score float64
}

// candidatePositions generates scored candidate positions for the panel
// in its current orientation: skyline positions first, then free
// rectangles and placed-panel corners, deduplicated and capped.
func (s *Sheet) candidatePositions(p *Panel) []candidate {
	pw, ph := p.PlacedW(), p.PlacedH()
	seen := make(map[[2]int]struct{})
	var priority, rest []candidate

	add := func(list []candidate, x, y float64) []candidate {
		if x < 0 || y < 0 || x+pw > s.W+gridEpsilon || y+ph > s.H+gridEpsilon {
			return list
		}
		// Quantize to 0.01mm for dedup
		key := [2]int{int(x*100 + 0.5), int(y*100 + 0.5)}
		if _, ok := seen[key]; ok {
			return list
		}
		seen[key] = struct{}{}
		return append(list, candidate{x: x, y: y})
	}

	// Skyline positions come first: lowest segments, left- and
	// right-aligned when the segment is wider than the panel.
	for i, seg := range s.sky.Segments() {
		if i >= s.cfg.PriorityCandidates {
			break
		}
		priority = add(priority, seg.x, seg.y)
		if seg.w > pw {
			priority = add(priority, seg.x+seg.w-pw, seg.y)
		}
	}

	// Free rectangle origins, scored by the configured heuristic.
	for _, r := range s.free.Rects() {
		if r.w+gridEpsilon < pw || r.h+gridEpsilon < ph {
			continue
		}
		rest = add(rest, r.x, r.y)
	}

	// Corners of placed panels: right edge and top edge.
	for _, q := range s.Placed {
		rest = add(rest, q.X+q.PlacedW(), q.Y)
		rest = add(rest, q.X, q.Y+q.PlacedH())
	}

	all := append(priority, rest...)
	for i := range all {
		c := &all[i]
		shortL, longL, areaL := s.leftoverAt(c.x, c.y, pw, ph)
		c.score = positionScore(s.cfg.Heuristic, c.x, c.y, shortL, longL, areaL)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].score < all[j].score })

	return downsampleCandidates(all, s.cfg.MaxCandidates)
}

// downsampleCandidates bounds a sorted candidate list: the best-scoring
// head is kept whole, the rest is thinned with an even stride so
// positions deep in the list still get a chance instead of being cut
// off wholesale.
func downsampleCandidates(all []candidate, max int) []candidate {
	if len(all) <= max {
		return all
	}
	head := max * 2 / 3
	if head < 1 {
		head = 1
	}
	kept := all[:head:head]
	rest := all[head:]
	slots := max - head
	stride := len(rest) / slots
	if stride < 1 {
		stride = 1
	}
	for i := 0; i < len(rest) && len(kept) < max; i += stride {
		kept = append(kept, rest[i])
	}
	return kept
}

// leftoverAt returns the short-side, long-side and area leftover of the
// smallest free rectangle holding a pw x ph footprint at (x, y).
func (s *Sheet) leftoverAt(x, y, pw, ph float64) (shortL, longL, areaL float64) {
	found := false
	for _, r := range s.free.Rects() {
		if x < r.x-gridEpsilon || y < r.y-gridEpsilon {
			continue
		}
		if x+pw > r.x+r.w+gridEpsilon || y+ph > r.y+r.h+gridEpsilon {
			continue
		}
		dw := r.w - pw
		dh := r.h - ph
		sl, ll := dw, dh
		if sl > ll {
			sl, ll = ll, sl
		}
		al := r.area() - pw*ph
		if !found || al < areaL {
			shortL, longL, areaL = sl, ll, al
			found = true
		}
	}
	return shortL, longL, areaL
}

// Position is a chosen placement for a panel.
type Position struct {
	X, Y  float64
	Angle int // Target rotation angle for the panel
	Score float64
}

// FindBestPosition searches candidate positions across the allowed
// orientations and returns the best-scoring placement. The panel is
// left in its original orientation; the caller applies Position.Angle.
func (s *Sheet) FindBestPosition(p *Panel) (Position, bool) {
	startAngle := p.Angle
	angles := s.allowedAngles(p)

	// Candidates are generated once in the current orientation; every
	// allowed orientation is then tried at each position.
	cands := s.candidatePositions(p)

	best := Position{Score: 0}
	found := false
	for _, c := range cands {
		for _, angle := range angles {
			p.RotateTo(angle)
			if !s.Fits(p, c.x, c.y) {
				continue
			}
			var score float64
			if s.cfg.MultiHeuristic {
				score = s.placementScore(p, c.x, c.y)
			} else {
				score = positionScore(s.cfg.Heuristic, c.x, c.y, 0, 0, 0)
			}
			if !found || score < best.Score {
				best = Position{X: c.x, Y: c.y, Angle: angle, Score: score}
				found = true
			}
		}
	}
	p.RotateTo(startAngle)
	return best, found
}

// allowedAngles lists the rotation angles the panel may take on this
// sheet, honoring rotation and grain constraints. Shaped panels try all
// four angles; rectangles only need two.
func (s *Sheet) allowedAngles(p *Panel) []int {
	normal, rotated := grainAllows(p.Grain, s.Grain)
	if !p.AllowRotation {
		rotated = false
	}

	var angles []int
	if p.Shape != nil {
		if normal {
			angles = append(angles, 0, 180)
		}
		if rotated {
			angles = append(angles, 90, 270)
		}
		return angles
	}
	if normal {
		angles = append(angles, 0)
	}
	if rotated {
		angles = append(angles, 90)
	}
	return angles
}

// grainAllows mirrors model.CanPlaceWithGrain for engine-level grain values.
func grainAllows(panelGrain, sheetGrain model.Grain) (normal, rotated bool) {
	part := model.Part{Grain: panelGrain}
	sheet := model.StockSheet{Grain: sheetGrain}
	return model.CanPlaceWithGrain(part, sheet)
}

// TryAdd finds the best position for the panel and places it. Returns
// false when the panel fits nowhere on this sheet.
func (s *Sheet) TryAdd(p *Panel) bool {
	pos, ok := s.FindBestPosition(p)
	if !ok {
		return false
	}
	p.RotateTo(pos.Angle)
	s.Place(p, pos.X, pos.Y)
	return true
}

// Copy returns an independent deep copy for trial packing. Placed
// panels are copied so trial rotations never leak into the original.
func (s *Sheet) Copy() *Sheet {
	c := *s
	c.Placed = make([]*Panel, len(s.Placed))
	for i, p := range s.Placed {
		c.Placed[i] = p.Copy()
	}
	c.grid = s.grid.Copy()
	c.free = s.free.Copy()
	c.sky = s.sky.Copy()
	return &c
}
