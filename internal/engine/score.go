package engine

import "math"

// edgeEpsilon is the touch tolerance for edge and adjacency bonuses.
const edgeEpsilon = 0.1

// positionScore ranks a candidate position; lower is better. The
// leftover metrics describe the free rectangle the panel would land in.
func positionScore(h Heuristic, x, y, shortLeftover, longLeftover, areaLeftover float64) float64 {
	switch h {
	case HeuristicBestShortSide:
		return shortLeftover*10000 + y*100 + x
	case HeuristicBestLongSide:
		return longLeftover*10000 + y*100 + x
	case HeuristicBestArea:
		return areaLeftover*100 + y*10 + x
	case HeuristicComposite:
		return shortLeftover*1.0 + longLeftover*0.5 + areaLeftover*0.001 + y*0.1 + x*0.01
	default: // bottom-left
		return y*10000 + x
	}
}

// placementScore is the composite final score for placing panel p at
// (x, y); lower is better. Bottom-left bias plus wasted free space,
// minus bonuses for hugging sheet edges and already-placed neighbors.
func (s *Sheet) placementScore(p *Panel, x, y float64) float64 {
	score := y*100 + x + s.wasteAt(p, x, y)*0.5

	pw, ph := p.PlacedW(), p.PlacedH()
	if x < edgeEpsilon {
		score -= 20
	}
	if y < edgeEpsilon {
		score -= 20
	}
	if x+pw > s.W-edgeEpsilon {
		score -= 10
	}
	if y+ph > s.H-edgeEpsilon {
		score -= 10
	}

	score -= 15 * float64(s.adjacentCount(p, x, y))
	return score
}

// wasteAt estimates the leftover area of the smallest free rectangle
// that could hold the panel at the given position.
func (s *Sheet) wasteAt(p *Panel, x, y float64) float64 {
	pw, ph := p.PlacedW(), p.PlacedH()
	best := math.Inf(1)
	for _, r := range s.free.Rects() {
		if x < r.x-gridEpsilon || y < r.y-gridEpsilon {
			continue
		}
		if x+pw > r.x+r.w+gridEpsilon || y+ph > r.y+r.h+gridEpsilon {
			continue
		}
		if r.area() < best {
			best = r.area()
		}
	}
	if math.IsInf(best, 1) {
		return 0
	}
	waste := best - pw*ph
	if waste < 0 {
		waste = 0
	}
	return waste
}

// adjacentCount counts placed panels sharing an edge with the footprint
// at (x, y), within the touch tolerance.
func (s *Sheet) adjacentCount(p *Panel, x, y float64) int {
	pw, ph := p.PlacedW(), p.PlacedH()
	count := 0
	for _, idx := range s.grid.Query(x-1, y-1, pw+2, ph+2) {
		q := s.Placed[idx]
		qw, qh := q.PlacedW(), q.PlacedH()

		touchX := math.Abs(x+pw-q.X) < edgeEpsilon || math.Abs(q.X+qw-x) < edgeEpsilon
		overlapY := y < q.Y+qh && q.Y < y+ph
		if touchX && overlapY {
			count++
			continue
		}

		touchY := math.Abs(y+ph-q.Y) < edgeEpsilon || math.Abs(q.Y+qh-y) < edgeEpsilon
		overlapX := x < q.X+qw && q.X < x+pw
		if touchY && overlapX {
			count++
		}
	}
	return count
}
