package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/aly-mahmoud97/2d-Nesting/internal/geom"
	"github.com/aly-mahmoud97/2d-Nesting/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// edge is one loose line segment awaiting stitching into a loop.
type edge struct {
	a, b model.Point2D
}

// ImportDXF reads closed shapes out of a DXF drawing: polylines and
// circles directly, loose LINE and ARC entities stitched into loops by
// endpoint proximity. Every closed shape becomes one shaped part with
// an outline and bounding-box dimensions.
func ImportDXF(path string) ImportResult {
	var result ImportResult

	drawing, err := dxf.Open(path)
	if err != nil {
		result.errorf("cannot open drawing: %v", err)
		return result
	}
	if len(drawing.Entities()) == 0 {
		result.errorf("drawing contains no entities")
		return result
	}

	var loops []model.Outline
	var loose []edge
	for _, ent := range drawing.Entities() {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if loop := polylineLoop(e); len(loop) >= 3 {
				loops = append(loops, loop)
			} else {
				result.warnf("skipped a polyline with fewer than 3 vertices")
			}
		case *entity.Circle:
			loops = append(loops, circleLoop(e, 64))
		case *entity.Arc:
			loose = append(loose, edgesAlong(arcPoints(e, 32))...)
		case *entity.Line:
			loose = append(loose, edge{
				a: model.Point2D{X: e.Start[0], Y: e.Start[1]},
				b: model.Point2D{X: e.End[0], Y: e.End[1]},
			})
		default:
			// Text, dimensions and other annotations carry no geometry
		}
	}
	loops = append(loops, stitchLoops(loose, 0.01)...)

	if len(loops) == 0 {
		result.errorf("no closed shapes in drawing")
		return result
	}

	for i, loop := range loops {
		part, ok := shapedPart(loop, i+1)
		if !ok {
			result.warnf("skipped a degenerate shape")
			continue
		}
		result.Parts = append(result.Parts, part)
	}
	return result
}

// shapedPart converts one closed loop into a Part. The outline is
// shifted to the origin and thinned: arc sampling can produce hundreds
// of points and the nesting collision test only needs a coarse contour.
func shapedPart(loop model.Outline, n int) (model.Part, bool) {
	min, _ := loop.BoundingBox()
	outline := geom.Discretize(loop.Translate(-min.X, -min.Y), 200)
	_, max := outline.BoundingBox()
	if max.X < 0.01 || max.Y < 0.01 {
		return model.Part{}, false
	}
	part := model.NewPart(fmt.Sprintf("DXF Part %d", n), max.X, max.Y, 1)
	part.Outline = outline
	return part, true
}

// polylineLoop expands an LWPOLYLINE into outline points, sampling
// bulged segments as arcs.
func polylineLoop(lw *entity.LwPolyline) model.Outline {
	var loop model.Outline
	for i, v := range lw.Vertices {
		at := model.Point2D{X: v[0], Y: v[1]}
		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		if math.Abs(bulge) <= 1e-9 {
			loop = append(loop, at)
			continue
		}
		next := lw.Vertices[(i+1)%len(lw.Vertices)]
		arc := bulgePoints(at, model.Point2D{X: next[0], Y: next[1]}, bulge, 32)
		// The closing vertex arrives on the next iteration
		loop = append(loop, arc[:len(arc)-1]...)
	}
	return loop
}

// bulgePoints samples the arc a bulged polyline segment describes. The
// bulge is tan(sweep/4), signed positive for counter-clockwise travel.
func bulgePoints(a, b model.Point2D, bulge float64, steps int) model.Outline {
	dx, dy := b.X-a.X, b.Y-a.Y
	chord := math.Hypot(dx, dy)
	if chord < 1e-9 {
		return model.Outline{a, b}
	}

	sweep := 4 * math.Atan(bulge)
	radius := chord / (2 * math.Sin(math.Abs(sweep)/2))
	// Center distance along the chord's perpendicular bisector; the
	// sign flips with sweep direction and goes to zero for semicircles
	offset := chord / (2 * math.Tan(sweep/2))
	cx := (a.X+b.X)/2 - offset*dy/chord
	cy := (a.Y+b.Y)/2 + offset*dx/chord

	start := math.Atan2(a.Y-cy, a.X-cx)
	pts := make(model.Outline, 0, steps+1)
	for i := 0; i <= steps; i++ {
		angle := start + sweep*float64(i)/float64(steps)
		pts = append(pts, model.Point2D{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		})
	}
	return pts
}

// circleLoop samples a circle as a regular polygon.
func circleLoop(c *entity.Circle, steps int) model.Outline {
	loop := make(model.Outline, steps)
	for i := range loop {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		loop[i] = model.Point2D{
			X: c.Center[0] + c.Radius*math.Cos(angle),
			Y: c.Center[1] + c.Radius*math.Sin(angle),
		}
	}
	return loop
}

// arcPoints samples an ARC entity counter-clockwise from its start to
// its end angle.
func arcPoints(a *entity.Arc, steps int) []model.Point2D {
	from := a.Angle[0] * math.Pi / 180
	to := a.Angle[1] * math.Pi / 180
	if to <= from {
		to += 2 * math.Pi
	}

	pts := make([]model.Point2D, steps+1)
	for i := range pts {
		angle := from + (to-from)*float64(i)/float64(steps)
		pts[i] = model.Point2D{
			X: a.Circle.Center[0] + a.Circle.Radius*math.Cos(angle),
			Y: a.Circle.Center[1] + a.Circle.Radius*math.Sin(angle),
		}
	}
	return pts
}

// edgesAlong links consecutive sampled points into edges.
func edgesAlong(pts []model.Point2D) []edge {
	edges := make([]edge, 0, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		edges = append(edges, edge{a: pts[i-1], b: pts[i]})
	}
	return edges
}

// stitchLoops joins loose edges into closed loops by walking endpoint
// matches within tol, consuming each edge once. Chains that never close
// are dropped: an open contour cannot be cut as a part. Loops come back
// largest first so part numbering is stable.
func stitchLoops(edges []edge, tol float64) []model.Outline {
	remaining := append([]edge(nil), edges...)
	var loops []model.Outline

	for len(remaining) > 0 {
		chain := model.Outline{remaining[0].a, remaining[0].b}
		remaining = remaining[1:]

		for extended := true; extended; {
			extended = false
			tip := chain[len(chain)-1]
			for i, e := range remaining {
				switch {
				case near(tip, e.a, tol):
					chain = append(chain, e.b)
				case near(tip, e.b, tol):
					chain = append(chain, e.a)
				default:
					continue
				}
				remaining = append(remaining[:i], remaining[i+1:]...)
				extended = true
				break
			}
		}

		if len(chain) >= 4 && near(chain[0], chain[len(chain)-1], tol) {
			loops = append(loops, chain[:len(chain)-1])
		}
	}

	sort.Slice(loops, func(i, j int) bool {
		return loopArea(loops[i]) > loopArea(loops[j])
	})
	return loops
}

func near(a, b model.Point2D, tol float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tol
}

// loopArea is the shoelace area of a closed loop.
func loopArea(o model.Outline) float64 {
	if len(o) < 3 {
		return 0
	}
	var twice float64
	for i := range o {
		j := (i + 1) % len(o)
		twice += o[i].X*o[j].Y - o[j].X*o[i].Y
	}
	return math.Abs(twice) / 2
}
