// Package geom provides the shape abstraction used by the nesting engine.
// Rectangular panels carry no outline and collide via bounding boxes;
// polygon panels carry a normalized outline and collide exactly.
package geom

import (
	"math"

	"github.com/aly-mahmoud97/2d-Nesting/internal/model"
)

// Shape is a placeable 2D shape. Implementations are immutable: Rotate90
// returns a new shape and never mutates the receiver.
type Shape interface {
	// Size returns the bounding box dimensions.
	Size() (w, h float64)
	// Area returns the exact area (bounding box area for rectangles,
	// polygon area for outlines).
	Area() float64
	// Rotate90 returns the shape rotated 90 degrees counter-clockwise,
	// renormalized so the bounding box minimum sits at the origin.
	Rotate90() Shape
	// Outline returns the polygon outline, or nil for pure rectangles.
	Outline() model.Outline
}

// Rect is a rectangular shape.
type Rect struct {
	W, H float64
}

func NewRect(w, h float64) Rect {
	return Rect{W: w, H: h}
}

func (r Rect) Size() (float64, float64) { return r.W, r.H }

func (r Rect) Area() float64 { return r.W * r.H }

func (r Rect) Rotate90() Shape { return Rect{W: r.H, H: r.W} }

func (r Rect) Outline() model.Outline { return nil }

// Polygon is a closed polygon shape normalized so its bounding box
// minimum is at the origin.
type Polygon struct {
	pts  model.Outline
	w, h float64
	area float64
}

// NewPolygon builds a Polygon from an outline, translating it so the
// bounding box minimum is at (0, 0).
func NewPolygon(outline model.Outline) Polygon {
	min, max := outline.BoundingBox()
	pts := outline.Translate(-min.X, -min.Y)
	return Polygon{
		pts:  pts,
		w:    max.X - min.X,
		h:    max.Y - min.Y,
		area: model.OutlineArea(pts),
	}
}

func (p Polygon) Size() (float64, float64) { return p.w, p.h }

func (p Polygon) Area() float64 { return p.area }

func (p Polygon) Rotate90() Shape {
	rotated := make(model.Outline, len(p.pts))
	for i, pt := range p.pts {
		rotated[i] = model.Point2D{X: -pt.Y, Y: pt.X}
	}
	return NewPolygon(rotated)
}

func (p Polygon) Outline() model.Outline { return p.pts }

// Collide reports whether shape a placed at (ax, ay) overlaps shape b
// placed at (bx, by). The bounding box test runs first; the exact
// polygon test only runs when both boxes overlap and at least one shape
// has an outline.
func Collide(a Shape, ax, ay float64, b Shape, bx, by float64) bool {
	aw, ah := a.Size()
	bw, bh := b.Size()
	if ax >= bx+bw || bx >= ax+aw || ay >= by+bh || by >= ay+ah {
		return false
	}
	ao := a.Outline()
	bo := b.Outline()
	if ao == nil && bo == nil {
		return true
	}
	if ao == nil {
		ao = rectOutline(aw, ah)
	}
	if bo == nil {
		bo = rectOutline(bw, bh)
	}
	return outlinesOverlap(ao.Translate(ax, ay), bo.Translate(bx, by))
}

func rectOutline(w, h float64) model.Outline {
	return model.Outline{
		{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h},
	}
}

// outlinesOverlap approximates polygon intersection: it tests a handful
// of vertices of each polygon for containment in the other, then a
// sampled subset of edge pairs for crossings. Exhaustive edge testing is
// not needed at nesting tolerances.
func outlinesOverlap(a, b model.Outline) bool {
	for i := 0; i < len(a) && i < 5; i++ {
		if pointInPolygon(a[i], b) {
			return true
		}
	}
	for i := 0; i < len(b) && i < 5; i++ {
		if pointInPolygon(b[i], a) {
			return true
		}
	}

	stepA := len(a) / 20
	if stepA < 1 {
		stepA = 1
	}
	stepB := len(b) / 20
	if stepB < 1 {
		stepB = 1
	}
	for i := 0; i < len(a); i += stepA {
		a1 := a[i]
		a2 := a[(i+1)%len(a)]
		for j := 0; j < len(b); j += stepB {
			b1 := b[j]
			b2 := b[(j+1)%len(b)]
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

// pointInPolygon uses ray casting.
func pointInPolygon(pt model.Point2D, poly model.Outline) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		pi, pj := poly[i], poly[j]
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) {
			slope := (pj.X - pi.X) / (pj.Y - pi.Y)
			if pt.X < pi.X+slope*(pt.Y-pi.Y) {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

func ccw(a, b, c model.Point2D) bool {
	return (c.Y-a.Y)*(b.X-a.X) > (b.Y-a.Y)*(c.X-a.X)
}

func segmentsIntersect(a1, a2, b1, b2 model.Point2D) bool {
	return ccw(a1, b1, b2) != ccw(a2, b1, b2) && ccw(a1, a2, b1) != ccw(a1, a2, b2)
}

// Discretize resamples an outline to at most maxPoints vertices,
// keeping endpoints of long runs. Imported outlines can carry hundreds
// of arc-interpolation points that only slow collision checks down.
func Discretize(outline model.Outline, maxPoints int) model.Outline {
	if len(outline) <= maxPoints || maxPoints < 3 {
		return outline
	}
	step := float64(len(outline)) / float64(maxPoints)
	result := make(model.Outline, 0, maxPoints)
	for i := 0; i < maxPoints; i++ {
		idx := int(math.Floor(float64(i) * step))
		result = append(result, outline[idx])
	}
	return result
}
