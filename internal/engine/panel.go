package engine

import (
	"github.com/aly-mahmoud97/2d-Nesting/internal/geom"
	"github.com/aly-mahmoud97/2d-Nesting/internal/model"
)

// Panel is one piece to be placed. The original dimensions never change;
// W and H track the current orientation. Shape is nil for plain
// rectangles and carries the outline for irregular panels.
type Panel struct {
	ID    int
	Tag   string // Source part label or ID, carried through to results
	OrigW float64
	OrigH float64
	W     float64
	H     float64
	X     float64
	Y     float64

	Rotated       bool
	Angle         int // 0/90/180/270, only advances past 90 for polygon panels
	AllowRotation bool
	Grain         model.Grain
	Shape         geom.Shape
	Kerf          float64
}

// NewPanel creates a rectangular panel.
func NewPanel(id int, tag string, w, h, kerf float64) *Panel {
	return &Panel{
		ID:            id,
		Tag:           tag,
		OrigW:         w,
		OrigH:         h,
		W:             w,
		H:             h,
		AllowRotation: true,
		Kerf:          kerf,
	}
}

// NewShapedPanel creates a panel with an irregular outline. Dimensions
// come from the shape's bounding box.
func NewShapedPanel(id int, tag string, shape geom.Shape, kerf float64) *Panel {
	w, h := shape.Size()
	return &Panel{
		ID:            id,
		Tag:           tag,
		OrigW:         w,
		OrigH:         h,
		W:             w,
		H:             h,
		AllowRotation: true,
		Shape:         shape,
		Kerf:          kerf,
	}
}

// PlacedW returns the width the panel occupies on a sheet, kerf included.
// Recomputed on every call; the addition is cheaper than invalidating a
// cache across rotations.
func (p *Panel) PlacedW() float64 { return p.W + p.Kerf }

// PlacedH returns the occupied height, kerf included.
func (p *Panel) PlacedH() float64 { return p.H + p.Kerf }

// Area returns the exact panel area: outline area for shaped panels,
// bounding box area otherwise. Kerf is excluded.
func (p *Panel) Area() float64 {
	if p.Shape != nil {
		return p.Shape.Area()
	}
	return p.W * p.H
}

// FootprintArea returns the area the panel consumes on a sheet: exact
// outline area for shaped panels, kerf-inclusive bounding box otherwise.
func (p *Panel) FootprintArea() float64 {
	if p.Shape != nil {
		return p.Shape.Area()
	}
	return p.PlacedW() * p.PlacedH()
}

// Perimeter returns the bounding box perimeter.
func (p *Panel) Perimeter() float64 {
	return 2 * (p.W + p.H)
}

// AspectRatio returns the long side over the short side, at least 1.
func (p *Panel) AspectRatio() float64 {
	if p.W == 0 || p.H == 0 {
		return 1
	}
	if p.W > p.H {
		return p.W / p.H
	}
	return p.H / p.W
}

// Rotate turns the panel 90 degrees counter-clockwise. Four rotations
// restore the original orientation exactly, outline included.
func (p *Panel) Rotate() {
	if p.Shape != nil {
		p.Shape = p.Shape.Rotate90()
		p.W, p.H = p.Shape.Size()
	} else {
		p.W, p.H = p.H, p.W
	}
	p.Angle = (p.Angle + 90) % 360
	p.Rotated = p.Angle%180 != 0
}

// RotateTo rotates the panel until it reaches the given angle.
func (p *Panel) RotateTo(angle int) {
	for p.Angle != angle%360 {
		p.Rotate()
	}
}

// Copy returns an independent copy of the panel. Shapes are immutable,
// so sharing the Shape value is safe.
func (p *Panel) Copy() *Panel {
	c := *p
	return &c
}

// Collides reports whether this panel at (x, y) overlaps other at its
// placed position. Rectangular footprints include the kerf; shaped
// panels collide on their exact outlines.
func (p *Panel) Collides(x, y float64, other *Panel) bool {
	a := p.Shape
	if a == nil {
		a = geom.NewRect(p.PlacedW(), p.PlacedH())
	}
	b := other.Shape
	if b == nil {
		b = geom.NewRect(other.PlacedW(), other.PlacedH())
	}
	return geom.Collide(a, x, y, b, other.X, other.Y)
}
