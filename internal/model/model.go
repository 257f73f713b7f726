package model

import "github.com/google/uuid"

// Grain represents the grain direction constraint for a panel.
type Grain int

const (
	GrainNone       Grain = iota // No grain constraint, can rotate freely
	GrainMatchSheet              // Grain must run the same way as the sheet grain
	GrainHorizontal              // Grain runs along the width
	GrainVertical                // Grain runs along the height
)

func (g Grain) String() string {
	switch g {
	case GrainMatchSheet:
		return "MatchSheet"
	case GrainHorizontal:
		return "Horizontal"
	case GrainVertical:
		return "Vertical"
	default:
		return "None"
	}
}

// Point2D represents a 2D coordinate in mm.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Outline represents a closed polygon as a sequence of 2D points.
// The outline is implicitly closed: the last point connects back to the first.
type Outline []Point2D

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point2D) {
	if len(o) == 0 {
		return Point2D{}, Point2D{}
	}
	min = Point2D{X: o[0].X, Y: o[0].Y}
	max = Point2D{X: o[0].X, Y: o[0].Y}
	for _, p := range o[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// Part represents a required piece to be cut.
type Part struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Width    float64 `json:"width"`  // mm (bounding box width for non-rectangular parts)
	Height   float64 `json:"height"` // mm (bounding box height for non-rectangular parts)
	Quantity int     `json:"quantity"`
	Grain    Grain   `json:"grain"`
	Outline  Outline `json:"outline,omitempty"` // Non-rectangular part outline; nil for rectangular parts
}

func NewPart(label string, w, h float64, qty int) Part {
	return Part{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Width:    w,
		Height:   h,
		Quantity: qty,
		Grain:    GrainNone,
	}
}

// StockSheet represents an available sheet of material to cut from.
type StockSheet struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Width    float64 `json:"width"`  // mm
	Height   float64 `json:"height"` // mm
	Quantity int     `json:"quantity"` // 0 means unlimited supply
	Cost     float64 `json:"cost"`     // Per-sheet cost, 0 if unknown
	Grain    Grain   `json:"grain"`    // Sheet grain direction, used for MatchSheet parts
}

func NewStockSheet(label string, w, h float64, qty int) StockSheet {
	return StockSheet{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Width:    w,
		Height:   h,
		Quantity: qty,
		Grain:    GrainHorizontal,
	}
}

// Algorithm selects the nesting algorithm.
type Algorithm string

const (
	AlgorithmMaxRects   Algorithm = "maxrects"   // Free-rectangle nesting with skyline candidates
	AlgorithmGuillotine Algorithm = "guillotine" // Beam-saw guillotine cuts only
	AlgorithmGenetic    Algorithm = "genetic"    // Genetic refinement over panel order (slowest, often best)
)

// Preset selects a speed/quality trade-off for the nesting engine.
type Preset string

const (
	PresetFast     Preset = "fast"
	PresetBalanced Preset = "balanced"
	PresetBest     Preset = "best"
)

// CutSettings holds nesting configuration.
type CutSettings struct {
	Algorithm Algorithm `json:"algorithm"`
	Preset    Preset    `json:"preset"`
	KerfWidth float64   `json:"kerf_width"` // Blade width in mm, consumed around every panel
	EdgeTrim  float64   `json:"edge_trim"`  // Trim around sheet edges in mm

	// Guillotine-specific settings
	CutPreference CutOrientation `json:"cut_preference"` // Preferred first-cut orientation
	SortOrder     SortOrder      `json:"sort_order"`     // Panel ordering for the guillotine algorithm
}

// CutOrientation is the direction of a guillotine cut.
type CutOrientation string

const (
	CutHorizontal CutOrientation = "horizontal"
	CutVertical   CutOrientation = "vertical"
)

// SortOrder is the panel ordering strategy for the guillotine algorithm.
type SortOrder string

const (
	SortLargestFirst  SortOrder = "largest_first"
	SortSmallestFirst SortOrder = "smallest_first"
	SortAreaDesc      SortOrder = "area_desc"
	SortAreaAsc       SortOrder = "area_asc"
)

func DefaultSettings() CutSettings {
	return CutSettings{
		Algorithm:     AlgorithmMaxRects,
		Preset:        PresetBalanced,
		KerfWidth:     3.2,
		EdgeTrim:      0,
		CutPreference: CutHorizontal,
		SortOrder:     SortAreaDesc,
	}
}

// Placement represents a single part placed on a stock sheet.
type Placement struct {
	Part    Part    `json:"part"`
	X       float64 `json:"x"`       // Position from left edge (mm)
	Y       float64 `json:"y"`       // Position from bottom edge (mm)
	Rotated bool    `json:"rotated"` // Whether part was rotated 90 degrees
	Angle   int     `json:"angle"`   // Rotation in degrees for non-rectangular parts (0/90/180/270)
}

// PlacedWidth returns the effective width considering rotation.
func (p Placement) PlacedWidth() float64 {
	if p.Rotated {
		return p.Part.Height
	}
	return p.Part.Width
}

// PlacedHeight returns the effective height considering rotation.
func (p Placement) PlacedHeight() float64 {
	if p.Rotated {
		return p.Part.Width
	}
	return p.Part.Height
}

// CutLine is a single guillotine cut across a sheet or sub-sheet.
type CutLine struct {
	ID          int            `json:"id"`
	Orientation CutOrientation `json:"orientation"`
	Position    float64        `json:"position"` // Y for horizontal cuts, X for vertical cuts
	Start       float64        `json:"start"`
	End         float64        `json:"end"`
	Kerf        float64        `json:"kerf"`
	SheetIndex  int            `json:"sheet_index"`
}

// SubSheet is a rectangular residual produced by guillotine cutting.
type SubSheet struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Level       int     `json:"level"`         // Cut depth that produced this residual
	ParentCutID int     `json:"parent_cut_id"` // -1 for the initial sheet
	SheetIndex  int     `json:"sheet_index"`
}

// SheetResult represents one stock sheet with its placed parts.
type SheetResult struct {
	Stock      StockSheet  `json:"stock"`
	Placements []Placement `json:"placements"`
	Cuts       []CutLine   `json:"cuts,omitempty"`      // Guillotine cut sequence, empty for free nesting
	SubSheets  []SubSheet  `json:"subsheets,omitempty"` // Unused residuals, guillotine only
}

// UsedArea returns the total area used by placed parts.
// Parts with an outline contribute their exact polygon area.
func (sr SheetResult) UsedArea() float64 {
	var total float64
	for _, p := range sr.Placements {
		if len(p.Part.Outline) >= 3 {
			total += OutlineArea(p.Part.Outline)
		} else {
			total += p.PlacedWidth() * p.PlacedHeight()
		}
	}
	return total
}

// TotalArea returns the stock sheet area.
func (sr SheetResult) TotalArea() float64 {
	return sr.Stock.Width * sr.Stock.Height
}

// Efficiency returns the usage percentage.
func (sr SheetResult) Efficiency() float64 {
	ta := sr.TotalArea()
	if ta == 0 {
		return 0
	}
	return (sr.UsedArea() / ta) * 100.0
}

// OutlineArea computes the absolute area of a polygon using the shoelace formula.
func OutlineArea(o Outline) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X * o[j].Y
		area -= o[j].X * o[i].Y
	}
	if area < 0 {
		area = -area
	}
	return area / 2
}

// NestResult holds the full solution.
type NestResult struct {
	Sheets        []SheetResult `json:"sheets"`
	UnplacedParts []Part        `json:"unplaced_parts"`
	Diagnostics   []string      `json:"diagnostics,omitempty"` // Non-fatal warnings from the nesting run
}

// TotalEfficiency returns overall material usage percentage.
func (nr NestResult) TotalEfficiency() float64 {
	var usedArea, totalArea float64
	for _, s := range nr.Sheets {
		usedArea += s.UsedArea()
		totalArea += s.TotalArea()
	}
	if totalArea == 0 {
		return 0
	}
	return (usedArea / totalArea) * 100.0
}

// Project ties everything together for save/load.
type Project struct {
	Name     string       `json:"name"`
	Parts    []Part       `json:"parts"`
	Stocks   []StockSheet `json:"stocks"`
	Settings CutSettings  `json:"settings"`
	Result   *NestResult  `json:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Parts:    []Part{},
		Stocks:   []StockSheet{},
		Settings: DefaultSettings(),
	}
}

// CanPlaceWithGrain reports which orientations of a part satisfy its
// grain constraint on the given sheet. A part whose grain matches the
// sheet grain goes in unrotated; opposing grains require rotation.
func CanPlaceWithGrain(part Part, sheet StockSheet) (normal, rotated bool) {
	grain := part.Grain
	if grain == GrainMatchSheet {
		grain = sheet.Grain
	}
	switch grain {
	case GrainNone:
		return true, true
	case GrainHorizontal:
		return sheet.Grain == GrainHorizontal || sheet.Grain == GrainNone,
			sheet.Grain == GrainVertical
	case GrainVertical:
		return sheet.Grain == GrainVertical || sheet.Grain == GrainNone,
			sheet.Grain == GrainHorizontal
	}
	return true, true
}
