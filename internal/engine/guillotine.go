package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/aly-mahmoud97/2d-Nesting/internal/model"
)

const cutEpsilon = 1e-6

// GuillotineSheet is one stock sheet cut with full-length guillotine
// cuts only, the way a beam saw works. Every cut splits a sub-sheet in
// two; panels always sit at a sub-sheet origin.
type GuillotineSheet struct {
	W, H       float64
	Index      int // Position of this sheet in the result
	StockIndex int
	Grain      model.Grain

	Placed     []*Panel
	Cuts       []model.CutLine
	SubSheets  []model.SubSheet // Open sub-sheets still accepting panels
	FilledArea float64
}

// Efficiency returns the filled fraction of the sheet, 0..1.
func (g *GuillotineSheet) Efficiency() float64 {
	if g.W*g.H == 0 {
		return 0
	}
	return g.FilledArea / (g.W * g.H)
}

// GuillotineResult is the outcome of a guillotine nesting run.
type GuillotineResult struct {
	Sheets      []*GuillotineSheet
	Unplaced    []*Panel
	Diagnostics []string
}

// TotalEfficiency returns the filled fraction across all sheets, 0..1.
func (r *GuillotineResult) TotalEfficiency() float64 {
	var filled, total float64
	for _, s := range r.Sheets {
		filled += s.FilledArea
		total += s.W * s.H
	}
	if total == 0 {
		return 0
	}
	return filled / total
}

// GuillotineNester places panels with guillotine cuts only. Shaped
// panels are treated as their bounding boxes; a beam saw cannot follow
// an outline anyway.
type GuillotineNester struct {
	kerf       float64
	preference model.CutOrientation
	sortOrder  model.SortOrder

	nextCutID int
	sheetIdx  int
}

func NewGuillotineNester(kerf float64, preference model.CutOrientation, sortOrder model.SortOrder) *GuillotineNester {
	return &GuillotineNester{kerf: kerf, preference: preference, sortOrder: sortOrder}
}

// Nest places the panels onto guillotine-cut sheets. Panels that fit no
// stock are reported in the result, not as an error.
func (g *GuillotineNester) Nest(panels []*Panel, stocks []model.StockSheet) (*GuillotineResult, error) {
	if err := validate(panels, stocks, g.kerf); err != nil {
		return nil, err
	}

	remaining := make([]*Panel, len(panels))
	copy(remaining, panels)
	sortForGuillotine(remaining, g.sortOrder)

	result := &GuillotineResult{}
	stockUsed := make([]int, len(stocks))

	for _, p := range remaining {
		placed := g.placeOnOpenSheet(p, result.Sheets)
		if placed {
			continue
		}
		sheet, ok := g.openSheet(p, stocks, stockUsed)
		if !ok {
			result.Diagnostics = append(result.Diagnostics,
				fmt.Sprintf("panel %q (%.1fx%.1f) does not fit any stock sheet", p.Tag, p.W, p.H))
			result.Unplaced = append(result.Unplaced, p)
			continue
		}
		result.Sheets = append(result.Sheets, sheet)
		if !g.placeOnSheet(p, sheet) {
			// Cannot happen: openSheet verified the fit
			result.Unplaced = append(result.Unplaced, p)
		}
	}

	return result, nil
}

// placeOnOpenSheet tries every open sub-sheet across the open sheets,
// smallest area first, and places the panel in the first that fits.
func (g *GuillotineNester) placeOnOpenSheet(p *Panel, sheets []*GuillotineSheet) bool {
	for _, sheet := range sheets {
		if g.placeOnSheet(p, sheet) {
			return true
		}
	}
	return false
}

func (g *GuillotineNester) placeOnSheet(p *Panel, sheet *GuillotineSheet) bool {
	// Smallest sub-sheet first keeps big residuals open for big panels
	order := make([]int, len(sheet.SubSheets))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		sa := sheet.SubSheets[order[a]]
		sb := sheet.SubSheets[order[b]]
		return sa.Width*sa.Height < sb.Width*sb.Height
	})

	for _, idx := range order {
		ss := sheet.SubSheets[idx]
		w, h, ok := g.fitOrientation(p, ss, sheet.Grain)
		if !ok {
			continue
		}
		g.commit(p, sheet, idx, w, h)
		return true
	}
	return false
}

// fitOrientation picks the first orientation of the panel that fits the
// sub-sheet and passes grain validation. Grain is judged on the placed
// orientation: a piece lying wider than tall carries horizontal grain.
func (g *GuillotineNester) fitOrientation(p *Panel, ss model.SubSheet, sheetGrain model.Grain) (w, h float64, ok bool) {
	try := func(w, h float64) bool {
		if w+g.kerf > ss.Width+cutEpsilon || h+g.kerf > ss.Height+cutEpsilon {
			// A panel flush with the sub-sheet edge needs no kerf there
			if w > ss.Width+cutEpsilon || h > ss.Height+cutEpsilon {
				return false
			}
		}
		return guillotineGrainOK(w, h, p.Grain, sheetGrain)
	}
	if try(p.OrigW, p.OrigH) {
		return p.OrigW, p.OrigH, true
	}
	if p.AllowRotation && try(p.OrigH, p.OrigW) {
		return p.OrigH, p.OrigW, true
	}
	return 0, 0, false
}

func guillotineGrainOK(w, h float64, panelGrain, sheetGrain model.Grain) bool {
	if panelGrain == model.GrainNone {
		return true
	}
	effective := model.GrainHorizontal
	if h > w {
		effective = model.GrainVertical
	}
	switch panelGrain {
	case model.GrainMatchSheet:
		return sheetGrain == model.GrainNone || effective == sheetGrain
	case model.GrainHorizontal:
		return effective == model.GrainHorizontal
	case model.GrainVertical:
		return effective == model.GrainVertical
	}
	return true
}

// commit places the panel at the sub-sheet origin, emits the one or two
// cuts separating it from the residuals and replaces the sub-sheet with
// the residuals.
func (g *GuillotineNester) commit(p *Panel, sheet *GuillotineSheet, idx int, w, h float64) {
	ss := sheet.SubSheets[idx]

	if w != p.W {
		p.Rotate()
	}
	p.X, p.Y = ss.X, ss.Y
	sheet.Placed = append(sheet.Placed, p)
	sheet.FilledArea += w * h

	rw := ss.Width - w
	rh := ss.Height - h

	// Cut the larger residual dimension first so the bigger offcut stays
	// in one piece. Equal residuals follow the configured preference.
	horizontalFirst := g.preference == model.CutHorizontal
	if math.Abs(rw-rh) > cutEpsilon {
		horizontalFirst = rh > rw
	}

	var residuals []model.SubSheet
	if horizontalFirst {
		if rh > cutEpsilon {
			cut := g.newCut(model.CutHorizontal, ss.Y+h, ss.X, ss.X+ss.Width, sheet)
			residuals = append(residuals, model.SubSheet{
				X: ss.X, Y: ss.Y + h + g.kerf,
				Width: ss.Width, Height: rh - g.kerf,
				Level: ss.Level + 1, ParentCutID: cut.ID, SheetIndex: ss.SheetIndex,
			})
		}
		if rw > cutEpsilon {
			cut := g.newCut(model.CutVertical, ss.X+w, ss.Y, ss.Y+h, sheet)
			residuals = append(residuals, model.SubSheet{
				X: ss.X + w + g.kerf, Y: ss.Y,
				Width: rw - g.kerf, Height: h,
				Level: ss.Level + 1, ParentCutID: cut.ID, SheetIndex: ss.SheetIndex,
			})
		}
	} else {
		if rw > cutEpsilon {
			cut := g.newCut(model.CutVertical, ss.X+w, ss.Y, ss.Y+ss.Height, sheet)
			residuals = append(residuals, model.SubSheet{
				X: ss.X + w + g.kerf, Y: ss.Y,
				Width: rw - g.kerf, Height: ss.Height,
				Level: ss.Level + 1, ParentCutID: cut.ID, SheetIndex: ss.SheetIndex,
			})
		}
		if rh > cutEpsilon {
			cut := g.newCut(model.CutHorizontal, ss.Y+h, ss.X, ss.X+w, sheet)
			residuals = append(residuals, model.SubSheet{
				X: ss.X, Y: ss.Y + h + g.kerf,
				Width: w, Height: rh - g.kerf,
				Level: ss.Level + 1, ParentCutID: cut.ID, SheetIndex: ss.SheetIndex,
			})
		}
	}

	// Drop residuals that the kerf consumed entirely
	kept := residuals[:0]
	for _, r := range residuals {
		if r.Width > cutEpsilon && r.Height > cutEpsilon {
			kept = append(kept, r)
		}
	}

	sheet.SubSheets = append(sheet.SubSheets[:idx], sheet.SubSheets[idx+1:]...)
	sheet.SubSheets = append(sheet.SubSheets, kept...)
}

func (g *GuillotineNester) newCut(orientation model.CutOrientation, position, start, end float64, sheet *GuillotineSheet) model.CutLine {
	g.nextCutID++
	cut := model.CutLine{
		ID:          g.nextCutID,
		Orientation: orientation,
		Position:    position,
		Start:       start,
		End:         end,
		Kerf:        g.kerf,
		SheetIndex:  sheet.Index,
	}
	sheet.Cuts = append(sheet.Cuts, cut)
	return cut
}

// openSheet opens the smallest available stock that holds the panel.
func (g *GuillotineNester) openSheet(p *Panel, stocks []model.StockSheet, used []int) (*GuillotineSheet, bool) {
	bestIdx := -1
	for i, stock := range stocks {
		if stock.Quantity > 0 && used[i] >= stock.Quantity {
			continue
		}
		fitsNormal := p.OrigW <= stock.Width+cutEpsilon && p.OrigH <= stock.Height+cutEpsilon &&
			guillotineGrainOK(p.OrigW, p.OrigH, p.Grain, stock.Grain)
		fitsRotated := p.AllowRotation &&
			p.OrigH <= stock.Width+cutEpsilon && p.OrigW <= stock.Height+cutEpsilon &&
			guillotineGrainOK(p.OrigH, p.OrigW, p.Grain, stock.Grain)
		if !fitsNormal && !fitsRotated {
			continue
		}
		if bestIdx < 0 || stock.Width*stock.Height < stocks[bestIdx].Width*stocks[bestIdx].Height {
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return nil, false
	}
	stock := stocks[bestIdx]
	used[bestIdx]++
	sheet := &GuillotineSheet{
		W:          stock.Width,
		H:          stock.Height,
		Index:      g.sheetIdx,
		StockIndex: bestIdx,
		Grain:      stock.Grain,
		SubSheets: []model.SubSheet{{
			Width: stock.Width, Height: stock.Height,
			ParentCutID: -1, SheetIndex: g.sheetIdx,
		}},
	}
	g.sheetIdx++
	return sheet, true
}

// sortForGuillotine orders panels for the beam saw pass.
func sortForGuillotine(panels []*Panel, order model.SortOrder) {
	maxDim := func(p *Panel) float64 { return math.Max(p.W, p.H) }
	switch order {
	case model.SortSmallestFirst:
		sort.SliceStable(panels, func(i, j int) bool { return maxDim(panels[i]) < maxDim(panels[j]) })
	case model.SortAreaAsc:
		sort.SliceStable(panels, func(i, j int) bool { return panels[i].W*panels[i].H < panels[j].W*panels[j].H })
	case model.SortAreaDesc:
		sort.SliceStable(panels, func(i, j int) bool { return panels[i].W*panels[i].H > panels[j].W*panels[j].H })
	default: // largest first
		sort.SliceStable(panels, func(i, j int) bool { return maxDim(panels[i]) > maxDim(panels[j]) })
	}
}
