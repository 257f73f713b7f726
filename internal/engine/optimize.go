package engine

import (
	"github.com/aly-mahmoud97/2d-Nesting/internal/geom"
	"github.com/aly-mahmoud97/2d-Nesting/internal/model"
)

// Optimize is the model-level entry point. It expands part quantities
// into panels, runs the configured algorithm and maps the outcome back
// to part IDs. Edge trim shrinks the usable sheet; placements are
// shifted back by the trim in the result.
func Optimize(parts []model.Part, stocks []model.StockSheet, settings model.CutSettings) (model.NestResult, error) {
	panels, byID := expandParts(parts, settings.KerfWidth)
	trimmed := trimStocks(stocks, settings.EdgeTrim)

	switch settings.Algorithm {
	case model.AlgorithmGuillotine:
		gn := NewGuillotineNester(settings.KerfWidth, settings.CutPreference, settings.SortOrder)
		res, err := gn.Nest(panels, trimmed)
		if err != nil {
			return model.NestResult{}, err
		}
		return convertGuillotine(res, stocks, byID, settings.EdgeTrim), nil
	case model.AlgorithmGenetic:
		return OptimizeGenetic(parts, stocks, settings)
	default:
		cfg := ConfigForPreset(settings.Preset)
		n := NewNester(cfg, settings.KerfWidth)
		res, err := n.Nest(panels, trimmed)
		if err != nil {
			return model.NestResult{}, err
		}
		if cfg.GeneticRefinement {
			res = RefineWithGenetic(res, panels, trimmed, settings)
		}
		return convertFree(res, stocks, byID, settings.EdgeTrim), nil
	}
}

// expandParts turns each part into Quantity panels with sequential IDs.
func expandParts(parts []model.Part, kerf float64) ([]*Panel, map[int]model.Part) {
	var panels []*Panel
	byID := make(map[int]model.Part)
	id := 0
	for _, part := range parts {
		qty := part.Quantity
		if qty < 1 {
			qty = 1
		}
		for i := 0; i < qty; i++ {
			single := part
			single.Quantity = 1
			var p *Panel
			if len(part.Outline) >= 3 {
				p = NewShapedPanel(id, part.ID, geom.NewPolygon(part.Outline), kerf)
			} else {
				p = NewPanel(id, part.ID, part.Width, part.Height, kerf)
			}
			p.Grain = part.Grain
			byID[id] = single
			panels = append(panels, p)
			id++
		}
	}
	return panels, byID
}

func trimStocks(stocks []model.StockSheet, trim float64) []model.StockSheet {
	if trim <= 0 {
		return stocks
	}
	trimmed := make([]model.StockSheet, len(stocks))
	for i, s := range stocks {
		s.Width -= 2 * trim
		s.Height -= 2 * trim
		trimmed[i] = s
	}
	return trimmed
}

func convertFree(res *Result, stocks []model.StockSheet, byID map[int]model.Part, trim float64) model.NestResult {
	out := model.NestResult{Diagnostics: res.Diagnostics}
	for _, sheet := range res.Sheets {
		stock := stocks[sheet.StockIndex]
		stock.Quantity = 1
		// Present the stock in the orientation it was used, trim restored
		stock.Width = sheet.W + 2*trim
		stock.Height = sheet.H + 2*trim
		sr := model.SheetResult{Stock: stock}
		for _, p := range sheet.Placed {
			sr.Placements = append(sr.Placements, placementFor(p, byID, trim))
		}
		out.Sheets = append(out.Sheets, sr)
	}
	out.UnplacedParts = unplacedParts(res.Unplaced, byID)
	return out
}

func convertGuillotine(res *GuillotineResult, stocks []model.StockSheet, byID map[int]model.Part, trim float64) model.NestResult {
	out := model.NestResult{Diagnostics: res.Diagnostics}
	for _, sheet := range res.Sheets {
		stock := stocks[sheet.StockIndex]
		stock.Quantity = 1
		stock.Width = sheet.W + 2*trim
		stock.Height = sheet.H + 2*trim
		sr := model.SheetResult{Stock: stock}
		for _, p := range sheet.Placed {
			sr.Placements = append(sr.Placements, placementFor(p, byID, trim))
		}
		for _, c := range sheet.Cuts {
			c.Position += trim
			c.Start += trim
			c.End += trim
			sr.Cuts = append(sr.Cuts, c)
		}
		for _, ss := range sheet.SubSheets {
			ss.X += trim
			ss.Y += trim
			sr.SubSheets = append(sr.SubSheets, ss)
		}
		out.Sheets = append(out.Sheets, sr)
	}
	out.UnplacedParts = unplacedParts(res.Unplaced, byID)
	return out
}

func placementFor(p *Panel, byID map[int]model.Part, trim float64) model.Placement {
	return model.Placement{
		Part:    byID[p.ID],
		X:       p.X + trim,
		Y:       p.Y + trim,
		Rotated: p.Rotated,
		Angle:   p.Angle,
	}
}

func unplacedParts(panels []*Panel, byID map[int]model.Part) []model.Part {
	var parts []model.Part
	for _, p := range panels {
		parts = append(parts, byID[p.ID])
	}
	return parts
}
