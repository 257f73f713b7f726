package engine

import (
	"fmt"

	"github.com/aly-mahmoud97/2d-Nesting/internal/model"
)

// Result is the outcome of a nesting run. Diagnostics carry non-fatal
// conditions: unplaceable panels, new-sheet selection inconsistencies
// and iteration-cap truncation.
type Result struct {
	Sheets      []*Sheet
	Unplaced    []*Panel
	Diagnostics []string
}

// TotalEfficiency returns the filled fraction across all sheets, 0..1.
func (r *Result) TotalEfficiency() float64 {
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

// PlacedCount returns the number of panels placed across all sheets.
func (r *Result) PlacedCount() int {
	n := 0
	for _, s := range r.Sheets {
		n += len(s.Placed)
	}
	return n
}

// Nester runs the free nesting algorithm: fill open sheets first, then
// open the best new stock sheet chosen by trial packing.
type Nester struct {
	cfg  Config
	kerf float64
}

func NewNester(cfg Config, kerf float64) *Nester {
	return &Nester{cfg: cfg, kerf: kerf}
}

// stockOption is one usable stock orientation during new-sheet selection.
type stockOption struct {
	index int // Index into the stock list
	w, h  float64
	grain model.Grain
}

// Nest places the panels onto sheets cut from the given stocks.
// Validation failures are the only errors; panels that fit nowhere are
// reported in Result.Unplaced with a diagnostic instead.
func (n *Nester) Nest(panels []*Panel, stocks []model.StockSheet) (*Result, error) {
	if err := validate(panels, stocks, n.kerf); err != nil {
		return nil, err
	}

	remaining := make([]*Panel, len(panels))
	copy(remaining, panels)
	SortPanels(remaining, n.cfg.SortStrategy)

	avg := averagePanelSize(remaining)
	result := &Result{}
	stockUsed := make([]int, len(stocks))

	maxIterations := 2 * len(panels)
	iterations := 0

	for len(remaining) > 0 {
		iterations++
		if iterations > maxIterations {
			result.Diagnostics = append(result.Diagnostics,
				fmt.Sprintf("iteration limit %d reached with %d panels left", maxIterations, len(remaining)))
			result.Unplaced = append(result.Unplaced, remaining...)
			break
		}

		// Fill open sheets first. Sheets close to full are skipped: the
		// candidate search on them rarely pays off.
		progress := false
		for _, sheet := range result.Sheets {
			if sheet.Efficiency() > n.cfg.SheetFullThreshold {
				continue
			}
			var placed bool
			remaining, placed = n.fillSheet(sheet, remaining)
			progress = progress || placed
		}
		if len(remaining) == 0 {
			break
		}
		if progress {
			continue
		}

		// Open a new sheet, chosen by trial-packing the remaining prefix
		// on every usable stock orientation.
		option, ok := n.selectBestStock(remaining, stocks, stockUsed, avg)
		if ok {
			sheet := NewSheet(option.w, option.h, n.kerf, avg, option.grain, option.index, &n.cfg)
			var placed bool
			remaining, placed = n.fillSheet(sheet, remaining)
			if placed {
				result.Sheets = append(result.Sheets, sheet)
				stockUsed[option.index]++
				continue
			}
			// The trial pack placed panels but the real pack did not;
			// fall through to the last-resort path.
			result.Diagnostics = append(result.Diagnostics,
				fmt.Sprintf("selected stock %.0fx%.0f accepted no panel", option.w, option.h))
		}

		// Last resort: smallest stock that holds the largest remaining
		// panel in either orientation.
		option, ok = smallestFittingStock(remaining[0], stocks, stockUsed, n.kerf)
		if ok {
			sheet := NewSheet(option.w, option.h, n.kerf, avg, option.grain, option.index, &n.cfg)
			var placed bool
			remaining, placed = n.fillSheet(sheet, remaining)
			if placed {
				result.Sheets = append(result.Sheets, sheet)
				stockUsed[option.index]++
				continue
			}
		}

		// Nothing holds this panel. Drop it and keep going.
		p := remaining[0]
		result.Diagnostics = append(result.Diagnostics,
			fmt.Sprintf("panel %q (%.1fx%.1f) does not fit any stock sheet", p.Tag, p.W, p.H))
		result.Unplaced = append(result.Unplaced, p)
		remaining = remaining[1:]
	}

	return result, nil
}

// fillSheet greedily adds remaining panels to the sheet. Each placement
// operates on a copy, which becomes the placed record; the input panel
// is never mutated. Returns the panels still unplaced and whether any
// placement happened.
func (n *Nester) fillSheet(sheet *Sheet, remaining []*Panel) ([]*Panel, bool) {
	placedAny := false
	rest := remaining[:0:0]
	for _, p := range remaining {
		if sheet.Efficiency() > n.cfg.SheetFullThreshold {
			rest = append(rest, p)
			continue
		}
		c := p.Copy()
		if sheet.TryAdd(c) {
			placedAny = true
			continue
		}
		rest = append(rest, p)
	}
	return rest, placedAny
}

// selectBestStock trial-packs a prefix of the remaining panels onto
// every distinct stock orientation and scores the outcome. Square
// stocks are tested once.
func (n *Nester) selectBestStock(remaining []*Panel, stocks []model.StockSheet, used []int, avg float64) (stockOption, bool) {
	prefix := n.cfg.TestPanelsLow
	if len(remaining) > n.cfg.TestPanelThreshold {
		prefix = n.cfg.TestPanelsHigh
	}
	if prefix > len(remaining) {
		prefix = len(remaining)
	}

	var best stockOption
	bestScore := 0.0
	found := false

	seen := make(map[[2]int]struct{})
	for i, stock := range stocks {
		if stock.Quantity > 0 && used[i] >= stock.Quantity {
			continue
		}
		options := []stockOption{{index: i, w: stock.Width, h: stock.Height, grain: stock.Grain}}
		if stock.Width != stock.Height {
			options = append(options, stockOption{index: i, w: stock.Height, h: stock.Width, grain: rotateGrain(stock.Grain)})
		}
		for _, opt := range options {
			key := [2]int{int(opt.w * 100), int(opt.h * 100)}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			trial := NewSheet(opt.w, opt.h, n.kerf, avg, opt.grain, opt.index, &n.cfg)
			count := 0
			for _, p := range remaining[:prefix] {
				if trial.TryAdd(p.Copy()) {
					count++
				}
			}
			if count == 0 {
				continue
			}
			fill := trial.Efficiency()
			ratio := float64(count) / float64(prefix)
			score := (fill*n.cfg.WeightFill+ratio*n.cfg.WeightCount)*float64(count) -
				opt.w*opt.h*n.cfg.WeightArea
			if !found || score > bestScore {
				best = opt
				bestScore = score
				found = true
			}
			if fill >= n.cfg.HighEfficiency {
				return best, true
			}
		}
	}
	return best, found
}

// smallestFittingStock finds the smallest-area available stock that
// holds the panel in either orientation.
func smallestFittingStock(p *Panel, stocks []model.StockSheet, used []int, kerf float64) (stockOption, bool) {
	var best stockOption
	found := false
	for i, stock := range stocks {
		if stock.Quantity > 0 && used[i] >= stock.Quantity {
			continue
		}
		pw, ph := p.W+kerf, p.H+kerf
		fitsNormal := pw <= stock.Width+gridEpsilon && ph <= stock.Height+gridEpsilon
		fitsRotated := p.AllowRotation && ph <= stock.Width+gridEpsilon && pw <= stock.Height+gridEpsilon
		if !fitsNormal && !fitsRotated {
			continue
		}
		if !found || stock.Width*stock.Height < best.w*best.h {
			best = stockOption{index: i, w: stock.Width, h: stock.Height, grain: stock.Grain}
			found = true
		}
	}
	return best, found
}

// rotateGrain maps the grain direction of a stock used sideways.
func rotateGrain(g model.Grain) model.Grain {
	switch g {
	case model.GrainHorizontal:
		return model.GrainVertical
	case model.GrainVertical:
		return model.GrainHorizontal
	}
	return g
}

func averagePanelSize(panels []*Panel) float64 {
	if len(panels) == 0 {
		return 0
	}
	var sum float64
	for _, p := range panels {
		sum += (p.W + p.H) / 2
	}
	return sum / float64(len(panels))
}

func validate(panels []*Panel, stocks []model.StockSheet, kerf float64) error {
	if kerf < 0 {
		return fmt.Errorf("kerf must not be negative, got %.3f", kerf)
	}
	if len(stocks) == 0 {
		return fmt.Errorf("no stock sheets given")
	}
	for _, s := range stocks {
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("stock %q has non-positive dimensions %.1fx%.1f", s.Label, s.Width, s.Height)
		}
	}
	for _, p := range panels {
		if p.W <= 0 || p.H <= 0 {
			return fmt.Errorf("panel %q has non-positive dimensions %.1fx%.1f", p.Tag, p.W, p.H)
		}
	}
	return nil
}
