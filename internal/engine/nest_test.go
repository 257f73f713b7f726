package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aly-mahmoud97/2d-Nesting/internal/model"
)

func stockOf(w, h float64, qty int) model.StockSheet {
	s := model.NewStockSheet("Stock", w, h, qty)
	s.Grain = model.GrainNone
	return s
}

// overlaps reports whether the kerf-padded footprints of two placed
// panels overlap.
func overlaps(a, b *Panel) bool {
	return a.X < b.X+b.PlacedW()-gridEpsilon && b.X < a.X+a.PlacedW()-gridEpsilon &&
		a.Y < b.Y+b.PlacedH()-gridEpsilon && b.Y < a.Y+a.PlacedH()-gridEpsilon
}

func assertNoOverlaps(t *testing.T, sheet *Sheet) {
	t.Helper()
	for i := 0; i < len(sheet.Placed); i++ {
		for j := i + 1; j < len(sheet.Placed); j++ {
			a, b := sheet.Placed[i], sheet.Placed[j]
			assert.False(t, overlaps(a, b),
				"panels %q at (%.1f,%.1f) and %q at (%.1f,%.1f) overlap",
				a.Tag, a.X, a.Y, b.Tag, b.X, b.Y)
		}
	}
	for _, p := range sheet.Placed {
		assert.GreaterOrEqual(t, p.X, -gridEpsilon)
		assert.GreaterOrEqual(t, p.Y, -gridEpsilon)
		assert.LessOrEqual(t, p.X+p.PlacedW(), sheet.W+gridEpsilon)
		assert.LessOrEqual(t, p.Y+p.PlacedH(), sheet.H+gridEpsilon)
	}
}

func TestNestSinglePanel(t *testing.T) {
	n := NewNester(BalancedConfig(), 0)
	panels := []*Panel{NewPanel(0, "A", 500, 300, 0)}

	result, err := n.Nest(panels, []model.StockSheet{stockOf(1000, 600, 0)})
	require.NoError(t, err)
	require.Len(t, result.Sheets, 1)
	require.Len(t, result.Sheets[0].Placed, 1)
	assert.Empty(t, result.Unplaced)

	p := result.Sheets[0].Placed[0]
	assert.Equal(t, 0.0, p.X)
	assert.Equal(t, 0.0, p.Y)
}

func TestNestThreePanelsOneSheet(t *testing.T) {
	n := NewNester(BalancedConfig(), 0)
	panels := []*Panel{
		NewPanel(0, "A", 60, 40, 0),
		NewPanel(1, "B", 40, 60, 0),
		NewPanel(2, "C", 50, 50, 0),
	}

	result, err := n.Nest(panels, []model.StockSheet{stockOf(100, 100, 0)})
	require.NoError(t, err)
	require.Len(t, result.Sheets, 1, "all three panels fit on one sheet")
	assert.Empty(t, result.Unplaced)
	assert.Equal(t, 3, result.PlacedCount())
	assert.InDelta(t, 0.73, result.TotalEfficiency(), 0.001)
	assertNoOverlaps(t, result.Sheets[0])
}

func TestNestUnplaceablePanelIsNotFatal(t *testing.T) {
	n := NewNester(BalancedConfig(), 0)
	panels := []*Panel{
		NewPanel(0, "fits", 5, 5, 0),
		NewPanel(1, "too big", 11, 5, 0),
	}

	result, err := n.Nest(panels, []model.StockSheet{stockOf(10, 10, 0)})
	require.NoError(t, err, "an unplaceable panel is a diagnostic, not an error")
	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, "too big", result.Unplaced[0].Tag)
	assert.NotEmpty(t, result.Diagnostics)
	assert.Equal(t, 1, result.PlacedCount())
}

func TestNestRotatesToFit(t *testing.T) {
	n := NewNester(BalancedConfig(), 0)
	panels := []*Panel{NewPanel(0, "A", 200, 100, 0)}

	result, err := n.Nest(panels, []model.StockSheet{stockOf(100, 200, 0)})
	require.NoError(t, err)
	require.Equal(t, 1, result.PlacedCount())
	p := result.Sheets[0].Placed[0]
	assert.True(t, p.Rotated)
	assert.Equal(t, 100.0, p.W)
	assert.Equal(t, 200.0, p.H)
}

func TestNestRespectsKerf(t *testing.T) {
	// Two 48-wide panels plus a 4mm kerf each need 104mm, so only one
	// fits side by side on a 100mm sheet row
	n := NewNester(BalancedConfig(), 4)
	panels := []*Panel{
		NewPanel(0, "A", 48, 90, 4),
		NewPanel(1, "B", 48, 90, 4),
	}

	result, err := n.Nest(panels, []model.StockSheet{stockOf(100, 100, 1)})
	require.NoError(t, err)
	assert.Equal(t, 1, result.PlacedCount())
}

func TestNestQuantityLimitedStock(t *testing.T) {
	n := NewNester(BalancedConfig(), 0)
	panels := []*Panel{
		NewPanel(0, "A", 900, 900, 0),
		NewPanel(1, "B", 900, 900, 0),
	}

	result, err := n.Nest(panels, []model.StockSheet{stockOf(1000, 1000, 1)})
	require.NoError(t, err)
	assert.Len(t, result.Sheets, 1)
	assert.Len(t, result.Unplaced, 1)
}

func TestNestUnlimitedStockOpensSheetsAsNeeded(t *testing.T) {
	n := NewNester(BalancedConfig(), 0)
	var panels []*Panel
	for i := 0; i < 4; i++ {
		panels = append(panels, NewPanel(i, "big", 900, 900, 0))
	}

	result, err := n.Nest(panels, []model.StockSheet{stockOf(1000, 1000, 0)})
	require.NoError(t, err)
	assert.Len(t, result.Sheets, 4)
	assert.Empty(t, result.Unplaced)
}

func TestNestSelectsSmallerAdequateStock(t *testing.T) {
	n := NewNester(BalancedConfig(), 0)
	panels := []*Panel{
		NewPanel(0, "A", 400, 200, 0),
		NewPanel(1, "B", 300, 200, 0),
	}
	stocks := []model.StockSheet{
		stockOf(2440, 1220, 2),
		stockOf(1220, 610, 2),
	}

	result, err := n.Nest(panels, stocks)
	require.NoError(t, err)
	require.Len(t, result.Sheets, 1)
	assert.Equal(t, 1, result.Sheets[0].StockIndex, "both panels fit the smaller stock")
}

func TestNestGrainForcesRotation(t *testing.T) {
	n := NewNester(BalancedConfig(), 0)
	p := NewPanel(0, "A", 600, 300, 0)
	p.Grain = model.GrainHorizontal

	stock := model.NewStockSheet("V", 1000, 1000, 0)
	stock.Grain = model.GrainVertical

	result, err := n.Nest([]*Panel{p}, []model.StockSheet{stock})
	require.NoError(t, err)
	require.Equal(t, 1, result.PlacedCount())
	assert.True(t, result.Sheets[0].Placed[0].Rotated,
		"horizontal-grain panel on a vertical-grain sheet must rotate")
}

func TestNestManyPanelsNoOverlap(t *testing.T) {
	n := NewNester(BestConfig(), 3)
	var panels []*Panel
	sizes := [][2]float64{
		{600, 400}, {600, 400}, {300, 200}, {300, 200}, {300, 200},
		{450, 450}, {800, 200}, {200, 150}, {200, 150}, {700, 350},
	}
	for i, s := range sizes {
		panels = append(panels, NewPanel(i, "P", s[0], s[1], 3))
	}

	result, err := n.Nest(panels, []model.StockSheet{stockOf(2440, 1220, 0)})
	require.NoError(t, err)
	assert.Empty(t, result.Unplaced)
	for _, sheet := range result.Sheets {
		assertNoOverlaps(t, sheet)
	}
}

func TestNestInputPanelsNotMutated(t *testing.T) {
	n := NewNester(BalancedConfig(), 0)
	p := NewPanel(0, "A", 200, 100, 0)

	_, err := n.Nest([]*Panel{p}, []model.StockSheet{stockOf(100, 200, 0)})
	require.NoError(t, err)
	// The placement rotated a copy; the input keeps its orientation
	assert.Equal(t, 200.0, p.W)
	assert.Equal(t, 0.0, p.X)
}

func TestNestValidation(t *testing.T) {
	n := NewNester(BalancedConfig(), -1)
	_, err := n.Nest(nil, []model.StockSheet{stockOf(100, 100, 0)})
	assert.Error(t, err, "negative kerf")

	n = NewNester(BalancedConfig(), 0)
	_, err = n.Nest(nil, nil)
	assert.Error(t, err, "no stocks")

	_, err = n.Nest([]*Panel{NewPanel(0, "bad", 0, 100, 0)},
		[]model.StockSheet{stockOf(100, 100, 0)})
	assert.Error(t, err, "non-positive panel")

	_, err = n.Nest(nil, []model.StockSheet{stockOf(0, 100, 0)})
	assert.Error(t, err, "non-positive stock")
}

func TestConfigPresets(t *testing.T) {
	fast := ConfigForPreset(model.PresetFast)
	assert.False(t, fast.MultiHeuristic)
	assert.Equal(t, HeuristicBottomLeft, fast.Heuristic)

	balanced := ConfigForPreset(model.PresetBalanced)
	assert.True(t, balanced.MultiHeuristic)
	assert.False(t, balanced.GeneticRefinement)

	best := ConfigForPreset(model.PresetBest)
	assert.True(t, best.GeneticRefinement)
	assert.Greater(t, best.MaxCandidates, balanced.MaxCandidates)

	// Shared thresholds are identical across presets
	assert.Equal(t, 0.95, fast.SheetFullThreshold)
	assert.Equal(t, 0.95, best.SheetFullThreshold)
	assert.Equal(t, 0.90, balanced.HighEfficiency)
}
