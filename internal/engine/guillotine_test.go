package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aly-mahmoud97/2d-Nesting/internal/model"
)

func TestGuillotineSinglePanelResiduals(t *testing.T) {
	g := NewGuillotineNester(5, model.CutHorizontal, model.SortLargestFirst)
	panels := []*Panel{NewPanel(0, "A", 54, 40, 5)}
	stocks := []model.StockSheet{stockOf(240, 120, 1)}

	result, err := g.Nest(panels, stocks)
	require.NoError(t, err)
	require.Len(t, result.Sheets, 1)
	sheet := result.Sheets[0]

	require.Len(t, sheet.Placed, 1)
	p := sheet.Placed[0]
	assert.Equal(t, 0.0, p.X)
	assert.Equal(t, 0.0, p.Y)
	assert.False(t, p.Rotated)

	// The wider residual (right of the panel) is cut off first with a
	// vertical cut, then the top of the left column is trimmed. The kerf
	// is consumed from both residuals.
	require.Len(t, sheet.SubSheets, 2)
	assert.Equal(t, model.SubSheet{
		X: 59, Y: 0, Width: 181, Height: 120,
		Level: 1, ParentCutID: 1, SheetIndex: 0,
	}, sheet.SubSheets[0])
	assert.Equal(t, model.SubSheet{
		X: 0, Y: 45, Width: 54, Height: 75,
		Level: 1, ParentCutID: 2, SheetIndex: 0,
	}, sheet.SubSheets[1])

	require.Len(t, sheet.Cuts, 2)
	assert.Equal(t, model.CutVertical, sheet.Cuts[0].Orientation)
	assert.Equal(t, 54.0, sheet.Cuts[0].Position)
	assert.Equal(t, 120.0, sheet.Cuts[0].End, "first cut runs the full sheet height")
	assert.Equal(t, model.CutHorizontal, sheet.Cuts[1].Orientation)
	assert.Equal(t, 40.0, sheet.Cuts[1].Position)
	assert.Equal(t, 54.0, sheet.Cuts[1].End, "second cut stops at the first")
}

func TestGuillotinePanelsShareSheet(t *testing.T) {
	g := NewGuillotineNester(0, model.CutHorizontal, model.SortLargestFirst)
	panels := []*Panel{
		NewPanel(0, "A", 500, 500, 0),
		NewPanel(1, "B", 500, 500, 0),
		NewPanel(2, "C", 500, 500, 0),
		NewPanel(3, "D", 500, 500, 0),
	}
	stocks := []model.StockSheet{stockOf(1000, 1000, 0)}

	result, err := g.Nest(panels, stocks)
	require.NoError(t, err)
	assert.Len(t, result.Sheets, 1, "four quarters fill one sheet exactly")
	assert.Empty(t, result.Unplaced)
	assert.InDelta(t, 1.0, result.TotalEfficiency(), 1e-9)
}

func TestGuillotineExactFitLeavesNoSubSheets(t *testing.T) {
	g := NewGuillotineNester(0, model.CutHorizontal, model.SortLargestFirst)
	panels := []*Panel{NewPanel(0, "A", 300, 200, 0)}
	stocks := []model.StockSheet{stockOf(300, 200, 1)}

	result, err := g.Nest(panels, stocks)
	require.NoError(t, err)
	require.Len(t, result.Sheets, 1)
	assert.Empty(t, result.Sheets[0].SubSheets)
	assert.Empty(t, result.Sheets[0].Cuts)
}

func TestGuillotineFlushPanelNeedsNoKerf(t *testing.T) {
	// The panel spans the whole sub-sheet; flush edges need no kerf
	g := NewGuillotineNester(5, model.CutHorizontal, model.SortLargestFirst)
	panels := []*Panel{NewPanel(0, "A", 300, 200, 5)}
	stocks := []model.StockSheet{stockOf(300, 200, 1)}

	result, err := g.Nest(panels, stocks)
	require.NoError(t, err)
	assert.Equal(t, 1, len(result.Sheets[0].Placed))
	assert.Empty(t, result.Unplaced)
}

func TestGuillotineGrainRotation(t *testing.T) {
	// A horizontal-grain panel taller than wide must lie down: grain is
	// judged on the placed orientation
	g := NewGuillotineNester(0, model.CutHorizontal, model.SortLargestFirst)
	p := NewPanel(0, "A", 40, 54, 0)
	p.Grain = model.GrainHorizontal

	stock := model.NewStockSheet("H", 240, 120, 1)
	stock.Grain = model.GrainHorizontal

	result, err := g.Nest([]*Panel{p}, []model.StockSheet{stock})
	require.NoError(t, err)
	require.Len(t, result.Sheets, 1)
	require.Len(t, result.Sheets[0].Placed, 1)

	placed := result.Sheets[0].Placed[0]
	assert.True(t, placed.Rotated)
	assert.Equal(t, 54.0, placed.W)
	assert.Equal(t, 40.0, placed.H)
}

func TestGuillotineUnplaceablePanel(t *testing.T) {
	g := NewGuillotineNester(0, model.CutHorizontal, model.SortLargestFirst)
	panels := []*Panel{NewPanel(0, "huge", 500, 500, 0)}
	stocks := []model.StockSheet{stockOf(100, 100, 0)}

	result, err := g.Nest(panels, stocks)
	require.NoError(t, err)
	assert.Empty(t, result.Sheets)
	assert.Len(t, result.Unplaced, 1)
	assert.NotEmpty(t, result.Diagnostics)
}

func TestGuillotineOpensSmallestFittingStock(t *testing.T) {
	g := NewGuillotineNester(0, model.CutHorizontal, model.SortLargestFirst)
	panels := []*Panel{NewPanel(0, "A", 500, 300, 0)}
	stocks := []model.StockSheet{
		stockOf(2440, 1220, 1),
		stockOf(1220, 610, 1),
	}

	result, err := g.Nest(panels, stocks)
	require.NoError(t, err)
	require.Len(t, result.Sheets, 1)
	assert.Equal(t, 1, result.Sheets[0].StockIndex)
}

func TestGuillotineSheetIndexOnCuts(t *testing.T) {
	g := NewGuillotineNester(0, model.CutHorizontal, model.SortLargestFirst)
	panels := []*Panel{
		NewPanel(0, "A", 900, 900, 0),
		NewPanel(1, "B", 900, 900, 0),
	}
	stocks := []model.StockSheet{stockOf(1000, 1000, 0)}

	result, err := g.Nest(panels, stocks)
	require.NoError(t, err)
	require.Len(t, result.Sheets, 2)
	for i, sheet := range result.Sheets {
		assert.Equal(t, i, sheet.Index)
		for _, cut := range sheet.Cuts {
			assert.Equal(t, i, cut.SheetIndex)
		}
		for _, ss := range sheet.SubSheets {
			assert.Equal(t, i, ss.SheetIndex)
		}
	}
}

func TestSortForGuillotine(t *testing.T) {
	mk := func() []*Panel {
		return []*Panel{
			NewPanel(0, "mid", 300, 300, 0),
			NewPanel(1, "big", 900, 100, 0),
			NewPanel(2, "small", 100, 100, 0),
		}
	}

	panels := mk()
	sortForGuillotine(panels, model.SortLargestFirst)
	assert.Equal(t, "big", panels[0].Tag, "largest max dimension first")

	panels = mk()
	sortForGuillotine(panels, model.SortSmallestFirst)
	assert.Equal(t, "small", panels[0].Tag)

	panels = mk()
	sortForGuillotine(panels, model.SortAreaDesc)
	// mid and big tie on area; stable sort keeps input order
	assert.Equal(t, "mid", panels[0].Tag)

	panels = mk()
	sortForGuillotine(panels, model.SortAreaAsc)
	assert.Equal(t, "small", panels[0].Tag)
}
