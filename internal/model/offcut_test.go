package model

import (
	"math"
	"testing"
)

func TestDetectOffcutsEmptySheet(t *testing.T) {
	sr := SheetResult{
		Stock: StockSheet{Label: "Sheet1", Width: 2000, Height: 1000},
	}
	offcuts := DetectOffcuts(sr, 0, 3.0)
	if len(offcuts) != 1 {
		t.Fatalf("expected whole sheet as offcut, got %d offcuts", len(offcuts))
	}
	if offcuts[0].Width != 2000 || offcuts[0].Height != 1000 {
		t.Errorf("unexpected offcut dims: %.0f x %.0f", offcuts[0].Width, offcuts[0].Height)
	}
}

func TestDetectOffcutsRightStrip(t *testing.T) {
	// One 1000x1000 part on a 2000x1000 sheet leaves a ~1000mm right strip
	sr := SheetResult{
		Stock: StockSheet{Label: "Sheet1", Width: 2000, Height: 1000},
		Placements: []Placement{
			{Part: Part{Width: 1000, Height: 1000}},
		},
	}
	offcuts := DetectOffcuts(sr, 0, 0)
	if len(offcuts) != 1 {
		t.Fatalf("expected 1 offcut, got %d", len(offcuts))
	}
	o := offcuts[0]
	if o.X != 1000 || o.Y != 0 {
		t.Errorf("unexpected offcut position: (%.0f, %.0f)", o.X, o.Y)
	}
	if o.Width != 1000 || o.Height != 1000 {
		t.Errorf("unexpected offcut dims: %.0f x %.0f", o.Width, o.Height)
	}
}

func TestDetectOffcutsTooSmallIgnored(t *testing.T) {
	// Part nearly fills the sheet: the remaining strip is narrower than
	// MinOffcutDimension and must not be reported
	sr := SheetResult{
		Stock: StockSheet{Label: "Sheet1", Width: 1000, Height: 1000},
		Placements: []Placement{
			{Part: Part{Width: 970, Height: 970}},
		},
	}
	offcuts := DetectOffcuts(sr, 0, 0)
	if len(offcuts) != 0 {
		t.Errorf("expected no usable offcuts, got %d", len(offcuts))
	}
}

func TestDetectOffcutsFromSubSheets(t *testing.T) {
	// Guillotine results report residual sub-sheets directly
	sr := SheetResult{
		Stock: StockSheet{Label: "Beam", Width: 2400, Height: 1200},
		Placements: []Placement{
			{Part: Part{Width: 540, Height: 400}},
		},
		SubSheets: []SubSheet{
			{X: 545, Y: 0, Width: 1855, Height: 1200},
			{X: 0, Y: 405, Width: 540, Height: 795},
			{X: 30, Y: 30, Width: 40, Height: 40}, // too small, filtered
		},
	}
	offcuts := DetectOffcuts(sr, 2, 5.0)
	if len(offcuts) != 2 {
		t.Fatalf("expected 2 offcuts from sub-sheets, got %d", len(offcuts))
	}
	// Sorted largest first
	if offcuts[0].Area() < offcuts[1].Area() {
		t.Error("expected offcuts sorted by area descending")
	}
	if offcuts[0].SheetIndex != 2 {
		t.Errorf("expected sheet index 2, got %d", offcuts[0].SheetIndex)
	}
}

func TestDetectOffcutsProportionalCost(t *testing.T) {
	sr := SheetResult{
		Stock: StockSheet{Label: "Sheet1", Width: 2000, Height: 1000, Cost: 100.0},
		Placements: []Placement{
			{Part: Part{Width: 1000, Height: 1000}},
		},
	}
	offcuts := DetectOffcuts(sr, 0, 0)
	if len(offcuts) != 1 {
		t.Fatalf("expected 1 offcut, got %d", len(offcuts))
	}
	// Offcut is half the sheet area, so half the cost
	if math.Abs(offcuts[0].Cost-50.0) > 0.01 {
		t.Errorf("expected proportional cost 50.0, got %.2f", offcuts[0].Cost)
	}
}

func TestOffcutToStockSheet(t *testing.T) {
	o := Offcut{
		SheetLabel: "Plywood",
		Width:      600,
		Height:     400,
		Cost:       12.50,
		Grain:      GrainVertical,
	}
	sheet := o.ToStockSheet()
	if sheet.Label != "Offcut Plywood" {
		t.Errorf("unexpected label %q", sheet.Label)
	}
	if sheet.Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", sheet.Quantity)
	}
	if sheet.Cost != 12.50 {
		t.Errorf("expected cost 12.50, got %.2f", sheet.Cost)
	}
	if sheet.Grain != GrainVertical {
		t.Errorf("expected grain carried over, got %v", sheet.Grain)
	}
}

func TestDetectAllOffcuts(t *testing.T) {
	result := NestResult{
		Sheets: []SheetResult{
			{
				Stock: StockSheet{Label: "Sheet1", Width: 2000, Height: 1000, Cost: 100.0},
				Placements: []Placement{
					{Part: Part{Width: 1000, Height: 1000}},
				},
			},
			{
				Stock: StockSheet{Label: "Sheet2", Width: 2000, Height: 1000},
				Placements: []Placement{
					{Part: Part{Width: 1960, Height: 990}},
				},
			},
		},
	}
	all := DetectAllOffcuts(result, 0)
	if len(all) != 1 {
		t.Fatalf("expected 1 offcut across sheets, got %d", len(all))
	}
	if all[0].SheetIndex != 0 {
		t.Errorf("expected offcut from sheet 0, got %d", all[0].SheetIndex)
	}
	if all[0].Cost <= 0 {
		t.Errorf("expected positive cost for offcut, got %.2f", all[0].Cost)
	}

	if got := TotalOffcutArea(all); math.Abs(got-1000*1000) > 1 {
		t.Errorf("unexpected total offcut area %.0f", got)
	}
}
