package export

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/aly-mahmoud97/2d-Nesting/internal/model"
)

func TestCollectLabelInfos(t *testing.T) {
	result := sampleResult()
	labels := CollectLabelInfos(result)

	if len(labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(labels))
	}

	first := labels[0]
	if first.PartID != "p1" || first.PartLabel != "Shelf" {
		t.Errorf("unexpected first label: %+v", first)
	}
	if first.SheetIndex != 1 {
		t.Errorf("sheet index is 1-based, got %d", first.SheetIndex)
	}
	if first.SheetLabel != "Plywood" {
		t.Errorf("expected sheet label Plywood, got %s", first.SheetLabel)
	}

	if !labels[1].Rotated {
		t.Error("expected second label to carry the rotation flag")
	}
}

func TestLabelInfoJSONRoundTrip(t *testing.T) {
	info := LabelInfo{
		PartID:     "p1",
		PartLabel:  "Shelf",
		Width:      600,
		Height:     300,
		SheetIndex: 1,
		SheetLabel: "Plywood",
		X:          10,
		Y:          20,
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded LabelInfo
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded != info {
		t.Errorf("round trip mismatch: %+v != %+v", decoded, info)
	}
}

func TestExportLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")
	if err := ExportLabels(path, sampleResult()); err != nil {
		t.Fatalf("ExportLabels failed: %v", err)
	}
	assertNonEmptyFile(t, path)
}

func TestExportLabelsManyParts(t *testing.T) {
	// More labels than fit on one page forces pagination
	result := model.NestResult{}
	sheet := model.SheetResult{Stock: model.StockSheet{Label: "Big", Width: 2440, Height: 1220}}
	for i := 0; i < 35; i++ {
		sheet.Placements = append(sheet.Placements, model.Placement{
			Part: model.Part{ID: "p", Label: "Part", Width: 100, Height: 100},
			X:    float64(i), Y: 0,
		})
	}
	result.Sheets = append(result.Sheets, sheet)

	path := filepath.Join(t.TempDir(), "labels.pdf")
	if err := ExportLabels(path, result); err != nil {
		t.Fatalf("ExportLabels failed: %v", err)
	}
	assertNonEmptyFile(t, path)
}

func TestExportLabelsEmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")
	if err := ExportLabels(path, model.NestResult{}); err == nil {
		t.Error("expected error for empty result")
	}

	noPlacements := model.NestResult{
		Sheets: []model.SheetResult{{Stock: model.StockSheet{Label: "Empty", Width: 100, Height: 100}}},
	}
	if err := ExportLabels(path, noPlacements); err == nil {
		t.Error("expected error when no parts are placed")
	}
}
