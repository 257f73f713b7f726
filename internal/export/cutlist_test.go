package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/aly-mahmoud97/2d-Nesting/internal/model"
)

func TestExportCutList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutlist.xlsx")
	if err := ExportCutList(path, sampleResult()); err != nil {
		t.Fatalf("ExportCutList failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Cut List")
	if err != nil {
		t.Fatalf("missing Cut List sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("expected header plus 2 placements, got %d rows", len(rows))
	}
	if rows[1][3] != "Shelf" {
		t.Errorf("expected first part Shelf, got %q", rows[1][3])
	}

	summary, err := f.GetRows("Sheets")
	if err != nil {
		t.Fatalf("missing Sheets sheet: %v", err)
	}
	if len(summary) != 2 {
		t.Errorf("expected header plus 1 sheet row, got %d rows", len(summary))
	}

	// No guillotine cuts in this result, so no Cuts sheet
	if _, err := f.GetRows("Cuts"); err == nil {
		t.Error("did not expect a Cuts sheet for a free nesting result")
	}
}

func TestExportCutListWithCuts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutlist.xlsx")
	if err := ExportCutList(path, sampleGuillotineResult()); err != nil {
		t.Fatalf("ExportCutList failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot reopen workbook: %v", err)
	}
	defer f.Close()

	cuts, err := f.GetRows("Cuts")
	if err != nil {
		t.Fatalf("missing Cuts sheet: %v", err)
	}
	if len(cuts) != 3 {
		t.Errorf("expected header plus 2 cuts, got %d rows", len(cuts))
	}
	if cuts[1][2] != string(model.CutVertical) {
		t.Errorf("expected first cut vertical, got %q", cuts[1][2])
	}
}

func TestExportCutListEmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutlist.xlsx")
	if err := ExportCutList(path, model.NestResult{}); err == nil {
		t.Error("expected error for empty result")
	}
}
