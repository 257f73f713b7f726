package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aly-mahmoud97/2d-Nesting/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultKerfWidth = 2.5
	inv := model.DefaultInventory()
	inv.Offcuts = []model.Offcut{{ID: "off1", Width: 400, Height: 300}}

	if err := ExportAllData(path, cfg, inv); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}

	if backup.Version == "" {
		t.Error("expected version in backup")
	}
	if backup.CreatedAt == "" {
		t.Error("expected creation timestamp in backup")
	}
	if backup.Config.DefaultKerfWidth != 2.5 {
		t.Errorf("expected kerf 2.5, got %f", backup.Config.DefaultKerfWidth)
	}
	if len(backup.Inventory.Stocks) != len(inv.Stocks) {
		t.Errorf("expected %d stock presets, got %d", len(inv.Stocks), len(backup.Inventory.Stocks))
	}
	if len(backup.Inventory.Offcuts) != 1 {
		t.Errorf("expected 1 banked offcut, got %d", len(backup.Inventory.Offcuts))
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte(`{"config": {}}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for backup without version")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte("{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	if _, err := ImportAllData(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
