package model

import "github.com/google/uuid"

// StockPreset represents a reusable stock sheet definition.
type StockPreset struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Material string  `json:"material"`
	Cost     float64 `json:"cost"`
	Grain    Grain   `json:"grain"`
}

// NewStockPreset creates a new StockPreset with a generated ID.
func NewStockPreset(name string, width, height float64, material string) StockPreset {
	return StockPreset{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Width:    width,
		Height:   height,
		Material: material,
		Grain:    GrainHorizontal,
	}
}

// ToStockSheet converts a StockPreset into a StockSheet with the given quantity.
func (sp StockPreset) ToStockSheet(qty int) StockSheet {
	sheet := NewStockSheet(sp.Name, sp.Width, sp.Height, qty)
	sheet.Cost = sp.Cost
	sheet.Grain = sp.Grain
	return sheet
}

// Inventory holds the user's saved stock presets and banked offcuts from
// previous runs. Offcuts are fed back as stock for future nesting jobs.
type Inventory struct {
	Stocks  []StockPreset `json:"stocks"`
	Offcuts []Offcut      `json:"offcuts"`
}

// DefaultInventory returns an inventory populated with common sheet sizes.
func DefaultInventory() Inventory {
	return Inventory{
		Stocks: []StockPreset{
			NewStockPreset("Plywood 2440x1220 (8'x4')", 2440, 1220, "Plywood"),
			NewStockPreset("MDF 2440x1220 (8'x4')", 2440, 1220, "MDF"),
			NewStockPreset("MDF 1220x610 (4'x2')", 1220, 610, "MDF"),
			NewStockPreset("Plywood 1220x610 (4'x2')", 1220, 610, "Plywood"),
			NewStockPreset("Acrylic 600x400", 600, 400, "Acrylic"),
			NewStockPreset("Aluminium 600x300", 600, 300, "Aluminium"),
		},
	}
}

// FindStockByID returns a pointer to the stock preset with the given ID, or nil.
func (inv *Inventory) FindStockByID(id string) *StockPreset {
	for i := range inv.Stocks {
		if inv.Stocks[i].ID == id {
			return &inv.Stocks[i]
		}
	}
	return nil
}

// FindStockByName returns a pointer to the first stock preset with the given name, or nil.
func (inv *Inventory) FindStockByName(name string) *StockPreset {
	for i := range inv.Stocks {
		if inv.Stocks[i].Name == name {
			return &inv.Stocks[i]
		}
	}
	return nil
}

// StockNames returns a list of stock preset names.
func (inv *Inventory) StockNames() []string {
	names := make([]string, len(inv.Stocks))
	for i, s := range inv.Stocks {
		names[i] = s.Name
	}
	return names
}

// BankOffcuts adds usable offcuts from a nesting result to the inventory.
func (inv *Inventory) BankOffcuts(offcuts []Offcut) {
	inv.Offcuts = append(inv.Offcuts, offcuts...)
}

// TakeOffcut removes the offcut with the given ID and returns it as stock.
// The second return value is false if no such offcut exists.
func (inv *Inventory) TakeOffcut(id string) (StockSheet, bool) {
	for i := range inv.Offcuts {
		if inv.Offcuts[i].ID == id {
			sheet := inv.Offcuts[i].ToStockSheet()
			inv.Offcuts = append(inv.Offcuts[:i], inv.Offcuts[i+1:]...)
			return sheet, true
		}
	}
	return StockSheet{}, false
}

// OffcutStock converts all banked offcuts into stock sheets without
// removing them from the inventory.
func (inv *Inventory) OffcutStock() []StockSheet {
	stocks := make([]StockSheet, len(inv.Offcuts))
	for i, o := range inv.Offcuts {
		stocks[i] = o.ToStockSheet()
	}
	return stocks
}
