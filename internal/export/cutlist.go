package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/aly-mahmoud97/2d-Nesting/internal/model"
)

// ExportCutList writes the nesting result as an Excel workbook: one
// "Cut List" sheet with every placement, one "Sheets" sheet with the
// per-sheet summary, and for guillotine results a "Cuts" sheet with the
// ordered cut sequence.
func ExportCutList(path string, result model.NestResult) error {
	if len(result.Sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	const cutList = "Cut List"
	f.SetSheetName("Sheet1", cutList)

	headers := []string{"Sheet", "Stock", "Part", "Label", "Width (mm)", "Height (mm)", "X (mm)", "Y (mm)", "Rotated", "Grain"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(cutList, cell, h)
	}

	row := 2
	for sheetIdx, sheet := range result.Sheets {
		for _, p := range sheet.Placements {
			values := []interface{}{
				sheetIdx + 1,
				sheet.Stock.Label,
				p.Part.ID,
				p.Part.Label,
				p.Part.Width,
				p.Part.Height,
				p.X,
				p.Y,
				p.Rotated,
				p.Part.Grain.String(),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(cutList, cell, v)
			}
			row++
		}
	}

	const sheets = "Sheets"
	if _, err := f.NewSheet(sheets); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	sheetHeaders := []string{"Sheet", "Stock", "Width (mm)", "Height (mm)", "Parts", "Used (mm2)", "Total (mm2)", "Efficiency (%)"}
	for i, h := range sheetHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheets, cell, h)
	}
	for i, sheet := range result.Sheets {
		values := []interface{}{
			i + 1,
			sheet.Stock.Label,
			sheet.Stock.Width,
			sheet.Stock.Height,
			len(sheet.Placements),
			sheet.UsedArea(),
			sheet.TotalArea(),
			sheet.Efficiency(),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheets, cell, v)
		}
	}

	if hasCuts(result) {
		const cuts = "Cuts"
		if _, err := f.NewSheet(cuts); err != nil {
			return fmt.Errorf("failed to add cuts sheet: %w", err)
		}
		cutHeaders := []string{"Sheet", "Order", "Orientation", "Position (mm)", "Start (mm)", "End (mm)", "Kerf (mm)"}
		for i, h := range cutHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(cuts, cell, h)
		}
		row = 2
		for sheetIdx, sheet := range result.Sheets {
			for order, c := range sheet.Cuts {
				values := []interface{}{
					sheetIdx + 1,
					order + 1,
					string(c.Orientation),
					c.Position,
					c.Start,
					c.End,
					c.Kerf,
				}
				for i, v := range values {
					cell, _ := excelize.CoordinatesToCellName(i+1, row)
					f.SetCellValue(cuts, cell, v)
				}
				row++
			}
		}
	}

	return f.SaveAs(path)
}

func hasCuts(result model.NestResult) bool {
	for _, sheet := range result.Sheets {
		if len(sheet.Cuts) > 0 {
			return true
		}
	}
	return false
}
