// nest - 2D panel nesting from the command line.
//
// Reads a part list (CSV, Excel or DXF), nests it onto the given stock
// sheets and writes the result as JSON to stdout. Optional exports:
// layout PDF, QR part labels and an Excel cut list.
//
// Examples:
//
//	nest -parts parts.csv -stock 2440x1220 -preset balanced
//	nest -parts panels.xlsx -stock 2440x1220 -stock 1220x610 -algorithm guillotine -pdf layout.pdf
//	nest -project job.json -cutlist cutlist.xlsx
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aly-mahmoud97/2d-Nesting/internal/engine"
	"github.com/aly-mahmoud97/2d-Nesting/internal/export"
	"github.com/aly-mahmoud97/2d-Nesting/internal/importer"
	"github.com/aly-mahmoud97/2d-Nesting/internal/model"
	"github.com/aly-mahmoud97/2d-Nesting/internal/project"
)

// stockFlags collects repeated -stock WxH[xQTY] flags.
type stockFlags []model.StockSheet

func (s *stockFlags) String() string {
	var parts []string
	for _, st := range *s {
		parts = append(parts, fmt.Sprintf("%.0fx%.0f", st.Width, st.Height))
	}
	return strings.Join(parts, ",")
}

func (s *stockFlags) Set(value string) error {
	fields := strings.Split(strings.ToLower(value), "x")
	if len(fields) < 2 || len(fields) > 3 {
		return fmt.Errorf("stock must be WxH or WxHxQTY, got %q", value)
	}
	w, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return fmt.Errorf("invalid stock width %q", fields[0])
	}
	h, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return fmt.Errorf("invalid stock height %q", fields[1])
	}
	qty := 0 // unlimited
	if len(fields) == 3 {
		qty, err = strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("invalid stock quantity %q", fields[2])
		}
	}
	sheet := model.NewStockSheet(fmt.Sprintf("%gx%g", w, h), w, h, qty)
	*s = append(*s, sheet)
	return nil
}

func main() {
	var stocks stockFlags
	partsPath := flag.String("parts", "", "part list file (.csv, .xlsx or .dxf)")
	projectPath := flag.String("project", "", "project file (.json) with parts, stocks and settings")
	flag.Var(&stocks, "stock", "stock sheet as WxH or WxHxQTY in mm (repeatable)")
	algorithm := flag.String("algorithm", string(model.AlgorithmMaxRects), "nesting algorithm: maxrects, guillotine or genetic")
	preset := flag.String("preset", string(model.PresetBalanced), "quality preset: fast, balanced or best")
	kerf := flag.Float64("kerf", 3.2, "kerf width in mm")
	trim := flag.Float64("trim", 0, "edge trim in mm")
	pdfPath := flag.String("pdf", "", "write layout PDF to this path")
	labelsPath := flag.String("labels", "", "write QR part labels PDF to this path")
	cutlistPath := flag.String("cutlist", "", "write Excel cut list to this path")
	savePath := flag.String("save", "", "save the project including results to this path")
	offcuts := flag.Bool("offcuts", false, "report usable offcuts in the output")
	flag.Parse()

	if err := run(*partsPath, *projectPath, stocks, *algorithm, *preset, *kerf, *trim,
		*pdfPath, *labelsPath, *cutlistPath, *savePath, *offcuts); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// output is the JSON document written to stdout.
type output struct {
	Result  model.NestResult `json:"result"`
	Offcuts []model.Offcut   `json:"offcuts,omitempty"`
}

func run(partsPath, projectPath string, stocks []model.StockSheet, algorithm, preset string,
	kerf, trim float64, pdfPath, labelsPath, cutlistPath, savePath string, offcuts bool) error {

	var proj model.Project
	switch {
	case projectPath != "":
		var err error
		proj, err = project.LoadProject(projectPath)
		if err != nil {
			return err
		}
	case partsPath != "":
		parts, err := importParts(partsPath)
		if err != nil {
			return err
		}
		if len(stocks) == 0 {
			return fmt.Errorf("at least one -stock is required")
		}
		proj = model.NewProject()
		proj.Name = strings.TrimSuffix(filepath.Base(partsPath), filepath.Ext(partsPath))
		proj.Parts = parts
		proj.Stocks = stocks
		proj.Settings.Algorithm = model.Algorithm(algorithm)
		proj.Settings.Preset = model.Preset(preset)
		proj.Settings.KerfWidth = kerf
		proj.Settings.EdgeTrim = trim
	default:
		return fmt.Errorf("either -parts or -project is required")
	}

	result, err := engine.Optimize(proj.Parts, proj.Stocks, proj.Settings)
	if err != nil {
		return err
	}
	proj.Result = &result

	for _, d := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, "warning:", d)
	}

	out := output{Result: result}
	if offcuts {
		out.Offcuts = model.DetectAllOffcuts(result, proj.Settings.KerfWidth)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}

	if pdfPath != "" {
		if err := export.ExportPDF(pdfPath, result, proj.Settings); err != nil {
			return fmt.Errorf("pdf export: %w", err)
		}
	}
	if labelsPath != "" {
		if err := export.ExportLabels(labelsPath, result); err != nil {
			return fmt.Errorf("labels export: %w", err)
		}
	}
	if cutlistPath != "" {
		if err := export.ExportCutList(cutlistPath, result); err != nil {
			return fmt.Errorf("cut list export: %w", err)
		}
	}
	if savePath != "" {
		if err := project.SaveProject(savePath, proj); err != nil {
			return fmt.Errorf("project save: %w", err)
		}
	}

	return nil
}

func importParts(path string) ([]model.Part, error) {
	var res importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		res = importer.ImportCSV(path)
	case ".xlsx", ".xls":
		res = importer.ImportExcel(path)
	case ".dxf":
		res = importer.ImportDXF(path)
	default:
		return nil, fmt.Errorf("unsupported part list format %q", filepath.Ext(path))
	}

	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("import failed: %s", strings.Join(res.Errors, "; "))
	}
	if len(res.Parts) == 0 {
		return nil, fmt.Errorf("no parts found in %s", path)
	}
	return res.Parts, nil
}
