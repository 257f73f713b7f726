// Package importer turns cut lists and CAD drawings into nesting input.
// Tabular sources (CSV and Excel) share one pipeline: sniff the
// delimiter, resolve header cells onto part fields, then fold data rows
// into parts while collecting per-row errors and warnings instead of
// aborting the whole import. DXF drawings contribute shaped parts.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aly-mahmoud97/2d-Nesting/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult collects everything one import produced. Errors are
// per-row: a bad row is reported and skipped, good rows still import.
type ImportResult struct {
	Parts    []model.Part
	Errors   []string
	Warnings []string
}

func (r *ImportResult) errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ImportResult) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// field identifies the Part attribute a table column feeds.
type field int

const (
	fieldLabel field = iota
	fieldWidth
	fieldHeight
	fieldQuantity
	fieldGrain
	fieldCount
)

// fieldNames resolves a normalized header cell to a part field.
var fieldNames = map[string]field{
	"label": fieldLabel, "name": fieldLabel, "part": fieldLabel,
	"part name": fieldLabel, "description": fieldLabel, "desc": fieldLabel,
	"piece": fieldLabel, "item": fieldLabel,

	"width": fieldWidth, "w": fieldWidth, "length": fieldWidth,
	"len": fieldWidth, "x": fieldWidth,

	"height": fieldHeight, "h": fieldHeight, "depth": fieldHeight,
	"d": fieldHeight, "y": fieldHeight,

	"quantity": fieldQuantity, "qty": fieldQuantity, "count": fieldQuantity,
	"num": fieldQuantity, "amount": fieldQuantity, "pcs": fieldQuantity,
	"pieces": fieldQuantity,

	"grain": fieldGrain, "grain direction": fieldGrain,
	"direction": fieldGrain, "grain dir": fieldGrain,
	"orientation": fieldGrain,
}

// columns maps each part field to its table column, -1 when absent.
type columns [fieldCount]int

// positionalColumns is the layout assumed for headerless files:
// label, width, height, quantity, grain.
func positionalColumns() columns {
	return columns{0, 1, 2, 3, 4}
}

// resolveColumns matches header cells against the known field names,
// case-insensitively. When nothing matches, the first row is data and
// the positional layout applies.
func resolveColumns(header []string) (columns, bool) {
	cols := columns{-1, -1, -1, -1, -1}
	matched := false
	for i, cell := range header {
		f, ok := fieldNames[strings.ToLower(strings.TrimSpace(cell))]
		if !ok {
			continue
		}
		matched = true
		if cols[f] == -1 {
			cols[f] = i
		}
	}
	if !matched {
		return positionalColumns(), false
	}
	return cols, true
}

// cell returns the trimmed value feeding the given field, or "" when
// the column is absent or the row is short.
func (c columns) cell(row []string, f field) string {
	idx := c[f]
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

var requiredFields = []struct {
	f    field
	name string
}{
	{fieldWidth, "Width"},
	{fieldHeight, "Height"},
	{fieldQuantity, "Quantity"},
}

// missing lists required part fields the resolved header did not cover.
func (c columns) missing() []string {
	var out []string
	for _, rq := range requiredFields {
		if c[rq.f] == -1 {
			out = append(out, rq.name)
		}
	}
	return out
}

// grainNames resolves a grain cell to the part's grain constraint.
var grainNames = map[string]model.Grain{
	"h": model.GrainHorizontal, "horizontal": model.GrainHorizontal,
	"v": model.GrainVertical, "vertical": model.GrainVertical,
	"m": model.GrainMatchSheet, "match": model.GrainMatchSheet,
	"match sheet": model.GrainMatchSheet, "sheet": model.GrainMatchSheet,
	"": model.GrainNone, "none": model.GrainNone,
	"n": model.GrainNone, "-": model.GrainNone,
}

func parseGrain(s string) (model.Grain, bool) {
	g, ok := grainNames[strings.ToLower(strings.TrimSpace(s))]
	return g, ok
}

// dimension parses a strictly positive millimetre value.
func dimension(cell string) (float64, error) {
	if cell == "" {
		return 0, fmt.Errorf("missing")
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", cell)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%g is not positive", v)
	}
	return v, nil
}

// pieceCount parses a strictly positive part quantity.
func pieceCount(cell string) (int, error) {
	if cell == "" {
		return 0, fmt.Errorf("missing")
	}
	n, err := strconv.Atoi(cell)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", cell)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}

// table folds data rows into parts under a resolved column layout.
type table struct {
	cols    columns
	rowName string // "Line" for CSV, "Row" for Excel
}

func (t table) fold(rows [][]string, start int, result *ImportResult) {
	for i := start; i < len(rows); i++ {
		if blankRow(rows[i]) {
			continue
		}
		where := fmt.Sprintf("%s %d", t.rowName, i+1)
		if part, ok := t.part(rows[i], where, result); ok {
			result.Parts = append(result.Parts, part)
		}
	}
}

// part builds one Part from a data row. Dimension or quantity problems
// reject the row; an unknown grain only warns and defaults to none.
func (t table) part(row []string, where string, result *ImportResult) (model.Part, bool) {
	width, err := dimension(t.cols.cell(row, fieldWidth))
	if err != nil {
		result.errorf("%s: width %v", where, err)
		return model.Part{}, false
	}
	height, err := dimension(t.cols.cell(row, fieldHeight))
	if err != nil {
		result.errorf("%s: height %v", where, err)
		return model.Part{}, false
	}
	qty, err := pieceCount(t.cols.cell(row, fieldQuantity))
	if err != nil {
		result.errorf("%s: quantity %v", where, err)
		return model.Part{}, false
	}

	label := t.cols.cell(row, fieldLabel)
	if label == "" {
		label = fmt.Sprintf("Part %d", len(result.Parts)+1)
	}

	part := model.NewPart(label, width, height, qty)
	if cell := t.cols.cell(row, fieldGrain); cell != "" {
		grain, known := parseGrain(cell)
		if !known {
			result.warnf("%s: unknown grain direction %q, defaulting to none", where, cell)
		}
		part.Grain = grain
	}
	return part, true
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// importRows resolves the header (or positional layout) and folds the
// remaining rows into parts.
func importRows(rows [][]string, rowName string, result *ImportResult) {
	if len(rows) == 0 {
		result.errorf("no rows to import")
		return
	}

	cols, hasHeader := resolveColumns(rows[0])
	start := 0
	if hasHeader {
		start = 1
		if missing := cols.missing(); len(missing) != 0 {
			result.errorf("header is missing required columns: %s",
				strings.Join(missing, ", "))
			return
		}
	} else if looksLikeHeader(rows[0]) {
		// Unrecognized header wording: skip the row but keep the
		// positional layout for the data below it
		start = 1
	}

	table{cols: cols, rowName: rowName}.fold(rows, start, result)
}

// looksLikeHeader reports a first row whose width cell is not numeric;
// data rows always carry a number there.
func looksLikeHeader(row []string) bool {
	if len(row) < 3 {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	return err != nil
}

// sniffDelimiter picks the separator whose per-line count is nonzero
// and steadiest across the leading lines of the file.
func sniffDelimiter(data []byte) rune {
	var lines []string
	for _, ln := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		lines = append(lines, ln)
		if len(lines) == 10 {
			break
		}
	}
	if len(lines) == 0 {
		return ','
	}

	best, bestScore := ',', -1
	for _, d := range []rune{',', ';', '\t', '|'} {
		first := strings.Count(lines[0], string(d))
		if first == 0 {
			continue
		}
		steady := 0
		for _, ln := range lines {
			if strings.Count(ln, string(d)) == first {
				steady++
			}
		}
		score := steady*10 + first
		if score > bestScore {
			best, bestScore = d, score
		}
	}
	return best
}

func delimiterName(d rune) string {
	switch d {
	case ';':
		return "semicolon"
	case '\t':
		return "tab"
	case '|':
		return "pipe"
	default:
		return "comma"
	}
}

func importCSVData(data []byte, delimiter rune, result *ImportResult) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		result.errorf("malformed CSV: %v", err)
		return
	}
	importRows(rows, "Line", result)
}

// ImportCSV reads a part list from a delimiter-separated text file.
// The separator is sniffed from the content, so comma, semicolon, tab
// and pipe files all work without configuration.
func ImportCSV(path string) ImportResult {
	var result ImportResult

	data, err := os.ReadFile(path)
	if err != nil {
		result.errorf("cannot open file: %v", err)
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.errorf("file is empty")
		return result
	}

	delimiter := sniffDelimiter(data)
	if delimiter != ',' {
		result.warnf("detected %s-separated values", delimiterName(delimiter))
	}
	importCSVData(data, delimiter, &result)
	return result
}

// ImportCSVFromReader reads a part list from a reader with a known
// delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	var result ImportResult

	data, err := io.ReadAll(reader)
	if err != nil {
		result.errorf("cannot read input: %v", err)
		return result
	}
	importCSVData(data, delimiter, &result)
	return result
}

// ImportExcel reads a part list from the first worksheet of an Excel
// workbook. Column handling matches the CSV path.
func ImportExcel(path string) ImportResult {
	var result ImportResult

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.errorf("cannot open workbook: %v", err)
		return result
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		result.errorf("workbook has no sheets")
		return result
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		result.errorf("cannot read worksheet %q: %v", sheet, err)
		return result
	}
	importRows(rows, "Row", &result)
	return result
}
