// Package importer reads box batches from CSV and Excel sheets and reads
// exported DXF drawings back for inspection. Sheet import supports automatic
// delimiter detection, flexible column mapping, and case-insensitive header
// recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BoxCut/internal/model"
)

// BoxRow is one box read from a batch sheet.
type BoxRow struct {
	Params   model.BoxParams
	Quantity int
	Line     int
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Boxes    []BoxRow
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// -1 means the column is absent and the base parameters apply.
type ColumnMapping struct {
	Name           int
	Length         int
	Width          int
	Height         int
	Thickness      int
	TabWidth       int
	Kerf           int
	DividersLength int
	DividersWidth  int
	BoxType        int
	Quantity       int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":            {"name", "label", "box", "description", "desc", "item"},
	"length":          {"length", "len", "l", "x"},
	"width":           {"width", "w", "depth", "d", "y"},
	"height":          {"height", "h", "z"},
	"thickness":       {"thickness", "material", "stock", "t"},
	"tab_width":       {"tab", "tab width", "tab_width", "tabs"},
	"kerf":            {"kerf", "k"},
	"dividers_length": {"dividers length", "dividers_length", "div x", "div_x"},
	"dividers_width":  {"dividers width", "dividers_width", "div y", "div_y"},
	"box_type":        {"box type", "box_type", "type", "style"},
	"quantity":        {"quantity", "qty", "count", "num", "pcs"},
}

func (m *ColumnMapping) slot(role string) *int {
	switch role {
	case "name":
		return &m.Name
	case "length":
		return &m.Length
	case "width":
		return &m.Width
	case "height":
		return &m.Height
	case "thickness":
		return &m.Thickness
	case "tab_width":
		return &m.TabWidth
	case "kerf":
		return &m.Kerf
	case "dividers_length":
		return &m.DividersLength
	case "dividers_width":
		return &m.DividersWidth
	case "box_type":
		return &m.BoxType
	case "quantity":
		return &m.Quantity
	}
	return nil
}

func emptyMapping() ColumnMapping {
	return ColumnMapping{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1}
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or a positional
// mapping (name, length, width, height, thickness, quantity) and false if
// no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := emptyMapping()

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if idx := mapping.slot(role); *idx == -1 {
					*idx = i
				}
			}
		}
	}

	if !isHeader {
		m := emptyMapping()
		m.Name, m.Length, m.Width, m.Height, m.Thickness, m.Quantity = 0, 1, 2, 3, 4, 5
		return m, false
	}

	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseFloatCell reads an optional number. ok is false for an empty cell.
func parseFloatCell(row []string, idx int, rowLabel, column string) (v float64, ok bool, errMsg string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, column, s)
	}
	return v, true, ""
}

func parseIntCell(row []string, idx int, rowLabel, column string) (v int, ok bool, errMsg string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, column, s)
	}
	return v, true, ""
}

// parseRow extracts a box from a row using the given column mapping. Cells
// that are absent or empty keep the value from base. Returns the box, any
// error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, base model.BoxParams, rowLabel string, boxCount int) (BoxRow, string, string) {
	p := base
	p.Name = getCell(row, mapping.Name)
	if p.Name == "" {
		p.Name = fmt.Sprintf("Box %d", boxCount+1)
	}

	required := []struct {
		idx    int
		column string
		dst    *float64
	}{
		{mapping.Length, "length", &p.Length},
		{mapping.Width, "width", &p.Width},
		{mapping.Height, "height", &p.Height},
	}
	for _, r := range required {
		v, ok, errMsg := parseFloatCell(row, r.idx, rowLabel, r.column)
		if errMsg != "" {
			return BoxRow{}, errMsg, ""
		}
		if !ok {
			return BoxRow{}, fmt.Sprintf("%s: Missing %s value", rowLabel, r.column), ""
		}
		if v <= 0 {
			return BoxRow{}, fmt.Sprintf("%s: Length, width, and height must be positive", rowLabel), ""
		}
		*r.dst = v
	}

	optional := []struct {
		idx    int
		column string
		dst    *float64
	}{
		{mapping.Thickness, "thickness", &p.Thickness},
		{mapping.TabWidth, "tab width", &p.TabWidth},
		{mapping.Kerf, "kerf", &p.Kerf},
	}
	for _, o := range optional {
		v, ok, errMsg := parseFloatCell(row, o.idx, rowLabel, o.column)
		if errMsg != "" {
			return BoxRow{}, errMsg, ""
		}
		if ok {
			*o.dst = v
		}
	}

	counts := []struct {
		idx    int
		column string
		dst    *int
	}{
		{mapping.DividersLength, "dividers length", &p.DividersLength},
		{mapping.DividersWidth, "dividers width", &p.DividersWidth},
	}
	for _, c := range counts {
		v, ok, errMsg := parseIntCell(row, c.idx, rowLabel, c.column)
		if errMsg != "" {
			return BoxRow{}, errMsg, ""
		}
		if ok {
			*c.dst = v
		}
	}

	qty, ok, errMsg := parseIntCell(row, mapping.Quantity, rowLabel, "quantity")
	if errMsg != "" {
		return BoxRow{}, errMsg, ""
	}
	if !ok {
		qty = 1
	}
	if qty <= 0 {
		return BoxRow{}, fmt.Sprintf("%s: Quantity must be positive", rowLabel), ""
	}

	var warning string
	if s := getCell(row, mapping.BoxType); s != "" {
		bt, err := model.ParseBoxType(s)
		if err != nil {
			warning = fmt.Sprintf("%s: Unknown box type '%s', defaulting to %s", rowLabel, s, base.BoxType)
		} else {
			p.BoxType = bt
		}
	}

	return BoxRow{Params: p, Quantity: qty}, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports boxes from a CSV file. Columns the sheet does not carry
// take their value from base.
func ImportCSV(path string, base model.BoxParams) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, base, "Line", result.Warnings)
}

// ImportCSVFromReader imports boxes from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, base model.BoxParams) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, base, "Line", nil)
}

// ImportExcel imports boxes from the first sheet of an Excel workbook.
func ImportExcel(path string, base model.BoxParams) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, base, "Row", nil)
}

// ImportFile picks the CSV or Excel reader by file extension.
func ImportFile(path string, base model.BoxParams) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls") {
		return ImportExcel(path, base)
	}
	return ImportCSV(path, base)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, base model.BoxParams, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 4 {
		// Unrecognized header: skip it but keep positional mapping
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		box, errMsg, warning := parseRow(row, mapping, base, rowLabel, len(result.Boxes))

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		box.Line = lineNum
		result.Boxes = append(result.Boxes, box)
	}

	return result
}
