package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BoxCut/internal/model"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Name,Length,Width,Height\nTray,200,100,40\nBin,120,80,60\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Name;Length;Width;Height\nTray;200;100;40\nBin;120;80;60\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Name\tLength\tWidth\tHeight\nTray\t200\t100\t40\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	m, ok := DetectColumns([]string{"Name", "Length", "Width", "Height", "Thickness", "Qty"})
	if !ok {
		t.Fatal("expected header to be detected")
	}
	if m.Name != 0 || m.Length != 1 || m.Width != 2 || m.Height != 3 || m.Thickness != 4 || m.Quantity != 5 {
		t.Errorf("unexpected mapping: %+v", m)
	}
	if m.Kerf != -1 || m.BoxType != -1 {
		t.Errorf("absent columns should map to -1: %+v", m)
	}
}

func TestDetectColumns_AlternativeNames(t *testing.T) {
	m, ok := DetectColumns([]string{"BOX", "X", "Y", "Z", "Tab", "Kerf", "Div X", "Div Y", "Type"})
	if !ok {
		t.Fatal("expected header to be detected")
	}
	if m.Name != 0 || m.Length != 1 || m.Width != 2 || m.Height != 3 {
		t.Errorf("unexpected size mapping: %+v", m)
	}
	if m.TabWidth != 4 || m.Kerf != 5 || m.DividersLength != 6 || m.DividersWidth != 7 || m.BoxType != 8 {
		t.Errorf("unexpected option mapping: %+v", m)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	m, ok := DetectColumns([]string{"Tray", "200", "100", "40"})
	if ok {
		t.Fatal("numeric row should not be a header")
	}
	if m.Name != 0 || m.Length != 1 || m.Width != 2 || m.Height != 3 || m.Thickness != 4 || m.Quantity != 5 {
		t.Errorf("unexpected positional mapping: %+v", m)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Name,Length,Width,Height,Thickness,Qty\nTray,200,100,40,6,2\nBin,120,80,60,,\n"
	base := model.DefaultBoxParams()

	result := ImportCSVFromReader(strings.NewReader(data), ',', base)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d", len(result.Boxes))
	}

	tray := result.Boxes[0]
	if tray.Params.Name != "Tray" || tray.Params.Length != 200 || tray.Params.Width != 100 || tray.Params.Height != 40 {
		t.Errorf("unexpected tray params: %+v", tray.Params)
	}
	if tray.Params.Thickness != 6 {
		t.Errorf("expected thickness 6, got %v", tray.Params.Thickness)
	}
	if tray.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", tray.Quantity)
	}
	if tray.Line != 2 {
		t.Errorf("expected line 2, got %d", tray.Line)
	}

	bin := result.Boxes[1]
	if bin.Params.Thickness != base.Thickness {
		t.Errorf("empty thickness should keep the base %v, got %v", base.Thickness, bin.Params.Thickness)
	}
	if bin.Quantity != 1 {
		t.Errorf("empty quantity should default to 1, got %d", bin.Quantity)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "Tray,200,100,40\nBin,120,80,60\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', model.DefaultBoxParams())

	if len(result.Boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d (errors: %v)", len(result.Boxes), result.Errors)
	}
	if result.Boxes[1].Params.Height != 60 {
		t.Errorf("expected height 60, got %v", result.Boxes[1].Params.Height)
	}
}

func TestImportCSVFromReader_OptionColumns(t *testing.T) {
	data := "name;length;width;height;kerf;tab;dividers length;dividers width;box type\n" +
		"Drawer;300;200;80;0.1;12;2;1;no-top\n"
	result := ImportCSVFromReader(strings.NewReader(data), ';', model.DefaultBoxParams())

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	p := result.Boxes[0].Params
	if p.Kerf != 0.1 || p.TabWidth != 12 {
		t.Errorf("unexpected kerf/tab: %v/%v", p.Kerf, p.TabWidth)
	}
	if p.DividersLength != 2 || p.DividersWidth != 1 {
		t.Errorf("unexpected dividers: %d/%d", p.DividersLength, p.DividersWidth)
	}
	if p.BoxType != model.BoxNoTop {
		t.Errorf("expected no-top, got %v", p.BoxType)
	}
}

func TestImportCSVFromReader_UnknownBoxType(t *testing.T) {
	data := "Name,Length,Width,Height,Type\nTray,200,100,40,round\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', model.DefaultBoxParams())

	if len(result.Boxes) != 1 {
		t.Fatalf("expected 1 box, got %d", len(result.Boxes))
	}
	if result.Boxes[0].Params.BoxType != model.BoxFull {
		t.Errorf("unknown type should keep the base type, got %v", result.Boxes[0].Params.BoxType)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Unknown box type") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an unknown box type warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_InvalidValues(t *testing.T) {
	cases := []struct {
		name string
		row  string
	}{
		{"invalid length", "Tray,abc,100,40"},
		{"negative width", "Tray,200,-100,40"},
		{"zero height", "Tray,200,100,0"},
		{"missing height", "Tray,200,100,"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := "Name,Length,Width,Height\n" + tc.row + "\n"
			result := ImportCSVFromReader(strings.NewReader(data), ',', model.DefaultBoxParams())
			if len(result.Errors) == 0 {
				t.Error("expected an error")
			}
			if len(result.Boxes) != 0 {
				t.Errorf("expected no boxes, got %d", len(result.Boxes))
			}
		})
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	data := "Name,Length,Width\nTray,200,100\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', model.DefaultBoxParams())

	if len(result.Errors) == 0 {
		t.Fatal("expected error for missing height column")
	}
	if !strings.Contains(result.Errors[0], "Height") {
		t.Errorf("error should name the missing column: %s", result.Errors[0])
	}
}

func TestImportCSVFromReader_EmptyRowsAndNames(t *testing.T) {
	data := "Name,Length,Width,Height\n,200,100,40\n\n,,,\nBin,120,80,60\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', model.DefaultBoxParams())

	if len(result.Boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d (errors: %v)", len(result.Boxes), result.Errors)
	}
	if result.Boxes[0].Params.Name != "Box 1" {
		t.Errorf("expected generated name 'Box 1', got %q", result.Boxes[0].Params.Name)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',', model.DefaultBoxParams())
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boxes.csv")
	content := "Name;Length;Width;Height\nTray;200;100;40\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path, model.DefaultBoxParams())
	if len(result.Boxes) != 1 {
		t.Fatalf("expected 1 box, got %d (errors: %v)", len(result.Boxes), result.Errors)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected semicolon detection warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/boxes.csv", model.DefaultBoxParams())
	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "boxes.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Length", "Width", "Height", "Qty"},
		{"Tray", 200, 100, 40, 3},
		{"Bin", 120, 80, 60, 1},
	})

	result := ImportExcel(path, model.DefaultBoxParams())

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d", len(result.Boxes))
	}
	if result.Boxes[0].Params.Name != "Tray" || result.Boxes[0].Quantity != 3 {
		t.Errorf("unexpected first box: %+v", result.Boxes[0])
	}
}

func TestImportFile_PicksReaderByExtension(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Height", "Width", "Length"},
		{40, 100, 200},
	})

	result := ImportFile(path, model.DefaultBoxParams())
	if len(result.Boxes) != 1 {
		t.Fatalf("expected 1 box, got %d (errors: %v)", len(result.Boxes), result.Errors)
	}
	p := result.Boxes[0].Params
	if p.Length != 200 || p.Width != 100 || p.Height != 40 {
		t.Errorf("reordered columns mapped wrongly: %v x %v x %v", p.Length, p.Width, p.Height)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/file.xlsx", model.DefaultBoxParams())
	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}
