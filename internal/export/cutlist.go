package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BoxCut/internal/engine"
	"github.com/piwi3910/BoxCut/internal/model"
)

// Sheet names in the cut list workbook.
const (
	sheetPanels       = "Panels"
	sheetSplits       = "Splits"
	sheetCompartments = "Compartments"
	sheetSummary      = "Summary"
	sheetNesting      = "Nesting"
)

// ExportCutList writes the panel cut list as an Excel workbook.
func ExportCutList(path string, res *engine.Result) error {
	f, err := buildCutList(res)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteCutList writes the same workbook as ExportCutList to w.
func WriteCutList(w io.Writer, res *engine.Result) error {
	f, err := buildCutList(res)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// CutListPanels returns the panel sizes the material estimate is based on.
// Split panels count once per piece.
func CutListPanels(res *engine.Result) []model.PanelSize {
	var sizes []model.PanelSize
	for _, pl := range res.Placements {
		split := false
		for _, piece := range res.Pieces {
			if piece.Panel == pl.Name {
				split = true
				sizes = append(sizes, model.PanelSize{
					Label:  fmt.Sprintf("%s %d/%d", pl.Name, piece.Index+1, piece.Total),
					Width:  piece.Width,
					Height: piece.Height,
				})
			}
		}
		if !split {
			sizes = append(sizes, model.PanelSize{Label: pl.Name, Width: pl.Width, Height: pl.Height})
		}
	}
	return sizes
}

func buildCutList(res *engine.Result) (*excelize.File, error) {
	if res == nil || res.Design == nil || len(res.Placements) == 0 {
		return nil, fmt.Errorf("no panels to export")
	}

	f := excelize.NewFile()
	// NewFile starts with "Sheet1"; rename it so the first tab is the panel list.
	if err := f.SetSheetName("Sheet1", sheetPanels); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{sheetSplits, sheetCompartments, sheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
	}

	writers := []func(*excelize.File, *engine.Result) error{
		writePanelSheet,
		writeSplitSheet,
		writeCompartmentSheet,
		writeSummarySheet,
	}
	if p := res.Design.Params; p.MaxMaterialWidth > 0 && p.MaxMaterialHeight > 0 {
		if _, err := f.NewSheet(sheetNesting); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %q: %w", sheetNesting, err)
		}
		writers = append(writers, writeNestingSheet)
	}
	for _, write := range writers {
		if err := write(f, res); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func writePanelSheet(f *excelize.File, res *engine.Result) error {
	t := res.Design.Params.Thickness
	if err := setRow(f, sheetPanels, 1, "Panel", "Face", "Width (mm)", "Height (mm)", "Thickness (mm)", "Pieces", "Notches", "Cut Length (mm)"); err != nil {
		return err
	}
	for i, pl := range res.Placements {
		paths := res.PanelPaths(pl.Name)
		notches := 0
		for _, p := range paths {
			if p.Notch {
				notches++
			}
		}
		pieces := 1
		for _, s := range res.Splits {
			if s.Panel == pl.Name {
				pieces = s.Pieces
			}
		}
		if err := setRow(f, sheetPanels, i+2,
			pl.Name, pl.Face.String(), round1(pl.Width), round1(pl.Height), t,
			pieces, notches, round1(model.TotalCutLength(paths))); err != nil {
			return err
		}
	}
	return nil
}

func writeSplitSheet(f *excelize.File, res *engine.Result) error {
	if err := setRow(f, sheetSplits, 1, "Panel", "Piece", "Of", "Axis", "Offset (mm)", "Width (mm)", "Height (mm)", "Overlap (mm)"); err != nil {
		return err
	}
	overlap := map[string]float64{}
	for _, s := range res.Splits {
		overlap[s.Panel] = s.Overlap
	}
	axis := map[string]string{}
	for _, s := range res.Splits {
		axis[s.Panel] = s.Axis.String()
	}
	for i, piece := range res.Pieces {
		if err := setRow(f, sheetSplits, i+2,
			piece.Panel, piece.Index, piece.Total, axis[piece.Panel], round1(piece.Offset),
			round1(piece.Width), round1(piece.Height), round1(overlap[piece.Panel])); err != nil {
			return err
		}
	}
	return nil
}

func writeCompartmentSheet(f *excelize.File, res *engine.Result) error {
	if err := setRow(f, sheetCompartments, 1, "Axis", "Index", "Size (mm)", "Divider Position (mm)"); err != nil {
		return err
	}
	row := 2
	axes := []struct {
		name   string
		layout model.DividerLayout
	}{
		{"length", res.Design.LengthDividers},
		{"width", res.Design.WidthDividers},
	}
	for _, a := range axes {
		for i, size := range a.layout.CompartmentSizes {
			values := []any{a.name, i + 1, round1(size)}
			if i < len(a.layout.Positions) {
				values = append(values, round1(a.layout.Positions[i]))
			}
			if err := setRow(f, sheetCompartments, row, values...); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, res *engine.Result) error {
	p := res.Design.Params
	d := res.Design.Dimensions
	est := model.EstimateMaterial(CutListPanels(res), p.MaxMaterialWidth, p.MaxMaterialHeight, p.Kerf, 15)

	rows := [][]any{
		{"Design", res.DesignID},
		{"Box Type", p.BoxType.String()},
		{"External Size (mm)", fmt.Sprintf("%.1f x %.1f x %.1f", d.ExternalX, d.ExternalY, d.ExternalZ)},
		{"Internal Size (mm)", fmt.Sprintf("%.1f x %.1f x %.1f", d.InternalX, d.InternalY, d.InternalZ)},
		{"Thickness (mm)", p.Thickness},
		{"Kerf (mm)", p.Kerf},
		{"Panels", len(res.Placements)},
		{"Total Cut Length (mm)", round1(model.TotalCutLength(res.Paths))},
		{"Panel Area (sq mm)", round1(est.TotalPanelArea)},
		{"Board Feet", round1(est.TotalBoardFeet)},
	}
	if est.SheetArea > 0 {
		rows = append(rows,
			[]any{"Sheets Needed", est.SheetsNeededMin},
			[]any{"Sheets With Waste", est.SheetsWithWaste},
		)
		if nest, err := engine.Nest(CutListPanels(res), p.MaxMaterialWidth, p.MaxMaterialHeight, p.Kerf); err == nil {
			rows = append(rows, []any{"Sheets Nested", len(nest.Sheets)})
		}
	}
	for _, w := range res.Warnings {
		rows = append(rows, []any{"Warning", w})
	}
	for i, r := range rows {
		if err := setRow(f, sheetSummary, i+1, r...); err != nil {
			return err
		}
	}
	return nil
}

// writeNestingSheet lays the cut list out on stock sheets of the maximum
// material size, one row per placed panel.
func writeNestingSheet(f *excelize.File, res *engine.Result) error {
	p := res.Design.Params
	nest, err := engine.Nest(CutListPanels(res), p.MaxMaterialWidth, p.MaxMaterialHeight, p.Kerf)
	if err != nil {
		return err
	}
	if err := setRow(f, sheetNesting, 1, "Sheet", "Panel", "X (mm)", "Y (mm)", "Width (mm)", "Height (mm)", "Rotated", "Sheet Use (%)"); err != nil {
		return err
	}
	row := 2
	for i, sheet := range nest.Sheets {
		use := round1(sheet.Efficiency())
		for _, pl := range sheet.Placements {
			if err := setRow(f, sheetNesting, row, i+1, pl.Label, round1(pl.X), round1(pl.Y),
				round1(pl.Width), round1(pl.Height), pl.Rotated, use); err != nil {
				return err
			}
			row++
		}
	}
	for _, u := range nest.Unplaced {
		if err := setRow(f, sheetNesting, row, "unplaced", u.Label, "", "", round1(u.Width), round1(u.Height)); err != nil {
			return err
		}
		row++
	}
	return nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
