package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/BoxCut/internal/engine"
	"github.com/piwi3910/BoxCut/internal/model"
)

// panelColor represents an RGB stroke color for one panel.
type panelColor struct {
	R, G, B int
}

var panelColors = []panelColor{
	{R: 27, G: 94, B: 32},   // green
	{R: 13, G: 71, B: 161},  // blue
	{R: 230, G: 81, B: 0},   // orange
	{R: 106, G: 27, B: 154}, // purple
	{R: 0, G: 131, B: 143},  // cyan
	{R: 183, G: 28, B: 28},  // red
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm) for the summary page.
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	templateTop  = marginTop + headerHeight + 8.0
	scaleBarLen  = 50.0
)

// ExportPDF writes a 1:1 cut template followed by a summary page.
func ExportPDF(path string, res *engine.Result) error {
	pdf, err := buildPDF(res)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WritePDF writes the same document as ExportPDF to w.
func WritePDF(w io.Writer, res *engine.Result) error {
	pdf, err := buildPDF(res)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildPDF(res *engine.Result) (*fpdf.Fpdf, error) {
	if res == nil || res.Design == nil || len(res.Paths) == 0 {
		return nil, fmt.Errorf("no paths to export")
	}
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	lo, hi, _ := res.Bounds()
	w := hi.X - lo.X + marginLeft + marginRight
	h := hi.Y - lo.Y + templateTop + marginBottom
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: max(w, pageHeight), Ht: max(h, pageWidth)})
	renderTemplatePage(pdf, res, lo)

	pdf.AddPageFormat("L", fpdf.SizeType{Wd: pageHeight, Ht: pageWidth})
	renderSummaryPage(pdf, res)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return pdf, nil
}

// renderTemplatePage draws every path at true scale. Print without page
// scaling and check the scale bar before cutting.
func renderTemplatePage(pdf *fpdf.Fpdf, res *engine.Result, lo model.Point2D) {
	p := res.Design.Params
	d := res.Design.Dimensions

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s: %.1f x %.1f x %.1f mm, %.1f mm stock", boxTitle(p), d.ExternalX, d.ExternalY, d.ExternalZ, p.Thickness)
	pdf.CellFormat(200, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	info := fmt.Sprintf("Kerf %.2f mm | Tab %.1f mm | %s | %s | design %s",
		p.Kerf, p.TabWidth, p.TabType, p.Layout, res.DesignID)
	pdf.CellFormat(200, 5, info, "", 0, "L", false, 0, "")

	drawScaleBar(pdf, marginLeft+220, marginTop+headerHeight+2.5)

	ox := marginLeft - lo.X
	oy := templateTop - lo.Y

	colorIdx := map[string]int{}
	for _, pl := range res.Placements {
		colorIdx[pl.Name] = len(colorIdx)
	}

	for _, path := range res.Paths {
		col := panelColors[colorIdx[path.Group]%len(panelColors)]
		pdf.SetDrawColor(col.R, col.G, col.B)
		pdf.SetLineWidth(0.2)
		if path.Notch {
			pdf.SetDrawColor(200, 0, 0)
		}

		switch path.Kind {
		case model.PathCircle:
			pdf.Circle(ox+path.Center.X, oy+path.Center.Y, path.Radius, "D")
		default:
			for i := 1; i < len(path.Points); i++ {
				a, b := path.Points[i-1], path.Points[i]
				pdf.Line(ox+a.X, oy+a.Y, ox+b.X, oy+b.Y)
			}
		}
	}

	// Panel names at the placement centers
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(120, 120, 120)
	for _, pl := range res.Placements {
		labelW := pdf.GetStringWidth(pl.Name)
		cx := ox + pl.Root.X + pl.Width/2
		cy := oy + pl.Root.Y + pl.Height/2
		pdf.SetXY(cx-labelW/2, cy-2)
		pdf.CellFormat(labelW, 4, pl.Name, "", 0, "C", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
}

// drawScaleBar draws a reference bar of known length.
func drawScaleBar(pdf *fpdf.Fpdf, x, y float64) {
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Line(x, y, x+scaleBarLen, y)
	pdf.Line(x, y-1.5, x, y+1.5)
	pdf.Line(x+scaleBarLen, y-1.5, x+scaleBarLen, y+1.5)
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(x, y+1.5)
	pdf.CellFormat(scaleBarLen, 3, fmt.Sprintf("%.0f mm", scaleBarLen), "", 0, "C", false, 0, "")
}

// renderSummaryPage draws the parameter and panel tables.
func renderSummaryPage(pdf *fpdf.Fpdf, res *engine.Result) {
	p := res.Design.Params
	d := res.Design.Dimensions

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Box Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	items := []struct {
		label string
		value string
	}{
		{"External Size", fmt.Sprintf("%.1f x %.1f x %.1f mm", d.ExternalX, d.ExternalY, d.ExternalZ)},
		{"Internal Size", fmt.Sprintf("%.1f x %.1f x %.1f mm", d.InternalX, d.InternalY, d.InternalZ)},
		{"Box Type", p.BoxType.String()},
		{"Material Thickness", fmt.Sprintf("%.1f mm", p.Thickness)},
		{"Kerf", fmt.Sprintf("%.2f mm", p.Kerf)},
		{"Tabs", fmt.Sprintf("%.1f mm, %s, %s", p.TabWidth, p.Symmetry, p.TabType)},
		{"Dividers", fmt.Sprintf("%d along length, %d along width", p.DividersLength, p.DividersWidth)},
		{"Total Cut Length", fmt.Sprintf("%.0f mm", model.TotalCutLength(res.Paths))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(100, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Panels", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{45, 50, 30, 30, 45}
	headers := []string{"Panel", "Size", "Paths", "Notches", "Cut Length"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, pl := range res.Placements {
		paths := res.PanelPaths(pl.Name)
		notches := 0
		for _, path := range paths {
			if path.Notch {
				notches++
			}
		}
		row := []string{
			pl.Name,
			fmt.Sprintf("%.1f x %.1f mm", pl.Width, pl.Height),
			fmt.Sprintf("%d", len(paths)),
			fmt.Sprintf("%d", notches),
			fmt.Sprintf("%.0f mm", model.TotalCutLength(paths)),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
		if y > pageHeight-marginBottom-30 {
			break
		}
	}

	if len(res.Splits) > 0 {
		y += 6
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "Panels exceeding the material sheet", "", 0, "L", false, 0, "")
		y += 8
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, s := range res.Splits {
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s: %d pieces across the %s, %.1f mm overlap", s.Panel, s.Pieces, s.Axis, s.Overlap)
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	for _, w := range res.Warnings {
		y += 5
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(250, 5, "Note: "+w, "", 0, "L", false, 0, "")
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by BoxCut - tabbed box generator", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func boxTitle(p model.BoxParams) string {
	if p.Name != "" {
		return p.Name
	}
	return "Box"
}
