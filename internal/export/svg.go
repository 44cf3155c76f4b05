// Package export writes generated box geometry to cutter and shop formats:
// SVG and DXF for the cutter, a 1:1 PDF template, QR-coded panel labels and
// an Excel cut list.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/BoxCut/internal/engine"
	"github.com/piwi3910/BoxCut/internal/model"
)

// svgMargin is the blank border around the geometry in mm.
const svgMargin = 10.0

// num formats a coordinate with the shortest exact representation so
// output is stable for golden-file comparison.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PathData renders a polyline as SVG path data: "M x,y L x,y ...".
func PathData(o model.Outline) string {
	var sb strings.Builder
	for i, p := range o {
		if i == 0 {
			sb.WriteString("M ")
		} else {
			sb.WriteString(" L ")
		}
		sb.WriteString(num(p.X))
		sb.WriteByte(',')
		sb.WriteString(num(p.Y))
	}
	return sb.String()
}

// WriteSVG writes the result as a millimetre-sized SVG document with one
// group per panel.
func WriteSVG(w io.Writer, res *engine.Result) error {
	if res == nil || len(res.Paths) == 0 {
		return fmt.Errorf("no paths to export")
	}
	lo, hi, _ := res.Bounds()
	width := hi.X - lo.X + 2*svgMargin
	height := hi.Y - lo.Y + 2*svgMargin

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"no\"?>\n")
	fmt.Fprintf(bw, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%smm\" height=\"%smm\" viewBox=\"%s %s %s %s\">\n",
		num(width), num(height), num(lo.X-svgMargin), num(lo.Y-svgMargin), num(width), num(height))
	fmt.Fprintf(bw, "  <desc>design %s</desc>\n", res.DesignID)

	group := ""
	for _, p := range res.Paths {
		if p.Group != group {
			if group != "" {
				fmt.Fprintf(bw, "  </g>\n")
			}
			group = p.Group
			fmt.Fprintf(bw, "  <g id=\"%s\">\n", group)
		}
		style := fmt.Sprintf("stroke:#000000;stroke-width:%s;fill:none", num(p.StrokeWidth))
		switch p.Kind {
		case model.PathCircle:
			fmt.Fprintf(bw, "    <circle cx=\"%s\" cy=\"%s\" r=\"%s\" style=\"%s\"/>\n",
				num(p.Center.X), num(p.Center.Y), num(p.Radius), style)
		default:
			fmt.Fprintf(bw, "    <path d=\"%s\" style=\"%s\"/>\n", PathData(p.Points), style)
		}
	}
	if group != "" {
		fmt.Fprintf(bw, "  </g>\n")
	}
	fmt.Fprintf(bw, "</svg>\n")
	return bw.Flush()
}

// ExportSVG writes the result to an SVG file.
func ExportSVG(path string, res *engine.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create svg file: %w", err)
	}
	if err := WriteSVG(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
