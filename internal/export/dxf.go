package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/piwi3910/BoxCut/internal/engine"
	"github.com/piwi3910/BoxCut/internal/model"
)

// ExportDXF writes the result as a DXF drawing. Every panel gets its own
// layer; polylines become LINE entities and circles CIRCLE entities. The
// Y axis is mirrored so the drawing reads the same way up as the SVG.
func ExportDXF(path string, res *engine.Result) error {
	if res == nil || len(res.Paths) == 0 {
		return fmt.Errorf("no paths to export")
	}
	lo, hi, _ := res.Bounds()
	flip := func(y float64) float64 { return hi.Y + lo.Y - y }

	d := dxf.NewDrawing()
	layer := ""
	for i, p := range res.Paths {
		if p.Group != layer {
			layer = p.Group
			cl := dxf.DefaultColor
			if strings.HasPrefix(layer, "divider") {
				cl = color.Cyan
			}
			if _, err := d.AddLayer(layer, cl, dxf.DefaultLineType, true); err != nil {
				if err := d.ChangeLayer(layer); err != nil {
					return fmt.Errorf("failed to select layer %q: %w", layer, err)
				}
			}
		}

		switch p.Kind {
		case model.PathCircle:
			if _, err := d.Circle(p.Center.X, flip(p.Center.Y), 0, p.Radius); err != nil {
				return fmt.Errorf("failed to add circle %d: %w", i, err)
			}
		default:
			for j := 1; j < len(p.Points); j++ {
				a, b := p.Points[j-1], p.Points[j]
				if math.Hypot(b.X-a.X, b.Y-a.Y) < 1e-9 {
					continue
				}
				if _, err := d.Line(a.X, flip(a.Y), 0, b.X, flip(b.Y), 0); err != nil {
					return fmt.Errorf("failed to add line in path %d: %w", i, err)
				}
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write dxf file: %w", err)
	}
	return nil
}
