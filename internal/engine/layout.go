package engine

import (
	"fmt"

	"github.com/piwi3910/BoxCut/internal/design"
	"github.com/piwi3910/BoxCut/internal/model"
)

// gridCell is a canvas offset expressed as multiples of the panel spacing
// and of the external X, Y and Z sizes.
type gridCell struct {
	S, X, Y, Z float64
}

func (c gridCell) resolve(spacing, x, y, z float64) float64 {
	return c.S*spacing + c.X*x + c.Y*y + c.Z*z
}

var (
	row0  = gridCell{1, 0, 0, 0}
	row1y = gridCell{2, 0, 1, 0}
	row1z = gridCell{2, 0, 0, 1}
	row2  = gridCell{3, 0, 1, 1}

	col0    = gridCell{1, 0, 0, 0}
	col1x   = gridCell{2, 1, 0, 0}
	col1z   = gridCell{2, 0, 0, 1}
	col2xx  = gridCell{3, 2, 0, 0}
	col2xz  = gridCell{3, 1, 0, 1}
	col3xzz = gridCell{4, 1, 0, 2}
	col3xxz = gridCell{4, 2, 0, 1}
	col4    = gridCell{5, 2, 0, 2}
	col5    = gridCell{6, 3, 0, 2}
)

// reduceOffsets removes the cell at start from the template by pulling every
// later cell back one spacing plus the removed panel's size.
func reduceOffsets(cells []gridCell, start int, dx, dy, dz float64) {
	for i := start + 1; i < len(cells); i++ {
		c := cells[i]
		cells[i] = gridCell{c.S - 1, c.X - dx, c.Y - dy, c.Z - dz}
	}
}

// DividerAxis says which axis a divider panel subdivides.
type DividerAxis int

const (
	NotDivider    DividerAxis = iota
	WidthDivider              // X×Z panel at a position along Y
	LengthDivider             // Z×Y panel at a position along X
)

// Placement is one panel positioned on the canvas. Root is the top-left
// corner before kerf compensation; Width and Height are its external size.
type Placement struct {
	Name     string          `json:"name"`
	Panel    Panel           `json:"-"`
	Face     Face            `json:"face"`
	Divider  DividerAxis     `json:"divider,omitempty"`
	Index    int             `json:"index,omitempty"` // divider number, 1-based
	Root     model.Point2D   `json:"root"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Polarity model.EdgeFlags `json:"polarity"`
	Tabbed   model.EdgeFlags `json:"tabbed"`
}

type slot struct {
	panel  Panel
	col    int
	row    int
	width  float64
	height float64
}

// Layout places every existing panel, then the divider panels on their own
// rows below, in a fixed order.
func Layout(d *design.Design) []Placement {
	p := d.Params
	w := d.Walls
	X, Y, Z := d.Dimensions.ExternalX, d.Dimensions.ExternalY, d.Dimensions.ExternalZ
	templates := tabTemplates(p.Symmetry, p.Mode == model.DimensionsInternal, w)

	var rows, cols []gridCell
	var slots []slot

	switch p.Layout {
	case model.LayoutThreePiece:
		rows = []gridCell{row0, row1y}
		cols = []gridCell{col0, col1z}
		slots = []slot{
			{PanelBack, 1, 1, X, Z},
			{PanelLeft, 0, 0, Z, Y},
			{PanelBottom, 1, 0, X, Y},
		}
	case model.LayoutInline:
		rows = []gridCell{row0}
		cols = []gridCell{col0, col1x, col2xx, col3xxz, col4, col5}
		if !w.Top {
			reduceOffsets(cols, 0, 1, 0, 0)
		}
		if !w.Bottom {
			reduceOffsets(cols, 1, 1, 0, 0)
		}
		if !w.Left {
			reduceOffsets(cols, 2, 0, 0, 1)
		}
		if !w.Right {
			reduceOffsets(cols, 3, 0, 0, 1)
		}
		if !w.Back {
			reduceOffsets(cols, 4, 1, 0, 0)
		}
		slots = []slot{
			{PanelBack, 4, 0, X, Z},
			{PanelLeft, 2, 0, Z, Y},
			{PanelTop, 0, 0, X, Y},
			{PanelBottom, 1, 0, X, Y},
			{PanelRight, 3, 0, Z, Y},
			{PanelFront, 5, 0, X, Z},
		}
	default:
		rows = []gridCell{row0, row1z, row2}
		cols = []gridCell{col0, col1z, col2xz, col3xzz}
		if !w.Front {
			reduceOffsets(rows, 0, 0, 0, 1)
		}
		if !w.Left {
			reduceOffsets(cols, 0, 0, 0, 1)
		}
		if !w.Right {
			reduceOffsets(cols, 2, 0, 0, 1)
		}
		slots = []slot{
			{PanelBack, 1, 2, X, Z},
			{PanelLeft, 0, 1, Z, Y},
			{PanelBottom, 1, 1, X, Y},
			{PanelRight, 2, 1, Z, Y},
			{PanelTop, 3, 1, X, Y},
			{PanelFront, 1, 0, X, Z},
		}
	}

	present := map[Panel]bool{
		PanelTop: w.Top, PanelBottom: w.Bottom, PanelFront: w.Front,
		PanelBack: w.Back, PanelLeft: w.Left, PanelRight: w.Right,
	}

	var placements []Placement
	for _, s := range slots {
		if !present[s.panel] {
			continue
		}
		tpl := templates[s.panel]
		placements = append(placements, Placement{
			Name:     s.panel.String(),
			Panel:    s.panel,
			Face:     faceOf(s.panel),
			Root:     model.Point2D{X: cols[s.col].resolve(p.Spacing, X, Y, Z), Y: rows[s.row].resolve(p.Spacing, X, Y, Z)},
			Width:    s.width,
			Height:   s.height,
			Polarity: tpl.Polarity,
			Tabbed:   tpl.Tabbed,
		})
	}

	return append(placements, dividerPlacements(d, templates)...)
}

// dividerPlacements lays out width dividers on one row and length dividers
// on the row below. Width dividers take the back panel's tabs and length
// dividers the left panel's. Sides that would key into a surface the
// dividers are not keyed into become plain base-line edges.
func dividerPlacements(d *design.Design, templates map[Panel]tabTemplate) []Placement {
	p := d.Params
	X, Y, Z := d.Dimensions.ExternalX, d.Dimensions.ExternalY, d.Dimensions.ExternalZ
	floor, walls := p.KeyDividers.Floor(), p.KeyDividers.Walls()

	var out []Placement

	wt := templates[PanelBack]
	// Top and bottom sides of a width divider meet the floor and ceiling.
	wt = unkey(wt, !floor, !walls)
	y := 4*p.Spacing + Y + 2*Z
	for n := 0; n < d.WidthDividers.Count; n++ {
		out = append(out, Placement{
			Name:     fmt.Sprintf("divider-w-%d", n+1),
			Face:     FaceDivider,
			Divider:  WidthDivider,
			Index:    n + 1,
			Root:     model.Point2D{X: float64(n) * (p.Spacing + X), Y: y},
			Width:    X,
			Height:   Z,
			Polarity: wt.Polarity,
			Tabbed:   wt.Tabbed,
		})
	}

	lt := templates[PanelLeft]
	// Top and bottom sides of a length divider meet the front and back.
	lt = unkey(lt, !walls, !floor)
	y = 5*p.Spacing + Y + 3*Z
	for n := 0; n < d.LengthDividers.Count; n++ {
		out = append(out, Placement{
			Name:     fmt.Sprintf("divider-l-%d", n+1),
			Face:     FaceDivider,
			Divider:  LengthDivider,
			Index:    n + 1,
			Root:     model.Point2D{X: float64(n) * (p.Spacing + Z), Y: y},
			Width:    Z,
			Height:   Y,
			Polarity: lt.Polarity,
			Tabbed:   lt.Tabbed,
		})
	}
	return out
}

// unkey straightens the top/bottom pair and the left/right pair of sides.
func unkey(t tabTemplate, topBottom, leftRight bool) tabTemplate {
	if topBottom {
		t.Polarity.Top, t.Polarity.Bottom = true, true
		t.Tabbed.Top, t.Tabbed.Bottom = false, false
	}
	if leftRight {
		t.Polarity.Left, t.Polarity.Right = true, true
		t.Tabbed.Left, t.Tabbed.Right = false, false
	}
	return t
}
