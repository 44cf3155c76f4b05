package engine

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/piwi3910/BoxCut/internal/design"
	"github.com/piwi3910/BoxCut/internal/model"
)

// Result is the complete cut geometry for one box.
type Result struct {
	DesignID   string             `json:"design_id"`
	Design     *design.Design     `json:"design"`
	Placements []Placement        `json:"placements"`
	Paths      []model.Path       `json:"paths"`
	Splits     []model.SplitPlan  `json:"splits,omitempty"`
	Pieces     []model.SplitPiece `json:"pieces,omitempty"`
	Warnings   []string           `json:"warnings,omitempty"`
}

// Bounds returns the canvas extents of all paths.
func (r *Result) Bounds() (min, max model.Point2D, ok bool) {
	return model.Bounds(r.Paths)
}

// PanelPaths returns the paths of one panel group in emission order.
func (r *Result) PanelPaths(group string) []model.Path {
	var out []model.Path
	for _, p := range r.Paths {
		if p.Group == group {
			out = append(out, p)
		}
	}
	return out
}

// Generator turns box parameters into cut paths.
type Generator struct {
	Params model.BoxParams
}

func New(params model.BoxParams) *Generator {
	return &Generator{Params: params}
}

// Generate validates the parameters completely, then lays out the panels,
// plans material splits and walks every panel edge. Panels are generated
// concurrently; paths are collected in placement order, so the output is
// identical from run to run.
func (g *Generator) Generate() (*Result, error) {
	d, err := design.New(g.Params)
	if err != nil {
		return nil, err
	}

	placements := Layout(d)
	splits, splitWarnings, err := PlanSplits(placements, d.Params)
	if err != nil {
		return nil, err
	}

	walker := newEdgeWalker(d.Params)
	stroke := d.Params.StrokeWidth()
	perPanel := make([][]model.Path, len(placements))

	var wg sync.WaitGroup
	for i, pl := range placements {
		wg.Add(1)
		go func(i int, pl Placement) {
			defer wg.Done()
			perPanel[i] = panelPaths(d, walker, pl, stroke)
		}(i, pl)
	}
	wg.Wait()

	var paths []model.Path
	for _, pp := range perPanel {
		paths = append(paths, pp...)
	}

	var pieces []model.SplitPiece
	for _, plan := range splits {
		for _, pl := range placements {
			if pl.Name == plan.Panel {
				pieces = append(pieces, SplitPieces(plan, pl.Width, pl.Height)...)
				break
			}
		}
	}

	warnings := append(append([]string(nil), d.Warnings...), splitWarnings...)
	return &Result{
		DesignID:   model.DesignID(d.Params),
		Design:     d,
		Placements: placements,
		Paths:      paths,
		Splits:     splits,
		Pieces:     pieces,
		Warnings:   warnings,
	}, nil
}

// tabDepth is the signed depth of the tabs on a side. Sides on the tab base
// line step outward, sides on the tip line step inward.
func tabDepth(tabbed, polarity bool, t, inward float64) float64 {
	if !tabbed {
		return 0
	}
	if polarity {
		return -inward * t
	}
	return inward * t
}

// panelPaths walks the four sides of a placement clockwise from the top
// left corner. The panel is grown by half a kerf on every side first.
func panelPaths(d *design.Design, w edgeWalker, pl Placement, stroke float64) []model.Path {
	p := d.Params
	t := p.Thickness
	hk := p.HalfKerf()

	x, y := pl.Root.X-hk, pl.Root.Y-hk
	dx, dy := pl.Width+p.Kerf, pl.Height+p.Kerf

	pol, tab := pl.Polarity, pl.Tabbed
	a, b, c, dd := b2f(pol.Top), b2f(pol.Right), b2f(pol.Bottom), b2f(pol.Left)

	sides := [4]EdgeSpec{
		{
			Root: r2.Vec{X: x, Y: y}, StartOffset: r2.Vec{X: dd, Y: a}, EndOffset: r2.Vec{X: -b, Y: a},
			TabVec: tabDepth(tab.Top, pol.Top, t, 1), PrevTab: tab.Left,
			Length: dx, Dir: r2.Vec{X: 1}, IsTab: pol.Top,
		},
		{
			Root: r2.Vec{X: x + dx, Y: y}, StartOffset: r2.Vec{X: -b, Y: a}, EndOffset: r2.Vec{X: -b, Y: -c},
			TabVec: tabDepth(tab.Right, pol.Right, t, -1), PrevTab: tab.Top,
			Length: dy, Dir: r2.Vec{Y: 1}, IsTab: pol.Right,
		},
		{
			Root: r2.Vec{X: x + dx, Y: y + dy}, StartOffset: r2.Vec{X: -b, Y: -c}, EndOffset: r2.Vec{X: dd, Y: -c},
			TabVec: tabDepth(tab.Bottom, pol.Bottom, t, -1), PrevTab: tab.Right,
			Length: dx, Dir: r2.Vec{X: -1}, IsTab: pol.Bottom,
		},
		{
			Root: r2.Vec{X: x, Y: y + dy}, StartOffset: r2.Vec{X: dd, Y: -c}, EndOffset: r2.Vec{X: dd, Y: a},
			TabVec: tabDepth(tab.Left, pol.Left, t, 1), PrevTab: tab.Bottom,
			Length: dy, Dir: r2.Vec{Y: -1}, IsTab: pol.Left,
		},
	}

	if pl.Divider == NotDivider {
		assignWallKeying(d, pl, &sides)
	} else {
		for i := range sides {
			sides[i].IsDivider = true
		}
		switch pl.Divider {
		case WidthDivider:
			sides[sideRight].Dividers = d.LengthDividers.Positions
		case LengthDivider:
			sides[sideTop].Dividers = d.WidthDividers.Positions
		}
	}

	var out []model.Path
	for _, s := range sides {
		ep := w.walk(s)
		for _, n := range ep.Notches {
			path := model.NewPolyline(pl.Name, n, stroke)
			path.Notch = true
			out = append(out, path)
		}
		out = append(out, model.NewPolyline(pl.Name, ep.Main, stroke))
	}
	return out
}

// assignWallKeying decides which sides of a box panel get holes for the
// divider tabs. Top and bottom sides carry holes for width dividers, the
// left and right sides for length dividers. Bottom and left only get holes
// when the opposite side has none.
func assignWallKeying(d *design.Design, pl Placement, sides *[4]EdgeSpec) {
	key := d.Params.KeyDividers
	floor := pl.Face == FaceFloor
	wall := !floor
	if !((key.Floor() || wall) && (key.Walls() || floor)) {
		return
	}
	yholes := pl.Face != FaceFrontBack
	xholes := pl.Face == FaceFloor || pl.Face == FaceFrontBack
	tab := pl.Tabbed

	if yholes && tab.Top {
		sides[sideTop].Dividers = d.WidthDividers.Positions
	}
	if xholes && tab.Right {
		sides[sideRight].Dividers = d.LengthDividers.Positions
	}
	if !tab.Top && yholes && tab.Bottom {
		sides[sideBottom].Dividers = d.WidthDividers.Positions
	}
	if !tab.Right && xholes && tab.Left {
		sides[sideLeft].Dividers = d.LengthDividers.Positions
	}
}
