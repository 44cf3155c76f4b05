package engine

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/piwi3910/BoxCut/internal/design"
	"github.com/piwi3910/BoxCut/internal/model"
)

// EdgeSpec describes one side of a panel. Offsets are in units of material
// thickness, so (1, 0) moves one thickness along +X.
type EdgeSpec struct {
	Root        r2.Vec
	StartOffset r2.Vec
	EndOffset   r2.Vec
	TabVec      float64 // signed tab depth, 0 for a straight edge
	PrevTab     bool    // the previous side is tabbed
	Length      float64
	Dir         r2.Vec // unit axis vector
	IsTab       bool   // the edge starts on its tab base line
	IsDivider   bool
	Dividers    []float64 // divider positions crossing this edge
}

// EdgePath is the cut geometry for one side.
type EdgePath struct {
	Main    model.Outline
	Notches []model.Outline
}

// edgeWalker holds the box-wide settings that shape every edge.
type edgeWalker struct {
	thickness    float64
	kerf         float64
	nominalTab   float64
	symmetry     model.TabSymmetry
	equalTabs    bool
	dogbone      float64
	dimpleHeight float64
	dimpleLength float64
}

func newEdgeWalker(p model.BoxParams) edgeWalker {
	return edgeWalker{
		thickness:    p.Thickness,
		kerf:         p.Kerf,
		nominalTab:   p.TabWidth,
		symmetry:     p.Symmetry,
		equalTabs:    p.EqualTabs,
		dogbone:      b2f(p.Dogbone()),
		dimpleHeight: p.DimpleHeight,
		dimpleLength: p.DimpleLength,
	}
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func pt(v r2.Vec) model.Point2D { return model.Point2D{X: v.X, Y: v.Y} }

// axisMask selects the axis perpendicular to dir.
func axisMask(dir r2.Vec) r2.Vec {
	return r2.Vec{X: b2f(dir.X == 0), Y: b2f(dir.Y == 0)}
}

func mul(a, b r2.Vec) r2.Vec { return r2.Vec{X: a.X * b.X, Y: a.Y * b.Y} }

// walk synthesizes the cut path for one edge. The main polyline alternates
// gaps and tabs along Dir, stepping TabVec across the edge at each
// boundary. Kerf widens tabs and narrows gaps, dogbone adds a half-kerf
// relief at inside corners, and a non-zero dimple height puts a friction
// bump on every tab flank. Divider keying notches come back separately.
func (w edgeWalker) walk(e EdgeSpec) EdgePath {
	t := w.thickness
	hk := w.kerf / 2
	dir := e.Dir
	notDir := axisMask(dir)
	dog := w.dogbone
	waffle := w.symmetry == model.SymmetryWaffle
	xy := w.symmetry == model.SymmetryXY
	hasDividers := len(e.Dividers) > 0

	divisions := design.EdgeDivisions(e.Length, w.nominalTab, t, w.symmetry)
	var tabs float64
	if waffle {
		tabs = float64(divisions) / 2
	} else {
		tabs = float64(divisions-1) / 2
	}

	var gapWidth, tabWidth float64
	switch {
	case waffle:
		gapWidth = (e.Length - 2*t) / float64(divisions)
		tabWidth = gapWidth
	case w.equalTabs:
		gapWidth = e.Length / float64(divisions)
		tabWidth = gapWidth
	default:
		tabWidth = w.nominalTab
		gapWidth = (e.Length - tabs*w.nominalTab) / (float64(divisions) - tabs)
	}

	var first float64
	if e.IsTab {
		gapWidth -= w.kerf
		tabWidth += w.kerf
		first = hk
	} else {
		gapWidth += w.kerf
		tabWidth -= w.kerf
		first = -hk
	}
	isTab := b2f(e.IsTab)
	notTab := 1 - isTab

	var out EdgePath
	var main model.Outline
	var firstHoleLen r2.Vec
	secondVec := e.TabVec
	endOffset := e.EndOffset
	dividerEdgeOffset := r2.Vec{X: t, Y: t}

	var vec r2.Vec
	if waffle {
		dividerEdgeOffset.X = dir.X * t
		start := e.Root
		if !(dir.X != 0 && e.PrevTab) {
			start.X += e.StartOffset.X * t
		}
		if !(dir.Y != 0 && e.PrevTab) {
			start.Y += e.StartOffset.Y * t
		}
		main = append(main, pt(start))
		lead := e.StartOffset
		if lead.X == 0 {
			lead.X = dir.X
		}
		if lead.Y == 0 {
			lead.Y = dir.Y
		}
		vec = r2.Add(e.Root, r2.Scale(t, lead))
		if notDir.X != 0 && e.TabVec != 0 {
			endOffset.X = 0
		}
		if notDir.Y != 0 && e.TabVec != 0 {
			endOffset.Y = 0
		}
	} else {
		vec = r2.Add(e.Root, r2.Scale(t, e.StartOffset))
		dividerEdgeOffset = r2.Vec{X: dir.Y * t, Y: dir.X * t}
		main = append(main, pt(vec))
		if notDir.X != 0 {
			vec.Y = e.Root.Y
		}
		if notDir.Y != 0 {
			vec.X = e.Root.X
		}
	}

	for div := 1; div < divisions; div++ {
		odd := div%2 == 1

		if odd == e.IsTab && hasDividers && !e.IsDivider {
			width := tabWidth
			if e.IsTab {
				width = gapWidth
			}
			if div == 1 && xy {
				width -= e.StartOffset.X * t
			}
			holeLen := r2.Add(r2.Scale(width, dir), r2.Scale(first, dir))
			if div == 1 {
				firstHoleLen = holeLen
			}
			across := mul(notDir, r2.Vec{X: secondVec - w.kerf, Y: secondVec + w.kerf})
			for _, pos := range e.Dividers {
				d := r2.Vec{
					X: vec.X - dir.Y*pos + notDir.X*hk + dir.X*dog*hk - dog*first*dir.X,
					Y: vec.Y + dir.X*pos - notDir.Y*hk + dir.Y*dog*hk - dog*first*dir.Y,
				}
				if div == 1 && xy {
					d.X += e.StartOffset.X * t
				}
				out.Notches = append(out.Notches, rectangle(d, holeLen, across))
			}
		}

		if odd {
			if div == 1 && hasDividers && e.IsDivider {
				along := r2.Scale(first+e.Length/2, dir)
				across := r2.Scale(t-w.kerf, notDir)
				for _, pos := range e.Dividers {
					d := r2.Add(vec, r2.Vec{X: -dir.Y * pos, Y: dir.X * pos})
					d = r2.Sub(d, dividerEdgeOffset)
					d = r2.Add(d, r2.Scale(hk, notDir))
					out.Notches = append(out.Notches, rectangle(d, along, across))
				}
			}

			// gap
			step := gapWidth + dog*w.kerf*isTab
			if !(e.IsTab && dog != 0) {
				step += first
			}
			vec = r2.Add(vec, r2.Scale(step, dir))
			main = append(main, pt(vec))
			if dog != 0 && e.IsTab {
				vec = r2.Sub(vec, r2.Scale(hk, dir))
				main = append(main, pt(vec))
			}
			main = append(main, w.dimple(secondVec, vec, dir, notDir, 1, e.IsTab)...)
			vec = r2.Add(vec, r2.Scale(secondVec, notDir))
			main = append(main, pt(vec))
			if dog != 0 && !e.IsTab {
				vec = r2.Sub(vec, r2.Scale(hk, dir))
				main = append(main, pt(vec))
			}
		} else {
			// tab
			vec = r2.Add(vec, r2.Scale(tabWidth+dog*w.kerf*notTab, dir))
			main = append(main, pt(vec))
			if dog != 0 && !e.IsTab {
				vec = r2.Sub(vec, r2.Scale(hk, dir))
				main = append(main, pt(vec))
			}
			main = append(main, w.dimple(secondVec, vec, dir, notDir, -1, e.IsTab)...)
			vec = r2.Add(vec, r2.Scale(secondVec, notDir))
			main = append(main, pt(vec))
			if dog != 0 && e.IsTab {
				vec = r2.Sub(vec, r2.Scale(hk, dir))
				main = append(main, pt(vec))
			}
		}
		secondVec = -secondVec
		first = 0
	}

	end := r2.Add(r2.Add(e.Root, r2.Scale(t, endOffset)), r2.Scale(e.Length, dir))
	main = append(main, pt(end))

	if e.IsTab && hasDividers && xy && !e.IsDivider {
		across := r2.Scale(t-w.kerf, notDir)
		for _, pos := range e.Dividers {
			d := r2.Vec{
				X: vec.X - dir.Y*pos + notDir.X*hk + dir.X*dog*hk - dog*first*dir.X,
				Y: vec.Y + dir.X*pos - dividerEdgeOffset.Y + notDir.Y*hk,
			}
			out.Notches = append(out.Notches, rectangle(d, firstHoleLen, across))
		}
	}

	out.Main = main
	return out
}

// rectangle traces a closed four-sided notch from origin: along a, across
// b, back along a and back across b.
func rectangle(origin, a, b r2.Vec) model.Outline {
	p1 := r2.Add(origin, a)
	p2 := r2.Add(p1, b)
	p3 := r2.Sub(p2, a)
	p4 := r2.Sub(p3, b)
	return model.Outline{pt(origin), pt(p1), pt(p2), pt(p3), pt(p4)}
}

// dimple returns the detour points of a friction bump on a tab flank. The
// walk position is not moved.
func (w edgeWalker) dimple(tabVec float64, v, dir, notDir r2.Vec, ddir float64, isTab bool) model.Outline {
	if !isTab {
		ddir = -ddir
	}
	if w.dimpleHeight <= 0 || tabVec == 0 {
		return nil
	}
	var start, sgn float64
	if tabVec > 0 {
		start = (tabVec-w.dimpleLength)/2 - w.dimpleHeight
		sgn = 1
	} else {
		start = (tabVec+w.dimpleLength)/2 + w.dimpleHeight
		sgn = -1
	}
	out := make(model.Outline, 0, 4)
	p := r2.Add(v, r2.Scale(start, notDir))
	out = append(out, pt(p))
	p = r2.Add(p, r2.Scale(w.dimpleHeight, r2.Sub(r2.Scale(sgn, notDir), r2.Scale(ddir, dir))))
	out = append(out, pt(p))
	p = r2.Add(p, r2.Scale(sgn*w.dimpleLength, notDir))
	out = append(out, pt(p))
	p = r2.Add(p, r2.Scale(w.dimpleHeight, r2.Add(r2.Scale(sgn, notDir), r2.Scale(ddir, dir))))
	out = append(out, pt(p))
	return out
}
