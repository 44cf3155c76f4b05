package engine

import (
	"fmt"

	"github.com/piwi3910/BoxCut/internal/model"
)

// Panel identifies one of the six box faces.
type Panel int

const (
	PanelTop Panel = iota
	PanelBottom
	PanelFront
	PanelBack
	PanelLeft
	PanelRight
)

var panelNames = [...]string{"top", "bottom", "front", "back", "left", "right"}

func (p Panel) String() string { return panelNames[p] }

// Face groups panels by the role they play for divider keying.
type Face int

const (
	FaceFloor     Face = iota + 1 // top and bottom
	FaceFrontBack                 // front and back walls
	FaceSide                      // left and right walls
	FaceDivider
)

var faceNames = map[Face]string{
	FaceFloor:     "floor",
	FaceFrontBack: "front-back",
	FaceSide:      "side",
	FaceDivider:   "divider",
}

func (f Face) String() string {
	if name, ok := faceNames[f]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the face by name.
func (f Face) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText decodes a face name.
func (f *Face) UnmarshalText(b []byte) error {
	for face, name := range faceNames {
		if name == string(b) {
			*f = face
			return nil
		}
	}
	return fmt.Errorf("unknown face %q", string(b))
}

func faceOf(p Panel) Face {
	switch p {
	case PanelTop, PanelBottom:
		return FaceFloor
	case PanelFront, PanelBack:
		return FaceFrontBack
	default:
		return FaceSide
	}
}

// tabTemplate is the per-side tab setup of one panel. Polarity set means the
// side is drawn on its tab base line and starts with a tab; Tabbed clear
// means the side is a straight edge.
type tabTemplate struct {
	Polarity model.EdgeFlags
	Tabbed   model.EdgeFlags
}

type side int

const (
	sideTop side = iota
	sideRight
	sideBottom
	sideLeft
)

func setSide(f *model.EdgeFlags, s side, v bool) {
	switch s {
	case sideTop:
		f.Top = v
	case sideRight:
		f.Right = v
	case sideBottom:
		f.Bottom = v
	case sideLeft:
		f.Left = v
	}
}

func flags(top, right, bottom, left bool) model.EdgeFlags {
	return model.EdgeFlags{Top: top, Right: right, Bottom: bottom, Left: left}
}

// basePolarity returns the polarity table for a symmetry mode before any
// missing walls are taken into account.
func basePolarity(sym model.TabSymmetry) map[Panel]model.EdgeFlags {
	switch sym {
	case model.SymmetryAntisymmetric:
		return map[Panel]model.EdgeFlags{
			PanelTop:    flags(false, true, true, false),
			PanelBottom: flags(true, true, false, false),
			PanelLeft:   flags(true, true, false, false),
			PanelRight:  flags(false, true, true, false),
			PanelFront:  flags(true, true, false, false),
			PanelBack:   flags(true, false, false, true),
		}
	case model.SymmetryWaffle:
		return map[Panel]model.EdgeFlags{
			PanelTop: model.AllEdges, PanelBottom: model.AllEdges,
			PanelLeft: model.AllEdges, PanelRight: model.AllEdges,
			PanelFront: model.AllEdges, PanelBack: model.AllEdges,
		}
	default:
		return map[Panel]model.EdgeFlags{
			PanelTop:    {},
			PanelBottom: {},
			PanelLeft:   model.AllEdges,
			PanelRight:  model.AllEdges,
			PanelFront:  flags(true, false, true, false),
			PanelBack:   flags(true, false, true, false),
		}
	}
}

// neighbour is a side of another panel that meets a given wall.
type neighbour struct {
	panel Panel
	side  side
}

// missingWallSides lists, per wall, the sides of the other panels that lose
// their tabs when that wall is absent.
var missingWallSides = map[Panel][]neighbour{
	PanelTop: {
		{PanelBack, sideBottom}, {PanelFront, sideTop}, {PanelLeft, sideLeft}, {PanelRight, sideRight},
	},
	PanelBottom: {
		{PanelBack, sideTop}, {PanelFront, sideBottom}, {PanelLeft, sideRight}, {PanelRight, sideLeft},
	},
	PanelFront: {
		{PanelTop, sideTop}, {PanelBottom, sideTop}, {PanelLeft, sideTop}, {PanelRight, sideTop},
	},
	PanelBack: {
		{PanelTop, sideBottom}, {PanelBottom, sideBottom}, {PanelLeft, sideBottom}, {PanelRight, sideBottom},
	},
	PanelLeft: {
		{PanelTop, sideRight}, {PanelBottom, sideLeft}, {PanelBack, sideLeft}, {PanelFront, sideLeft},
	},
	PanelRight: {
		{PanelTop, sideLeft}, {PanelBottom, sideRight}, {PanelBack, sideRight}, {PanelFront, sideRight},
	},
}

// tabTemplates builds the tab setup of all six panels. Sides that would mate
// with a missing wall become straight edges drawn on the tab base line for
// internal dimensions and on the tab tip line for external ones.
func tabTemplates(sym model.TabSymmetry, inside bool, walls model.WallConfiguration) map[Panel]tabTemplate {
	polarity := basePolarity(sym)
	out := make(map[Panel]tabTemplate, len(polarity))
	for p, pol := range polarity {
		out[p] = tabTemplate{Polarity: pol, Tabbed: model.AllEdges}
	}

	present := map[Panel]bool{
		PanelTop: walls.Top, PanelBottom: walls.Bottom,
		PanelFront: walls.Front, PanelBack: walls.Back,
		PanelLeft: walls.Left, PanelRight: walls.Right,
	}
	for _, missing := range []Panel{PanelTop, PanelBottom, PanelFront, PanelBack, PanelLeft, PanelRight} {
		if present[missing] {
			continue
		}
		for _, n := range missingWallSides[missing] {
			tpl := out[n.panel]
			setSide(&tpl.Tabbed, n.side, false)
			setSide(&tpl.Polarity, n.side, inside)
			out[n.panel] = tpl
		}
	}
	return out
}
