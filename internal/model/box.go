package model

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Default box parameters.
const (
	DefaultLength            = 100.0
	DefaultWidth             = 100.0
	DefaultHeight            = 100.0
	DefaultTabWidth          = 25.0
	DefaultThickness         = 3.0
	DefaultKerf              = 0.5
	DefaultSpacing           = 25.0
	DefaultOverlapMultiplier = 3.0
)

// BoxParams is the flat, pre-validated parameter set for one box. All
// lengths are in mm.
type BoxParams struct {
	Name string `json:"name,omitempty"`

	Length    float64       `json:"length"`
	Width     float64       `json:"width"`
	Height    float64       `json:"height"`
	Thickness float64       `json:"thickness"`
	Mode      DimensionMode `json:"dimension_mode"`
	BoxType   BoxType       `json:"box_type"`
	Layout    LayoutStyle   `json:"layout"`

	Kerf         float64     `json:"kerf"`
	TabWidth     float64     `json:"tab_width"`
	Symmetry     TabSymmetry `json:"tab_symmetry"`
	EqualTabs    bool        `json:"equal_tabs"`
	TabType      TabType     `json:"tab_type"`
	DimpleHeight float64     `json:"dimple_height"`
	DimpleLength float64     `json:"dimple_length"`

	// Divider counts per axis and optional "40;60,5" compartment sizes.
	DividersLength int         `json:"dividers_length"`
	DividersWidth  int         `json:"dividers_width"`
	CustomLength   string      `json:"custom_length,omitempty"`
	CustomWidth    string      `json:"custom_width,omitempty"`
	KeyDividers    KeyDividers `json:"key_dividers"`

	// Material sheet limits, 0 = unlimited.
	MaxMaterialWidth  float64  `json:"max_material_width"`
	MaxMaterialHeight float64  `json:"max_material_height"`
	OverlapMultiplier float64  `json:"overlap_multiplier"`
	JoinType          JoinType `json:"join_type"`

	Spacing  float64 `json:"spacing"`  // gap between panels on the canvas
	Hairline bool    `json:"hairline"` // emit hairline strokes for laser drivers
}

// DefaultBoxParams returns a fully enclosed 100mm cube in 3mm stock.
func DefaultBoxParams() BoxParams {
	return BoxParams{
		Length:            DefaultLength,
		Width:             DefaultWidth,
		Height:            DefaultHeight,
		Thickness:         DefaultThickness,
		Mode:              DimensionsExternal,
		BoxType:           BoxFull,
		Layout:            LayoutDiagrammatic,
		Kerf:              DefaultKerf,
		TabWidth:          DefaultTabWidth,
		Symmetry:          SymmetryXY,
		TabType:           TabLaser,
		KeyDividers:       KeyNone,
		OverlapMultiplier: DefaultOverlapMultiplier,
		JoinType:          JoinOverlap,
		Spacing:           DefaultSpacing,
	}
}

// Dogbone reports whether inside corners get milling relief.
func (p BoxParams) Dogbone() bool { return p.TabType == TabCNC }

// HalfKerf is the compensation applied to one side of a cut.
func (p BoxParams) HalfKerf() float64 { return p.Kerf / 2 }

// StrokeWidth is the style hint attached to every emitted path.
func (p BoxParams) StrokeWidth() float64 {
	if p.Hairline {
		return StrokeHairline
	}
	return StrokeDefault
}

// designNamespace scopes deterministic design IDs.
var designNamespace = uuid.MustParse("6f1c2a4e-3d55-4b0e-9a57-0b6f3c9d2e11")

// DesignID returns a stable identifier for a parameter set: identical
// parameters always produce the same ID. The name does not take part.
func DesignID(p BoxParams) string {
	p.Name = ""
	data, err := json.Marshal(p)
	if err != nil {
		return uuid.Nil.String()
	}
	return uuid.NewSHA1(designNamespace, data).String()
}

// WallConfiguration records which of the six panels exist.
type WallConfiguration struct {
	Top    bool `json:"top"`
	Bottom bool `json:"bottom"`
	Front  bool `json:"front"`
	Back   bool `json:"back"`
	Left   bool `json:"left"`
	Right  bool `json:"right"`
}

// WallsFor returns the fixed wall table entry for a box type.
func WallsFor(t BoxType) WallConfiguration {
	w := WallConfiguration{Top: true, Bottom: true, Front: true, Back: true, Left: true, Right: true}
	switch t {
	case BoxNoTop:
		w.Top = false
	case BoxNoTopBottom:
		w.Top, w.Bottom = false, false
	case BoxNoSides:
		w.Top, w.Bottom, w.Left, w.Right = false, false, false, false
	case BoxNoFrontBack:
		w.Front, w.Back = false, false
	case BoxLeftBottom:
		w.Top, w.Front, w.Back, w.Right = false, false, false, false
	}
	return w
}

// Count returns how many walls exist.
func (w WallConfiguration) Count() int {
	n := 0
	for _, b := range []bool{w.Top, w.Bottom, w.Front, w.Back, w.Left, w.Right} {
		if b {
			n++
		}
	}
	return n
}

// Dimensions holds the resolved external and internal size per axis. X is
// length, Y is width and Z is height.
type Dimensions struct {
	ExternalX float64 `json:"external_x"`
	ExternalY float64 `json:"external_y"`
	ExternalZ float64 `json:"external_z"`
	InternalX float64 `json:"internal_x"`
	InternalY float64 `json:"internal_y"`
	InternalZ float64 `json:"internal_z"`
}

// DividerLayout describes dividers and compartments along one axis.
type DividerLayout struct {
	Count            int       `json:"count"`
	Positions        []float64 `json:"positions"`
	CompartmentSizes []float64 `json:"compartment_sizes"`
	Spacing          []float64 `json:"spacing"`
	CustomSizes      []float64 `json:"custom_sizes,omitempty"`
}

// EdgeFlags holds one flag per panel side. Sides are named by their
// position on the canvas: Top runs +X from the root, Right runs +Y, Bottom
// runs -X and Left runs -Y.
type EdgeFlags struct {
	Top    bool `json:"top"`
	Right  bool `json:"right"`
	Bottom bool `json:"bottom"`
	Left   bool `json:"left"`
}

// AllEdges has every flag set.
var AllEdges = EdgeFlags{Top: true, Right: true, Bottom: true, Left: true}

// SplitAxis is the panel dimension a split cuts across.
type SplitAxis int

const (
	SplitAlongWidth SplitAxis = iota
	SplitAlongHeight
)

func (a SplitAxis) String() string {
	if a == SplitAlongHeight {
		return "height"
	}
	return "width"
}

// MarshalText encodes the axis by name.
func (a SplitAxis) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText decodes an axis name.
func (a *SplitAxis) UnmarshalText(b []byte) error {
	switch string(b) {
	case "width":
		*a = SplitAlongWidth
	case "height":
		*a = SplitAlongHeight
	default:
		return fmt.Errorf("unknown split axis %q", string(b))
	}
	return nil
}

// SplitPlan says how one oversized panel is cut into overlapping pieces.
type SplitPlan struct {
	Panel        string    `json:"panel"`
	NeedsSplit   bool      `json:"needs_split"`
	Axis         SplitAxis `json:"axis"`
	Dimension    float64   `json:"dimension"` // panel size along Axis
	Limit        float64   `json:"limit"`     // material limit along Axis
	Pieces       int       `json:"pieces"`
	Overlap      float64   `json:"overlap"`
	CutPositions []float64 `json:"cut_positions"`
	MinPiece     float64   `json:"min_piece"`
	JoinType     JoinType  `json:"join_type"`
}

// PieceSize is the nominal size of each piece before overlap.
func (s SplitPlan) PieceSize() float64 {
	if s.Pieces == 0 {
		return s.Dimension
	}
	return s.Dimension / float64(s.Pieces)
}

// SplitPiece is one physical piece of a split panel.
type SplitPiece struct {
	Panel  string  `json:"panel"`
	Index  int     `json:"index"`
	Total  int     `json:"total"`
	Offset float64 `json:"offset"` // start along the split axis
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	First  bool    `json:"first"`
	Last   bool    `json:"last"`
}
