package model

import (
	"fmt"
	"strconv"
	"strings"
)

// BoxType selects one of the six fixed wall-presence patterns.
type BoxType int

const (
	BoxFull        BoxType = iota + 1 // fully enclosed
	BoxNoTop                          // one side open
	BoxNoTopBottom                    // open top and bottom
	BoxNoSides                        // only front and back remain
	BoxNoFrontBack                    // opposite ends open
	BoxLeftBottom                     // only left and bottom panels
)

var boxTypeNames = map[BoxType]string{
	BoxFull:        "full",
	BoxNoTop:       "no-top",
	BoxNoTopBottom: "no-top-bottom",
	BoxNoSides:     "no-sides",
	BoxNoFrontBack: "no-front-back",
	BoxLeftBottom:  "left-bottom",
}

// LayoutStyle selects how panels are arranged on the canvas.
type LayoutStyle int

const (
	LayoutDiagrammatic LayoutStyle = iota + 1 // unfolded box
	LayoutThreePiece                          // back, left and bottom only
	LayoutInline                              // single compact row
)

var layoutNames = map[LayoutStyle]string{
	LayoutDiagrammatic: "diagrammatic",
	LayoutThreePiece:   "three-piece",
	LayoutInline:       "inline",
}

// TabSymmetry governs tab counts and mirroring across a panel.
type TabSymmetry int

const (
	SymmetryXY            TabSymmetry = iota // standard
	SymmetryWaffle                           // rotationally symmetric
	SymmetryAntisymmetric                    // deprecated
)

var symmetryNames = map[TabSymmetry]string{
	SymmetryXY:            "xy",
	SymmetryWaffle:        "waffle",
	SymmetryAntisymmetric: "antisymmetric",
}

// TabType selects laser tabs or dogbone-relieved tabs for milling.
type TabType int

const (
	TabLaser TabType = iota
	TabCNC
)

var tabTypeNames = map[TabType]string{
	TabLaser: "laser",
	TabCNC:   "cnc",
}

// KeyDividers selects which panels get keying notches for dividers.
type KeyDividers int

const (
	KeyWallsAndFloor KeyDividers = iota
	KeyFloorOnly
	KeyWallsOnly
	KeyNone
)

var keyDividerNames = map[KeyDividers]string{
	KeyWallsAndFloor: "walls-and-floor",
	KeyWallsOnly:     "walls",
	KeyFloorOnly:     "floor",
	KeyNone:          "none",
}

// Walls reports whether dividers key into the side walls.
func (k KeyDividers) Walls() bool { return k == KeyWallsAndFloor || k == KeyWallsOnly }

// Floor reports whether dividers key into the floor and ceiling.
func (k KeyDividers) Floor() bool { return k == KeyWallsAndFloor || k == KeyFloorOnly }

// JoinType selects how split pieces are joined back together.
type JoinType int

const (
	JoinOverlap JoinType = iota
	JoinSquares
	JoinDovetail
	JoinFinger
)

var joinTypeNames = map[JoinType]string{
	JoinOverlap:  "overlap",
	JoinSquares:  "squares",
	JoinDovetail: "dovetail",
	JoinFinger:   "finger",
}

// Implemented reports whether the join has geometry support.
func (j JoinType) Implemented() bool { return j == JoinOverlap }

// DimensionMode says whether the entered dimensions are inside or outside
// measurements.
type DimensionMode int

const (
	DimensionsExternal DimensionMode = iota
	DimensionsInternal
)

var dimensionModeNames = map[DimensionMode]string{
	DimensionsExternal: "external",
	DimensionsInternal: "internal",
}

func (t BoxType) String() string       { return enumString("BoxType", t, boxTypeNames) }
func (l LayoutStyle) String() string   { return enumString("LayoutStyle", l, layoutNames) }
func (s TabSymmetry) String() string   { return enumString("TabSymmetry", s, symmetryNames) }
func (t TabType) String() string       { return enumString("TabType", t, tabTypeNames) }
func (k KeyDividers) String() string   { return enumString("KeyDividers", k, keyDividerNames) }
func (j JoinType) String() string      { return enumString("JoinType", j, joinTypeNames) }
func (m DimensionMode) String() string { return enumString("DimensionMode", m, dimensionModeNames) }

func (t BoxType) Valid() bool       { _, ok := boxTypeNames[t]; return ok }
func (l LayoutStyle) Valid() bool   { _, ok := layoutNames[l]; return ok }
func (s TabSymmetry) Valid() bool   { _, ok := symmetryNames[s]; return ok }
func (t TabType) Valid() bool       { _, ok := tabTypeNames[t]; return ok }
func (k KeyDividers) Valid() bool   { _, ok := keyDividerNames[k]; return ok }
func (j JoinType) Valid() bool      { _, ok := joinTypeNames[j]; return ok }
func (m DimensionMode) Valid() bool { _, ok := dimensionModeNames[m]; return ok }

// ParseBoxType accepts a name ("no-top") or the numeric code ("2").
func ParseBoxType(s string) (BoxType, error) { return parseEnum("box_type", s, boxTypeNames) }

// ParseLayoutStyle accepts a name or numeric code.
func ParseLayoutStyle(s string) (LayoutStyle, error) { return parseEnum("layout", s, layoutNames) }

// ParseTabSymmetry accepts a name or numeric code.
func ParseTabSymmetry(s string) (TabSymmetry, error) {
	return parseEnum("tab_symmetry", s, symmetryNames)
}

// ParseTabType accepts a name or numeric code.
func ParseTabType(s string) (TabType, error) { return parseEnum("tab_type", s, tabTypeNames) }

// ParseKeyDividers accepts a name or numeric code.
func ParseKeyDividers(s string) (KeyDividers, error) {
	return parseEnum("key_dividers", s, keyDividerNames)
}

// ParseJoinType accepts a name or numeric code.
func ParseJoinType(s string) (JoinType, error) { return parseEnum("join_type", s, joinTypeNames) }

// ParseDimensionMode accepts a name or numeric code.
func ParseDimensionMode(s string) (DimensionMode, error) {
	return parseEnum("dimension_mode", s, dimensionModeNames)
}

func (t BoxType) MarshalText() ([]byte, error)       { return []byte(t.String()), nil }
func (l LayoutStyle) MarshalText() ([]byte, error)   { return []byte(l.String()), nil }
func (s TabSymmetry) MarshalText() ([]byte, error)   { return []byte(s.String()), nil }
func (t TabType) MarshalText() ([]byte, error)       { return []byte(t.String()), nil }
func (k KeyDividers) MarshalText() ([]byte, error)   { return []byte(k.String()), nil }
func (j JoinType) MarshalText() ([]byte, error)      { return []byte(j.String()), nil }
func (m DimensionMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (t *BoxType) UnmarshalText(b []byte) error       { return unmarshalEnum(t, b, ParseBoxType) }
func (l *LayoutStyle) UnmarshalText(b []byte) error   { return unmarshalEnum(l, b, ParseLayoutStyle) }
func (s *TabSymmetry) UnmarshalText(b []byte) error   { return unmarshalEnum(s, b, ParseTabSymmetry) }
func (t *TabType) UnmarshalText(b []byte) error       { return unmarshalEnum(t, b, ParseTabType) }
func (k *KeyDividers) UnmarshalText(b []byte) error   { return unmarshalEnum(k, b, ParseKeyDividers) }
func (j *JoinType) UnmarshalText(b []byte) error      { return unmarshalEnum(j, b, ParseJoinType) }
func (m *DimensionMode) UnmarshalText(b []byte) error { return unmarshalEnum(m, b, ParseDimensionMode) }

func enumString[T ~int](typ string, v T, names map[T]string) string {
	if name, ok := names[v]; ok {
		return name
	}
	return fmt.Sprintf("%s(%d)", typ, int(v))
}

func parseEnum[T ~int](field, s string, names map[T]string) (T, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "_", "-")
	for v, name := range names {
		if name == key {
			return v, nil
		}
	}
	if n, err := strconv.Atoi(key); err == nil {
		if _, ok := names[T(n)]; ok {
			return T(n), nil
		}
	}
	return 0, NewValidationError(field, "unknown %s %q", strings.ReplaceAll(field, "_", " "), s)
}

func unmarshalEnum[T ~int](dst *T, b []byte, parse func(string) (T, error)) error {
	v, err := parse(string(b))
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
