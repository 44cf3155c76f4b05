package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWallsFor_Table(t *testing.T) {
	tests := []struct {
		name  string
		box   BoxType
		walls WallConfiguration
		count int
	}{
		{"full", BoxFull, WallConfiguration{true, true, true, true, true, true}, 6},
		{"no top", BoxNoTop, WallConfiguration{false, true, true, true, true, true}, 5},
		{"no top bottom", BoxNoTopBottom, WallConfiguration{false, false, true, true, true, true}, 4},
		{"no sides", BoxNoSides, WallConfiguration{false, false, true, true, false, false}, 2},
		{"no front back", BoxNoFrontBack, WallConfiguration{true, true, false, false, true, true}, 4},
		{"left bottom", BoxLeftBottom, WallConfiguration{false, true, false, false, true, false}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WallsFor(tt.box)
			assert.Equal(t, tt.walls, w)
			assert.Equal(t, tt.count, w.Count())
		})
	}
}

func TestParseEnums_NamesAndCodes(t *testing.T) {
	bt, err := ParseBoxType("no-top")
	require.NoError(t, err)
	assert.Equal(t, BoxNoTop, bt)

	bt, err = ParseBoxType("6")
	require.NoError(t, err)
	assert.Equal(t, BoxLeftBottom, bt)

	ls, err := ParseLayoutStyle("Three_Piece")
	require.NoError(t, err)
	assert.Equal(t, LayoutThreePiece, ls)

	kd, err := ParseKeyDividers("walls")
	require.NoError(t, err)
	assert.True(t, kd.Walls())
	assert.False(t, kd.Floor())

	_, err = ParseBoxType("7")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = ParseJoinType("glue")
	require.Error(t, err)
}

func TestKeyDividers_Flags(t *testing.T) {
	assert.True(t, KeyWallsAndFloor.Walls())
	assert.True(t, KeyWallsAndFloor.Floor())
	assert.True(t, KeyFloorOnly.Floor())
	assert.False(t, KeyFloorOnly.Walls())
	assert.False(t, KeyNone.Walls())
	assert.False(t, KeyNone.Floor())
}

func TestEnumString_Unknown(t *testing.T) {
	assert.Equal(t, "BoxType(9)", BoxType(9).String())
	assert.False(t, BoxType(9).Valid())
	assert.Equal(t, "waffle", SymmetryWaffle.String())
}

func TestEnumTextRoundTrip_ThroughBoxParams(t *testing.T) {
	var bt BoxType
	require.NoError(t, bt.UnmarshalText([]byte("no-front-back")))
	assert.Equal(t, BoxNoFrontBack, bt)
	text, err := bt.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "no-front-back", string(text))
}

func TestDesignID_Deterministic(t *testing.T) {
	a := DefaultBoxParams()
	b := DefaultBoxParams()
	b.Name = "renamed"
	assert.Equal(t, DesignID(a), DesignID(b), "name must not change the design id")

	c := DefaultBoxParams()
	c.Kerf = 0.2
	assert.NotEqual(t, DesignID(a), DesignID(c))
}

func TestStrokeWidth(t *testing.T) {
	p := DefaultBoxParams()
	assert.Equal(t, StrokeDefault, p.StrokeWidth())
	p.Hairline = true
	assert.InDelta(t, 0.0508, p.StrokeWidth(), 1e-9)
}

func TestFieldError_Classification(t *testing.T) {
	err := NewDimensionError("height", 18, BoundMin, 40)
	assert.True(t, errors.Is(err, ErrDimension))
	assert.True(t, IsDesignError(err))
	assert.Equal(t, "DIMENSION_ERROR", ErrorCode(err))
	assert.Contains(t, err.Error(), "height (18) must be at least 40")

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, BoundMin, fe.Bound)

	joinErr := &FieldError{Kind: ErrUnsupportedJoin, Field: "join_type", Message: "dovetail"}
	assert.True(t, errors.Is(joinErr, ErrUnsupportedJoin))
	assert.True(t, errors.Is(joinErr, ErrValidation))
	assert.Equal(t, "VALIDATION_ERROR", ErrorCode(joinErr))

	assert.Equal(t, "INTERNAL_ERROR", ErrorCode(errors.New("boom")))
}

func TestSplitPlan_PieceSize(t *testing.T) {
	plan := SplitPlan{Dimension: 900, Pieces: 3}
	assert.InDelta(t, 300.0, plan.PieceSize(), 1e-9)
}

func TestSplitPlan_JSONDecodesAxis(t *testing.T) {
	in := SplitPlan{Panel: "front", NeedsSplit: true, Axis: SplitAlongHeight, Pieces: 2}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"height"`)

	var out SplitPlan
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, SplitAlongHeight, out.Axis)

	var a SplitAxis
	assert.Error(t, a.UnmarshalText([]byte("depth")))
}
