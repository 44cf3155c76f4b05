package design

import (
	"errors"
	"testing"

	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_ExternalFullBox(t *testing.T) {
	d, walls, err := Resolve(100, 80, 50, 3, model.DimensionsExternal, model.BoxFull)
	require.NoError(t, err)
	assert.Equal(t, 6, walls.Count())
	assert.InDelta(t, 94.0, d.InternalX, 1e-9)
	assert.InDelta(t, 74.0, d.InternalY, 1e-9)
	assert.InDelta(t, 44.0, d.InternalZ, 1e-9)
	assert.InDelta(t, 100.0, d.ExternalX, 1e-9)
}

func TestResolve_InternalNoTop(t *testing.T) {
	d, walls, err := Resolve(100, 80, 50, 3, model.DimensionsInternal, model.BoxNoTop)
	require.NoError(t, err)
	assert.False(t, walls.Top)
	assert.InDelta(t, 106.0, d.ExternalX, 1e-9)
	assert.InDelta(t, 86.0, d.ExternalY, 1e-9)
	assert.InDelta(t, 53.0, d.ExternalZ, 1e-9, "only the bottom adds thickness")
}

func TestResolve_NoSidesKeepsHeight(t *testing.T) {
	d, _, err := Resolve(100, 80, 50, 3, model.DimensionsExternal, model.BoxNoSides)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, d.InternalX, 1e-9, "no left/right walls bound X")
	assert.InDelta(t, 74.0, d.InternalY, 1e-9)
	assert.InDelta(t, 50.0, d.InternalZ, 1e-9, "no top/bottom walls bound Z")
}

func TestResolve_Errors(t *testing.T) {
	_, _, err := Resolve(0, 80, 50, 3, model.DimensionsExternal, model.BoxFull)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDimension))

	_, _, err = Resolve(100, 80, 50, 0, model.DimensionsExternal, model.BoxFull)
	assert.True(t, errors.Is(err, model.ErrMaterial))

	_, _, err = Resolve(100, 80, 50, 25, model.DimensionsExternal, model.BoxFull)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrMaterial))
	var fe *model.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, model.BoundMax, fe.Bound)
	assert.InDelta(t, 25.0, fe.Limit, 1e-9)
}

func TestResolve_SpacingInvariantAllBoxTypes(t *testing.T) {
	boxTypes := []model.BoxType{
		model.BoxFull, model.BoxNoTop, model.BoxNoTopBottom,
		model.BoxNoSides, model.BoxNoFrontBack, model.BoxLeftBottom,
	}
	for _, bt := range boxTypes {
		for _, mode := range []model.DimensionMode{model.DimensionsExternal, model.DimensionsInternal} {
			t.Run(bt.String()+"/"+mode.String(), func(t *testing.T) {
				p := model.DefaultBoxParams()
				p.Length, p.Width, p.Height = 200, 150, 90
				p.BoxType = bt
				p.Mode = mode
				p.TabWidth = 15
				p.DividersLength = 3
				p.DividersWidth = 2
				p.CustomWidth = "40"

				d, err := New(p)
				require.NoError(t, err)
				assert.InDelta(t, d.Dimensions.InternalX, sum(d.LengthDividers.Spacing), 0.001)
				assert.InDelta(t, d.Dimensions.InternalY, sum(d.WidthDividers.Spacing), 0.001)
			})
		}
	}
}
