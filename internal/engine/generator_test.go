package engine

import (
	"errors"
	"testing"

	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, p model.BoxParams) *Result {
	t.Helper()
	res, err := New(p).Generate()
	require.NoError(t, err)
	return res
}

func notchCount(paths []model.Path) int {
	n := 0
	for _, p := range paths {
		if p.Notch {
			n++
		}
	}
	return n
}

func TestGenerate_FullBoxFourSidesPerPanel(t *testing.T) {
	res := generate(t, testParams())

	require.Len(t, res.Placements, 6)
	assert.Len(t, res.Paths, 6*4)
	assert.Equal(t, 0, notchCount(res.Paths))
	assert.NotEmpty(t, res.DesignID)
	assert.Nil(t, res.Splits)
}

func TestGenerate_PanelBoundsFollowKerf(t *testing.T) {
	for _, kerf := range []float64{0, 0.2, 0.5} {
		p := testParams()
		p.Kerf = kerf
		res := generate(t, p)

		for _, pl := range res.Placements {
			lo, hi, ok := model.Bounds(res.PanelPaths(pl.Name))
			require.True(t, ok, pl.Name)
			assert.InDelta(t, pl.Root.X-kerf/2, lo.X, 1e-9, "%s kerf %g", pl.Name, kerf)
			assert.InDelta(t, pl.Root.Y-kerf/2, lo.Y, 1e-9, "%s kerf %g", pl.Name, kerf)
			assert.InDelta(t, pl.Root.X+pl.Width+kerf/2, hi.X, 1e-9, "%s kerf %g", pl.Name, kerf)
			assert.InDelta(t, pl.Root.Y+pl.Height+kerf/2, hi.Y, 1e-9, "%s kerf %g", pl.Name, kerf)
		}
	}
}

func TestGenerate_KerfKeepsTopology(t *testing.T) {
	p := testParams()
	p.Kerf = 0
	a := generate(t, p)
	p.Kerf = 0.2
	b := generate(t, p)

	require.Equal(t, len(a.Paths), len(b.Paths))
	assert.NotEqual(t, a.Paths[0].Points, b.Paths[0].Points)
	for i := range a.Paths {
		assert.Len(t, b.Paths[i].Points, len(a.Paths[i].Points))
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	p := testParams()
	p.Kerf = 0.3
	p.DividersWidth = 2
	p.DividersLength = 1
	p.KeyDividers = model.KeyWallsAndFloor
	p.TabType = model.TabCNC

	a := generate(t, p)
	b := generate(t, p)
	assert.Equal(t, a.Paths, b.Paths)
	assert.Equal(t, a.DesignID, b.DesignID)
}

func TestGenerate_DividerKeying(t *testing.T) {
	p := testParams()
	p.DividersWidth = 1
	p.KeyDividers = model.KeyWallsAndFloor
	res := generate(t, p)

	require.Len(t, res.Placements, 7)
	assert.Equal(t, 2, notchCount(res.PanelPaths("bottom")))
	assert.Equal(t, 0, notchCount(res.PanelPaths("front")))
	assert.Positive(t, notchCount(res.PanelPaths("left")))
	assert.Len(t, res.PanelPaths("divider-w-1"), 4)

	p.KeyDividers = model.KeyNone
	res = generate(t, p)
	assert.Equal(t, 0, notchCount(res.Paths))
}

func TestGenerate_NotchesHaveAreaWithoutKerf(t *testing.T) {
	p := testParams()
	p.Kerf = 0
	p.DividersWidth = 2
	p.DividersLength = 1
	res := generate(t, p)

	for _, path := range res.Paths {
		if !path.Notch {
			continue
		}
		lo, hi := path.Points.BoundingBox()
		assert.Greater(t, hi.X-lo.X, 0.0, path.Group)
		assert.Greater(t, hi.Y-lo.Y, 0.0, path.Group)
	}
	assert.Positive(t, notchCount(res.Paths))
}

func TestGenerate_CrossedDividersGetSlots(t *testing.T) {
	p := testParams()
	p.DividersWidth = 1
	p.DividersLength = 2
	p.KeyDividers = model.KeyNone
	res := generate(t, p)

	assert.Equal(t, 2, notchCount(res.PanelPaths("divider-w-1")))
	assert.Equal(t, 1, notchCount(res.PanelPaths("divider-l-1")))
}

func TestGenerate_HairlineStroke(t *testing.T) {
	p := testParams()
	p.Hairline = true
	res := generate(t, p)
	for _, path := range res.Paths {
		assert.InDelta(t, model.StrokeHairline, path.StrokeWidth, 1e-12)
	}
}

func TestGenerate_InvalidProducesNoResult(t *testing.T) {
	p := testParams()
	p.Thickness = 30

	res, err := New(p).Generate()
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, model.IsDesignError(err))
	assert.True(t, errors.Is(err, model.ErrMaterial))
}

func TestGenerate_MaterialSplits(t *testing.T) {
	p := testParams()
	p.MaxMaterialWidth = 90
	res := generate(t, p)

	// back, bottom, top and front are 100mm wide.
	require.Len(t, res.Splits, 4)
	assert.Len(t, res.Pieces, 8)
	for _, plan := range res.Splits {
		assert.Equal(t, model.SplitAlongWidth, plan.Axis)
		assert.Equal(t, 2, plan.Pieces)
	}
}

func TestGenerate_AllBoxTypesAndLayouts(t *testing.T) {
	types := []model.BoxType{model.BoxFull, model.BoxNoTop, model.BoxNoTopBottom,
		model.BoxNoSides, model.BoxNoFrontBack, model.BoxLeftBottom}
	layouts := []model.LayoutStyle{model.LayoutDiagrammatic, model.LayoutThreePiece, model.LayoutInline}

	for _, bt := range types {
		for _, ls := range layouts {
			p := testParams()
			p.BoxType = bt
			p.Layout = ls
			p.Kerf = 0.1
			res, err := New(p).Generate()
			require.NoError(t, err, "%s/%s", bt, ls)
			for _, path := range res.Paths {
				assert.NotEmpty(t, path.Points, "%s/%s %s", bt, ls, path.Group)
			}
		}
	}
}
