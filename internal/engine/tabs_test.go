package engine

import (
	"encoding/json"
	"testing"

	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabTemplates_XYFullBox(t *testing.T) {
	tpl := tabTemplates(model.SymmetryXY, false, model.WallsFor(model.BoxFull))

	assert.Equal(t, model.EdgeFlags{}, tpl[PanelTop].Polarity)
	assert.Equal(t, model.AllEdges, tpl[PanelLeft].Polarity)
	assert.Equal(t, model.EdgeFlags{Top: true, Bottom: true}, tpl[PanelFront].Polarity)
	for p, v := range tpl {
		assert.Equal(t, model.AllEdges, v.Tabbed, p.String())
	}
}

func TestTabTemplates_MissingTopExternal(t *testing.T) {
	tpl := tabTemplates(model.SymmetryXY, false, model.WallsFor(model.BoxNoTop))

	assert.False(t, tpl[PanelBack].Tabbed.Bottom)
	assert.False(t, tpl[PanelBack].Polarity.Bottom)
	assert.False(t, tpl[PanelFront].Tabbed.Top)
	assert.False(t, tpl[PanelFront].Polarity.Top)
	assert.False(t, tpl[PanelLeft].Tabbed.Left)
	assert.False(t, tpl[PanelLeft].Polarity.Left)
	assert.False(t, tpl[PanelRight].Tabbed.Right)

	// Sides facing other walls keep their tabs.
	assert.True(t, tpl[PanelFront].Tabbed.Bottom)
	assert.True(t, tpl[PanelLeft].Polarity.Right)
	assert.Equal(t, model.AllEdges, tpl[PanelBottom].Tabbed)
}

func TestTabTemplates_MissingWallInternalUsesBaseLine(t *testing.T) {
	tpl := tabTemplates(model.SymmetryXY, true, model.WallsFor(model.BoxNoFrontBack))

	for _, p := range []Panel{PanelTop, PanelBottom, PanelLeft, PanelRight} {
		assert.False(t, tpl[p].Tabbed.Top, p.String())
		assert.False(t, tpl[p].Tabbed.Bottom, p.String())
		assert.True(t, tpl[p].Polarity.Top, p.String())
		assert.True(t, tpl[p].Polarity.Bottom, p.String())
	}
}

func TestTabTemplates_Antisymmetric(t *testing.T) {
	tpl := tabTemplates(model.SymmetryAntisymmetric, false, model.WallsFor(model.BoxFull))

	assert.Equal(t, model.EdgeFlags{Right: true, Bottom: true}, tpl[PanelTop].Polarity)
	assert.Equal(t, model.EdgeFlags{Top: true, Left: true}, tpl[PanelBack].Polarity)
}

func TestPanel_String(t *testing.T) {
	assert.Equal(t, "bottom", PanelBottom.String())
	assert.Equal(t, FaceFloor, faceOf(PanelTop))
	assert.Equal(t, FaceFrontBack, faceOf(PanelBack))
	assert.Equal(t, FaceSide, faceOf(PanelRight))
}

func TestFace_JSONDecodesWhatItEncodes(t *testing.T) {
	for _, f := range []Face{FaceFloor, FaceFrontBack, FaceSide, FaceDivider} {
		in := Placement{Name: "panel", Face: f, Width: 10, Height: 20}
		data, err := json.Marshal(in)
		require.NoError(t, err)

		var out Placement
		require.NoError(t, json.Unmarshal(data, &out), string(data))
		assert.Equal(t, f, out.Face, string(data))
	}

	var f Face
	assert.Error(t, f.UnmarshalText([]byte("lid")))
}

func TestGenerate_PlacementsDecode(t *testing.T) {
	res, err := New(testParams()).Generate()
	require.NoError(t, err)
	data, err := json.Marshal(res.Placements)
	require.NoError(t, err)

	var out []Placement
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out, len(res.Placements))
	for i := range out {
		assert.Equal(t, res.Placements[i].Face, out[i].Face)
		assert.Equal(t, res.Placements[i].Name, out[i].Name)
	}
}
