// Package design resolves box parameters into pure geometry: external and
// internal sizes, the wall map and divider layouts. Nothing here knows about
// kerf or tabs beyond validating them.
package design

import (
	"math"

	"github.com/piwi3910/BoxCut/internal/model"
)

// Resolve converts user dimensions into internal and external sizes for the
// given box type. Each axis gains or loses one thickness per bounding wall
// that exists: left/right bound X, front/back bound Y, bottom/top bound Z.
func Resolve(length, width, height, thickness float64, mode model.DimensionMode, boxType model.BoxType) (model.Dimensions, model.WallConfiguration, error) {
	walls := model.WallsFor(boxType)

	for _, d := range []struct {
		field string
		value float64
	}{{"length", length}, {"width", width}, {"height", height}} {
		if d.value <= 0 {
			return model.Dimensions{}, walls, model.NewDimensionError(d.field, d.value, model.BoundMin, 0)
		}
	}
	if thickness <= 0 {
		return model.Dimensions{}, walls, model.NewMaterialError(thickness, "material thickness (%g) must be positive", thickness)
	}
	if limit := math.Min(length, math.Min(width, height)) / 2; thickness >= limit {
		return model.Dimensions{}, walls, &model.FieldError{
			Kind: model.ErrMaterial, Field: "thickness", Value: thickness, Bound: model.BoundMax, Limit: limit,
			Message: "material thickness must be less than half the smallest dimension",
		}
	}

	cx := thickness * float64(count(walls.Left, walls.Right))
	cy := thickness * float64(count(walls.Front, walls.Back))
	cz := thickness * float64(count(walls.Bottom, walls.Top))

	var d model.Dimensions
	if mode == model.DimensionsInternal {
		d = model.Dimensions{
			InternalX: length, InternalY: width, InternalZ: height,
			ExternalX: length + cx, ExternalY: width + cy, ExternalZ: height + cz,
		}
	} else {
		d = model.Dimensions{
			ExternalX: length, ExternalY: width, ExternalZ: height,
			InternalX: length - cx, InternalY: width - cy, InternalZ: height - cz,
		}
	}

	checks := []struct {
		field    string
		internal float64
		bounded  bool
	}{
		{"length_internal", d.InternalX, walls.Left || walls.Right},
		{"width_internal", d.InternalY, walls.Front || walls.Back},
		{"height_internal", d.InternalZ, walls.Bottom || walls.Top},
	}
	for _, c := range checks {
		if c.bounded && c.internal <= 0 {
			err := model.NewDimensionError(c.field, c.internal, model.BoundMin, 0)
			err.Message = "internal size too small after accounting for wall thickness; need at least " +
				formatMM(thickness*2+0.1) + " external"
			return model.Dimensions{}, walls, err
		}
	}
	return d, walls, nil
}

func count(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
