package design

import (
	"math"

	"github.com/piwi3910/BoxCut/internal/model"
)

// Design is a validated box: resolved sizes, the wall map and the divider
// layout along both horizontal axes. It is immutable once built.
type Design struct {
	Params     model.BoxParams         `json:"params"`
	Walls      model.WallConfiguration `json:"walls"`
	Dimensions model.Dimensions        `json:"dimensions"`

	// LengthDividers sit at positions along X; WidthDividers along Y.
	LengthDividers model.DividerLayout `json:"length_dividers"`
	WidthDividers  model.DividerLayout `json:"width_dividers"`

	Warnings []string `json:"warnings,omitempty"`
}

// New validates p completely and resolves it into a Design. No partial
// design is ever returned.
func New(p model.BoxParams) (*Design, error) {
	warnings, err := Validate(p)
	if err != nil {
		return nil, err
	}

	dims, walls, err := Resolve(p.Length, p.Width, p.Height, p.Thickness, p.Mode, p.BoxType)
	if err != nil {
		return nil, err
	}

	if limit := math.Min(dims.ExternalX, math.Min(dims.ExternalY, dims.ExternalZ)) / 3; p.Kerf > limit {
		return nil, model.NewDimensionError("kerf", p.Kerf, model.BoundMax, limit)
	}
	if err := validateEdges(p, dims, walls); err != nil {
		return nil, err
	}

	customL, err := ParseCustomSizes("custom_length", p.CustomLength)
	if err != nil {
		return nil, err
	}
	customW, err := ParseCustomSizes("custom_width", p.CustomWidth)
	if err != nil {
		return nil, err
	}

	lengthDiv, err := PlanCompartments("length", dims.InternalX, p.Thickness, p.DividersLength, customL)
	if err != nil {
		return nil, err
	}
	widthDiv, err := PlanCompartments("width", dims.InternalY, p.Thickness, p.DividersWidth, customW)
	if err != nil {
		return nil, err
	}

	return &Design{
		Params:         p,
		Walls:          walls,
		Dimensions:     dims,
		LengthDividers: lengthDiv,
		WidthDividers:  widthDiv,
		Warnings:       warnings,
	}, nil
}
