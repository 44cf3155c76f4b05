package design

import (
	"fmt"
	"math"

	"github.com/piwi3910/BoxCut/internal/model"
)

// Limits applied by Validate. Values are in mm unless noted.
const (
	MinDimension       = 40.0
	MaxDimension       = 10000.0
	MinThickness       = 0.1
	MaxThickness       = 50.0
	MinTabWidth        = 2.0
	MaxKerf            = 10.0
	MaxDividers        = 20
	MaxDimple          = 100.0
	minTabRatio        = 0.5  // tab/thickness below this is rejected
	recommendedMinTab  = 1.0  // below this a warning is issued
	recommendedMaxTab  = 8.0  // above this a note is issued
	maxTabRatio        = 20.0 // above this is rejected
	openTopClearance   = 5.0  // extra height allowed over 2×thickness without a top
	maxMaterialLimitMM = 10000.0
)

// Validate checks a parameter set before anything is resolved. Hard
// failures return a *model.FieldError; soft findings come back as warnings.
func Validate(p model.BoxParams) ([]string, error) {
	var warnings []string

	if err := validateEnums(p); err != nil {
		return nil, err
	}

	walls := model.WallsFor(p.BoxType)
	for _, d := range []struct {
		field string
		value float64
	}{{"length", p.Length}, {"width", p.Width}, {"height", p.Height}} {
		min := MinDimension
		if d.field == "height" && !walls.Top {
			min = p.Thickness*2 + openTopClearance
		}
		if d.value < min {
			return nil, model.NewDimensionError(d.field, d.value, model.BoundMin, min)
		}
		if d.value > MaxDimension {
			return nil, model.NewDimensionError(d.field, d.value, model.BoundMax, MaxDimension)
		}
	}

	if p.Thickness < MinThickness {
		return nil, model.NewMaterialError(p.Thickness, "material thickness (%g) must be at least %gmm", p.Thickness, MinThickness)
	}
	if p.Thickness > MaxThickness {
		return nil, model.NewMaterialError(p.Thickness, "material thickness (%g) must be no more than %gmm", p.Thickness, MaxThickness)
	}

	if p.TabWidth < MinTabWidth {
		return nil, model.NewTabError(p.TabWidth, "tab width (%g) must be at least %gmm", p.TabWidth, MinTabWidth)
	}
	if min := p.Thickness * minTabRatio; p.TabWidth < min {
		return nil, model.NewTabError(p.TabWidth,
			"tab width (%gmm) is too small; minimum is %gmm (thickness %gmm × %g)", p.TabWidth, min, p.Thickness, minTabRatio)
	}
	if p.TabWidth < p.Thickness*recommendedMinTab {
		warnings = append(warnings, fmt.Sprintf(
			"tab width (%gmm) is less than the recommended minimum (%gmm); tabs may be weak", p.TabWidth, p.Thickness*recommendedMinTab))
	}

	relevant := math.Min(p.Length, p.Width)
	if walls.Top || walls.Bottom {
		relevant = math.Min(relevant, p.Height)
	}
	maxTab := relevant / 3
	if p.TabWidth > maxTab {
		return nil, model.NewTabError(p.TabWidth,
			"tab width (%gmm) is too large for smallest relevant dimension (%gmm); maximum is %.1fmm", p.TabWidth, relevant, maxTab)
	}
	if p.TabWidth > p.Thickness*maxTabRatio {
		return nil, model.NewTabError(p.TabWidth,
			"tab width (%gmm) is excessively large (%.1fx thickness)", p.TabWidth, p.TabWidth/p.Thickness)
	}
	if p.TabWidth > p.Thickness*recommendedMaxTab {
		warnings = append(warnings, fmt.Sprintf(
			"large tab width (%gmm) is %.1fx material thickness", p.TabWidth, p.TabWidth/p.Thickness))
	}

	if p.Thickness >= relevant/2 {
		return nil, model.NewMaterialError(p.Thickness,
			"material thickness (%g) is too large for smallest relevant dimension (%g)", p.Thickness, relevant)
	}
	if p.Thickness > relevant/3 {
		return nil, model.NewMaterialError(p.Thickness,
			"material thickness (%g) is too large to create valid tabs; max is %.1fmm for a %gmm dimension", p.Thickness, relevant/3, relevant)
	}

	if p.Kerf < 0 {
		return nil, model.NewDimensionError("kerf", p.Kerf, model.BoundMin, 0)
	}
	if p.Kerf > MaxKerf {
		return nil, model.NewDimensionError("kerf", p.Kerf, model.BoundMax, MaxKerf)
	}
	if p.Spacing < p.Kerf {
		return nil, model.NewDimensionError("spacing", p.Spacing, model.BoundMin, p.Kerf)
	}

	for _, d := range []struct {
		field string
		value int
	}{{"dividers_length", p.DividersLength}, {"dividers_width", p.DividersWidth}} {
		if d.value < 0 || d.value > MaxDividers {
			return nil, model.NewValidationError(d.field, "divider count %d must be between 0 and %d", d.value, MaxDividers)
		}
	}
	for _, d := range []struct {
		field string
		value float64
	}{{"dimple_height", p.DimpleHeight}, {"dimple_length", p.DimpleLength}} {
		if d.value < 0 {
			return nil, model.NewDimensionError(d.field, d.value, model.BoundMin, 0)
		}
		if d.value > MaxDimple {
			return nil, model.NewDimensionError(d.field, d.value, model.BoundMax, MaxDimple)
		}
	}

	for _, d := range []struct {
		field string
		value float64
	}{{"max_material_width", p.MaxMaterialWidth}, {"max_material_height", p.MaxMaterialHeight}} {
		if d.value < 0 {
			return nil, model.NewDimensionError(d.field, d.value, model.BoundMin, 0)
		}
		if d.value > maxMaterialLimitMM {
			return nil, model.NewDimensionError(d.field, d.value, model.BoundMax, maxMaterialLimitMM)
		}
	}

	if !p.JoinType.Implemented() {
		return nil, &model.FieldError{
			Kind: model.ErrUnsupportedJoin, Field: "join_type",
			Message: fmt.Sprintf("%s joins are not implemented; use overlap", p.JoinType),
		}
	}

	return warnings, nil
}

func validateEnums(p model.BoxParams) error {
	checks := []struct {
		field string
		ok    bool
		value fmt.Stringer
	}{
		{"box_type", p.BoxType.Valid(), p.BoxType},
		{"layout", p.Layout.Valid(), p.Layout},
		{"dimension_mode", p.Mode.Valid(), p.Mode},
		{"tab_symmetry", p.Symmetry.Valid(), p.Symmetry},
		{"tab_type", p.TabType.Valid(), p.TabType},
		{"key_dividers", p.KeyDividers.Valid(), p.KeyDividers},
		{"join_type", p.JoinType.Valid(), p.JoinType},
	}
	for _, c := range checks {
		if !c.ok {
			return model.NewValidationError(c.field, "unknown %s %s", c.field, c.value)
		}
	}
	return nil
}

// EdgeDivisions returns the number of tab/gap divisions for an edge.
// Waffle edges lose one thickness at each end and get an even count;
// every other symmetry gets an odd count so the edge starts and ends on a
// tab. A result below one means the edge is too short for the tab width.
func EdgeDivisions(length, tab, thickness float64, symmetry model.TabSymmetry) int {
	if symmetry == model.SymmetryWaffle {
		n := int((length - 2*thickness) / tab)
		if n%2 != 0 {
			n++
		}
		return n
	}
	n := int(length / tab)
	if n%2 == 0 {
		n--
	}
	return n
}

// validateEdges checks every edge length the panels and dividers will use.
func validateEdges(p model.BoxParams, d model.Dimensions, walls model.WallConfiguration) error {
	type edge struct {
		name   string
		length float64
	}
	var edges []edge
	add := func(name string, length float64) { edges = append(edges, edge{name, length + p.Kerf}) }
	if walls.Top || walls.Bottom {
		add("length", d.ExternalX)
		add("width", d.ExternalY)
	}
	if walls.Front || walls.Back || p.DividersWidth > 0 {
		add("length", d.ExternalX)
		add("height", d.ExternalZ)
	}
	if walls.Left || walls.Right || p.DividersLength > 0 {
		add("height", d.ExternalZ)
		add("width", d.ExternalY)
	}
	for _, e := range edges {
		if EdgeDivisions(e.length, p.TabWidth, p.Thickness, p.Symmetry) < 1 {
			return model.NewTabError(p.TabWidth,
				"%s edge (%smm) is too short for %smm tabs", e.name, formatMM(e.length), formatMM(p.TabWidth))
		}
	}
	return nil
}
