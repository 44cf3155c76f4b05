package design

import (
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/BoxCut/internal/model"
)

// sizeTolerance is the slack allowed when sums of sizes are compared.
const sizeTolerance = 0.001

// ParseCustomSizes parses a ";" separated list of compartment sizes. Each
// entry may use "." or "," as decimal separator, so "63,5;50.0" and
// "63.5;50,0" are equivalent. Empty entries are skipped.
func ParseCustomSizes(field, s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var sizes []float64
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(part, ",", "."), 64)
		if err != nil {
			return nil, model.NewValidationError(field, "invalid compartment size %q", part)
		}
		if v <= 0 {
			return nil, model.NewValidationError(field, "invalid compartment size %q: size must be positive", part)
		}
		sizes = append(sizes, v)
	}
	return sizes, nil
}

// PlanCompartments lays out count dividers along an axis with the given
// internal length.
//
// With no custom sizes the free space is split evenly. When at least
// count+1 sizes are given the first count+1 are used as-is and must add up
// to the free space exactly; they are never rescaled. With fewer sizes the
// leftover space is shared evenly by the unspecified compartments.
func PlanCompartments(axis string, internal, thickness float64, count int, custom []float64) (model.DividerLayout, error) {
	field := "dividers_" + axis
	if count < 0 {
		return model.DividerLayout{}, model.NewValidationError(field, "number of dividers cannot be negative: %d", count)
	}
	if count == 0 {
		return model.DividerLayout{
			Count:            0,
			Positions:        []float64{},
			CompartmentSizes: []float64{internal},
			Spacing:          []float64{internal},
			CustomSizes:      custom,
		}, nil
	}

	compartments := count + 1
	available := internal - float64(count)*thickness
	if available <= 0 {
		return model.DividerLayout{}, model.NewValidationError(field,
			"no space available for compartments: %d dividers of %smm need %smm but only %smm is available",
			count, formatMM(thickness), formatMM(float64(count)*thickness), formatMM(internal))
	}

	var sizes []float64
	switch {
	case len(custom) == 0:
		sizes = make([]float64, compartments)
		for i := range sizes {
			sizes[i] = available / float64(compartments)
		}
	case len(custom) >= compartments:
		sizes = append([]float64(nil), custom[:compartments]...)
		total := sum(sizes)
		if math.Abs(total-available) > sizeTolerance {
			return model.DividerLayout{}, model.NewValidationError("custom_"+axis,
				"custom compartment sizes total %.1fmm but available space is %.1fmm; adjust sizes to match exactly (off by %.1fmm)",
				total, available, total-available)
		}
	default:
		sizes = append([]float64(nil), custom...)
		used := sum(custom)
		remaining := available - used
		if remaining < 0 {
			return model.DividerLayout{}, model.NewValidationError("custom_"+axis,
				"custom compartment sizes (%.1fmm) exceed available compartment space (%.1fmm); reduce sizes by %.1fmm",
				used, available, -remaining)
		}
		fill := remaining / float64(compartments-len(custom))
		for len(sizes) < compartments {
			sizes = append(sizes, fill)
		}
	}

	positions := make([]float64, 0, count)
	pos := 0.0
	for i := 0; i < count; i++ {
		pos += sizes[i]
		positions = append(positions, pos)
		pos += thickness
	}

	spacing := make([]float64, 0, 2*count+1)
	for i := 0; i < count; i++ {
		spacing = append(spacing, sizes[i], thickness)
	}
	spacing = append(spacing, sizes[count])

	layout := model.DividerLayout{
		Count:            count,
		Positions:        positions,
		CompartmentSizes: sizes,
		Spacing:          spacing,
		CustomSizes:      custom,
	}
	if total := sum(spacing); math.Abs(total-internal) > sizeTolerance {
		return model.DividerLayout{}, model.NewValidationError(field,
			"total spacing (%smm) does not match internal %s (%smm)", formatMM(total), axis, formatMM(internal))
	}
	for i, s := range sizes {
		if s <= 0 {
			return model.DividerLayout{}, model.NewValidationError("custom_"+axis,
				"compartment %d in %s direction has invalid size %smm", i+1, axis, formatMM(s))
		}
	}
	return layout, nil
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
