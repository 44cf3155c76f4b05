package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/BoxCut/internal/model"
)

// Overlap bounds as multiples of material thickness.
const (
	minOverlapFactor = 1.0
	maxOverlapFactor = 6.0
	minPieceFraction = 0.25
)

// SplitOverlap returns the overlap used where split pieces join.
func SplitOverlap(thickness, multiplier float64) float64 {
	o := thickness * multiplier
	return math.Max(thickness*minOverlapFactor, math.Min(o, thickness*maxOverlapFactor))
}

// PlanSplits returns a plan for every placement that does not fit the
// material sheet. A panel that exceeds both limits is split across its
// height. Sizes are the external panel sizes, without kerf.
func PlanSplits(placements []Placement, p model.BoxParams) ([]model.SplitPlan, []string, error) {
	if p.MaxMaterialWidth <= 0 && p.MaxMaterialHeight <= 0 {
		return nil, nil, nil
	}
	if !p.JoinType.Implemented() {
		return nil, nil, &model.FieldError{
			Kind:    model.ErrUnsupportedJoin,
			Field:   "join_type",
			Value:   float64(p.JoinType),
			Message: fmt.Sprintf("join type %q is not implemented", p.JoinType),
		}
	}

	overlap := SplitOverlap(p.Thickness, p.OverlapMultiplier)
	var plans []model.SplitPlan
	var warnings []string
	for _, pl := range placements {
		var axis model.SplitAxis
		var dim, limit float64
		switch {
		case p.MaxMaterialHeight > 0 && pl.Height > p.MaxMaterialHeight:
			axis, dim, limit = model.SplitAlongHeight, pl.Height, p.MaxMaterialHeight
		case p.MaxMaterialWidth > 0 && pl.Width > p.MaxMaterialWidth:
			axis, dim, limit = model.SplitAlongWidth, pl.Width, p.MaxMaterialWidth
		default:
			continue
		}

		plan, err := planSplit(pl.Name, axis, dim, limit, overlap, p.JoinType)
		if err != nil {
			return nil, nil, err
		}
		if size := plan.PieceSize(); size > limit {
			warnings = append(warnings, fmt.Sprintf(
				"%s: split pieces of %.1fmm exceed the %.1fmm material %s",
				pl.Name, size, limit, axis))
		}
		plans = append(plans, plan)
	}
	return plans, warnings, nil
}

func planSplit(name string, axis model.SplitAxis, dim, limit, overlap float64, join model.JoinType) (model.SplitPlan, error) {
	field := "max_material_width"
	if axis == model.SplitAlongHeight {
		field = "max_material_height"
	}
	if limit <= overlap {
		return model.SplitPlan{}, model.NewValidationError(field,
			"material limit %.1fmm must be larger than the %.1fmm join overlap", limit, overlap)
	}

	count := int(math.Ceil(dim / (limit - overlap)))
	minPiece := minPieceFraction * limit
	if dim/float64(count) < minPiece {
		count = max(2, int(math.Floor(dim/minPiece)))
	}

	cuts := make([]float64, 0, count-1)
	for i := 1; i < count; i++ {
		cuts = append(cuts, float64(i)*dim/float64(count))
	}

	return model.SplitPlan{
		Panel:        name,
		NeedsSplit:   true,
		Axis:         axis,
		Dimension:    dim,
		Limit:        limit,
		Pieces:       count,
		Overlap:      overlap,
		CutPositions: cuts,
		MinPiece:     minPiece,
		JoinType:     join,
	}, nil
}

// SplitPieces breaks a planned panel into physical pieces. Each inner cut
// is widened by half the overlap on both sides, so neighbours share an
// overlap-wide strip and the pieces together cover the whole panel.
func SplitPieces(plan model.SplitPlan, width, height float64) []model.SplitPiece {
	n := plan.Pieces
	if n < 2 {
		return []model.SplitPiece{{Panel: plan.Panel, Index: 1, Total: 1, Width: width, Height: height, First: true, Last: true}}
	}
	half := plan.Overlap / 2
	step := plan.Dimension / float64(n)

	pieces := make([]model.SplitPiece, 0, n)
	for i := 0; i < n; i++ {
		start := float64(i) * step
		end := float64(i+1) * step
		if i > 0 {
			start -= half
		}
		if i < n-1 {
			end += half
		}
		piece := model.SplitPiece{
			Panel:  plan.Panel,
			Index:  i + 1,
			Total:  n,
			Offset: start,
			Width:  width,
			Height: height,
			First:  i == 0,
			Last:   i == n-1,
		}
		if plan.Axis == model.SplitAlongHeight {
			piece.Height = end - start
		} else {
			piece.Width = end - start
		}
		pieces = append(pieces, piece)
	}
	return pieces
}
