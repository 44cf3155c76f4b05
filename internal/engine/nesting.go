package engine

import (
	"fmt"
	"sort"

	"github.com/piwi3910/BoxCut/internal/model"
)

// nestTolerance absorbs float noise when comparing free rectangles.
const nestTolerance = 0.001

// Nest lays panels out on identical stock sheets of sheetWidth by
// sheetHeight, leaving kerf between neighbours. Panels are placed largest
// first and may be rotated by 90 degrees. Sheets are opened until every
// panel is placed; a panel larger than the sheet in both orientations is
// reported as unplaced.
func Nest(panels []model.PanelSize, sheetWidth, sheetHeight, kerf float64) (model.NestResult, error) {
	if sheetWidth <= 0 || sheetHeight <= 0 {
		return model.NestResult{}, model.NewValidationError("max_material_width",
			"nesting needs a bounded sheet, got %.1f x %.1f mm", sheetWidth, sheetHeight)
	}
	if kerf < 0 {
		return model.NestResult{}, model.NewValidationError("kerf", "kerf must not be negative")
	}

	var remaining []model.PanelSize
	var result model.NestResult
	for _, p := range panels {
		if !fitsSheet(p, sheetWidth, sheetHeight) {
			result.Unplaced = append(result.Unplaced, p)
			continue
		}
		remaining = append(remaining, p)
	}

	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].Width*remaining[i].Height > remaining[j].Width*remaining[j].Height
	})

	for len(remaining) > 0 {
		sheet, unplaced := packSheetBestStrategy(sheetWidth, sheetHeight, kerf, remaining)
		if len(sheet.Placements) == 0 {
			// fitsSheet filtered these out already
			return result, fmt.Errorf("nesting stalled with %d panels left", len(unplaced))
		}
		result.Sheets = append(result.Sheets, sheet)
		remaining = unplaced
	}
	return result, nil
}

// fitsSheet reports whether p fits an empty sheet in either orientation.
func fitsSheet(p model.PanelSize, w, h float64) bool {
	pw, ph := p.Width, p.Height
	return (pw <= w+nestTolerance && ph <= h+nestTolerance) ||
		(ph <= w+nestTolerance && pw <= h+nestTolerance)
}

// rotationStrategy controls how panels are turned during packing.
type rotationStrategy int

const (
	rotBestFit    rotationStrategy = iota // tighter of the two orientations
	rotAllNormal                          // as cut, rotated only when forced
	rotAllRotated                         // rotated, as cut only when forced
)

// packSheetBestStrategy fills one sheet with each strategy and keeps the
// result that places the most panels, then the one with the higher
// efficiency.
func packSheetBestStrategy(w, h, kerf float64, panels []model.PanelSize) (model.SheetLayout, []model.PanelSize) {
	var best model.SheetLayout
	var bestUnplaced []model.PanelSize
	bestPlaced := -1

	for _, strat := range []rotationStrategy{rotBestFit, rotAllNormal, rotAllRotated} {
		sheet, unplaced := packSheet(w, h, kerf, panels, strat)
		placed := len(sheet.Placements)
		if placed > bestPlaced || (placed == bestPlaced && placed > 0 && sheet.Efficiency() > best.Efficiency()) {
			bestPlaced = placed
			best = sheet
			bestUnplaced = unplaced
		}
	}
	return best, bestUnplaced
}

func packSheet(w, h, kerf float64, panels []model.PanelSize, strategy rotationStrategy) (model.SheetLayout, []model.PanelSize) {
	sheet := model.SheetLayout{Width: w, Height: h}
	// The kerf trailing the last panel in a row may run off the sheet edge.
	packer := newGuillotinePacker(w+kerf, h+kerf, kerf)
	var unplaced []model.PanelSize

	place := func(p model.PanelSize, rotated bool) bool {
		pw, ph := p.Width, p.Height
		if rotated {
			pw, ph = ph, pw
		}
		ok, x, y := packer.insert(pw, ph)
		if ok {
			sheet.Placements = append(sheet.Placements, model.NestedPanel{
				Label: p.Label, X: x, Y: y, Width: pw, Height: ph, Rotated: rotated,
			})
		}
		return ok
	}

	for _, p := range panels {
		square := p.Width == p.Height
		var placed bool
		switch strategy {
		case rotAllRotated:
			placed = (!square && place(p, true)) || place(p, false)
		case rotBestFit:
			rotate := false
			if !square {
				normal := packer.bestFit(p.Width, p.Height)
				turned := packer.bestFit(p.Height, p.Width)
				rotate = turned >= 0 && (normal < 0 || turned < normal)
			}
			placed = place(p, rotate) || (!square && place(p, !rotate))
		default:
			placed = place(p, false) || (!square && place(p, true))
		}
		if !placed {
			unplaced = append(unplaced, p)
		}
	}
	return sheet, unplaced
}

// guillotinePacker tracks the maximal free rectangles of one sheet and
// places panels by best area fit.
type guillotinePacker struct {
	freeRects []rect
	kerf      float64
}

type rect struct {
	x, y, w, h float64
}

func newGuillotinePacker(width, height, kerf float64) *guillotinePacker {
	return &guillotinePacker{
		freeRects: []rect{{0, 0, width, height}},
		kerf:      kerf,
	}
}

// insert places a w x h panel plus kerf in the free rectangle that wastes
// the least area and returns its position.
func (gp *guillotinePacker) insert(w, h float64) (bool, float64, float64) {
	idx := gp.bestIndex(w, h)
	if idx < 0 {
		return false, 0, 0
	}
	chosen := gp.freeRects[idx]
	gp.splitAroundPlacement(rect{x: chosen.x, y: chosen.y, w: w + gp.kerf, h: h + gp.kerf})
	return true, chosen.x, chosen.y
}

// bestFit returns the wasted area insert would leave, or -1 when the panel
// does not fit. The packer is not modified.
func (gp *guillotinePacker) bestFit(w, h float64) float64 {
	idx := gp.bestIndex(w, h)
	if idx < 0 {
		return -1
	}
	r := gp.freeRects[idx]
	return r.w*r.h - w*h
}

func (gp *guillotinePacker) bestIndex(w, h float64) int {
	best := -1
	bestWaste := 0.0
	wk, hk := w+gp.kerf, h+gp.kerf
	for i, r := range gp.freeRects {
		if wk > r.w+nestTolerance || hk > r.h+nestTolerance {
			continue
		}
		waste := r.w*r.h - w*h
		if best < 0 || waste < bestWaste {
			best, bestWaste = i, waste
		}
	}
	return best
}

// splitAroundPlacement replaces every free rectangle the placed panel
// overlaps with up to four maximal strips around it.
func (gp *guillotinePacker) splitAroundPlacement(placed rect) {
	var next []rect
	for _, r := range gp.freeRects {
		if !rectsOverlap(r, placed) {
			next = append(next, r)
			continue
		}
		if placed.x > r.x+nestTolerance {
			next = append(next, rect{x: r.x, y: r.y, w: placed.x - r.x, h: r.h})
		}
		if right := placed.x + placed.w; right < r.x+r.w-nestTolerance {
			next = append(next, rect{x: right, y: r.y, w: r.x + r.w - right, h: r.h})
		}
		if placed.y > r.y+nestTolerance {
			next = append(next, rect{x: r.x, y: r.y, w: r.w, h: placed.y - r.y})
		}
		if top := placed.y + placed.h; top < r.y+r.h-nestTolerance {
			next = append(next, rect{x: r.x, y: top, w: r.w, h: r.y + r.h - top})
		}
	}
	gp.freeRects = pruneContained(next)
}

func rectsOverlap(a, b rect) bool {
	return a.x < b.x+b.w-nestTolerance && a.x+a.w > b.x+nestTolerance &&
		a.y < b.y+b.h-nestTolerance && a.y+a.h > b.y+nestTolerance
}

// pruneContained drops rectangles lying inside another. Of two equal
// rectangles the first is kept.
func pruneContained(rects []rect) []rect {
	if len(rects) <= 1 {
		return rects
	}
	kept := make([]rect, 0, len(rects))
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			if i == j || !containsRect(b, a) {
				continue
			}
			if containsRect(a, b) && j > i {
				continue
			}
			contained = true
			break
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}

func containsRect(outer, inner rect) bool {
	return outer.x <= inner.x+nestTolerance && outer.y <= inner.y+nestTolerance &&
		outer.x+outer.w >= inner.x+inner.w-nestTolerance &&
		outer.y+outer.h >= inner.y+inner.h-nestTolerance
}
