package model

import "math"

// MaterialEstimate holds the results of a sheet purchasing calculation for
// one box.
type MaterialEstimate struct {
	TotalPanelArea    float64 `json:"total_panel_area"`    // Total area of all panels (sq mm)
	TotalBoardFeet    float64 `json:"total_board_feet"`    // Area in board feet at 1" thickness
	SheetArea         float64 `json:"sheet_area"`          // Area of one sheet (sq mm)
	SheetsNeededExact float64 `json:"sheets_needed_exact"` // Exact fractional number of sheets
	SheetsNeededMin   int     `json:"sheets_needed_min"`   // Minimum sheets (ceiling of exact)
	SheetsWithWaste   int     `json:"sheets_with_waste"`   // Recommended sheets including waste factor
	WastePercent      float64 `json:"waste_percent"`       // Waste factor applied (e.g., 15 for 15%)
	Kerf              float64 `json:"kerf"`                // Kerf used in calculation
}

// PanelSize is the width and height of one cut panel.
type PanelSize struct {
	Label  string  `json:"label,omitempty"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// sqmmPerBoardFoot is the number of square millimeters in one board foot.
// 1 board foot = 12" x 12" x 1" (area) = 144 sq inches = 144 * 645.16 sq mm = 92903.04 sq mm.
const sqmmPerBoardFoot = 92903.04

// EstimateMaterial computes how many sheets to buy for a set of panels.
// Each panel gets a kerf allowance on both axes. A non-positive sheet size
// only reports the total area.
func EstimateMaterial(panels []PanelSize, sheetWidth, sheetHeight, kerf, wastePercent float64) MaterialEstimate {
	var total float64
	for _, p := range panels {
		total += (p.Width + kerf) * (p.Height + kerf)
	}

	sheetArea := sheetWidth * sheetHeight
	if sheetArea <= 0 {
		return MaterialEstimate{
			TotalPanelArea: total,
			TotalBoardFeet: total / sqmmPerBoardFoot,
			WastePercent:   wastePercent,
			Kerf:           kerf,
		}
	}

	exact := total / sheetArea
	minSheets := int(math.Ceil(exact))

	withWaste := int(math.Ceil(exact * (1.0 + wastePercent/100.0)))
	if withWaste < minSheets {
		withWaste = minSheets
	}

	return MaterialEstimate{
		TotalPanelArea:    total,
		TotalBoardFeet:    total / sqmmPerBoardFoot,
		SheetArea:         sheetArea,
		SheetsNeededExact: exact,
		SheetsNeededMin:   minSheets,
		SheetsWithWaste:   withWaste,
		WastePercent:      wastePercent,
		Kerf:              kerf,
	}
}
