package model

// NestedPanel is one panel placed on a stock sheet. X and Y locate the
// panel's lower-left corner; Width and Height are as placed, so a rotated
// panel has them swapped relative to its cut list entry.
type NestedPanel struct {
	Label   string  `json:"label"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Rotated bool    `json:"rotated"`
}

// SheetLayout is one stock sheet and the panels nested on it.
type SheetLayout struct {
	Width      float64       `json:"width"`
	Height     float64       `json:"height"`
	Placements []NestedPanel `json:"placements"`
}

// UsedArea returns the summed area of the placed panels.
func (s SheetLayout) UsedArea() float64 {
	var a float64
	for _, p := range s.Placements {
		a += p.Width * p.Height
	}
	return a
}

// Efficiency returns the used share of the sheet as a percentage.
func (s SheetLayout) Efficiency() float64 {
	total := s.Width * s.Height
	if total <= 0 {
		return 0
	}
	return s.UsedArea() / total * 100
}

// NestResult is the outcome of laying a cut list out on stock sheets.
type NestResult struct {
	Sheets   []SheetLayout `json:"sheets"`
	Unplaced []PanelSize   `json:"unplaced,omitempty"`
}
