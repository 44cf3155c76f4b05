package model

import (
	"math"
	"testing"
)

func TestEstimateMaterialBasic(t *testing.T) {
	panels := []PanelSize{{Width: 500, Height: 300}, {Width: 500, Height: 300}}
	est := EstimateMaterial(panels, 2440, 1220, 3.0, 15.0)

	expectedArea := 503.0 * 303.0 * 2
	if math.Abs(est.TotalPanelArea-expectedArea) > 0.1 {
		t.Errorf("expected total area %.1f, got %.1f", expectedArea, est.TotalPanelArea)
	}
	if est.SheetsNeededMin != 1 {
		t.Errorf("expected 1 sheet, got %d", est.SheetsNeededMin)
	}
	if est.SheetsWithWaste < est.SheetsNeededMin {
		t.Error("sheets with waste should be >= minimum sheets")
	}
	if est.TotalBoardFeet <= 0 {
		t.Error("expected positive board feet")
	}
}

func TestEstimateMaterialZeroSheetArea(t *testing.T) {
	est := EstimateMaterial([]PanelSize{{Width: 100, Height: 100}}, 0, 0, 0, 10)
	if est.SheetsNeededMin != 0 {
		t.Errorf("expected 0 sheets for zero sheet area, got %d", est.SheetsNeededMin)
	}
	if est.TotalPanelArea != 10000 {
		t.Errorf("expected area 10000, got %f", est.TotalPanelArea)
	}
}

func TestEstimateMaterialWasteRoundsUp(t *testing.T) {
	// Exactly one sheet of panels; any waste factor tips it to two.
	est := EstimateMaterial([]PanelSize{{Width: 1000, Height: 1000}}, 1000, 1000, 0, 10)
	if est.SheetsNeededMin != 1 {
		t.Errorf("expected 1 minimum sheet, got %d", est.SheetsNeededMin)
	}
	if est.SheetsWithWaste != 2 {
		t.Errorf("expected 2 sheets with waste, got %d", est.SheetsWithWaste)
	}
}
