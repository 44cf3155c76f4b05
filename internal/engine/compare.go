package engine

import (
	"fmt"

	"github.com/piwi3910/BoxCut/internal/model"
)

// ComparisonScenario defines a named set of parameters to compare.
type ComparisonScenario struct {
	Name   string
	Params model.BoxParams
}

// ComparisonResult holds the generation result and computed statistics
// for a single scenario. Err is set when the scenario failed validation.
type ComparisonResult struct {
	Scenario   ComparisonScenario
	Result     *Result
	Err        error
	PathCount  int
	PointCount int
	CutLength  float64
	Width      float64
	Height     float64
	Warnings   int
}

// CompareScenarios generates every scenario and returns the results in
// scenario order. A failing scenario does not stop the others.
func CompareScenarios(scenarios []ComparisonScenario) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		res, err := New(scenario.Params).Generate()
		if err != nil {
			results = append(results, ComparisonResult{Scenario: scenario, Err: err})
			continue
		}

		points := 0
		for _, p := range res.Paths {
			points += len(p.Points)
		}
		var width, height float64
		if lo, hi, ok := res.Bounds(); ok {
			width, height = hi.X-lo.X, hi.Y-lo.Y
		}

		results = append(results, ComparisonResult{
			Scenario:   scenario,
			Result:     res,
			PathCount:  len(res.Paths),
			PointCount: points,
			CutLength:  model.TotalCutLength(res.Paths),
			Width:      width,
			Height:     height,
			Warnings:   len(res.Warnings),
		})
	}

	return results
}

// BuildDefaultScenarios generates a set of what-if variants of the current
// parameters: other kerf values, the other cutter type and equal tabs.
func BuildDefaultScenarios(base model.BoxParams) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:   "Current Settings",
			Params: base,
		},
	}

	if base.Kerf > 0 {
		half := base
		half.Kerf = base.Kerf * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Kerf %.2fmm (half)", half.Kerf),
			Params: half,
		})

		none := base
		none.Kerf = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "No Kerf Compensation",
			Params: none,
		})
	}

	cutter := base
	if base.TabType == model.TabCNC {
		cutter.TabType = model.TabLaser
		scenarios = append(scenarios, ComparisonScenario{Name: "Laser Tabs", Params: cutter})
	} else {
		cutter.TabType = model.TabCNC
		scenarios = append(scenarios, ComparisonScenario{Name: "CNC Dogbone Tabs", Params: cutter})
	}

	if !base.EqualTabs {
		equal := base
		equal.EqualTabs = true
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "Equal Tabs",
			Params: equal,
		})
	}

	return scenarios
}
