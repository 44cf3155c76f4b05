package export

import (
	"testing"

	"github.com/piwi3910/BoxCut/internal/engine"
	"github.com/piwi3910/BoxCut/internal/model"
)

// buildTestResult generates a small full box with one divider each way.
func buildTestResult(t *testing.T) *engine.Result {
	t.Helper()
	p := model.DefaultBoxParams()
	p.Name = "Test Box"
	p.Length, p.Width, p.Height = 120, 80, 50
	p.Kerf = 0.2
	p.TabWidth = 15
	p.DividersLength = 1
	p.DividersWidth = 1
	res, err := engine.New(p).Generate()
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	return res
}

// buildSplitResult generates a box whose long panels exceed the material.
func buildSplitResult(t *testing.T) *engine.Result {
	t.Helper()
	p := model.DefaultBoxParams()
	p.Length, p.Width, p.Height = 200, 80, 50
	p.Kerf = 0
	p.TabWidth = 15
	p.MaxMaterialWidth = 120
	res, err := engine.New(p).Generate()
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(res.Splits) == 0 {
		t.Fatal("expected split plans for a 200mm panel on 120mm material")
	}
	return res
}
