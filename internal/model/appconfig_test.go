package model

import "testing"

func TestDefaultAppConfigMatchesDefaultParams(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultBoxParams()

	if cfg.DefaultKerf != defaults.Kerf {
		t.Errorf("Kerf mismatch: config=%f params=%f", cfg.DefaultKerf, defaults.Kerf)
	}
	if cfg.DefaultThickness != defaults.Thickness {
		t.Errorf("Thickness mismatch: config=%f params=%f", cfg.DefaultThickness, defaults.Thickness)
	}
	if cfg.DefaultTabWidth != defaults.TabWidth {
		t.Errorf("TabWidth mismatch: config=%f params=%f", cfg.DefaultTabWidth, defaults.TabWidth)
	}
	if cfg.Mill.Profile != "Generic" {
		t.Errorf("expected Generic mill profile, got %s", cfg.Mill.Profile)
	}
	if cfg.RecentOutputs == nil {
		t.Error("RecentOutputs should not be nil")
	}
}

func TestApplyToParams(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultKerf = 0.15
	cfg.DefaultThickness = 6
	cfg.DefaultTabType = TabCNC
	cfg.DefaultMaxMaterialWidth = 600

	p := DefaultBoxParams()
	cfg.ApplyToParams(&p)

	if p.Kerf != 0.15 {
		t.Errorf("expected Kerf=0.15, got %f", p.Kerf)
	}
	if p.Thickness != 6 {
		t.Errorf("expected Thickness=6, got %f", p.Thickness)
	}
	if !p.Dogbone() {
		t.Error("expected dogbone for cnc tab type")
	}
	if p.MaxMaterialWidth != 600 {
		t.Errorf("expected MaxMaterialWidth=600, got %f", p.MaxMaterialWidth)
	}
	// Dimensions are not part of the saved defaults.
	if p.Length != DefaultLength {
		t.Errorf("expected Length untouched, got %f", p.Length)
	}
}

func TestAddRecentOutput(t *testing.T) {
	cfg := DefaultAppConfig()
	for i := 0; i < 12; i++ {
		cfg.AddRecentOutput(string(rune('a' + i)))
	}
	cfg.AddRecentOutput("c")

	if len(cfg.RecentOutputs) != 10 {
		t.Fatalf("expected 10 recent outputs, got %d", len(cfg.RecentOutputs))
	}
	if cfg.RecentOutputs[0] != "c" {
		t.Errorf("expected most recent first, got %s", cfg.RecentOutputs[0])
	}
	seen := map[string]bool{}
	for _, p := range cfg.RecentOutputs {
		if seen[p] {
			t.Errorf("duplicate recent output %s", p)
		}
		seen[p] = true
	}
}
