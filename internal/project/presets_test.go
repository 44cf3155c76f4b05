package project

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/BoxCut/internal/model"
)

func TestSaveAndLoadPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")

	params := model.DefaultBoxParams()
	params.Length, params.Width, params.Height = 200, 120, 60
	params.DividersLength = 2

	store := model.NewPresetStore()
	store.Save(model.NewBoxPreset("Drawer Tray", "two compartments", params))

	if err := SavePresets(path, store); err != nil {
		t.Fatalf("SavePresets failed: %v", err)
	}

	loaded, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets failed: %v", err)
	}
	if len(loaded.Presets) != 1 {
		t.Fatalf("expected 1 preset, got %d", len(loaded.Presets))
	}
	p := loaded.Find("Drawer Tray")
	if p == nil {
		t.Fatal("preset not found by name")
	}
	if p.Params.Length != 200 || p.Params.DividersLength != 2 {
		t.Errorf("params not preserved: %+v", p.Params)
	}
	if p.Params.BoxType != model.BoxFull || p.Params.Symmetry != model.SymmetryXY {
		t.Errorf("enums not preserved: %v %v", p.Params.BoxType, p.Params.Symmetry)
	}
	if model.DesignID(p.Params) != model.DesignID(params) {
		t.Error("a stored preset should reproduce the same design id")
	}
}

func TestLoadPresets_NotFound(t *testing.T) {
	store, err := LoadPresets(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.Presets == nil || len(store.Presets) != 0 {
		t.Errorf("expected an empty store, got %+v", store)
	}
}
