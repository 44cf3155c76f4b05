package model

import "testing"

func TestNewBoxPreset(t *testing.T) {
	p := DefaultBoxParams()
	p.Length = 180
	preset := NewBoxPreset("Drawer", "kitchen drawer insert", p)

	if preset.ID == "" {
		t.Error("expected non-empty ID")
	}
	if preset.Name != "Drawer" {
		t.Errorf("expected name Drawer, got %s", preset.Name)
	}
	if preset.Params.Length != 180 {
		t.Errorf("expected length 180, got %f", preset.Params.Length)
	}
	if preset.Params.Name != "Drawer" {
		t.Errorf("expected params to carry the preset name, got %q", preset.Params.Name)
	}
	if preset.CreatedAt == "" || preset.UpdatedAt == "" {
		t.Error("expected timestamps to be set")
	}
}

func TestPresetStoreSaveReplacesByName(t *testing.T) {
	store := NewPresetStore()
	first := NewBoxPreset("Tray", "v1", DefaultBoxParams())
	store.Save(first)

	p := DefaultBoxParams()
	p.Height = 40
	second := NewBoxPreset("Tray", "v2", p)
	store.Save(second)

	if len(store.Presets) != 1 {
		t.Fatalf("expected 1 preset after replace, got %d", len(store.Presets))
	}
	got := store.Presets[0]
	if got.ID != first.ID {
		t.Errorf("expected ID to be kept, got %s want %s", got.ID, first.ID)
	}
	if got.Description != "v2" || got.Params.Height != 40 {
		t.Errorf("expected updated preset, got %+v", got)
	}
}

func TestPresetStoreFindAndRemove(t *testing.T) {
	store := NewPresetStore()
	a := NewBoxPreset("A", "", DefaultBoxParams())
	b := NewBoxPreset("B", "", DefaultBoxParams())
	store.Save(a)
	store.Save(b)

	if store.Find(a.ID) == nil {
		t.Error("expected to find preset by ID")
	}
	if store.Find("B") == nil {
		t.Error("expected to find preset by name")
	}
	if store.Find("missing") != nil {
		t.Error("expected nil for unknown preset")
	}

	if !store.Remove("A") {
		t.Fatal("expected Remove to succeed")
	}
	if store.Remove("A") {
		t.Error("expected second Remove to fail")
	}
	names := store.Names()
	if len(names) != 1 || names[0] != "B" {
		t.Errorf("expected [B], got %v", names)
	}
}
