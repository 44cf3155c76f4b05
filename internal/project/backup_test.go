package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/BoxCut/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup", "boxcut.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultThickness = 6
	presets := model.NewPresetStore()
	presets.Save(model.NewBoxPreset("Bin", "", model.DefaultBoxParams()))
	profiles := []model.GCodeProfile{model.NewCustomProfile("Shop Router")}

	if err := ExportAllData(path, NewBackup(cfg, presets, profiles)); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Version != BackupVersion {
		t.Errorf("expected version %s, got %s", BackupVersion, backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected a creation time")
	}
	if backup.Config.DefaultThickness != 6 {
		t.Errorf("expected thickness 6, got %f", backup.Config.DefaultThickness)
	}
	if len(backup.Presets.Presets) != 1 || backup.Presets.Presets[0].Name != "Bin" {
		t.Errorf("presets not restored: %+v", backup.Presets)
	}
	if len(backup.Profiles) != 1 || backup.Profiles[0].Name != "Shop Router" {
		t.Errorf("profiles not restored: %+v", backup.Profiles)
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	if _, err := ImportAllData(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noversion.json")
	if err := os.WriteFile(path, []byte(`{"config":{}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestImportAllDataFillsEmptyCollections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.json")
	if err := os.WriteFile(path, []byte(`{"version":"1.0.0"}`), 0644); err != nil {
		t.Fatal(err)
	}
	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Config.RecentOutputs == nil {
		t.Error("RecentOutputs should never be nil")
	}
	if backup.Presets.Presets == nil {
		t.Error("Presets should never be nil")
	}
}
