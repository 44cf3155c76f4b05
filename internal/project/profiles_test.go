package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/BoxCut/internal/model"
)

func testProfile(name string) model.GCodeProfile {
	p := model.NewCustomProfile(name)
	p.StartCode = []string{"G90", "G21", "G17"}
	p.DecimalPlaces = 2
	return p
}

func TestSaveAndLoadCustomProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")

	built := testProfile("Shop Router")
	built.IsBuiltIn = true
	profiles := []model.GCodeProfile{built, testProfile("Laser Bed")}

	if err := SaveCustomProfiles(path, profiles); err != nil {
		t.Fatalf("SaveCustomProfiles: %v", err)
	}

	loaded, err := LoadCustomProfiles(path)
	if err != nil {
		t.Fatalf("LoadCustomProfiles: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(loaded))
	}
	if loaded[0].Name != "Shop Router" || loaded[1].Name != "Laser Bed" {
		t.Errorf("unexpected names: %s, %s", loaded[0].Name, loaded[1].Name)
	}
	if loaded[0].IsBuiltIn {
		t.Error("loaded profile should not be marked as built-in")
	}
	if loaded[0].DecimalPlaces != 2 {
		t.Errorf("expected 2 decimal places, got %d", loaded[0].DecimalPlaces)
	}
}

func TestLoadCustomProfilesNonExistent(t *testing.T) {
	profiles, err := LoadCustomProfiles(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err != nil {
		t.Fatalf("expected no error for nonexistent file, got: %v", err)
	}
	if len(profiles) != 0 {
		t.Fatalf("expected 0 profiles, got %d", len(profiles))
	}
}

func TestLoadCustomProfilesInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("not valid json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCustomProfiles(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestRegisterCustomProfiles(t *testing.T) {
	t.Cleanup(func() { model.CustomProfiles = nil })
	model.CustomProfiles = nil

	path := filepath.Join(t.TempDir(), "profiles.json")
	grbl := testProfile("Grbl")
	if err := SaveCustomProfiles(path, []model.GCodeProfile{testProfile("Shop Router"), grbl}); err != nil {
		t.Fatalf("SaveCustomProfiles: %v", err)
	}

	skipped, err := RegisterCustomProfiles(path)
	if err != nil {
		t.Fatalf("RegisterCustomProfiles: %v", err)
	}
	if len(skipped) != 1 || skipped[0] != "Grbl" {
		t.Errorf("expected the built-in name to be skipped, got %v", skipped)
	}
	if got := model.GetProfile("Shop Router"); got.Name != "Shop Router" {
		t.Errorf("registered profile not selectable, got %s", got.Name)
	}
}

func TestExportAndImportProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "share.json")
	p := testProfile("Shared")
	p.IsBuiltIn = true

	if err := ExportProfile(path, p); err != nil {
		t.Fatalf("ExportProfile: %v", err)
	}
	imported, err := ImportProfile(path)
	if err != nil {
		t.Fatalf("ImportProfile: %v", err)
	}
	if imported.Name != "Shared" || imported.IsBuiltIn {
		t.Errorf("unexpected imported profile: %+v", imported)
	}
}

func TestImportProfileNoName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noname.json")
	if err := os.WriteFile(path, []byte(`{"description":"nameless"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportProfile(path); err == nil {
		t.Fatal("expected error for profile without name")
	}
}
