package model

import (
	"time"

	"github.com/google/uuid"
)

// BoxPreset is a named, reusable parameter set.
type BoxPreset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
	Params      BoxParams `json:"params"`
}

// NewBoxPreset captures params under a name.
func NewBoxPreset(name, description string, params BoxParams) BoxPreset {
	now := time.Now().UTC().Format(time.RFC3339)
	params.Name = name
	return BoxPreset{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Params:      params,
	}
}

// PresetStore holds a collection of presets.
type PresetStore struct {
	Presets []BoxPreset `json:"presets"`
}

// NewPresetStore creates an empty preset store.
func NewPresetStore() PresetStore {
	return PresetStore{
		Presets: []BoxPreset{},
	}
}

// Save adds a preset, replacing an existing one with the same name. The
// replaced preset keeps its ID and creation time.
func (ps *PresetStore) Save(p BoxPreset) {
	for i := range ps.Presets {
		if ps.Presets[i].Name == p.Name {
			p.ID = ps.Presets[i].ID
			p.CreatedAt = ps.Presets[i].CreatedAt
			ps.Presets[i] = p
			return
		}
	}
	ps.Presets = append(ps.Presets, p)
}

// Remove removes a preset by ID or name. Returns true if found and removed.
func (ps *PresetStore) Remove(key string) bool {
	for i, p := range ps.Presets {
		if p.ID == key || p.Name == key {
			ps.Presets = append(ps.Presets[:i], ps.Presets[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns a pointer to the preset with the given ID or name, or nil.
func (ps *PresetStore) Find(key string) *BoxPreset {
	for i := range ps.Presets {
		if ps.Presets[i].ID == key || ps.Presets[i].Name == key {
			return &ps.Presets[i]
		}
	}
	return nil
}

// Names returns preset names in store order.
func (ps *PresetStore) Names() []string {
	names := make([]string, len(ps.Presets))
	for i, p := range ps.Presets {
		names[i] = p.Name
	}
	return names
}
