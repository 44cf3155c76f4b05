package model

// AppConfig holds user preferences and the defaults applied to new boxes.
type AppConfig struct {
	// Material and cutter defaults
	DefaultThickness float64 `json:"default_thickness"`
	DefaultKerf      float64 `json:"default_kerf"`
	DefaultTabWidth  float64 `json:"default_tab_width"`
	DefaultSpacing   float64 `json:"default_spacing"`
	DefaultTabType   TabType `json:"default_tab_type"`
	DefaultHairline  bool    `json:"default_hairline"`

	// Material sheet defaults, 0 = unlimited
	DefaultMaxMaterialWidth  float64 `json:"default_max_material_width"`
	DefaultMaxMaterialHeight float64 `json:"default_max_material_height"`

	// Mill defaults for GCode output
	Mill MillSettings `json:"mill"`

	// Application preferences
	DefaultFormat string   `json:"default_format"` // svg, dxf, pdf, gcode, ...
	RecentOutputs []string `json:"recent_outputs"`
}

// DefaultAppConfig returns an AppConfig populated with the same values as
// DefaultBoxParams and DefaultMillSettings.
func DefaultAppConfig() AppConfig {
	defaults := DefaultBoxParams()
	return AppConfig{
		DefaultThickness:         defaults.Thickness,
		DefaultKerf:              defaults.Kerf,
		DefaultTabWidth:          defaults.TabWidth,
		DefaultSpacing:           defaults.Spacing,
		DefaultTabType:           defaults.TabType,
		DefaultHairline:          defaults.Hairline,
		DefaultMaxMaterialWidth:  defaults.MaxMaterialWidth,
		DefaultMaxMaterialHeight: defaults.MaxMaterialHeight,
		Mill:                     DefaultMillSettings(),
		DefaultFormat:            "svg",
		RecentOutputs:            []string{},
	}
}

// ApplyToParams copies the saved defaults into a parameter set. It is used
// when a new box is started so it inherits the user's preferences.
func (c AppConfig) ApplyToParams(p *BoxParams) {
	p.Thickness = c.DefaultThickness
	p.Kerf = c.DefaultKerf
	p.TabWidth = c.DefaultTabWidth
	p.Spacing = c.DefaultSpacing
	p.TabType = c.DefaultTabType
	p.Hairline = c.DefaultHairline
	p.MaxMaterialWidth = c.DefaultMaxMaterialWidth
	p.MaxMaterialHeight = c.DefaultMaxMaterialHeight
}

// AddRecentOutput records a written file, most recent first, keeping at
// most ten entries.
func (c *AppConfig) AddRecentOutput(path string) {
	out := []string{path}
	for _, p := range c.RecentOutputs {
		if p != path && len(out) < 10 {
			out = append(out, p)
		}
	}
	c.RecentOutputs = out
}
