// Package config loads runtime configuration for the boxcut binaries.
//
// Values are resolved with this precedence (highest first):
//  1. Command-line flags that were set explicitly
//  2. Environment variables (BOXCUT_BOX_LENGTH, BOXCUT_SERVER_PORT, ...)
//  3. A YAML config file (--config, or boxcut.yaml in ., ./configs, /etc/boxcut)
//  4. The user's saved defaults in ~/.boxcut/config.json, when supplied
//  5. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/piwi3910/BoxCut/internal/model"
)

// EnvPrefix is prepended to every environment variable.
const EnvPrefix = "BOXCUT"

// Config holds all runtime configuration.
type Config struct {
	App    AppConfig          `mapstructure:"app"`
	Log    LogConfig          `mapstructure:"log"`
	Server ServerConfig       `mapstructure:"server"`
	Box    BoxConfig          `mapstructure:"box"`
	Output OutputConfig       `mapstructure:"output"`
	Mill   model.MillSettings `mapstructure:"mill"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
}

// LogConfig selects the log level and encoder.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig contains HTTP server settings for boxcutd.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`

	// MaxRequestSize caps request bodies in bytes.
	MaxRequestSize int64 `mapstructure:"max_request_size"`

	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`

	// Per-client token bucket.
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// BoxConfig mirrors model.BoxParams with enums kept as their text names,
// so they can come from flags, env and YAML unchanged.
type BoxConfig struct {
	Name      string  `mapstructure:"name"`
	Length    float64 `mapstructure:"length"`
	Width     float64 `mapstructure:"width"`
	Height    float64 `mapstructure:"height"`
	Thickness float64 `mapstructure:"thickness"`
	Mode      string  `mapstructure:"dimension_mode"`
	BoxType   string  `mapstructure:"box_type"`
	Layout    string  `mapstructure:"layout"`

	Kerf         float64 `mapstructure:"kerf"`
	TabWidth     float64 `mapstructure:"tab_width"`
	Symmetry     string  `mapstructure:"tab_symmetry"`
	EqualTabs    bool    `mapstructure:"equal_tabs"`
	TabType      string  `mapstructure:"tab_type"`
	DimpleHeight float64 `mapstructure:"dimple_height"`
	DimpleLength float64 `mapstructure:"dimple_length"`

	DividersLength int    `mapstructure:"dividers_length"`
	DividersWidth  int    `mapstructure:"dividers_width"`
	CustomLength   string `mapstructure:"custom_length"`
	CustomWidth    string `mapstructure:"custom_width"`
	KeyDividers    string `mapstructure:"key_dividers"`

	MaxMaterialWidth  float64 `mapstructure:"max_material_width"`
	MaxMaterialHeight float64 `mapstructure:"max_material_height"`
	OverlapMultiplier float64 `mapstructure:"overlap_multiplier"`
	JoinType          string  `mapstructure:"join_type"`

	Spacing  float64 `mapstructure:"spacing"`
	Hairline bool    `mapstructure:"hairline"`
}

// OutputConfig controls where boxcut writes and which user files it reads.
type OutputConfig struct {
	Format       string `mapstructure:"format"`
	Path         string `mapstructure:"path"`
	PresetsPath  string `mapstructure:"presets_path"`
	ProfilesPath string `mapstructure:"profiles_path"`
}

// ToParams converts the box section into generator parameters. Unknown
// enum names come back as validation errors.
func (b BoxConfig) ToParams() (model.BoxParams, error) {
	p := model.BoxParams{
		Name:              b.Name,
		Length:            b.Length,
		Width:             b.Width,
		Height:            b.Height,
		Thickness:         b.Thickness,
		Kerf:              b.Kerf,
		TabWidth:          b.TabWidth,
		EqualTabs:         b.EqualTabs,
		DimpleHeight:      b.DimpleHeight,
		DimpleLength:      b.DimpleLength,
		DividersLength:    b.DividersLength,
		DividersWidth:     b.DividersWidth,
		CustomLength:      b.CustomLength,
		CustomWidth:       b.CustomWidth,
		MaxMaterialWidth:  b.MaxMaterialWidth,
		MaxMaterialHeight: b.MaxMaterialHeight,
		OverlapMultiplier: b.OverlapMultiplier,
		Spacing:           b.Spacing,
		Hairline:          b.Hairline,
	}

	var err error
	if p.Mode, err = model.ParseDimensionMode(b.Mode); err != nil {
		return p, err
	}
	if p.BoxType, err = model.ParseBoxType(b.BoxType); err != nil {
		return p, err
	}
	if p.Layout, err = model.ParseLayoutStyle(b.Layout); err != nil {
		return p, err
	}
	if p.Symmetry, err = model.ParseTabSymmetry(b.Symmetry); err != nil {
		return p, err
	}
	if p.TabType, err = model.ParseTabType(b.TabType); err != nil {
		return p, err
	}
	if p.KeyDividers, err = model.ParseKeyDividers(b.KeyDividers); err != nil {
		return p, err
	}
	if p.JoinType, err = model.ParseJoinType(b.JoinType); err != nil {
		return p, err
	}
	return p, nil
}

// BoxConfigFrom is the inverse of ToParams.
func BoxConfigFrom(p model.BoxParams) BoxConfig {
	return BoxConfig{
		Name:              p.Name,
		Length:            p.Length,
		Width:             p.Width,
		Height:            p.Height,
		Thickness:         p.Thickness,
		Mode:              p.Mode.String(),
		BoxType:           p.BoxType.String(),
		Layout:            p.Layout.String(),
		Kerf:              p.Kerf,
		TabWidth:          p.TabWidth,
		Symmetry:          p.Symmetry.String(),
		EqualTabs:         p.EqualTabs,
		TabType:           p.TabType.String(),
		DimpleHeight:      p.DimpleHeight,
		DimpleLength:      p.DimpleLength,
		DividersLength:    p.DividersLength,
		DividersWidth:     p.DividersWidth,
		CustomLength:      p.CustomLength,
		CustomWidth:       p.CustomWidth,
		KeyDividers:       p.KeyDividers.String(),
		MaxMaterialWidth:  p.MaxMaterialWidth,
		MaxMaterialHeight: p.MaxMaterialHeight,
		OverlapMultiplier: p.OverlapMultiplier,
		JoinType:          p.JoinType.String(),
		Spacing:           p.Spacing,
		Hairline:          p.Hairline,
	}
}

// Options tune Load.
type Options struct {
	// File is an explicit config file. Empty searches the default paths.
	File string

	// Flags are bound on top of env and file values when set.
	Flags *pflag.FlagSet

	// UserDefaults seeds the box and mill defaults from the saved
	// application config.
	UserDefaults *model.AppConfig

	// BoxDefaults replaces the box defaults outright, e.g. with a saved
	// preset. It sits above UserDefaults.
	BoxDefaults *model.BoxParams
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if opts.UserDefaults != nil {
		applyUserDefaults(v, *opts.UserDefaults)
	}
	if opts.BoxDefaults != nil {
		setBoxDefaults(v, BoxConfigFrom(*opts.BoxDefaults))
	}

	v.SetConfigType("yaml")
	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.File, err)
		}
	} else {
		v.SetConfigName("boxcut")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/boxcut")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("server.port", "PORT")

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// MustLoad loads the configuration and panics on error.
func MustLoad(opts Options) *Config {
	cfg, err := Load(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "boxcut")
	v.SetDefault("app.environment", "production")
	v.SetDefault("app.version", "dev")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", 20*time.Second)
	v.SetDefault("server.max_request_size", 1<<20)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.rate_burst", 20)

	setBoxDefaults(v, BoxConfigFrom(model.DefaultBoxParams()))

	setMillDefaults(v, model.DefaultMillSettings())

	v.SetDefault("output.format", "svg")
	v.SetDefault("output.path", "")
	v.SetDefault("output.presets_path", "")
	v.SetDefault("output.profiles_path", "")
}

func setBoxDefaults(v *viper.Viper, b BoxConfig) {
	v.SetDefault("box.name", b.Name)
	v.SetDefault("box.length", b.Length)
	v.SetDefault("box.width", b.Width)
	v.SetDefault("box.height", b.Height)
	v.SetDefault("box.thickness", b.Thickness)
	v.SetDefault("box.dimension_mode", b.Mode)
	v.SetDefault("box.box_type", b.BoxType)
	v.SetDefault("box.layout", b.Layout)
	v.SetDefault("box.kerf", b.Kerf)
	v.SetDefault("box.tab_width", b.TabWidth)
	v.SetDefault("box.tab_symmetry", b.Symmetry)
	v.SetDefault("box.equal_tabs", b.EqualTabs)
	v.SetDefault("box.tab_type", b.TabType)
	v.SetDefault("box.dimple_height", b.DimpleHeight)
	v.SetDefault("box.dimple_length", b.DimpleLength)
	v.SetDefault("box.dividers_length", b.DividersLength)
	v.SetDefault("box.dividers_width", b.DividersWidth)
	v.SetDefault("box.custom_length", b.CustomLength)
	v.SetDefault("box.custom_width", b.CustomWidth)
	v.SetDefault("box.key_dividers", b.KeyDividers)
	v.SetDefault("box.max_material_width", b.MaxMaterialWidth)
	v.SetDefault("box.max_material_height", b.MaxMaterialHeight)
	v.SetDefault("box.overlap_multiplier", b.OverlapMultiplier)
	v.SetDefault("box.join_type", b.JoinType)
	v.SetDefault("box.spacing", b.Spacing)
	v.SetDefault("box.hairline", b.Hairline)
}

func setMillDefaults(v *viper.Viper, m model.MillSettings) {
	v.SetDefault("mill.tool_diameter", m.ToolDiameter)
	v.SetDefault("mill.feed_rate", m.FeedRate)
	v.SetDefault("mill.plunge_rate", m.PlungeRate)
	v.SetDefault("mill.spindle_speed", m.SpindleSpeed)
	v.SetDefault("mill.safe_z", m.SafeZ)
	v.SetDefault("mill.cut_depth", m.CutDepth)
	v.SetDefault("mill.pass_depth", m.PassDepth)
	v.SetDefault("mill.profile", m.Profile)
}

// applyUserDefaults layers the saved application preferences over the
// built-in defaults.
func applyUserDefaults(v *viper.Viper, c model.AppConfig) {
	p := model.DefaultBoxParams()
	c.ApplyToParams(&p)
	setBoxDefaults(v, BoxConfigFrom(p))
	setMillDefaults(v, c.Mill)
	if c.DefaultFormat != "" {
		v.SetDefault("output.format", c.DefaultFormat)
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"log-level":           "log.level",
	"log-format":          "log.format",
	"host":                "server.host",
	"port":                "server.port",
	"name":                "box.name",
	"length":              "box.length",
	"width":               "box.width",
	"height":              "box.height",
	"thickness":           "box.thickness",
	"dimension-mode":      "box.dimension_mode",
	"box-type":            "box.box_type",
	"layout":              "box.layout",
	"kerf":                "box.kerf",
	"tab-width":           "box.tab_width",
	"tab-symmetry":        "box.tab_symmetry",
	"equal-tabs":          "box.equal_tabs",
	"tab-type":            "box.tab_type",
	"dimple-height":       "box.dimple_height",
	"dimple-length":       "box.dimple_length",
	"dividers-length":     "box.dividers_length",
	"dividers-width":      "box.dividers_width",
	"custom-length":       "box.custom_length",
	"custom-width":        "box.custom_width",
	"key-dividers":        "box.key_dividers",
	"max-material-width":  "box.max_material_width",
	"max-material-height": "box.max_material_height",
	"overlap-multiplier":  "box.overlap_multiplier",
	"join-type":           "box.join_type",
	"spacing":             "box.spacing",
	"hairline":            "box.hairline",
	"format":              "output.format",
	"output":              "output.path",
	"tool-diameter":       "mill.tool_diameter",
	"feed-rate":           "mill.feed_rate",
	"plunge-rate":         "mill.plunge_rate",
	"spindle-speed":       "mill.spindle_speed",
	"safe-z":              "mill.safe_z",
	"cut-depth":           "mill.cut_depth",
	"pass-depth":          "mill.pass_depth",
	"gcode-profile":       "mill.profile",
}

// bindFlags binds every known flag present in fs. Unknown flags are left
// to the caller.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || bindErr != nil {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("failed to bind flag --%s: %w", f.Name, err)
		}
	})
	return bindErr
}

// AddBoxFlags registers the box geometry flags on fs. Defaults are shown in
// help only; the effective default comes from Load.
func AddBoxFlags(fs *pflag.FlagSet) {
	d := BoxConfigFrom(model.DefaultBoxParams())
	fs.String("name", "", "box name, used in titles and labels")
	fs.Float64P("length", "l", d.Length, "box length (X) in mm")
	fs.Float64P("width", "w", d.Width, "box width (Y) in mm")
	fs.Float64P("height", "H", d.Height, "box height (Z) in mm")
	fs.Float64P("thickness", "t", d.Thickness, "material thickness in mm")
	fs.String("dimension-mode", d.Mode, "external or internal dimensions")
	fs.String("box-type", d.BoxType, "full, no-top, no-top-bottom, no-sides, no-front-back, left-bottom")
	fs.String("layout", d.Layout, "diagrammatic, three-piece or inline")
	fs.Float64P("kerf", "k", d.Kerf, "kerf (cut width) in mm")
	fs.Float64("tab-width", d.TabWidth, "nominal tab width in mm")
	fs.String("tab-symmetry", d.Symmetry, "xy, waffle or antisymmetric")
	fs.Bool("equal-tabs", d.EqualTabs, "make tabs and gaps equal")
	fs.String("tab-type", d.TabType, "laser or cnc (dogbone corners)")
	fs.Float64("dimple-height", d.DimpleHeight, "friction dimple height in mm")
	fs.Float64("dimple-length", d.DimpleLength, "friction dimple length in mm")
	fs.Int("dividers-length", d.DividersLength, "dividers along the length")
	fs.Int("dividers-width", d.DividersWidth, "dividers along the width")
	fs.String("custom-length", "", "compartment sizes along the length, e.g. \"40;60\"")
	fs.String("custom-width", "", "compartment sizes along the width")
	fs.String("key-dividers", d.KeyDividers, "walls-and-floor, walls, floor or none")
	fs.Float64("max-material-width", d.MaxMaterialWidth, "material sheet width, 0 = unlimited")
	fs.Float64("max-material-height", d.MaxMaterialHeight, "material sheet height, 0 = unlimited")
	fs.Float64("overlap-multiplier", d.OverlapMultiplier, "split overlap as a multiple of thickness")
	fs.String("join-type", d.JoinType, "split join type")
	fs.Float64("spacing", d.Spacing, "gap between panels in mm")
	fs.Bool("hairline", d.Hairline, "emit hairline strokes")
}

// AddMillFlags registers the router flags used for GCode output.
func AddMillFlags(fs *pflag.FlagSet) {
	m := model.DefaultMillSettings()
	fs.Float64("tool-diameter", m.ToolDiameter, "end mill diameter in mm")
	fs.Float64("feed-rate", m.FeedRate, "cutting feed rate in mm/min")
	fs.Float64("plunge-rate", m.PlungeRate, "plunge feed rate in mm/min")
	fs.Int("spindle-speed", m.SpindleSpeed, "spindle speed in RPM")
	fs.Float64("safe-z", m.SafeZ, "safe retract height in mm")
	fs.Float64("cut-depth", m.CutDepth, "total cut depth in mm, 0 = thickness")
	fs.Float64("pass-depth", m.PassDepth, "depth per pass in mm")
	fs.String("gcode-profile", m.Profile, "GCode post-processor profile")
}
