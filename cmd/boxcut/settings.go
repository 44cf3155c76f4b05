package main

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/piwi3910/BoxCut/internal/config"
	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/piwi3910/BoxCut/internal/project"
	"github.com/piwi3910/BoxCut/pkg/logger"
)

// settings is everything a command needs after flags, env, files and saved
// state have been merged.
type settings struct {
	cfg    *config.Config
	params model.BoxParams
	user   model.AppConfig
	fs     *pflag.FlagSet
}

func (s *settings) presetsPath() string {
	if s.cfg.Output.PresetsPath != "" {
		return s.cfg.Output.PresetsPath
	}
	return project.DefaultPresetPath()
}

func (s *settings) profilesPath() string {
	if s.cfg.Output.ProfilesPath != "" {
		return s.cfg.Output.ProfilesPath
	}
	return project.DefaultProfilesPath()
}

// newFlagSet creates a flag set with the flags shared by every command.
func (c *cli) newFlagSet(name string, box bool) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.String("config", "", "YAML config file")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("log-format", "", "log format: console or json")
	if box {
		fs.String("preset", "", "start from a saved preset")
		config.AddBoxFlags(fs)
		config.AddMillFlags(fs)
	}
	return fs
}

// load parses args into fs and resolves the configuration. Box parameters
// are converted but not validated.
func (c *cli) load(fs *pflag.FlagSet, args []string) (*settings, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, usagef("%v", err)
	}

	user, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load saved settings: %w", err)
	}

	file, _ := fs.GetString("config")
	opts := config.Options{File: file, Flags: fs, UserDefaults: &user}
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}

	if f := fs.Lookup("preset"); f != nil && f.Value.String() != "" {
		s := &settings{cfg: cfg}
		store, err := project.LoadPresets(s.presetsPath())
		if err != nil {
			return nil, fmt.Errorf("failed to load presets: %w", err)
		}
		preset := store.Find(f.Value.String())
		if preset == nil {
			return nil, usagef("no preset named %q", f.Value.String())
		}
		opts.BoxDefaults = &preset.Params
		if cfg, err = config.Load(opts); err != nil {
			return nil, err
		}
	}

	c.log = c.newLogger(cfg, fs)

	s := &settings{cfg: cfg, user: user, fs: fs}
	if skipped, err := project.RegisterCustomProfiles(s.profilesPath()); err != nil {
		c.log.Warn("custom GCode profiles not loaded", "path", s.profilesPath(), "error", err)
	} else {
		for _, name := range skipped {
			c.log.Warn("custom GCode profile skipped", "name", name)
		}
	}

	if s.params, err = cfg.Box.ToParams(); err != nil {
		return nil, err
	}
	return s, nil
}

// newLogger writes to stderr so stdout stays clean for piped output. The
// CLI defaults to the console encoder.
func (c *cli) newLogger(cfg *config.Config, fs *pflag.FlagSet) *logger.Logger {
	format := "console"
	if f := fs.Lookup("log-format"); f != nil && f.Changed {
		format = cfg.Log.Format
	}
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: format, Output: c.stderr})
	if err != nil {
		fmt.Fprintf(c.stderr, "boxcut: %v, using defaults\n", err)
		log = logger.MustNew(logger.Config{Format: "console", Output: c.stderr})
	}
	return log.Named("boxcut")
}
