package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/piwi3910/BoxCut/internal/config"
	"github.com/piwi3910/BoxCut/internal/design"
	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/piwi3910/BoxCut/internal/project"
)

func (c *cli) preset(args []string) error {
	if len(args) == 0 {
		return usagef("preset needs a subcommand: save, list, show or delete")
	}
	sub, rest := args[0], args[1:]

	fs := c.newFlagSet("preset "+sub, sub == "save")
	description := fs.String("description", "", "preset description")
	s, err := c.load(fs, rest)
	if err != nil {
		return err
	}
	path := s.presetsPath()
	store, err := project.LoadPresets(path)
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}

	switch sub {
	case "list":
		tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tSIZE\tTHICKNESS\tDESCRIPTION")
		for _, p := range store.Presets {
			fmt.Fprintf(tw, "%s\t%s\t%gx%gx%g\t%g\t%s\n", p.ID, p.Name,
				p.Params.Length, p.Params.Width, p.Params.Height, p.Params.Thickness, p.Description)
		}
		return tw.Flush()

	case "show":
		name, err := presetName(fs.Args())
		if err != nil {
			return err
		}
		p := store.Find(name)
		if p == nil {
			return usagef("no preset named %q", name)
		}
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(c.stdout, "%s\n", data)
		return err

	case "save":
		name, err := presetName(fs.Args())
		if err != nil {
			return err
		}
		if _, err := design.New(s.params); err != nil {
			return err
		}
		store.Save(model.NewBoxPreset(name, *description, s.params))
		if err := project.SavePresets(path, store); err != nil {
			return fmt.Errorf("failed to save presets: %w", err)
		}
		c.log.Info("preset saved", "name", name, "path", path)
		return nil

	case "delete", "rm":
		name, err := presetName(fs.Args())
		if err != nil {
			return err
		}
		if !store.Remove(name) {
			return usagef("no preset named %q", name)
		}
		if err := project.SavePresets(path, store); err != nil {
			return fmt.Errorf("failed to save presets: %w", err)
		}
		c.log.Info("preset deleted", "name", name)
		return nil
	}
	return usagef("unknown preset subcommand %q", sub)
}

func presetName(args []string) (string, error) {
	if len(args) != 1 {
		return "", usagef("expected exactly one preset name")
	}
	return args[0], nil
}

// config exports and imports the whole saved state, or prints the
// resolved settings.
func (c *cli) config(args []string) error {
	if len(args) == 0 {
		return usagef("config needs a subcommand: export, import or show")
	}
	sub, rest := args[0], args[1:]

	fs := c.newFlagSet("config "+sub, sub == "show")
	s, err := c.load(fs, rest)
	if err != nil {
		return err
	}

	switch sub {
	case "show":
		data, err := json.MarshalIndent(struct {
			Box  config.BoxConfig   `json:"box"`
			Mill model.MillSettings `json:"mill"`
		}{config.BoxConfigFrom(s.params), s.cfg.Mill}, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(c.stdout, "%s\n", data)
		return err

	case "export":
		if fs.NArg() != 1 {
			return usagef("config export needs a file")
		}
		presets, err := project.LoadPresets(s.presetsPath())
		if err != nil {
			return fmt.Errorf("failed to load presets: %w", err)
		}
		profiles, err := project.LoadCustomProfiles(s.profilesPath())
		if err != nil {
			return fmt.Errorf("failed to load profiles: %w", err)
		}
		if err := project.ExportAllData(fs.Arg(0), project.NewBackup(s.user, presets, profiles)); err != nil {
			return err
		}
		c.log.Info("settings exported", "path", fs.Arg(0), "presets", len(presets.Presets), "profiles", len(profiles))
		return nil

	case "import":
		if fs.NArg() != 1 {
			return usagef("config import needs a file")
		}
		backup, err := project.ImportAllData(fs.Arg(0))
		if err != nil {
			return err
		}
		if err := project.SaveAppConfig(project.DefaultConfigPath(), backup.Config); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		if err := project.SavePresets(s.presetsPath(), backup.Presets); err != nil {
			return fmt.Errorf("failed to save presets: %w", err)
		}
		if err := project.SaveCustomProfiles(s.profilesPath(), backup.Profiles); err != nil {
			return fmt.Errorf("failed to save profiles: %w", err)
		}
		c.log.Info("settings imported", "path", fs.Arg(0), "version", backup.Version)
		return nil
	}
	return usagef("unknown config subcommand %q", sub)
}

func (c *cli) profiles(args []string) error {
	fs := c.newFlagSet("profiles", false)
	if _, err := c.load(fs, args); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tUNITS\tBUILT-IN\tDESCRIPTION")
	for _, p := range model.AllProfiles() {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", p.Name, p.Units, p.IsBuiltIn, p.Description)
	}
	return tw.Flush()
}
