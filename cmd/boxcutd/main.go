// boxcutd serves box generation over HTTP.
//
// Usage:
//
//	boxcutd --port 8080 --log-level debug
//
// Environment Variables:
//
//	BOXCUT_SERVER_PORT  HTTP port (PORT is honoured too)
//	BOXCUT_LOG_LEVEL    debug, info, warn or error
//	BOXCUT_MILL_*       default router settings for /v1/boxes/gcode
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/piwi3910/BoxCut/internal/config"
	"github.com/piwi3910/BoxCut/internal/project"
	"github.com/piwi3910/BoxCut/internal/server"
	"github.com/piwi3910/BoxCut/pkg/logger"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	fs := pflag.NewFlagSet("boxcutd", pflag.ContinueOnError)
	configFile := fs.String("config", "", "YAML config file")
	fs.String("host", "", "bind address")
	fs.Int("port", 0, "HTTP port")
	fs.String("log-level", "", "log level")
	fs.String("log-format", "", "log format: json or console")
	config.AddMillFlags(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.Load(config.Options{File: *configFile, Flags: fs})
	if err != nil {
		fmt.Fprintf(os.Stderr, "boxcutd: %v\n", err)
		os.Exit(1)
	}
	if cfg.App.Version == "dev" {
		cfg.App.Version = version
	}

	log := logger.MustNew(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: cfg.App.Environment == "development",
	}).Named("boxcutd")
	defer log.Sync()
	logger.SetGlobal(log)

	profilesPath := cfg.Output.ProfilesPath
	if profilesPath == "" {
		profilesPath = project.DefaultProfilesPath()
	}
	if skipped, err := project.RegisterCustomProfiles(profilesPath); err != nil {
		log.Warn("custom GCode profiles not loaded", "path", profilesPath, "error", err)
	} else if len(skipped) > 0 {
		log.Warn("custom GCode profiles skipped", "names", skipped)
	}

	log.Info("starting boxcutd",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"address", cfg.Server.Addr(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server, cfg.Mill, log, cfg.App.Version)
	if err := srv.Run(ctx); err != nil {
		log.Error("server stopped", "error", err)
		_ = log.Sync()
		os.Exit(1)
	}
}
