// boxcut generates cut files for laser-cut and CNC-milled tabbed boxes.
//
// Usage:
//
//	boxcut generate -l 200 -w 120 -H 80 -t 3 --dividers-length 2 -f svg -o box.svg
//	boxcut generate --preset drawer -f gcode -o drawer.nc
//	boxcut inspect box.dxf
//	boxcut compare -l 200 -w 120 -H 80
//	boxcut batch boxes.xlsx --out-dir cut/
//	boxcut preset save|list|show|delete NAME
//	boxcut config export|import|show FILE
//	boxcut profiles
//
// Every box flag can also come from BOXCUT_BOX_* environment variables or a
// boxcut.yaml file. Exit status is 2 for rejected parameters or bad usage
// and 1 for I/O failures.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/piwi3910/BoxCut/pkg/logger"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	exitOK      = 0
	exitIO      = 1
	exitInvalid = 2
)

// usageError marks bad invocations.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// cli carries the process streams so commands can be driven from tests.
type cli struct {
	stdout io.Writer
	stderr io.Writer
	log    *logger.Logger
}

func main() {
	c := &cli{stdout: os.Stdout, stderr: os.Stderr, log: logger.Nop()}
	code := c.run(os.Args[1:])
	_ = c.log.Sync()
	os.Exit(code)
}

func (c *cli) run(args []string) int {
	if len(args) == 0 {
		c.usage()
		return exitInvalid
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "generate", "gen":
		err = c.generate(rest)
	case "inspect":
		err = c.inspect(rest)
	case "compare":
		err = c.compare(rest)
	case "batch":
		err = c.batch(rest)
	case "preset", "presets":
		err = c.preset(rest)
	case "config":
		err = c.config(rest)
	case "profiles":
		err = c.profiles(rest)
	case "version":
		fmt.Fprintf(c.stdout, "boxcut %s\n", version)
	case "help", "-h", "--help":
		c.usage()
	default:
		fmt.Fprintf(c.stderr, "boxcut: unknown command %q\n\n", cmd)
		c.usage()
		return exitInvalid
	}
	return c.exitCode(err)
}

func (c *cli) exitCode(err error) int {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	fmt.Fprintf(c.stderr, "boxcut: %v\n", err)

	var ue usageError
	if errors.As(err, &ue) || model.IsDesignError(err) {
		return exitInvalid
	}
	return exitIO
}

func (c *cli) usage() {
	fmt.Fprint(c.stderr, `usage: boxcut <command> [flags]

commands:
  generate   build a box and write svg, dxf, pdf, gcode, labels, xlsx or json
  inspect    summarise a DXF or GCode file
  compare    compare kerf and cutter variants of a box
  batch      generate every box listed in a CSV or Excel sheet
  preset     save, list, show or delete named boxes
  config     export, import or show saved settings
  profiles   list GCode post-processor profiles
  version    print the version

run "boxcut <command> --help" for the flags of a command.
`)
}
