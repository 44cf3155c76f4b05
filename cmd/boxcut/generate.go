package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/piwi3910/BoxCut/internal/engine"
	"github.com/piwi3910/BoxCut/internal/export"
	"github.com/piwi3910/BoxCut/internal/gcode"
	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/piwi3910/BoxCut/internal/project"
)

// formatExt maps output formats to their default file suffix.
var formatExt = map[string]string{
	"svg":    ".svg",
	"dxf":    ".dxf",
	"pdf":    ".pdf",
	"gcode":  ".nc",
	"labels": "-labels.pdf",
	"xlsx":   ".xlsx",
	"json":   ".json",
}

// textFormats go to stdout when no output is given. Binary formats default
// to a file and only stream with -o -.
var textFormats = map[string]bool{"svg": true, "gcode": true, "json": true}

func (c *cli) generate(args []string) error {
	fs := c.newFlagSet("generate", true)
	fs.StringP("format", "f", "", "svg, dxf, pdf, gcode, labels, xlsx or json")
	fs.StringP("output", "o", "", "output file, - for stdout")
	s, err := c.load(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usagef("generate takes no arguments, got %q", fs.Args())
	}

	format := strings.ToLower(s.cfg.Output.Format)
	if _, ok := formatExt[format]; !ok {
		return usagef("unknown format %q", format)
	}

	res, err := engine.New(s.params).Generate()
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		c.log.Warn(w)
	}

	path, err := c.writeResult(res, format, s.cfg.Output.Path, s.cfg.Mill)
	if err != nil {
		return err
	}
	if path == "" {
		return nil
	}

	c.log.Info("box written",
		"path", path,
		"format", format,
		"design_id", res.DesignID,
		"panels", len(res.Placements),
		"paths", len(res.Paths),
	)
	s.user.AddRecentOutput(path)
	if err := project.SaveAppConfig(project.DefaultConfigPath(), s.user); err != nil {
		c.log.Warn("recent outputs not saved", "error", err)
	}
	return nil
}

// writeResult renders res in format. It returns the file written, or ""
// when the output went to stdout.
func (c *cli) writeResult(res *engine.Result, format, path string, mill model.MillSettings) (string, error) {
	if path == "" && !textFormats[format] {
		path = defaultFileName(res, format)
	}
	toStdout := path == "" || path == "-"

	var err error
	switch format {
	case "svg":
		if toStdout {
			err = export.WriteSVG(c.stdout, res)
		} else {
			err = export.ExportSVG(path, res)
		}
	case "dxf":
		if toStdout {
			return "", usagef("dxf output needs a file, use -o")
		}
		err = export.ExportDXF(path, res)
	case "pdf":
		if toStdout {
			err = export.WritePDF(c.stdout, res)
		} else {
			err = export.ExportPDF(path, res)
		}
	case "labels":
		if toStdout {
			return "", usagef("labels output needs a file, use -o")
		}
		err = export.ExportLabels(path, res)
	case "xlsx":
		if toStdout {
			err = export.WriteCutList(c.stdout, res)
		} else {
			err = export.ExportCutList(path, res)
		}
	case "gcode":
		var code string
		if code, err = gcode.New(mill).Generate(res); err != nil {
			return "", fmt.Errorf("failed to generate gcode: %w", err)
		}
		err = writeText(c.stdout, toStdout, path, code)
	case "json":
		var data []byte
		if data, err = json.MarshalIndent(res, "", "  "); err != nil {
			return "", fmt.Errorf("failed to encode result: %w", err)
		}
		err = writeText(c.stdout, toStdout, path, string(data)+"\n")
	default:
		return "", usagef("unknown format %q", format)
	}
	if err != nil {
		return "", err
	}
	if toStdout {
		return "", nil
	}
	return path, nil
}

func writeText(stdout io.Writer, toStdout bool, path, text string) error {
	if toStdout {
		_, err := io.WriteString(stdout, text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// defaultFileName derives a file name from the box name, or from the
// design ID for unnamed boxes.
func defaultFileName(res *engine.Result, format string) string {
	base := sanitize(res.Design.Params.Name)
	if base == "" {
		base = "box-" + res.DesignID[:8]
	}
	return base + formatExt[format]
}

func sanitize(name string) string {
	name = strings.TrimSpace(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, name)
}
