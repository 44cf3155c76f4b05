package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/BoxCut/internal/engine"
	"github.com/piwi3910/BoxCut/internal/importer"
	"github.com/piwi3910/BoxCut/internal/model"
)

// batch generates every box in a sheet. Columns missing from the sheet
// take the values of the current flags.
func (c *cli) batch(args []string) error {
	fs := c.newFlagSet("batch", true)
	fs.StringP("format", "f", "", "svg, dxf, pdf, gcode, labels, xlsx or json")
	outDir := fs.String("out-dir", ".", "directory for the generated files")
	s, err := c.load(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("batch needs exactly one CSV or Excel file")
	}

	format := strings.ToLower(s.cfg.Output.Format)
	if format == "" || format == "-" {
		format = "svg"
	}
	if _, ok := formatExt[format]; !ok {
		return usagef("unknown format %q", format)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", *outDir, err)
	}

	imported := importer.ImportFile(fs.Arg(0), s.params)
	for _, w := range imported.Warnings {
		c.log.Warn(w)
	}
	for _, e := range imported.Errors {
		c.log.Error(e)
	}
	if len(imported.Boxes) == 0 {
		if len(imported.Errors) > 0 {
			return model.NewValidationError("batch", "no usable rows in %s", fs.Arg(0))
		}
		return usagef("no boxes found in %s", fs.Arg(0))
	}

	failed := len(imported.Errors)
	seen := map[string]int{}
	for _, row := range imported.Boxes {
		res, err := engine.New(row.Params).Generate()
		if err != nil {
			c.log.Error("box rejected", "line", row.Line, "name", row.Params.Name, "error", err)
			failed++
			continue
		}

		name := defaultFileName(res, format)
		if n := seen[name]; n > 0 {
			name = strings.TrimSuffix(name, formatExt[format]) + fmt.Sprintf("-%d", n+1) + formatExt[format]
		}
		seen[defaultFileName(res, format)]++

		path, err := c.writeResult(res, format, filepath.Join(*outDir, name), s.cfg.Mill)
		if err != nil {
			return err
		}
		c.log.Info("box written", "line", row.Line, "path", path, "quantity", row.Quantity, "design_id", res.DesignID)
		fmt.Fprintf(c.stdout, "%s\tx%d\n", path, row.Quantity)
	}

	if failed > 0 {
		total := len(imported.Errors) + len(imported.Boxes)
		return model.NewValidationError("batch", "%d of %d rows failed", failed, total)
	}
	return nil
}
