package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/piwi3910/BoxCut/internal/engine"
	"github.com/piwi3910/BoxCut/internal/gcode"
	"github.com/piwi3910/BoxCut/internal/importer"
)

func (c *cli) inspect(args []string) error {
	fs := c.newFlagSet("inspect", false)
	if _, err := c.load(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("inspect needs exactly one file")
	}
	path := fs.Arg(0)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".dxf":
		return c.inspectDXF(path)
	case ".nc", ".ngc", ".gcode", ".tap", ".gc":
		return c.inspectGCode(path)
	default:
		return usagef("cannot inspect %s: expected a .dxf or GCode file", path)
	}
}

func (c *cli) inspectDXF(path string) error {
	res, err := importer.ReadDXF(path)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		c.log.Warn(w, "file", path)
	}

	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "file\t%s\n", path)
	fmt.Fprintf(tw, "closed outlines\t%d\n", len(res.Outlines))
	fmt.Fprintf(tw, "panels\t%d\n", len(res.Panels()))
	fmt.Fprintf(tw, "holes and notches\t%d\n", len(res.Holes()))
	fmt.Fprintf(tw, "entities\t%d lines, %d circles, %d arcs\n", res.Lines, res.Circles, res.Arcs)
	if len(res.Layers) > 0 {
		fmt.Fprintf(tw, "layers\t%s\n", strings.Join(res.Layers, ", "))
	}
	for i, o := range res.Panels() {
		lo, hi := o.BoundingBox()
		fmt.Fprintf(tw, "  panel %d\t%.1f x %.1f mm\n", i+1, hi.X-lo.X, hi.Y-lo.Y)
	}
	return tw.Flush()
}

func (c *cli) inspectGCode(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	st := gcode.Stats(gcode.ParseGCode(string(data)))

	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "file\t%s\n", path)
	fmt.Fprintf(tw, "moves\t%d\n", st.Moves)
	fmt.Fprintf(tw, "plunges\t%d\n", st.Plunges)
	fmt.Fprintf(tw, "cut length\t%.1f mm\n", st.CutLength)
	fmt.Fprintf(tw, "rapid length\t%.1f mm\n", st.RapidLength)
	fmt.Fprintf(tw, "extents\t%.1f x %.1f mm\n", st.MaxX-st.MinX, st.MaxY-st.MinY)
	fmt.Fprintf(tw, "max depth\t%.2f mm\n", st.MaxDepth)
	return tw.Flush()
}

func (c *cli) compare(args []string) error {
	fs := c.newFlagSet("compare", true)
	s, err := c.load(fs, args)
	if err != nil {
		return err
	}

	results := engine.CompareScenarios(engine.BuildDefaultScenarios(s.params))
	if results[0].Err != nil {
		return results[0].Err
	}

	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tPATHS\tPOINTS\tCUT LENGTH\tCANVAS\tWARNINGS")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t%v\n", r.Scenario.Name, r.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f m\t%.0f x %.0f mm\t%d\n",
			r.Scenario.Name, r.PathCount, r.PointCount, r.CutLength/1000, r.Width, r.Height, r.Warnings)
	}
	return tw.Flush()
}
