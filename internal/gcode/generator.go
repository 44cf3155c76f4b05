// Package gcode turns generated box geometry into router GCode for the
// post-processor profiles in model.
package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/BoxCut/internal/engine"
	"github.com/piwi3910/BoxCut/internal/model"
)

// Generator produces GCode from a generated box.
type Generator struct {
	Settings model.MillSettings
	profile  model.GCodeProfile
	depth    float64
}

func New(settings model.MillSettings) *Generator {
	return &Generator{
		Settings: settings,
		profile:  model.GetProfile(settings.Profile),
	}
}

// Generate produces one GCode program cutting every path of the result.
// Drawing coordinates are moved so the lower-left corner of the geometry
// sits at the machine origin, with Y pointing away from the operator.
// Paths are cut in emission order, so keying notches come before the
// outline they sit in.
func (g *Generator) Generate(res *engine.Result) (string, error) {
	if res == nil || res.Design == nil || len(res.Paths) == 0 {
		return "", fmt.Errorf("no paths to cut")
	}
	if g.Settings.PassDepth <= 0 {
		return "", fmt.Errorf("pass depth must be positive, got %.2f", g.Settings.PassDepth)
	}

	g.depth = g.CutDepth(res.Design.Params.Thickness)
	lo, hi, _ := res.Bounds()
	toMachine := func(p model.Point2D) model.Point2D {
		return model.Point2D{X: p.X - lo.X, Y: hi.Y - p.Y}
	}

	var b strings.Builder
	g.writeHeader(&b, res, hi.X-lo.X, hi.Y-lo.Y)

	group := ""
	for i, path := range res.Paths {
		if path.Group != group {
			group = path.Group
			b.WriteString(g.comment(fmt.Sprintf("=== Panel %s ===", group)))
		}
		switch path.Kind {
		case model.PathCircle:
			g.writeCircle(&b, toMachine(path.Center), path.Radius, i+1)
		default:
			pts := make(model.Outline, len(path.Points))
			for j, p := range path.Points {
				pts[j] = toMachine(p)
			}
			g.writePolyline(&b, pts, path.Notch, i+1)
		}
	}

	g.writeFooter(&b)
	return b.String(), nil
}

// CutDepth is the total depth cut into the material.
func (g *Generator) CutDepth(thickness float64) float64 {
	if g.Settings.CutDepth > 0 {
		return g.Settings.CutDepth
	}
	return thickness
}

// Passes returns the per-pass depths down to the total depth.
func (g *Generator) Passes(depth float64) []float64 {
	n := int(math.Ceil(depth/g.Settings.PassDepth - 1e-9))
	if n < 1 {
		n = 1
	}
	passes := make([]float64, n)
	for i := range passes {
		passes[i] = math.Min(float64(i+1)*g.Settings.PassDepth, depth)
	}
	return passes
}

func (g *Generator) writeHeader(b *strings.Builder, res *engine.Result, width, height float64) {
	p := g.profile
	params := res.Design.Params

	b.WriteString(g.comment(fmt.Sprintf("BoxCut GCode - design %s", res.DesignID)))
	b.WriteString(g.comment(fmt.Sprintf("Extents: %.1f x %.1f mm, %d panels", width, height, len(res.Placements))))
	b.WriteString(g.comment(fmt.Sprintf("Tool: %.1fmm, Feed: %.0f mm/min, Plunge: %.0f mm/min",
		g.Settings.ToolDiameter, g.Settings.FeedRate, g.Settings.PlungeRate)))
	b.WriteString(g.comment(fmt.Sprintf("Depth: %.1fmm in %.1fmm passes", g.depth, g.Settings.PassDepth)))
	b.WriteString(g.comment(fmt.Sprintf("Profile: %s", p.Name)))
	if math.Abs(params.Kerf-g.Settings.ToolDiameter) > 1e-6 {
		b.WriteString(g.comment(fmt.Sprintf("WARNING: kerf %.2fmm differs from the %.2fmm tool",
			params.Kerf, g.Settings.ToolDiameter)))
	}
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}

	if p.SpindleStart != "" {
		b.WriteString(fmt.Sprintf(p.SpindleStart+"\n", g.Settings.SpindleSpeed))
	}

	b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ)))
	b.WriteString(fmt.Sprintf("%s X%s Y%s\n", p.RapidMove, g.format(0), g.format(0)))

	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	p := g.profile

	b.WriteString("\n")
	b.WriteString(g.comment("=== Job complete ==="))

	for _, code := range p.EndCode {
		code = strings.ReplaceAll(code, "[SafeZ]", g.format(g.Settings.SafeZ))
		b.WriteString(code + "\n")
	}

	if p.SpindleStop != "" && !containsCode(p.EndCode, p.SpindleStop) {
		b.WriteString(p.SpindleStop + "\n")
	}
}

// writePolyline follows the points at every pass depth. A closed notch
// returns to its first point before retracting.
func (g *Generator) writePolyline(b *strings.Builder, pts model.Outline, closed bool, num int) {
	if len(pts) < 2 {
		b.WriteString(g.comment(fmt.Sprintf("WARNING: path %d has fewer than 2 points, skipping", num)))
		return
	}
	kind := "edge"
	if closed {
		kind = "notch"
	}
	b.WriteString(g.comment(fmt.Sprintf("--- Path %d (%s, %d points) ---", num, kind, len(pts))))

	passes := g.Passes(g.depth)
	for i, depth := range passes {
		b.WriteString(g.comment(fmt.Sprintf("Pass %d/%d, depth=%.2fmm", i+1, len(passes), depth)))

		b.WriteString(fmt.Sprintf("%s X%s Y%s\n", g.profile.RapidMove,
			g.format(pts[0].X), g.format(pts[0].Y)))
		b.WriteString(fmt.Sprintf("%s Z%s F%s\n", g.profile.FeedMove,
			g.format(-depth), g.format(g.Settings.PlungeRate)))

		for _, p := range pts[1:] {
			b.WriteString(g.feedTo(p))
		}
		if closed && !samePoint(pts[0], pts[len(pts)-1]) {
			b.WriteString(g.feedTo(pts[0]))
		}

		b.WriteString(fmt.Sprintf("%s Z%s\n", g.profile.RapidMove, g.format(g.Settings.SafeZ)))
	}
	b.WriteString("\n")
}

// writeCircle cuts a full clockwise circle starting at its east point.
func (g *Generator) writeCircle(b *strings.Builder, c model.Point2D, r float64, num int) {
	b.WriteString(g.comment(fmt.Sprintf("--- Path %d (circle r=%.2f) ---", num, r)))
	startX := c.X + r

	passes := g.Passes(g.depth)
	for i, depth := range passes {
		b.WriteString(g.comment(fmt.Sprintf("Pass %d/%d, depth=%.2fmm", i+1, len(passes), depth)))
		b.WriteString(fmt.Sprintf("%s X%s Y%s\n", g.profile.RapidMove, g.format(startX), g.format(c.Y)))
		b.WriteString(fmt.Sprintf("%s Z%s F%s\n", g.profile.FeedMove,
			g.format(-depth), g.format(g.Settings.PlungeRate)))
		b.WriteString(fmt.Sprintf("G2 X%s Y%s I%s J%s F%s\n",
			g.format(startX), g.format(c.Y), g.format(-r), g.format(0), g.format(g.Settings.FeedRate)))
		b.WriteString(fmt.Sprintf("%s Z%s\n", g.profile.RapidMove, g.format(g.Settings.SafeZ)))
	}
	b.WriteString("\n")
}

func (g *Generator) feedTo(p model.Point2D) string {
	return fmt.Sprintf("%s X%s Y%s F%s\n", g.profile.FeedMove,
		g.format(p.X), g.format(p.Y), g.format(g.Settings.FeedRate))
}

// comment formats a comment line using the profile's comment style.
func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	format := fmt.Sprintf("%%.%df", g.profile.DecimalPlaces)
	s := fmt.Sprintf(format, v)
	if strings.Trim(s, "-0.") == "" {
		// avoid "-0.000"
		return fmt.Sprintf(format, 0.0)
	}
	return s
}

func samePoint(a, b model.Point2D) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
