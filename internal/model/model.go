package model

import (
	"fmt"
	"math"
	"strings"
)

// Point2D represents a 2D coordinate in mm.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p shifted by q.
func (p Point2D) Add(q Point2D) Point2D {
	return Point2D{X: p.X + q.X, Y: p.Y + q.Y}
}

// Outline represents a polygon or open polyline as a sequence of 2D points.
type Outline []Point2D

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point2D) {
	if len(o) == 0 {
		return Point2D{}, Point2D{}
	}
	min = Point2D{X: o[0].X, Y: o[0].Y}
	max = Point2D{X: o[0].X, Y: o[0].Y}
	for _, p := range o[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// Length returns the summed segment length of the outline, not closing it.
func (o Outline) Length() float64 {
	var total float64
	for i := 1; i < len(o); i++ {
		total += math.Hypot(o[i].X-o[i-1].X, o[i].Y-o[i-1].Y)
	}
	return total
}

// PathKind distinguishes polyline cuts from circular cuts.
type PathKind int

const (
	PathPolyline PathKind = iota
	PathCircle
)

func (k PathKind) String() string {
	if k == PathCircle {
		return "circle"
	}
	return "polyline"
}

// MarshalText encodes the kind by name.
func (k PathKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *PathKind) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "polyline":
		*k = PathPolyline
	case "circle":
		*k = PathCircle
	default:
		return fmt.Errorf("unknown path kind %q", string(b))
	}
	return nil
}

// Stroke widths used as style hints for the serializers.
const (
	StrokeDefault  = 1.0
	StrokeHairline = 0.002 * 25.4
)

// Path is one cut emitted by the generator: an ordered polyline or a circle.
// Group names the panel the cut belongs to.
type Path struct {
	Kind        PathKind `json:"kind"`
	Group       string   `json:"group"`
	Notch       bool     `json:"notch,omitempty"` // closed divider-keying notch
	Points      Outline  `json:"points,omitempty"`
	Center      Point2D  `json:"center"`
	Radius      float64  `json:"radius,omitempty"`
	StrokeWidth float64  `json:"stroke_width"`
}

// NewPolyline creates a polyline path.
func NewPolyline(group string, points Outline, stroke float64) Path {
	return Path{Kind: PathPolyline, Group: group, Points: points, StrokeWidth: stroke}
}

// NewCircle creates a circular path.
func NewCircle(group string, center Point2D, radius, stroke float64) Path {
	return Path{Kind: PathCircle, Group: group, Center: center, Radius: radius, StrokeWidth: stroke}
}

// Bounds returns the extents of the path.
func (p Path) Bounds() (min, max Point2D) {
	if p.Kind == PathCircle {
		return Point2D{X: p.Center.X - p.Radius, Y: p.Center.Y - p.Radius},
			Point2D{X: p.Center.X + p.Radius, Y: p.Center.Y + p.Radius}
	}
	return p.Points.BoundingBox()
}

// CutLength returns the tool travel along the path.
func (p Path) CutLength() float64 {
	if p.Kind == PathCircle {
		return 2 * math.Pi * p.Radius
	}
	return p.Points.Length()
}

// Translate shifts the path by dx, dy.
func (p Path) Translate(dx, dy float64) Path {
	out := p
	if p.Kind == PathCircle {
		out.Center = Point2D{X: p.Center.X + dx, Y: p.Center.Y + dy}
		return out
	}
	out.Points = p.Points.Translate(dx, dy)
	return out
}

// Bounds returns the combined extents of all paths. ok is false when there
// is nothing to measure.
func Bounds(paths []Path) (min, max Point2D, ok bool) {
	for _, p := range paths {
		if p.Kind == PathPolyline && len(p.Points) == 0 {
			continue
		}
		lo, hi := p.Bounds()
		if !ok {
			min, max, ok = lo, hi, true
			continue
		}
		min.X = math.Min(min.X, lo.X)
		min.Y = math.Min(min.Y, lo.Y)
		max.X = math.Max(max.X, hi.X)
		max.Y = math.Max(max.Y, hi.Y)
	}
	return min, max, ok
}

// TotalCutLength sums the cut length of all paths.
func TotalCutLength(paths []Path) float64 {
	var total float64
	for _, p := range paths {
		total += p.CutLength()
	}
	return total
}
