package gcode

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MoveType represents the type of CNC toolpath movement.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0: rapid positioning (no cutting)
	MoveFeed                    // G1: linear feed (cutting move in XY plane)
	MovePlunge                  // G1 with Z decreasing: plunging into material
	MoveRetract                 // G0/G1 with Z increasing: retracting from material
	MoveArc                     // G2/G3: circular feed, endpoint only
)

// Move is a single parsed movement.
type Move struct {
	Type     MoveType
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	FeedRate float64
}

// ProgramStats summarizes a parsed program.
type ProgramStats struct {
	Moves       int
	Plunges     int
	CutLength   float64 // XY travel below Z0
	RapidLength float64
	MinX, MinY  float64 // extents of cutting moves
	MaxX, MaxY  float64
	MaxDepth    float64 // deepest Z reached, as a positive number
}

var coordRe = regexp.MustCompile(`([XYZF])(-?\d+\.?\d*)`)

// ParseGCode parses a GCode string into a slice of structured moves. It
// tracks absolute position state and classifies each G0/G1/G2/G3 command.
// Arcs are recorded by their endpoints.
func ParseGCode(code string) []Move {
	var moves []Move

	curX, curY, curZ := 0.0, 0.0, 0.0
	curFeed := 0.0

	for _, line := range strings.Split(code, "\n") {
		line = stripComment(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		cmd := strings.Fields(upper)[0]
		var isRapid, isArc bool
		switch cmd {
		case "G0", "G00":
			isRapid = true
		case "G1", "G01":
		case "G2", "G02", "G3", "G03":
			isArc = true
		default:
			continue
		}

		newX, newY, newZ, newFeed := curX, curY, curZ, curFeed
		for _, m := range coordRe.FindAllStringSubmatch(upper, -1) {
			val, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			switch m[1] {
			case "X":
				newX = val
			case "Y":
				newY = val
			case "Z":
				newZ = val
			case "F":
				newFeed = val
			}
		}

		moveType := MoveArc
		if !isArc {
			moveType = classifyMove(isRapid, curZ, newZ, curX, curY, newX, newY)
		}

		moves = append(moves, Move{
			Type:     moveType,
			FromX:    curX,
			FromY:    curY,
			FromZ:    curZ,
			ToX:      newX,
			ToY:      newY,
			ToZ:      newZ,
			FeedRate: newFeed,
		})

		curX, curY, curZ, curFeed = newX, newY, newZ, newFeed
	}

	return moves
}

// stripComment removes semicolon and parenthetical comments.
func stripComment(line string) string {
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	for {
		start := strings.Index(line, "(")
		if start < 0 {
			break
		}
		end := strings.Index(line[start:], ")")
		if end < 0 {
			line = line[:start]
			break
		}
		line = line[:start] + line[start+end+1:]
	}
	return strings.TrimSpace(line)
}

// classifyMove determines the MoveType based on movement characteristics.
func classifyMove(isRapid bool, fromZ, toZ, fromX, fromY, toX, toY float64) MoveType {
	zDelta := toZ - fromZ
	hasXY := fromX != toX || fromY != toY

	switch {
	case isRapid:
		if zDelta > 0 {
			return MoveRetract
		}
		return MoveRapid
	case zDelta < -0.001 && !hasXY:
		return MovePlunge
	case zDelta > 0.001 && !hasXY:
		return MoveRetract
	default:
		return MoveFeed
	}
}

// Stats summarizes moves. Extents cover feed and arc moves below Z0 only.
func Stats(moves []Move) ProgramStats {
	s := ProgramStats{Moves: len(moves)}
	first := true
	for _, m := range moves {
		xy := math.Hypot(m.ToX-m.FromX, m.ToY-m.FromY)
		switch m.Type {
		case MoveRapid, MoveRetract:
			s.RapidLength += xy
		case MovePlunge:
			s.Plunges++
		}
		s.MaxDepth = math.Max(s.MaxDepth, -m.ToZ)

		if (m.Type != MoveFeed && m.Type != MoveArc) || m.ToZ >= 0 {
			continue
		}
		s.CutLength += xy
		for _, p := range [][2]float64{{m.FromX, m.FromY}, {m.ToX, m.ToY}} {
			if first {
				s.MinX, s.MaxX, s.MinY, s.MaxY = p[0], p[0], p[1], p[1]
				first = false
				continue
			}
			s.MinX = math.Min(s.MinX, p[0])
			s.MaxX = math.Max(s.MaxX, p[0])
			s.MinY = math.Min(s.MinY, p[1])
			s.MaxY = math.Max(s.MaxY, p[1])
		}
	}
	return s
}
