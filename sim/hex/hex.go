// Package hex provides axial hex-grid coordinates and the fixed neighbor
// enumeration used by the signal engine. Neighbor order is part of the
// contract: ATP consumption picks the first token found in this order.
package hex

import (
	"fmt"
	"strconv"
	"strings"
)

// Coord is an axial hex coordinate.
type Coord struct {
	Q int `yaml:"q"`
	R int `yaml:"r"`
}

// Direction indexes the six hex directions, 0..5.
type Direction int

// directions lists axial offsets in enumeration order:
// E, NE, NW, W, SW, SE.
var directions = [6]Coord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbor pairs an adjacent coordinate with the direction it lies in.
type Neighbor struct {
	Coord Coord
	Dir   Direction
}

// Add returns c + o.
func (c Coord) Add(o Coord) Coord {
	return Coord{Q: c.Q + o.Q, R: c.R + o.R}
}

// Sub returns c - o.
func (c Coord) Sub(o Coord) Coord {
	return Coord{Q: c.Q - o.Q, R: c.R - o.R}
}

// Key returns the "q,r" position key used by ATP token sets.
func (c Coord) Key() string {
	return strconv.Itoa(c.Q) + "," + strconv.Itoa(c.R)
}

func (c Coord) String() string {
	return "(" + c.Key() + ")"
}

// Neighbors returns the six neighbors of c in fixed direction order.
func Neighbors(c Coord) [6]Neighbor {
	var out [6]Neighbor
	for i, d := range directions {
		out[i] = Neighbor{Coord: c.Add(d), Dir: Direction(i)}
	}
	return out
}

// Opposite returns the hex diametrically opposite p through center.
// For p adjacent to center the result is also adjacent to center.
func Opposite(center, p Coord) Coord {
	return center.Sub(p.Sub(center))
}

// Adjacent reports whether a and b are neighbors.
func Adjacent(a, b Coord) bool {
	d := b.Sub(a)
	for _, dir := range directions {
		if d == dir {
			return true
		}
	}
	return false
}

// Distance returns the hex distance between a and b.
func Distance(a, b Coord) int {
	d := a.Sub(b)
	return (abs(d.Q) + abs(d.R) + abs(d.Q+d.R)) / 2
}

// ParseKey parses a "q,r" position key.
func ParseKey(key string) (Coord, error) {
	parts := strings.Split(key, ",")
	if len(parts) != 2 {
		return Coord{}, fmt.Errorf("invalid position key %q: want \"q,r\"", key)
	}
	q, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Coord{}, fmt.Errorf("invalid position key %q: %w", key, err)
	}
	r, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Coord{}, fmt.Errorf("invalid position key %q: %w", key, err)
	}
	return Coord{Q: q, R: r}, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
