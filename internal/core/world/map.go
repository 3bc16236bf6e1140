// Package world contains the pure world model: the fixed terrain grid,
// grid distance, travel timing and village placement.
// This is part of the Functional Core - no I/O, only pure functions.
package world

import "fmt"

// Size is the width and height of the world grid.
const Size = 100

// Feature is the terrain feature of a tile.
type Feature uint8

const (
	FeatureNone Feature = iota
	FeatureForest
	FeatureMountain
)

// String returns the stable name used in storage and CLI output.
func (f Feature) String() string {
	switch f {
	case FeatureNone:
		return "none"
	case FeatureForest:
		return "forest"
	case FeatureMountain:
		return "mountain"
	default:
		return fmt.Sprintf("feature(%d)", uint8(f))
	}
}

// ParseFeature is the inverse of Feature.String.
func ParseFeature(s string) (Feature, error) {
	switch s {
	case "none", "":
		return FeatureNone, nil
	case "forest":
		return FeatureForest, nil
	case "mountain":
		return FeatureMountain, nil
	}
	return FeatureNone, fmt.Errorf("unknown feature %q", s)
}

// Point is a grid coordinate.
type Point struct {
	X, Y int
}

// Tile is one cell of the world grid.
type Tile struct {
	X       int
	Y       int
	Feature Feature
}

// Map is an immutable Size×Size grid stored row-major.
type Map struct {
	seed  int64
	tiles []Tile
}

// Seed returns the seed the map was generated from.
func (m *Map) Seed() int64 { return m.seed }

// InBounds reports whether (x, y) lies on the grid.
func InBounds(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}

// Tile returns the tile at (x, y). ok is false outside the grid.
func (m *Map) Tile(x, y int) (Tile, bool) {
	if !InBounds(x, y) {
		return Tile{}, false
	}
	return m.tiles[y*Size+x], true
}

// Tiles returns a copy of every tile in row-major order.
func (m *Map) Tiles() []Tile {
	out := make([]Tile, len(m.tiles))
	copy(out, m.tiles)
	return out
}

// Counts returns the number of tiles per feature.
func (m *Map) Counts() map[Feature]int {
	counts := map[Feature]int{
		FeatureNone:     0,
		FeatureForest:   0,
		FeatureMountain: 0,
	}
	for _, t := range m.tiles {
		counts[t.Feature]++
	}
	return counts
}

// Encode returns one byte per tile in row-major order.
// Two maps are identical iff their encodings are byte-identical.
func (m *Map) Encode() []byte {
	out := make([]byte, len(m.tiles))
	for i, t := range m.tiles {
		out[i] = byte(t.Feature)
	}
	return out
}
