package world

const (
	// MinBorderDistance and MaxBorderDistance bound how far from the nearest
	// edge a village may be founded.
	MinBorderDistance = 3
	MaxBorderDistance = 10
)

// InBorderZone reports whether a tile lies between MinBorderDistance and
// MaxBorderDistance cells from at least one edge.
func InBorderZone(x, y int) bool {
	maxCoord := Size - 1
	for _, d := range [...]int{x, maxCoord - x, y, maxCoord - y} {
		if d >= MinBorderDistance && d <= MaxBorderDistance {
			return true
		}
	}
	return false
}

// FindVillageSite returns the first featureless border-zone tile in
// row-major order that is not taken. ok is false when none is left.
func FindVillageSite(m *Map, taken map[Point]bool) (Point, bool) {
	for _, t := range m.tiles {
		if t.Feature != FeatureNone || !InBorderZone(t.X, t.Y) {
			continue
		}
		p := Point{X: t.X, Y: t.Y}
		if taken[p] {
			continue
		}
		return p, true
	}
	return Point{}, false
}
