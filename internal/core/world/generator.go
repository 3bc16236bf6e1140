package world

import "sync"

// DefaultSeed is the seed of the one world every village lives in.
const DefaultSeed int64 = 123456789

// FeatureProbability is the chance that a tile receives a feature.
const FeatureProbability = 0.065

// placementOrder is the feature given to the 1st, 2nd, 3rd... placed tile.
var placementOrder = [...]Feature{FeatureForest, FeatureMountain}

// rng is a mulberry32 stream: a 32-bit additive state mixed by
// xor-shift-multiply rounds, returning uniform floats in [0, 1).
type rng struct {
	state uint32
}

func newRNG(seed int64) *rng {
	return &rng{state: uint32(seed)}
}

func (r *rng) float() float64 {
	r.state += 0x6D2B79F5
	s := r.state
	t := (s ^ (s >> 15)) * (s | 1)
	t = (t + (t^(t>>7))*(t|61)) ^ t
	return float64(t^(t>>14)) / 4294967296.0
}

// Generate builds the world grid for a seed.
// Every tile gets an independent Bernoulli trial with FeatureProbability;
// placed features alternate forest, mountain, forest... in row-major order.
func Generate(seed int64) *Map {
	r := newRNG(seed)
	m := &Map{
		seed:  seed,
		tiles: make([]Tile, Size*Size),
	}

	placed := 0
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			tile := Tile{X: x, Y: y, Feature: FeatureNone}
			if r.float() < FeatureProbability {
				tile.Feature = placementOrder[placed%len(placementOrder)]
				placed++
			}
			m.tiles[y*Size+x] = tile
		}
	}

	return m
}

var (
	defaultMap  *Map
	defaultOnce sync.Once
)

// Default returns the map for DefaultSeed. The map is immutable, so the
// first generation is shared.
func Default() *Map {
	defaultOnce.Do(func() {
		defaultMap = Generate(DefaultSeed)
	})
	return defaultMap
}
