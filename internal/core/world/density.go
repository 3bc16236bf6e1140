package world

import (
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"
)

const (
	MinDensity = 0.3
	MaxDensity = 1.5

	// densityScale stretches tile coordinates so neighbouring plains share
	// similar abundance.
	densityScale = 0.15
	// dayStep moves the noise sample far enough that each day reshuffles.
	dayStep = 0.7
)

// DensityField is a deterministic abundance multiplier for featureless
// tiles. It depends only on the tile, the UTC day and the field seed.
type DensityField struct {
	noise opensimplex.Noise
}

// NewDensityField returns the field for a seed. Hunters and gatherers use
// different seeds so game and crops are not abundant in the same places.
func NewDensityField(seed int64) *DensityField {
	return &DensityField{noise: opensimplex.NewNormalized(seed)}
}

// At returns the multiplier in [MinDensity, MaxDensity] for a tile on the
// UTC day containing t.
func (f *DensityField) At(x, y int, t time.Time) float64 {
	day := float64(t.UTC().Unix() / 86400)
	n := f.noise.Eval3(float64(x)*densityScale, float64(y)*densityScale, day*dayStep)
	if n < 0 {
		n = 0
	}
	if n > 1 {
		n = 1
	}
	return MinDensity + n*(MaxDensity-MinDensity)
}
