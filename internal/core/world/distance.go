package world

import (
	"errors"
	"math"
)

// ErrUnreachable is returned for a travel time that would be infinite.
var ErrUnreachable = errors.New("target is unreachable")

// Distance is the Chebyshev distance between two tiles. Placement, travel
// time and display all use this one metric.
func Distance(ax, ay, bx, by int) int {
	dx := abs(bx - ax)
	dy := abs(by - ay)
	if dx > dy {
		return dx
	}
	return dy
}

// TravelSeconds returns the one-way travel time for a distance in tiles at
// a speed in tiles per hour: ceil(distance / speed * 3600).
func TravelSeconds(distance int, speed float64) (int, error) {
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return 0, ErrUnreachable
	}
	if distance < 0 {
		distance = -distance
	}
	secs := math.Ceil(float64(distance) / speed * 3600)
	if secs > math.MaxInt32 {
		return 0, ErrUnreachable
	}
	return int(secs), nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
