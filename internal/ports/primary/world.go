package primary

import (
	"context"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/core/world"
)

// WorldService defines the primary port for the world map.
type WorldService interface {
	// GenerateWorldMap returns the fixed world map.
	GenerateWorldMap() *world.Map

	// DescribeTile returns a tile as seen from a village.
	DescribeTile(ctx context.Context, villageID string, x, y int) (*TileInfo, error)
}

// TileInfo is a tile plus what a village can do there.
type TileInfo struct {
	Tile     world.Tile
	Distance int
	// Harvesters lists worker types that gather on this tile with their
	// one-way travel time in seconds.
	Harvesters []Harvester
}

// Harvester is a worker type able to gather on a tile.
type Harvester struct {
	WorkerType    catalog.WorkerType
	Resource      catalog.ResourceKind
	TravelSeconds int
	Density       float64
}
