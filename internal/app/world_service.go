package app

import (
	"context"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/core/failure"
	"github.com/example/hamlet/internal/core/world"
	"github.com/example/hamlet/internal/ports/primary"
	"github.com/example/hamlet/internal/ports/secondary"
)

// WorldServiceImpl implements the WorldService interface.
type WorldServiceImpl struct {
	villages secondary.VillageRepository
	clock    secondary.Clock
	catalog  *catalog.Catalog
	worldMap *world.Map
}

// NewWorldService creates a new WorldService.
func NewWorldService(villages secondary.VillageRepository, clock secondary.Clock, cat *catalog.Catalog, worldMap *world.Map) *WorldServiceImpl {
	return &WorldServiceImpl{villages: villages, clock: clock, catalog: cat, worldMap: worldMap}
}

// GenerateWorldMap returns the fixed world map.
func (s *WorldServiceImpl) GenerateWorldMap() *world.Map {
	return s.worldMap
}

// DescribeTile returns a tile with the distance from the village and the
// worker types that could gather there.
func (s *WorldServiceImpl) DescribeTile(ctx context.Context, villageID string, x, y int) (*primary.TileInfo, error) {
	v, err := loadVillage(ctx, s.villages, villageID)
	if err != nil {
		return nil, err
	}
	tile, ok := s.worldMap.Tile(x, y)
	if !ok {
		return nil, failure.Validationf("out_of_bounds", "tile (%d,%d) is outside the map", x, y)
	}

	info := &primary.TileInfo{Tile: tile, Distance: world.Distance(v.X, v.Y, x, y)}
	if info.Distance == 0 {
		return info, nil
	}
	now := s.clock.Now()
	for _, t := range catalog.WorkerTypes {
		h, ok := catalog.HarvestFor(t)
		if !ok || h.Feature != tile.Feature {
			continue
		}
		stats, _ := s.catalog.Worker(t)
		travel, err := world.TravelSeconds(info.Distance, stats.Speed)
		if err != nil {
			continue
		}
		density := 1.0
		if h.DensitySeed != 0 {
			density = world.NewDensityField(h.DensitySeed).At(x, y, now)
		}
		info.Harvesters = append(info.Harvesters, primary.Harvester{
			WorkerType:    t,
			Resource:      h.Resource,
			TravelSeconds: travel,
			Density:       density,
		})
	}
	return info, nil
}

// Ensure WorldServiceImpl implements the interface
var _ primary.WorldService = (*WorldServiceImpl)(nil)
