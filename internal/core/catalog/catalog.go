// Package catalog holds the typed balance tables: worker types, resource
// kinds and building types. Lookups are keyed by typed constants so an
// unknown worker type is rejected at the boundary instead of deep inside
// a calculation.
package catalog

import (
	"fmt"

	"github.com/example/hamlet/internal/core/world"
)

// WorkerType is a category of inhabitant.
type WorkerType string

const (
	Lumberjack WorkerType = "lumberjack"
	Miner      WorkerType = "miner"
	Explorer   WorkerType = "explorer"
	Hunter     WorkerType = "hunter"
	Gatherer   WorkerType = "gatherer"
	Breeder    WorkerType = "breeder"
	Farmer     WorkerType = "farmer"
	Researcher WorkerType = "researcher"
	Builder    WorkerType = "builder"
)

// WorkerTypes lists every worker type in display order.
var WorkerTypes = []WorkerType{
	Lumberjack, Miner, Explorer, Hunter, Gatherer, Breeder, Farmer, Researcher, Builder,
}

// ParseWorkerType validates a worker type key.
func ParseWorkerType(s string) (WorkerType, error) {
	for _, t := range WorkerTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown worker type %q", s)
}

// ResourceKind is a village resource counter.
type ResourceKind string

const (
	Wood  ResourceKind = "wood"
	Stone ResourceKind = "stone"
	Grain ResourceKind = "grain"
	Meat  ResourceKind = "meat"
)

// ResourceKinds lists every resource kind in display order.
var ResourceKinds = []ResourceKind{Wood, Stone, Grain, Meat}

// Bundle is an amount of every resource kind.
type Bundle struct {
	Wood  int `yaml:"wood"`
	Stone int `yaml:"stone"`
	Grain int `yaml:"grain"`
	Meat  int `yaml:"meat"`
}

// Get returns the amount of one kind.
func (b Bundle) Get(kind ResourceKind) int {
	switch kind {
	case Wood:
		return b.Wood
	case Stone:
		return b.Stone
	case Grain:
		return b.Grain
	case Meat:
		return b.Meat
	}
	return 0
}

// With returns a copy with one kind set to n.
func (b Bundle) With(kind ResourceKind, n int) Bundle {
	switch kind {
	case Wood:
		b.Wood = n
	case Stone:
		b.Stone = n
	case Grain:
		b.Grain = n
	case Meat:
		b.Meat = n
	}
	return b
}

// Covers reports whether b holds at least cost of every kind.
func (b Bundle) Covers(cost Bundle) bool {
	return b.Wood >= cost.Wood && b.Stone >= cost.Stone && b.Grain >= cost.Grain && b.Meat >= cost.Meat
}

// WorkerStats are the balance values of one worker type.
type WorkerStats struct {
	Speed        float64 `yaml:"speed"`         // tiles per hour
	GatherRate   float64 `yaml:"gather_rate"`   // units per working hour
	MaxCapacity  int     `yaml:"max_capacity"`  // units carried home per mission
	ConsumeGrain float64 `yaml:"consume_grain"` // per inhabitant per day
	ConsumeMeat  float64 `yaml:"consume_meat"`  // per inhabitant per day
}

// Harvest describes what a mission-capable worker type gathers.
type Harvest struct {
	Feature  world.Feature
	Resource ResourceKind
	// DensitySeed selects the plains density field; 0 means the yield is not
	// density-scaled.
	DensitySeed int64
}

// harvests is fixed game design, not balance: it is not overridable.
var harvests = map[WorkerType]Harvest{
	Lumberjack: {Feature: world.FeatureForest, Resource: Wood},
	Miner:      {Feature: world.FeatureMountain, Resource: Stone},
	Hunter:     {Feature: world.FeatureNone, Resource: Meat, DensitySeed: 7919},
	Gatherer:   {Feature: world.FeatureNone, Resource: Grain, DensitySeed: 6271},
}

// HarvestFor returns the harvest of a mission-capable worker type.
func HarvestFor(t WorkerType) (Harvest, bool) {
	h, ok := harvests[t]
	return h, ok
}

// BuildingType is a kind of construction.
type BuildingType string

const (
	WoodenHut  BuildingType = "wooden_hut"
	StoneHouse BuildingType = "stone_house"
)

// BuildingSpec is the balance of one building type.
type BuildingSpec struct {
	Title         string `yaml:"title"`
	Cost          Bundle `yaml:"cost"`
	BuildSeconds  int    `yaml:"build_seconds"`
	CapacityBonus int    `yaml:"capacity_bonus"`
}

// Catalog is the complete balance table.
type Catalog struct {
	// StatMultiplier scales speed, gather rate and max capacity. Used to
	// speed games up in development.
	StatMultiplier  float64                       `yaml:"stat_multiplier"`
	DefaultCapacity int                           `yaml:"default_capacity"`
	Workers         map[WorkerType]WorkerStats    `yaml:"workers"`
	Buildings       map[BuildingType]BuildingSpec `yaml:"buildings"`
}

// Worker returns the scaled stats of a worker type.
func (c *Catalog) Worker(t WorkerType) (WorkerStats, bool) {
	s, ok := c.Workers[t]
	if !ok {
		return WorkerStats{}, false
	}
	m := c.StatMultiplier
	if m <= 0 {
		m = 1
	}
	s.Speed *= m
	s.GatherRate *= m
	s.MaxCapacity = int(float64(s.MaxCapacity) * m)
	return s, true
}

// Building returns the spec of a building type.
func (c *Catalog) Building(t BuildingType) (BuildingSpec, bool) {
	s, ok := c.Buildings[t]
	return s, ok
}

// BuildingTypes returns the known building types in a stable order.
func (c *Catalog) BuildingTypes() []BuildingType {
	out := make([]BuildingType, 0, len(c.Buildings))
	for _, t := range []BuildingType{WoodenHut, StoneHouse} {
		if _, ok := c.Buildings[t]; ok {
			out = append(out, t)
		}
	}
	for t := range c.Buildings {
		if t != WoodenHut && t != StoneHouse {
			out = append(out, t)
		}
	}
	return out
}

// Default returns the shipped balance.
func Default() *Catalog {
	return &Catalog{
		StatMultiplier:  1,
		DefaultCapacity: 5,
		Workers: map[WorkerType]WorkerStats{
			Lumberjack: {Speed: 2, GatherRate: 10, MaxCapacity: 30, ConsumeGrain: 1.0, ConsumeMeat: 1.2},
			Miner:      {Speed: 2, GatherRate: 8, MaxCapacity: 25, ConsumeGrain: 1.0, ConsumeMeat: 1.2},
			Explorer:   {ConsumeGrain: 1.2, ConsumeMeat: 0.8},
			Hunter:     {Speed: 2, GatherRate: 8, MaxCapacity: 25, ConsumeGrain: 0.8, ConsumeMeat: 0.5},
			Gatherer:   {Speed: 2, GatherRate: 8, MaxCapacity: 25, ConsumeGrain: 0.8, ConsumeMeat: 0.8},
			Breeder:    {ConsumeGrain: 0.8, ConsumeMeat: 0.5},
			Farmer:     {ConsumeGrain: 0.5, ConsumeMeat: 0.8},
			Researcher: {ConsumeGrain: 1.2, ConsumeMeat: 0.6},
			Builder:    {ConsumeGrain: 1.0, ConsumeMeat: 1.2},
		},
		Buildings: map[BuildingType]BuildingSpec{
			WoodenHut: {
				Title:         "Wooden hut",
				Cost:          Bundle{Wood: 50},
				BuildSeconds:  30,
				CapacityBonus: 1,
			},
			StoneHouse: {
				Title:         "Stone house",
				Cost:          Bundle{Wood: 40, Stone: 60},
				BuildSeconds:  120,
				CapacityBonus: 2,
			},
		},
	}
}

// Merge overlays the non-zero values of o onto a copy of c.
func (c *Catalog) Merge(o *Catalog) *Catalog {
	out := &Catalog{
		StatMultiplier:  c.StatMultiplier,
		DefaultCapacity: c.DefaultCapacity,
		Workers:         make(map[WorkerType]WorkerStats, len(c.Workers)),
		Buildings:       make(map[BuildingType]BuildingSpec, len(c.Buildings)),
	}
	for k, v := range c.Workers {
		out.Workers[k] = v
	}
	for k, v := range c.Buildings {
		out.Buildings[k] = v
	}
	if o == nil {
		return out
	}
	if o.StatMultiplier > 0 {
		out.StatMultiplier = o.StatMultiplier
	}
	if o.DefaultCapacity > 0 {
		out.DefaultCapacity = o.DefaultCapacity
	}
	for k, v := range o.Workers {
		out.Workers[k] = v
	}
	for k, v := range o.Buildings {
		out.Buildings[k] = v
	}
	return out
}

// Validate checks that every override names a known worker type.
func (c *Catalog) Validate() error {
	for t := range c.Workers {
		if _, err := ParseWorkerType(string(t)); err != nil {
			return err
		}
	}
	for t, s := range c.Buildings {
		if s.BuildSeconds <= 0 {
			return fmt.Errorf("building %s: build_seconds must be positive", t)
		}
	}
	return nil
}
