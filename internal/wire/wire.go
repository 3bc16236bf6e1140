// Package wire provides dependency injection for the hamlet application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/jmoiron/sqlx"

	cliadapter "github.com/example/hamlet/internal/adapters/cli"
	"github.com/example/hamlet/internal/adapters/clock"
	"github.com/example/hamlet/internal/adapters/sqlite"
	"github.com/example/hamlet/internal/app"
	"github.com/example/hamlet/internal/config"
	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/core/world"
	"github.com/example/hamlet/internal/db"
	"github.com/example/hamlet/internal/ports/primary"
	"github.com/example/hamlet/internal/ports/secondary"
)

var (
	database        *sqlx.DB
	gameClock       secondary.Clock
	gameCatalog     *catalog.Catalog
	ledgerService   primary.LedgerService
	missionService  primary.MissionService
	buildingService primary.BuildingService
	sweepService    primary.SweepService
	villageService  primary.VillageService
	travelerService primary.TravelerService
	worldService    primary.WorldService
	once            sync.Once
)

// DB returns the shared database connection.
func DB() *sqlx.DB {
	once.Do(initServices)
	return database
}

// Clock returns the clock every service reads.
func Clock() secondary.Clock {
	once.Do(initServices)
	return gameClock
}

// Catalog returns the loaded worker and building catalog.
func Catalog() *catalog.Catalog {
	once.Do(initServices)
	return gameCatalog
}

// LedgerService returns the singleton LedgerService instance.
func LedgerService() primary.LedgerService {
	once.Do(initServices)
	return ledgerService
}

// MissionService returns the singleton MissionService instance.
func MissionService() primary.MissionService {
	once.Do(initServices)
	return missionService
}

// BuildingService returns the singleton BuildingService instance.
func BuildingService() primary.BuildingService {
	once.Do(initServices)
	return buildingService
}

// SweepService returns the singleton SweepService instance.
func SweepService() primary.SweepService {
	once.Do(initServices)
	return sweepService
}

// VillageService returns the singleton VillageService instance.
func VillageService() primary.VillageService {
	once.Do(initServices)
	return villageService
}

// TravelerService returns the singleton TravelerService instance.
func TravelerService() primary.TravelerService {
	once.Do(initServices)
	return travelerService
}

// WorldService returns the singleton WorldService instance.
func WorldService() primary.WorldService {
	once.Do(initServices)
	return worldService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	database, err = db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to resolve working directory: %v", err)
	}
	gameCatalog, err = config.LoadCatalog(cwd)
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}

	gameClock = clock.Real{}
	worldMap := world.Default()
	logger := slog.Default()

	// Repository adapters (secondary ports) with the injected DB
	tx := sqlite.NewTransactor(database)
	villageRepo := sqlite.NewVillageRepository(database)
	resourceRepo := sqlite.NewResourceRepository(database)
	inhabitantRepo := sqlite.NewInhabitantRepository(database)
	missionRepo := sqlite.NewMissionRepository(database)
	buildingRepo := sqlite.NewBuildingRepository(database)
	travelerRepo := sqlite.NewTravelerRepository(database)
	events := sqlite.NewEventLog(database)

	workforce := app.NewWorkforce(inhabitantRepo, missionRepo, buildingRepo)

	// Services (primary ports implementation)
	ledgerService = app.NewLedgerService(villageRepo, resourceRepo, inhabitantRepo, events, tx, gameClock, gameCatalog, logger)
	missionService = app.NewMissionService(villageRepo, missionRepo, workforce, ledgerService, events, tx, gameClock, gameCatalog, worldMap, logger)
	buildingService = app.NewBuildingService(villageRepo, buildingRepo, workforce, ledgerService, events, tx, gameClock, gameCatalog, logger)
	sweepService = app.NewSweeper(missionService, buildingService, ledgerService, logger)
	villageService = app.NewVillageService(villageRepo, resourceRepo, workforce, events, tx, gameClock, gameCatalog, worldMap,
		sweepService, ledgerService, missionService, buildingService, logger)
	travelerService = app.NewTravelerService(villageRepo, travelerRepo, inhabitantRepo, events, tx, gameClock, logger)
	worldService = app.NewWorldService(villageRepo, gameClock, gameCatalog, worldMap)
}

// VillageAdapter returns a new VillageAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func VillageAdapter() *cliadapter.VillageAdapter {
	return VillageAdapterWithOutput(os.Stdout)
}

// VillageAdapterWithOutput returns a new VillageAdapter writing to the given output.
func VillageAdapterWithOutput(out io.Writer) *cliadapter.VillageAdapter {
	once.Do(initServices)
	return cliadapter.NewVillageAdapter(villageService, sweepService, out)
}

// MissionAdapter returns a new MissionAdapter writing to stdout.
func MissionAdapter() *cliadapter.MissionAdapter {
	once.Do(initServices)
	return cliadapter.NewMissionAdapter(missionService, os.Stdout)
}

// BuildingAdapter returns a new BuildingAdapter writing to stdout.
func BuildingAdapter() *cliadapter.BuildingAdapter {
	once.Do(initServices)
	return cliadapter.NewBuildingAdapter(buildingService, os.Stdout)
}

// ResourceAdapter returns a new ResourceAdapter writing to stdout.
func ResourceAdapter() *cliadapter.ResourceAdapter {
	once.Do(initServices)
	return cliadapter.NewResourceAdapter(ledgerService, os.Stdout)
}

// WorldAdapter returns a new WorldAdapter writing to stdout.
func WorldAdapter() *cliadapter.WorldAdapter {
	once.Do(initServices)
	return cliadapter.NewWorldAdapter(worldService, os.Stdout)
}

// TravelerAdapter returns a new TravelerAdapter writing to stdout.
func TravelerAdapter() *cliadapter.TravelerAdapter {
	once.Do(initServices)
	return cliadapter.NewTravelerAdapter(travelerService, os.Stdout)
}
