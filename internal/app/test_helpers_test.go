package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/example/hamlet/internal/adapters/clock"
	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/core/world"
	"github.com/example/hamlet/internal/ports/secondary"
)

// ============================================================================
// In-memory store
// ============================================================================

// memStore backs every mock repository. Conditional writes follow the same
// rules as the SQL statements so race outcomes can be asserted.
type memStore struct {
	mu          sync.Mutex
	villages    map[string]*secondary.VillageRecord
	villageList []string
	resources   map[string]*secondary.ResourceRecord
	inhabitants map[string]map[catalog.WorkerType]int
	missions    map[string]*secondary.MissionRecord
	missionList []string
	buildings   map[string]*secondary.BuildingRecord
	buildList   []string
	travelers   map[string]*secondary.TravelerRecord
	events      []*secondary.EventRecord
}

func newMemStore() *memStore {
	return &memStore{
		villages:    make(map[string]*secondary.VillageRecord),
		resources:   make(map[string]*secondary.ResourceRecord),
		inhabitants: make(map[string]map[catalog.WorkerType]int),
		missions:    make(map[string]*secondary.MissionRecord),
		buildings:   make(map[string]*secondary.BuildingRecord),
		travelers:   make(map[string]*secondary.TravelerRecord),
	}
}

func (s *memStore) setInhabitants(villageID string, t catalog.WorkerType, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inhabitants[villageID] == nil {
		s.inhabitants[villageID] = make(map[catalog.WorkerType]int)
	}
	s.inhabitants[villageID][t] = n
}

func (s *memStore) balance(villageID string) catalog.Bundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resources[villageID].Balance
}

func (s *memStore) setBalance(villageID string, b catalog.Bundle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[villageID].Balance = b
}

func (s *memStore) eventsOfKind(kind string) []*secondary.EventRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*secondary.EventRecord
	for _, e := range s.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func timePtr(t time.Time) *time.Time { return &t }

// ============================================================================
// Mock repositories
// ============================================================================

type memVillages struct{ s *memStore }

func (m memVillages) Create(ctx context.Context, v *secondary.VillageRecord) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.villages {
		if existing.OwnerID == v.OwnerID || (existing.X == v.X && existing.Y == v.Y) {
			return fmt.Errorf("village %s: %w", v.ID, secondary.ErrConflict)
		}
	}
	cp := *v
	m.s.villages[v.ID] = &cp
	m.s.villageList = append(m.s.villageList, v.ID)
	return nil
}

func (m memVillages) GetByID(ctx context.Context, id string) (*secondary.VillageRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	v, ok := m.s.villages[id]
	if !ok {
		return nil, fmt.Errorf("village %s: %w", id, secondary.ErrNotFound)
	}
	cp := *v
	return &cp, nil
}

func (m memVillages) GetByOwner(ctx context.Context, ownerID string) (*secondary.VillageRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, v := range m.s.villages {
		if v.OwnerID == ownerID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("owner %s: %w", ownerID, secondary.ErrNotFound)
}

func (m memVillages) List(ctx context.Context) ([]*secondary.VillageRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]*secondary.VillageRecord, 0, len(m.s.villageList))
	for _, id := range m.s.villageList {
		cp := *m.s.villages[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (m memVillages) Rename(ctx context.Context, id, name string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	v, ok := m.s.villages[id]
	if !ok {
		return fmt.Errorf("village %s: %w", id, secondary.ErrNotFound)
	}
	v.Name = name
	return nil
}

func (m memVillages) AddCapacity(ctx context.Context, id string, bonus int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	v, ok := m.s.villages[id]
	if !ok {
		return fmt.Errorf("village %s: %w", id, secondary.ErrNotFound)
	}
	v.Capacity += bonus
	return nil
}

type memResources struct{ s *memStore }

func (m memResources) Init(ctx context.Context, villageID string, last time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.resources[villageID] = &secondary.ResourceRecord{VillageID: villageID, LastConsumptionAt: last}
	return nil
}

func (m memResources) Get(ctx context.Context, villageID string) (*secondary.ResourceRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.resources[villageID]
	if !ok {
		return nil, fmt.Errorf("resources %s: %w", villageID, secondary.ErrNotFound)
	}
	cp := *r
	return &cp, nil
}

func (m memResources) Credit(ctx context.Context, villageID string, kind catalog.ResourceKind, amount int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r := m.s.resources[villageID]
	r.Balance = r.Balance.With(kind, r.Balance.Get(kind)+amount)
	return nil
}

func (m memResources) Debit(ctx context.Context, villageID string, cost catalog.Bundle) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r := m.s.resources[villageID]
	if !r.Balance.Covers(cost) {
		return false, nil
	}
	r.Balance = catalog.Bundle{
		Wood:  r.Balance.Wood - cost.Wood,
		Stone: r.Balance.Stone - cost.Stone,
		Grain: r.Balance.Grain - cost.Grain,
		Meat:  r.Balance.Meat - cost.Meat,
	}
	return true, nil
}

func (m memResources) ApplyConsumption(ctx context.Context, villageID string, grain, meat int, expectedLast, newLast time.Time) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r := m.s.resources[villageID]
	if !r.LastConsumptionAt.Equal(expectedLast) {
		return false, nil
	}
	r.Balance.Grain = max(r.Balance.Grain-grain, 0)
	r.Balance.Meat = max(r.Balance.Meat-meat, 0)
	r.LastConsumptionAt = newLast
	return true, nil
}

type memInhabitants struct{ s *memStore }

func (m memInhabitants) Counts(ctx context.Context, villageID string) (map[catalog.WorkerType]int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make(map[catalog.WorkerType]int)
	for t, n := range m.s.inhabitants[villageID] {
		out[t] = n
	}
	return out, nil
}

func (m memInhabitants) Add(ctx context.Context, villageID string, t catalog.WorkerType, n int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.inhabitants[villageID] == nil {
		m.s.inhabitants[villageID] = make(map[catalog.WorkerType]int)
	}
	m.s.inhabitants[villageID][t] += n
	return nil
}

type memMissions struct{ s *memStore }

func (m memMissions) Create(ctx context.Context, r *secondary.MissionRecord) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *r
	m.s.missions[r.ID] = &cp
	m.s.missionList = append(m.s.missionList, r.ID)
	return nil
}

func (m memMissions) GetByID(ctx context.Context, id string) (*secondary.MissionRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.missions[id]
	if !ok {
		return nil, fmt.Errorf("mission %s: %w", id, secondary.ErrNotFound)
	}
	cp := *r
	return &cp, nil
}

func (m memMissions) ListPending(ctx context.Context, villageID string) ([]*secondary.MissionRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*secondary.MissionRecord
	for _, id := range m.s.missionList {
		r := m.s.missions[id]
		if r.VillageID == villageID && r.CompletedAt == nil {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DepartedAt.Before(out[j].DepartedAt) })
	return out, nil
}

func (m memMissions) MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r := m.s.missions[id]
	if r == nil || r.CompletedAt != nil {
		return false, nil
	}
	r.CompletedAt = timePtr(at)
	return true, nil
}

func (m memMissions) MarkRecalled(ctx context.Context, id string, at time.Time) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r := m.s.missions[id]
	if r == nil || r.RecalledAt != nil || r.CompletedAt != nil {
		return false, nil
	}
	arrives := r.DepartedAt.Add(time.Duration(r.TravelSeconds) * time.Second)
	if !arrives.After(at) {
		return false, nil
	}
	r.RecalledAt = timePtr(at)
	return true, nil
}

func (m memMissions) ToggleLoop(ctx context.Context, id string) (bool, bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r := m.s.missions[id]
	if r == nil || r.CompletedAt != nil {
		return false, false, nil
	}
	r.Loop = !r.Loop
	return r.Loop, true, nil
}

func (m memMissions) CountActiveByType(ctx context.Context, villageID string) (map[catalog.WorkerType]int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make(map[catalog.WorkerType]int)
	for _, r := range m.s.missions {
		if r.VillageID == villageID && r.CompletedAt == nil {
			out[r.WorkerType]++
		}
	}
	return out, nil
}

type memBuildings struct{ s *memStore }

func (m memBuildings) Create(ctx context.Context, r *secondary.BuildingRecord) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, b := range m.s.buildings {
		if b.VillageID == r.VillageID && b.BuildingType == r.BuildingType && b.CompletedAt == nil {
			return fmt.Errorf("building %s: %w", r.ID, secondary.ErrConflict)
		}
	}
	cp := *r
	m.s.buildings[r.ID] = &cp
	m.s.buildList = append(m.s.buildList, r.ID)
	return nil
}

func (m memBuildings) ListPending(ctx context.Context, villageID string) ([]*secondary.BuildingRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*secondary.BuildingRecord
	for _, id := range m.s.buildList {
		r := m.s.buildings[id]
		if r.VillageID == villageID && r.CompletedAt == nil {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m memBuildings) ListByVillage(ctx context.Context, villageID string) ([]*secondary.BuildingRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*secondary.BuildingRecord
	for i := len(m.s.buildList) - 1; i >= 0; i-- {
		r := m.s.buildings[m.s.buildList[i]]
		if r.VillageID == villageID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m memBuildings) MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r := m.s.buildings[id]
	if r == nil || r.CompletedAt != nil {
		return false, nil
	}
	r.CompletedAt = timePtr(at)
	return true, nil
}

func (m memBuildings) CountActiveByType(ctx context.Context, villageID string) (map[catalog.BuildingType]int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make(map[catalog.BuildingType]int)
	for _, r := range m.s.buildings {
		if r.VillageID == villageID && r.CompletedAt == nil {
			out[r.BuildingType]++
		}
	}
	return out, nil
}

func (m memBuildings) BusyWorkers(ctx context.Context, villageID string) (map[catalog.WorkerType]int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make(map[catalog.WorkerType]int)
	for _, r := range m.s.buildings {
		if r.VillageID == villageID && r.CompletedAt == nil {
			out[r.WorkerType] += r.AssignedWorkers
		}
	}
	return out, nil
}

type memTravelers struct{ s *memStore }

func (m memTravelers) Get(ctx context.Context, villageID string) (*secondary.TravelerRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.travelers[villageID]
	if !ok {
		return nil, fmt.Errorf("traveler %s: %w", villageID, secondary.ErrNotFound)
	}
	cp := *r
	return &cp, nil
}

func (m memTravelers) Replace(ctx context.Context, r *secondary.TravelerRecord) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *r
	m.s.travelers[r.VillageID] = &cp
	return nil
}

func (m memTravelers) Welcome(ctx context.Context, villageID string, at, departsAt time.Time) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r := m.s.travelers[villageID]
	if r == nil || r.WelcomedAt != nil || r.AssignedAt != nil || at.Before(r.ArrivesAt) || !at.Before(r.DepartsAt) {
		return false, nil
	}
	r.WelcomedAt = timePtr(at)
	r.DepartsAt = departsAt
	return true, nil
}

func (m memTravelers) Claim(ctx context.Context, villageID string, at time.Time) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r := m.s.travelers[villageID]
	if r == nil || r.WelcomedAt == nil || r.AssignedAt != nil || !at.Before(r.DepartsAt) {
		return false, nil
	}
	r.AssignedAt = timePtr(at)
	return true, nil
}

type memEvents struct{ s *memStore }

func (m memEvents) Record(ctx context.Context, e *secondary.EventRecord) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *e
	cp.ID = int64(len(m.s.events) + 1)
	m.s.events = append(m.s.events, &cp)
	return nil
}

func (m memEvents) List(ctx context.Context, villageID string, limit int) ([]*secondary.EventRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*secondary.EventRecord
	for i := len(m.s.events) - 1; i >= 0 && len(out) < limit; i-- {
		if m.s.events[i].VillageID == villageID {
			cp := *m.s.events[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeTx runs fn directly. The first conflicts calls fail with
// secondary.ErrConflict before fn runs.
type fakeTx struct {
	mu        sync.Mutex
	conflicts int
	calls     int
}

func (t *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.calls++
	if t.conflicts > 0 {
		t.conflicts--
		t.mu.Unlock()
		return fmt.Errorf("begin: %w", secondary.ErrConflict)
	}
	t.mu.Unlock()
	return fn(ctx)
}

var (
	_ secondary.VillageRepository    = memVillages{}
	_ secondary.ResourceRepository   = memResources{}
	_ secondary.InhabitantRepository = memInhabitants{}
	_ secondary.MissionRepository    = memMissions{}
	_ secondary.BuildingRepository   = memBuildings{}
	_ secondary.TravelerRepository   = memTravelers{}
	_ secondary.EventLog             = memEvents{}
	_ secondary.Transactor           = (*fakeTx)(nil)
)

// ============================================================================
// Test Harness
// ============================================================================

var testStart = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

// harness wires every service over one memStore.
type harness struct {
	store     *memStore
	tx        *fakeTx
	clock     *clock.Fake
	catalog   *catalog.Catalog
	worldMap  *world.Map
	ledger    *LedgerServiceImpl
	missions  *MissionServiceImpl
	buildings *BuildingServiceImpl
	sweeper   *Sweeper
	villages  *VillageServiceImpl
	travelers *TravelerServiceImpl
	world     *WorldServiceImpl
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := newMemStore()
	tx := &fakeTx{}
	clk := clock.NewFake(testStart)
	cat := catalog.Default()
	worldMap := world.Default()

	villages := memVillages{store}
	resources := memResources{store}
	inhabitants := memInhabitants{store}
	missionRepo := memMissions{store}
	buildingRepo := memBuildings{store}
	events := memEvents{store}

	workforce := NewWorkforce(inhabitants, missionRepo, buildingRepo)
	ledgerSvc := NewLedgerService(villages, resources, inhabitants, events, tx, clk, cat, nil)
	missionSvc := NewMissionService(villages, missionRepo, workforce, ledgerSvc, events, tx, clk, cat, worldMap, nil)
	buildingSvc := NewBuildingService(villages, buildingRepo, workforce, ledgerSvc, events, tx, clk, cat, nil)
	sweeper := NewSweeper(missionSvc, buildingSvc, ledgerSvc, nil)
	villageSvc := NewVillageService(villages, resources, workforce, events, tx, clk, cat, worldMap,
		sweeper, ledgerSvc, missionSvc, buildingSvc, nil)
	travelerSvc := NewTravelerService(villages, memTravelers{store}, inhabitants, events, tx, clk, nil)
	worldSvc := NewWorldService(villages, clk, cat, worldMap)

	return &harness{
		store:     store,
		tx:        tx,
		clock:     clk,
		catalog:   cat,
		worldMap:  worldMap,
		ledger:    ledgerSvc,
		missions:  missionSvc,
		buildings: buildingSvc,
		sweeper:   sweeper,
		villages:  villageSvc,
		travelers: travelerSvc,
		world:     worldSvc,
	}
}

// addVillage stores a village at (x, y) with zeroed resources.
func (h *harness) addVillage(t *testing.T, id string, x, y int) {
	t.Helper()
	ctx := context.Background()
	v := &secondary.VillageRecord{
		ID:        id,
		OwnerID:   "player-" + id,
		Name:      "Test " + id,
		X:         x,
		Y:         y,
		Capacity:  h.catalog.DefaultCapacity,
		CreatedAt: h.clock.Now(),
	}
	if err := (memVillages{h.store}).Create(ctx, v); err != nil {
		t.Fatalf("failed to add village: %v", err)
	}
	if err := (memResources{h.store}).Init(ctx, id, h.clock.Now()); err != nil {
		t.Fatalf("failed to init resources: %v", err)
	}
}

// findTile returns the first tile with the feature at Chebyshev distance
// dist from (x, y), searching outward from dist when the ring has none.
func findTile(t *testing.T, m *world.Map, f world.Feature, x, y, dist int) (world.Tile, int) {
	t.Helper()
	for d := dist; d < world.Size; d++ {
		for _, tile := range m.Tiles() {
			if tile.Feature == f && world.Distance(x, y, tile.X, tile.Y) == d {
				return tile, d
			}
		}
	}
	t.Fatalf("no %s tile near (%d,%d)", f, x, y)
	return world.Tile{}, 0
}
