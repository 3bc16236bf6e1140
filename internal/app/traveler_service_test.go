package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/core/failure"
	coretraveler "github.com/example/hamlet/internal/core/traveler"
	"github.com/example/hamlet/internal/ports/secondary"
)

// newTravelerHarness makes every traveler arrive after 5 minutes and stay 10.
func newTravelerHarness(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t)
	h.travelers.between = func(lo, hi time.Duration) time.Duration { return lo }
	h.addVillage(t, "v1", 30, 4)
	return h
}

func TestTraveler_FullVisit(t *testing.T) {
	h := newTravelerHarness(t)
	ctx := context.Background()

	tr, err := h.travelers.Resolve(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, coretraveler.StateWaiting, tr.State)
	assert.Equal(t, testStart.Add(5*time.Minute), tr.ArrivesAt)
	assert.Equal(t, testStart.Add(15*time.Minute), tr.DepartsAt)

	_, err = h.travelers.Welcome(ctx, "v1")
	assert.Equal(t, coretraveler.CodeNotArrived, failure.CodeOf(err))

	h.clock.Advance(5 * time.Minute)
	tr, err = h.travelers.Resolve(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, coretraveler.StatePresent, tr.State)

	err = h.travelers.Assign(ctx, "v1", catalog.Farmer)
	assert.Equal(t, coretraveler.CodeNotWelcomed, failure.CodeOf(err))

	tr, err = h.travelers.Welcome(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, tr.Welcomed)
	assert.Equal(t, h.clock.Now().Add(coretraveler.WelcomeStay), tr.DepartsAt)

	_, err = h.travelers.Welcome(ctx, "v1")
	assert.Equal(t, coretraveler.CodeAlreadyWelcomed, failure.CodeOf(err))

	// Welcomed travelers stay long after the original visit would end.
	h.clock.Advance(time.Hour)
	require.NoError(t, h.travelers.Assign(ctx, "v1", catalog.Farmer))

	counts, err := memInhabitants{h.store}.Counts(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts[catalog.Farmer])
	assert.Len(t, h.store.eventsOfKind(secondary.EventTravelerJoined), 1)

	err = h.travelers.Assign(ctx, "v1", catalog.Farmer)
	assert.Equal(t, coretraveler.CodeNoTraveler, failure.CodeOf(err))

	tr, err = h.travelers.Resolve(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, coretraveler.StateWaiting, tr.State, "a new traveler sets out once one is taken in")
	assert.False(t, tr.Welcomed)
}

func TestTraveler_LeavesWhenIgnored(t *testing.T) {
	h := newTravelerHarness(t)
	ctx := context.Background()

	_, err := h.travelers.Resolve(ctx, "v1")
	require.NoError(t, err)

	h.clock.Advance(15 * time.Minute)
	_, err = h.travelers.Welcome(ctx, "v1")
	assert.Equal(t, coretraveler.CodeNoTraveler, failure.CodeOf(err))

	tr, err := h.travelers.Resolve(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, coretraveler.StateWaiting, tr.State)
	assert.Equal(t, h.clock.Now().Add(5*time.Minute), tr.ArrivesAt)
}

func TestTraveler_VillageFull(t *testing.T) {
	h := newTravelerHarness(t)
	h.store.setInhabitants("v1", catalog.Lumberjack, h.catalog.DefaultCapacity)
	ctx := context.Background()

	_, err := h.travelers.Resolve(ctx, "v1")
	require.NoError(t, err)
	h.clock.Advance(6 * time.Minute)
	_, err = h.travelers.Welcome(ctx, "v1")
	require.NoError(t, err)

	err = h.travelers.Assign(ctx, "v1", catalog.Miner)
	assert.Equal(t, coretraveler.CodeVillageFull, failure.CodeOf(err))

	// A finished hut makes room.
	require.NoError(t, memVillages{h.store}.AddCapacity(ctx, "v1", 1))
	assert.NoError(t, h.travelers.Assign(ctx, "v1", catalog.Miner))
}

func TestTraveler_InvalidWorkerType(t *testing.T) {
	h := newTravelerHarness(t)

	err := h.travelers.Assign(context.Background(), "v1", "wizard")
	assert.Equal(t, "invalid_worker_type", failure.CodeOf(err))
}

func TestRandomBetween_StaysInRange(t *testing.T) {
	for range 100 {
		d := randomBetween(coretraveler.MinStay, coretraveler.MaxStay)
		assert.GreaterOrEqual(t, d, coretraveler.MinStay)
		assert.LessOrEqual(t, d, coretraveler.MaxStay)
	}
}
