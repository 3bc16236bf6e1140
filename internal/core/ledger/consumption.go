// Package ledger contains the pure resource accounting rules: daily food
// consumption and spend checks.
package ledger

import (
	"math"
	"time"

	"github.com/example/hamlet/internal/core/catalog"
)

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// utcDay returns the number of whole UTC days since the epoch.
func utcDay(t time.Time) int64 {
	ms := t.UnixMilli()
	d := ms / dayMillis
	if ms%dayMillis < 0 {
		d--
	}
	return d
}

// DaysElapsed counts the UTC midnights crossed between last and now. It is
// not a rolling 24h window: 23:00 to 01:00 the next day is one day.
func DaysElapsed(last, now time.Time) int {
	return int(utcDay(now) - utcDay(last))
}

// MidnightBoundary returns the days-th UTC midnight after last.
func MidnightBoundary(last time.Time, days int) time.Time {
	return time.UnixMilli((utcDay(last) + int64(days)) * dayMillis).UTC()
}

// DailyConsumption sums what a population eats per day, each total
// rounded to one decimal.
func DailyConsumption(cat *catalog.Catalog, inhabitants map[catalog.WorkerType]int) (grain, meat float64) {
	for t, n := range inhabitants {
		if n <= 0 {
			continue
		}
		s, ok := cat.Workers[t]
		if !ok {
			continue
		}
		grain += float64(n) * s.ConsumeGrain
		meat += float64(n) * s.ConsumeMeat
	}
	return round1(grain), round1(meat)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ConsumptionInput is the state read at the start of a decay.
type ConsumptionInput struct {
	LastConsumptionAt time.Time
	Now               time.Time
	DailyGrain        float64
	DailyMeat         float64
}

// ConsumptionPlan is what a decay should write. Apply is false when no
// midnight has passed.
type ConsumptionPlan struct {
	Apply     bool
	Days      int
	Grain     int // owed, before flooring at the balance
	Meat      int
	NewLastAt time.Time
}

// PlanConsumption computes the owed food and the new boundary. The
// boundary advances to an exact midnight, never to now, so repeated
// applications do not drift.
func PlanConsumption(in ConsumptionInput) ConsumptionPlan {
	days := DaysElapsed(in.LastConsumptionAt, in.Now)
	if days <= 0 {
		return ConsumptionPlan{}
	}
	return ConsumptionPlan{
		Apply:     true,
		Days:      days,
		Grain:     int(math.Round(in.DailyGrain * float64(days))),
		Meat:      int(math.Round(in.DailyMeat * float64(days))),
		NewLastAt: MidnightBoundary(in.LastConsumptionAt, days),
	}
}

// Deduct returns balance minus owed, floored at zero.
func Deduct(balance, owed int) int {
	if owed > balance {
		return 0
	}
	return balance - owed
}
