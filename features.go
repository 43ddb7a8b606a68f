// Package f1sustain scores how sustainably F1 drivers manage tyres and stints
// from per-lap timing data.
package f1sustain

import (
	"fmt"
	"math"
	"sort"
)

// pitStopSigma is the number of standard deviations above the race mean lap
// time a lap must exceed to be flagged as a pit-stop lap.
const pitStopSigma = 3.0

// Enrich derives the per-lap features for a whole race table.
//
// Sector totals are row-wise. Lap-time deltas, stint numbers and degradation
// rates are computed per driver over laps sorted by LapNumber. The pit-stop
// threshold is a single race-wide scalar (see PitStopThreshold). The returned
// slice has the same order as rows; rows is not modified.
func Enrich(rows []LapRecord) ([]EnrichedLap, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	threshold := PitStopThreshold(rows)

	out := make([]EnrichedLap, len(rows))
	for i, r := range rows {
		out[i] = EnrichedLap{
			LapRecord:   r,
			SectorTotal: sectorTotal(r),
			IsPitStop:   r.LapTime > threshold,
		}
	}

	for _, idx := range partitionByDriver(rows) {
		if err := enrichDriver(out, idx); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// PitStopThreshold returns mean(LapTime) + 3·stddev(LapTime) over every row of
// the race, using the sample standard deviation. With fewer than two rows the
// deviation is undefined and the threshold is +Inf, so no lap is flagged.
func PitStopThreshold(rows []LapRecord) float64 {
	times := make([]float64, len(rows))
	for i, r := range rows {
		times[i] = r.LapTime
	}
	mean := average(times)
	threshold := mean + pitStopSigma*sampleStdDev(times, mean)
	if math.IsNaN(threshold) {
		return math.Inf(1)
	}
	return threshold
}

// partitionByDriver groups row indices by driver, keeping drivers in order of
// first appearance and each group sorted by ascending LapNumber.
func partitionByDriver(rows []LapRecord) [][]int {
	pos := make(map[string]int)
	groups := make([][]int, 0, 32)
	for i, r := range rows {
		g, ok := pos[r.Driver]
		if !ok {
			g = len(groups)
			pos[r.Driver] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	for _, idx := range groups {
		sort.SliceStable(idx, func(a, b int) bool {
			return rows[idx[a]].LapNumber < rows[idx[b]].LapNumber
		})
	}
	return groups
}

// enrichDriver scans one driver's laps in lap order and fills the delta,
// stint and degradation columns in place.
func enrichDriver(out []EnrichedLap, idx []int) error {
	pits := 0
	for n, i := range idx {
		lap := &out[i]
		if n > 0 {
			prev := out[idx[n-1]]
			if prev.LapNumber == lap.LapNumber {
				return fmt.Errorf("%w: driver %s lap %d", ErrDuplicateLap, lap.Driver, lap.LapNumber)
			}
			lap.LapTimeDelta = floatPtr(lap.LapTime - prev.LapTime)
		}

		if lap.IsPitStop {
			pits++
		}
		lap.Stint = pits + 1

		lap.DegradationRate = degradationRate(lap.LapTimeDelta, lap.TyreLife)
	}
	return nil
}

// sectorTotal is nil unless all three sector times are present.
func sectorTotal(r LapRecord) *float64 {
	if r.Sector1Time == nil || r.Sector2Time == nil || r.Sector3Time == nil {
		return nil
	}
	return floatPtr(*r.Sector1Time + *r.Sector2Time + *r.Sector3Time)
}

// degradationRate is delta/tyreLife, or nil when either is missing, the tyre
// is brand new, or the quotient is not a finite number.
func degradationRate(delta, tyreLife *float64) *float64 {
	if delta == nil || tyreLife == nil || *tyreLife == 0 {
		return nil
	}
	rate := *delta / *tyreLife
	if !isFinite(rate) {
		return nil
	}
	return &rate
}
