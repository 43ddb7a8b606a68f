package f1sustain

import (
	"fmt"
	"math"
)

// Score reduces one driver's enriched laps to a ScoreRecord.
//
// Formula:
//
//	score = AvgStintLength / |DegradationRateMean| - PitStopLossTime
//
// When DegradationRateMean is 0 (including when no lap has a defined rate)
// the score is 0. Missing pit-stop laps give a PitStopLossTime of 0.
func Score(laps []EnrichedLap, driver string) (ScoreRecord, error) {
	own := lapsForDriver(laps, driver)
	if len(own) == 0 {
		return ScoreRecord{}, fmt.Errorf("%w: %s", ErrDriverNotFound, driver)
	}

	rec := ScoreRecord{
		Driver:              driver,
		AvgStintLength:      avgStintLength(own),
		DegradationRateMean: degradationRateMean(own),
		PitStopLossTime:     pitStopLossTime(own),
	}
	if rec.DegradationRateMean != 0 {
		rec.SustainabilityScore = rec.AvgStintLength/math.Abs(rec.DegradationRateMean) - rec.PitStopLossTime
	}
	return rec, nil
}

// ScoreDrivers scores each driver in order. It fails on the first unknown driver.
func ScoreDrivers(laps []EnrichedLap, drivers ...string) ([]ScoreRecord, error) {
	out := make([]ScoreRecord, 0, len(drivers))
	for _, d := range drivers {
		rec, err := Score(laps, d)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func lapsForDriver(laps []EnrichedLap, driver string) []EnrichedLap {
	out := make([]EnrichedLap, 0, 64)
	for _, l := range laps {
		if l.Driver == driver {
			out = append(out, l)
		}
	}
	return out
}

// avgStintLength is the mean lap count over the distinct stints present.
func avgStintLength(laps []EnrichedLap) float64 {
	counts := make(map[int]int)
	for _, l := range laps {
		counts[l.Stint]++
	}
	if len(counts) == 0 {
		return 0
	}
	return float64(len(laps)) / float64(len(counts))
}

func degradationRateMean(laps []EnrichedLap) float64 {
	rates := make([]float64, 0, len(laps))
	for _, l := range laps {
		if l.DegradationRate != nil {
			rates = append(rates, *l.DegradationRate)
		}
	}
	return average(rates)
}

func pitStopLossTime(laps []EnrichedLap) float64 {
	times := make([]float64, len(laps))
	for i, l := range laps {
		times[i] = l.LapTime
	}
	avg := average(times)

	losses := make([]float64, 0, 4)
	for _, l := range laps {
		if l.IsPitStop {
			losses = append(losses, l.LapTime-avg)
		}
	}
	return average(losses)
}
