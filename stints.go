package f1sustain

import (
	"fmt"
	"sort"
)

// StintSummary describes one contiguous run of laps for a driver.
type StintSummary struct {
	Driver              string  `json:"driver"`
	Stint               int     `json:"stint"`
	StartLap            int     `json:"start_lap"`
	EndLap              int     `json:"end_lap"`
	Laps                int     `json:"laps"`
	AvgLapTime          float64 `json:"avg_lap_time"`
	AvgSectorTotal      float64 `json:"avg_sector_total"` // 0 when no lap has all three sectors
	DegradationRateMean float64 `json:"degradation_rate_mean"`
	OpenedByPitStop     bool    `json:"opened_by_pit_stop"`
	Description         string  `json:"description"`
}

// Stints breaks one driver's race into stints, ordered by stint number.
// A stint opened by a pit-stop lap starts on that lap, since the stint count
// already includes it.
func Stints(laps []EnrichedLap, driver string) ([]StintSummary, error) {
	own := lapsForDriver(laps, driver)
	if len(own) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDriverNotFound, driver)
	}
	sort.SliceStable(own, func(i, j int) bool { return own[i].LapNumber < own[j].LapNumber })

	out := make([]StintSummary, 0, 4)
	start := 0
	for i := 1; i <= len(own); i++ {
		if i < len(own) && own[i].Stint == own[start].Stint {
			continue
		}
		out = append(out, summarizeStint(own[start:i]))
		start = i
	}
	return out, nil
}

func summarizeStint(laps []EnrichedLap) StintSummary {
	first, last := laps[0], laps[len(laps)-1]
	times := make([]float64, 0, len(laps))
	sectors := make([]float64, 0, len(laps))
	rates := make([]float64, 0, len(laps))
	for _, l := range laps {
		times = append(times, l.LapTime)
		if l.SectorTotal != nil {
			sectors = append(sectors, *l.SectorTotal)
		}
		if l.DegradationRate != nil {
			rates = append(rates, *l.DegradationRate)
		}
	}

	s := StintSummary{
		Driver:              first.Driver,
		Stint:               first.Stint,
		StartLap:            first.LapNumber,
		EndLap:              last.LapNumber,
		Laps:                len(laps),
		AvgLapTime:          average(times),
		AvgSectorTotal:      average(sectors),
		DegradationRateMean: average(rates),
		OpenedByPitStop:     first.IsPitStop,
	}
	s.Description = fmt.Sprintf(
		"Stint %d: laps %d-%d (%d laps), %.3fs avg, %+.4f s/lap-of-tyre",
		s.Stint, s.StartLap, s.EndLap, s.Laps, s.AvgLapTime, s.DegradationRateMean,
	)
	return s
}
