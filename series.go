package f1sustain

import "sort"

// SeriesPoint is one lap of a driver's chart series.
type SeriesPoint struct {
	LapNumber       int      `json:"lap_number"`
	LapTime         float64  `json:"lap_time"`
	DegradationRate *float64 `json:"degradation_rate,omitempty"`
	IsPitStop       bool     `json:"is_pit_stop"`
	Stint           int      `json:"stint"`
}

// DriverSeries is the lap-time and degradation series for one driver, plus
// the pit-stop laps as separate markers.
type DriverSeries struct {
	Driver     string        `json:"driver"`
	Points     []SeriesPoint `json:"points"`
	PitMarkers []SeriesPoint `json:"pit_markers,omitempty"`
}

// BuildSeries returns one series per requested driver, points ordered by lap.
// Unknown drivers yield an empty series rather than an error.
func BuildSeries(laps []EnrichedLap, drivers ...string) []DriverSeries {
	out := make([]DriverSeries, 0, len(drivers))
	for _, d := range drivers {
		own := lapsForDriver(laps, d)
		sort.SliceStable(own, func(i, j int) bool { return own[i].LapNumber < own[j].LapNumber })

		s := DriverSeries{Driver: d, Points: make([]SeriesPoint, 0, len(own))}
		for _, l := range own {
			p := SeriesPoint{
				LapNumber:       l.LapNumber,
				LapTime:         l.LapTime,
				DegradationRate: l.DegradationRate,
				IsPitStop:       l.IsPitStop,
				Stint:           l.Stint,
			}
			s.Points = append(s.Points, p)
			if l.IsPitStop {
				s.PitMarkers = append(s.PitMarkers, p)
			}
		}
		out = append(out, s)
	}
	return out
}
