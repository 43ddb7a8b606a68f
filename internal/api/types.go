package api

import (
	f1sustain "github.com/lucasjlepore/f1-sustainability"
)

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status      string  `json:"status"`
	DataDir     string  `json:"data_dir"`
	CachedRaces int     `json:"cached_races"`
	UptimeS     float64 `json:"uptime_s"`
}

// DriversResponse is returned by GET /api/v1/races/{race}/drivers.
type DriversResponse struct {
	Race             string   `json:"race"`
	Drivers          []string `json:"drivers"`
	LapCount         int      `json:"lap_count"`
	SkippedRows      int      `json:"skipped_rows"`
	PitStopThreshold *float64 `json:"pit_stop_threshold_s,omitempty"`
}

// LapsResponse is returned by GET /api/v1/races/{race}/laps. Stints and
// Series are set only when a driver is requested.
type LapsResponse struct {
	Race   string                   `json:"race"`
	Driver string                   `json:"driver,omitempty"`
	Laps   []f1sustain.EnrichedLap  `json:"laps"`
	Stints []f1sustain.StintSummary `json:"stints,omitempty"`
	Series *f1sustain.DriverSeries  `json:"series,omitempty"`
}

// CompareResponse is returned by GET /api/v1/races/{race}/compare.
type CompareResponse struct {
	Race       string                              `json:"race"`
	Driver1    string                              `json:"driver1"`
	Driver2    string                              `json:"driver2"`
	Comparison f1sustain.Comparison                `json:"comparison"`
	Stints     map[string][]f1sustain.StintSummary `json:"stints"`
	Series     []f1sustain.DriverSeries            `json:"series"`
	Report     string                              `json:"report"`
}
