package f1sustain

import "errors"

var (
	// ErrEmptyDataset is returned when a lap table has no rows.
	ErrEmptyDataset = errors.New("lap dataset is empty")

	// ErrDuplicateLap is returned when one driver reports the same lap number twice.
	ErrDuplicateLap = errors.New("duplicate lap number for driver")

	// ErrDriverNotFound is returned when a requested driver has no laps in the dataset.
	ErrDriverNotFound = errors.New("driver not found")

	// ErrTooFewDrivers is returned when a comparison needs two drivers but the dataset has fewer.
	ErrTooFewDrivers = errors.New("at least two drivers are required")
)

// LapRecord is one row of a raw race lap table. Times are in seconds.
// Sector times and tyre life are often absent on opening and pit-out laps;
// nil marks them missing and the lap still counts.
type LapRecord struct {
	Driver      string   `json:"driver" validate:"required"`
	LapNumber   int      `json:"lap_number" validate:"gt=0"`
	LapTime     float64  `json:"lap_time" validate:"gt=0"`
	Sector1Time *float64 `json:"sector1_time" validate:"omitempty,gt=0"`
	Sector2Time *float64 `json:"sector2_time" validate:"omitempty,gt=0"`
	Sector3Time *float64 `json:"sector3_time" validate:"omitempty,gt=0"`
	TyreLife    *float64 `json:"tyre_life" validate:"omitempty,gte=0"`
}

// EnrichedLap is a LapRecord plus the derived per-lap features.
// Nil pointers mark values that are undefined for the lap.
type EnrichedLap struct {
	LapRecord

	SectorTotal     *float64 `json:"sector_total,omitempty"`
	LapTimeDelta    *float64 `json:"lap_time_delta,omitempty"`
	IsPitStop       bool     `json:"is_pit_stop"`
	Stint           int      `json:"stint"`
	DegradationRate *float64 `json:"degradation_rate,omitempty"`
}

// ScoreRecord is the per-driver sustainability summary.
type ScoreRecord struct {
	Driver              string  `json:"driver"`
	AvgStintLength      float64 `json:"avg_stint_length"`
	DegradationRateMean float64 `json:"degradation_rate_mean"`
	PitStopLossTime     float64 `json:"pit_stop_loss_time"`
	SustainabilityScore float64 `json:"sustainability_score"`
}
