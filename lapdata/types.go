// Package lapdata reads race lap tables from CSV or XLSX and caches the
// enriched result by file identity.
package lapdata

import (
	"errors"

	f1sustain "github.com/lucasjlepore/f1-sustainability"
)

// Required column names of a lap table. Names and units must match exactly.
const (
	ColDriver      = "Driver"
	ColLapNumber   = "LapNumber"
	ColLapTime     = "LapTime"
	ColSector1Time = "Sector1Time"
	ColSector2Time = "Sector2Time"
	ColSector3Time = "Sector3Time"
	ColTyreLife    = "TyreLife"
)

// RequiredColumns lists the columns every lap table must carry.
var RequiredColumns = []string{
	ColDriver,
	ColLapNumber,
	ColLapTime,
	ColSector1Time,
	ColSector2Time,
	ColSector3Time,
	ColTyreLife,
}

var (
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("missing required column")

	// ErrInvalidRow is returned in strict mode when a row cannot be parsed or validated.
	ErrInvalidRow = errors.New("invalid lap row")

	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported lap file format")
)

// ParseOptions controls row handling while parsing.
type ParseOptions struct {
	// Strict fails on the first unparsable or invalid row instead of skipping it.
	Strict bool

	// Sheet selects the worksheet for XLSX input. Empty means the first sheet.
	Sheet string
}

// Dataset is one loaded race lap table. It is read-only once returned.
type Dataset struct {
	Source    string                `json:"source"`
	Name      string                `json:"name"`
	SHA256    string                `json:"sha256"`
	SizeBytes int64                 `json:"size_bytes"`
	Rows      []f1sustain.LapRecord `json:"-"`
	RowCount  int                   `json:"row_count"`
	Skipped   int                   `json:"skipped_rows"`
	Warnings  []string              `json:"warnings,omitempty"`
}
