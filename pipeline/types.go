package pipeline

import (
	"time"

	f1sustain "github.com/lucasjlepore/f1-sustainability"
)

// FormatVersion identifies the layout of a pipeline output bundle.
const FormatVersion = "f1_sustainability_v1"

// Options configures the race pipeline.
type Options struct {
	RacePath  string
	OutDir    string
	Driver1   string // empty selects the first driver alphabetically
	Driver2   string // empty selects the second driver alphabetically
	Format    string // parquet|csv
	Overwrite bool
	Strict    bool

	// CopySource writes a copy of the input lap file into the bundle.
	CopySource bool
}

// Result returns generated output paths.
type Result struct {
	RunID            string               `json:"run_id"`
	OutputDir        string               `json:"output_dir"`
	ManifestPath     string               `json:"manifest_path"`
	EnrichedLapsPath string               `json:"enriched_laps_path"`
	LapsJSONLPath    string               `json:"laps_jsonl_path"`
	ScoresPath       string               `json:"scores_path"`
	StintsPath       string               `json:"stints_path"`
	SeriesPath       string               `json:"series_path"`
	ComparisonPath   string               `json:"comparison_path"`
	ReportPath       string               `json:"report_path"`
	WorkbookPath     string               `json:"workbook_path"`
	SourceCopyPath   string               `json:"source_copy_path,omitempty"`
	Comparison       f1sustain.Comparison `json:"comparison"`
	Warnings         []string             `json:"warnings,omitempty"`
}

// BytesOptions configures an in-memory pipeline run.
type BytesOptions struct {
	SourceFileName string
	Data           []byte
	Driver1        string
	Driver2        string
	Format         string // parquet|csv
	Strict         bool
	CopySource     bool
}

// BytesResult holds every artifact keyed by file name.
type BytesResult struct {
	Manifest   Manifest             `json:"manifest"`
	Comparison f1sustain.Comparison `json:"comparison"`
	Warnings   []string             `json:"warnings,omitempty"`
	Files      map[string][]byte    `json:"-"`
}

// Manifest describes one pipeline run.
type Manifest struct {
	FormatVersion    string    `json:"format_version"`
	RunID            string    `json:"run_id"`
	GeneratedAt      time.Time `json:"generated_at"`
	Race             string    `json:"race"`
	SourceFile       string    `json:"source_file"`
	SourceSHA256     string    `json:"source_sha256"`
	SourceSizeBytes  int64     `json:"source_size_bytes"`
	RowCount         int       `json:"row_count"`
	SkippedRows      int       `json:"skipped_rows"`
	Drivers          []string  `json:"drivers"`
	Driver1          string    `json:"driver1"`
	Driver2          string    `json:"driver2"`
	PitStopThreshold *float64  `json:"pit_stop_threshold_s,omitempty"`
	LapFormat        string    `json:"lap_format"`
	Files            []string  `json:"files"`
	Warnings         []string  `json:"warnings,omitempty"`
}

// ScoresFile lists the sustainability score of every driver in the race.
type ScoresFile struct {
	Race   string                  `json:"race"`
	Scores []f1sustain.ScoreRecord `json:"scores"`
}

// StintsFile maps each selected driver to their stint breakdown.
type StintsFile struct {
	Race   string                              `json:"race"`
	Stints map[string][]f1sustain.StintSummary `json:"stints"`
}

// SeriesFile carries the chart series of the selected drivers.
type SeriesFile struct {
	Race   string                   `json:"race"`
	Series []f1sustain.DriverSeries `json:"series"`
}
