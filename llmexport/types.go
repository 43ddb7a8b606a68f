package llmexport

import (
	"time"

	f1sustain "github.com/lucasjlepore/f1-sustainability"
)

const (
	// ExportFormatVersion identifies the on-disk schema for LLM exports.
	ExportFormatVersion = "f1_laps_jsonl_v1"

	// LapsFileName is the JSONL file inside an export bundle.
	LapsFileName = "laps.jsonl"
)

// ExportOptions controls export behavior.
type ExportOptions struct {
	// Overwrite allows writing into a non-empty output directory.
	Overwrite bool

	// CopySourceFile writes a byte-for-byte copy of the source lap file to the output directory.
	CopySourceFile bool

	// Strict fails on the first invalid lap row instead of skipping it.
	Strict bool
}

// ExportResult describes generated files.
type ExportResult struct {
	OutputDir       string `json:"output_dir"`
	ManifestPath    string `json:"manifest_path"`
	LapsPath        string `json:"laps_path"`
	SourceCopyPath  string `json:"source_copy_path,omitempty"`
	LapCount        int    `json:"lap_count"`
	DriverCount     int    `json:"driver_count"`
	PitStopCount    int    `json:"pit_stop_count"`
	SkippedRows     int    `json:"skipped_rows"`
	SourceSHA256    string `json:"source_sha256"`
	SourceSizeBytes int64  `json:"source_size_bytes"`
}

// Manifest captures export metadata and pointers to exported files.
type Manifest struct {
	FormatVersion     string        `json:"format_version"`
	GeneratedAt       time.Time     `json:"generated_at"`
	Race              string        `json:"race"`
	SourceFile        string        `json:"source_file"`
	SourceFileName    string        `json:"source_file_name"`
	SourceSHA256      string        `json:"source_sha256"`
	SourceSizeBytes   int64         `json:"source_size_bytes"`
	LapsPath          string        `json:"laps_path"`
	LapCount          int           `json:"lap_count"`
	SkippedRows       int           `json:"skipped_rows"`
	Drivers           []string      `json:"drivers"`
	PitStopThreshold  *float64      `json:"pit_stop_threshold_s,omitempty"`
	Warnings          []string      `json:"warnings,omitempty"`
	SchemaDescription SchemaDetails `json:"schema_description"`
}

// SchemaDetails documents the record shape for downstream applications.
type SchemaDetails struct {
	RecordType string   `json:"record_type"`
	Notes      []string `json:"notes"`
}

// LapEnvelope is one JSONL line: an enriched lap with its position in the
// source table.
type LapEnvelope struct {
	RecordIndex int `json:"record_index"`
	f1sustain.EnrichedLap
}
