package llmexport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	f1sustain "github.com/lucasjlepore/f1-sustainability"
	"github.com/lucasjlepore/f1-sustainability/lapdata"
)

// Envelopes wraps enriched laps in source order.
func Envelopes(laps []f1sustain.EnrichedLap) []LapEnvelope {
	out := make([]LapEnvelope, len(laps))
	for i, lap := range laps {
		out[i] = LapEnvelope{RecordIndex: i, EnrichedLap: lap}
	}
	return out
}

// BuildManifest describes an export of race. LapsPath is relative to the bundle.
func BuildManifest(race *lapdata.Race, generatedAt time.Time) Manifest {
	ds := race.Dataset
	return Manifest{
		FormatVersion:    ExportFormatVersion,
		GeneratedAt:      generatedAt.UTC(),
		Race:             ds.Name,
		SourceFile:       ds.Source,
		SourceFileName:   filepath.Base(ds.Source),
		SourceSHA256:     ds.SHA256,
		SourceSizeBytes:  ds.SizeBytes,
		LapsPath:         LapsFileName,
		LapCount:         len(race.Laps),
		SkippedRows:      ds.Skipped,
		Drivers:          race.Drivers,
		PitStopThreshold: FiniteOrNil(race.Threshold),
		Warnings:         BuildWarnings(race),
		SchemaDescription: SchemaDetails{
			RecordType: "JSONL line-per-lap preserving source row order",
			Notes: []string{
				"Times are seconds. Timedelta strings in the source are converted on load.",
				"sector1_time, sector2_time, sector3_time and tyre_life are null when the source cell was empty; the lap still counts.",
				"sector_total, lap_time_delta and degradation_rate are omitted when undefined for the lap.",
				"is_pit_stop uses one race-wide threshold: mean + 3 sample standard deviations of lap_time.",
				"stint counts pit-stop laps up to and including the current lap, starting at 1.",
				"Use record_index to restore source order after filtering by driver.",
			},
		},
	}
}

// FiniteOrNil returns nil for NaN and infinities, which JSON cannot carry.
func FiniteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// MarshalJSON renders indented JSON with deterministic key order.
func MarshalJSON(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	out = append(out, '\n')
	return out, nil
}

// MarshalJSONL renders lap envelopes as JSONL bytes.
func MarshalJSONL(records []LapEnvelope) ([]byte, error) {
	var buf bytes.Buffer
	w := bufio.NewWriterSize(&buf, 1<<20)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			return nil, err
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildWarnings returns deterministic data-quality notes for a race.
func BuildWarnings(race *lapdata.Race) []string {
	if race == nil {
		return nil
	}
	warnings := make([]string, 0, 4)
	if race.Dataset != nil {
		for _, w := range race.Dataset.Warnings {
			if s := strings.TrimSpace(w); s != "" {
				warnings = append(warnings, s)
			}
		}
	}
	if FiniteOrNil(race.Threshold) == nil {
		warnings = append(warnings, "pit-stop threshold undefined: fewer than two laps in the race")
	}

	lapCount := make(map[string]int, len(race.Drivers))
	for _, lap := range race.Laps {
		lapCount[lap.Driver]++
	}
	for _, d := range race.Drivers {
		if lapCount[d] == 1 {
			warnings = append(warnings, fmt.Sprintf("driver %s has a single lap; degradation is undefined", d))
		}
	}
	return dedupeStrings(warnings)
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
