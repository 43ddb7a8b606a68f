package llmexport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lucasjlepore/f1-sustainability/lapdata"
)

const testRaceCSV = `Driver,LapNumber,LapTime,Sector1Time,Sector2Time,Sector3Time,TyreLife
HAM,2,91.0,30.0,40.0,21.0,2
HAM,1,90.0,30.0,40.0,20.0,1
VER,1,89.5,29.5,40.0,20.0,1
`

func TestExportFileWritesBundle(t *testing.T) {
	tmp := t.TempDir()
	inputPath := filepath.Join(tmp, "Silverstone.csv")
	if err := os.WriteFile(inputPath, []byte(testRaceCSV), 0o644); err != nil {
		t.Fatalf("write sample csv: %v", err)
	}

	outDir := filepath.Join(tmp, "export")
	result, err := ExportFile(inputPath, outDir, ExportOptions{
		Overwrite:      true,
		CopySourceFile: true,
	})
	if err != nil {
		t.Fatalf("ExportFile error: %v", err)
	}

	if result.LapCount != 3 || result.DriverCount != 2 {
		t.Fatalf("unexpected counts: laps=%d drivers=%d", result.LapCount, result.DriverCount)
	}
	if _, err := os.Stat(result.ManifestPath); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	if filepath.Base(result.SourceCopyPath) != "source.csv" {
		t.Fatalf("unexpected source copy path: %s", result.SourceCopyPath)
	}
	if _, err := os.Stat(result.SourceCopyPath); err != nil {
		t.Fatalf("source copy missing: %v", err)
	}

	manifestData, err := os.ReadFile(result.ManifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(manifestData, &manifest); err != nil {
		t.Fatalf("unmarshal manifest: %v", err)
	}
	if manifest.FormatVersion != ExportFormatVersion {
		t.Fatalf("unexpected format version: %q", manifest.FormatVersion)
	}
	if manifest.Race != "Silverstone" {
		t.Fatalf("unexpected race name: %q", manifest.Race)
	}
	if manifest.PitStopThreshold == nil {
		t.Fatal("expected a finite pit-stop threshold")
	}

	lapsData, err := os.ReadFile(result.LapsPath)
	if err != nil {
		t.Fatalf("read laps: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(lapsData)), "\n")
	if len(lines) != result.LapCount {
		t.Fatalf("laps line count mismatch: %d != %d", len(lines), result.LapCount)
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal first lap: %v", err)
	}
	if first["record_index"] != float64(0) || first["driver"] != "HAM" || first["lap_number"] != float64(2) {
		t.Fatalf("unexpected first line: %v", first)
	}
	if first["lap_time_delta"] != float64(1) {
		t.Fatalf("expected lap_time_delta 1, got %v", first["lap_time_delta"])
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("unmarshal second lap: %v", err)
	}
	if _, ok := second["lap_time_delta"]; ok {
		t.Fatalf("opening lap should omit lap_time_delta: %v", second)
	}
}

func TestExportFileRefusesNonEmptyDir(t *testing.T) {
	tmp := t.TempDir()
	inputPath := filepath.Join(tmp, "race.csv")
	if err := os.WriteFile(inputPath, []byte(testRaceCSV), 0o644); err != nil {
		t.Fatalf("write sample csv: %v", err)
	}
	if _, err := ExportFile(inputPath, tmp, ExportOptions{}); err == nil {
		t.Fatal("expected error for non-empty output directory")
	}
}

func TestBuildWarnings(t *testing.T) {
	ds, err := lapdata.LoadBytes("race.csv", []byte(testRaceCSV), lapdata.ParseOptions{})
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	race, err := lapdata.Prepare(ds)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	warnings := BuildWarnings(race)
	if len(warnings) != 1 || !strings.Contains(warnings[0], "VER") {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	m := BuildManifest(race, time.Unix(0, 0))
	if m.LapsPath != LapsFileName || m.LapCount != 3 || len(m.Drivers) != 2 {
		t.Fatalf("unexpected manifest: %+v", m)
	}
}
