package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	f1sustain "github.com/lucasjlepore/f1-sustainability"
)

// raceCSV has HAM pitting on lap 3 and VER running 20 clean laps.
func raceCSV() string {
	var b strings.Builder
	b.WriteString("Driver,LapNumber,LapTime,Sector1Time,Sector2Time,Sector3Time,TyreLife,Compound\n")
	for i, lt := range []float64{90, 91, 200} {
		fmt.Fprintf(&b, "HAM,%d,%.1f,30,30,%.1f,%d,SOFT\n", i+1, lt, lt-60, i+1)
	}
	for i := 0; i < 20; i++ {
		lt := 90 + 0.1*float64(i)
		fmt.Fprintf(&b, "VER,%d,%.1f,30,30,%.1f,%d,MEDIUM\n", i+1, lt, lt-60, i+1)
	}
	return b.String()
}

func writeRaceFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Monza_Grand_Prix.csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write race file: %v", err)
	}
	return path
}

func TestRunWritesArtifacts(t *testing.T) {
	racePath := writeRaceFile(t, raceCSV())
	outDir := filepath.Join(t.TempDir(), "out")

	res, err := Run(Options{
		RacePath:   racePath,
		OutDir:     outDir,
		Format:     "csv",
		Overwrite:  true,
		CopySource: true,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	f, err := os.Open(res.EnrichedLapsPath)
	if err != nil {
		t.Fatalf("open enriched laps: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read enriched csv: %v", err)
	}
	if len(rows) != 24 {
		t.Fatalf("expected header + 23 laps, got %d rows", len(rows))
	}
	for i, col := range enrichedHeader {
		if rows[0][i] != col {
			t.Fatalf("unexpected header column %d: got %q want %q", i, rows[0][i], col)
		}
	}
	// HAM lap 3 is the only pit stop and opens stint 2.
	if got := rows[3]; got[0] != "HAM" || got[9] != "true" || got[10] != "2" {
		t.Fatalf("unexpected pit-stop row: %v", got)
	}
	if rows[1][8] != "" || rows[1][11] != "" {
		t.Fatalf("opening lap should have empty delta and degradation: %v", rows[1])
	}

	var cmp f1sustain.Comparison
	readJSON(t, res.ComparisonPath, &cmp)
	if cmp.Outcome != f1sustain.OutcomeSecond || cmp.Winner != "VER" || cmp.RunnerUp != "HAM" {
		t.Fatalf("unexpected comparison: %+v", cmp)
	}
	if res.Comparison.Winner != "VER" {
		t.Fatalf("result comparison mismatch: %+v", res.Comparison)
	}

	var scores ScoresFile
	readJSON(t, res.ScoresPath, &scores)
	if scores.Race != "Monza Grand Prix" || len(scores.Scores) != 2 {
		t.Fatalf("unexpected scores file: %+v", scores)
	}

	var stints StintsFile
	readJSON(t, res.StintsPath, &stints)
	if len(stints.Stints["HAM"]) != 2 || len(stints.Stints["VER"]) != 1 {
		t.Fatalf("unexpected stints: %+v", stints.Stints)
	}

	report, err := os.ReadFile(res.ReportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(report), "VER demonstrates a higher sustainability performance score than HAM.") {
		t.Fatalf("report missing conclusion:\n%s", report)
	}

	var manifest Manifest
	readJSON(t, res.ManifestPath, &manifest)
	if _, err := uuid.Parse(manifest.RunID); err != nil || manifest.RunID != res.RunID {
		t.Fatalf("bad run id %q: %v", manifest.RunID, err)
	}
	if manifest.Driver1 != "HAM" || manifest.Driver2 != "VER" || manifest.RowCount != 23 {
		t.Fatalf("unexpected manifest: %+v", manifest)
	}
	if manifest.PitStopThreshold == nil {
		t.Fatal("expected a finite threshold in manifest")
	}
	for _, name := range manifest.Files {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("manifest lists %s but it is missing: %v", name, err)
		}
	}
	if len(manifest.Files) != 10 {
		t.Fatalf("expected 10 files in manifest, got %v", manifest.Files)
	}
}

func TestRunParquet(t *testing.T) {
	racePath := writeRaceFile(t, raceCSV())
	res, err := Run(Options{
		RacePath: racePath,
		OutDir:   filepath.Join(t.TempDir(), "out"),
		Driver1:  "VER",
		Driver2:  "HAM",
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if filepath.Base(res.EnrichedLapsPath) != "enriched_laps.parquet" {
		t.Fatalf("unexpected enriched path: %s", res.EnrichedLapsPath)
	}
	data, err := os.ReadFile(res.EnrichedLapsPath)
	if err != nil {
		t.Fatalf("read parquet: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("PAR1")) || !bytes.HasSuffix(data, []byte("PAR1")) {
		t.Fatal("enriched laps is not a parquet file")
	}
	if res.Comparison.Outcome != f1sustain.OutcomeFirst {
		t.Fatalf("expected first driver (VER) to win, got %+v", res.Comparison)
	}
}

func TestRunBytesProducesArtifacts(t *testing.T) {
	res, err := RunBytes(BytesOptions{
		SourceFileName: "Monza_Grand_Prix.csv",
		Data:           []byte(raceCSV()),
		Format:         "parquet",
		CopySource:     true,
	})
	if err != nil {
		t.Fatalf("RunBytes() error: %v", err)
	}

	required := []string{
		"manifest.json",
		"laps.jsonl",
		"scores.json",
		"stints.json",
		"series.json",
		"comparison.json",
		"report.md",
		"scores.xlsx",
		"enriched_laps.parquet",
		"source.csv",
	}
	for _, name := range required {
		if _, ok := res.Files[name]; !ok {
			t.Fatalf("missing artifact %s", name)
		}
	}
	if len(res.Manifest.Files) != len(res.Files) {
		t.Fatalf("manifest lists %d files, bundle has %d", len(res.Manifest.Files), len(res.Files))
	}

	wb, err := excelize.OpenReader(bytes.NewReader(res.Files["scores.xlsx"]))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer wb.Close()
	sheets := wb.GetSheetList()
	if len(sheets) != 2 || sheets[0] != scoresSheet || sheets[1] != stintsSheet {
		t.Fatalf("unexpected sheets: %v", sheets)
	}
	scoreRows, err := wb.GetRows(scoresSheet)
	if err != nil {
		t.Fatalf("read scores sheet: %v", err)
	}
	if len(scoreRows) != 3 || scoreRows[1][0] != "HAM" || scoreRows[2][0] != "VER" {
		t.Fatalf("unexpected scores sheet: %v", scoreRows)
	}
	stintRows, err := wb.GetRows(stintsSheet)
	if err != nil {
		t.Fatalf("read stints sheet: %v", err)
	}
	if len(stintRows) != 4 {
		t.Fatalf("expected header + 3 stints, got %v", stintRows)
	}

	lines := strings.Split(strings.TrimSpace(string(res.Files["laps.jsonl"])), "\n")
	if len(lines) != 23 {
		t.Fatalf("expected 23 jsonl lines, got %d", len(lines))
	}
}

func TestRunBytesSameDriverTwice(t *testing.T) {
	res, err := RunBytes(BytesOptions{
		Data:    []byte(raceCSV()),
		Driver1: "HAM",
		Driver2: "HAM",
		Format:  "csv",
	})
	if err != nil {
		t.Fatalf("RunBytes() error: %v", err)
	}
	if res.Comparison.Outcome != f1sustain.OutcomeBalanced {
		t.Fatalf("expected balanced outcome, got %+v", res.Comparison)
	}
	var series SeriesFile
	if err := json.Unmarshal(res.Files["series.json"], &series); err != nil {
		t.Fatalf("unmarshal series: %v", err)
	}
	if len(series.Series) != 1 || len(series.Series[0].PitMarkers) != 1 {
		t.Fatalf("unexpected series: %+v", series.Series)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	single := "Driver,LapNumber,LapTime,Sector1Time,Sector2Time,Sector3Time,TyreLife\nVER,1,90,30,30,30,1\nVER,2,91,30,30,31,2\n"

	tests := []struct {
		name string
		opts BytesOptions
		want error
	}{
		{"one driver", BytesOptions{Data: []byte(single), Format: "csv"}, f1sustain.ErrTooFewDrivers},
		{"unknown driver", BytesOptions{Data: []byte(raceCSV()), Driver1: "ALO", Format: "csv"}, f1sustain.ErrDriverNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RunBytes(tc.opts)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := RunBytes(BytesOptions{Data: []byte(raceCSV()), Format: "json"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
	if _, err := RunBytes(BytesOptions{}); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := Run(Options{OutDir: t.TempDir()}); err == nil {
		t.Fatal("expected error for missing race path")
	}
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("unmarshal %s: %v", path, err)
	}
}
