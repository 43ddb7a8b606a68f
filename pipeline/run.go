package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	f1sustain "github.com/lucasjlepore/f1-sustainability"
	"github.com/lucasjlepore/f1-sustainability/lapdata"
	"github.com/lucasjlepore/f1-sustainability/llmexport"
)

// Artifact file names inside an output bundle.
const (
	ScoresFileName     = "scores.json"
	StintsFileName     = "stints.json"
	SeriesFileName     = "series.json"
	ComparisonFileName = "comparison.json"
	ReportFileName     = "report.md"
	WorkbookFileName   = "scores.xlsx"
	ManifestFileName   = "manifest.json"
)

// Run executes the full race pipeline and writes all required artifacts.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.RacePath) == "" {
		return nil, fmt.Errorf("race path is required")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	format, err := normalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	ds, err := lapdata.LoadFile(opts.RacePath, lapdata.ParseOptions{Strict: opts.Strict})
	if err != nil {
		return nil, err
	}
	race, err := lapdata.Prepare(ds)
	if err != nil {
		return nil, err
	}
	a, err := analyze(race, opts.Driver1, opts.Driver2)
	if err != nil {
		return nil, err
	}

	if err := llmexport.EnsureOutputDir(opts.OutDir, opts.Overwrite); err != nil {
		return nil, err
	}

	enrichedName := enrichedLapsFileName(format)
	enrichedPath := filepath.Join(opts.OutDir, enrichedName)
	switch format {
	case "csv":
		if err := writeEnrichedCSV(enrichedPath, race.Laps); err != nil {
			return nil, fmt.Errorf("write enriched laps csv: %w", err)
		}
	case "parquet":
		if err := writeEnrichedParquet(enrichedPath, race.Laps); err != nil {
			return nil, fmt.Errorf("write enriched laps parquet: %w", err)
		}
	}

	docs, err := a.documents()
	if err != nil {
		return nil, err
	}
	for _, name := range sortedNames(docs) {
		if err := os.WriteFile(filepath.Join(opts.OutDir, name), docs[name], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
	}

	names := append(sortedNames(docs), enrichedName)
	sourceCopyPath := ""
	if opts.CopySource {
		sourceName := sourceCopyName(opts.RacePath)
		sourceCopyPath = filepath.Join(opts.OutDir, sourceName)
		data, err := os.ReadFile(opts.RacePath)
		if err != nil {
			return nil, fmt.Errorf("read source lap file: %w", err)
		}
		if err := os.WriteFile(sourceCopyPath, data, 0o644); err != nil {
			return nil, fmt.Errorf("copy source lap file: %w", err)
		}
		names = append(names, sourceName)
	}

	manifest := a.manifest(format, names)
	manifestPath := filepath.Join(opts.OutDir, ManifestFileName)
	if err := writeJSON(manifestPath, manifest); err != nil {
		return nil, fmt.Errorf("write %s: %w", ManifestFileName, err)
	}

	return &Result{
		RunID:            manifest.RunID,
		OutputDir:        opts.OutDir,
		ManifestPath:     manifestPath,
		EnrichedLapsPath: enrichedPath,
		LapsJSONLPath:    filepath.Join(opts.OutDir, llmexport.LapsFileName),
		ScoresPath:       filepath.Join(opts.OutDir, ScoresFileName),
		StintsPath:       filepath.Join(opts.OutDir, StintsFileName),
		SeriesPath:       filepath.Join(opts.OutDir, SeriesFileName),
		ComparisonPath:   filepath.Join(opts.OutDir, ComparisonFileName),
		ReportPath:       filepath.Join(opts.OutDir, ReportFileName),
		WorkbookPath:     filepath.Join(opts.OutDir, WorkbookFileName),
		SourceCopyPath:   sourceCopyPath,
		Comparison:       a.comparison,
		Warnings:         a.warnings,
	}, nil
}

// RunBytes executes the race pipeline in memory and returns every artifact.
func RunBytes(opts BytesOptions) (*BytesResult, error) {
	if len(opts.Data) == 0 {
		return nil, fmt.Errorf("lap file bytes are required")
	}
	fileName := strings.TrimSpace(opts.SourceFileName)
	if fileName == "" {
		fileName = "laps.csv"
	}
	format, err := normalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	ds, err := lapdata.LoadBytes(fileName, opts.Data, lapdata.ParseOptions{Strict: opts.Strict})
	if err != nil {
		return nil, err
	}
	race, err := lapdata.Prepare(ds)
	if err != nil {
		return nil, err
	}
	a, err := analyze(race, opts.Driver1, opts.Driver2)
	if err != nil {
		return nil, err
	}

	files, err := a.documents()
	if err != nil {
		return nil, err
	}
	var enriched []byte
	switch format {
	case "csv":
		enriched, err = marshalEnrichedCSV(race.Laps)
	case "parquet":
		enriched, err = marshalEnrichedParquet(race.Laps)
	}
	if err != nil {
		return nil, fmt.Errorf("encode enriched laps %s: %w", format, err)
	}
	files[enrichedLapsFileName(format)] = enriched
	if opts.CopySource {
		files[sourceCopyName(fileName)] = append([]byte(nil), opts.Data...)
	}

	manifest := a.manifest(format, sortedNames(files))
	if files[ManifestFileName], err = llmexport.MarshalJSON(manifest); err != nil {
		return nil, fmt.Errorf("encode %s: %w", ManifestFileName, err)
	}

	return &BytesResult{
		Manifest:   manifest,
		Comparison: a.comparison,
		Warnings:   a.warnings,
		Files:      files,
	}, nil
}

// analysis is everything derived from one race for one driver pair.
type analysis struct {
	race       *lapdata.Race
	driver1    string
	driver2    string
	scores     []f1sustain.ScoreRecord
	comparison f1sustain.Comparison
	stints     map[string][]f1sustain.StintSummary
	series     []f1sustain.DriverSeries
	warnings   []string
}

func analyze(race *lapdata.Race, driver1, driver2 string) (*analysis, error) {
	d1, d2, err := f1sustain.SelectPair(race.Drivers, driver1, driver2)
	if err != nil {
		return nil, fmt.Errorf("select drivers: %w", err)
	}
	scores, err := f1sustain.ScoreDrivers(race.Laps, race.Drivers...)
	if err != nil {
		return nil, fmt.Errorf("score drivers: %w", err)
	}
	byDriver := make(map[string]f1sustain.ScoreRecord, len(scores))
	for _, s := range scores {
		byDriver[s.Driver] = s
	}

	stints := make(map[string][]f1sustain.StintSummary, 2)
	for _, d := range []string{d1, d2} {
		if _, ok := stints[d]; ok {
			continue
		}
		list, err := f1sustain.Stints(race.Laps, d)
		if err != nil {
			return nil, fmt.Errorf("stints for %s: %w", d, err)
		}
		stints[d] = list
	}

	return &analysis{
		race:       race,
		driver1:    d1,
		driver2:    d2,
		scores:     scores,
		comparison: f1sustain.Compare(byDriver[d1], byDriver[d2]),
		stints:     stints,
		series:     f1sustain.BuildSeries(race.Laps, uniqueDrivers(d1, d2)...),
		warnings:   llmexport.BuildWarnings(race),
	}, nil
}

// documents renders every artifact that does not depend on the lap table format.
func (a *analysis) documents() (map[string][]byte, error) {
	name := a.race.Dataset.Name
	files := make(map[string][]byte, 8)

	jsonDocs := []struct {
		file string
		v    any
	}{
		{ScoresFileName, ScoresFile{Race: name, Scores: a.scores}},
		{StintsFileName, StintsFile{Race: name, Stints: a.stints}},
		{SeriesFileName, SeriesFile{Race: name, Series: a.series}},
		{ComparisonFileName, a.comparison},
	}
	for _, d := range jsonDocs {
		data, err := llmexport.MarshalJSON(d.v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", d.file, err)
		}
		files[d.file] = data
	}

	laps, err := llmexport.MarshalJSONL(llmexport.Envelopes(a.race.Laps))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", llmexport.LapsFileName, err)
	}
	files[llmexport.LapsFileName] = laps

	files[ReportFileName] = []byte(f1sustain.BuildReport(name, a.comparison, a.stints))

	workbook, err := marshalScoresWorkbook(a)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", WorkbookFileName, err)
	}
	files[WorkbookFileName] = workbook
	return files, nil
}

func (a *analysis) manifest(format string, files []string) Manifest {
	ds := a.race.Dataset
	names := append([]string(nil), files...)
	names = append(names, ManifestFileName)
	sort.Strings(names)
	return Manifest{
		FormatVersion:    FormatVersion,
		RunID:            uuid.NewString(),
		GeneratedAt:      time.Now().UTC(),
		Race:             ds.Name,
		SourceFile:       ds.Source,
		SourceSHA256:     ds.SHA256,
		SourceSizeBytes:  ds.SizeBytes,
		RowCount:         ds.RowCount,
		SkippedRows:      ds.Skipped,
		Drivers:          a.race.Drivers,
		Driver1:          a.driver1,
		Driver2:          a.driver2,
		PitStopThreshold: llmexport.FiniteOrNil(a.race.Threshold),
		LapFormat:        format,
		Files:            dedupeSorted(names),
		Warnings:         a.warnings,
	}
}

func normalizeFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "parquet"
	}
	if format != "parquet" && format != "csv" {
		return "", fmt.Errorf("unsupported format %q (expected parquet|csv)", format)
	}
	return format, nil
}

func enrichedLapsFileName(format string) string {
	return "enriched_laps." + format
}

func sourceCopyName(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		ext = ".csv"
	}
	return "source" + ext
}

func uniqueDrivers(first, second string) []string {
	if first == second {
		return []string{first}
	}
	return []string{first, second}
}

func sortedNames(files map[string][]byte) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func dedupeSorted(names []string) []string {
	out := names[:0]
	for i, n := range names {
		if i > 0 && n == names[i-1] {
			continue
		}
		out = append(out, n)
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var enrichedHeader = []string{
	"driver", "lap_number", "lap_time", "sector1_time", "sector2_time", "sector3_time", "tyre_life",
	"sector_total", "lap_time_delta", "is_pit_stop", "stint", "degradation_rate",
}

func writeEnrichedCSV(path string, laps []f1sustain.EnrichedLap) error {
	data, err := marshalEnrichedCSV(laps)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func marshalEnrichedCSV(laps []f1sustain.EnrichedLap) ([]byte, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(enrichedHeader); err != nil {
		return nil, err
	}
	for _, l := range laps {
		row := []string{
			l.Driver,
			strconv.Itoa(l.LapNumber),
			formatFloat(l.LapTime),
			formatFloatPtr(l.Sector1Time),
			formatFloatPtr(l.Sector2Time),
			formatFloatPtr(l.Sector3Time),
			formatFloatPtr(l.TyreLife),
			formatFloatPtr(l.SectorTotal),
			formatFloatPtr(l.LapTimeDelta),
			strconv.FormatBool(l.IsPitStop),
			strconv.Itoa(l.Stint),
			formatFloatPtr(l.DegradationRate),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
