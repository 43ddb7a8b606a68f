package lapdata

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	f1sustain "github.com/lucasjlepore/f1-sustainability"
)

// LoadFile reads and parses a race lap file (.csv or .xlsx).
func LoadFile(path string, opts ParseOptions) (*Dataset, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("lap file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lap file: %w", err)
	}
	ds, err := LoadBytes(filepath.Base(path), data, opts)
	if err != nil {
		return nil, err
	}
	ds.Source = path
	return ds, nil
}

// LoadBytes parses an in-memory race lap file. fileName selects the format by
// extension and names the race.
func LoadBytes(fileName string, data []byte, opts ParseOptions) (*Dataset, error) {
	var (
		rows   []f1sustain.LapRecord
		report *ParseReport
		err    error
	)
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", "":
		rows, report, err = ParseCSV(bytes.NewReader(data), opts)
	case ".xlsx":
		rows, report, err = ParseXLSX(bytes.NewReader(data), opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileName)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", fileName, err)
	}

	sum := sha256.Sum256(data)
	return &Dataset{
		Source:    fileName,
		Name:      RaceName(fileName),
		SHA256:    hex.EncodeToString(sum[:]),
		SizeBytes: int64(len(data)),
		Rows:      rows,
		RowCount:  len(rows),
		Skipped:   report.Skipped,
		Warnings:  report.Warnings,
	}, nil
}

// RaceName turns a lap file name into a display name:
// "Monaco_Grand_Prix.csv" -> "Monaco Grand Prix".
func RaceName(fileName string) string {
	base := filepath.Base(fileName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSpace(strings.ReplaceAll(base, "_", " "))
}

// Race is a loaded dataset together with its enrichment, derived once per load.
type Race struct {
	Dataset   *Dataset
	Laps      []f1sustain.EnrichedLap
	Drivers   []string
	Threshold float64
}

// Prepare enriches a dataset.
func Prepare(ds *Dataset) (*Race, error) {
	laps, err := f1sustain.Enrich(ds.Rows)
	if err != nil {
		return nil, fmt.Errorf("enrich %s: %w", ds.Name, err)
	}
	return &Race{
		Dataset:   ds,
		Laps:      laps,
		Drivers:   f1sustain.Drivers(laps),
		Threshold: f1sustain.PitStopThreshold(ds.Rows),
	}, nil
}
