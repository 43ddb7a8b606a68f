package llmexport

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasjlepore/f1-sustainability/lapdata"
)

// ExportFile loads a race lap file and writes an LLM-friendly export bundle.
// Output files:
//   - manifest.json
//   - laps.jsonl
//   - source.csv / source.xlsx (optional)
func ExportFile(inputPath, outputDir string, opts ExportOptions) (*ExportResult, error) {
	if strings.TrimSpace(inputPath) == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if strings.TrimSpace(outputDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}

	ds, err := lapdata.LoadFile(inputPath, lapdata.ParseOptions{Strict: opts.Strict})
	if err != nil {
		return nil, err
	}
	race, err := lapdata.Prepare(ds)
	if err != nil {
		return nil, err
	}

	if err := EnsureOutputDir(outputDir, opts.Overwrite); err != nil {
		return nil, err
	}

	lapsPath := filepath.Join(outputDir, LapsFileName)
	if err := writeJSONL(lapsPath, Envelopes(race.Laps)); err != nil {
		return nil, fmt.Errorf("write %s: %w", LapsFileName, err)
	}

	manifest := BuildManifest(race, time.Now())
	manifestPath := filepath.Join(outputDir, "manifest.json")
	if err := writeJSON(manifestPath, manifest); err != nil {
		return nil, fmt.Errorf("write manifest.json: %w", err)
	}

	sourceCopyPath := ""
	if opts.CopySourceFile {
		sourceCopyPath = filepath.Join(outputDir, "source"+strings.ToLower(filepath.Ext(inputPath)))
		if err := copyFile(inputPath, sourceCopyPath); err != nil {
			return nil, fmt.Errorf("copy source lap file: %w", err)
		}
	}

	pitStops := 0
	for _, lap := range race.Laps {
		if lap.IsPitStop {
			pitStops++
		}
	}

	return &ExportResult{
		OutputDir:       outputDir,
		ManifestPath:    manifestPath,
		LapsPath:        lapsPath,
		SourceCopyPath:  sourceCopyPath,
		LapCount:        len(race.Laps),
		DriverCount:     len(race.Drivers),
		PitStopCount:    pitStops,
		SkippedRows:     ds.Skipped,
		SourceSHA256:    ds.SHA256,
		SourceSizeBytes: ds.SizeBytes,
	}, nil
}

// EnsureOutputDir creates path and refuses a non-empty directory unless overwrite is set.
func EnsureOutputDir(path string, overwrite bool) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}
	if len(entries) > 0 && !overwrite {
		return fmt.Errorf("output directory is not empty: %s (set overwrite=true to allow)", path)
	}
	return nil
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

func writeJSONL(path string, records []LapEnvelope) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := bufio.NewWriterSize(f, 1<<20)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			return err
		}
	}
	return buf.Flush()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
