package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasjlepore/f1-sustainability/internal/config"
	"github.com/lucasjlepore/f1-sustainability/pipeline"
)

func main() {
	var (
		racePath   = flag.String("race", "", "Path to input race lap file (.csv or .xlsx)")
		outDir     = flag.String("out", "", "Output directory (defaults to export.out_dir from --config)")
		driver1    = flag.String("driver1", "", "First driver to compare (default: first driver alphabetically)")
		driver2    = flag.String("driver2", "", "Second driver to compare (default: second driver alphabetically)")
		format     = flag.String("format", "", "Enriched lap table format: parquet|csv (default from config)")
		overwrite  = flag.Bool("overwrite", true, "Allow writing into non-empty output directories")
		strict     = flag.Bool("strict", false, "Fail on the first invalid lap row instead of skipping it")
		copySource = flag.Bool("copy-source", true, "Copy the input lap file into the output directory")
		configPath = flag.String("config", "", "Optional YAML config file")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --race laps.csv --out outdir [--driver1 HAM] [--driver2 VER] [--format parquet|csv]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "f1sustain failed: %v\n", err)
		os.Exit(1)
	}
	if strings.TrimSpace(*outDir) == "" {
		*outDir = cfg.Export.OutDir
	}
	if strings.TrimSpace(*format) == "" {
		*format = cfg.Export.Format
	}
	if !flagSet("strict") {
		*strict = cfg.Data.Strict
	}

	if strings.TrimSpace(*racePath) == "" || strings.TrimSpace(*outDir) == "" {
		flag.Usage()
		os.Exit(2)
	}

	result, err := pipeline.Run(pipeline.Options{
		RacePath:   *racePath,
		OutDir:     *outDir,
		Driver1:    *driver1,
		Driver2:    *driver2,
		Format:     *format,
		Overwrite:  *overwrite,
		Strict:     *strict,
		CopySource: *copySource,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "f1sustain failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("f1sustain complete (run %s)\n", result.RunID)
	fmt.Printf("Output dir:          %s\n", result.OutputDir)
	fmt.Printf("manifest.json:       %s\n", result.ManifestPath)
	fmt.Printf("enriched laps:       %s\n", result.EnrichedLapsPath)
	fmt.Printf("laps.jsonl:          %s\n", result.LapsJSONLPath)
	fmt.Printf("scores:              %s\n", result.ScoresPath)
	fmt.Printf("stints:              %s\n", result.StintsPath)
	fmt.Printf("series:              %s\n", result.SeriesPath)
	fmt.Printf("comparison:          %s\n", result.ComparisonPath)
	fmt.Printf("report:              %s\n", result.ReportPath)
	fmt.Printf("workbook:            %s\n", result.WorkbookPath)
	if result.SourceCopyPath != "" {
		fmt.Printf("source copy:         %s\n", result.SourceCopyPath)
	}
	for _, w := range result.Warnings {
		fmt.Printf("warning:             %s\n", w)
	}
	fmt.Println()
	fmt.Printf("%s: %s\n", result.Comparison.Headline, result.Comparison.Message)
}

func flagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
