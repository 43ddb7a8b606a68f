package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasjlepore/f1-sustainability/llmexport"
)

func main() {
	var (
		outDir     = flag.String("out-dir", "", "Output directory for manifest.json and laps.jsonl")
		overwrite  = flag.Bool("overwrite", true, "Allow writing to non-empty output directories")
		copySource = flag.Bool("copy-source", true, "Copy the original lap file into the export directory")
		strict     = flag.Bool("strict", false, "Fail on the first invalid lap row instead of skipping it")
	)

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <path-to-lap-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	inputPath := flag.Arg(0)
	if strings.TrimSpace(*outDir) == "" {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		*outDir = filepath.Join(".", "exports", base+"_"+llmexport.ExportFormatVersion)
	}

	result, err := llmexport.ExportFile(inputPath, *outDir, llmexport.ExportOptions{
		Overwrite:      *overwrite,
		CopySourceFile: *copySource,
		Strict:         *strict,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Export complete\n")
	fmt.Printf("Output dir: %s\n", result.OutputDir)
	fmt.Printf("Manifest:   %s\n", result.ManifestPath)
	fmt.Printf("Laps:       %s\n", result.LapsPath)
	if result.SourceCopyPath != "" {
		fmt.Printf("Source:     %s\n", result.SourceCopyPath)
	}
	fmt.Printf("Laps:       %d (%d drivers, %d pit stops, %d rows skipped)\n", result.LapCount, result.DriverCount, result.PitStopCount, result.SkippedRows)
}
