package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	f1sustain "github.com/lucasjlepore/f1-sustainability"
	"github.com/lucasjlepore/f1-sustainability/lapdata"
)

type notes struct {
	Race       string                              `json:"race"`
	Comparison f1sustain.Comparison                `json:"comparison"`
	Stints     map[string][]f1sustain.StintSummary `json:"stints"`
	Warnings   []string                            `json:"warnings,omitempty"`
}

func main() {
	var (
		driver1    = flag.String("driver1", "", "First driver (default: first driver alphabetically)")
		driver2    = flag.String("driver2", "", "Second driver (default: second driver alphabetically)")
		jsonOut    = flag.Bool("json", false, "Emit comparison and stints as JSON")
		showStints = flag.Bool("stints", false, "Include the stint table in text output")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <path-to-lap-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	ds, err := lapdata.LoadFile(flag.Arg(0), lapdata.ParseOptions{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}
	race, err := lapdata.Prepare(ds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}
	d1, d2, err := f1sustain.SelectPair(race.Drivers, *driver1, *driver2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}
	scores, err := f1sustain.ScoreDrivers(race.Laps, d1, d2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	n := notes{
		Race:       ds.Name,
		Comparison: f1sustain.Compare(scores[0], scores[1]),
		Stints:     map[string][]f1sustain.StintSummary{},
		Warnings:   ds.Warnings,
	}
	for _, d := range []string{d1, d2} {
		st, err := f1sustain.Stints(race.Laps, d)
		if err != nil {
			fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
			os.Exit(1)
		}
		n.Stints[d] = st
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(n); err != nil {
			fmt.Fprintf(os.Stderr, "json encode failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *showStints {
		fmt.Println(f1sustain.BuildReport(n.Race, n.Comparison, n.Stints))
	} else {
		fmt.Println(f1sustain.BuildReport(n.Race, n.Comparison, nil))
	}
	for _, w := range n.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
}
