package f1sustain

import (
	"errors"
	"math"
	"testing"
)

func mustEnrich(t *testing.T, rows []LapRecord) []EnrichedLap {
	t.Helper()
	laps, err := Enrich(rows)
	if err != nil {
		t.Fatalf("Enrich() error: %v", err)
	}
	return laps
}

func TestScoreWithPitStop(t *testing.T) {
	laps := mustEnrich(t, raceFixture())

	rec, err := Score(laps, "HAM")
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	// 3 laps over 2 stints; rates 0.5 and 109/3; pit lap 200s vs 127s mean.
	wantDeg := (0.5 + 109.0/3.0) / 2
	if !almostEqual(rec.AvgStintLength, 1.5) {
		t.Fatalf("AvgStintLength=%v want 1.5", rec.AvgStintLength)
	}
	if !almostEqual(rec.DegradationRateMean, wantDeg) {
		t.Fatalf("DegradationRateMean=%v want %v", rec.DegradationRateMean, wantDeg)
	}
	if !almostEqual(rec.PitStopLossTime, 73.0) {
		t.Fatalf("PitStopLossTime=%v want 73", rec.PitStopLossTime)
	}
	want := 1.5/wantDeg - 73.0
	if !almostEqual(rec.SustainabilityScore, want) {
		t.Fatalf("SustainabilityScore=%v want %v", rec.SustainabilityScore, want)
	}
}

func TestScoreWithoutPitStop(t *testing.T) {
	laps := mustEnrich(t, raceFixture())

	rec, err := Score(laps, "VER")
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if rec.PitStopLossTime != 0 {
		t.Fatalf("PitStopLossTime=%v want 0", rec.PitStopLossTime)
	}
	if rec.AvgStintLength != 20 {
		t.Fatalf("AvgStintLength=%v want 20", rec.AvgStintLength)
	}
	want := rec.AvgStintLength / math.Abs(rec.DegradationRateMean)
	if !almostEqual(rec.SustainabilityScore, want) {
		t.Fatalf("SustainabilityScore=%v want %v", rec.SustainabilityScore, want)
	}
}

func TestScoreZeroDegradationIsZero(t *testing.T) {
	tests := []struct {
		name string
		rows []LapRecord
	}{
		{
			name: "single lap has no degradation",
			rows: []LapRecord{lap("A", 1, 90, 1), lap("B", 1, 91, 1)},
		},
		{
			name: "all tyre life zero",
			rows: []LapRecord{lap("A", 1, 90, 0), lap("A", 2, 91, 0), lap("B", 1, 91, 0)},
		},
		{
			name: "constant lap times",
			rows: []LapRecord{lap("A", 1, 90, 1), lap("A", 2, 90, 2), lap("A", 3, 90, 3), lap("B", 1, 91, 1)},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := Score(mustEnrich(t, tc.rows), "A")
			if err != nil {
				t.Fatalf("Score() error: %v", err)
			}
			if rec.DegradationRateMean != 0 || rec.SustainabilityScore != 0 {
				t.Fatalf("got %+v, want zero degradation and score", rec)
			}
		})
	}
}

func TestScoreUnknownDriver(t *testing.T) {
	laps := mustEnrich(t, raceFixture())
	if _, err := Score(laps, "NOR"); !errors.Is(err, ErrDriverNotFound) {
		t.Fatalf("got %v, want ErrDriverNotFound", err)
	}
	if _, err := ScoreDrivers(laps, "HAM", "NOR"); !errors.Is(err, ErrDriverNotFound) {
		t.Fatalf("ScoreDrivers: got %v, want ErrDriverNotFound", err)
	}
}

func TestScoreDriversKeepsOrder(t *testing.T) {
	laps := mustEnrich(t, raceFixture())
	recs, err := ScoreDrivers(laps, "VER", "HAM")
	if err != nil {
		t.Fatalf("ScoreDrivers() error: %v", err)
	}
	if len(recs) != 2 || recs[0].Driver != "VER" || recs[1].Driver != "HAM" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}
