package f1sustain

import (
	"errors"
	"testing"
)

func TestStints(t *testing.T) {
	laps := mustEnrich(t, raceFixture())

	ham, err := Stints(laps, "HAM")
	if err != nil {
		t.Fatalf("Stints() error: %v", err)
	}
	if len(ham) != 2 {
		t.Fatalf("got %d stints, want 2: %+v", len(ham), ham)
	}
	if ham[0].StartLap != 1 || ham[0].EndLap != 2 || ham[0].Laps != 2 || ham[0].OpenedByPitStop {
		t.Fatalf("unexpected first stint: %+v", ham[0])
	}
	if ham[1].StartLap != 3 || ham[1].EndLap != 3 || !ham[1].OpenedByPitStop {
		t.Fatalf("unexpected second stint: %+v", ham[1])
	}
	if !almostEqual(ham[0].AvgLapTime, 90.5) {
		t.Fatalf("first stint AvgLapTime=%v want 90.5", ham[0].AvgLapTime)
	}

	ver, err := Stints(laps, "VER")
	if err != nil {
		t.Fatalf("Stints() error: %v", err)
	}
	if len(ver) != 1 || ver[0].Laps != 20 {
		t.Fatalf("VER should have one 20-lap stint: %+v", ver)
	}

	if _, err := Stints(laps, "NOR"); !errors.Is(err, ErrDriverNotFound) {
		t.Fatalf("got %v, want ErrDriverNotFound", err)
	}
}

func TestDriversAndSelectPair(t *testing.T) {
	laps := mustEnrich(t, raceFixture())
	drivers := Drivers(laps)
	if len(drivers) != 2 || drivers[0] != "HAM" || drivers[1] != "VER" {
		t.Fatalf("Drivers()=%v", drivers)
	}

	a, b, err := SelectPair(drivers, "", "")
	if err != nil || a != "HAM" || b != "VER" {
		t.Fatalf("default pair = %q %q %v", a, b, err)
	}
	a, b, err = SelectPair(drivers, "VER", "VER")
	if err != nil || a != "VER" || b != "VER" {
		t.Fatalf("same-driver pair = %q %q %v", a, b, err)
	}
	if _, _, err := SelectPair(drivers, "NOR", ""); !errors.Is(err, ErrDriverNotFound) {
		t.Fatalf("unknown driver: got %v", err)
	}
	if _, _, err := SelectPair([]string{"HAM"}, "", ""); !errors.Is(err, ErrTooFewDrivers) {
		t.Fatalf("single driver: got %v", err)
	}
}

func TestBuildSeries(t *testing.T) {
	laps := mustEnrich(t, raceFixture())
	series := BuildSeries(laps, "HAM", "NOR")
	if len(series) != 2 {
		t.Fatalf("got %d series", len(series))
	}
	ham := series[0]
	for i, p := range ham.Points {
		if p.LapNumber != i+1 {
			t.Fatalf("points not ordered by lap: %+v", ham.Points)
		}
	}
	if len(ham.PitMarkers) != 1 || ham.PitMarkers[0].LapNumber != 3 {
		t.Fatalf("unexpected pit markers: %+v", ham.PitMarkers)
	}
	if len(series[1].Points) != 0 {
		t.Fatalf("unknown driver should have an empty series")
	}
}
