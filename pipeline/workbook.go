package pipeline

import (
	"github.com/xuri/excelize/v2"
)

const (
	scoresSheet = "Scores"
	stintsSheet = "Stints"
)

var (
	scoresSheetHeader = []any{"Driver", "AvgStintLength", "DegradationRateMean", "PitStopLossTime", "SustainabilityScore"}
	stintsSheetHeader = []any{"Driver", "Stint", "StartLap", "EndLap", "Laps", "AvgLapTime", "AvgSectorTotal", "DegradationRateMean", "OpenedByPitStop"}
)

// marshalScoresWorkbook renders every driver's score and the selected
// drivers' stints as an xlsx workbook.
func marshalScoresWorkbook(a *analysis) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(scoresSheet); err != nil {
		return nil, err
	}
	if err := writeSheetRow(f, scoresSheet, 1, scoresSheetHeader); err != nil {
		return nil, err
	}
	for i, s := range a.scores {
		row := []any{s.Driver, s.AvgStintLength, s.DegradationRateMean, s.PitStopLossTime, s.SustainabilityScore}
		if err := writeSheetRow(f, scoresSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(stintsSheet); err != nil {
		return nil, err
	}
	if err := writeSheetRow(f, stintsSheet, 1, stintsSheetHeader); err != nil {
		return nil, err
	}
	rowNum := 2
	for _, driver := range uniqueDrivers(a.driver1, a.driver2) {
		for _, s := range a.stints[driver] {
			row := []any{s.Driver, s.Stint, s.StartLap, s.EndLap, s.Laps, s.AvgLapTime, s.AvgSectorTotal, s.DegradationRateMean, s.OpenedByPitStop}
			if err := writeSheetRow(f, stintsSheet, rowNum, row); err != nil {
				return nil, err
			}
			rowNum++
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	idx, err := f.GetSheetIndex(scoresSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheetRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
