package lapdata

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	f1sustain "github.com/lucasjlepore/f1-sustainability"
)

const sampleCSV = `Time,Driver,DriverNumber,LapTime,LapNumber,Stint,Sector1Time,Sector2Time,Sector3Time,Compound,TyreLife
0,VER,1,92.5,1.0,1.0,30.1,40.2,22.2,SOFT,1.0
0,VER,1,93.0,2.0,1.0,30.3,40.4,22.3,SOFT,2.0
0,HAM,44,0 days 00:01:33.250000,1.0,1.0,0 days 00:00:30.500000,0 days 00:00:40.500000,0 days 00:00:22.250000,MEDIUM,3.0
`

func TestParseCSV(t *testing.T) {
	rows, report, err := ParseCSV(strings.NewReader(sampleCSV), ParseOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 0, report.Skipped)

	assert.Equal(t, f1sustain.LapRecord{
		Driver: "VER", LapNumber: 1, LapTime: 92.5,
		Sector1Time: ptr(30.1), Sector2Time: ptr(40.2), Sector3Time: ptr(22.2), TyreLife: ptr(1),
	}, rows[0])
	assert.Equal(t, "HAM", rows[2].Driver)
	assert.InDelta(t, 93.25, rows[2].LapTime, 1e-9)
	require.NotNil(t, rows[2].Sector1Time)
	assert.InDelta(t, 30.5, *rows[2].Sector1Time, 1e-9)
}

func ptr(v float64) *float64 { return &v }

func TestParseCSVKeepsLapsWithMissingSectors(t *testing.T) {
	in := strings.Join(RequiredColumns, ",") + "\n" +
		"VER,1,95.0,,40,22,1\n" +
		"VER,2,92.0,30,40,22,2\n" +
		"VER,3,93.0,30,40,22,\n"

	rows, report, err := ParseCSV(strings.NewReader(in), ParseOptions{Strict: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 0, report.Skipped)
	assert.Nil(t, rows[0].Sector1Time)
	assert.Nil(t, rows[2].TyreLife)

	race, err := Prepare(&Dataset{Name: "race", Rows: rows, RowCount: len(rows)})
	require.NoError(t, err)
	assert.Nil(t, race.Laps[0].SectorTotal)
	require.NotNil(t, race.Laps[1].LapTimeDelta)
	assert.InDelta(t, -3.0, *race.Laps[1].LapTimeDelta, 1e-9)
	require.NotNil(t, race.Laps[1].DegradationRate)
	assert.InDelta(t, -1.5, *race.Laps[1].DegradationRate, 1e-9)
	assert.Nil(t, race.Laps[2].DegradationRate)

	score, err := f1sustain.Score(race.Laps, "VER")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, score.AvgStintLength, 1e-9)
	assert.InDelta(t, -1.5, score.DegradationRateMean, 1e-9)
}

func TestParseCSVMissingColumn(t *testing.T) {
	in := "Driver,LapNumber,LapTime,Sector1Time,Sector2Time\nVER,1,90,30,30\n"
	_, _, err := ParseCSV(strings.NewReader(in), ParseOptions{})
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "Sector3Time")
	assert.Contains(t, err.Error(), "TyreLife")
}

func TestParseCSVEmpty(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader(""), ParseOptions{})
	require.ErrorIs(t, err, f1sustain.ErrEmptyDataset)

	header := strings.Join(RequiredColumns, ",") + "\n"
	_, _, err = ParseCSV(strings.NewReader(header), ParseOptions{})
	require.ErrorIs(t, err, f1sustain.ErrEmptyDataset)
}

func TestParseCSVSkipsIncompleteRows(t *testing.T) {
	in := strings.Join(RequiredColumns, ",") + "\n" +
		"VER,1,,30,40,22,1\n" +
		"VER,2,93,30,40,22,2\n" +
		"VER,3,-1,30,40,22,3\n"

	rows, report, err := ParseCSV(strings.NewReader(in), ParseOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].LapNumber)
	assert.Equal(t, 2, report.Skipped)
	require.Len(t, report.Warnings, 2)
	assert.Contains(t, report.Warnings[0], "line 2")
	assert.Contains(t, report.Warnings[1], "LapTime failed gt=0")

	_, _, err = ParseCSV(strings.NewReader(in), ParseOptions{Strict: true})
	require.ErrorIs(t, err, ErrInvalidRow)
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"92.123", 92.123},
		{"0 days 00:01:32.123000", 92.123},
		{"1 day 00:00:01", 86401},
		{"00:01:32.5", 92.5},
		{"1:32.5", 92.5},
	}
	for _, tc := range tests {
		got, err := parseSeconds(tc.in)
		require.NoError(t, err, tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, tc.in)
	}

	for _, bad := range []string{"", "NaN", "NaT", "inf", "abc", "1:2:3:4", "0:inf", "NaN:01", "1e308:1e308:0"} {
		_, err := parseSeconds(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{
		"Driver", "LapNumber", "LapTime", "Sector1Time", "Sector2Time", "Sector3Time", "TyreLife",
	}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"LEC", 1, 91.5, 30.5, 40.5, 20.5, 4}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"LEC", 2, 92.5, 30.5, 41.5, 20.5, 5}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, _, err := ParseXLSX(bytes.NewReader(buf.Bytes()), ParseOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "LEC", rows[1].Driver)
	assert.Equal(t, 2, rows[1].LapNumber)
	assert.InDelta(t, 92.5, rows[1].LapTime, 1e-9)
	require.NotNil(t, rows[1].TyreLife)
	assert.InDelta(t, 5, *rows[1].TyreLife, 1e-9)
}

func TestLoadBytes(t *testing.T) {
	ds, err := LoadBytes("Monaco_Grand_Prix.csv", []byte(sampleCSV), ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Monaco Grand Prix", ds.Name)
	assert.Equal(t, 3, ds.RowCount)
	assert.Len(t, ds.SHA256, 64)

	_, err = LoadBytes("laps.json", []byte("{}"), ParseOptions{})
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestPrepare(t *testing.T) {
	ds, err := LoadBytes("race.csv", []byte(sampleCSV), ParseOptions{})
	require.NoError(t, err)
	race, err := Prepare(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"HAM", "VER"}, race.Drivers)
	require.Len(t, race.Laps, 3)
	require.NotNil(t, race.Laps[1].LapTimeDelta)
	assert.InDelta(t, 0.5, *race.Laps[1].LapTimeDelta, 1e-9)
}
