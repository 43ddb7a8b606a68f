package lapdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	f1sustain "github.com/lucasjlepore/f1-sustainability"
)

// ParseCSV reads a lap table from CSV. The header must contain every column in
// RequiredColumns; other columns are ignored.
func ParseCSV(r io.Reader, opts ParseOptions) ([]f1sustain.LapRecord, *ParseReport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, f1sustain.ErrEmptyDataset
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, nil, err
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv rows: %w", err)
	}
	table, err := parseRows(idx, rows, 2, opts)
	if err != nil {
		return nil, nil, err
	}
	return finishTable(table)
}

// ParseReport summarizes rows dropped while parsing.
type ParseReport struct {
	Skipped  int
	Warnings []string
}

func finishTable(table *parsedTable) ([]f1sustain.LapRecord, *ParseReport, error) {
	report := &ParseReport{Skipped: table.skipped, Warnings: table.warnings}
	if len(table.rows) == 0 {
		return nil, report, fmt.Errorf("%w (%d rows skipped)", f1sustain.ErrEmptyDataset, table.skipped)
	}
	return table.rows, report, nil
}
