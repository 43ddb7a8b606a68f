package lapdata

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	f1sustain "github.com/lucasjlepore/f1-sustainability"
)

// ParseXLSX reads a lap table from an Excel workbook. The first row of the
// selected sheet is the header.
func ParseXLSX(r io.Reader, opts ParseOptions) ([]f1sustain.LapRecord, *ParseReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, f1sustain.ErrEmptyDataset
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, f1sustain.ErrEmptyDataset
	}
	idx, err := columnIndex(rows[0])
	if err != nil {
		return nil, nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	table, err := parseRows(idx, rows[1:], 2, opts)
	if err != nil {
		return nil, nil, err
	}
	return finishTable(table)
}
