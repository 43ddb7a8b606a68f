package lapdata

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	f1sustain "github.com/lucasjlepore/f1-sustainability"
)

// maxWarnings caps per-row warnings kept on a Dataset; the skip count stays exact.
const maxWarnings = 20

var (
	errMissingValue = errors.New("missing value")

	validate = validator.New()
)

// parsedTable is the outcome of turning a header plus string rows into laps.
type parsedTable struct {
	rows     []f1sustain.LapRecord
	skipped  int
	warnings []string
}

// columnIndex maps each required column to its position in header.
func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	missing := make([]string, 0, len(RequiredColumns))
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

// parseRows converts data rows (header excluded). Rows without a usable
// Driver, LapNumber or LapTime are skipped, or fail in strict mode. Missing
// sector times and tyre life are kept as nil. firstLine is the 1-based
// line/row number of rows[0] in the source, used in messages.
func parseRows(idx map[string]int, rows [][]string, firstLine int, opts ParseOptions) (*parsedTable, error) {
	out := &parsedTable{rows: make([]f1sustain.LapRecord, 0, len(rows))}
	for i, row := range rows {
		line := firstLine + i
		if isBlankRow(row) {
			continue
		}
		rec, err := parseRecord(idx, row)
		if err == nil {
			err = validateRecord(rec)
		}
		if err != nil {
			if opts.Strict {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidRow, line, err)
			}
			out.skipped++
			if len(out.warnings) < maxWarnings {
				out.warnings = append(out.warnings, fmt.Sprintf("line %d skipped: %v", line, err))
			}
			continue
		}
		out.rows = append(out.rows, rec)
	}
	if out.skipped > maxWarnings {
		out.warnings = append(out.warnings, fmt.Sprintf("%d further rows skipped", out.skipped-maxWarnings))
	}
	return out, nil
}

func parseRecord(idx map[string]int, row []string) (f1sustain.LapRecord, error) {
	cell := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rec f1sustain.LapRecord
	var err error
	rec.Driver = cell(ColDriver)
	if rec.LapNumber, err = parseLapNumber(cell(ColLapNumber)); err != nil {
		return rec, fmt.Errorf("%s: %w", ColLapNumber, err)
	}
	if rec.LapTime, err = parseSeconds(cell(ColLapTime)); err != nil {
		return rec, fmt.Errorf("%s: %w", ColLapTime, err)
	}
	optional := []struct {
		col string
		dst **float64
	}{
		{ColSector1Time, &rec.Sector1Time},
		{ColSector2Time, &rec.Sector2Time},
		{ColSector3Time, &rec.Sector3Time},
		{ColTyreLife, &rec.TyreLife},
	}
	for _, o := range optional {
		v, err := parseSeconds(cell(o.col))
		if errors.Is(err, errMissingValue) {
			continue
		}
		if err != nil {
			return rec, fmt.Errorf("%s: %w", o.col, err)
		}
		*o.dst = &v
	}
	return rec, nil
}

func validateRecord(rec f1sustain.LapRecord) error {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(parts, "; "))
}

// parseLapNumber accepts integers and integral floats such as "12.0".
func parseLapNumber(s string) (int, error) {
	if isMissing(s) {
		return 0, errMissingValue
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("not a lap number: %q", s)
	}
	return int(f), nil
}

// parseSeconds accepts plain seconds ("92.123") and timedelta strings
// ("0 days 00:01:32.123000", "00:01:32.123", "1:32.123").
func parseSeconds(s string) (float64, error) {
	if isMissing(s) {
		return 0, errMissingValue
	}
	if !strings.Contains(s, ":") && !strings.Contains(s, "day") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		if math.IsNaN(v) {
			return 0, errMissingValue
		}
		if math.IsInf(v, 0) {
			return 0, fmt.Errorf("not a finite number: %q", s)
		}
		return v, nil
	}

	total := 0.0
	if i := strings.Index(s, "day"); i >= 0 {
		days, err := strconv.Atoi(strings.TrimSpace(s[:i]))
		if err != nil {
			return 0, fmt.Errorf("bad timedelta %q", s)
		}
		total += float64(days) * 86400
		s = strings.TrimSpace(strings.TrimLeft(s[i+len("day"):], "s"))
	}
	if s == "" {
		return total, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("bad timedelta %q", s)
	}
	mult := 1.0
	for i := len(parts) - 1; i >= 0; i-- {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("bad timedelta %q", s)
		}
		total += v * mult
		mult *= 60
	}
	if math.IsInf(total, 0) {
		return 0, fmt.Errorf("bad timedelta %q", s)
	}
	return total, nil
}

func isMissing(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "nat", "null", "none", "<na>":
		return true
	}
	return false
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
