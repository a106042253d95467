// Package roicsv parses the campaign ROI CSV export format: one row per
// placement date / app / country / bid type, with up to eight optional ROI
// percentage columns at fixed day offsets.
package roicsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Required column names, exactly as they appear in the source exports.
// Header cells may carry invisible characters around these names.
const (
	ColDate         = "日期"
	ColApp          = "app"
	ColBidType      = "出价类型"
	ColCountry      = "国家地区"
	ColInstallCount = "应用安装.总次数"
)

// roiColumns maps each ROI column name to its day offset.
var roiColumns = []struct {
	Name string
	Days int
}{
	{"当日ROI", 0},
	{"1日ROI", 1},
	{"3日ROI", 3},
	{"7日ROI", 7},
	{"14日ROI", 14},
	{"30日ROI", 30},
	{"60日ROI", 60},
	{"90日ROI", 90},
}

// RequiredColumns lists every column an import file must carry.
var RequiredColumns = func() []string {
	cols := []string{ColDate, ColApp, ColBidType, ColCountry, ColInstallCount}
	for _, rc := range roiColumns {
		cols = append(cols, rc.Name)
	}
	return cols
}()

var (
	ErrInvalidDate         = errors.New("invalid date format")
	ErrInvalidInstallCount = errors.New("invalid install count")
	ErrMissingColumn       = errors.New("missing required column")
)

const dateLayout = "2006-01-02"

// ROIObservation is one parsed ROI value at a fixed day offset, with the
// real-zero flag already inferred against the batch reference date.
type ROIObservation struct {
	DaysPeriod int
	Value      float64
	IsReal0Roi bool
}

// Row is one parsed CSV record.
type Row struct {
	PlacementDate time.Time
	AppName       string
	BidType       string
	Country       string
	InstallCount  int
	ROIValues     []ROIObservation
}

// CleanColumnName strips whitespace and invisible characters (BOM, NBSP,
// zero-width spaces and joiners, word joiner) from both ends of a header
// cell. Exports from spreadsheet tools routinely smuggle these in.
func CleanColumnName(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		switch r {
		case '\uFEFF', '\u00A0', '\u200B', '\u200C', '\u200D', '\u2060':
			return true
		}
		return r == ' ' || r == '\t' || r == '\r' || r == '\n'
	})
}

// parseDate parses a YYYY-MM-DD cell, tolerating a parenthesized weekday
// suffix such as "2024-01-01(Mon)".
func parseDate(cell string) (time.Time, error) {
	s := cell
	if i := strings.IndexAny(s, "(（"); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, cell)
	}
	return t, nil
}

// headerIndex maps cleaned column names to their positions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[CleanColumnName(h)] = i
	}
	return idx
}

func cell(record []string, idx map[string]int, name string) (string, bool) {
	i, ok := idx[name]
	if !ok || i >= len(record) {
		return "", false
	}
	return record[i], true
}

// ValidateHeader reads the header row and returns the list of required
// columns it lacks. A read failure of the stream itself is returned as err.
func ValidateHeader(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := headerIndex(header)

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing, nil
}

// ParseBatch reads the whole CSV stream and returns one Row per record.
//
// The batch is read in full before any row is parsed so that the maximum
// placement date across the batch can serve as the reference date for
// real-zero inference. A record with an invalid date or install count
// fails the whole batch, with the 1-based data row number in the error.
func ParseBatch(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := headerIndex(header)
	for _, col := range []string{ColDate, ColApp, ColBidType, ColCountry, ColInstallCount} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		records = append(records, record)
	}

	// Batch reference date: the maximum parseable placement date. Records
	// whose date does not parse are skipped here and rejected below.
	var maxDate time.Time
	var hasMax bool
	for _, record := range records {
		c, _ := cell(record, idx, ColDate)
		d, err := parseDate(c)
		if err != nil {
			continue
		}
		if !hasMax || d.After(maxDate) {
			maxDate = d
			hasMax = true
		}
	}

	rows := make([]Row, 0, len(records))
	for i, record := range records {
		row, err := parseRecord(record, idx, maxDate, hasMax)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRecord(record []string, idx map[string]int, maxDate time.Time, hasMax bool) (Row, error) {
	dateCell, _ := cell(record, idx, ColDate)
	placementDate, err := parseDate(dateCell)
	if err != nil {
		return Row{}, err
	}

	installCell, _ := cell(record, idx, ColInstallCount)
	installCount, err := strconv.Atoi(strings.TrimSpace(installCell))
	if err != nil || installCount < 0 {
		return Row{}, fmt.Errorf("%w: %q", ErrInvalidInstallCount, installCell)
	}

	appName, _ := cell(record, idx, ColApp)
	bidType, _ := cell(record, idx, ColBidType)
	country, _ := cell(record, idx, ColCountry)

	row := Row{
		PlacementDate: placementDate,
		AppName:       strings.TrimSpace(appName),
		BidType:       strings.TrimSpace(bidType),
		Country:       strings.TrimSpace(country),
		InstallCount:  installCount,
	}

	for _, rc := range roiColumns {
		c, ok := cell(record, idx, rc.Name)
		if !ok {
			continue
		}
		c = strings.TrimSpace(c)
		if c == "" {
			continue // absent observation, not a zero
		}
		value, err := strconv.ParseFloat(c, 64)
		if err != nil {
			// Non-numeric cells are skipped for this offset rather than
			// rejected; source exports contain stray markers here.
			continue
		}
		row.ROIValues = append(row.ROIValues, ROIObservation{
			DaysPeriod: rc.Days,
			Value:      value,
			IsReal0Roi: isRealZero(value, rc.Days, placementDate, maxDate, hasMax),
		})
	}
	return row, nil
}
