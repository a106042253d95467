package roicsv

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "日期,app,出价类型,国家地区,应用安装.总次数,当日ROI,1日ROI,3日ROI,7日ROI,14日ROI,30日ROI,60日ROI,90日ROI"

func TestParseBatchBasicRow(t *testing.T) {
	csv := header + "\n2024-01-01(Mon), MyApp ,CPI,US,100,0.5,0.8,,1.5,,,,\n"

	rows, err := ParseBatch(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), row.PlacementDate)
	assert.Equal(t, "MyApp", row.AppName)
	assert.Equal(t, "CPI", row.BidType)
	assert.Equal(t, "US", row.Country)
	assert.Equal(t, 100, row.InstallCount)

	// empty cells are omitted, not zero
	require.Len(t, row.ROIValues, 3)
	assert.Equal(t, 0, row.ROIValues[0].DaysPeriod)
	assert.Equal(t, 0.5, row.ROIValues[0].Value)
	assert.Equal(t, 1, row.ROIValues[1].DaysPeriod)
	assert.Equal(t, 7, row.ROIValues[2].DaysPeriod)
}

func TestParseBatchHeaderWithInvisibleChars(t *testing.T) {
	// BOM, NBSP and zero-width space around column names must be stripped
	dirty := "\uFEFF日期,app,\u200B出价类型\u200B,国家地区\u00A0,应用安装.总次数,当日ROI,1日ROI,3日ROI,7日ROI,14日ROI,30日ROI,60日ROI,90日ROI"
	csv := dirty + "\n2024-01-01,App,CPA,JP,5,1.0,,,,,,,\n"

	rows, err := ParseBatch(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CPA", rows[0].BidType)
	assert.Equal(t, "JP", rows[0].Country)
}

func TestParseBatchInvalidDate(t *testing.T) {
	csv := header + "\nnot-a-date,App,CPI,US,10,,,,,,,,\n"
	_, err := ParseBatch(strings.NewReader(csv))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Contains(t, err.Error(), "row 1")
}

func TestParseBatchInvalidInstallCount(t *testing.T) {
	for _, bad := range []string{"abc", "-5", "1.5", ""} {
		csv := header + "\n2024-01-01,App,CPI,US," + bad + ",,,,,,,,\n"
		_, err := ParseBatch(strings.NewReader(csv))
		require.Error(t, err, "install count %q", bad)
		assert.ErrorIs(t, err, ErrInvalidInstallCount)
	}
}

func TestParseBatchNonNumericROISkipped(t *testing.T) {
	csv := header + "\n2024-01-01,App,CPI,US,10,n/a,0.7,,,,,,\n"
	rows, err := ParseBatch(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows[0].ROIValues, 1)
	assert.Equal(t, 1, rows[0].ROIValues[0].DaysPeriod)
}

func TestParseBatchMissingRequiredColumn(t *testing.T) {
	csv := "日期,app,出价类型,国家地区\n2024-01-01,App,CPI,US\n"
	_, err := ParseBatch(strings.NewReader(csv))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestRealZeroDay0AlwaysReal(t *testing.T) {
	// day-of zeros are real no matter how recent the placement date is
	csv := header + "\n2024-03-10,App,CPI,US,10,0,,,,,,,\n"
	rows, err := ParseBatch(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows[0].ROIValues, 1)
	assert.True(t, rows[0].ROIValues[0].IsReal0Roi)
}

func TestRealZeroElapsedWindow(t *testing.T) {
	// maxDate 2024-03-10, placement 2024-03-01: daysDifference = 9, so a
	// zero at offset 7 is real (9+1 >= 7) and a zero at offset 14 is not.
	csv := header + "\n" +
		"2024-03-01,App,CPI,US,10,,,,0,0,,,\n" +
		"2024-03-10,App,CPI,US,10,1.0,,,,,,,\n"

	rows, err := ParseBatch(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows[0].ROIValues, 2)
	assert.Equal(t, 7, rows[0].ROIValues[0].DaysPeriod)
	assert.True(t, rows[0].ROIValues[0].IsReal0Roi)
	assert.Equal(t, 14, rows[0].ROIValues[1].DaysPeriod)
	assert.False(t, rows[0].ROIValues[1].IsReal0Roi)
}

func TestRealZeroNonZeroValuesNotFlagged(t *testing.T) {
	csv := header + "\n2024-03-01,App,CPI,US,10,2.5,,,,,,,\n2024-03-10,App,CPI,US,10,,,,,,,,\n"
	rows, err := ParseBatch(strings.NewReader(csv))
	require.NoError(t, err)
	assert.False(t, rows[0].ROIValues[0].IsReal0Roi)
}

func TestIsRealZeroNoReferenceDate(t *testing.T) {
	// with no usable reference date every zero defaults to real
	placement := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, isRealZero(0, 30, placement, time.Time{}, false))
	assert.False(t, isRealZero(1.5, 30, placement, time.Time{}, false))
}

func TestValidateHeader(t *testing.T) {
	missing, err := ValidateHeader(strings.NewReader(header + "\n"))
	require.NoError(t, err)
	assert.Empty(t, missing)

	missing, err = ValidateHeader(strings.NewReader("日期,app,出价类型\n"))
	require.NoError(t, err)
	assert.Contains(t, missing, ColCountry)
	assert.Contains(t, missing, ColInstallCount)
	assert.Contains(t, missing, "90日ROI")
}

func TestParseBatchEmptyStream(t *testing.T) {
	rows, err := ParseBatch(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
