package analysis

import (
	"sort"

	"roi-report/internal/core/domain"
	"roi-report/internal/core/port"
)

// movingAverageWindow is the trailing window length in points: the current
// date plus up to six preceding dates.
const movingAverageWindow = 7

// AveragedRow is one date of a series after the moving-average stage.
// InstallCount becomes fractional once averaged.
type AveragedRow struct {
	PlacementDate string
	InstallCount  float64
	ROI           port.ROIMap
}

// MovingAverage recomputes the install count and every ROI metric of each
// date as the arithmetic mean over that date and up to the six preceding
// dates in chronological order. The window is causal and shrinks at the
// start of the series; no padding is applied. Only valid values inside the
// window contribute to a metric's mean, and a metric with no valid value
// in the window is omitted for that date.
func MovingAverage(rows []port.StatisticsRow) []AveragedRow {
	sorted := make([]port.StatisticsRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PlacementDate < sorted[j].PlacementDate
	})

	out := make([]AveragedRow, 0, len(sorted))
	for i, row := range sorted {
		start := i - (movingAverageWindow - 1)
		if start < 0 {
			start = 0
		}
		window := sorted[start : i+1]

		var installSum float64
		for _, w := range window {
			installSum += float64(w.InstallCount)
		}

		avg := AveragedRow{
			PlacementDate: row.PlacementDate,
			InstallCount:  installSum / float64(len(window)),
			ROI:           make(port.ROIMap),
		}
		for _, d := range domain.ROIOffsets {
			var sum float64
			var n int
			for _, w := range window {
				if v, ok := w.ROI[d]; ok && validValue(v) {
					sum += v.Value
					n++
				}
			}
			if n == 0 {
				continue
			}
			cur, hasCur := row.ROI[d]
			avg.ROI[d] = port.ROIValue{
				Value:      sum / float64(n),
				IsReal0Roi: hasCur && cur.IsReal0Roi,
			}
		}
		out = append(out, avg)
	}
	return out
}
