// Package analysis turns statistics query results into chart-ready series.
// It is a pure, synchronous transform: zeros that only reflect a
// not-yet-elapsed observation window are dropped, and the caller can
// opt into a trailing moving average and a short linear-regression
// forecast per metric.
package analysis

import (
	"encoding/json"
	"fmt"
	"sort"

	"roi-report/internal/core/domain"
	"roi-report/internal/core/port"
)

// Mode selects how observed values are prepared before charting.
type Mode string

const (
	ModeRaw     Mode = "raw"
	ModeAverage Mode = "average"
)

// Params controls the two optional pipeline stages.
type Params struct {
	DataMode     Mode
	DoPrediction bool
}

// Point is one charted date. Values holds observed (or averaged) ROI per
// day offset; Predicted holds forecast values, kept separate so charts can
// render the two series distinctly. A missing offset is a gap, never a zero.
type Point struct {
	PlacementDate string
	Values        map[int]float64
	Predicted     map[int]float64
}

// MarshalJSON flattens a point into the shape the chart consumes:
// {"placementDate": ..., "day7": 1.5, "day7Predicted": 1.8}.
func (p Point) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 1+len(p.Values)+len(p.Predicted))
	out["placementDate"] = p.PlacementDate
	for _, d := range domain.ROIOffsets {
		if v, ok := p.Values[d]; ok {
			out[fmt.Sprintf("day%d", d)] = v
		}
		if v, ok := p.Predicted[d]; ok {
			out[fmt.Sprintf("day%dPredicted", d)] = v
		}
	}
	return json.Marshal(out)
}

// validValue reports whether an ROI observation should be charted: zeros
// are kept only when they are genuine measurements.
func validValue(v port.ROIValue) bool {
	return v.Value > 0 || v.IsReal0Roi
}

// Analyze runs the pipeline over query results. Invalid-zero filtering is
// always applied; the moving average and the forecast are each opt-in.
func Analyze(rows []port.StatisticsRow, params Params) []Point {
	var series []AveragedRow
	if params.DataMode == ModeAverage {
		series = MovingAverage(rows)
	} else {
		series = rawSeries(rows)
	}

	points := make([]Point, 0, len(series))
	for _, row := range series {
		pt := Point{PlacementDate: row.PlacementDate, Values: make(map[int]float64)}
		for _, d := range domain.ROIOffsets {
			if v, ok := row.ROI[d]; ok && validValue(v) {
				pt.Values[d] = v.Value
			}
		}
		points = append(points, pt)
	}
	sortPoints(points)

	if params.DoPrediction {
		points = forecast(points)
	}
	return points
}

// ISO dates compare lexicographically in chronological order.
func sortPoints(points []Point) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].PlacementDate < points[j].PlacementDate
	})
}

func rawSeries(rows []port.StatisticsRow) []AveragedRow {
	series := make([]AveragedRow, 0, len(rows))
	for _, row := range rows {
		series = append(series, AveragedRow{
			PlacementDate: row.PlacementDate,
			InstallCount:  float64(row.InstallCount),
			ROI:           row.ROI,
		})
	}
	return series
}
