package analysis

import (
	"time"

	"roi-report/internal/core/domain"
)

const (
	// forecastDays is how many daily points are extended past the last
	// observed date of each metric.
	forecastDays = 6
	// forecastCeiling caps forecast values relative to the largest
	// observed value of the metric.
	forecastCeiling = 1.2
)

// forecast fits a least-squares line per day offset over that offset's
// valid points, indexed 0..n-1 in date order, and extends it six daily
// points beyond the metric's last observed date. Metrics with fewer than
// two valid points are left untouched. Forecast values are clamped to
// [0, 1.2 x max(observed)] and written to Predicted, never to Values.
func forecast(points []Point) []Point {
	byDate := make(map[string]*Point, len(points))
	merged := make([]*Point, 0, len(points))
	for i := range points {
		pt := points[i]
		byDate[pt.PlacementDate] = &pt
		merged = append(merged, &pt)
	}

	for _, d := range domain.ROIOffsets {
		var dates []string
		var values []float64
		for i := range points {
			if v, ok := points[i].Values[d]; ok {
				dates = append(dates, points[i].PlacementDate)
				values = append(values, v)
			}
		}
		if len(values) < 2 {
			continue
		}

		slope, intercept := fitLine(values)

		maxObserved := values[0]
		for _, v := range values[1:] {
			if v > maxObserved {
				maxObserved = v
			}
		}
		ceiling := maxObserved * forecastCeiling

		lastDate, err := time.Parse("2006-01-02", dates[len(dates)-1])
		if err != nil {
			continue
		}
		for i := 1; i <= forecastDays; i++ {
			date := lastDate.AddDate(0, 0, i).Format("2006-01-02")
			predicted := slope*float64(len(values)-1+i) + intercept
			if predicted > ceiling {
				predicted = ceiling
			}
			if predicted < 0 {
				predicted = 0
			}

			pt, ok := byDate[date]
			if !ok {
				pt = &Point{PlacementDate: date, Values: make(map[int]float64)}
				byDate[date] = pt
				merged = append(merged, pt)
			}
			if pt.Predicted == nil {
				pt.Predicted = make(map[int]float64)
			}
			pt.Predicted[d] = predicted
		}
	}

	out := make([]Point, 0, len(merged))
	for _, pt := range merged {
		out = append(out, *pt)
	}
	sortPoints(out)
	return out
}

// fitLine returns the least-squares slope and intercept of value = slope*i
// + intercept over indices 0..len(values)-1.
func fitLine(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	slope = (n*sumXY - sumX*sumY) / (n*sumX2 - sumX*sumX)
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
