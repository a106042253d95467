package roicsv

import "time"

// isRealZero decides whether a zero-valued ROI observation is a genuine
// measurement or an artifact of the observation window not having elapsed.
//
// The batch's maximum placement date stands in for "today" since the
// export carries no as-of date. A zero at offset d is real when the
// campaign has had at least d full days of elapsed window by that
// reference date: daysDifference+1 >= d. The day-of metric (offset 0) is
// observable immediately and its zeros are always real, as is every zero
// when the batch yields no usable reference date.
//
// Non-zero values are real by definition; the flag is semantically unused
// for them and stays false.
func isRealZero(value float64, daysPeriod int, placementDate, maxDate time.Time, hasMax bool) bool {
	if value != 0 {
		return false
	}
	if daysPeriod == 0 || !hasMax {
		return true
	}
	daysDifference := int(maxDate.Sub(placementDate).Hours() / 24)
	return daysDifference+1 >= daysPeriod
}
