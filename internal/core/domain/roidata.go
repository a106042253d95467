package domain

import (
	"time"

	"github.com/google/uuid"
)

// ROIOffsets enumerates the fixed set of day offsets at which a return on
// investment percentage is measured, counted from the placement date.
var ROIOffsets = [8]int{0, 1, 3, 7, 14, 30, 60, 90}

// ROIData is one ROI observation for a campaign at a fixed day offset.
// A campaign has at most one row per offset.
//
// IsReal0Roi disambiguates a measured zero from a zero caused by the
// observation window not having elapsed yet. It is only meaningful when
// ROIValue is exactly zero; non-zero observations always carry false.
type ROIData struct {
	ID         uuid.UUID
	CampaignID uuid.UUID
	DaysPeriod int
	ROIValue   float64
	IsReal0Roi bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
