package domain

import (
	"time"

	"github.com/google/uuid"
)

// Campaign represents one imported advertising row for an app. Campaigns are
// append-only: re-importing the same source file creates duplicate rows for
// the same (app, date, country, bid type) tuple on purpose.
type Campaign struct {
	ID            uuid.UUID
	PlacementDate time.Time // date the campaign began running, date precision
	BidType       string
	InstallCount  int
	Country       string
	AppID         uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
