package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"roi-report/internal/core/domain"
)

// AppRepository is the outbound port for App persistence. Lookup methods
// return (nil, nil) when no row matches.
type AppRepository interface {
	// FindByName resolves an app by exact name match.
	FindByName(ctx context.Context, name string) (*domain.App, error)
	// Create inserts a new app. The name is unique; a concurrent create of
	// the same name surfaces as an error and callers are expected to
	// re-resolve by name.
	Create(ctx context.Context, name string) (*domain.App, error)
}

// CreateCampaignParams carries the fields of one imported campaign row.
type CreateCampaignParams struct {
	PlacementDate time.Time
	BidType       string
	InstallCount  int
	Country       string
	AppID         uuid.UUID
}

// CampaignRepository is the outbound port for Campaign persistence.
// Campaigns are append-only: Create never deduplicates against existing
// rows with the same (app, date, country, bid type).
type CampaignRepository interface {
	Create(ctx context.Context, params CreateCampaignParams) (*domain.Campaign, error)
}

// ROIDataRepository is the outbound port for ROI observations.
type ROIDataRepository interface {
	// BulkInsert stores the given observations. The (campaignID, daysPeriod)
	// pair is unique; a conflict fails the whole call.
	BulkInsert(ctx context.Context, rows []domain.ROIData) (int, error)
}

// StatisticsFilter holds the optional, conjunctive filters of the
// statistics query. Empty strings and nil dates impose no constraint.
type StatisticsFilter struct {
	AppName   string
	BidType   string
	Country   string
	StartDate *time.Time // inclusive
	EndDate   *time.Time // inclusive
}

// CampaignJoin is one campaign joined with its app name and full ROI set,
// as returned by the statistics repository before reshaping.
type CampaignJoin struct {
	CampaignID    uuid.UUID
	PlacementDate time.Time
	AppName       string
	BidType       string
	Country       string
	InstallCount  int
	ROI           []domain.ROIData
}

// FilterOptions lists the distinct values currently present in storage,
// for populating UI selectors.
type FilterOptions struct {
	Apps      []string `json:"apps"`
	Countries []string `json:"countries"`
	BidTypes  []string `json:"bidTypes"`
}

// StatisticsRepository is the outbound port for the filtered statistics
// query and its companion filter-options query.
type StatisticsRepository interface {
	// Query returns campaigns matching the filter, ordered by placement
	// date descending, then app name and country ascending.
	Query(ctx context.Context, filter StatisticsFilter) ([]CampaignJoin, error)
	FilterOptions(ctx context.Context) (*FilterOptions, error)
}
