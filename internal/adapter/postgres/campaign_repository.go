package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"roi-report/internal/core/domain"
	"roi-report/internal/core/port"
)

// CampaignRepository implements port.CampaignRepository.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository returns a new repository instance.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

// Create inserts a campaign row. No dedup is performed against existing
// rows with the same (app, date, country, bid type): imports are
// append-only and re-importing a file duplicates its campaigns.
func (r *CampaignRepository) Create(ctx context.Context, params port.CreateCampaignParams) (*domain.Campaign, error) {
	c := domain.Campaign{
		ID:            uuid.New(),
		PlacementDate: params.PlacementDate,
		BidType:       params.BidType,
		InstallCount:  params.InstallCount,
		Country:       params.Country,
		AppID:         params.AppID,
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO campaigns (id, placement_date, bid_type, install_count, country, app_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		 RETURNING created_at, updated_at`,
		c.ID, c.PlacementDate, c.BidType, c.InstallCount, c.Country, c.AppID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
