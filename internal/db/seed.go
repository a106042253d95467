package db

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"roi-report/internal/core/domain"
)

// Seed inserts demo data: a handful of apps, thirty days of campaigns per
// app and ROI rows for each tracked offset. Intended for local development.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	apps := []string{"Puzzle Quest", "Idle Miner", "Word Blast"}
	countries := []string{"US", "JP", "DE", "BR"}
	bidTypes := []string{"CPI", "ROAS"}

	today := time.Now().Truncate(24 * time.Hour)

	for _, name := range apps {
		appID := uuid.New()
		_, err := db.Exec(ctx, `INSERT INTO apps (id, name, created_at, updated_at)
VALUES ($1, $2, now(), now()) ON CONFLICT (name) DO NOTHING`, appID, name)
		if err != nil {
			return fmt.Errorf("seed app %q: %w", name, err)
		}
		// ON CONFLICT may have kept an existing row, reread the id
		if err = db.QueryRow(ctx, `SELECT id FROM apps WHERE name = $1`, name).Scan(&appID); err != nil {
			return fmt.Errorf("seed app %q: %w", name, err)
		}

		for day := 0; day < 30; day++ {
			placement := today.AddDate(0, 0, -day)
			campaignID := uuid.New()
			_, err = db.Exec(ctx, `INSERT INTO campaigns
    (id, placement_date, bid_type, install_count, country, app_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())`,
				campaignID, placement, bidTypes[r.Intn(len(bidTypes))],
				50+r.Intn(500), countries[r.Intn(len(countries))], appID)
			if err != nil {
				return fmt.Errorf("seed campaign: %w", err)
			}

			for _, offset := range domain.ROIOffsets {
				// only offsets whose window has elapsed carry real data
				if offset > day {
					continue
				}
				value := r.Float64() * float64(offset+1) * 0.2
				_, err = db.Exec(ctx, `INSERT INTO roi_data
    (id, campaign_id, days_period, roi_value, is_real0_roi, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (campaign_id, days_period) DO NOTHING`,
					uuid.New(), campaignID, offset, value, value == 0)
				if err != nil {
					return fmt.Errorf("seed roi data: %w", err)
				}
			}
		}
	}
	return nil
}
