package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"roi-report/internal/core/domain"
)

// ROIDataRepository implements port.ROIDataRepository.
type ROIDataRepository struct {
	pool *pgxpool.Pool
}

// NewROIDataRepository returns a new repository instance.
func NewROIDataRepository(pool *pgxpool.Pool) *ROIDataRepository {
	return &ROIDataRepository{pool: pool}
}

// BulkInsert stores the given observations in a single multi-row INSERT.
// The unique index on (campaign_id, days_period) rejects duplicates; the
// violation propagates to the caller as a row-level import error.
func (r *ROIDataRepository) BulkInsert(ctx context.Context, rows []domain.ROIData) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO roi_data (id, campaign_id, days_period, roi_value, is_real0_roi, created_at, updated_at) VALUES `)
	args := make([]interface{}, 0, len(rows)*5)
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, now(), now())",
			base+1, base+2, base+3, base+4, base+5)
		args = append(args, uuid.New(), row.CampaignID, row.DaysPeriod, row.ROIValue, row.IsReal0Roi)
	}

	tag, err := r.pool.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
