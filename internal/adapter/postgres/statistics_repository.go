package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roi-report/internal/core/domain"
	"roi-report/internal/core/port"
)

// StatisticsRepository implements port.StatisticsRepository with a single
// three-way join, grouping ROI rows under their campaign in memory.
type StatisticsRepository struct {
	pool *pgxpool.Pool
}

// NewStatisticsRepository returns a new repository instance.
func NewStatisticsRepository(pool *pgxpool.Pool) *StatisticsRepository {
	return &StatisticsRepository{pool: pool}
}

// Query returns campaigns matching the filter joined with their app name
// and full ROI set. Filters are conjunctive; zero values impose no
// constraint. Ordering is placement date descending, then app name and
// country ascending; campaign id breaks ties so grouping sees the rows of
// one campaign contiguously.
func (r *StatisticsRepository) Query(ctx context.Context, filter port.StatisticsFilter) ([]port.CampaignJoin, error) {
	query := `
        SELECT
            c.id,
            c.placement_date,
            a.name,
            c.bid_type,
            c.country,
            c.install_count,
            rd.days_period,
            rd.roi_value,
            rd.is_real0_roi
        FROM campaigns c
        JOIN apps a ON a.id = c.app_id
        LEFT JOIN roi_data rd ON rd.campaign_id = c.id
        WHERE 1=1`
	var args []interface{}
	if filter.AppName != "" {
		args = append(args, filter.AppName)
		query += fmt.Sprintf(" AND a.name = $%d", len(args))
	}
	if filter.BidType != "" {
		args = append(args, filter.BidType)
		query += fmt.Sprintf(" AND c.bid_type = $%d", len(args))
	}
	if filter.Country != "" {
		args = append(args, filter.Country)
		query += fmt.Sprintf(" AND c.country = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND c.placement_date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND c.placement_date <= $%d", len(args))
	}
	query += " ORDER BY c.placement_date DESC, a.name ASC, c.country ASC, c.id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []port.CampaignJoin
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			join       port.CampaignJoin
			daysPeriod *int
			roiValue   *float64
			isReal0    *bool
		)
		if err = rows.Scan(
			&join.CampaignID,
			&join.PlacementDate,
			&join.AppName,
			&join.BidType,
			&join.Country,
			&join.InstallCount,
			&daysPeriod,
			&roiValue,
			&isReal0,
		); err != nil {
			return nil, err
		}
		i, ok := index[join.CampaignID]
		if !ok {
			i = len(result)
			index[join.CampaignID] = i
			result = append(result, join)
		}
		if daysPeriod != nil {
			result[i].ROI = append(result[i].ROI, domain.ROIData{
				CampaignID: join.CampaignID,
				DaysPeriod: *daysPeriod,
				ROIValue:   *roiValue,
				IsReal0Roi: isReal0 != nil && *isReal0,
			})
		}
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// FilterOptions returns the distinct app names, countries and bid types
// present in storage, each sorted ascending. Apps without campaigns are
// not offered as filters.
func (r *StatisticsRepository) FilterOptions(ctx context.Context) (*port.FilterOptions, error) {
	opts := &port.FilterOptions{}

	queries := []struct {
		sql  string
		dest *[]string
	}{
		{`SELECT DISTINCT a.name FROM apps a JOIN campaigns c ON c.app_id = a.id ORDER BY a.name ASC`, &opts.Apps},
		{`SELECT DISTINCT country FROM campaigns ORDER BY country ASC`, &opts.Countries},
		{`SELECT DISTINCT bid_type FROM campaigns ORDER BY bid_type ASC`, &opts.BidTypes},
	}
	for _, q := range queries {
		rows, err := r.pool.Query(ctx, q.sql)
		if err != nil {
			return nil, err
		}
		values, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return nil, err
		}
		*q.dest = values
	}
	return opts, nil
}
