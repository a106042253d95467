package usecase

import (
	"context"

	"roi-report/internal/core/port"
)

// StatisticsUseCase reshapes the joined campaign rows into the flat
// per-offset result structure the charting frontend consumes.
type StatisticsUseCase struct {
	repo port.StatisticsRepository
}

// NewStatisticsUseCase creates a new usecase with the provided repository.
func NewStatisticsUseCase(repo port.StatisticsRepository) *StatisticsUseCase {
	return &StatisticsUseCase{repo: repo}
}

// GetStatistics returns matching campaigns with ROI values keyed by day
// offset. Each output row carries at most one value per offset, guaranteed
// by the (campaign, days_period) uniqueness invariant.
func (u *StatisticsUseCase) GetStatistics(ctx context.Context, filter port.StatisticsFilter) ([]port.StatisticsRow, error) {
	joins, err := u.repo.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]port.StatisticsRow, 0, len(joins))
	for _, j := range joins {
		roi := make(port.ROIMap, len(j.ROI))
		for _, rd := range j.ROI {
			roi[rd.DaysPeriod] = port.ROIValue{Value: rd.ROIValue, IsReal0Roi: rd.IsReal0Roi}
		}
		rows = append(rows, port.StatisticsRow{
			PlacementDate: j.PlacementDate.Format("2006-01-02"),
			AppName:       j.AppName,
			Country:       j.Country,
			BidType:       j.BidType,
			InstallCount:  j.InstallCount,
			ROI:           roi,
		})
	}
	return rows, nil
}

// GetFilterOptions returns the distinct apps, countries and bid types for
// populating UI selectors.
func (u *StatisticsUseCase) GetFilterOptions(ctx context.Context) (*port.FilterOptions, error) {
	return u.repo.FilterOptions(ctx)
}
