package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roi-report/internal/core/domain"
	"roi-report/internal/core/port"
)

type fakeStatsRepo struct {
	joins      []port.CampaignJoin
	options    *port.FilterOptions
	lastFilter port.StatisticsFilter
}

func (f *fakeStatsRepo) Query(_ context.Context, filter port.StatisticsFilter) ([]port.CampaignJoin, error) {
	f.lastFilter = filter
	return f.joins, nil
}

func (f *fakeStatsRepo) FilterOptions(_ context.Context) (*port.FilterOptions, error) {
	return f.options, nil
}

func TestGetStatisticsReshaping(t *testing.T) {
	campaignID := uuid.New()
	repo := &fakeStatsRepo{joins: []port.CampaignJoin{{
		CampaignID:    campaignID,
		PlacementDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		AppName:       "AppA",
		BidType:       "CPI",
		Country:       "US",
		InstallCount:  100,
		ROI: []domain.ROIData{
			{CampaignID: campaignID, DaysPeriod: 0, ROIValue: 0.5},
			{CampaignID: campaignID, DaysPeriod: 7, ROIValue: 0, IsReal0Roi: true},
		},
	}}}
	u := NewStatisticsUseCase(repo)

	filter := port.StatisticsFilter{AppName: "AppA", Country: "US"}
	rows, err := u.GetStatistics(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, filter, repo.lastFilter)
	row := rows[0]
	assert.Equal(t, "2024-03-01", row.PlacementDate)
	assert.Equal(t, "AppA", row.AppName)
	assert.Equal(t, 100, row.InstallCount)
	require.Len(t, row.ROI, 2)
	assert.Equal(t, port.ROIValue{Value: 0.5}, row.ROI[0])
	assert.Equal(t, port.ROIValue{Value: 0, IsReal0Roi: true}, row.ROI[7])

	// the wire shape keys ROI values by day offset
	b, err := json.Marshal(row)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	roi, ok := m["roi"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, roi, "day0")
	assert.Contains(t, roi, "day7")
	assert.NotContains(t, roi, "day14")
}

func TestGetFilterOptions(t *testing.T) {
	repo := &fakeStatsRepo{options: &port.FilterOptions{
		Apps:      []string{"AppA", "AppB"},
		Countries: []string{"JP", "US"},
		BidTypes:  []string{"CPA", "CPI"},
	}}
	u := NewStatisticsUseCase(repo)

	opts, err := u.GetFilterOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AppA", "AppB"}, opts.Apps)
	assert.Equal(t, []string{"JP", "US"}, opts.Countries)
	assert.Equal(t, []string{"CPA", "CPI"}, opts.BidTypes)
}
