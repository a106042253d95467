package port

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"roi-report/internal/core/domain"
)

// ROIValue is one observed ROI percentage together with the real-zero flag
// that distinguishes a measured zero from a not-yet-elapsed window.
type ROIValue struct {
	Value      float64 `json:"value"`
	IsReal0Roi bool    `json:"isReal0Roi"`
}

// ROIMap holds at most one ROI value per day offset. It marshals to the
// wire shape the charting frontend expects: {"day0": {...}, "day7": {...}}.
type ROIMap map[int]ROIValue

// MarshalJSON emits day{offset} keys in offset order.
func (m ROIMap) MarshalJSON() ([]byte, error) {
	out := make(map[string]ROIValue, len(m))
	for _, d := range domain.ROIOffsets {
		if v, ok := m[d]; ok {
			out[fmt.Sprintf("day%d", d)] = v
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the day{offset} wire shape.
func (m *ROIMap) UnmarshalJSON(b []byte) error {
	raw := make(map[string]ROIValue)
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	res := make(ROIMap, len(raw))
	for _, d := range domain.ROIOffsets {
		if v, ok := raw[fmt.Sprintf("day%d", d)]; ok {
			res[d] = v
		}
	}
	*m = res
	return nil
}

// StatisticsRow is one reshaped result row of the statistics query.
type StatisticsRow struct {
	PlacementDate string `json:"placementDate"` // YYYY-MM-DD
	AppName       string `json:"appName"`
	Country       string `json:"country"`
	BidType       string `json:"bidType"`
	InstallCount  int    `json:"installCount"`
	ROI           ROIMap `json:"roi"`
}

// ImportSummary counts the entities created by one import run.
type ImportSummary struct {
	AppsCreated      int `json:"appsCreated"`
	CampaignsCreated int `json:"campaignsCreated"`
	ROIDataCreated   int `json:"roiDataCreated"`
}

// ImportResult aggregates the outcome of one CSV import. Success is true
// only when no row produced an error. Row failures never abort the batch;
// each is recorded in Errors with its row ordinal.
type ImportResult struct {
	Success           bool          `json:"success"`
	TotalRows         int           `json:"totalRows"`
	SuccessfulImports int           `json:"successfulImports"`
	Errors            []string      `json:"errors"`
	Summary           ImportSummary `json:"summary"`
}

// ValidationResult reports whether a CSV header carries all required
// columns.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ImportUseCase drives CSV ingestion.
type ImportUseCase interface {
	// ImportCSV parses the stream and persists apps, campaigns and ROI
	// rows. Structural failures (unreadable CSV, bad rows) are reported
	// inside the result, not as a separate error.
	ImportCSV(ctx context.Context, r io.Reader) *ImportResult
	// ValidateCSV checks the header for the required column set without
	// importing anything.
	ValidateCSV(r io.Reader) *ValidationResult
}

// StatisticsUseCase exposes the filtered statistics query.
type StatisticsUseCase interface {
	GetStatistics(ctx context.Context, filter StatisticsFilter) ([]StatisticsRow, error)
	GetFilterOptions(ctx context.Context) (*FilterOptions, error)
}
