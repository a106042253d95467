package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"roi-report/internal/core/domain"
	"roi-report/internal/core/port"
	"roi-report/internal/roicsv"
)

// ImportUseCase drives CSV ingestion: per row it resolves or creates the
// app, creates a campaign and bulk-inserts the ROI observations. Rows are
// processed in small concurrent groups with a short pause between groups;
// the pause only throttles writes against the storage backend, rows stay
// independent.
type ImportUseCase struct {
	apps      port.AppRepository
	campaigns port.CampaignRepository
	roiData   port.ROIDataRepository
	logger    *slog.Logger

	groupSize  int
	groupPause time.Duration
}

// NewImportUseCase creates the usecase with the default group size and
// inter-group pause.
func NewImportUseCase(apps port.AppRepository, campaigns port.CampaignRepository, roiData port.ROIDataRepository, logger *slog.Logger) *ImportUseCase {
	return &ImportUseCase{
		apps:       apps,
		campaigns:  campaigns,
		roiData:    roiData,
		logger:     logger,
		groupSize:  10,
		groupPause: 50 * time.Millisecond,
	}
}

// rowOutcome carries what one row managed to create. Counts are valid even
// when Err is set: a failed ROI insert does not roll back the app or
// campaign created before it.
type rowOutcome struct {
	AppsCreated      int
	CampaignsCreated int
	ROIDataCreated   int
	Err              error
}

// ImportCSV parses the stream and imports every row. A structural parse
// failure aborts the whole import with a single top-level error inside the
// result; a row failure is recorded with its 1-based ordinal and the batch
// continues.
func (u *ImportUseCase) ImportCSV(ctx context.Context, r io.Reader) *port.ImportResult {
	result := &port.ImportResult{Errors: []string{}}

	rows, err := roicsv.ParseBatch(r)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("CSV parsing error: %v", err))
		return result
	}
	result.TotalRows = len(rows)

	for start := 0; start < len(rows); start += u.groupSize {
		end := start + u.groupSize
		if end > len(rows) {
			end = len(rows)
		}
		group := rows[start:end]

		outcomes := make([]rowOutcome, len(group))
		var wg sync.WaitGroup
		for i := range group {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				outcomes[i] = u.importRow(ctx, group[i])
			}(i)
		}
		wg.Wait()

		for i, out := range outcomes {
			result.Summary.AppsCreated += out.AppsCreated
			result.Summary.CampaignsCreated += out.CampaignsCreated
			result.Summary.ROIDataCreated += out.ROIDataCreated
			if out.Err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d error: %v", start+i+1, out.Err))
				continue
			}
			result.SuccessfulImports++
		}

		if end < len(rows) {
			select {
			case <-time.After(u.groupPause):
			case <-ctx.Done():
				result.Errors = append(result.Errors, fmt.Sprintf("import aborted: %v", ctx.Err()))
				result.Success = false
				return result
			}
		}
	}

	result.Success = len(result.Errors) == 0
	u.logger.Info("csv import finished",
		slog.Int("total_rows", result.TotalRows),
		slog.Int("successful", result.SuccessfulImports),
		slog.Int("errors", len(result.Errors)))
	return result
}

func (u *ImportUseCase) importRow(ctx context.Context, row roicsv.Row) rowOutcome {
	var out rowOutcome

	app, err := u.apps.FindByName(ctx, row.AppName)
	if err != nil {
		out.Err = errors.Wrapf(err, "find app %q", row.AppName)
		return out
	}
	if app == nil {
		created, createErr := u.apps.Create(ctx, row.AppName)
		if createErr != nil {
			// A concurrent row may have created the app first; the
			// unique constraint fires and a re-resolve settles it.
			app, err = u.apps.FindByName(ctx, row.AppName)
			if err != nil || app == nil {
				out.Err = errors.Wrapf(createErr, "create or find app %q", row.AppName)
				return out
			}
		} else {
			app = created
			out.AppsCreated = 1
		}
	}

	campaign, err := u.campaigns.Create(ctx, port.CreateCampaignParams{
		PlacementDate: row.PlacementDate,
		BidType:       row.BidType,
		InstallCount:  row.InstallCount,
		Country:       row.Country,
		AppID:         app.ID,
	})
	if err != nil {
		out.Err = errors.Wrap(err, "create campaign")
		return out
	}
	out.CampaignsCreated = 1

	if len(row.ROIValues) == 0 {
		return out
	}
	entries := make([]domain.ROIData, 0, len(row.ROIValues))
	for _, obs := range row.ROIValues {
		entries = append(entries, domain.ROIData{
			CampaignID: campaign.ID,
			DaysPeriod: obs.DaysPeriod,
			ROIValue:   obs.Value,
			IsReal0Roi: obs.IsReal0Roi,
		})
	}
	n, err := u.roiData.BulkInsert(ctx, entries)
	out.ROIDataCreated = n
	if err != nil {
		out.Err = errors.Wrap(err, "insert roi data")
	}
	return out
}

// ValidateCSV checks the header for the required column set.
func (u *ImportUseCase) ValidateCSV(r io.Reader) *port.ValidationResult {
	missing, err := roicsv.ValidateHeader(r)
	if err != nil {
		return &port.ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("CSV format validation error: %v", err)},
		}
	}
	res := &port.ValidationResult{Valid: len(missing) == 0, Errors: []string{}}
	for _, col := range missing {
		res.Errors = append(res.Errors, fmt.Sprintf("Missing required column: %s", col))
	}
	return res
}
