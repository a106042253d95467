package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roi-report/internal/core/port"
	"roi-report/internal/metrics"
)

// promauto registers on the global registry, so the test metrics instance
// is shared across all tests in the package.
var testMetrics = metrics.New("roi_report_test")

type fakeImportUC struct {
	result     *port.ImportResult
	validation *port.ValidationResult
}

func (f *fakeImportUC) ImportCSV(_ context.Context, _ io.Reader) *port.ImportResult {
	return f.result
}

func (f *fakeImportUC) ValidateCSV(_ io.Reader) *port.ValidationResult {
	return f.validation
}

type fakeStatsUC struct {
	rows []port.StatisticsRow
	opts *port.FilterOptions
}

func (f *fakeStatsUC) GetStatistics(_ context.Context, _ port.StatisticsFilter) ([]port.StatisticsRow, error) {
	return f.rows, nil
}

func (f *fakeStatsUC) GetFilterOptions(_ context.Context) (*port.FilterOptions, error) {
	return f.opts, nil
}

func newTestHandler(importUC port.ImportUseCase, statsUC port.StatisticsUseCase) *Handler {
	return NewHandler(importUC, statsUC, testMetrics, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func multipartCSV(t *testing.T, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "data.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestImportEndpointFullSuccess(t *testing.T) {
	importUC := &fakeImportUC{
		validation: &port.ValidationResult{Valid: true},
		result: &port.ImportResult{
			Success: true, TotalRows: 2, SuccessfulImports: 2, Errors: []string{},
			Summary: port.ImportSummary{AppsCreated: 1, CampaignsCreated: 2, ROIDataCreated: 4},
		},
	}
	h := newTestHandler(importUC, &fakeStatsUC{})

	body, contentType := multipartCSV(t, "whatever")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/roifiles/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool              `json:"success"`
		Data    port.ImportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Data.SuccessfulImports)
}

func TestImportEndpointPartialFailureIsMultiStatus(t *testing.T) {
	importUC := &fakeImportUC{
		validation: &port.ValidationResult{Valid: true},
		result: &port.ImportResult{
			Success: false, TotalRows: 3, SuccessfulImports: 2,
			Errors: []string{"Row 2 error: insert roi data: duplicate key"},
		},
	}
	h := newTestHandler(importUC, &fakeStatsUC{})

	body, contentType := multipartCSV(t, "whatever")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/roifiles/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMultiStatus, rec.Code)
}

func TestImportEndpointInvalidHeader(t *testing.T) {
	importUC := &fakeImportUC{
		validation: &port.ValidationResult{Valid: false, Errors: []string{"Missing required column: 日期"}},
	}
	h := newTestHandler(importUC, &fakeStatsUC{})

	body, contentType := multipartCSV(t, "a,b\n1,2\n")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/roifiles/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid CSV format")
}

func TestImportEndpointMissingFile(t *testing.T) {
	h := newTestHandler(&fakeImportUC{}, &fakeStatsUC{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/roifiles/import", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatisticsEndpoint(t *testing.T) {
	statsUC := &fakeStatsUC{rows: []port.StatisticsRow{{
		PlacementDate: "2024-03-01",
		AppName:       "AppA",
		Country:       "US",
		BidType:       "CPI",
		InstallCount:  100,
		ROI:           port.ROIMap{0: {Value: 0.5}},
	}}}
	h := newTestHandler(&fakeImportUC{}, statsUC)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/statistics?appName=AppA", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Data []port.StatisticsRow `json:"data"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data.Data, 1)
	assert.Equal(t, "AppA", resp.Data.Data[0].AppName)
	assert.Equal(t, 0.5, resp.Data.Data[0].ROI[0].Value)
}

func TestStatisticsEndpointInvalidDate(t *testing.T) {
	h := newTestHandler(&fakeImportUC{}, &fakeStatsUC{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/statistics?startDate=03-01-2024", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilterOptionsEndpoint(t *testing.T) {
	statsUC := &fakeStatsUC{opts: &port.FilterOptions{
		Apps:      []string{"AppA"},
		Countries: []string{"US"},
		BidTypes:  []string{"CPI"},
	}}
	h := newTestHandler(&fakeImportUC{}, statsUC)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/statistics/filters", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"apps":["AppA"]`)
}

func TestTemplateEndpoint(t *testing.T) {
	h := newTestHandler(&fakeImportUC{}, &fakeStatsUC{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/roifiles/template", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "应用安装.总次数")
}
