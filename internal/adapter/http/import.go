package httpadapter

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// maxUploadSize caps CSV uploads at 10 MB; files are buffered in memory.
const maxUploadSize = 10 << 20

// readCSVUpload extracts the uploaded CSV from the multipart "file" field.
// It returns a non-nil message on client errors.
func readCSVUpload(r *http.Request) ([]byte, string) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, "No file provided. Please upload a CSV file."
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "No file provided. Please upload a CSV file."
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") && contentType != "text/csv" {
		return nil, "Only CSV files are allowed"
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return nil, "Failed to read uploaded file"
	}
	if len(data) > maxUploadSize {
		return nil, "File too large"
	}
	return data, ""
}

// handleImport ingests an uploaded CSV. The header is validated before any
// row is touched; structural problems return 400. A fully successful run
// returns 200, a partially failed one 207 Multi-Status with the per-row
// errors inside the result.
func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	data, msg := readCSVUpload(r)
	if msg != "" {
		h.writeJSON(w, http.StatusBadRequest, response{Success: false, Message: msg})
		return
	}

	validation := h.importUC.ValidateCSV(bytes.NewReader(data))
	if !validation.Valid {
		h.writeJSON(w, http.StatusBadRequest, response{
			Success: false,
			Message: "Invalid CSV format",
			Errors:  validation.Errors,
		})
		return
	}

	result := h.importUC.ImportCSV(r.Context(), bytes.NewReader(data))

	h.metrics.ImportRows.WithLabelValues("success").Add(float64(result.SuccessfulImports))
	h.metrics.ImportRows.WithLabelValues("error").Add(float64(result.TotalRows - result.SuccessfulImports))

	if result.Success {
		h.metrics.ImportRuns.WithLabelValues("full").Inc()
		h.writeJSON(w, http.StatusOK, response{
			Success: true,
			Message: "File imported successfully",
			Data:    result,
		})
		return
	}
	h.metrics.ImportRuns.WithLabelValues("partial").Inc()
	h.logger.Warn("csv import finished with errors",
		slog.Int("total_rows", result.TotalRows),
		slog.Int("errors", len(result.Errors)))
	h.writeJSON(w, http.StatusMultiStatus, response{
		Success: false,
		Message: "File imported with errors",
		Data:    result,
	})
}

// handleValidate checks the CSV header without importing anything.
func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	data, msg := readCSVUpload(r)
	if msg != "" {
		h.writeJSON(w, http.StatusBadRequest, response{Success: false, Message: msg})
		return
	}

	validation := h.importUC.ValidateCSV(bytes.NewReader(data))
	message := "CSV format is valid"
	if !validation.Valid {
		message = "CSV format is invalid"
	}
	h.writeJSON(w, http.StatusOK, response{
		Success: validation.Valid,
		Message: message,
		Errors:  validation.Errors,
	})
}

// handleTemplate serves a downloadable CSV template with the required
// header and two sample rows.
func (h *Handler) handleTemplate(w http.ResponseWriter, _ *http.Request) {
	template := strings.Join([]string{
		"日期,app,出价类型,国家地区,应用安装.总次数,当日ROI,1日ROI,3日ROI,7日ROI,14日ROI,30日ROI,60日ROI,90日ROI",
		"2024-01-01,TestApp,CPI,US,100,0.5,0.8,1.2,1.5,1.8,2.0,2.2,2.5",
		"2024-01-02,TestApp,CPI,CN,150,0.6,0.9,1.3,1.6,1.9,2.1,2.3,2.6",
	}, "\n")

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="roi_data_template.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(template)))
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, template); err != nil {
		h.logger.Error("write template error", slog.Any("error", err))
	}
}
