// backend/src/handlers/report_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/username/tradeinsight/backend/src/logger"
	"github.com/username/tradeinsight/backend/src/models"
	"github.com/username/tradeinsight/backend/src/services"
	"github.com/username/tradeinsight/backend/src/utils"
)

var validate = validator.New()

// summaryRequest carries the ad-hoc grouping dimensions of a summary call.
type summaryRequest struct {
	Dims []string `validate:"required,min=1,max=5,dive,oneof=symbol position class month date"`
}

type ReportHandler struct {
	analysisService services.AnalysisService
}

func NewReportHandler(service services.AnalysisService) *ReportHandler {
	return &ReportHandler{
		analysisService: service,
	}
}

// HandleGetReport returns a cached analysis report, with ETag support so the
// presentation layer can poll cheaply.
func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	reportID := chi.URLParam(r, "reportID")

	report, err := h.analysisService.GetReport(reportID)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			utils.SendJSONError(w, "report not found or expired", http.StatusNotFound)
			return
		}
		ctxLogger.Error("Error retrieving report", "reportID", reportID, "error", err)
		utils.SendJSONError(w, "error retrieving report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	currentETag, etagErr := utils.GenerateETag(report)
	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, clientETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(clientETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	} else {
		ctxLogger.Warn("Proceeding without ETag check due to ETag generation error", "reportID", reportID, "error", etagErr)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		ctxLogger.Error("Error generating JSON response for report", "reportID", reportID, "error", err)
	}
}

// HandleSummarizeReport regroups a cached report's closed lots by the
// requested dimensions, e.g. ?dims=symbol,position or ?dims=month.
func (h *ReportHandler) HandleSummarizeReport(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	reportID := chi.URLParam(r, "reportID")

	req := summaryRequest{Dims: splitDims(r.URL.Query().Get("dims"))}
	if err := validate.Struct(req); err != nil {
		ctxLogger.Warn("Invalid summary dimensions", "reportID", reportID, "dims", r.URL.Query().Get("dims"), "error", err)
		utils.SendJSONError(w, "invalid 'dims' parameter: expected a comma-separated subset of symbol,position,class,month,date", http.StatusBadRequest)
		return
	}

	dims := make([]models.Dimension, len(req.Dims))
	for i, d := range req.Dims {
		dims[i] = models.Dimension(d)
	}

	rows, err := h.analysisService.SummarizeReport(reportID, dims)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			utils.SendJSONError(w, "report not found or expired", http.StatusNotFound)
			return
		}
		ctxLogger.Error("Error summarizing report", "reportID", reportID, "error", err)
		utils.SendJSONError(w, "error summarizing report", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []models.SummaryRow{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rows); err != nil {
		ctxLogger.Error("Error generating JSON response for summary", "reportID", reportID, "error", err)
	}
}

func splitDims(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	dims := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			dims = append(dims, trimmed)
		}
	}
	return dims
}
