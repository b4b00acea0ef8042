// backend/src/handlers/upload_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/username/tradeinsight/backend/src/config"
	"github.com/username/tradeinsight/backend/src/logger"
	"github.com/username/tradeinsight/backend/src/security/validation"
	"github.com/username/tradeinsight/backend/src/services"
	"github.com/username/tradeinsight/backend/src/utils"
)

type UploadHandler struct {
	analysisService services.AnalysisService
}

func NewUploadHandler(service services.AnalysisService) *UploadHandler {
	return &UploadHandler{
		analysisService: service,
	}
}

// HandleUpload accepts one trade-history export, validates it, runs the full
// analysis pipeline, and returns the resulting report.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		ctxLogger.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("failed to process upload or file too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	source := r.FormValue("source")
	if source == "" {
		// Single-broker tool for now; the field stays in the contract so more
		// parsers can register without breaking clients.
		source = "gmoclick"
	}
	ctxLogger.Info("Received upload for source", "source", source)

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		ctxLogger.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		ctxLogger.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("file too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		ctxLogger.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		ctxLogger.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctxLogger.Info("File content validated", "filename", fileHeader.Filename, "clientType", clientContentType, "detectedType", detectedContentType)

	report, err := h.analysisService.Analyze(file, source)
	if err != nil {
		if errors.Is(err, services.ErrParsingFailed) {
			ctxLogger.Warn("Upload rejected: invalid file", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "invalid file: the export could not be parsed", http.StatusBadRequest)
			return
		}
		ctxLogger.Error("Analysis failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, "analysis failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		ctxLogger.Error("Error encoding JSON response for analysis report", "reportID", report.ReportID, "error", err)
	}
}
