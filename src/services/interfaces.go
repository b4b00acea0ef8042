// backend/src/services/interfaces.go
package services

import (
	"errors"
	"io"
	"time"

	"github.com/username/tradeinsight/backend/src/models"
)

// AnalysisReport is the full output of one analysis run over a single upload.
// Reports live only in the in-memory cache until their TTL expires; nothing is
// persisted.
type AnalysisReport struct {
	ReportID    string             `json:"report_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	ClosedLots  []models.ClosedLot `json:"closed_lots"`
	FX          *ClassReport       `json:"fx,omitempty"`
	CFD         *ClassReport       `json:"cfd,omitempty"`
	Swap        models.SwapSummary `json:"swap"`
}

// ClassReport bundles the summaries of one instrument class. For FX, swap
// profit is merged into NetProfit and the daily series; CFDs have no swap
// component, so NetProfit equals the trading profit.
type ClassReport struct {
	Overall     models.SummaryRow   `json:"overall"`
	NetProfit   float64             `json:"net_profit"`
	Monthly     []models.SummaryRow `json:"monthly"`
	Daily       []models.SummaryRow `json:"daily"`
	BySymbol    []models.SummaryRow `json:"by_symbol"` // grouped by symbol and position
	DailySeries []models.DailyPoint `json:"daily_series"`
}

// Define common service errors
var (
	ErrParsingFailed  = errors.New("csv parsing failed")
	ErrReportNotFound = errors.New("report not found")
)

// AnalysisService defines the interface for the core analysis logic.
type AnalysisService interface {
	// Analyze runs the full pipeline over one uploaded export and caches the
	// resulting report under a fresh report ID.
	Analyze(fileReader io.Reader, source string) (*AnalysisReport, error)

	// GetReport returns a cached report, or ErrReportNotFound once expired.
	GetReport(reportID string) (*AnalysisReport, error)

	// SummarizeReport regroups a cached report's closed lots by an ad-hoc
	// tuple of dimensions.
	SummarizeReport(reportID string, dims []models.Dimension) ([]models.SummaryRow, error)
}
