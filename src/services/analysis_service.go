// backend/src/services/analysis_service.go
package services

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/tradeinsight/backend/src/logger"
	"github.com/username/tradeinsight/backend/src/models"
	"github.com/username/tradeinsight/backend/src/parsers"
	"github.com/username/tradeinsight/backend/src/processors"
)

const (
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type analysisServiceImpl struct {
	matcher        processors.PositionMatcher
	aggregator     processors.Aggregator
	swapAggregator processors.SwapAggregator
	reportCache    *cache.Cache
	reportTTL      time.Duration
}

func NewAnalysisService(
	matcher processors.PositionMatcher,
	aggregator processors.Aggregator,
	swapAggregator processors.SwapAggregator,
	reportCache *cache.Cache,
	reportTTL time.Duration,
) AnalysisService {
	return &analysisServiceImpl{
		matcher:        matcher,
		aggregator:     aggregator,
		swapAggregator: swapAggregator,
		reportCache:    reportCache,
		reportTTL:      reportTTL,
	}
}

func (s *analysisServiceImpl) Analyze(fileReader io.Reader, source string) (*AnalysisReport, error) {
	overallStartTime := time.Now()

	parser, err := parsers.GetParser(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	executions, err := parser.Parse(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	// All matcher state is local to one Match call, so every upload gets a
	// fresh matching pass with nothing shared across requests.
	closedLots := s.matcher.Match(executions)
	swap := s.swapAggregator.Summarize(executions)

	report := &AnalysisReport{
		ReportID:    uuid.New().String(),
		GeneratedAt: time.Now(),
		ClosedLots:  closedLots,
		Swap:        swap,
	}

	var fxLots, cfdLots []models.ClosedLot
	for _, lot := range closedLots {
		if lot.Class == models.ClassFX {
			fxLots = append(fxLots, lot)
		} else {
			cfdLots = append(cfdLots, lot)
		}
	}
	if len(fxLots) > 0 {
		report.FX = s.buildClassReport(fxLots, &swap)
	}
	if len(cfdLots) > 0 {
		report.CFD = s.buildClassReport(cfdLots, nil)
	}

	s.reportCache.Set(report.ReportID, report, s.reportTTL)
	logger.L.Info("Analysis complete",
		"reportID", report.ReportID,
		"source", source,
		"executions", len(executions),
		"closedLots", len(closedLots),
		"duration", time.Since(overallStartTime),
	)
	return report, nil
}

// buildClassReport computes the standard groupings for one instrument class.
// A non-nil swap merges swap profit into the net total and the daily series,
// mirroring how the broker reports FX accounts.
func (s *analysisServiceImpl) buildClassReport(lots []models.ClosedLot, swap *models.SwapSummary) *ClassReport {
	report := &ClassReport{
		Overall:  s.aggregator.Summarize(lots, []models.Dimension{models.DimClass})[0],
		Monthly:  s.aggregator.Summarize(lots, []models.Dimension{models.DimMonth}),
		Daily:    s.aggregator.Summarize(lots, []models.Dimension{models.DimDate}),
		BySymbol: s.aggregator.Summarize(lots, []models.Dimension{models.DimSymbol, models.DimPosition}),
	}
	report.NetProfit = report.Overall.TotalProfit

	var swapByDate []models.PeriodProfit
	if swap != nil {
		report.NetProfit += swap.Total
		swapByDate = swap.ByDate
	}
	report.DailySeries = buildDailySeries(report.Daily, swapByDate)
	return report
}

// buildDailySeries outer-joins daily trading profit with daily swap profit
// and accumulates a running total in date order, the shape the cumulative
// profit chart consumes.
func buildDailySeries(daily []models.SummaryRow, swapByDate []models.PeriodProfit) []models.DailyPoint {
	tradeByDate := make(map[string]float64, len(daily))
	for _, row := range daily {
		tradeByDate[row.Group[models.DimDate]] = row.TotalProfit
	}
	swapProfit := make(map[string]float64, len(swapByDate))
	for _, period := range swapByDate {
		swapProfit[period.Key] = period.Profit
	}

	seen := make(map[string]bool)
	var dates []string
	for date := range tradeByDate {
		if !seen[date] {
			seen[date] = true
			dates = append(dates, date)
		}
	}
	for date := range swapProfit {
		if !seen[date] {
			seen[date] = true
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	var cumulative float64
	points := make([]models.DailyPoint, 0, len(dates))
	for _, date := range dates {
		point := models.DailyPoint{
			Date:        date,
			TradeProfit: tradeByDate[date],
			SwapProfit:  swapProfit[date],
		}
		point.NetProfit = point.TradeProfit + point.SwapProfit
		cumulative += point.NetProfit
		point.Cumulative = cumulative
		points = append(points, point)
	}
	return points
}

func (s *analysisServiceImpl) GetReport(reportID string) (*AnalysisReport, error) {
	if cached, found := s.reportCache.Get(reportID); found {
		return cached.(*AnalysisReport), nil
	}
	return nil, ErrReportNotFound
}

func (s *analysisServiceImpl) SummarizeReport(reportID string, dims []models.Dimension) ([]models.SummaryRow, error) {
	report, err := s.GetReport(reportID)
	if err != nil {
		return nil, err
	}
	return s.aggregator.Summarize(report.ClosedLots, dims), nil
}
