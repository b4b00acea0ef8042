package services

import (
	"bytes"
	"encoding/csv"
	"io"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/username/tradeinsight/backend/src/logger"
	"github.com/username/tradeinsight/backend/src/models"
	"github.com/username/tradeinsight/backend/src/processors"
)

func init() {
	logger.InitLogger("error")
}

func newTestService() AnalysisService {
	return NewAnalysisService(
		processors.NewPositionMatcher(),
		processors.NewAggregator(),
		processors.NewSwapAggregator(),
		cache.New(DefaultCacheExpiration, CacheCleanupInterval),
		15*time.Minute,
	)
}

const exportColumns = 49

func exportRow(executedAt, kind, symbol, side, qty, price, openPrice, profit string) []string {
	row := make([]string, exportColumns)
	row[0] = executedAt // 約定日時
	row[1] = kind       // 取引区分
	row[4] = symbol     // 銘柄名
	row[11] = side      // 売買区分
	row[17] = qty       // 約定数量
	row[18] = price     // 約定単価
	row[22] = openPrice // 建単価
	row[48] = profit    // 実現損益（円貨）
	return row
}

func exportFile(t *testing.T, rows [][]string) io.Reader {
	t.Helper()
	header := make([]string, exportColumns)
	for i := range header {
		header[i] = "col"
	}
	all := append([][]string{header}, rows...)

	var utf8Buf bytes.Buffer
	w := csv.NewWriter(&utf8Buf)
	require.NoError(t, w.WriteAll(all))

	var sjisBuf bytes.Buffer
	enc := transform.NewWriter(&sjisBuf, japanese.ShiftJIS.NewEncoder())
	_, err := enc.Write(utf8Buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	return bytes.NewReader(sjisBuf.Bytes())
}

func TestAnalyzeEndToEnd(t *testing.T) {
	service := newTestService()

	report, err := service.Analyze(exportFile(t, [][]string{
		exportRow("2024/01/15 10:00:00", "FXネオ新規", "USDJPY", "買", "10000", "110.00", "", ""),
		exportRow("2024/01/15 12:00:00", "FXネオ決済", "USDJPY", "売", "10000", "111.00", "110.00", "10000"),
		exportRow("2024/01/16 05:00:00", "スワップ", "USDJPY", "", "", "", "", "120"),
		exportRow("2024/01/16 10:00:00", "CFD新規", "日本225", "買", "10", "36000", "", ""),
		exportRow("2024/01/16 14:00:00", "CFD決済", "日本225", "売", "10", "36100", "36000", "1000"),
	}), "gmoclick")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.NotEmpty(t, report.ReportID)
	require.Len(t, report.ClosedLots, 2)

	require.NotNil(t, report.FX)
	assert.InDelta(t, 10000.0, report.FX.Overall.TotalProfit, 1e-6)
	// Swap profit merges into the FX net total only.
	assert.InDelta(t, 10120.0, report.FX.NetProfit, 1e-6)
	assert.InDelta(t, 120.0, report.Swap.Total, 1e-9)

	require.NotNil(t, report.CFD)
	assert.InDelta(t, 1000.0, report.CFD.Overall.TotalProfit, 1e-6)
	assert.InDelta(t, 1000.0, report.CFD.NetProfit, 1e-6)

	require.Len(t, report.FX.BySymbol, 1)
	assert.Equal(t, "USDJPY", report.FX.BySymbol[0].Group[models.DimSymbol])
	assert.Equal(t, "LONG", report.FX.BySymbol[0].Group[models.DimPosition])
}

func TestAnalyzeDailySeriesAccumulates(t *testing.T) {
	service := newTestService()

	report, err := service.Analyze(exportFile(t, [][]string{
		exportRow("2024/01/15 09:00:00", "FXネオ新規", "USDJPY", "買", "10000", "150.00", "", ""),
		exportRow("2024/01/15 11:00:00", "FXネオ決済", "USDJPY", "売", "10000", "150.50", "150.00", "5000"),
		exportRow("2024/01/16 09:00:00", "FXネオ新規", "USDJPY", "買", "10000", "151.00", "", ""),
		exportRow("2024/01/16 11:00:00", "FXネオ決済", "USDJPY", "売", "10000", "150.80", "151.00", "-2000"),
		// Swap lands on a day with no closes; the series outer-joins it.
		exportRow("2024/01/17 10:00:00", "スワップ", "USDJPY", "", "", "", "", "300"),
	}), "gmoclick")
	require.NoError(t, err)
	require.NotNil(t, report.FX)

	series := report.FX.DailySeries
	require.Len(t, series, 3)
	assert.Equal(t, "2024-01-15", series[0].Date)
	assert.InDelta(t, 5000.0, series[0].Cumulative, 1e-6)
	assert.InDelta(t, 3000.0, series[1].Cumulative, 1e-6)
	assert.InDelta(t, 300.0, series[2].SwapProfit, 1e-9)
	assert.Zero(t, series[2].TradeProfit)
	assert.InDelta(t, 3300.0, series[2].Cumulative, 1e-6)
}

func TestAnalyzeNoClosesProducesEmptyReport(t *testing.T) {
	service := newTestService()

	report, err := service.Analyze(exportFile(t, [][]string{
		exportRow("2024/01/15 10:00:00", "FXネオ新規", "USDJPY", "買", "10000", "150.00", "", ""),
	}), "gmoclick")
	require.NoError(t, err)
	assert.Empty(t, report.ClosedLots)
	assert.Nil(t, report.FX)
	assert.Nil(t, report.CFD)
}

func TestAnalyzeInvalidFileFailsWithParsingError(t *testing.T) {
	service := newTestService()

	_, err := service.Analyze(exportFile(t, [][]string{
		exportRow("garbage", "FXネオ決済", "USDJPY", "売", "10000", "150.00", "149.50", "100"),
	}), "gmoclick")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParsingFailed)
}

func TestAnalyzeUnknownSource(t *testing.T) {
	service := newTestService()
	_, err := service.Analyze(bytes.NewReader(nil), "unknown-broker")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParsingFailed)
}

func TestGetReportRoundTripAndExpiry(t *testing.T) {
	service := newTestService()

	report, err := service.Analyze(exportFile(t, [][]string{
		exportRow("2024/01/15 10:00:00", "FXネオ新規", "USDJPY", "買", "10000", "150.00", "", ""),
		exportRow("2024/01/15 12:00:00", "FXネオ決済", "USDJPY", "売", "10000", "150.50", "150.00", "5000"),
	}), "gmoclick")
	require.NoError(t, err)

	fetched, err := service.GetReport(report.ReportID)
	require.NoError(t, err)
	assert.Equal(t, report.ReportID, fetched.ReportID)

	_, err = service.GetReport("no-such-report")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestSummarizeReportAdHocGrouping(t *testing.T) {
	service := newTestService()

	report, err := service.Analyze(exportFile(t, [][]string{
		exportRow("2024/01/15 10:00:00", "FXネオ新規", "USDJPY", "買", "10000", "150.00", "", ""),
		exportRow("2024/01/15 12:00:00", "FXネオ決済", "USDJPY", "売", "10000", "150.50", "150.00", "5000"),
		exportRow("2024/02/01 10:00:00", "FXネオ新規", "EURJPY", "買", "10000", "160.00", "", ""),
		exportRow("2024/02/01 12:00:00", "FXネオ決済", "EURJPY", "売", "10000", "159.50", "160.00", "-5000"),
	}), "gmoclick")
	require.NoError(t, err)

	rows, err := service.SummarizeReport(report.ReportID, []models.Dimension{models.DimMonth})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-01", rows[0].Group[models.DimMonth])
	assert.Equal(t, "2024-02", rows[1].Group[models.DimMonth])

	_, err = service.SummarizeReport("gone", []models.Dimension{models.DimMonth})
	assert.ErrorIs(t, err, ErrReportNotFound)
}
