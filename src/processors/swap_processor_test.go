package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradeinsight/backend/src/models"
)

func swapExec(symbol string, profit float64, date, month string) models.Execution {
	return models.Execution{
		Symbol:     symbol,
		Kind:       models.KindSwap,
		ExecutedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		Profit:     profit,
		TradeDate:  date,
		TradeMonth: month,
	}
}

func TestSwapSummarizeTotalsAndOrdering(t *testing.T) {
	agg := NewSwapAggregator()
	summary := agg.Summarize([]models.Execution{
		swapExec("USDJPY", 120, "2024-02-01", "2024-02"),
		swapExec("USDJPY", 80, "2024-01-15", "2024-01"),
		swapExec("EURJPY", -30, "2024-01-15", "2024-01"),
		// Non-swap rows never contribute.
		openExec("USDJPY", t0, 10000, 150.00),
		closeExec("USDJPY", t0.Add(time.Hour), models.SideSell, 10000, 150.00, 9999),
	})

	assert.InDelta(t, 170.0, summary.Total, 1e-9)

	require.Len(t, summary.ByMonth, 2)
	assert.Equal(t, "2024-01", summary.ByMonth[0].Key)
	assert.InDelta(t, 50.0, summary.ByMonth[0].Profit, 1e-9)
	assert.Equal(t, "2024-02", summary.ByMonth[1].Key)
	assert.InDelta(t, 120.0, summary.ByMonth[1].Profit, 1e-9)

	require.Len(t, summary.ByDate, 2)
	assert.Equal(t, "2024-01-15", summary.ByDate[0].Key)

	require.Len(t, summary.BySymbol, 2)
	assert.Equal(t, "EURJPY", summary.BySymbol[0].Key)
	assert.InDelta(t, -30.0, summary.BySymbol[0].Profit, 1e-9)
}

func TestSwapSummarizeEmpty(t *testing.T) {
	agg := NewSwapAggregator()
	summary := agg.Summarize(nil)
	assert.Zero(t, summary.Total)
	assert.Empty(t, summary.ByMonth)
	assert.Empty(t, summary.ByDate)
	assert.Empty(t, summary.BySymbol)
}
