// backend/src/processors/swap_processor.go
package processors

import (
	"sort"

	"github.com/username/tradeinsight/backend/src/models"
)

// SwapAggregator sums the swap accrual rows of an export. Swap rows never
// enter position matching; they are reported alongside FX trading profit.
type SwapAggregator interface {
	Summarize(executions []models.Execution) models.SwapSummary
}

type swapAggregatorImpl struct{}

func NewSwapAggregator() SwapAggregator { return &swapAggregatorImpl{} }

func (p *swapAggregatorImpl) Summarize(executions []models.Execution) models.SwapSummary {
	byMonth := make(map[string]float64)
	byDate := make(map[string]float64)
	bySymbol := make(map[string]float64)

	var summary models.SwapSummary
	for _, ex := range executions {
		if ex.Kind != models.KindSwap {
			continue
		}
		summary.Total += ex.Profit
		// Settlement periods come from the adjusted trade date, like closes.
		byMonth[ex.TradeMonth] += ex.Profit
		byDate[ex.TradeDate] += ex.Profit
		bySymbol[ex.Symbol] += ex.Profit
	}

	summary.ByMonth = sortedPeriods(byMonth)
	summary.ByDate = sortedPeriods(byDate)
	summary.BySymbol = sortedPeriods(bySymbol)
	return summary
}

func sortedPeriods(totals map[string]float64) []models.PeriodProfit {
	if len(totals) == 0 {
		return nil
	}
	periods := make([]models.PeriodProfit, 0, len(totals))
	for key, profit := range totals {
		periods = append(periods, models.PeriodProfit{Key: key, Profit: profit})
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Key < periods[j].Key })
	return periods
}
