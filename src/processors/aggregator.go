// backend/src/processors/aggregator.go
package processors

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/username/tradeinsight/backend/src/models"
)

// Aggregator groups closed lots by an ordered tuple of dimensions and
// computes summary statistics per group.
type Aggregator interface {
	Summarize(lots []models.ClosedLot, dims []models.Dimension) []models.SummaryRow
}

type aggregatorImpl struct{}

func NewAggregator() Aggregator { return &aggregatorImpl{} }

// keySeparator joins dimension values into a map key. Unit separator, cannot
// occur in symbol names or formatted dates.
const keySeparator = "\x1f"

// Summarize tolerates empty input and returns rows sorted by group key.
func (a *aggregatorImpl) Summarize(lots []models.ClosedLot, dims []models.Dimension) []models.SummaryRow {
	if len(lots) == 0 {
		return nil
	}

	groups := make(map[string][]models.ClosedLot)
	for _, lot := range lots {
		key := groupKey(lot, dims)
		groups[key] = append(groups[key], lot)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([]models.SummaryRow, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, summarizeGroup(groups[key], dims))
	}
	return rows
}

func groupKey(lot models.ClosedLot, dims []models.Dimension) string {
	values := make([]string, len(dims))
	for i, dim := range dims {
		values[i] = DimensionValue(lot, dim)
	}
	return strings.Join(values, keySeparator)
}

// DimensionValue extracts the grouping value of one dimension from a lot.
func DimensionValue(lot models.ClosedLot, dim models.Dimension) string {
	switch dim {
	case models.DimSymbol:
		return lot.Symbol
	case models.DimPosition:
		return string(lot.Position)
	case models.DimClass:
		return string(lot.Class)
	case models.DimMonth:
		return lot.Month
	case models.DimDate:
		return lot.Date
	default:
		return ""
	}
}

func summarizeGroup(group []models.ClosedLot, dims []models.Dimension) models.SummaryRow {
	row := models.SummaryRow{
		Group:      make(map[models.Dimension]string, len(dims)),
		TradeCount: len(group),
	}
	for _, dim := range dims {
		row.Group[dim] = DimensionValue(group[0], dim)
	}

	var winHoldSum, lossHoldSum time.Duration
	var winHoldCount, lossHoldCount int
	var winPerLotSum, lossPerLotSum float64

	for _, lot := range group {
		row.TotalProfit += lot.Profit
		switch {
		case lot.Profit > 0:
			row.WinCount++
			row.TotalWin += lot.Profit
			winPerLotSum += profitPerLot(lot)
			if lot.HoldingTime != nil {
				winHoldSum += *lot.HoldingTime
				winHoldCount++
			}
		case lot.Profit < 0:
			row.LossCount++
			row.TotalLoss += lot.Profit
			lossPerLotSum += profitPerLot(lot)
			if lot.HoldingTime != nil {
				lossHoldSum += *lot.HoldingTime
				lossHoldCount++
			}
		}
	}

	if winHoldCount > 0 {
		avg := winHoldSum / time.Duration(winHoldCount)
		row.AvgWinHoldingTime = &avg
	}
	if lossHoldCount > 0 {
		avg := lossHoldSum / time.Duration(lossHoldCount)
		row.AvgLossHoldingTime = &avg
	}

	if row.WinCount > 0 {
		row.WinProfitPerLot = winPerLotSum / float64(row.WinCount)
		row.AvgWin = row.TotalWin / float64(row.WinCount)
	}
	if row.LossCount > 0 {
		row.LossProfitPerLot = lossPerLotSum / float64(row.LossCount)
		row.AvgLoss = row.TotalLoss / float64(row.LossCount)
	}
	if row.TradeCount > 0 {
		row.WinRate = float64(row.WinCount) / float64(row.TradeCount) * 100
	}

	if row.TotalLoss == 0 {
		row.ProfitFactor = models.Ratio(math.Inf(1))
	} else {
		row.ProfitFactor = models.Ratio(row.TotalWin / math.Abs(row.TotalLoss))
	}
	if row.AvgLoss == 0 {
		row.RewardToRisk = models.Ratio(math.Inf(1))
	} else {
		row.RewardToRisk = models.Ratio(row.AvgWin / math.Abs(row.AvgLoss))
	}
	return row
}

// profitPerLot is the per-lot profit of one slice, forced to zero on division
// by zero or a non-finite result.
func profitPerLot(lot models.ClosedLot) float64 {
	if lot.Lots == 0 {
		return 0
	}
	v := lot.Profit / lot.Lots
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
