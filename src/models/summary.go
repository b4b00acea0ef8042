// backend/src/models/summary.go
package models

import (
	"encoding/json"
	"math"
	"time"
)

// Dimension is a grouping axis for summary aggregation.
type Dimension string

const (
	DimSymbol   Dimension = "symbol"
	DimPosition Dimension = "position"
	DimClass    Dimension = "class"
	DimMonth    Dimension = "month"
	DimDate     Dimension = "date"
)

// Ratio is a float64 that may legally be +Inf: a group with no losing trades
// has an infinite profit factor and reward-to-risk. JSON has no encoding for
// IEEE infinities, so those marshal as the string "inf"; finite values marshal
// as plain numbers. Comparison and sorting work natively on the float.
type Ratio float64

func (r Ratio) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(r), 1) {
		return []byte(`"inf"`), nil
	}
	return json.Marshal(float64(r))
}

// SummaryRow is one output row of the aggregator for a single group key.
type SummaryRow struct {
	// Group holds the value of each requested dimension for this row, in the
	// caller's dimension order.
	Group map[Dimension]string `json:"group"`

	TotalProfit float64 `json:"total_profit"`
	TradeCount  int     `json:"trade_count"`
	WinCount    int     `json:"win_count"`
	LossCount   int     `json:"loss_count"`

	// Mean holding times are computed over the slices that carry one; nil when
	// the winning (or losing) subset has none.
	AvgWinHoldingTime  *time.Duration `json:"avg_win_holding_time,omitempty"`
	AvgLossHoldingTime *time.Duration `json:"avg_loss_holding_time,omitempty"`

	WinProfitPerLot  float64 `json:"win_profit_per_lot"`  // mean profit/lots over winning slices
	LossProfitPerLot float64 `json:"loss_profit_per_lot"` // mean profit/lots over losing slices

	WinRate      float64 `json:"win_rate"` // percentage, 0 for empty groups
	TotalWin     float64 `json:"total_win"`
	TotalLoss    float64 `json:"total_loss"`
	ProfitFactor Ratio   `json:"profit_factor"`
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
	RewardToRisk Ratio   `json:"reward_to_risk"`
}

// DailyPoint is one entry of a daily profit series for charting. Swap profit
// is merged in for FX; Cumulative is the running total of NetProfit in date
// order.
type DailyPoint struct {
	Date        string  `json:"date"`
	TradeProfit float64 `json:"trade_profit"`
	SwapProfit  float64 `json:"swap_profit"`
	NetProfit   float64 `json:"net_profit"`
	Cumulative  float64 `json:"cumulative"`
}
