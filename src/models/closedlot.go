// backend/src/models/closedlot.go
package models

import "time"

// InstrumentClass distinguishes FX pairs from CFD products. The two classes
// use different lot-size divisors, so open and closing executions of the same
// symbol must always classify identically.
type InstrumentClass string

const (
	ClassFX  InstrumentClass = "FX"
	ClassCFD InstrumentClass = "CFD"
)

// Position is the side of the position a closing execution unwound. It is
// derived solely from the closing execution's own direction: selling closes a
// long, buying closes a short.
type Position string

const (
	PositionLong  Position = "LONG"
	PositionShort Position = "SHORT"
)

// ClosedLot is one slice of a closing execution matched against at most one
// opening lot. A closing execution that consumed several opens produces one
// ClosedLot per open; one with no eligible open at all produces a single
// unmatched ClosedLot carrying its full quantity and profit.
type ClosedLot struct {
	Symbol   string   `json:"symbol"`
	Position Position `json:"position"`
	Profit   float64  `json:"profit"` // prorated share of the close's realized profit, JPY

	// HoldingTime is nil when the opening leg is unknown, e.g. positions
	// opened before the export window.
	HoldingTime *time.Duration `json:"holding_time,omitempty"`

	Lots  float64         `json:"lots"` // matched quantity / class lot divisor
	Class InstrumentClass `json:"class"`
	Month string          `json:"month"` // settlement month (YYYY-MM) of the closing execution
	Date  string          `json:"date"`  // settlement date (YYYY-MM-DD) of the closing execution
}

// PeriodProfit is a profit total keyed by a settlement period or symbol.
type PeriodProfit struct {
	Key    string  `json:"key"`
	Profit float64 `json:"profit"`
}

// SwapSummary aggregates the swap accrual rows of an export. Swap profit is
// reported alongside FX trading profit but never enters position matching.
type SwapSummary struct {
	Total    float64        `json:"total"`
	ByMonth  []PeriodProfit `json:"by_month"`
	ByDate   []PeriodProfit `json:"by_date"`
	BySymbol []PeriodProfit `json:"by_symbol"`
}
