// backend/src/models/execution.go
package models

import "time"

// ExecutionKind is the classification of a history row, derived once during
// normalization from the export's trade-kind tag so downstream code never
// repeats substring scans.
type ExecutionKind string

const (
	KindOpen  ExecutionKind = "OPEN"  // 新規 (new position)
	KindClose ExecutionKind = "CLOSE" // 決済 / ロスカット (close or stop-out)
	KindSwap  ExecutionKind = "SWAP"  // スワップ accrual rows
	KindOther ExecutionKind = "OTHER"
)

// Side is the signed direction of an execution.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Execution is the normalized form of a single row of the trade-history
// export. The parser is responsible for populating every field, including the
// kind/side enums and the adjusted trade date. Immutable once parsed.
type Execution struct {
	Symbol     string        `json:"symbol"`
	Kind       ExecutionKind `json:"kind"`
	ExecutedAt time.Time     `json:"executed_at"`
	Side       Side          `json:"side"`
	Quantity   float64       `json:"quantity"`
	Price      float64       `json:"price"`      // execution price (約定単価)
	OpenPrice  float64       `json:"open_price"` // opening price of the position being closed (建単価)
	Profit     float64       `json:"profit"`     // realized profit in JPY (実現損益（円貨）)

	// TradeDate and TradeMonth carry the broker's trading-day adjustment:
	// executions before 07:00 belong to the previous calendar day. Every
	// settlement date or month downstream derives from these, never from the
	// raw timestamp.
	TradeDate  string `json:"trade_date"`  // YYYY-MM-DD
	TradeMonth string `json:"trade_month"` // YYYY-MM
}
