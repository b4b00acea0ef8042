// backend/src/processors/position_matcher.go
package processors

import (
	"math"
	"sort"
	"time"

	"github.com/username/tradeinsight/backend/src/models"
)

// PositionMatcher pairs each closing execution with the opening execution(s)
// it closed and emits one ClosedLot per matched quantity slice.
type PositionMatcher interface {
	Match(executions []models.Execution) []models.ClosedLot
}

type positionMatcherImpl struct{}

func NewPositionMatcher() PositionMatcher { return &positionMatcherImpl{} }

// openLot is the matcher-local mutable state for one opening execution. The
// remaining counter is decremented as matches consume it; the slice of
// openLots never leaves a single Match call.
type openLot struct {
	symbol    string
	price     float64
	openedAt  time.Time
	quantity  float64
	remaining float64
}

// Match runs the FIFO matching pass.
//
// Opens are sorted by execution time ascending and each starts with its full
// quantity remaining. Closes are processed in ascending execution time; the
// processing order decides which opens get consumed first, so it is an
// invariant, not an optimization. A close is eligible against opens with the
// same symbol, an execution price equal to the close's 建単価 (the opening
// price is the matching key, not a tolerance match), remaining quantity, and
// a strictly earlier timestamp.
func (m *positionMatcherImpl) Match(executions []models.Execution) []models.ClosedLot {
	var opens []openLot
	var closes []models.Execution
	for _, ex := range executions {
		switch ex.Kind {
		case models.KindOpen:
			opens = append(opens, openLot{
				symbol:    ex.Symbol,
				price:     ex.Price,
				openedAt:  ex.ExecutedAt,
				quantity:  ex.Quantity,
				remaining: ex.Quantity,
			})
		case models.KindClose:
			closes = append(closes, ex)
		}
	}
	if len(closes) == 0 {
		return nil
	}

	sort.SliceStable(opens, func(i, j int) bool {
		return opens[i].openedAt.Before(opens[j].openedAt)
	})
	sort.SliceStable(closes, func(i, j int) bool {
		return closes[i].ExecutedAt.Before(closes[j].ExecutedAt)
	})

	var lots []models.ClosedLot
	for _, c := range closes {
		// Class and divisor are computed once per closing execution; every
		// slice of the same close shares them.
		class, divisor := ClassifyInstrument(c.Symbol)
		position := positionFor(c.Side)

		remaining := c.Quantity
		matched := false
		for i := range opens {
			if remaining <= 0 {
				break
			}
			lot := &opens[i]
			if lot.symbol != c.Symbol || lot.price != c.OpenPrice ||
				lot.remaining <= 0 || !lot.openedAt.Before(c.ExecutedAt) {
				continue
			}

			matched = true
			qty := math.Min(remaining, lot.remaining)
			holding := c.ExecutedAt.Sub(lot.openedAt)
			lots = append(lots, models.ClosedLot{
				Symbol:      c.Symbol,
				Position:    position,
				Profit:      prorate(c, qty),
				HoldingTime: &holding,
				Lots:        qty / divisor,
				Class:       class,
				Month:       c.TradeMonth,
				Date:        c.TradeDate,
			})
			lot.remaining -= qty
			remaining -= qty
		}

		if !matched {
			// No eligible open existed at all, e.g. the position was opened
			// before the export window. Emit the close as-is, holding time
			// unknown.
			lots = append(lots, models.ClosedLot{
				Symbol:   c.Symbol,
				Position: position,
				Profit:   c.Profit,
				Lots:     c.Quantity / divisor,
				Class:    class,
				Month:    c.TradeMonth,
				Date:     c.TradeDate,
			})
			continue
		}

		if remaining > 0 {
			// The close outsized its eligible opens. Emit the leftover as an
			// unmatched slice so the prorated profit of the close's lots still
			// sums to its reported realized profit.
			lots = append(lots, models.ClosedLot{
				Symbol:   c.Symbol,
				Position: position,
				Profit:   prorate(c, remaining),
				Lots:     remaining / divisor,
				Class:    class,
				Month:    c.TradeMonth,
				Date:     c.TradeDate,
			})
		}
	}
	return lots
}

// positionFor infers the side of the position being closed from the closing
// execution's own direction: a sell closes a long, a buy closes a short.
func positionFor(side models.Side) models.Position {
	if side == models.SideSell {
		return models.PositionLong
	}
	return models.PositionShort
}

// prorate allocates a share of the close's realized profit to a quantity
// slice. A zero original quantity yields zero rather than dividing.
func prorate(c models.Execution, qty float64) float64 {
	if c.Quantity == 0 {
		return 0
	}
	return c.Profit * qty / c.Quantity
}
