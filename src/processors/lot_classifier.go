// backend/src/processors/lot_classifier.go
package processors

import (
	"strings"

	"github.com/username/tradeinsight/backend/src/models"
)

// Currency-code tokens that mark a symbol as an FX pair. The set matches the
// broker's product naming (USDJPY, EURUSD, ...); everything else on the
// account is a CFD.
var currencyTokens = []string{"JPY", "USD", "EUR"}

// Lot-size divisors per instrument class. FX positions are quoted in currency
// units and normalized to 10,000-unit lots; CFDs trade in raw units.
const (
	fxLotSize  = 10000.0
	cfdLotSize = 1.0
)

// ClassifyInstrument determines the instrument class and lot divisor for a
// symbol. Pure function; opening and closing executions of the same symbol
// always classify identically, which the prorating math depends on.
func ClassifyInstrument(symbol string) (models.InstrumentClass, float64) {
	for _, token := range currencyTokens {
		if strings.Contains(symbol, token) {
			return models.ClassFX, fxLotSize
		}
	}
	return models.ClassCFD, cfdLotSize
}
