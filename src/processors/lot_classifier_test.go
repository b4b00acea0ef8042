package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/username/tradeinsight/backend/src/models"
)

func TestClassifyInstrument(t *testing.T) {
	tests := []struct {
		symbol  string
		class   models.InstrumentClass
		divisor float64
	}{
		{"USDJPY", models.ClassFX, 10000},
		{"EURJPY", models.ClassFX, 10000},
		{"EURUSD", models.ClassFX, 10000},
		{"豪ドル/JPY", models.ClassFX, 10000},
		{"日本225", models.ClassCFD, 1},
		{"金スポット", models.ClassCFD, 1},
		{"", models.ClassCFD, 1},
	}
	for _, tt := range tests {
		class, divisor := ClassifyInstrument(tt.symbol)
		assert.Equal(t, tt.class, class, "symbol %q", tt.symbol)
		assert.Equal(t, tt.divisor, divisor, "symbol %q", tt.symbol)
	}
}
