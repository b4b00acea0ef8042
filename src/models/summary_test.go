package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatioMarshalsInfinityAsString(t *testing.T) {
	data, err := json.Marshal(Ratio(math.Inf(1)))
	require.NoError(t, err)
	assert.Equal(t, `"inf"`, string(data))

	data, err = json.Marshal(Ratio(1.25))
	require.NoError(t, err)
	assert.Equal(t, `1.25`, string(data))
}

func TestSummaryRowMarshalsWithInfiniteRatios(t *testing.T) {
	row := SummaryRow{
		Group:        map[Dimension]string{DimClass: "FX"},
		ProfitFactor: Ratio(math.Inf(1)),
		RewardToRisk: Ratio(2.5),
	}
	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"profit_factor":"inf"`)
	assert.Contains(t, string(data), `"reward_to_risk":2.5`)
}
