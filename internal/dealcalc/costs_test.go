package dealcalc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalForCategory(t *testing.T) {
	tests := []struct {
		name string
		c    CostCategory
		want float64
	}{
		{name: "nil", c: nil, want: 0},
		{name: "empty", c: CostCategory{}, want: 0},
		{name: "single", c: CostCategory{"closingCosts": 3000}, want: 3000},
		{name: "several", c: CostCategory{"a": 1.5, "b": 2.25, "c": 0}, want: 3.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalForCategory(tt.c))
		})
	}
}

func TestTotalForCategory_SortedKeyOrder(t *testing.T) {
	a, b, c := 0.1, 0.2, 0.3
	want := (a + b) + c
	require.NotEqual(t, want, (c+b)+a, "amounts must be order sensitive")

	category := CostCategory{"c-title": c, "b-survey": b, "a-appraisal": a}
	for i := 0; i < 50; i++ {
		assert.Equal(t, want, TotalForCategory(category))
	}
}

func TestTotalForStrategy(t *testing.T) {
	presets := DefaultPresets()

	t.Run("fix and flip financed defaults", func(t *testing.T) {
		costs, err := presets.Lookup(StrategyFixAndFlip, PurchaseFinanced)
		require.NoError(t, err)
		// 3500 acquisition + 29000 rehab + 7000 holding + 19500 selling
		assert.Equal(t, 59000.0, TotalForStrategy(costs, StrategyFixAndFlip))
	})

	t.Run("wholesale", func(t *testing.T) {
		costs, err := presets.Lookup(StrategyWholesale, PurchaseCash)
		require.NoError(t, err)
		assert.Equal(t, 31000.0, TotalForStrategy(costs, StrategyWholesale))
	})

	t.Run("nil costs", func(t *testing.T) {
		assert.Zero(t, TotalForStrategy(nil, StrategyBRRR))
	})

	t.Run("stale sheet only contributes shared categories", func(t *testing.T) {
		flip, err := presets.Lookup(StrategyFixAndFlip, PurchaseFinanced)
		require.NoError(t, err)

		// brrr reads acquisition and rehab from a fix-and-flip sheet; it has
		// no refinance or operating, and holding/selling are ignored.
		got := TotalForStrategy(flip, StrategyBRRR)
		assert.Equal(t, 3500.0+29000.0, got)

		assert.Zero(t, TotalForStrategy(flip, StrategyWholesale))
	})
}

func TestTotalForStrategy_IgnoresIrrelevantCategories(t *testing.T) {
	withExtra := FixAndFlipCosts{
		Acquisition: CostCategory{"closingCosts": 1000},
		Rehab:       CostCategory{"renovationBudget": 5000},
		Holding:     CostCategory{"utilities": 99999},
		Selling:     CostCategory{"stagingCosts": 88888},
	}
	without := FixAndFlipCosts{
		Acquisition: withExtra.Acquisition,
		Rehab:       withExtra.Rehab,
	}

	for _, s := range []Strategy{StrategyBRRR, StrategyTurnkeyRental, StrategyWholesale} {
		t.Run(string(s), func(t *testing.T) {
			assert.Equal(t, TotalForStrategy(without, s), TotalForStrategy(withExtra, s))
		})
	}
}

func TestNewStrategyCosts(t *testing.T) {
	t.Run("rejects category the strategy does not carry", func(t *testing.T) {
		_, err := NewStrategyCosts(StrategyWholesale, map[CategoryName]CostCategory{
			CategoryRehab: {"x": 1},
		})
		assert.Error(t, err)
	})

	t.Run("rejects unknown strategy", func(t *testing.T) {
		_, err := NewStrategyCosts("condo-conversion", nil)
		assert.Error(t, err)
	})

	t.Run("copies the input maps", func(t *testing.T) {
		in := CostCategory{"repairs": 100}
		costs, err := NewStrategyCosts(StrategyTurnkeyRental, map[CategoryName]CostCategory{CategorySetup: in})
		require.NoError(t, err)
		in["repairs"] = 999

		setup, ok := costs.Category(CategorySetup)
		require.True(t, ok)
		assert.Equal(t, 100.0, setup["repairs"])
	})
}

func TestBreakdown(t *testing.T) {
	costs, err := DefaultPresets().Lookup(StrategyTurnkeyRental, PurchaseCash)
	require.NoError(t, err)

	lines := Breakdown(costs, StrategyTurnkeyRental)
	require.Len(t, lines, 3)
	assert.Equal(t, CategoryAcquisition, lines[0].Category)
	assert.Equal(t, 2500.0, lines[0].Total)
	assert.Equal(t, "Setup", lines[1].Label)
	assert.Equal(t, 5500.0, lines[1].Total)
	assert.Equal(t, 700.0, lines[2].Total)

	stale := Breakdown(costs, StrategyWholesale)
	require.Len(t, stale, 1)
	assert.Zero(t, stale[0].Total)
	assert.NotNil(t, stale[0].Items)
}

func TestCostSheetJSON(t *testing.T) {
	costs, err := DefaultPresets().Lookup(StrategyBRRR, PurchaseFinanced)
	require.NoError(t, err)

	data, err := json.Marshal(CostSheet{costs})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"strategy":"brrr"`)

	var decoded CostSheet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, costs, decoded.StrategyCosts)

	var bad CostSheet
	assert.Error(t, json.Unmarshal([]byte(`{"strategy":"brrr","categories":{"selling":{}}}`), &bad))
}
