package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	compass "github.com/Toblerones/InvestCompass"
)

var today = compass.MustParseDate("2026-08-30")

func contextOf(positions []compass.Position, prices map[string]compass.Money, cash compass.Money) Context {
	views := compass.Consolidate(positions, 30, today)
	reports := make(map[string]compass.ExitReport)
	for _, v := range views {
		if price, ok := prices[v.Ticker]; ok {
			reports[v.Ticker] = compass.EvaluateExits(v, price, compass.ExitThresholds{StopLossPercent: -10, ProfitTargetPercent: 20})
		}
	}
	return Context{
		Today:   today,
		Cash:    cash,
		Views:   views,
		Prices:  prices,
		Reports: reports,
		Summary: compass.Summarize(views),
	}
}

func lot(qty, price float64, date string) compass.Lot {
	return compass.Lot{Quantity: compass.Q(qty), Price: compass.USD(price), Date: compass.MustParseDate(date)}
}

func TestDashboard(t *testing.T) {
	ctx := contextOf(
		[]compass.Position{
			{Ticker: "NVDA", Lots: []compass.Lot{lot(1.5, 465.95, "2026-07-26")}},
			{Ticker: "AAPL", Lots: []compass.Lot{lot(2, 180, "2026-08-20")}},
		},
		map[string]compass.Money{"NVDA": compass.USD(500)},
		compass.USD(250),
	)
	actions := []compass.Action{
		{Type: compass.ActionSell, Ticker: "NVDA", Amount: "all shares", Valid: true, Reasoning: "take profit"},
		{Type: compass.ActionSell, Ticker: "AAPL", Valid: false, Err: "FIFO rule: AAPL is locked"},
		{Type: compass.ActionBuy, Ticker: "VOO", Amount: "$9,999", Valid: true, Warning: "amount $9,999.00 exceeds available cash"},
	}

	out := Dashboard(ctx, "Markets are choppy.", actions)

	assert.Contains(t, out, "# Portfolio Advisor — 2026-08-30")
	assert.Contains(t, out, "Cash available: **$250.00**")
	assert.Contains(t, out, "| NVDA | 1.5 | $465.95 | $500.00 | +7.31% | OK |")
	assert.Contains(t, out, "LOCK (until 2026-09-19)")
	assert.Contains(t, out, "Markets are choppy.")
	assert.Contains(t, out, "❌ REJECTED: FIFO rule: AAPL is locked")
	assert.Contains(t, out, "⚠ amount $9,999.00 exceeds available cash")
	assert.Contains(t, out, "take profit")
	assert.Contains(t, out, "compass confirm")
	// one sellable, one locked, with the earliest unlock in the header
	assert.Contains(t, out, "1 sellable, 1 locked")
	assert.Contains(t, out, "next unlock 2026-09-19")
}

func TestDashboardNoPositions(t *testing.T) {
	ctx := contextOf(nil, nil, compass.USD(500))
	out := Dashboard(ctx, "", nil)

	assert.Contains(t, out, "No positions currently held.")
	assert.Contains(t, out, "No actions recommended.")
}

func TestDashboardMissingPrice(t *testing.T) {
	ctx := contextOf(
		[]compass.Position{{Ticker: "NVDA", Lots: []compass.Lot{lot(1, 400, "2026-01-01")}}},
		nil, compass.USD(0),
	)
	out := Dashboard(ctx, "", nil)
	assert.Contains(t, out, "| NVDA | 1 | $400.00 | — | — | OK |")
}

func TestQuickCheck(t *testing.T) {
	t.Run("stable", func(t *testing.T) {
		ctx := contextOf(
			[]compass.Position{{Ticker: "NVDA", Lots: []compass.Lot{lot(1, 480, "2026-06-01")}}},
			map[string]compass.Money{"NVDA": compass.USD(500)},
			compass.USD(100),
		)
		out := QuickCheck(ctx)
		assert.Contains(t, out, "# Quick Portfolio Check")
		assert.Contains(t, out, "continue holding")
	})

	t.Run("signal fires", func(t *testing.T) {
		ctx := contextOf(
			[]compass.Position{{Ticker: "NVDA", Lots: []compass.Lot{lot(1, 500, "2026-06-01")}}},
			map[string]compass.Money{"NVDA": compass.USD(440)}, // -12%
			compass.USD(100),
		)
		out := QuickCheck(ctx)
		assert.Contains(t, out, "Action may be needed")
		assert.Contains(t, out, "STOP LOSS")
	})

	t.Run("empty", func(t *testing.T) {
		out := QuickCheck(contextOf(nil, nil, compass.USD(0)))
		assert.Contains(t, out, "No positions currently held.")
	})
}

func TestPartialLockTag(t *testing.T) {
	ctx := contextOf(
		[]compass.Position{{Ticker: "AAPL", Lots: []compass.Lot{
			lot(3, 170, "2026-06-01"),
			lot(2, 180, "2026-08-20"),
		}}},
		nil, compass.USD(0),
	)
	out := Dashboard(ctx, "", nil)
	assert.Contains(t, out, "PART (3 of 5 sellable)")
}

func TestSwap(t *testing.T) {
	cost := compass.CalculateSwapCost(compass.Q(3), compass.USD(500), compass.USD(175.50), compass.USD(10))
	out := Swap("NVDA", "VOO", cost)

	assert.Contains(t, out, "Selling NVDA")
	assert.Contains(t, out, "$1,500.00")
	assert.Contains(t, out, "8 shares of VOO")
	assert.Contains(t, out, "$76.00")
}
