package compass

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var confirmToday = MustParseDate("2026-08-30")

func TestParseTradeCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  TradeCommand
	}{
		{
			"add cash",
			"add cash 500",
			TradeCommand{Kind: TradeAddCash, Amount: USD(500)},
		},
		{
			"add cash with symbol",
			"add cash $1,250.75",
			TradeCommand{Kind: TradeAddCash, Amount: USD(1250.75)},
		},
		{
			"sold",
			"sold GOOGL 28 shares at 175.50",
			TradeCommand{Kind: TradeSold, Ticker: "GOOGL", Quantity: Q(28), Price: USD(175.50)},
		},
		{
			"sold lowercase",
			"SOLD googl 28 shares at $175.50",
			TradeCommand{Kind: TradeSold, Ticker: "GOOGL", Quantity: Q(28), Price: USD(175.50)},
		},
		{
			"bought defaults to today",
			"bought NVDA 3 shares at 500",
			TradeCommand{Kind: TradeBought, Ticker: "NVDA", Quantity: Q(3), Price: USD(500), Date: confirmToday},
		},
		{
			"bought with date",
			"bought NVDA 3 shares at 500 on 2026-08-15",
			TradeCommand{Kind: TradeBought, Ticker: "NVDA", Quantity: Q(3), Price: USD(500), Date: MustParseDate("2026-08-15")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTradeCommand(tt.input, confirmToday)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.Equal(t, tt.want.Ticker, got.Ticker)
			assert.True(t, tt.want.Quantity.Equal(got.Quantity), "quantity %s", got.Quantity)
			assert.True(t, tt.want.Price.Equal(got.Price), "price %s", got.Price)
			assert.True(t, tt.want.Amount.Equal(got.Amount), "amount %s", got.Amount)
			assert.Equal(t, tt.want.Date, got.Date)
		})
	}
}

func TestParseTradeCommandRejects(t *testing.T) {
	inputs := []string{
		"",
		"hello",
		"add 500",
		"add cash abc",
		"sold GOOGL",
		"sold googl4 28 shares at 175",
		"sold GOOGL -3 shares at 175",
		"sold GOOGL 3 shares",
		"sold GOOGL 3 shares at zero",
		"bought NVDA 3 shares at 500 on someday",
	}
	for _, input := range inputs {
		_, err := ParseTradeCommand(input, confirmToday)
		require.Error(t, err, "input %q", input)

		var unparsed *ErrUnparsedTrade
		assert.True(t, errors.As(err, &unparsed), "input %q: want *ErrUnparsedTrade, got %T", input, err)
	}
}

func TestApplyTrades(t *testing.T) {
	p := NewPortfolio(USD(0))
	p.RecordBuy("GOOGL", Q(28), USD(150), MustParseDate("2026-01-01"))
	p.Cash = USD(100)

	msg, err := p.Apply(TradeCommand{Kind: TradeAddCash, Amount: USD(400)})
	require.NoError(t, err)
	assert.Contains(t, msg, "$500.00")

	msg, err = p.Apply(TradeCommand{Kind: TradeSold, Ticker: "GOOGL", Quantity: Q(28), Price: USD(175.50)})
	require.NoError(t, err)
	assert.Contains(t, msg, "$4,914.00")
	assert.True(t, p.Cash.Equal(USD(5414)), "cash %s", p.Cash)
	assert.Nil(t, p.Position("GOOGL"))

	msg, err = p.Apply(TradeCommand{Kind: TradeBought, Ticker: "NVDA", Quantity: Q(3), Price: USD(500), Date: confirmToday})
	require.NoError(t, err)
	assert.Contains(t, msg, "NVDA")
	require.NotNil(t, p.Position("NVDA"))
	assert.True(t, p.Cash.Equal(USD(3914)), "cash %s", p.Cash)
}

func TestApplyFailedSellLeavesPortfolioUntouched(t *testing.T) {
	p := NewPortfolio(USD(100))
	p.RecordBuy("NVDA", Q(1), USD(50), MustParseDate("2026-01-01"))
	before := p.Cash

	_, err := p.Apply(TradeCommand{Kind: TradeSold, Ticker: "NVDA", Quantity: Q(5), Price: USD(60)})
	require.Error(t, err)
	assert.True(t, p.Cash.Equal(before))
	assert.True(t, p.Position("NVDA").TotalQuantity().Equal(Q(1)))
}
