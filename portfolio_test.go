package compass

import (
	"strings"
	"testing"
)

func TestPortfolioRecordBuy(t *testing.T) {
	p := NewPortfolio(USD(1000))

	p.RecordBuy("NVDA", Q(1), USD(450), MustParseDate("2026-01-15"))
	p.RecordBuy("NVDA", Q(2), USD(480), MustParseDate("2026-01-10"))

	pos := p.Position("NVDA")
	if pos == nil {
		t.Fatal("NVDA position missing")
	}
	if len(pos.Lots) != 2 {
		t.Fatalf("lots = %d, want 2", len(pos.Lots))
	}
	// lots stay in FIFO order regardless of insertion order
	if pos.Lots[0].Date.String() != "2026-01-10" {
		t.Errorf("oldest lot = %s, want 2026-01-10", pos.Lots[0].Date)
	}
	// 1000 - 450 - 960 floors at zero
	if !p.Cash.IsZero() {
		t.Errorf("cash = %s, want $0.00", p.Cash)
	}
}

func TestPortfolioRecordSell(t *testing.T) {
	p := NewPortfolio(USD(0))
	p.RecordBuy("GOOGL", Q(10), USD(150), MustParseDate("2026-01-01"))
	p.RecordBuy("GOOGL", Q(18), USD(160), MustParseDate("2026-02-01"))
	p.Cash = USD(0)

	if err := p.RecordSell("GOOGL", Q(28), USD(175.50)); err != nil {
		t.Fatal(err)
	}
	if !p.Cash.Equal(USD(4914)) {
		t.Errorf("cash = %s, want $4,914.00", p.Cash)
	}
	if p.Position("GOOGL") != nil {
		t.Error("fully sold position should be removed")
	}
}

func TestPortfolioRecordSellErrors(t *testing.T) {
	p := NewPortfolio(USD(0))
	p.RecordBuy("NVDA", Q(3), USD(500), MustParseDate("2026-01-01"))
	p.Cash = USD(0)

	if err := p.RecordSell("AAPL", Q(1), USD(100)); err == nil {
		t.Error("selling an unheld ticker must fail")
	}
	if err := p.RecordSell("NVDA", Q(5), USD(100)); err == nil {
		t.Error("overselling must fail")
	}
	// failed sells leave the portfolio untouched
	if !p.Position("NVDA").TotalQuantity().Equal(Q(3)) || !p.Cash.IsZero() {
		t.Error("portfolio mutated by a failed sell")
	}
}

func TestPortfolioValidate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Portfolio
		wantErr string
	}{
		{
			"ok",
			func() *Portfolio {
				p := NewPortfolio(USD(100))
				p.RecordBuy("NVDA", Q(1), USD(50), MustParseDate("2026-01-01"))
				return p
			},
			"",
		},
		{
			"negative cash",
			func() *Portfolio { return NewPortfolio(USD(-1)) },
			"cash_available",
		},
		{
			"duplicate ticker",
			func() *Portfolio {
				return &Portfolio{Positions: []Position{
					{Ticker: "NVDA", Lots: []Lot{lotOf(1, 100, "2026-01-01")}},
					{Ticker: "NVDA", Lots: []Lot{lotOf(1, 110, "2026-02-01")}},
				}}
			},
			"duplicate ticker",
		},
		{
			"empty lots",
			func() *Portfolio {
				return &Portfolio{Positions: []Position{{Ticker: "NVDA"}}}
			},
			"lots cannot be empty",
		},
		{
			"bad lot",
			func() *Portfolio {
				return &Portfolio{Positions: []Position{
					{Ticker: "NVDA", Lots: []Lot{{Quantity: Q(1), Price: USD(-5), Date: MustParseDate("2026-01-01")}}},
				}}
			},
			"purchase_price",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestPortfolioAddCash(t *testing.T) {
	p := NewPortfolio(USD(10))
	p.AddCash(USD(490.50))
	if !p.Cash.Equal(USD(500.50)) {
		t.Errorf("cash = %s", p.Cash)
	}
}
