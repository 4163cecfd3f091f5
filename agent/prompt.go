package agent

import (
	"fmt"
	"sort"
	"strings"

	compass "github.com/Toblerones/InvestCompass"
)

// BuildPrompt renders the full advisory prompt: strategy rules, current
// holdings with their FIFO lock state, prices, cash, and prior narratives.
// The lock state is spelled out per position so the model has no excuse to
// propose selling a locked lot; the validator catches it anyway.
func BuildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("You are a cautious portfolio advisor. Propose BUY/SELL/HOLD actions for the portfolio below.\n\n")

	if req.Strategy != "" {
		b.WriteString("STRATEGY PRINCIPLES:\n")
		b.WriteString(req.Strategy)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "CASH AVAILABLE: %s\n", req.Cash)
	if req.Budget.IsPositive() {
		fmt.Fprintf(&b, "MONTHLY BUDGET: %s\n", req.Budget)
	}
	fmt.Fprintf(&b, "WATCHLIST: %s\n\n", strings.Join(req.Watchlist, ", "))

	b.WriteString("CURRENT POSITIONS:\n")
	if len(req.Views) == 0 {
		b.WriteString("  none\n")
	}
	for _, view := range req.Views {
		fmt.Fprintf(&b, "- %s: %s shares, avg cost %s, status %s",
			view.Ticker, view.TotalQuantity, view.AverageCost, view.LockStatus)
		if price, ok := req.Prices[view.Ticker]; ok {
			fmt.Fprintf(&b, ", current price %s, P&L %+.2f%%",
				price, compass.PnLPercent(view.AverageCost, price))
		}
		b.WriteString("\n")
		for i, lot := range view.Lots {
			state := "SELLABLE"
			if !lot.Sellable {
				state = fmt.Sprintf("LOCKED until %s", lot.UnlockDate)
			}
			fmt.Fprintf(&b, "    lot %d: %s shares @ %s, held %d days, %s\n",
				i+1, lot.Quantity, lot.Price, lot.DaysHeld, state)
		}
	}
	b.WriteString("\n")

	if len(req.Prices) > 0 {
		b.WriteString("CURRENT PRICES:\n")
		tickers := make([]string, 0, len(req.Prices))
		for t := range req.Prices {
			tickers = append(tickers, t)
		}
		sort.Strings(tickers)
		for _, t := range tickers {
			fmt.Fprintf(&b, "- %s: %s\n", t, req.Prices[t])
		}
		b.WriteString("\n")
	}

	b.WriteString("PRIOR NARRATIVES:\n")
	b.WriteString(req.Narratives)
	b.WriteString("\n\n")

	b.WriteString(`HARD RULES:
- A position marked LOCKED cannot be sold. Never propose selling it.
- List actions in execution order: a SELL that funds a BUY must come first.
- State expected_proceeds for every SELL and cash_source for every BUY.

Reply with a single JSON object:
{
  "market_outlook": "one short paragraph",
  "actions": [
    {"type": "BUY|SELL|HOLD", "ticker": "XYZ", "amount": "$500 or N shares or all shares",
     "expected_proceeds": "$0", "cash_source": "existing cash", "reasoning": "..."}
  ],
  "narrative_updates": {
    "XYZ": {"add": [{"theme": "snake_case_theme", "summary": "...", "impact": "positive|negative|neutral"}],
             "update": [], "resolve": []}
  }
}
`)
	return b.String()
}
