// Package renderer produces the markdown dashboards the CLI prints.
// Rendering is presentation only: every number shown here was computed by
// the compass core beforehand.
package renderer

import (
	"fmt"
	"strings"

	compass "github.com/Toblerones/InvestCompass"
)

// Context bundles the read-only state a dashboard is rendered from.
type Context struct {
	Today   compass.Date
	Cash    compass.Money
	Views   []compass.ConsolidatedView
	Prices  map[string]compass.Money
	Reports map[string]compass.ExitReport // keyed by ticker
	Summary compass.LockSummary
}

// Dashboard renders the full advisory dashboard: positions, lock summary,
// exit signals, the validated recommendation and the confirmation hint.
func Dashboard(ctx Context, outlook string, actions []compass.Action) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Portfolio Advisor — %s\n\n", ctx.Today)
	writePositions(&b, ctx)

	if outlook != "" {
		b.WriteString("## Market Outlook\n\n")
		b.WriteString(outlook)
		b.WriteString("\n\n")
	}

	b.WriteString("## Recommended Actions\n\n")
	if len(actions) == 0 {
		b.WriteString("No actions recommended.\n\n")
	}
	for i, action := range actions {
		writeAction(&b, i+1, action)
	}

	b.WriteString("---\n")
	b.WriteString("*Review all recommendations before executing trades. ")
	b.WriteString("Run `compass confirm` after executing.*\n")
	return b.String()
}

// QuickCheck renders the abbreviated status for `compass check`: lock tags,
// P&L and critical signals only, no recommendation section.
func QuickCheck(ctx Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Quick Portfolio Check — %s\n\n", ctx.Today)

	if len(ctx.Views) == 0 {
		b.WriteString("No positions currently held.\n")
		return b.String()
	}
	writePositions(&b, ctx)

	hasSignals := false
	for _, r := range ctx.Reports {
		if len(r.Signals) > 0 {
			hasSignals = true
			break
		}
	}
	b.WriteString("## Assessment\n\n")
	if hasSignals {
		b.WriteString("**Action may be needed** — run the full analysis.\n")
	} else {
		b.WriteString("All positions stable — continue holding.\n")
	}
	return b.String()
}

func writePositions(b *strings.Builder, ctx Context) {
	b.WriteString("## Positions\n\n")
	fmt.Fprintf(b, "Cash available: **%s**", ctx.Cash)
	if parts := lockParts(ctx.Summary); parts != "" {
		fmt.Fprintf(b, " · %s", parts)
	}
	if !ctx.Summary.NextUnlock.IsZero() {
		fmt.Fprintf(b, " · next unlock %s", ctx.Summary.NextUnlock)
	}
	b.WriteString("\n\n")

	if len(ctx.Views) == 0 {
		b.WriteString("No positions currently held.\n\n")
		return
	}

	b.WriteString("| Ticker | Shares | Avg Cost | Price | P&L | Status |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, view := range ctx.Views {
		price, hasPrice := ctx.Prices[view.Ticker]
		priceStr, pnlStr := "—", "—"
		if hasPrice {
			priceStr = price.String()
			pnlStr = fmt.Sprintf("%+.2f%%", compass.PnLPercent(view.AverageCost, price))
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
			view.Ticker, view.TotalQuantity, view.AverageCost, priceStr, pnlStr, lockTag(view))
	}
	b.WriteString("\n")

	for _, view := range ctx.Views {
		report, ok := ctx.Reports[view.Ticker]
		if !ok {
			continue
		}
		for _, signal := range report.Signals {
			fmt.Fprintf(b, "- ⚠ **%s**: %s\n", view.Ticker, signal)
		}
		for _, warning := range report.Warnings {
			fmt.Fprintf(b, "- %s: %s\n", view.Ticker, warning)
		}
	}
	b.WriteString("\n")
}

func writeAction(b *strings.Builder, n int, action compass.Action) {
	fmt.Fprintf(b, "**%d. %s %s**", n, action.Type, action.Ticker)
	if action.Amount != "" {
		fmt.Fprintf(b, " — %s", action.Amount)
	}
	b.WriteString("\n\n")

	if !action.Valid {
		fmt.Fprintf(b, "> ❌ REJECTED: %s\n\n", action.Err)
	} else if action.Warning != "" {
		fmt.Fprintf(b, "> ⚠ %s\n\n", action.Warning)
	}
	if action.Reasoning != "" {
		fmt.Fprintf(b, "%s\n\n", action.Reasoning)
	}
}

// lockTag is the compact status marker used in tables: OK, PART or LOCK,
// with the sellable split for partial locks.
func lockTag(view compass.ConsolidatedView) string {
	switch view.LockStatus {
	case compass.Sellable:
		return "OK"
	case compass.PartialLock:
		return fmt.Sprintf("PART (%s of %s sellable)", view.SellableQuantity, view.TotalQuantity)
	default:
		return fmt.Sprintf("LOCK (until %s)", view.NextUnlock)
	}
}

func lockParts(s compass.LockSummary) string {
	var parts []string
	if s.Sellable > 0 {
		parts = append(parts, fmt.Sprintf("%d sellable", s.Sellable))
	}
	if s.Partial > 0 {
		parts = append(parts, fmt.Sprintf("%d partial", s.Partial))
	}
	if s.Locked > 0 {
		parts = append(parts, fmt.Sprintf("%d locked", s.Locked))
	}
	return strings.Join(parts, ", ")
}

// Swap renders the economics of funding a BUY from a SELL.
func Swap(sellTicker, buyTicker string, cost compass.SwapCost) string {
	return fmt.Sprintf("Selling %s yields %s (%s after fees %s): %s shares of %s, leftover %s",
		sellTicker, cost.Proceeds, cost.AvailableForBuy, cost.Fees,
		cost.NewQuantity, buyTicker, cost.LeftoverCash)
}
