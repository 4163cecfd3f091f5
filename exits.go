package compass

import "fmt"

// ExitThresholds are the configured stop-loss and profit-target levels,
// expressed as percentages. StopLossPercent is negative (e.g. -10),
// ProfitTargetPercent positive (e.g. 20).
type ExitThresholds struct {
	StopLossPercent     float64
	ProfitTargetPercent float64
}

// ExitRecommendation is the advisory outcome of an exit evaluation.
type ExitRecommendation string

const (
	ExitHold         ExitRecommendation = "HOLD"
	ExitHoldLocked   ExitRecommendation = "HOLD (LOCKED)"
	ExitConsiderExit ExitRecommendation = "CONSIDER EXIT"
)

// ExitReport carries the signals and warnings produced for one position.
// Signals drive recommended actions; warnings are informational only, they
// fire when a threshold is hit on a lot that cannot be sold yet.
type ExitReport struct {
	Ticker         string
	PnLPercent     float64 // position-level, against blended average cost
	Signals        []string
	Warnings       []string
	Recommendation ExitRecommendation
}

// EvaluateExits checks a consolidated position against stop-loss and
// profit-target thresholds at both position and per-lot granularity. Per-lot
// evaluation matters: a single ticker may have some lots deeply profitable
// and others underwater. The evaluator never mutates anything; it is
// advisory.
func EvaluateExits(view ConsolidatedView, currentPrice Money, cfg ExitThresholds) ExitReport {
	report := ExitReport{
		Ticker:     view.Ticker,
		PnLPercent: PnLPercent(view.AverageCost, currentPrice),
	}

	for i, lot := range view.Lots {
		pnl := PnLPercent(lot.Price, currentPrice)

		if pnl <= cfg.StopLossPercent {
			msg := fmt.Sprintf("STOP LOSS lot %d: %s shares @ %s, P&L %+.2f%% (threshold %+.0f%%)",
				i+1, lot.Quantity, lot.Price, pnl, cfg.StopLossPercent)
			if lot.Sellable {
				report.Signals = append(report.Signals, msg)
			} else {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("%s - cannot execute, locked until %s", msg, lot.UnlockDate))
			}
		}

		if pnl >= cfg.ProfitTargetPercent {
			msg := fmt.Sprintf("PROFIT TARGET lot %d: %s shares @ %s, P&L %+.2f%% (threshold %+.0f%%)",
				i+1, lot.Quantity, lot.Price, pnl, cfg.ProfitTargetPercent)
			if lot.Sellable {
				report.Signals = append(report.Signals, msg)
			} else {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("%s - cannot execute, locked until %s", msg, lot.UnlockDate))
			}
		}
	}

	switch {
	case view.LockStatus == Locked:
		report.Recommendation = ExitHoldLocked
	case len(report.Signals) > 0:
		report.Recommendation = ExitConsiderExit
	default:
		report.Recommendation = ExitHold
	}
	return report
}

// SwapCost details the economics of selling one position to fund another.
type SwapCost struct {
	Proceeds        Money
	Fees            Money // both legs
	AvailableForBuy Money
	NewQuantity     Quantity // whole shares only
	LeftoverCash    Money
}

// CalculateSwapCost computes proceeds, double transaction fee, the whole
// number of shares purchasable and the leftover cash for a SELL then BUY
// swap.
func CalculateSwapCost(sellQuantity Quantity, sellPrice, buyPrice, fee Money) SwapCost {
	proceeds := sellPrice.Mul(sellQuantity)
	fees := fee.Add(fee)
	available := proceeds.Sub(fees)

	var newQuantity Quantity
	if buyPrice.IsPositive() {
		newQuantity = available.DivPrice(buyPrice).Floor()
	}
	if newQuantity.IsNegative() {
		newQuantity = Q(0)
	}
	return SwapCost{
		Proceeds:        proceeds,
		Fees:            fees,
		AvailableForBuy: available,
		NewQuantity:     newQuantity,
		LeftoverCash:    available.Sub(buyPrice.Mul(newQuantity)),
	}
}
