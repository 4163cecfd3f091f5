package compass

import (
	"math"
	"strings"
	"testing"
)

var exitThresholds = ExitThresholds{StopLossPercent: -12, ProfitTargetPercent: 20}

func viewOf(t *testing.T, lots ...Lot) ConsolidatedView {
	t.Helper()
	views := Consolidate([]Position{{Ticker: "NVDA", Lots: lots}}, 30, consolidateToday)
	if len(views) != 1 {
		t.Fatalf("views = %d, want 1", len(views))
	}
	return views[0]
}

func TestEvaluateExitsHold(t *testing.T) {
	view := viewOf(t, lotOf(1.5, 465.95, "2026-07-26"))
	report := EvaluateExits(view, USD(500), exitThresholds)

	if math.Abs(report.PnLPercent-7.31) > 0.01 {
		t.Errorf("P&L = %.2f%%, want about +7.31%%", report.PnLPercent)
	}
	if len(report.Signals) != 0 || len(report.Warnings) != 0 {
		t.Errorf("no threshold crossed, got signals %v warnings %v", report.Signals, report.Warnings)
	}
	if report.Recommendation != ExitHold {
		t.Errorf("recommendation = %s, want HOLD", report.Recommendation)
	}
}

func TestEvaluateExitsStopLossSellable(t *testing.T) {
	view := viewOf(t, lotOf(2, 100, "2026-06-01"))
	report := EvaluateExits(view, USD(88), exitThresholds)

	if len(report.Signals) != 1 {
		t.Fatalf("signals = %v, want 1", report.Signals)
	}
	if !strings.Contains(report.Signals[0], "STOP LOSS") {
		t.Errorf("signal = %q", report.Signals[0])
	}
	if report.Recommendation != ExitConsiderExit {
		t.Errorf("recommendation = %s, want CONSIDER EXIT", report.Recommendation)
	}
}

func TestEvaluateExitsStopLossLocked(t *testing.T) {
	view := viewOf(t, lotOf(2, 100, "2026-08-20")) // 10 days held
	report := EvaluateExits(view, USD(88), exitThresholds)

	if len(report.Signals) != 0 {
		t.Errorf("locked lot must not produce signals, got %v", report.Signals)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("warnings = %v, want 1", report.Warnings)
	}
	if !strings.Contains(report.Warnings[0], "locked until 2026-09-19") {
		t.Errorf("warning = %q, want the unlock date", report.Warnings[0])
	}
	if report.Recommendation != ExitHoldLocked {
		t.Errorf("recommendation = %s, want HOLD (LOCKED)", report.Recommendation)
	}
}

func TestEvaluateExitsProfitTarget(t *testing.T) {
	view := viewOf(t, lotOf(1, 100, "2026-06-01"))
	report := EvaluateExits(view, USD(120), exitThresholds)

	if len(report.Signals) != 1 || !strings.Contains(report.Signals[0], "PROFIT TARGET") {
		t.Errorf("signals = %v, want one PROFIT TARGET", report.Signals)
	}
}

func TestEvaluateExitsPerLot(t *testing.T) {
	// one lot deeply profitable and sellable, one underwater and locked:
	// evaluation is per lot, not only on the blended average
	view := viewOf(t,
		lotOf(1, 100, "2026-06-01"), // +20% sellable
		lotOf(1, 140, "2026-08-20"), // -14.3% locked
	)
	report := EvaluateExits(view, USD(120), exitThresholds)

	if len(report.Signals) != 1 {
		t.Errorf("signals = %v, want the profit target only", report.Signals)
	}
	if len(report.Warnings) != 1 {
		t.Errorf("warnings = %v, want the locked stop loss only", report.Warnings)
	}
	if report.Recommendation != ExitConsiderExit {
		t.Errorf("recommendation = %s", report.Recommendation)
	}
}

func TestCalculateSwapCost(t *testing.T) {
	cost := CalculateSwapCost(Q(3), USD(500), USD(175.50), USD(10))

	if !cost.Proceeds.Equal(USD(1500)) {
		t.Errorf("proceeds = %s", cost.Proceeds)
	}
	if !cost.Fees.Equal(USD(20)) {
		t.Errorf("fees = %s, want both legs", cost.Fees)
	}
	if !cost.AvailableForBuy.Equal(USD(1480)) {
		t.Errorf("available = %s", cost.AvailableForBuy)
	}
	if !cost.NewQuantity.Equal(Q(8)) {
		t.Errorf("new quantity = %s, want 8 whole shares", cost.NewQuantity)
	}
	if !cost.LeftoverCash.Equal(USD(76)) {
		t.Errorf("leftover = %s, want $76.00", cost.LeftoverCash)
	}
}

func TestCalculateSwapCostFeesExceedProceeds(t *testing.T) {
	cost := CalculateSwapCost(Q(1), USD(15), USD(100), USD(10))
	if !cost.NewQuantity.IsZero() {
		t.Errorf("new quantity = %s, want 0", cost.NewQuantity)
	}
}
