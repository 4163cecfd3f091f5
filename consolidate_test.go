package compass

import (
	"testing"
)

var consolidateToday = MustParseDate("2026-08-30")

func TestConsolidateSingleLot(t *testing.T) {
	positions := []Position{{Ticker: "NVDA", Lots: []Lot{
		lotOf(1.5, 465.95, "2026-07-26"), // 35 days ago
	}}}
	views := Consolidate(positions, 30, consolidateToday)
	if len(views) != 1 {
		t.Fatalf("views = %d, want 1", len(views))
	}
	v := views[0]

	if !v.TotalQuantity.Equal(Q(1.5)) {
		t.Errorf("total = %s", v.TotalQuantity)
	}
	// single lot: average cost equals the lot price exactly
	if !v.AverageCost.Equal(USD(465.95)) {
		t.Errorf("average cost = %s, want $465.95", v.AverageCost)
	}
	if v.LockStatus != Sellable {
		t.Errorf("status = %s, want SELLABLE", v.LockStatus)
	}
	if !v.NextUnlock.IsZero() {
		t.Errorf("fully sellable view must carry no unlock date, got %s", v.NextUnlock)
	}
	if v.Lots[0].DaysHeld != 35 {
		t.Errorf("days held = %d, want 35", v.Lots[0].DaysHeld)
	}
}

func TestConsolidatePartialLock(t *testing.T) {
	positions := []Position{{Ticker: "AAPL", Lots: []Lot{
		lotOf(2, 180, "2026-08-20"), // 10 days ago, locked
		lotOf(3, 170, "2026-06-01"), // 90 days ago, sellable
	}}}
	views := Consolidate(positions, 30, consolidateToday)
	v := views[0]

	if v.LockStatus != PartialLock {
		t.Fatalf("status = %s, want PARTIAL_LOCK", v.LockStatus)
	}
	if !v.SellableQuantity.Equal(Q(3)) || !v.LockedQuantity.Equal(Q(2)) {
		t.Errorf("split = %s sellable / %s locked, want 3/2", v.SellableQuantity, v.LockedQuantity)
	}
	// sellable + locked always equals total
	if !v.SellableQuantity.Add(v.LockedQuantity).Equal(v.TotalQuantity) {
		t.Errorf("sellable %s + locked %s != total %s", v.SellableQuantity, v.LockedQuantity, v.TotalQuantity)
	}
	// blended over all five shares: (2x180 + 3x170) / 5 = 174
	if !v.AverageCost.Equal(USD(174)) {
		t.Errorf("average cost = %s, want $174.00", v.AverageCost)
	}
	// unlock = purchase + minHoldDays
	if v.NextUnlock.String() != "2026-09-19" {
		t.Errorf("next unlock = %s, want 2026-09-19", v.NextUnlock)
	}
	// lots come back in FIFO order
	if v.OldestLot().Date.String() != "2026-06-01" {
		t.Errorf("oldest lot = %s", v.OldestLot().Date)
	}
}

func TestConsolidateLocked(t *testing.T) {
	positions := []Position{{Ticker: "MSFT", Lots: []Lot{
		lotOf(1, 400, "2026-08-25"),
	}}}
	v := Consolidate(positions, 30, consolidateToday)[0]

	if v.LockStatus != Locked {
		t.Errorf("status = %s, want LOCKED", v.LockStatus)
	}
	if v.Lots[0].DaysUntilSellable != 25 {
		t.Errorf("days until sellable = %d, want 25", v.Lots[0].DaysUntilSellable)
	}
	if v.NextUnlock.String() != "2026-09-24" {
		t.Errorf("next unlock = %s, want 2026-09-24", v.NextUnlock)
	}
}

func TestConsolidateBoundaryDay(t *testing.T) {
	// exactly minHoldDays counts as sellable
	positions := []Position{{Ticker: "TSLA", Lots: []Lot{
		lotOf(1, 200, "2026-07-31"), // exactly 30 days
	}}}
	v := Consolidate(positions, 30, consolidateToday)[0]
	if v.LockStatus != Sellable {
		t.Errorf("lot held exactly 30 days must be sellable, got %s", v.LockStatus)
	}
}

func TestConsolidateSkipsEmptyPositions(t *testing.T) {
	positions := []Position{
		{Ticker: "GONE", Lots: nil},
		{Ticker: "NVDA", Lots: []Lot{lotOf(1, 100, "2026-01-01")}},
	}
	views := Consolidate(positions, 30, consolidateToday)
	if len(views) != 1 || views[0].Ticker != "NVDA" {
		t.Errorf("views = %+v, want only NVDA", views)
	}
}

func TestConsolidateIdempotent(t *testing.T) {
	positions := []Position{{Ticker: "AAPL", Lots: []Lot{
		lotOf(2, 180, "2026-08-20"),
		lotOf(3, 170, "2026-06-01"),
	}}}
	a := Consolidate(positions, 30, consolidateToday)
	b := Consolidate(positions, 30, consolidateToday)
	if a[0].LockStatus != b[0].LockStatus || !a[0].AverageCost.Equal(b[0].AverageCost) ||
		!a[0].SellableQuantity.Equal(b[0].SellableQuantity) {
		t.Error("consolidation is not deterministic over the same input")
	}
}

func TestSummarize(t *testing.T) {
	positions := []Position{
		{Ticker: "NVDA", Lots: []Lot{lotOf(1, 100, "2026-01-01")}}, // sellable
		{Ticker: "AAPL", Lots: []Lot{
			lotOf(1, 100, "2026-08-25"), // locked, unlocks 09-24
			lotOf(1, 100, "2026-01-01"),
		}}, // partial
		{Ticker: "MSFT", Lots: []Lot{lotOf(1, 100, "2026-08-28")}}, // locked, unlocks 09-27
	}
	s := Summarize(Consolidate(positions, 30, consolidateToday))

	if s.Sellable != 1 || s.Partial != 1 || s.Locked != 1 {
		t.Errorf("summary = %+v", s)
	}
	if s.NextUnlock.String() != "2026-09-24" {
		t.Errorf("next unlock = %s, want the earliest 2026-09-24", s.NextUnlock)
	}
}
