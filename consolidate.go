package compass

// LockStatus classifies a position against the minimum-hold rule.
type LockStatus string

const (
	// Sellable means every lot has met the minimum hold.
	Sellable LockStatus = "SELLABLE"
	// PartialLock means some lots are sellable and some are not.
	PartialLock LockStatus = "PARTIAL_LOCK"
	// Locked means no lot has met the minimum hold yet.
	Locked LockStatus = "LOCKED"
)

// LotDetail is a lot enriched with its hold-rule state on a given day.
type LotDetail struct {
	Lot
	DaysHeld          int
	Sellable          bool
	UnlockDate        Date
	DaysUntilSellable int
}

// ConsolidatedView is the read-only, per-ticker projection of a position:
// aggregate quantities, blended cost basis, and the sellable/locked split
// under the minimum-hold rule. It is recomputed fresh on each run.
type ConsolidatedView struct {
	Ticker           string
	TotalQuantity    Quantity
	AverageCost      Money
	SellableQuantity Quantity
	LockedQuantity   Quantity
	LockStatus       LockStatus
	NextUnlock       Date // zero when fully sellable
	Lots             []LotDetail
}

// OldestLot returns the first lot in FIFO order: the one consumed first on a
// sale. The view always has at least one lot.
func (v ConsolidatedView) OldestLot() LotDetail { return v.Lots[0] }

// Consolidate converts raw lot-based positions into consolidated views as of
// a given day. Positions with no lots are skipped: they are already fully
// sold, not an error. This is a pure, total function over well-formed input;
// malformed lots must be rejected upstream by Portfolio.Validate.
func Consolidate(positions []Position, minHoldDays int, today Date) []ConsolidatedView {
	views := make([]ConsolidatedView, 0, len(positions))
	for _, pos := range positions {
		if len(pos.Lots) == 0 {
			continue
		}
		pos.sortLots()

		view := ConsolidatedView{
			Ticker: pos.Ticker,
			Lots:   make([]LotDetail, 0, len(pos.Lots)),
		}
		var totalCost Money

		for _, lot := range pos.Lots {
			held := today.DaysSince(lot.Date)
			remaining := minHoldDays - held
			if remaining < 0 {
				remaining = 0
			}
			detail := LotDetail{
				Lot:               lot,
				DaysHeld:          held,
				Sellable:          held >= minHoldDays,
				UnlockDate:        lot.Date.Add(minHoldDays),
				DaysUntilSellable: remaining,
			}
			view.Lots = append(view.Lots, detail)

			view.TotalQuantity = view.TotalQuantity.Add(lot.Quantity)
			totalCost = totalCost.Add(lot.Cost())
			if detail.Sellable {
				view.SellableQuantity = view.SellableQuantity.Add(lot.Quantity)
			} else {
				view.LockedQuantity = view.LockedQuantity.Add(lot.Quantity)
				if view.NextUnlock.IsZero() || detail.UnlockDate.Before(view.NextUnlock) {
					view.NextUnlock = detail.UnlockDate
				}
			}
		}

		// average cost is blended over ALL lots, sellable or not: it is the
		// position-level cost basis, distinct from the oldest-lot price used
		// for FIFO-accurate sale proceeds.
		if view.TotalQuantity.IsPositive() {
			view.AverageCost = totalCost.Div(view.TotalQuantity)
		} else {
			view.AverageCost = USD(0)
		}

		switch {
		case view.SellableQuantity.GreaterOrEqual(view.TotalQuantity):
			view.LockStatus = Sellable
		case view.SellableQuantity.IsPositive():
			view.LockStatus = PartialLock
		default:
			view.LockStatus = Locked
		}

		views = append(views, view)
	}
	return views
}

// LockSummary counts views per lock status and finds the earliest unlock
// date across the whole portfolio. Used by the dashboard header.
type LockSummary struct {
	Sellable   int
	Partial    int
	Locked     int
	NextUnlock Date
}

// Summarize aggregates lock status over a set of consolidated views.
func Summarize(views []ConsolidatedView) LockSummary {
	var s LockSummary
	for _, v := range views {
		switch v.LockStatus {
		case Sellable:
			s.Sellable++
		case PartialLock:
			s.Partial++
		case Locked:
			s.Locked++
		}
		if !v.NextUnlock.IsZero() && (s.NextUnlock.IsZero() || v.NextUnlock.Before(s.NextUnlock)) {
			s.NextUnlock = v.NextUnlock
		}
	}
	return s
}
