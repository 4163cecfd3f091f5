package compass

import (
	"fmt"
	"strings"
)

// ActionType is the kind of trade an external recommendation proposes.
type ActionType string

const (
	ActionBuy  ActionType = "BUY"
	ActionSell ActionType = "SELL"
	ActionHold ActionType = "HOLD"
)

// ParseActionType normalizes a free-form action type string.
func ParseActionType(s string) (ActionType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return ActionBuy, nil
	case "SELL":
		return ActionSell, nil
	case "HOLD":
		return ActionHold, nil
	default:
		return "", fmt.Errorf("unknown action type %q", s)
	}
}

// Action is one proposed trade from the recommendation source. The source
// is untrusted: it may hallucinate numbers or violate the hold rule, so
// every action passes through ValidateActions before it is shown or acted
// upon. The Valid/Err/Warning fields are filled in by the validator.
type Action struct {
	Type             ActionType `json:"type"`
	Ticker           string     `json:"ticker"`
	Amount           string     `json:"amount,omitempty"` // free-form: "$500", "3 shares", "all shares"
	ExpectedProceeds string     `json:"expected_proceeds,omitempty"`
	CashSource       string     `json:"cash_source,omitempty"`
	Reasoning        string     `json:"reasoning,omitempty"`

	Valid   bool   `json:"-"`
	Err     string `json:"-"`
	Warning string `json:"-"`
}

// ValidationPolicy holds the tolerances the validator applies to monetary
// estimates from the recommendation source.
type ValidationPolicy struct {
	// ProceedsTolerance is the maximum absolute difference between claimed
	// and computed SELL proceeds before a warning is attached.
	ProceedsTolerance Money
	// CashBuffer is the rounding slack granted to BUY amounts over the
	// running cash before a shortfall warning is attached.
	CashBuffer Money
}

// DefaultValidationPolicy mirrors the historical fixed values.
func DefaultValidationPolicy() ValidationPolicy {
	return ValidationPolicy{
		ProceedsTolerance: USD(50),
		CashBuffer:        USD(10),
	}
}

// MarketContext is everything the validator needs about the current state:
// consolidated positions, current prices, available cash and the per-trade
// fee. Prices and views are keyed by ticker.
type MarketContext struct {
	Views  map[string]ConsolidatedView
	Prices map[string]Money
	Cash   Money
	Fee    Money
}

// NewMarketContext indexes consolidated views by ticker.
func NewMarketContext(views []ConsolidatedView, prices map[string]Money, cash, fee Money) MarketContext {
	byTicker := make(map[string]ConsolidatedView, len(views))
	for _, v := range views {
		byTicker[v.Ticker] = v
	}
	return MarketContext{Views: byTicker, Prices: prices, Cash: cash, Fee: fee}
}

// ValidateActions enforces hard constraints and flags dubious estimates over
// an ordered batch of proposed actions, and returns the same actions in the
// same order, annotated.
//
// Processing is strictly sequential over the list as given: a SELL listed
// before a BUY is assumed to fund it, so the running cash accumulates each
// SELL's net proceeds before later BUYs are checked. The running total is
// discarded afterwards; its only purpose is to gate intra-batch BUY checks.
//
// A SELL on a locked position is a hard rejection. Monetary estimates from
// the untrusted source are only flagged: the human, not the program,
// executes trades.
func ValidateActions(actions []Action, ctx MarketContext, policy ValidationPolicy) []Action {
	runningCash := ctx.Cash

	out := make([]Action, len(actions))
	for i, action := range actions {
		switch action.Type {
		case ActionSell:
			runningCash = validateSell(&action, ctx, policy, runningCash)
		case ActionBuy:
			validateBuy(&action, policy, runningCash)
		default:
			// HOLD and anything unrecognized carries no executable risk.
			action.Valid = true
		}
		out[i] = action
	}
	return out
}

func validateSell(action *Action, ctx MarketContext, policy ValidationPolicy, runningCash Money) Money {
	view, held := ctx.Views[action.Ticker]
	if !held {
		action.Valid = false
		action.Err = fmt.Sprintf("no position held for %s", action.Ticker)
		return runningCash
	}

	// The FIFO minimum-hold rule is immutable: with nothing sellable the
	// action is rejected outright, whatever the price or quantity claims.
	if !view.SellableQuantity.IsPositive() {
		oldest := view.OldestLot()
		action.Valid = false
		action.Err = fmt.Sprintf("FIFO rule: %s is locked, oldest lot held %d days, unlocks on %s",
			action.Ticker, oldest.DaysHeld, view.NextUnlock)
		return runningCash
	}

	action.Valid = true

	price, havePrice := ctx.Prices[action.Ticker]
	if !havePrice {
		action.Warning = fmt.Sprintf("no current price for %s, proceeds not verified", action.Ticker)
		return runningCash
	}

	gross := price.Mul(view.TotalQuantity)
	net := gross.Sub(ctx.Fee)
	runningCash = runningCash.Add(net)

	// a claimed-proceeds mismatch is advisory: the human is alerted to
	// recompute, the action remains valid.
	if action.ExpectedProceeds != "" {
		if claimed, err := ParseAmount(action.ExpectedProceeds); err == nil {
			diff := claimed.Sub(net).Abs()
			if diff.GreaterThan(policy.ProceedsTolerance) {
				action.Warning = fmt.Sprintf("claimed proceeds %s differ from computed %s by %s",
					claimed, net, diff)
			}
		}
	}
	return runningCash
}

func validateBuy(action *Action, policy ValidationPolicy, runningCash Money) {
	// BUY actions are never hard-rejected on cash: the amount string is a
	// recommendation, not an executed order.
	action.Valid = true

	amount, err := ParseAmount(action.Amount)
	if err != nil {
		// amounts like "3 shares" or "all available" are not checkable here
		return
	}
	limit := runningCash.Add(policy.CashBuffer)
	if amount.GreaterThan(limit) {
		action.Warning = fmt.Sprintf("amount %s exceeds available cash %s (buffer %s)",
			amount, runningCash, policy.CashBuffer)
	}
}
