package compass

import (
	"errors"
	"fmt"
)

// Portfolio is the durable state across runs: held positions and available
// cash. It is mutated only by confirmed trades.
type Portfolio struct {
	Positions   []Position `json:"positions"`
	Cash        Money      `json:"cash_available"`
	LastUpdated Date       `json:"last_updated"`
}

// NewPortfolio returns an empty portfolio with the given starting cash.
func NewPortfolio(cash Money) *Portfolio {
	return &Portfolio{Positions: []Position{}, Cash: cash}
}

// Position returns a pointer to the position for ticker, or nil if not held.
func (p *Portfolio) Position(ticker string) *Position {
	for i := range p.Positions {
		if p.Positions[i].Ticker == ticker {
			return &p.Positions[i]
		}
	}
	return nil
}

// Tickers returns the held tickers in portfolio order.
func (p *Portfolio) Tickers() []string {
	tickers := make([]string, 0, len(p.Positions))
	for _, pos := range p.Positions {
		tickers = append(tickers, pos.Ticker)
	}
	return tickers
}

// Validate reports all structural problems with the portfolio. A portfolio
// with any problem is rejected before processing; there is no partial run
// over malformed state.
func (p *Portfolio) Validate() error {
	var errs []error
	if p.Cash.IsNegative() {
		errs = append(errs, fmt.Errorf("cash_available cannot be negative, got %s", p.Cash))
	}
	seen := make(map[string]bool)
	for i, pos := range p.Positions {
		for _, err := range pos.Validate() {
			errs = append(errs, fmt.Errorf("position %d (%s): %w", i+1, pos.Ticker, err))
		}
		if seen[pos.Ticker] {
			errs = append(errs, fmt.Errorf("position %d: duplicate ticker %q, use the lots array for multiple purchases", i+1, pos.Ticker))
		}
		seen[pos.Ticker] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("portfolio validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// AddCash increments the available cash.
func (p *Portfolio) AddCash(amount Money) {
	p.Cash = p.Cash.Add(amount)
}

// RecordBuy appends a new lot to the ticker's position, creating the
// position on a first buy, and debits quantity x price from cash. Cash is
// floored at zero: the trade happened outside the tool, a shortfall means
// the recorded cash was stale, not that the trade is void.
func (p *Portfolio) RecordBuy(ticker string, quantity Quantity, price Money, on Date) {
	lot := Lot{Quantity: quantity, Price: price, Date: on}
	pos := p.Position(ticker)
	if pos == nil {
		p.Positions = append(p.Positions, Position{Ticker: ticker, Lots: []Lot{lot}})
		pos = p.Position(ticker)
	} else {
		pos.Lots = append(pos.Lots, lot)
	}
	pos.sortLots()

	p.Cash = p.Cash.Sub(price.Mul(quantity))
	if p.Cash.IsNegative() {
		p.Cash = USD(0)
	}
}

// RecordSell removes quantity shares from the ticker's position oldest lot
// first, credits quantity x price to cash, and drops the position once all
// lots are gone. Selling more than held is an error and leaves the
// portfolio untouched.
func (p *Portfolio) RecordSell(ticker string, quantity Quantity, price Money) error {
	pos := p.Position(ticker)
	if pos == nil {
		return fmt.Errorf("no position held for %s", ticker)
	}
	held := pos.TotalQuantity()
	if quantity.GreaterThan(held) {
		return fmt.Errorf("cannot sell %s shares of %s, only %s held", quantity, ticker, held)
	}

	pos.sortLots()
	pos.Lots = reduceFIFO(pos.Lots, quantity)
	p.Cash = p.Cash.Add(price.Mul(quantity))

	if len(pos.Lots) == 0 {
		p.removePosition(ticker)
	}
	return nil
}

func (p *Portfolio) removePosition(ticker string) {
	for i := range p.Positions {
		if p.Positions[i].Ticker == ticker {
			p.Positions = append(p.Positions[:i], p.Positions[i+1:]...)
			return
		}
	}
}
