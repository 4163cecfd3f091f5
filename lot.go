package compass

import (
	"fmt"
	"sort"
)

// Lot is a single purchase of a ticker: the atomic unit of cost basis.
// Lots are immutable after creation; a sale removes or reduces lot quantity,
// oldest first.
type Lot struct {
	Quantity Quantity `json:"quantity"`
	Price    Money    `json:"purchase_price"`
	Date     Date     `json:"purchase_date"`
	Notes    string   `json:"notes,omitempty"`
}

// Cost returns the total cost of the lot (quantity x price).
func (l Lot) Cost() Money { return l.Price.Mul(l.Quantity) }

// Validate reports all structural problems with the lot.
func (l Lot) Validate() []error {
	var errs []error
	if !l.Quantity.IsPositive() {
		errs = append(errs, fmt.Errorf("quantity must be positive, got %s", l.Quantity))
	}
	if !l.Price.IsPositive() {
		errs = append(errs, fmt.Errorf("purchase_price must be positive, got %s", l.Price))
	}
	if l.Date.IsZero() {
		errs = append(errs, fmt.Errorf("purchase_date is missing"))
	}
	return errs
}

// Position holds all purchase lots of one ticker.
type Position struct {
	Ticker string `json:"ticker"`
	Lots   []Lot  `json:"lots"`
}

// sortLots orders the position's lots ascending by purchase date (FIFO order).
// The sort is stable so same-day lots keep their recorded order.
func (p *Position) sortLots() {
	sort.SliceStable(p.Lots, func(i, j int) bool {
		return p.Lots[i].Date.Before(p.Lots[j].Date)
	})
}

// TotalQuantity sums the quantity over all lots.
func (p Position) TotalQuantity() Quantity {
	var total Quantity
	for _, l := range p.Lots {
		total = total.Add(l.Quantity)
	}
	return total
}

// Validate reports all structural problems with the position.
func (p Position) Validate() []error {
	var errs []error
	if p.Ticker == "" {
		errs = append(errs, fmt.Errorf("ticker is missing"))
	} else if !isTicker(p.Ticker) {
		errs = append(errs, fmt.Errorf("ticker %q must be uppercase letters only", p.Ticker))
	}
	if len(p.Lots) == 0 {
		errs = append(errs, fmt.Errorf("lots cannot be empty"))
	}
	for i, l := range p.Lots {
		for _, err := range l.Validate() {
			errs = append(errs, fmt.Errorf("lot %d: %w", i+1, err))
		}
	}
	return errs
}

// isTicker reports whether s looks like a ticker symbol: uppercase letters only.
func isTicker(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// reduceFIFO removes quantityToSell shares from the lots, consuming the
// oldest lots first. A partially consumed lot keeps its price and date.
// The lots must already be in FIFO order.
func reduceFIFO(lots []Lot, quantityToSell Quantity) []Lot {
	var remaining []Lot
	for _, current := range lots {
		if quantityToSell.IsZero() || quantityToSell.IsNegative() {
			remaining = append(remaining, current)
			continue
		}
		if current.Quantity.GreaterThan(quantityToSell) {
			// partial sale from this lot
			reduced := current
			reduced.Quantity = current.Quantity.Sub(quantityToSell)
			remaining = append(remaining, reduced)
			quantityToSell = Q(0)
		} else {
			// full sale of this lot
			quantityToSell = quantityToSell.Sub(current.Quantity)
		}
	}
	return remaining
}

// fifoCostOfSelling returns the cost basis of selling quantityToSell shares
// using FIFO. The lots must already be in FIFO order.
func fifoCostOfSelling(lots []Lot, quantityToSell Quantity) Money {
	var cost Money
	for _, current := range lots {
		if !quantityToSell.IsPositive() {
			break
		}
		if current.Quantity.GreaterThan(quantityToSell) {
			cost = cost.Add(current.Price.Mul(quantityToSell))
			return cost
		}
		cost = cost.Add(current.Cost())
		quantityToSell = quantityToSell.Sub(current.Quantity)
	}
	return cost
}
