package compass

import (
	"fmt"
	"strconv"
	"strings"
)

// TradeKind identifies the shape of a confirmed trade command.
type TradeKind int

const (
	TradeAddCash TradeKind = iota
	TradeBought
	TradeSold
)

// TradeCommand is the typed result of parsing a free-text trade
// confirmation.
type TradeCommand struct {
	Kind     TradeKind
	Ticker   string
	Quantity Quantity
	Price    Money
	Amount   Money // for add cash
	Date     Date  // for bought, defaults to today
}

// ErrUnparsedTrade is returned for input that matches no known command
// shape. The caller loops interactively, so this is an expected outcome,
// not a failure of the program.
type ErrUnparsedTrade struct {
	Input  string
	Reason string
}

func (e *ErrUnparsedTrade) Error() string {
	return fmt.Sprintf("could not parse trade confirmation %q: %s", e.Input, e.Reason)
}

// ParseTradeCommand interprets a free-text trade confirmation. Three shapes
// are recognized, case-insensitive and whitespace-tokenized:
//
//	add cash <amount>
//	sold <TICKER> <qty> shares at <price>
//	bought <TICKER> <qty> shares at <price> [on <date>]
//
// This is intentionally forgiving free-text parsing, not a structured
// grammar. Anything else returns *ErrUnparsedTrade.
func ParseTradeCommand(input string, today Date) (TradeCommand, error) {
	fields := strings.Fields(input)
	fail := func(reason string) (TradeCommand, error) {
		return TradeCommand{}, &ErrUnparsedTrade{Input: input, Reason: reason}
	}
	if len(fields) == 0 {
		return fail("empty input")
	}

	switch strings.ToLower(fields[0]) {
	case "add":
		if len(fields) < 3 || strings.ToLower(fields[1]) != "cash" {
			return fail(`want "add cash <amount>"`)
		}
		amount, err := ParseAmount(fields[2])
		if err != nil {
			return fail(err.Error())
		}
		return TradeCommand{Kind: TradeAddCash, Amount: amount}, nil

	case "sold", "bought":
		if len(fields) < 3 {
			return fail("want ticker and quantity")
		}
		ticker := strings.ToUpper(fields[1])
		if !isTicker(ticker) {
			return fail(fmt.Sprintf("invalid ticker %q", fields[1]))
		}
		qty, err := strconv.Atoi(fields[2])
		if err != nil || qty <= 0 {
			return fail(fmt.Sprintf("invalid quantity %q", fields[2]))
		}

		// locate the "at" keyword; the price immediately follows it.
		at := -1
		for i, f := range fields[3:] {
			if strings.ToLower(f) == "at" {
				at = i + 3
				break
			}
		}
		if at < 0 || at+1 >= len(fields) {
			return fail(`missing "at <price>"`)
		}
		price, err := ParseAmount(fields[at+1])
		if err != nil || !price.IsPositive() {
			return fail(fmt.Sprintf("invalid price %q", fields[at+1]))
		}

		cmd := TradeCommand{Ticker: ticker, Quantity: Q(qty), Price: price}
		if strings.ToLower(fields[0]) == "sold" {
			cmd.Kind = TradeSold
			return cmd, nil
		}

		cmd.Kind = TradeBought
		cmd.Date = today
		// optional trailing "on <date>"
		for i := at + 2; i+1 < len(fields); i++ {
			if strings.ToLower(fields[i]) == "on" {
				on, err := ParseDate(fields[i+1])
				if err != nil {
					return fail(err.Error())
				}
				cmd.Date = on
				break
			}
		}
		return cmd, nil
	}
	return fail(`want "add cash", "sold" or "bought"`)
}

// Apply mutates the portfolio with a confirmed trade and returns a
// human-readable confirmation message. A failed apply leaves the portfolio
// untouched.
func (p *Portfolio) Apply(cmd TradeCommand) (string, error) {
	switch cmd.Kind {
	case TradeAddCash:
		p.AddCash(cmd.Amount)
		return fmt.Sprintf("added %s, cash available %s", cmd.Amount, p.Cash), nil

	case TradeSold:
		if err := p.RecordSell(cmd.Ticker, cmd.Quantity, cmd.Price); err != nil {
			return "", err
		}
		proceeds := cmd.Price.Mul(cmd.Quantity)
		return fmt.Sprintf("sold %s %s at %s, credited %s, cash available %s",
			cmd.Quantity, cmd.Ticker, cmd.Price, proceeds, p.Cash), nil

	case TradeBought:
		p.RecordBuy(cmd.Ticker, cmd.Quantity, cmd.Price, cmd.Date)
		return fmt.Sprintf("bought %s %s at %s on %s, cash available %s",
			cmd.Quantity, cmd.Ticker, cmd.Price, cmd.Date, p.Cash), nil
	}
	return "", fmt.Errorf("unknown trade command kind %d", cmd.Kind)
}
