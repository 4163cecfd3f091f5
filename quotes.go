package compass

import (
	"fmt"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
)

// QuoteProvider is the narrow boundary through which current prices reach
// the core. The core never fetches; prices are injected through this
// interface once per run.
type QuoteProvider interface {
	// Latest returns the most recent price for a ticker.
	Latest(ticker string) (Money, error)
}

// StaticQuotes is a fixed ticker-to-price map. Used for tests and for
// price snapshots supplied by hand.
type StaticQuotes map[string]Money

func (q StaticQuotes) Latest(ticker string) (Money, error) {
	price, ok := q[ticker]
	if !ok {
		return Money{}, fmt.Errorf("no quote for %s", ticker)
	}
	return price, nil
}

// FetchQuotes resolves prices for the given tickers, skipping tickers the
// provider does not know. Missing prices are not fatal: the validator and
// dashboard degrade gracefully without them.
func FetchQuotes(provider QuoteProvider, tickers []string) map[string]Money {
	prices := make(map[string]Money, len(tickers))
	for _, ticker := range tickers {
		price, err := provider.Latest(ticker)
		if err != nil {
			continue
		}
		prices[ticker] = price
	}
	return prices
}

// lsChartPath extracts the last intraday data point's value from the
// ls-tc.de mini chart payload.
const lsChartPath = "$.series.intraday.data[-1:][1]"

// LSQuotes fetches intraday quotes from the ls-tc.de chart endpoint. Each
// watched ticker maps to an ls-tc instrument id.
type LSQuotes struct {
	Instruments map[string]int // ticker -> instrumentId
	client      *http.Client
}

// NewLSQuotes builds a provider with a daily-expiring disk cache client.
func NewLSQuotes(instruments map[string]int) *LSQuotes {
	return &LSQuotes{Instruments: instruments, client: dailyClient()}
}

func (p *LSQuotes) Latest(ticker string) (Money, error) {
	id, ok := p.Instruments[ticker]
	if !ok {
		return Money{}, fmt.Errorf("no instrument id configured for %s", ticker)
	}
	addr := fmt.Sprintf("https://www.ls-tc.de/_rpc/json/instrument/chart/dataForInstrument?instrumentId=%d&series=intraday&type=mini", id)

	var jobj any
	if err := jwget(p.client, addr, &jobj); err != nil {
		return Money{}, fmt.Errorf("error fetching quote for %s: %w", ticker, err)
	}
	jval, err := jsonpath.Get(lsChartPath, jobj)
	if err != nil {
		return Money{}, fmt.Errorf("error extracting quote for %s: %w", ticker, err)
	}
	// jsonpath may return a single value or a list of one
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	value, ok := jval.(float64)
	if !ok {
		return Money{}, fmt.Errorf("unexpected quote payload for %s: %T", ticker, jval)
	}
	return USD(value), nil
}
