package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/google/subcommands"
	"google.golang.org/genai"

	compass "github.com/Toblerones/InvestCompass"
	"github.com/Toblerones/InvestCompass/agent"
	"github.com/Toblerones/InvestCompass/renderer"
)

// runCmd is the default full analysis: consolidate holdings, evaluate exit
// signals, ask the model for recommendations, validate them, and render the
// dashboard.
type runCmd struct {
	attempts int
	offline  bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Run the full portfolio analysis and recommendation." }
func (*runCmd) Usage() string {
	return `run [-attempts N] [-offline]:
  Consolidate holdings, evaluate exit signals, ask the model for
  BUY/SELL/HOLD actions, validate them, and print the dashboard.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.attempts, "attempts", 3, "max recommendation attempts on transient failures")
	f.BoolVar(&c.offline, "offline", false, "skip the model call, show signals only")
}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	p, err := compass.LoadPortfolio(*portfolioFile)
	if err != nil {
		return fail(err)
	}

	prices := compass.FetchQuotes(quoteProvider(cfg), watchedTickers(cfg, p))
	dctx := dashboardContext(cfg, p, prices)

	if c.offline {
		printMarkdown(renderer.Dashboard(dctx, "", nil))
		return subcommands.ExitSuccess
	}

	narratives := compass.LoadNarratives(*narrativesFile)

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return fail(fmt.Errorf("could not create model client: %w", err))
	}
	source, err := agent.NewGemini(ctx, client, cfg.Model)
	if err != nil {
		return fail(err)
	}

	req := agent.Request{
		Strategy:   loadStrategy(),
		Watchlist:  cfg.Watchlist,
		Views:      dctx.Views,
		Prices:     prices,
		Cash:       p.Cash,
		Budget:     compass.USD(cfg.MonthlyBudget),
		Narratives: narratives.PromptContext(watchedTickers(cfg, p), dctx.Today),
	}
	rec, err := agent.Recommend(ctx, source, req, c.attempts)
	if err != nil {
		return fail(err)
	}

	mctx := compass.NewMarketContext(dctx.Views, prices, p.Cash, cfg.Fee())
	actions := compass.ValidateActions(rec.Actions, mctx, cfg.Policy())

	printMarkdown(renderer.Dashboard(dctx, rec.MarketOutlook, actions))
	if hint := swapHint(actions, dctx, cfg.Fee()); hint != "" {
		fmt.Println(hint)
	}

	narratives.ApplyUpdates(rec.NarrativeUpdates, dctx.Today)
	narratives.Prune(compass.PruneResolvedAfterDays, dctx.Today)
	if err := narratives.Save(*narrativesFile); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: could not save narratives:", err)
	}
	return subcommands.ExitSuccess
}

// swapHint spells out the economics of the first SELL-then-BUY pair in the
// recommendation: proceeds, both fees, shares purchasable and leftover.
func swapHint(actions []compass.Action, dctx renderer.Context, fee compass.Money) string {
	for i, sell := range actions {
		if sell.Type != compass.ActionSell || !sell.Valid {
			continue
		}
		sellPrice, ok := dctx.Prices[sell.Ticker]
		if !ok {
			continue
		}
		var held compass.Quantity
		for _, view := range dctx.Views {
			if view.Ticker == sell.Ticker {
				held = view.TotalQuantity
				break
			}
		}
		if !held.IsPositive() {
			continue
		}
		for _, buy := range actions[i+1:] {
			if buy.Type != compass.ActionBuy {
				continue
			}
			buyPrice, ok := dctx.Prices[buy.Ticker]
			if !ok {
				continue
			}
			cost := compass.CalculateSwapCost(held, sellPrice, buyPrice, fee)
			return renderer.Swap(sell.Ticker, buy.Ticker, cost)
		}
	}
	return ""
}

// watchedTickers is the union of held and watchlist tickers, sorted.
func watchedTickers(cfg compass.Config, p *compass.Portfolio) []string {
	seen := make(map[string]bool)
	for _, t := range p.Tickers() {
		seen[t] = true
	}
	for _, t := range cfg.Watchlist {
		seen[t] = true
	}
	tickers := make([]string, 0, len(seen))
	for t := range seen {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}
