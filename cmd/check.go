package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	compass "github.com/Toblerones/InvestCompass"
	"github.com/Toblerones/InvestCompass/renderer"
)

// checkCmd is the quick status check: lock state, P&L and critical exit
// signals only. It never calls the model.
type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "Quick portfolio status, no recommendation." }
func (*checkCmd) Usage() string {
	return `check:
  Print lock status, P&L and critical exit signals for held positions.
`
}
func (*checkCmd) SetFlags(f *flag.FlagSet) {}

func (*checkCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	p, err := compass.LoadPortfolio(*portfolioFile)
	if err != nil {
		return fail(err)
	}

	prices := compass.FetchQuotes(quoteProvider(cfg), p.Tickers())
	printMarkdown(renderer.QuickCheck(dashboardContext(cfg, p, prices)))
	return subcommands.ExitSuccess
}
