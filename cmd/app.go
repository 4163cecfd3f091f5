// Package cmd implements the CLI application of the portfolio advisor.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/phuslu/log"

	compass "github.com/Toblerones/InvestCompass"
	"github.com/Toblerones/InvestCompass/renderer"
)

// Commands lists every subcommand the binary registers.
var Commands = []subcommands.Command{
	&runCmd{},
	&checkCmd{},
	&confirmCmd{},
	&initCmd{},
	&narrativesCmd{},
}

// Default is the command executed when the binary is invoked without a
// subcommand: the full analysis.
var Default subcommands.Command = &runCmd{attempts: 3}

// as a CLI application with a very short lifecycle, shared file locations
// are plain flags.
var (
	configFile     = flag.String("config", "config.toml", "Path to the advisor config file")
	portfolioFile  = flag.String("portfolio-file", "portfolio.json", "Path to the portfolio state file")
	narrativesFile = flag.String("narratives-file", "narratives.json", "Path to the narratives store file")
	strategyFile   = flag.String("strategy-file", "strategy.txt", "Path to the strategy principles file")
)

// loadConfig loads and validates the config, printing non-fatal warnings.
func loadConfig() (compass.Config, error) {
	cfg, warnings, err := compass.LoadConfig(*configFile)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "config warning: %s\n", w)
	}
	return cfg, err
}

// loadStrategy reads the strategy principles. A missing file is not fatal;
// the prompt simply carries no extra principles.
func loadStrategy() string {
	raw, err := os.ReadFile(*strategyFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("could not read strategy file")
		}
		return ""
	}
	return string(raw)
}

// quoteProvider builds the provider from config: the ls-tc intraday
// fetcher when instrument ids are configured, otherwise no quotes.
func quoteProvider(cfg compass.Config) compass.QuoteProvider {
	if len(cfg.Instruments) > 0 {
		return compass.NewLSQuotes(cfg.Instruments)
	}
	return compass.StaticQuotes{}
}

// dashboardContext assembles the render context shared by run and check.
func dashboardContext(cfg compass.Config, p *compass.Portfolio, prices map[string]compass.Money) renderer.Context {
	today := compass.Today()
	views := compass.Consolidate(p.Positions, cfg.MinHoldDays, today)

	reports := make(map[string]compass.ExitReport, len(views))
	for _, view := range views {
		price, ok := prices[view.Ticker]
		if !ok {
			continue
		}
		reports[view.Ticker] = compass.EvaluateExits(view, price, cfg.Thresholds())
	}

	return renderer.Context{
		Today:   today,
		Cash:    p.Cash,
		Views:   views,
		Prices:  prices,
		Reports: reports,
		Summary: compass.Summarize(views),
	}
}

// printMarkdown renders markdown for the terminal.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// fall back to the raw markdown
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
