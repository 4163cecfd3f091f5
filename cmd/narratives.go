package cmd

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/google/subcommands"

	compass "github.com/Toblerones/InvestCompass"
)

// narrativesCmd prints the tracked narratives as the model sees them.
type narrativesCmd struct{}

func (*narrativesCmd) Name() string     { return "narratives" }
func (*narrativesCmd) Synopsis() string { return "Show tracked narratives per ticker." }
func (*narrativesCmd) Usage() string {
	return `narratives [TICKER...]:
  Print the active and recently resolved narratives, for all tracked
  tickers or only the ones given.
`
}
func (*narrativesCmd) SetFlags(f *flag.FlagSet) {}

func (*narrativesCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	store := compass.LoadNarratives(*narrativesFile)
	today := compass.Today()

	tickers := make([]string, 0, f.NArg())
	for _, arg := range f.Args() {
		tickers = append(tickers, strings.ToUpper(arg))
	}
	if len(tickers) == 0 {
		for ticker := range store.Stocks {
			tickers = append(tickers, ticker)
		}
		sort.Strings(tickers)
	}

	fmt.Println(store.PromptContext(tickers, today))
	active, tracked := store.CountActive()
	fmt.Printf("\n%d active narrative(s) across %d ticker(s)\n", active, tracked)
	return subcommands.ExitSuccess
}
