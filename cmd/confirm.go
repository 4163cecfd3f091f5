package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	compass "github.com/Toblerones/InvestCompass"
)

// confirmCmd records executed trades, either from its arguments or from an
// interactive prompt loop. The portfolio file is rewritten only when at
// least one trade applied cleanly.
type confirmCmd struct{}

func (*confirmCmd) Name() string     { return "confirm" }
func (*confirmCmd) Synopsis() string { return "Record executed trades in the portfolio." }
func (*confirmCmd) Usage() string {
	return `confirm ["sold NVDA 3 shares at 500"]:
  Record one trade given as an argument, or enter an interactive loop.
  Recognized shapes:
    add cash <amount>
    sold <TICKER> <qty> shares at <price>
    bought <TICKER> <qty> shares at <price> [on <date>]
  End the loop with "done" or EOF.
`
}
func (*confirmCmd) SetFlags(f *flag.FlagSet) {}

func (c *confirmCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	p, err := compass.LoadPortfolio(*portfolioFile)
	if err != nil {
		return fail(err)
	}
	today := compass.Today()

	applied := 0
	apply := func(input string) {
		cmd, err := compass.ParseTradeCommand(input, today)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		msg, err := p.Apply(cmd)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return
		}
		fmt.Println(msg)
		applied++
	}

	if f.NArg() > 0 {
		apply(strings.Join(f.Args(), " "))
	} else {
		fmt.Println(`Enter executed trades one per line ("done" to finish):`)
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if strings.EqualFold(line, "done") {
				break
			}
			apply(line)
		}
	}

	if applied == 0 {
		fmt.Println("No trades recorded, portfolio unchanged.")
		return subcommands.ExitSuccess
	}
	if err := compass.SavePortfolio(*portfolioFile, p); err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded %d trade(s), portfolio saved.\n", applied)
	return subcommands.ExitSuccess
}
