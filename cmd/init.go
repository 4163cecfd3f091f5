package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	compass "github.com/Toblerones/InvestCompass"
)

// initCmd creates a starter config and an empty portfolio. Existing files
// are never overwritten.
type initCmd struct{}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "Create a starter config and an empty portfolio." }
func (*initCmd) Usage() string {
	return `init:
  Write a default config.toml and an empty portfolio.json. Files that
  already exist are left untouched.
`
}
func (*initCmd) SetFlags(f *flag.FlagSet) {}

func (*initCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if _, err := os.Stat(*configFile); os.IsNotExist(err) {
		cfg := compass.DefaultConfig()
		cfg.Watchlist = []string{"AAPL", "MSFT", "GOOGL"}
		if err := compass.SaveConfig(*configFile, cfg); err != nil {
			return fail(err)
		}
		fmt.Println("wrote", *configFile)
	} else {
		fmt.Println(*configFile, "already exists, skipping")
	}

	if _, err := os.Stat(*portfolioFile); os.IsNotExist(err) {
		if err := compass.SavePortfolio(*portfolioFile, compass.NewPortfolio(compass.USD(0))); err != nil {
			return fail(err)
		}
		fmt.Println("wrote", *portfolioFile)
	} else {
		fmt.Println(*portfolioFile, "already exists, skipping")
	}

	fmt.Println("Edit the watchlist in", *configFile, "then record holdings with `compass confirm`.")
	return subcommands.ExitSuccess
}
