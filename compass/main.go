// Command compass is a personal portfolio advisor: it tracks lot-based
// holdings, enforces a minimum-hold rule, and turns model recommendations
// into a validated daily dashboard.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/phuslu/log"

	"github.com/Toblerones/InvestCompass/cmd"
)

func main() {
	// .env carries GEMINI_API_KEY for local use; absence is fine.
	godotenv.Load()

	log.DefaultLogger = log.Logger{
		Level:  log.InfoLevel,
		Writer: &log.ConsoleWriter{Writer: os.Stderr, ColorOutput: true},
	}
	if os.Getenv("COMPASS_DEBUG") != "" {
		log.DefaultLogger.Level = log.DebugLevel
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var status subcommands.ExitStatus
	if flag.NArg() == 0 {
		// bare invocation runs the full analysis
		fs := flag.NewFlagSet(cmd.Default.Name(), flag.ExitOnError)
		cmd.Default.SetFlags(fs)
		status = cmd.Default.Execute(ctx, fs)
	} else {
		status = commander.Execute(ctx)
	}
	if ctx.Err() != nil {
		os.Exit(130)
	}
	os.Exit(int(status))
}
