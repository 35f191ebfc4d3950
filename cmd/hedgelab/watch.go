package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"github.com/ipveka/HedgeLab/internal/model"
	"github.com/ipveka/HedgeLab/internal/watcher"
)

// watchCmd holds the flags for the 'watch' subcommand.
type watchCmd struct {
	runOnStart bool
	config     string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "run the scheduled scan and snapshot daemon" }
func (*watchCmd) Usage() string {
	return `hedgelab watch [-now]

  Runs scheduled scans over the configured watchlist and records a daily
  portfolio snapshot. Stops on SIGINT or SIGTERM.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.runOnStart, "now", false, "Run a scan immediately on startup")
	f.StringVar(&c.config, "config", "", "Path to config file")
}

func (c *watchCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp(c.config, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	strategy, err := model.ParseStrategy(a.Config.Scan.Strategy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	w := watcher.New(a.Scanner, a.Provider, a.Ledger, a.Store,
		a.Config.Scan.Watchlist, []model.Strategy{strategy}, a.Config.Scan.MinStrength)
	if err := w.RegisterAll(a.Config.Schedule.ScanCron, a.Config.Schedule.SnapshotCron); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	w.Start()
	if c.runOnStart {
		w.RunScanNow()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("[INFO] received signal %v, shutting down", sig)
	w.Stop()
	return subcommands.ExitSuccess
}
