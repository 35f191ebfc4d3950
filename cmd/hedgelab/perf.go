package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ipveka/HedgeLab/internal/analytics"
	"github.com/ipveka/HedgeLab/internal/report"
)

// perfCmd holds the flags for the 'perf' subcommand.
type perfCmd struct {
	days   int
	config string
}

func (*perfCmd) Name() string     { return "perf" }
func (*perfCmd) Synopsis() string { return "portfolio performance statistics" }
func (*perfCmd) Usage() string {
	return `hedgelab perf [-days <n>]

  Computes return, volatility, Sharpe ratio, max drawdown, value at risk
  and win rate over the recorded daily snapshots.
`
}

func (c *perfCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 0, "Limit to the most recent n snapshots; 0 means all")
	f.StringVar(&c.config, "config", "", "Path to config file")
}

func (c *perfCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp(c.config, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	snaps, err := a.Store.Snapshots()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.days > 0 && len(snaps) > c.days {
		snaps = snaps[len(snaps)-c.days:]
	}
	if len(snaps) < 2 {
		fmt.Println("not enough snapshots recorded; run the watch daemon to accumulate history")
		return subcommands.ExitSuccess
	}

	fmt.Print(report.FormatPerformance(analytics.Summarize(snaps)))
	return subcommands.ExitSuccess
}
