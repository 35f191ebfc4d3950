package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/ipveka/HedgeLab/internal/model"
	"github.com/ipveka/HedgeLab/internal/report"
	"github.com/ipveka/HedgeLab/internal/scanner"
)

// scanCmd holds the flags for the 'scan' subcommand.
type scanCmd struct {
	strategy    string
	symbols     string
	minStrength float64
	config      string
	record      bool
	history     int
}

func (*scanCmd) Name() string     { return "scan" }
func (*scanCmd) Synopsis() string { return "scan the watchlist for opportunities" }
func (*scanCmd) Usage() string {
	return `hedgelab scan [-strategy <name>] [-symbols A,B,C] [-min <strength>] [-record]
hedgelab scan -history 20 [-strategy <name>]

  Runs one strategy (technical, value, growth, momentum) over the watchlist
  and prints the hits ranked by signal strength. With -history, prints the
  most recent stored results instead.
`
}

func (c *scanCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.strategy, "strategy", "", "Strategy to run; defaults to the configured one")
	f.StringVar(&c.symbols, "symbols", "", "Comma-separated symbols; defaults to the configured watchlist")
	f.Float64Var(&c.minStrength, "min", -1, "Minimum signal strength in [0,1]")
	f.StringVar(&c.config, "config", "", "Path to config file")
	f.BoolVar(&c.record, "record", false, "Persist results to the database")
	f.IntVar(&c.history, "history", 0, "Print the n most recent stored results instead of scanning")
}

func (c *scanCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp(c.config, c.record || c.history > 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if c.history > 0 {
		opps, err := a.Store.Opportunities(model.Strategy(c.strategy), c.history)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Print(report.FormatOpportunities(model.Strategy(c.strategy), opps))
		return subcommands.ExitSuccess
	}

	name := c.strategy
	if name == "" {
		name = a.Config.Scan.Strategy
	}
	strategy, err := model.ParseStrategy(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	watchlist := a.Config.Scan.Watchlist
	if c.symbols != "" {
		watchlist = splitSymbols(c.symbols)
	}
	minStrength := c.minStrength
	if minStrength < 0 {
		minStrength = a.Config.Scan.MinStrength
	}

	opps, err := a.Scanner.Scan(strategy, watchlist, minStrength)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	scanner.SortByStrength(opps)
	fmt.Print(report.FormatOpportunities(strategy, opps))

	if c.record {
		for _, o := range opps {
			if err := a.Store.InsertOpportunity(o); err != nil {
				fmt.Fprintf(os.Stderr, "Error recording %s: %v\n", o.Symbol, err)
				return subcommands.ExitFailure
			}
		}
	}
	return subcommands.ExitSuccess
}

func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
