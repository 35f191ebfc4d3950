package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"

	"github.com/ipveka/HedgeLab/internal/ledger"
	"github.com/ipveka/HedgeLab/internal/report"
)

// positionsCmd holds the flags for the 'positions' subcommand.
type positionsCmd struct {
	config string
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "show open positions and portfolio totals" }
func (*positionsCmd) Usage() string {
	return `hedgelab positions

  Prints every open position with its live price and unrealized P&L,
  followed by the portfolio totals.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "Path to config file")
}

func (c *positionsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp(c.config, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	positions := a.Ledger.Positions()
	prices := make(map[string]float64, len(positions))
	for _, p := range positions {
		price, err := a.Provider.CurrentPrice(p.Symbol)
		if err != nil {
			log.Printf("[WARN] price %s: %v", p.Symbol, err)
			continue
		}
		prices[p.Symbol] = price
	}

	fmt.Print(report.FormatPositions(positions, prices))
	if len(positions) > 0 {
		fmt.Println()
		fmt.Print(report.FormatValuation(ledger.Value(positions, prices)))
	}
	return subcommands.ExitSuccess
}
