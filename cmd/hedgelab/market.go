package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ipveka/HedgeLab/internal/report"
)

// marketCmd holds the flags for the 'market' subcommand.
type marketCmd struct {
	config string
}

func (*marketCmd) Name() string     { return "market" }
func (*marketCmd) Synopsis() string { return "show market indices and treasury rates" }
func (*marketCmd) Usage() string {
	return `hedgelab market

  Prints the major index levels and treasury yields.
`
}

func (c *marketCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "Path to config file")
}

func (c *marketCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp(c.config, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	indices, err := a.Provider.MarketIndices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Print(report.FormatQuotes("market indices", indices, true))

	rates, err := a.Provider.TreasuryRates()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println()
	fmt.Print(report.FormatQuotes("treasury yields", rates, false))
	return subcommands.ExitSuccess
}
