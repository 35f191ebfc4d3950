package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/ipveka/HedgeLab/internal/report"
	"github.com/ipveka/HedgeLab/internal/scanner"
)

// infoCmd holds the flags for the 'info' subcommand.
type infoCmd struct {
	symbol string
	config string
}

func (*infoCmd) Name() string     { return "info" }
func (*infoCmd) Synopsis() string { return "show fundamentals and score for a symbol" }
func (*infoCmd) Usage() string {
	return `hedgelab info -symbol AAPL

  Prints a symbol's fundamental data and its 0-100 composite score.
`
}

func (c *infoCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "Ticker symbol")
	f.StringVar(&c.config, "config", "", "Path to config file")
}

func (c *infoCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		fmt.Fprintln(os.Stderr, "-symbol is required")
		return subcommands.ExitUsageError
	}
	a, err := newApp(c.config, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	info, err := a.Provider.GetInfo(strings.ToUpper(c.symbol))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Print(report.FormatStockInfo(info, scanner.FundamentalScore(info)))
	return subcommands.ExitSuccess
}
