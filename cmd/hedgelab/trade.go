package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/ipveka/HedgeLab/internal/model"
)

// tradeCmd holds the flags for the 'trade' subcommand.
type tradeCmd struct {
	symbol string
	side   string
	qty    float64
	price  float64
	notes  string
	close  bool
	config string
}

func (*tradeCmd) Name() string     { return "trade" }
func (*tradeCmd) Synopsis() string { return "record a buy or sell" }
func (*tradeCmd) Usage() string {
	return `hedgelab trade -symbol AAPL -side buy -qty 100 -price 150.25 [-notes "..."]
hedgelab trade -symbol AAPL -close

  Logs a fill into the trade journal and prints the updated position.
  With -close, closes the whole position at the current market price.
`
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "Ticker symbol")
	f.StringVar(&c.side, "side", "", "buy or sell")
	f.Float64Var(&c.qty, "qty", 0, "Quantity of shares")
	f.Float64Var(&c.price, "price", 0, "Fill price per share")
	f.StringVar(&c.notes, "notes", "", "Free-form note attached to the trade")
	f.BoolVar(&c.close, "close", false, "Close the whole position at market")
	f.StringVar(&c.config, "config", "", "Path to config file")
}

func (c *tradeCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		fmt.Fprintln(os.Stderr, "-symbol is required")
		return subcommands.ExitUsageError
	}
	a, err := newApp(c.config, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	symbol := strings.ToUpper(c.symbol)
	var pos model.Position
	if c.close {
		price, err := a.Provider.CurrentPrice(symbol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching price for %s: %v\n", symbol, err)
			return subcommands.ExitFailure
		}
		pos, err = a.Ledger.ClosePosition(symbol, price)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("closed %s at %.2f, realized P&L %.2f\n", symbol, price, pos.RealizedPnL)
		return subcommands.ExitSuccess
	}

	pos, err = a.Ledger.LogTrade(model.Trade{
		Symbol:   symbol,
		Side:     model.Side(strings.ToUpper(c.side)),
		Quantity: c.qty,
		Price:    c.price,
		Notes:    c.notes,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s %s: qty %.2f avg cost %.2f realized P&L %.2f\n",
		symbol, strings.ToUpper(c.side), pos.Quantity, pos.AvgCost, pos.RealizedPnL)
	return subcommands.ExitSuccess
}
