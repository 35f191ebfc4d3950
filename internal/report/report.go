// Package report renders scan results, positions and performance summaries
// as plain text for the CLI and the watch daemon log.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ipveka/HedgeLab/internal/analytics"
	"github.com/ipveka/HedgeLab/internal/ledger"
	"github.com/ipveka/HedgeLab/internal/model"
)

// FormatOpportunities renders one scan's hits in the given order.
func FormatOpportunities(strategy model.Strategy, opps []model.Opportunity) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s scan | %s\n", strategy, time.Now().Format("2006-01-02 15:04")))
	if len(opps) == 0 {
		b.WriteString("no opportunities found\n")
		return b.String()
	}

	for i, o := range opps {
		b.WriteString(fmt.Sprintf("%2d. %-6s %8.2f  strength %.2f  est. gain %+.0f%%  [%s]\n",
			i+1, o.Symbol, o.Price, o.SignalStrength, o.PotentialGain, o.Sector))
		switch o.Strategy {
		case model.StrategyValue:
			b.WriteString(fmt.Sprintf("      P/E %.1f  P/B %.2f\n", o.PERatio, o.PriceToBook))
		case model.StrategyGrowth:
			b.WriteString(fmt.Sprintf("      revenue growth %.1f%%  margin %.1f%%\n", o.RevenueGrowth, o.ProfitMargin))
		case model.StrategyMomentum:
			b.WriteString(fmt.Sprintf("      20d move %+.1f%%  volume %s (%.1fx avg)\n",
				o.Momentum20D, humanize.SIWithDigits(o.Volume, 1, ""), o.VolumeRatio))
		case model.StrategyTechnical:
			b.WriteString(fmt.Sprintf("      day change %+.2f%%  volume %s\n",
				o.ChangePct, humanize.SIWithDigits(o.Volume, 1, "")))
		}
	}
	return b.String()
}

// FormatPositions renders the open positions with live prices. Symbols
// missing from prices show cost basis only.
func FormatPositions(positions []model.Position, prices map[string]float64) string {
	var b strings.Builder

	if len(positions) == 0 {
		b.WriteString("no open positions\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%-6s %10s %10s %10s %12s %10s\n",
		"SYMBOL", "QTY", "AVG COST", "PRICE", "UNREAL P&L", "P&L %"))
	for _, p := range positions {
		price, ok := prices[p.Symbol]
		if !ok {
			b.WriteString(fmt.Sprintf("%-6s %10s %10.2f %10s %12s %10s\n",
				p.Symbol, humanize.CommafWithDigits(p.Quantity, 2), p.AvgCost, "-", "-", "-"))
			continue
		}
		b.WriteString(fmt.Sprintf("%-6s %10s %10.2f %10.2f %12.2f %+9.2f%%\n",
			p.Symbol, humanize.CommafWithDigits(p.Quantity, 2), p.AvgCost, price,
			p.UnrealizedPnL(price), p.PnLPercent(price)))
	}
	return b.String()
}

// FormatValuation renders the portfolio totals line.
func FormatValuation(v ledger.Valuation) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("total value:  $%s\n", humanize.CommafWithDigits(v.TotalValue, 2)))
	b.WriteString(fmt.Sprintf("total cost:   $%s\n", humanize.CommafWithDigits(v.TotalCost, 2)))
	b.WriteString(fmt.Sprintf("total P&L:    $%s (%+.2f%%)\n", humanize.CommafWithDigits(v.TotalPnL, 2), v.TotalPnLPct))
	b.WriteString(fmt.Sprintf("positions:    %d long, %d short\n", v.LongPositions, v.ShortPositions))
	return b.String()
}

// FormatPerformance renders the analytics summary over recorded snapshots.
func FormatPerformance(s analytics.Summary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("period:          %d days\n", s.Days))
	b.WriteString(fmt.Sprintf("total return:    %+.2f%%\n", s.TotalReturn*100))
	b.WriteString(fmt.Sprintf("volatility:      %.2f%% (annualized)\n", s.Volatility*100))
	b.WriteString(fmt.Sprintf("sharpe ratio:    %.2f\n", s.Sharpe))
	b.WriteString(fmt.Sprintf("max drawdown:    %.2f%%\n", s.MaxDrawdown*100))
	b.WriteString(fmt.Sprintf("VaR (95%%):       %.2f%% daily\n", s.VaR95*100))
	b.WriteString(fmt.Sprintf("win rate:        %.1f%%\n", s.WinRate*100))
	return b.String()
}

// FormatStockInfo renders a symbol's fundamentals with its composite score.
func FormatStockInfo(info model.StockInfo, score float64) string {
	var b strings.Builder
	name := info.Name
	if name == "" {
		name = info.Symbol
	}
	b.WriteString(fmt.Sprintf("%s  [%s / %s]\n", name, orDash(info.Sector), orDash(info.Industry)))
	b.WriteString(fmt.Sprintf("price:            %.2f (target %.2f)\n", info.CurrentPrice, info.TargetPrice))
	b.WriteString(fmt.Sprintf("market cap:       %s\n", humanize.SIWithDigits(info.MarketCap, 2, "")))
	b.WriteString(fmt.Sprintf("P/E:              %.2f   P/B: %.2f   EPS: %.2f\n", info.PERatio, info.PriceToBook, info.EPS))
	b.WriteString(fmt.Sprintf("revenue growth:   %.1f%%   margin: %.1f%%\n", info.RevenueGrowth*100, info.ProfitMargins*100))
	b.WriteString(fmt.Sprintf("dividend yield:   %.2f%%   beta: %.2f\n", info.DividendYield*100, info.Beta))
	b.WriteString(fmt.Sprintf("fundamental score: %.0f/100\n", score))
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// FormatQuotes renders market index or treasury rate quotes keyed by display
// name. Percent controls whether the change column is a percentage or an
// absolute delta.
func FormatQuotes(title string, quotes map[string]model.Quote, percent bool) string {
	var b strings.Builder
	b.WriteString(title + "\n")
	if len(quotes) == 0 {
		b.WriteString("no data\n")
		return b.String()
	}
	names := make([]string, 0, len(quotes))
	for name := range quotes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		q := quotes[name]
		if percent {
			b.WriteString(fmt.Sprintf("  %-10s %10.2f  %+.2f%%\n", name, q.Value, q.Change))
		} else {
			b.WriteString(fmt.Sprintf("  %-10s %10.3f  %+.3f\n", name, q.Value, q.Change))
		}
	}
	return b.String()
}
