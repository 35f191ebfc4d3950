package scanner

import (
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ipveka/HedgeLab/internal/indicator"
	"github.com/ipveka/HedgeLab/internal/marketdata"
	"github.com/ipveka/HedgeLab/internal/model"
	"github.com/ipveka/HedgeLab/internal/signal"
)

// DefaultMinStrength filters opportunities when the caller passes no
// threshold of their own.
const DefaultMinStrength = 0.5

// momentumWindow is the lookback for the momentum strategy, in bars.
const momentumWindow = 20

// MarketData is the slice of the price provider the scanner consumes.
type MarketData interface {
	GetBars(symbol string, period model.Period, class marketdata.Class) ([]model.PriceBar, error)
	GetInfo(symbol string) (model.StockInfo, error)
}

// Scanner applies a named strategy across a watchlist, producing opportunity
// records. Symbols whose data or computation fails are skipped; a scan never
// aborts the batch.
type Scanner struct {
	data MarketData
}

// New creates a Scanner over the given market data source.
func New(data MarketData) *Scanner {
	return &Scanner{data: data}
}

// Scan runs one strategy over the watchlist and returns the opportunities
// whose signal strength is at least minStrength, in watchlist order. Use
// SortByStrength for ranked output.
func (s *Scanner) Scan(strategy model.Strategy, watchlist []string, minStrength float64) ([]model.Opportunity, error) {
	if _, err := model.ParseStrategy(string(strategy)); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(watchlist) == 0 {
		return nil, fmt.Errorf("scan: empty watchlist")
	}
	if minStrength < 0 || minStrength > 1 {
		return nil, fmt.Errorf("scan: min strength %.2f outside [0,1]", minStrength)
	}

	var opportunities []model.Opportunity
	for _, symbol := range watchlist {
		opp, err := s.scanSymbol(strategy, symbol)
		if err != nil {
			log.Printf("[WARN] scan %s: skipping %s: %v", strategy, symbol, err)
			continue
		}
		if opp == nil || opp.SignalStrength < minStrength {
			continue
		}
		opp.ID = uuid.NewString()
		opp.ObservedAt = time.Now()
		opportunities = append(opportunities, *opp)
	}
	return opportunities, nil
}

// scanSymbol returns nil without error when the symbol simply does not meet
// the strategy's criteria.
func (s *Scanner) scanSymbol(strategy model.Strategy, symbol string) (*model.Opportunity, error) {
	switch strategy {
	case model.StrategyTechnical:
		return s.scanTechnical(symbol)
	case model.StrategyValue:
		return s.scanValue(symbol)
	case model.StrategyGrowth:
		return s.scanGrowth(symbol)
	case model.StrategyMomentum:
		return s.scanMomentum(symbol)
	}
	return nil, fmt.Errorf("unknown strategy %q", strategy)
}

// scanTechnical includes a symbol when at least 60% of its indicator signals
// say BUY; the buy fraction becomes the strength.
func (s *Scanner) scanTechnical(symbol string) (*model.Opportunity, error) {
	bars, err := s.data.GetBars(symbol, model.Period3Mo, marketdata.ClassStock)
	if err != nil {
		return nil, err
	}
	if len(bars) < indicator.MinBars {
		return nil, fmt.Errorf("%w: have %d bars, need %d", indicator.ErrInsufficientData, len(bars), indicator.MinBars)
	}

	frame := indicator.Compute(bars)
	signals, err := signal.Classify(&frame)
	if err != nil {
		return nil, err
	}

	buys := 0
	for _, sig := range signals {
		if sig.Direction == model.DirectionBuy {
			buys++
		}
	}
	strength := float64(buys) / float64(len(signals))
	if strength < 0.6 {
		return nil, nil
	}

	last := bars[len(bars)-1]
	prev := bars[len(bars)-2]
	return &model.Opportunity{
		Symbol:         symbol,
		Strategy:       model.StrategyTechnical,
		SignalStrength: strength,
		Price:          last.Close,
		ChangePct:      (last.Close - prev.Close) / prev.Close * 100,
		Volume:         last.Volume,
		Sector:         s.sector(symbol),
		PotentialGain:  15,
	}, nil
}

// scanValue includes symbols with trailing P/E under 15 and price/book under
// 2. Computed strengths below 0.5 are floored to 0.5, mirroring the original
// screen.
func (s *Scanner) scanValue(symbol string) (*model.Opportunity, error) {
	info, err := s.data.GetInfo(symbol)
	if err != nil {
		return nil, err
	}
	if info.PERatio <= 0 || info.PERatio >= 15 || info.PriceToBook <= 0 || info.PriceToBook >= 2 {
		return nil, nil
	}

	strength := 1 - 0.5*math.Min(info.PERatio/15, 1) - 0.5*math.Min(info.PriceToBook/2, 1)
	return &model.Opportunity{
		Symbol:         symbol,
		Strategy:       model.StrategyValue,
		SignalStrength: math.Max(DefaultMinStrength, strength),
		Price:          info.CurrentPrice,
		Sector:         orUnknown(info.Sector),
		PERatio:        info.PERatio,
		PriceToBook:    info.PriceToBook,
		PotentialGain:  20,
	}, nil
}

// scanGrowth includes symbols with revenue growth over 15% and profit margin
// over 10%.
func (s *Scanner) scanGrowth(symbol string) (*model.Opportunity, error) {
	info, err := s.data.GetInfo(symbol)
	if err != nil {
		return nil, err
	}
	if info.RevenueGrowth <= 0.15 || info.ProfitMargins <= 0.10 {
		return nil, nil
	}

	strength := 0.7*math.Min(info.RevenueGrowth*2, 1) + 0.3*math.Min(info.ProfitMargins*5, 1)
	return &model.Opportunity{
		Symbol:         symbol,
		Strategy:       model.StrategyGrowth,
		SignalStrength: math.Max(DefaultMinStrength, strength),
		Price:          info.CurrentPrice,
		Sector:         orUnknown(info.Sector),
		RevenueGrowth:  info.RevenueGrowth * 100,
		ProfitMargin:   info.ProfitMargins * 100,
		PotentialGain:  25,
	}, nil
}

// scanMomentum includes symbols whose price rose more than 10% over the last
// 20 bars on volume at least 1.2x the 20-bar average.
func (s *Scanner) scanMomentum(symbol string) (*model.Opportunity, error) {
	bars, err := s.data.GetBars(symbol, model.Period3Mo, marketdata.ClassStock)
	if err != nil {
		return nil, err
	}
	if len(bars) < momentumWindow {
		return nil, fmt.Errorf("%w: have %d bars, need %d", indicator.ErrInsufficientData, len(bars), momentumWindow)
	}

	last := bars[len(bars)-1]
	base := bars[len(bars)-momentumWindow]
	if base.Close == 0 {
		return nil, fmt.Errorf("zero base close for %s", symbol)
	}
	momentum := (last.Close - base.Close) / base.Close * 100

	var volSum float64
	for _, b := range bars[len(bars)-momentumWindow:] {
		volSum += b.Volume
	}
	avgVol := volSum / momentumWindow
	if avgVol == 0 {
		return nil, fmt.Errorf("zero average volume for %s", symbol)
	}
	volumeRatio := last.Volume / avgVol

	if momentum <= 10 || volumeRatio <= 1.2 {
		return nil, nil
	}

	strength := 0.7*math.Min(momentum/20, 1) + 0.3*math.Min(volumeRatio/2, 1)
	return &model.Opportunity{
		Symbol:         symbol,
		Strategy:       model.StrategyMomentum,
		SignalStrength: math.Max(DefaultMinStrength, strength),
		Price:          last.Close,
		ChangePct:      momentum,
		Volume:         last.Volume,
		Sector:         s.sector(symbol),
		Momentum20D:    momentum,
		VolumeRatio:    volumeRatio,
		PotentialGain:  18,
	}, nil
}

// sector is best-effort: a missing fundamentals record never fails a
// price-driven scan.
func (s *Scanner) sector(symbol string) string {
	info, err := s.data.GetInfo(symbol)
	if err != nil {
		return "Unknown"
	}
	return orUnknown(info.Sector)
}

func orUnknown(sector string) string {
	if sector == "" {
		return "Unknown"
	}
	return sector
}

// FundamentalScore grades a symbol's fundamentals on a 0-100 scale: valuation
// (P/E, P/B), profitability (margin), growth, income (dividend) and stability
// (beta) each contribute a band-scored slice.
func FundamentalScore(info model.StockInfo) float64 {
	score := 0.0

	switch {
	case info.PERatio >= 5 && info.PERatio <= 20:
		score += 20
	case info.PERatio > 0 && info.PERatio < 30:
		score += 10
	}
	switch {
	case info.ProfitMargins > 0.15:
		score += 20
	case info.ProfitMargins > 0.05:
		score += 10
	}
	switch {
	case info.RevenueGrowth > 0.15:
		score += 20
	case info.RevenueGrowth > 0.05:
		score += 10
	}
	switch {
	case info.PriceToBook > 0 && info.PriceToBook < 1.5:
		score += 15
	case info.PriceToBook > 0 && info.PriceToBook < 3:
		score += 8
	}
	switch {
	case info.DividendYield > 0.02:
		score += 10
	case info.DividendYield > 0:
		score += 5
	}
	switch {
	case info.Beta >= 0.5 && info.Beta <= 1.2:
		score += 15
	case info.Beta > 0 && info.Beta <= 1.5:
		score += 8
	}
	return score
}

// SortByStrength orders opportunities by signal strength, strongest first.
func SortByStrength(opps []model.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].SignalStrength > opps[j].SignalStrength
	})
}
