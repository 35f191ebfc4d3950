package marketdata

import (
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/ipveka/HedgeLab/internal/model"
)

// SyntheticFetcher generates deterministic price data, seeded by symbol so
// repeated calls for the same symbol produce the same series within a run.
// It serves as the fallback when the real vendor fails, and as a data source
// for demos and tests.
type SyntheticFetcher struct {
	// Now anchors the generated date range; defaults to time.Now.
	Now func() time.Time
}

// NewSyntheticFetcher creates a synthetic data generator.
func NewSyntheticFetcher() *SyntheticFetcher {
	return &SyntheticFetcher{Now: time.Now}
}

func (s *SyntheticFetcher) Name() string { return "synthetic" }

func seed(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return int64(h.Sum64() % 1000)
}

func basePrice(symbol string) float64 {
	switch symbol {
	case "AAPL":
		return 150.0
	case "MSFT":
		return 300.0
	default:
		return 50.0 + float64(seed(symbol))
	}
}

// FetchBars generates a random walk of daily bars ending today, with drift
// 0.1% and daily volatility 2%.
func (s *SyntheticFetcher) FetchBars(symbol string, period model.Period) ([]model.PriceBar, error) {
	days := period.Days()
	rng := rand.New(rand.NewSource(seed(symbol)))
	end := s.Now()

	price := basePrice(symbol)
	bars := make([]model.PriceBar, 0, days)
	for i := 0; i < days; i++ {
		ret := rng.NormFloat64()*0.02 + 0.001
		price *= 1 + ret
		if price < 1 {
			price = 1
		}

		high := price * (1 + absNorm(rng, 0.02))
		low := price * (1 - absNorm(rng, 0.02))
		open := price * (1 + rng.NormFloat64()*0.01)
		if open > high {
			high = open
		}
		if open < low {
			low = open
		}

		bars = append(bars, model.PriceBar{
			Date:   end.AddDate(0, 0, i-days+1),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  price,
			Volume: 1e6 + rng.Float64()*9e6,
			Symbol: symbol,
		})
	}
	return bars, nil
}

// FetchInfo generates plausible fundamentals, deterministic per symbol.
func (s *SyntheticFetcher) FetchInfo(symbol string) (model.StockInfo, error) {
	rng := rand.New(rand.NewSource(seed(symbol)))
	price := basePrice(symbol)
	return model.StockInfo{
		Symbol:        symbol,
		Name:          symbol + " Corporation",
		Sector:        "Technology",
		Industry:      "Software",
		MarketCap:     price * 1e9,
		PERatio:       15 + rng.Float64()*15,
		PriceToBook:   2 + rng.Float64()*6,
		DividendYield: rng.Float64() * 0.03,
		Beta:          0.8 + rng.Float64()*0.7,
		EPS:           price * 0.05,
		RevenueGrowth: 0.05 + rng.Float64()*0.20,
		ProfitMargins: 0.10 + rng.Float64()*0.20,
		CurrentPrice:  price,
		TargetPrice:   price * (0.9 + rng.Float64()*0.3),
	}, nil
}

func absNorm(rng *rand.Rand, sigma float64) float64 {
	v := rng.NormFloat64() * sigma
	if v < 0 {
		return -v
	}
	return v
}
