package model

import (
	"fmt"
	"time"
)

// Period is one of the fixed history ranges the data vendor accepts.
type Period string

const (
	Period1D  Period = "1d"
	Period5D  Period = "5d"
	Period1Mo Period = "1mo"
	Period3Mo Period = "3mo"
	Period6Mo Period = "6mo"
	Period1Y  Period = "1y"
)

var periodDays = map[Period]int{
	Period1D:  1,
	Period5D:  5,
	Period1Mo: 30,
	Period3Mo: 90,
	Period6Mo: 180,
	Period1Y:  365,
}

// ParsePeriod validates a period string.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if _, ok := periodDays[p]; !ok {
		return "", fmt.Errorf("unknown period %q", s)
	}
	return p, nil
}

// Days returns the number of calendar days the period spans.
func (p Period) Days() int { return periodDays[p] }

// PriceBar is a single OHLCV record for one symbol on one trading day.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Symbol string
}

// Quote is a point-in-time value with its change from the previous close.
// Change is a percentage for prices and an absolute delta for rates.
type Quote struct {
	Symbol string
	Value  float64
	Change float64
}

// StockInfo holds fundamental data for a symbol. Any field may be zero when
// the vendor does not report it.
type StockInfo struct {
	Symbol        string
	Name          string
	Sector        string
	Industry      string
	MarketCap     float64
	PERatio       float64
	PriceToBook   float64
	DividendYield float64
	Beta          float64
	EPS           float64
	RevenueGrowth float64
	ProfitMargins float64
	CurrentPrice  float64
	TargetPrice   float64
}
