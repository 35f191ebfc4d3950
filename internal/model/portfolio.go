package model

import (
	"math"
	"time"
)

// Side is the direction of a fill.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Trade is a single recorded fill. Immutable once logged.
type Trade struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	Side       Side      `json:"side"`
	Quantity   float64   `json:"quantity"`
	Price      float64   `json:"price"`
	TotalValue float64   `json:"total_value"`
	Timestamp  time.Time `json:"timestamp"`
	Notes      string    `json:"notes,omitempty"`
}

// Position is the current holding for one symbol, derived deterministically
// from the trade sequence. Quantity is signed: positive long, negative short,
// zero flat.
type Position struct {
	Symbol      string    `json:"symbol"`
	Quantity    float64   `json:"quantity"`
	AvgCost     float64   `json:"avg_cost"`
	RealizedPnL float64   `json:"realized_pnl"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsFlat reports whether the position holds no quantity.
func (p Position) IsFlat() bool { return p.Quantity == 0 }

// MarketValue returns the signed market value at the given price.
func (p Position) MarketValue(price float64) float64 { return p.Quantity * price }

// CostBasis returns the signed cost of the current quantity.
func (p Position) CostBasis() float64 { return p.Quantity * p.AvgCost }

// UnrealizedPnL returns quantity x (price - average cost).
func (p Position) UnrealizedPnL(price float64) float64 {
	return p.Quantity * (price - p.AvgCost)
}

// PnLPercent returns the unrealized P&L relative to the absolute cost basis.
func (p Position) PnLPercent(price float64) float64 {
	cost := p.CostBasis()
	if cost == 0 {
		return 0
	}
	return p.UnrealizedPnL(price) / math.Abs(cost) * 100
}

// PerformanceSnapshot is the portfolio's total value on one day.
type PerformanceSnapshot struct {
	Date       time.Time
	TotalValue float64
}
