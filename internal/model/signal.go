package model

import (
	"fmt"
	"time"
)

// Direction is the classification attached to an indicator signal.
type Direction string

const (
	DirectionBuy     Direction = "BUY"
	DirectionSell    Direction = "SELL"
	DirectionNeutral Direction = "NEUTRAL"
)

// Signal is one indicator's directional reading with a normalized strength.
type Signal struct {
	Name      string
	Direction Direction
	Strength  float64 // always in [0,1]
}

// Strategy names a scan strategy.
type Strategy string

const (
	StrategyTechnical Strategy = "technical"
	StrategyValue     Strategy = "value"
	StrategyGrowth    Strategy = "growth"
	StrategyMomentum  Strategy = "momentum"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyTechnical, StrategyValue, StrategyGrowth, StrategyMomentum:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// Opportunity is one scan hit for one symbol. Strategy-specific fields are
// zero for strategies that do not produce them.
type Opportunity struct {
	ID             string
	Symbol         string
	Strategy       Strategy
	SignalStrength float64 // in [0,1]
	Price          float64
	ChangePct      float64
	Volume         float64
	Sector         string
	ObservedAt     time.Time

	// value
	PERatio     float64
	PriceToBook float64
	// growth (percentages)
	RevenueGrowth float64
	ProfitMargin  float64
	// momentum
	Momentum20D float64
	VolumeRatio float64

	PotentialGain float64 // rough estimated upside, percent
}
