package signal

import (
	"errors"
	"math"

	"github.com/ipveka/HedgeLab/internal/model"
)

// Indicator names used as keys in the classification result.
const (
	IndicatorRSI  = "RSI"
	IndicatorMACD = "MACD"
	IndicatorMA   = "Moving Average"
)

// ErrFrameUndefined is returned when the frame does not contain two fully
// defined rows for every indicator. Callers should pass frames built from at
// least indicator.MinBars bars.
var ErrFrameUndefined = errors.New("signal: last two frame rows are not fully defined")

// Classify maps each indicator's latest reading to a directional signal with
// a normalized strength, using the last two rows of the frame. The MACD rule
// is a crossover, so the previous row participates.
func Classify(frame *model.IndicatorFrame) (map[string]model.Signal, error) {
	n := frame.Len()
	if n < 2 || !rowDefined(frame, n-1) || !rowDefined(frame, n-2) {
		return nil, ErrFrameUndefined
	}
	last, prev := n-1, n-2

	signals := make(map[string]model.Signal, 3)

	// RSI: oversold below 30, overbought above 70.
	rsi := frame.RSI[last]
	switch {
	case rsi < 30:
		signals[IndicatorRSI] = sig(IndicatorRSI, model.DirectionBuy, (30-rsi)/30)
	case rsi > 70:
		signals[IndicatorRSI] = sig(IndicatorRSI, model.DirectionSell, (rsi-70)/30)
	default:
		signals[IndicatorRSI] = sig(IndicatorRSI, model.DirectionNeutral, 0.5)
	}

	// MACD: signal-line crossover.
	switch {
	case frame.MACD[last] > frame.MACDSignal[last] && frame.MACD[prev] <= frame.MACDSignal[prev]:
		signals[IndicatorMACD] = sig(IndicatorMACD, model.DirectionBuy, 0.8)
	case frame.MACD[last] < frame.MACDSignal[last] && frame.MACD[prev] >= frame.MACDSignal[prev]:
		signals[IndicatorMACD] = sig(IndicatorMACD, model.DirectionSell, 0.8)
	default:
		signals[IndicatorMACD] = sig(IndicatorMACD, model.DirectionNeutral, 0.5)
	}

	// Moving averages: full bull or bear alignment of close, MA20, MA50.
	close := frame.Bars[last].Close
	switch {
	case close > frame.MAShort[last] && frame.MAShort[last] > frame.MALong[last]:
		signals[IndicatorMA] = sig(IndicatorMA, model.DirectionBuy, 0.7)
	case close < frame.MAShort[last] && frame.MAShort[last] < frame.MALong[last]:
		signals[IndicatorMA] = sig(IndicatorMA, model.DirectionSell, 0.7)
	default:
		signals[IndicatorMA] = sig(IndicatorMA, model.DirectionNeutral, 0.5)
	}

	return signals, nil
}

func sig(name string, dir model.Direction, strength float64) model.Signal {
	if strength < 0 {
		strength = 0
	}
	if strength > 1 {
		strength = 1
	}
	return model.Signal{Name: name, Direction: dir, Strength: strength}
}

// rowDefined reports whether every derived series the classifier reads has a
// value at row i.
func rowDefined(f *model.IndicatorFrame, i int) bool {
	for _, s := range [][]float64{f.MAShort, f.MALong, f.RSI, f.MACD, f.MACDSignal} {
		if i >= len(s) || math.IsNaN(s[i]) {
			return false
		}
	}
	return true
}
