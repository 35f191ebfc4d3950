package model

// IndicatorFrame extends an ordered bar series with derived indicator series.
// Each derived slice has one value per bar; rows earlier than an indicator's
// window hold NaN and must be treated as "no signal".
type IndicatorFrame struct {
	Bars []PriceBar

	MAShort    []float64 // SMA(20) of close
	MALong     []float64 // SMA(50) of close
	RSI        []float64 // RSI(14)
	MACD       []float64 // EMA(12) - EMA(26)
	MACDSignal []float64 // EMA(9) of MACD
	MACDHist   []float64 // MACD - signal
	BBUpper    []float64
	BBMiddle   []float64
	BBLower    []float64
	VolumeSMA  []float64 // SMA(20) of volume
}

// Len returns the number of rows in the frame.
func (f *IndicatorFrame) Len() int { return len(f.Bars) }
