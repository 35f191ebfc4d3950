package indicator

import (
	"errors"
	"math"

	"github.com/ipveka/HedgeLab/internal/model"
)

// Default windows used by Compute.
const (
	MAShortWindow    = 20
	MALongWindow     = 50
	RSIWindow        = 14
	MACDFastWindow   = 12
	MACDSlowWindow   = 26
	MACDSignalWindow = 9
	BollingerWindow  = 20
	BollingerWidth   = 2.0
	VolumeWindow     = 20
)

// ErrInsufficientData is returned when a series is shorter than the window an
// indicator needs. The caller decides whether to skip or surface it.
var ErrInsufficientData = errors.New("indicator: not enough bars for window")

// MinBars is the minimum series length for which every derived series in a
// frame has at least two fully defined rows.
const MinBars = MALongWindow + 1

// Compute derives all indicator series from an ordered bar sequence. It is a
// pure function of its input; leading rows shorter than a window are NaN.
func Compute(bars []model.PriceBar) model.IndicatorFrame {
	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	macd, signal, hist := MACD(closes)
	upper, middle, lower := Bollinger(closes, BollingerWindow, BollingerWidth)

	return model.IndicatorFrame{
		Bars:       bars,
		MAShort:    SMA(closes, MAShortWindow),
		MALong:     SMA(closes, MALongWindow),
		RSI:        RSI(closes, RSIWindow),
		MACD:       macd,
		MACDSignal: signal,
		MACDHist:   hist,
		BBUpper:    upper,
		BBMiddle:   middle,
		BBLower:    lower,
		VolumeSMA:  SMA(volumes, VolumeWindow),
	}
}

// SMA computes the simple moving average over a trailing window. The first
// window-1 entries are NaN.
func SMA(values []float64, window int) []float64 {
	out := nans(len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// EMA computes the exponential moving average with smoothing 2/(window+1),
// seeded with the SMA of the first window defined values. Leading NaNs in the
// input are carried through.
func EMA(values []float64, window int) []float64 {
	out := nans(len(values))
	if window <= 0 {
		return out
	}
	start := 0
	for start < len(values) && math.IsNaN(values[start]) {
		start++
	}
	if len(values)-start < window {
		return out
	}
	seed := 0.0
	for i := start; i < start+window; i++ {
		seed += values[i]
	}
	prev := seed / float64(window)
	out[start+window-1] = prev
	k := 2.0 / float64(window+1)
	for i := start + window; i < len(values); i++ {
		prev = (values[i]-prev)*k + prev
		out[i] = prev
	}
	return out
}

// RSI computes the relative strength index over a trailing window of
// close-to-close changes, using plain averages of gains and losses. When the
// average loss is exactly zero the RSI is pinned to 100.
func RSI(values []float64, window int) []float64 {
	out := nans(len(values))
	if window <= 0 || len(values) < window+1 {
		return out
	}
	for i := window; i < len(values); i++ {
		var gain, loss float64
		for j := i - window + 1; j <= i; j++ {
			change := values[j] - values[j-1]
			if change > 0 {
				gain += change
			} else {
				loss -= change
			}
		}
		avgGain := gain / float64(window)
		avgLoss := loss / float64(window)
		if avgLoss == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// MACD computes the MACD line, its signal line, and the histogram.
func MACD(values []float64) (macd, signal, hist []float64) {
	fast := EMA(values, MACDFastWindow)
	slow := EMA(values, MACDSlowWindow)
	macd = nans(len(values))
	for i := range values {
		if !math.IsNaN(fast[i]) && !math.IsNaN(slow[i]) {
			macd[i] = fast[i] - slow[i]
		}
	}
	signal = EMA(macd, MACDSignalWindow)
	hist = nans(len(values))
	for i := range values {
		if !math.IsNaN(macd[i]) && !math.IsNaN(signal[i]) {
			hist[i] = macd[i] - signal[i]
		}
	}
	return macd, signal, hist
}

// Bollinger computes the middle band (SMA) and the upper/lower bands at
// width standard deviations of the trailing window.
func Bollinger(values []float64, window int, width float64) (upper, middle, lower []float64) {
	middle = SMA(values, window)
	upper = nans(len(values))
	lower = nans(len(values))
	if window <= 0 || len(values) < window {
		return upper, middle, lower
	}
	for i := window - 1; i < len(values); i++ {
		mean := middle[i]
		var sq float64
		for j := i - window + 1; j <= i; j++ {
			d := values[j] - mean
			sq += d * d
		}
		std := math.Sqrt(sq / float64(window))
		upper[i] = mean + width*std
		lower[i] = mean - width*std
	}
	return upper, middle, lower
}

func nans(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
