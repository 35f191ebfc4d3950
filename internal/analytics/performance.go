package analytics

import (
	"math"
	"sort"

	"github.com/ipveka/HedgeLab/internal/model"
)

// tradingDays is the annualization factor for daily returns.
const tradingDays = 252

// DailyReturns computes the percentage change between consecutive snapshot
// values. The result has one entry fewer than the input; days where the
// previous value is zero yield 0.
func DailyReturns(snaps []model.PerformanceSnapshot) []float64 {
	if len(snaps) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(snaps)-1)
	for i := 1; i < len(snaps); i++ {
		prev := snaps[i-1].TotalValue
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, snaps[i].TotalValue/prev-1)
	}
	return returns
}

// TotalReturn is last/first - 1.
func TotalReturn(snaps []model.PerformanceSnapshot) float64 {
	if len(snaps) < 2 || snaps[0].TotalValue == 0 {
		return 0
	}
	return snaps[len(snaps)-1].TotalValue/snaps[0].TotalValue - 1
}

// AnnualizedVolatility is the sample standard deviation of daily returns
// scaled by sqrt(252).
func AnnualizedVolatility(snaps []model.PerformanceSnapshot) float64 {
	return stddev(DailyReturns(snaps)) * math.Sqrt(tradingDays)
}

// SharpeRatio is mean/stddev of daily returns scaled by sqrt(252). It is 0,
// not NaN, when the stddev is 0 or there are fewer than two returns.
func SharpeRatio(snaps []model.PerformanceSnapshot) float64 {
	returns := DailyReturns(snaps)
	sd := stddev(returns)
	if sd == 0 {
		return 0
	}
	return mean(returns) / sd * math.Sqrt(tradingDays)
}

// MaxDrawdown is the largest decline of the cumulative return series from its
// running peak. Always <= 0.
func MaxDrawdown(snaps []model.PerformanceSnapshot) float64 {
	if len(snaps) < 2 || snaps[0].TotalValue == 0 {
		return 0
	}
	first := snaps[0].TotalValue
	runningMax := math.Inf(-1)
	worst := 0.0
	for _, s := range snaps {
		cum := s.TotalValue / first
		if cum > runningMax {
			runningMax = cum
		}
		if dd := cum - runningMax; dd < worst {
			worst = dd
		}
	}
	return worst
}

// ValueAtRisk95 is the 5th percentile of the daily-return distribution,
// linearly interpolated between order statistics.
func ValueAtRisk95(snaps []model.PerformanceSnapshot) float64 {
	return percentile(DailyReturns(snaps), 5)
}

// WinRate is the fraction of days with a positive return.
func WinRate(snaps []model.PerformanceSnapshot) float64 {
	returns := DailyReturns(snaps)
	if len(returns) == 0 {
		return 0
	}
	wins := 0
	for _, r := range returns {
		if r > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(returns))
}

// Summary bundles all performance statistics for a snapshot series.
type Summary struct {
	Days        int
	TotalReturn float64
	Volatility  float64
	Sharpe      float64
	MaxDrawdown float64
	VaR95       float64
	WinRate     float64
}

// Summarize computes all statistics in one pass over the series.
func Summarize(snaps []model.PerformanceSnapshot) Summary {
	return Summary{
		Days:        len(snaps),
		TotalReturn: TotalReturn(snaps),
		Volatility:  AnnualizedVolatility(snaps),
		Sharpe:      SharpeRatio(snaps),
		MaxDrawdown: MaxDrawdown(snaps),
		VaR95:       ValueAtRisk95(snaps),
		WinRate:     WinRate(snaps),
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the sample standard deviation (n-1); 0 for fewer than 2 values.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sq float64
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}

// percentile interpolates linearly between sorted values, matching the
// common numerical-library default.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
