package marketdata

import (
	"errors"

	"github.com/ipveka/HedgeLab/internal/model"
)

// ErrDataUnavailable is the terminal failure for a fetch: the vendor failed
// or rate-limited us and no fallback produced data. Callers skip the symbol.
var ErrDataUnavailable = errors.New("marketdata: data unavailable")

// Fetcher is the external price-data and fundamentals capability.
type Fetcher interface {
	// FetchBars returns the daily OHLCV history for a symbol, ascending by
	// date, one bar per trading day.
	FetchBars(symbol string, period model.Period) ([]model.PriceBar, error)
	// FetchInfo returns fundamental data for a symbol. Missing fields are
	// zero.
	FetchInfo(symbol string) (model.StockInfo, error)
	Name() string
}
