package marketdata

import (
	"errors"
	"testing"
	"time"

	"github.com/ipveka/HedgeLab/internal/model"
)

// scriptedFetcher counts calls and returns whatever it is told to.
type scriptedFetcher struct {
	bars     []model.PriceBar
	barsErr  error
	info     model.StockInfo
	infoErr  error
	barCalls int
}

func (f *scriptedFetcher) Name() string { return "scripted" }

func (f *scriptedFetcher) FetchBars(symbol string, _ model.Period) ([]model.PriceBar, error) {
	f.barCalls++
	if f.barsErr != nil {
		return nil, f.barsErr
	}
	return f.bars, nil
}

func (f *scriptedFetcher) FetchInfo(symbol string) (model.StockInfo, error) {
	if f.infoErr != nil {
		return model.StockInfo{}, f.infoErr
	}
	return f.info, nil
}

// testProvider disables real sleeping and pins the clock.
func testProvider(f Fetcher, opts Options) (*Provider, *time.Time, *[]time.Duration) {
	p := NewProvider(f, opts)
	now := time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)
	var slept []time.Duration
	p.now = func() time.Time { return now }
	p.sleep = func(d time.Duration) { slept = append(slept, d) }
	return p, &now, &slept
}

func someBars(n int) []model.PriceBar {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, n)
	for i := range bars {
		bars[i] = model.PriceBar{Date: day.AddDate(0, 0, i), Close: 100 + float64(i), Volume: 1e6}
	}
	return bars
}

func TestGetBars_ServedFromCacheUntilTTL(t *testing.T) {
	f := &scriptedFetcher{bars: someBars(5)}
	p, now, _ := testProvider(f, Options{StockTTL: 15 * time.Minute})

	if _, err := p.GetBars("AAPL", model.Period1Mo, ClassStock); err != nil {
		t.Fatal(err)
	}
	if _, err := p.GetBars("AAPL", model.Period1Mo, ClassStock); err != nil {
		t.Fatal(err)
	}
	if f.barCalls != 1 {
		t.Errorf("vendor calls = %d, want 1 while fresh", f.barCalls)
	}

	*now = now.Add(14 * time.Minute)
	p.GetBars("AAPL", model.Period1Mo, ClassStock)
	if f.barCalls != 1 {
		t.Errorf("vendor calls = %d, want 1 just inside the TTL", f.barCalls)
	}

	*now = now.Add(2 * time.Minute)
	p.GetBars("AAPL", model.Period1Mo, ClassStock)
	if f.barCalls != 2 {
		t.Errorf("vendor calls = %d, want 2 after expiry", f.barCalls)
	}
}

func TestGetBars_CacheKeyedBySymbolPeriodClass(t *testing.T) {
	f := &scriptedFetcher{bars: someBars(5)}
	p, _, _ := testProvider(f, Options{})

	p.GetBars("AAPL", model.Period1Mo, ClassStock)
	p.GetBars("AAPL", model.Period3Mo, ClassStock)
	p.GetBars("^GSPC", model.Period1Mo, ClassIndex)
	if f.barCalls != 3 {
		t.Errorf("vendor calls = %d, want 3 for distinct keys", f.barCalls)
	}
}

func TestGetBars_IndexTTLOutlivesStockTTL(t *testing.T) {
	f := &scriptedFetcher{bars: someBars(5)}
	p, now, _ := testProvider(f, Options{StockTTL: 15 * time.Minute, IndexTTL: 60 * time.Minute})

	p.GetBars("AAPL", model.Period5D, ClassStock)
	p.GetBars("^GSPC", model.Period5D, ClassIndex)

	*now = now.Add(30 * time.Minute)
	p.GetBars("AAPL", model.Period5D, ClassStock)
	p.GetBars("^GSPC", model.Period5D, ClassIndex)
	if f.barCalls != 3 {
		t.Errorf("vendor calls = %d, want 3 (stock refetched, index still fresh)", f.barCalls)
	}
}

func TestGovernor_DelaysBackToBackCalls(t *testing.T) {
	f := &scriptedFetcher{bars: someBars(5)}
	p, _, slept := testProvider(f, Options{MinCallInterval: time.Second})

	p.GetBars("AAPL", model.Period5D, ClassStock)
	p.GetBars("MSFT", model.Period5D, ClassStock)

	// The clock is pinned, so the second call must wait the full interval.
	if len(*slept) != 1 || (*slept)[0] != time.Second {
		t.Errorf("sleeps = %v, want one full interval", *slept)
	}
}

func TestGetBars_FallbackSubstitutedOnce(t *testing.T) {
	f := &scriptedFetcher{barsErr: errors.New("boom")}
	fallback := NewSyntheticFetcher()
	p, _, _ := testProvider(f, Options{Fallback: fallback})

	bars, err := p.GetBars("AAPL", model.Period1Mo, ClassStock)
	if err != nil {
		t.Fatalf("fallback not substituted: %v", err)
	}
	if len(bars) == 0 {
		t.Fatal("fallback returned no bars")
	}

	// The substituted series is cached like a real one.
	p.GetBars("AAPL", model.Period1Mo, ClassStock)
	if f.barCalls != 1 {
		t.Errorf("vendor calls = %d, want 1 with cached fallback data", f.barCalls)
	}
}

func TestGetBars_NoFallbackSurfacesDataUnavailable(t *testing.T) {
	f := &scriptedFetcher{barsErr: errors.New("boom")}
	p, _, _ := testProvider(f, Options{})

	_, err := p.GetBars("AAPL", model.Period1Mo, ClassStock)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("err = %v, want ErrDataUnavailable", err)
	}
}

func TestRateLimitedCount(t *testing.T) {
	f := &scriptedFetcher{barsErr: errors.New("vendor returned status 429")}
	p, _, _ := testProvider(f, Options{})

	p.GetBars("AAPL", model.Period1Mo, ClassStock)
	p.GetBars("MSFT", model.Period1Mo, ClassStock)
	if got := p.RateLimitedCount(); got != 2 {
		t.Errorf("rate limited count = %d, want 2", got)
	}

	f.barsErr = errors.New("parse error")
	p.GetBars("NVDA", model.Period1Mo, ClassStock)
	if got := p.RateLimitedCount(); got != 2 {
		t.Errorf("rate limited count = %d, want unchanged for a non-limit error", got)
	}
}

func TestCurrentPrice_LastClose(t *testing.T) {
	f := &scriptedFetcher{bars: someBars(3)}
	p, _, _ := testProvider(f, Options{})

	price, err := p.CurrentPrice("AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if price != 102 {
		t.Errorf("price = %v, want 102 (last close)", price)
	}
}

func TestGetInfo_FallbackOnVendorFailure(t *testing.T) {
	f := &scriptedFetcher{infoErr: errors.New("boom")}
	p, _, _ := testProvider(f, Options{Fallback: NewSyntheticFetcher()})

	info, err := p.GetInfo("AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if info.Symbol != "AAPL" || info.CurrentPrice == 0 {
		t.Errorf("fallback info = %+v, want populated", info)
	}
}

func TestMarketIndices_SkipsFailuresButNeverEmpty(t *testing.T) {
	f := &scriptedFetcher{bars: someBars(5)}
	p, _, _ := testProvider(f, Options{})

	quotes, err := p.MarketIndices()
	if err != nil {
		t.Fatal(err)
	}
	if len(quotes) != 5 {
		t.Errorf("quotes = %d, want all 5 indices", len(quotes))
	}
	sp, ok := quotes["S&P 500"]
	if !ok {
		t.Fatal("S&P 500 missing")
	}
	// Last two closes are 103 and 104.
	wantChange := (104.0 - 103.0) / 103.0 * 100
	if sp.Value != 104 || sp.Change != wantChange {
		t.Errorf("quote = %+v, want value 104 change %v", sp, wantChange)
	}

	f.barsErr = errors.New("boom")
	empty := NewProvider(f, Options{})
	empty.now = p.now
	empty.sleep = func(time.Duration) {}
	if _, err := empty.TreasuryRates(); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("err = %v, want ErrDataUnavailable when every symbol fails", err)
	}
}

func TestSyntheticFetcher_DeterministicPerSymbol(t *testing.T) {
	s := NewSyntheticFetcher()
	anchor := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return anchor }

	a1, _ := s.FetchBars("AAPL", model.Period1Mo)
	a2, _ := s.FetchBars("AAPL", model.Period1Mo)
	if len(a1) != model.Period1Mo.Days() {
		t.Fatalf("len = %d, want %d", len(a1), model.Period1Mo.Days())
	}
	for i := range a1 {
		if a1[i].Close != a2[i].Close {
			t.Fatalf("bar %d differs between runs for the same symbol", i)
		}
	}

	b, _ := s.FetchBars("MSFT", model.Period1Mo)
	same := true
	for i := range a1 {
		if a1[i].Close != b[i].Close {
			same = false
			break
		}
	}
	if same {
		t.Error("different symbols generated identical series")
	}
}

func TestSyntheticFetcher_BarsAreConsistent(t *testing.T) {
	s := NewSyntheticFetcher()
	bars, _ := s.FetchBars("NVDA", model.Period3Mo)
	for i, b := range bars {
		if b.High < b.Low || b.High < b.Close || b.Low > b.Close || b.High < b.Open || b.Low > b.Open {
			t.Errorf("bar %d violates OHLC ordering: %+v", i, b)
		}
		if b.Close <= 0 || b.Volume <= 0 {
			t.Errorf("bar %d has non-positive close or volume: %+v", i, b)
		}
		if i > 0 && !bars[i-1].Date.Before(b.Date) {
			t.Errorf("bars not in ascending date order at %d", i)
		}
	}
}
