package marketdata

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ipveka/HedgeLab/internal/model"
)

// Options configures a Provider. Zero durations get defaults.
type Options struct {
	StockTTL        time.Duration // series cache TTL for single stocks
	IndexTTL        time.Duration // series cache TTL for indices
	RateTTL         time.Duration // series cache TTL for reference rates
	MinCallInterval time.Duration // courtesy delay between vendor calls
	Fallback        Fetcher       // optional synthetic substitute; nil disables
}

func (o *Options) applyDefaults() {
	if o.StockTTL == 0 {
		o.StockTTL = 15 * time.Minute
	}
	if o.IndexTTL == 0 {
		o.IndexTTL = 60 * time.Minute
	}
	if o.RateTTL == 0 {
		o.RateTTL = 60 * time.Minute
	}
	if o.MinCallInterval == 0 {
		o.MinCallInterval = time.Second
	}
}

// Provider wraps the vendor Fetcher with a TTL cache, a shared rate governor,
// and an at-most-once fallback to synthetic data. It is the only component
// that talks to the vendor.
type Provider struct {
	fetcher Fetcher
	opts    Options
	cache   *seriesCache

	govMu       sync.Mutex
	lastCall    time.Time
	rateLimited int

	now   func() time.Time
	sleep func(time.Duration)
}

// NewProvider creates a Provider around the given vendor capability.
func NewProvider(fetcher Fetcher, opts Options) *Provider {
	opts.applyDefaults()
	return &Provider{
		fetcher: fetcher,
		opts:    opts,
		cache:   newSeriesCache(),
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

func (p *Provider) ttl(class Class) time.Duration {
	switch class {
	case ClassIndex:
		return p.opts.IndexTTL
	case ClassRate:
		return p.opts.RateTTL
	default:
		return p.opts.StockTTL
	}
}

// govern blocks until at least MinCallInterval has passed since the previous
// vendor call. It is a courtesy governor, not a quota enforcer.
func (p *Provider) govern() {
	p.govMu.Lock()
	wait := p.opts.MinCallInterval - p.now().Sub(p.lastCall)
	if wait > 0 {
		p.sleep(wait)
	}
	p.lastCall = p.now()
	p.govMu.Unlock()
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Too Many Requests") ||
		strings.Contains(msg, "Rate limited") ||
		strings.Contains(msg, "status 429")
}

// GetBars returns the bar series for (symbol, period), serving from the cache
// while fresh for the given TTL class. On vendor failure it substitutes the
// synthetic fallback at most once; without a fallback it surfaces
// ErrDataUnavailable.
func (p *Provider) GetBars(symbol string, period model.Period, class Class) ([]model.PriceBar, error) {
	key := cacheKey{symbol: symbol, period: period, class: class}
	if bars, ok := p.cache.get(key, p.now(), p.ttl(class)); ok {
		return bars, nil
	}

	p.govern()
	bars, err := p.fetcher.FetchBars(symbol, period)
	if err != nil {
		if isRateLimited(err) {
			p.govMu.Lock()
			p.rateLimited++
			p.govMu.Unlock()
			log.Printf("[WARN] vendor rate limited for %s: %v", symbol, err)
		}
		if p.opts.Fallback == nil {
			return nil, fmt.Errorf("%w: fetch %s %s: %v", ErrDataUnavailable, symbol, period, err)
		}
		log.Printf("[WARN] falling back to %s data for %s: %v", p.opts.Fallback.Name(), symbol, err)
		bars, err = p.opts.Fallback.FetchBars(symbol, period)
		if err != nil {
			return nil, fmt.Errorf("%w: fallback for %s %s: %v", ErrDataUnavailable, symbol, period, err)
		}
	}

	p.cache.put(key, bars, p.now())
	return bars, nil
}

// CurrentPrice returns the latest close for a symbol.
func (p *Provider) CurrentPrice(symbol string) (float64, error) {
	bars, err := p.GetBars(symbol, model.Period1D, ClassStock)
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		return 0, fmt.Errorf("%w: no price bars for %s", ErrDataUnavailable, symbol)
	}
	return bars[len(bars)-1].Close, nil
}

// GetInfo returns fundamentals for a symbol, rate-governed and with the same
// single fallback substitution as GetBars. Fundamentals are not cached.
func (p *Provider) GetInfo(symbol string) (model.StockInfo, error) {
	p.govern()
	info, err := p.fetcher.FetchInfo(symbol)
	if err != nil {
		if isRateLimited(err) {
			p.govMu.Lock()
			p.rateLimited++
			p.govMu.Unlock()
			log.Printf("[WARN] vendor rate limited for %s info: %v", symbol, err)
		}
		if p.opts.Fallback == nil {
			return model.StockInfo{}, fmt.Errorf("%w: info %s: %v", ErrDataUnavailable, symbol, err)
		}
		log.Printf("[WARN] falling back to %s info for %s: %v", p.opts.Fallback.Name(), symbol, err)
		info, err = p.opts.Fallback.FetchInfo(symbol)
		if err != nil {
			return model.StockInfo{}, fmt.Errorf("%w: fallback info %s: %v", ErrDataUnavailable, symbol, err)
		}
	}
	return info, nil
}

// RateLimitedCount reports how many vendor calls failed with a rate-limit
// pattern since the provider was created.
func (p *Provider) RateLimitedCount() int {
	p.govMu.Lock()
	defer p.govMu.Unlock()
	return p.rateLimited
}

// Fixed symbol sets for the market overview. Indices use percentage change,
// treasury rates use absolute change.
var (
	indexSymbols = []struct{ Name, Symbol string }{
		{"S&P 500", "^GSPC"},
		{"NASDAQ", "^IXIC"},
		{"Dow Jones", "^DJI"},
		{"Russell 2000", "^RUT"},
		{"VIX", "^VIX"},
	}
	rateSymbols = []struct{ Name, Symbol string }{
		{"3M", "^IRX"},
		{"10Y", "^TNX"},
		{"30Y", "^TYX"},
	}
)

// MarketIndices returns the major indices with their percentage change from
// the previous close. Symbols that fail are skipped.
func (p *Provider) MarketIndices() (map[string]model.Quote, error) {
	return p.quotes(indexSymbols, ClassIndex, true)
}

// TreasuryRates returns the reference rates with their absolute change from
// the previous close.
func (p *Provider) TreasuryRates() (map[string]model.Quote, error) {
	return p.quotes(rateSymbols, ClassRate, false)
}

func (p *Provider) quotes(symbols []struct{ Name, Symbol string }, class Class, pctChange bool) (map[string]model.Quote, error) {
	out := make(map[string]model.Quote, len(symbols))
	for _, s := range symbols {
		bars, err := p.GetBars(s.Symbol, model.Period5D, class)
		if err != nil || len(bars) < 2 {
			log.Printf("[WARN] quote for %s (%s) unavailable: %v", s.Name, s.Symbol, err)
			continue
		}
		current := bars[len(bars)-1].Close
		previous := bars[len(bars)-2].Close
		change := current - previous
		if pctChange && previous != 0 {
			change = change / previous * 100
		}
		out[s.Name] = model.Quote{Symbol: s.Symbol, Value: current, Change: change}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no quotes fetched", ErrDataUnavailable)
	}
	return out, nil
}
