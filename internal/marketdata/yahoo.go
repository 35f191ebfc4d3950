package marketdata

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/ipveka/HedgeLab/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance public API.
type YahooFetcher struct {
	Client *http.Client
}

// NewYahooFetcher creates a Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// FetchBars fetches daily bars; the period enum maps directly onto Yahoo's
// range parameter.
func (f *YahooFetcher) FetchBars(symbol string, period model.Period) ([]model.PriceBar, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=%s",
		url.PathEscape(symbol), period)

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data for %s", symbol)
	}
	quote := result.Indicators.Quote[0]
	bars := make([]model.PriceBar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.PriceBar{
			Date:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toFloat(quote.Volume[i]),
			Symbol: symbol,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// yahooSummary is the subset of the quoteSummary response we read.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			SummaryProfile *struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"summaryProfile"`
			SummaryDetail *struct {
				TrailingPE    rawValue `json:"trailingPE"`
				PriceToBook   rawValue `json:"priceToBook"`
				DividendYield rawValue `json:"dividendYield"`
				Beta          rawValue `json:"beta"`
				MarketCap     rawValue `json:"marketCap"`
			} `json:"summaryDetail"`
			FinancialData *struct {
				CurrentPrice    rawValue `json:"currentPrice"`
				TargetMeanPrice rawValue `json:"targetMeanPrice"`
				RevenueGrowth   rawValue `json:"revenueGrowth"`
				ProfitMargins   rawValue `json:"profitMargins"`
			} `json:"financialData"`
			DefaultKeyStatistics *struct {
				TrailingEps rawValue `json:"trailingEps"`
			} `json:"defaultKeyStatistics"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type rawValue struct {
	Raw float64 `json:"raw"`
}

// FetchInfo fetches fundamental data from the quoteSummary endpoint. Fields
// the vendor omits stay zero.
func (f *YahooFetcher) FetchInfo(symbol string) (model.StockInfo, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=summaryProfile,summaryDetail,financialData,defaultKeyStatistics",
		url.PathEscape(symbol))

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return model.StockInfo{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return model.StockInfo{}, fmt.Errorf("yahoo info fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.StockInfo{}, fmt.Errorf("yahoo info read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.StockInfo{}, fmt.Errorf("yahoo info: status %d, body: %s", resp.StatusCode, string(body))
	}

	var summary yahooSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return model.StockInfo{}, fmt.Errorf("yahoo info decode: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return model.StockInfo{}, fmt.Errorf("yahoo info api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return model.StockInfo{}, fmt.Errorf("yahoo info: no data for %s", symbol)
	}

	r := summary.QuoteSummary.Result[0]
	info := model.StockInfo{Symbol: symbol, Name: symbol}
	if r.SummaryProfile != nil {
		info.Sector = r.SummaryProfile.Sector
		info.Industry = r.SummaryProfile.Industry
	}
	if r.SummaryDetail != nil {
		info.PERatio = r.SummaryDetail.TrailingPE.Raw
		info.PriceToBook = r.SummaryDetail.PriceToBook.Raw
		info.DividendYield = r.SummaryDetail.DividendYield.Raw
		info.Beta = r.SummaryDetail.Beta.Raw
		info.MarketCap = r.SummaryDetail.MarketCap.Raw
	}
	if r.FinancialData != nil {
		info.CurrentPrice = r.FinancialData.CurrentPrice.Raw
		info.TargetPrice = r.FinancialData.TargetMeanPrice.Raw
		info.RevenueGrowth = r.FinancialData.RevenueGrowth.Raw
		info.ProfitMargins = r.FinancialData.ProfitMargins.Raw
	}
	if r.DefaultKeyStatistics != nil {
		info.EPS = r.DefaultKeyStatistics.TrailingEps.Raw
	}
	return info, nil
}
