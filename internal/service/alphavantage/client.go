package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockCast/internal/domain/models"
	drepo "StockCast/internal/domain/repository"
	pkghttp "StockCast/pkg/http"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/util"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.alphavantage.co/query"

	maxDailyBars     = 100
	maxSearchResults = 10
	summaryLimit     = 200
)

var (
	// ErrRateLimited is returned when the response carries a Note or Information message.
	ErrRateLimited = errors.New("alphavantage: rate limited")
	// ErrNoData is returned when the provider has nothing usable for the request.
	ErrNoData = errors.New("alphavantage: no data")
)

// Client implements repository.QuoteProvider against the Alpha Vantage query API.
type Client struct {
	apiKey  string
	baseURL string
	http    *pkghttp.Client
	limiter *rate.Limiter
	metrics drepo.ProviderMetrics
	l       *applogger.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

func WithHTTPClient(hc *pkghttp.Client) Option { return func(c *Client) { c.http = hc } }

// WithRateLimit caps outbound calls. The free tier allows 5 per minute.
func WithRateLimit(perMinute, burst int) Option {
	return func(c *Client) {
		if perMinute <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst)
	}
}

func WithMetrics(m drepo.ProviderMetrics) Option { return func(c *Client) { c.metrics = m } }

func WithLogger(l *applogger.Logger) Option { return func(c *Client) { c.l = l } }

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		l:       applogger.Nop(),
	}
	WithRateLimit(5, 1)(c)
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = pkghttp.NewClient(
			pkghttp.WithTimeout(10*time.Second),
			pkghttp.WithUserAgent("StockCast/1.0"),
		)
	}
	c.l = c.l.With("alphavantage")
	return c
}

func (c *Client) GlobalQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	var resp globalQuoteResponse
	if err := c.query(ctx, "GLOBAL_QUOTE", map[string]string{"symbol": symbol}, &resp, &resp.envelope); err != nil {
		return nil, err
	}
	q := resp.GlobalQuote
	if len(q) == 0 {
		return nil, fmt.Errorf("global quote %s: %w", symbol, ErrNoData)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(q["05. price"]), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, fmt.Errorf("global quote %s: invalid price %q: %w", symbol, q["05. price"], ErrNoData)
	}

	return &models.Quote{
		Symbol:           util.FirstNonEmpty(q["01. symbol"], strings.ToUpper(symbol)),
		Price:            price,
		Change:           util.ParseFloatDefault(q["09. change"], 0),
		ChangePercent:    util.ParseFloatDefault(q["10. change percent"], 0),
		Volume:           util.ParseInt64Default(q["06. volume"], 0),
		PreviousClose:    util.ParseFloatDefault(q["08. previous close"], 0),
		LatestTradingDay: q["07. latest trading day"],
	}, nil
}

// DailySeries returns up to the 100 most recent daily bars, oldest first.
func (c *Client) DailySeries(ctx context.Context, symbol string) ([]models.PriceBar, error) {
	var resp dailySeriesResponse
	if err := c.query(ctx, "TIME_SERIES_DAILY", map[string]string{"symbol": symbol}, &resp, &resp.envelope); err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(resp.Series))
	for d := range resp.Series {
		dates = append(dates, d)
	}
	// YYYY-MM-DD sorts lexically
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > maxDailyBars {
		dates = dates[:maxDailyBars]
	}

	bars := make([]models.PriceBar, 0, len(dates))
	for i := len(dates) - 1; i >= 0; i-- {
		row := resp.Series[dates[i]]
		bars = append(bars, models.PriceBar{
			Date:   dates[i],
			Open:   util.ParseFloatDefault(row["1. open"], 0),
			High:   util.ParseFloatDefault(row["2. high"], 0),
			Low:    util.ParseFloatDefault(row["3. low"], 0),
			Close:  util.ParseFloatDefault(row["4. close"], 0),
			Volume: util.ParseInt64Default(row["5. volume"], 0),
		})
	}
	return bars, nil
}

// Overview fills absent fields with display defaults.
func (c *Client) Overview(ctx context.Context, symbol string) (*models.CompanyInfo, error) {
	var resp overviewResponse
	if err := c.query(ctx, "OVERVIEW", map[string]string{"symbol": symbol}, &resp, &resp.envelope); err != nil {
		return nil, err
	}
	info := DefaultCompanyInfo(symbol)
	info.Name = util.FirstNonEmpty(resp.Name, info.Name)
	info.Sector = util.FirstNonEmpty(resp.Sector, info.Sector)
	info.Industry = util.FirstNonEmpty(resp.Industry, info.Industry)
	info.MarketCap = util.FirstNonEmpty(resp.MarketCapitalization, info.MarketCap)
	info.PERatio = util.FirstNonEmpty(resp.PERatio, info.PERatio)
	info.DividendYield = util.FirstNonEmpty(resp.DividendYield, info.DividendYield)
	info.Description = util.FirstNonEmpty(resp.Description, info.Description)
	info.Employees = util.FirstNonEmpty(resp.FullTimeEmployees, info.Employees)
	return &info, nil
}

// DefaultCompanyInfo is used when the overview is missing or fails.
func DefaultCompanyInfo(symbol string) models.CompanyInfo {
	return models.CompanyInfo{
		Name:          strings.ToUpper(symbol) + " Corporation",
		Sector:        "Technology",
		Industry:      "Software",
		MarketCap:     "N/A",
		PERatio:       "N/A",
		DividendYield: "0",
		Description:   "No description available",
		Employees:     "N/A",
	}
}

func (c *Client) SymbolSearch(ctx context.Context, keywords string) ([]models.SearchResult, error) {
	var resp symbolSearchResponse
	if err := c.query(ctx, "SYMBOL_SEARCH", map[string]string{"keywords": keywords}, &resp, &resp.envelope); err != nil {
		return nil, err
	}
	matches := resp.BestMatches
	if len(matches) > maxSearchResults {
		matches = matches[:maxSearchResults]
	}
	out := make([]models.SearchResult, 0, len(matches))
	for _, m := range matches {
		out = append(out, models.SearchResult{
			Symbol:   m["1. symbol"],
			Name:     m["2. name"],
			Type:     m["3. type"],
			Region:   m["4. region"],
			Currency: m["8. currency"],
		})
	}
	return out, nil
}

func (c *Client) News(ctx context.Context, limit int) ([]models.Article, error) {
	var resp newsResponse
	params := map[string]string{"limit": "20"}
	if err := c.query(ctx, "NEWS_SENTIMENT", params, &resp, &resp.envelope); err != nil {
		return nil, err
	}
	feed := resp.Feed
	if limit > 0 && len(feed) > limit {
		feed = feed[:limit]
	}
	out := make([]models.Article, 0, len(feed))
	for _, a := range feed {
		sentiment := strings.ToLower(a.OverallSentimentLabel)
		if sentiment == "" {
			sentiment = "neutral"
		}
		out = append(out, models.Article{
			ID:             a.URL,
			Title:          a.Title,
			Summary:        util.Truncate(a.Summary, summaryLimit),
			Source:         a.Source,
			URL:            a.URL,
			PublishedAt:    a.TimePublished,
			Sentiment:      sentiment,
			RelevanceScore: util.ParseFloatDefault(a.RelevanceScore, 0.5),
		})
	}
	return out, nil
}

// query waits for the limiter, performs the call and classifies the provider envelope.
func (c *Client) query(ctx context.Context, function string, params map[string]string, dest interface{}, env *envelope) error {
	start := time.Now()
	err := c.do(ctx, function, params, dest, env)
	if c.metrics != nil {
		c.metrics.ObserveUpstream(function, time.Since(start).Seconds(), err)
	}
	if err != nil && !errors.Is(err, ErrRateLimited) && !errors.Is(err, ErrNoData) {
		c.l.Warn("upstream call failed",
			applogger.String("function", function),
			applogger.Error(err),
		)
	}
	return err
}

func (c *Client) do(ctx context.Context, function string, params map[string]string, dest interface{}, env *envelope) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limiter: %w", function, err)
	}

	qp := map[string][]string{
		"function": {function},
		"apikey":   {c.apiKey},
	}
	for k, v := range params {
		qp[k] = []string{v}
	}

	if err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{URL: c.baseURL, QueryParams: qp}, dest); err != nil {
		return fmt.Errorf("%s: %w", function, err)
	}

	switch {
	case env.Note != "" || env.Information != "":
		return fmt.Errorf("%s: %s: %w", function, util.FirstNonEmpty(env.Note, env.Information), ErrRateLimited)
	case env.ErrorMessage != "":
		return fmt.Errorf("%s: %s: %w", function, env.ErrorMessage, ErrNoData)
	}
	return nil
}
