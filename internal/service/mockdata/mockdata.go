// Package mockdata produces demo payloads served when the market-data provider is unavailable.
package mockdata

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/pkg/util"
)

const (
	StockNote  = "Using demo data - API limit reached or service unavailable"
	MarketNote = "Demo data - API unavailable"

	historyDays   = 30
	searchResults = 8
)

var companyNames = map[string]string{
	"AAPL":  "Apple Inc.",
	"GOOGL": "Alphabet Inc.",
	"MSFT":  "Microsoft Corporation",
	"TSLA":  "Tesla, Inc.",
	"AMZN":  "Amazon.com, Inc.",
	"NVDA":  "NVIDIA Corporation",
	"META":  "Meta Platforms, Inc.",
	"NFLX":  "Netflix, Inc.",
	"HDFC":  "HDFC Bank Limited",
}

// Popular is the fallback search universe.
var Popular = []models.SearchResult{
	{Symbol: "AAPL", Name: "Apple Inc.", Type: "Equity", Region: "United States", Currency: "USD"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Type: "Equity", Region: "United States", Currency: "USD"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Type: "Equity", Region: "United States", Currency: "USD"},
	{Symbol: "TSLA", Name: "Tesla, Inc.", Type: "Equity", Region: "United States", Currency: "USD"},
	{Symbol: "AMZN", Name: "Amazon.com, Inc.", Type: "Equity", Region: "United States", Currency: "USD"},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Type: "Equity", Region: "United States", Currency: "USD"},
	{Symbol: "META", Name: "Meta Platforms, Inc.", Type: "Equity", Region: "United States", Currency: "USD"},
	{Symbol: "NFLX", Name: "Netflix, Inc.", Type: "Equity", Region: "United States", Currency: "USD"},
	{Symbol: "HDFC", Name: "HDFC Bank Limited", Type: "Equity", Region: "India", Currency: "INR"},
	{Symbol: "TCS", Name: "Tata Consultancy Services", Type: "Equity", Region: "India", Currency: "INR"},
	{Symbol: "RELIANCE", Name: "Reliance Industries Limited", Type: "Equity", Region: "India", Currency: "INR"},
	{Symbol: "INFY", Name: "Infosys Limited", Type: "Equity", Region: "India", Currency: "INR"},
	{Symbol: "ICICIBANK", Name: "ICICI Bank Limited", Type: "Equity", Region: "India", Currency: "INR"},
	{Symbol: "SBIN", Name: "State Bank of India", Type: "Equity", Region: "India", Currency: "INR"},
	{Symbol: "ITC", Name: "ITC Limited", Type: "Equity", Region: "India", Currency: "INR"},
	{Symbol: "HDFCBANK", Name: "HDFC Bank Limited", Type: "Equity", Region: "India", Currency: "INR"},
	{Symbol: "BHARTIARTL", Name: "Bharti Airtel Limited", Type: "Equity", Region: "India", Currency: "INR"},
	{Symbol: "KOTAKBANK", Name: "Kotak Mahindra Bank Limited", Type: "Equity", Region: "India", Currency: "INR"},
}

// index ranges: value base and spread, change spread, change-percent spread, volume base and spread
type indexSpec struct {
	name, symbol             string
	value, valueSpread       float64
	change, changePct        float64
	volumeBase, volumeSpread int64
}

var indices = []indexSpec{
	{"S&P 500", "SPY", 4200, 400, 50, 2, 50_000_000, 100_000_000},
	{"NASDAQ", "QQQ", 350, 50, 10, 3, 40_000_000, 80_000_000},
	{"Dow Jones", "DIA", 340, 40, 8, 1.5, 15_000_000, 30_000_000},
}

// IndexSymbols lists the market overview tickers in display order.
func IndexSymbols() []string {
	out := make([]string, len(indices))
	for i, ix := range indices {
		out[i] = ix.symbol
	}
	return out
}

// IndexName maps an overview ticker to its display name.
func IndexName(symbol string) string {
	for _, ix := range indices {
		if ix.symbol == symbol {
			return ix.name
		}
	}
	return symbol
}

// Generator is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func New(seed int64, now func() time.Time) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rand.New(rand.NewSource(seed)), now: now}
}

func (g *Generator) float() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64()
}

func (g *Generator) int63n(n int64) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Int63n(n)
}

// CompanyName returns the known name for symbol or "<SYM> Corporation".
func CompanyName(symbol string) string {
	if n, ok := companyNames[symbol]; ok {
		return n
	}
	return symbol + " Corporation"
}

// Stock builds a full demo payload for symbol.
func (g *Generator) Stock(symbol string) *models.StockData {
	symbol = util.NormalizeSymbol(symbol)
	base := g.float()*200 + 50
	change := (g.float() - 0.5) * 10
	name := CompanyName(symbol)

	return &models.StockData{
		Symbol:         symbol,
		CurrentPrice:   models.Round2(base),
		Change:         models.Round2(change),
		ChangePercent:  models.Round2(change / base * 100),
		Volume:         g.int63n(50_000_000) + 5_000_000,
		PreviousClose:  models.Round2(base - change),
		LastUpdated:    util.FormatDate(g.now()),
		HistoricalData: g.historyAround(base),
		CompanyInfo: models.CompanyInfo{
			Name:          name,
			Sector:        "Technology",
			Industry:      "Software",
			MarketCap:     fmt.Sprintf("$%.0fB", g.float()*2000+100),
			PERatio:       fmt.Sprintf("%.2f", g.float()*30+10),
			DividendYield: fmt.Sprintf("%.2f", g.float()*5),
			Description:   name + " is a leading company in its sector.",
			Employees:     fmt.Sprintf("%.0fK", g.float()*500+50),
		},
		DataSource: models.SourceMockData,
		Note:       StockNote,
	}
}

// History returns 31 daily bars, today-30 through today.
func (g *Generator) History() []models.PriceBar {
	return g.historyAround(g.float()*200 + 50)
}

func (g *Generator) historyAround(base float64) []models.PriceBar {
	now := g.now()
	bars := make([]models.PriceBar, 0, historyDays+1)
	for i := historyDays; i >= 0; i-- {
		price := base + (g.float()-0.5)*20
		bars = append(bars, models.PriceBar{
			Date:   util.FormatDate(now.AddDate(0, 0, -i)),
			Open:   models.Round2(price * 0.99),
			High:   models.Round2(price * 1.02),
			Low:    models.Round2(price * 0.98),
			Close:  models.Round2(price),
			Volume: g.int63n(10_000_000) + 1_000_000,
		})
	}
	return bars
}

// Search matches query case-insensitively against symbol and name of the popular list.
func Search(query string) []models.SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.SearchResult, 0, searchResults)
	for _, s := range Popular {
		if strings.Contains(strings.ToLower(s.Symbol), q) || strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
			if len(out) == searchResults {
				break
			}
		}
	}
	return out
}

// MarketIndex returns a demo value for one overview ticker.
func (g *Generator) MarketIndex(symbol string) models.MarketIndex {
	spec := indices[0]
	for _, ix := range indices {
		if ix.symbol == symbol {
			spec = ix
		}
	}
	return models.MarketIndex{
		Name:          spec.name,
		Symbol:        spec.symbol,
		Value:         spec.value + g.float()*spec.valueSpread,
		Change:        (g.float() - 0.5) * spec.change,
		ChangePercent: (g.float() - 0.5) * spec.changePct,
		Volume:        g.int63n(spec.volumeSpread) + spec.volumeBase,
		LastUpdated:   util.FormatDate(g.now()),
		Note:          MarketNote,
	}
}

// MarketIndices returns demo values for SPY, QQQ and DIA.
func (g *Generator) MarketIndices() []models.MarketIndex {
	out := make([]models.MarketIndex, 0, len(indices))
	for _, ix := range indices {
		out = append(out, g.MarketIndex(ix.symbol))
	}
	return out
}
