package models

// Data sources reported to clients.
const (
	SourceAlphaVantage = "alpha_vantage"
	SourceMockData     = "mock_data"
	SourceFallback     = "fallback"
)

// Quote is the latest provider quote for a symbol.
type Quote struct {
	Symbol           string  `json:"symbol"`
	Price            float64 `json:"price"`
	Change           float64 `json:"change"`
	ChangePercent    float64 `json:"changePercent"`
	Volume           int64   `json:"volume"`
	PreviousClose    float64 `json:"previousClose"`
	LatestTradingDay string  `json:"latestTradingDay"`
}

type CompanyInfo struct {
	Name          string `json:"name"`
	Sector        string `json:"sector"`
	Industry      string `json:"industry"`
	MarketCap     string `json:"marketCap"`
	PERatio       string `json:"peRatio"`
	DividendYield string `json:"dividendYield"`
	Description   string `json:"description"`
	Employees     string `json:"employees"`
}

// StockData is the quote payload served to the dashboard, cached per symbol.
type StockData struct {
	Symbol         string      `json:"symbol"`
	CurrentPrice   float64     `json:"currentPrice"`
	Change         float64     `json:"change"`
	ChangePercent  float64     `json:"changePercent"`
	Volume         int64       `json:"volume"`
	PreviousClose  float64     `json:"previousClose"`
	LastUpdated    string      `json:"lastUpdated"`
	HistoricalData []PriceBar  `json:"historicalData"`
	CompanyInfo    CompanyInfo `json:"companyInfo"`
	DataSource     string      `json:"dataSource"`
	Cached         bool        `json:"cached"`
	Note           string      `json:"note,omitempty"`
}

type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Region   string `json:"region"`
	Currency string `json:"currency"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Source  string         `json:"source"`
	Note    string         `json:"note,omitempty"`
}

type MarketIndex struct {
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	LastUpdated   string  `json:"lastUpdated"`
	Note          string  `json:"note,omitempty"`
}

// Market status values.
const (
	MarketOpen   = "OPEN"
	MarketClosed = "CLOSED"
)

type MarketOverview struct {
	Indices      []MarketIndex `json:"indices"`
	MarketStatus string        `json:"marketStatus"`
	LastUpdated  string        `json:"lastUpdated"`
}

type Article struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Summary        string  `json:"summary"`
	Source         string  `json:"source"`
	URL            string  `json:"url"`
	PublishedAt    string  `json:"publishedAt"`
	Sentiment      string  `json:"sentiment"`
	RelevanceScore float64 `json:"relevanceScore"`
}

type NewsFeed struct {
	Articles    []Article `json:"articles"`
	Message     string    `json:"message,omitempty"`
	LastUpdated string    `json:"lastUpdated,omitempty"`
}

// QuoteTick is one frame of the live quote stream.
type QuoteTick struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	DataSource    string  `json:"dataSource"`
	Timestamp     string  `json:"timestamp"`
}
