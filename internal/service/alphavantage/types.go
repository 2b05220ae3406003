package alphavantage

// Raw Alpha Vantage payloads. Numbers arrive as strings.

type envelope struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

type globalQuoteResponse struct {
	envelope
	GlobalQuote map[string]string `json:"Global Quote"`
}

type dailySeriesResponse struct {
	envelope
	Series map[string]map[string]string `json:"Time Series (Daily)"`
}

type overviewResponse struct {
	envelope
	Name                 string `json:"Name"`
	Sector               string `json:"Sector"`
	Industry             string `json:"Industry"`
	MarketCapitalization string `json:"MarketCapitalization"`
	PERatio              string `json:"PERatio"`
	DividendYield        string `json:"DividendYield"`
	Description          string `json:"Description"`
	FullTimeEmployees    string `json:"FullTimeEmployees"`
}

type symbolSearchResponse struct {
	envelope
	BestMatches []map[string]string `json:"bestMatches"`
}

type newsItem struct {
	Title                 string `json:"title"`
	URL                   string `json:"url"`
	TimePublished         string `json:"time_published"`
	Summary               string `json:"summary"`
	Source                string `json:"source"`
	OverallSentimentLabel string `json:"overall_sentiment_label"`
	RelevanceScore        string `json:"relevance_score"`
}

type newsResponse struct {
	envelope
	Feed []newsItem `json:"feed"`
}
