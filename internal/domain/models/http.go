package models

// Requests for stock HTTP endpoints.

type SymbolRequest struct {
	Symbol string `param:"symbol" validate:"required"`
}

type PredictRequest struct {
	Symbol         string     `param:"symbol" validate:"required"`
	HistoricalData []PriceBar `json:"historicalData" validate:"dive"`
}

type SearchRequest struct {
	Query string `query:"q" validate:"required,max=64"`
}

type HistoryRequest struct {
	Symbol string `param:"symbol" validate:"required"`
	Limit  int    `query:"limit" default:"20" validate:"gte=1,lte=500"`
}
