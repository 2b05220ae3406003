package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCast/internal/domain/models"
	"StockCast/internal/usecase"
	xhttp "StockCast/pkg/http"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/queue"
)

type fakeStocks struct{ err error }

func (f fakeStocks) GetStock(_ context.Context, symbol string) (*models.StockData, error) {
	if f.err != nil {
		return nil, f.err
	}
	if strings.ContainsAny(symbol, "0123456789") {
		return nil, usecase.ErrInvalidSymbol
	}
	return &models.StockData{Symbol: strings.ToUpper(symbol), CurrentPrice: 101.5, DataSource: models.SourceMockData}, nil
}

type fakeSearch struct{}

func (fakeSearch) Search(_ context.Context, q string) (*models.SearchResponse, error) {
	return &models.SearchResponse{Results: []models.SearchResult{{Symbol: strings.ToUpper(q)}}, Source: models.SourceFallback}, nil
}

type fakeForecasts struct {
	limit int
}

func (f *fakeForecasts) Predict(_ context.Context, symbol string, bars []models.PriceBar) (*models.ForecastRecord, error) {
	if len(bars) < models.MinForecastBars {
		return nil, models.NewInsufficientData(len(bars), models.MinForecastBars)
	}
	return &models.ForecastRecord{ID: "f-1", Symbol: symbol, Recommendation: models.RecommendationBuy}, nil
}

func (f *fakeForecasts) PredictLatest(_ context.Context, symbol string) (*models.ForecastRecord, error) {
	return nil, errors.New("store exploded")
}

func (f *fakeForecasts) History(_ context.Context, symbol string, limit int) ([]*models.ForecastRecord, error) {
	f.limit = limit
	return []*models.ForecastRecord{{ID: "a", Symbol: symbol}}, nil
}

func (f *fakeForecasts) Indicators(_ context.Context, symbol string) (*models.IndicatorsResponse, error) {
	return &models.IndicatorsResponse{Symbol: symbol}, nil
}

type fakeMarket struct{}

func (fakeMarket) Overview(context.Context) (*models.MarketOverview, error) {
	return &models.MarketOverview{MarketStatus: models.MarketClosed}, nil
}

type fakeNews struct{ err error }

func (f fakeNews) Latest(context.Context) (*models.NewsFeed, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.NewsFeed{Articles: []models.Article{}}, nil
}

type fakeQueue struct{}

func (fakeQueue) Stats(context.Context) (queue.Stats, error) { return queue.Stats{Pending: 2}, nil }

func newTestEcho(t *testing.T, forecasts *fakeForecasts, news NewsService, checks map[string]Check) *echo.Echo {
	t.Helper()
	l := applogger.Nop()
	e := echo.New()
	xhttp.Handlers{
		NewHealthHandler(checks, fakeQueue{}),
		NewStockHandler(fakeStocks{}, fakeSearch{}, forecasts, NewStreamHandler(fakeStocks{}, 20*time.Millisecond, l), l),
		NewMarketHandler(fakeMarket{}, news, l),
	}.RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, xhttp.APIResponse) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp xhttp.APIResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestStockRoutes(t *testing.T) {
	e := newTestEcho(t, &fakeForecasts{}, fakeNews{}, nil)

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantInBody string
	}{
		{"get stock", http.MethodGet, "/api/stock/aapl", "", http.StatusOK, `"symbol":"AAPL"`},
		{"invalid symbol", http.MethodGet, "/api/stock/AB1", "", http.StatusBadRequest, "INVALID_SYMBOL"},
		{"search", http.MethodGet, "/api/stock/search?q=tsla", "", http.StatusOK, `"symbol":"TSLA"`},
		{"search without q", http.MethodGet, "/api/stock/search", "", http.StatusBadRequest, "ERR_REQUIRED"},
		{"indicators", http.MethodGet, "/api/stock/MSFT/indicators", "", http.StatusOK, `"symbol":"MSFT"`},
		{"predict latest failure", http.MethodGet, "/api/stock/MSFT/predict", "", http.StatusInternalServerError, ""},
		{"predict short", http.MethodPost, "/api/stock/MSFT/predict", `{"historicalData":[{"date":"2024-01-01","close":1}]}`, http.StatusBadRequest, "INSUFFICIENT_DATA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(e, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus, resp.Status)
			if tt.wantInBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantInBody)
			}
		})
	}
}

func TestPredict_OK(t *testing.T) {
	e := newTestEcho(t, &fakeForecasts{}, fakeNews{}, nil)

	var bars []string
	for i := 0; i < 12; i++ {
		bars = append(bars, `{"date":"2024-01-01","close":100}`)
	}
	rec, _ := do(e, http.MethodPost, "/api/stock/NVDA/predict", `{"historicalData":[`+strings.Join(bars, ",")+`]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"recommendation":"BUY"`)
}

func TestForecastHistory_DefaultLimit(t *testing.T) {
	f := &fakeForecasts{}
	e := newTestEcho(t, f, fakeNews{}, nil)

	rec, _ := do(e, http.MethodGet, "/api/stock/AAPL/forecasts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20, f.limit)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	rec, _ = do(e, http.MethodGet, "/api/stock/AAPL/forecasts?limit=0", "")
	assert.Equal(t, http.StatusOK, rec.Code, "zero falls back to the default")

	rec, _ = do(e, http.MethodGet, "/api/stock/AAPL/forecasts?limit=1000", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarketAndNews(t *testing.T) {
	e := newTestEcho(t, &fakeForecasts{}, fakeNews{}, nil)
	rec, _ := do(e, http.MethodGet, "/api/market/overview", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"marketStatus":"CLOSED"`)

	rec, _ = do(e, http.MethodGet, "/api/news", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	e = newTestEcho(t, &fakeForecasts{}, fakeNews{err: errors.New("boom")}, nil)
	rec, _ = do(e, http.MethodGet, "/api/news", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch news")
}

func TestHealth(t *testing.T) {
	e := newTestEcho(t, &fakeForecasts{}, fakeNews{}, map[string]Check{
		"redis": func(context.Context) error { return nil },
	})
	rec, _ := do(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.Contains(t, rec.Body.String(), `"pending":2`)

	e = newTestEcho(t, &fakeForecasts{}, fakeNews{}, map[string]Check{
		"clickhouse": func(context.Context) error { return errors.New("down") },
	})
	rec, _ = do(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"clickhouse":"down"`)
}

func TestStream(t *testing.T) {
	e := newTestEcho(t, &fakeForecasts{}, fakeNews{}, nil)
	srv := httptest.NewServer(e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/stock/aapl/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	for i := 0; i < 2; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var tick models.QuoteTick
		require.NoError(t, conn.ReadJSON(&tick))
		assert.Equal(t, "AAPL", tick.Symbol)
		assert.Equal(t, 101.5, tick.Price)
	}
}

func TestStream_InvalidSymbol(t *testing.T) {
	e := newTestEcho(t, &fakeForecasts{}, fakeNews{}, nil)
	rec, _ := do(e, http.MethodGet, "/api/stock/A1/stream", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
