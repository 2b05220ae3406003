package api

import (
	"context"
	"net/http"

	"StockCast/internal/domain/models"
	xhttp "StockCast/pkg/http"
	applogger "StockCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

type StockService interface {
	GetStock(ctx context.Context, symbol string) (*models.StockData, error)
}

type SearchService interface {
	Search(ctx context.Context, query string) (*models.SearchResponse, error)
}

type ForecastService interface {
	Predict(ctx context.Context, symbol string, bars []models.PriceBar) (*models.ForecastRecord, error)
	PredictLatest(ctx context.Context, symbol string) (*models.ForecastRecord, error)
	History(ctx context.Context, symbol string, limit int) ([]*models.ForecastRecord, error)
	Indicators(ctx context.Context, symbol string) (*models.IndicatorsResponse, error)
}

// StockHandler serves the /api/stock routes.
type StockHandler struct {
	stocks    StockService
	search    SearchService
	forecasts ForecastService
	stream    *StreamHandler
	l         *applogger.Logger
}

func NewStockHandler(stocks StockService, search SearchService, forecasts ForecastService, stream *StreamHandler, l *applogger.Logger) *StockHandler {
	return &StockHandler{stocks: stocks, search: search, forecasts: forecasts, stream: stream, l: l.With("stock_handler")}
}

func (h *StockHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/stock")
	// static segment first so "search" is never taken for a symbol
	g.GET("/search", h.Search)
	g.GET("/:symbol", h.Get)
	g.GET("/:symbol/predict", h.PredictLatest)
	g.POST("/:symbol/predict", h.Predict)
	g.GET("/:symbol/indicators", h.Indicators)
	g.GET("/:symbol/forecasts", h.History)
	if h.stream != nil {
		g.GET("/:symbol/stream", h.stream.Stream)
	}
}

func (h *StockHandler) Get(c echo.Context) error {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	data, err := h.stocks.GetStock(c.Request().Context(), req.Symbol)
	if err != nil {
		return h.fail(c, "stock", err, "Failed to fetch stock data")
	}
	return xhttp.SuccessResponse(c, data)
}

func (h *StockHandler) Search(c echo.Context) error {
	req := &models.SearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.search.Search(c.Request().Context(), req.Query)
	if err != nil {
		return h.fail(c, "search", err, "Failed to search stocks")
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *StockHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rec, err := h.forecasts.Predict(c.Request().Context(), req.Symbol, req.HistoricalData)
	if err != nil {
		return h.fail(c, "predict", err, "Failed to generate predictions")
	}
	return xhttp.SuccessResponse(c, rec)
}

func (h *StockHandler) PredictLatest(c echo.Context) error {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rec, err := h.forecasts.PredictLatest(c.Request().Context(), req.Symbol)
	if err != nil {
		return h.fail(c, "predict_latest", err, "Failed to generate predictions")
	}
	return xhttp.SuccessResponse(c, rec)
}

func (h *StockHandler) Indicators(c echo.Context) error {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.forecasts.Indicators(c.Request().Context(), req.Symbol)
	if err != nil {
		return h.fail(c, "indicators", err, "Failed to calculate indicators")
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *StockHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	recs, err := h.forecasts.History(c.Request().Context(), req.Symbol, req.Limit)
	if err != nil {
		return h.fail(c, "history", err, "Failed to load forecast history")
	}
	return xhttp.ListResponse(c, recs, int64(len(recs)))
}

func (h *StockHandler) fail(c echo.Context, op string, err error, msg string) error {
	appErr := toAppError(err, msg)
	if appErr.Status >= http.StatusInternalServerError {
		h.l.Error(op+" failed", applogger.String("symbol", c.Param("symbol")), applogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}
