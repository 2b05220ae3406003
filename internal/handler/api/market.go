package api

import (
	"context"

	"StockCast/internal/domain/models"
	xhttp "StockCast/pkg/http"
	applogger "StockCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

type MarketService interface {
	Overview(ctx context.Context) (*models.MarketOverview, error)
}

type NewsService interface {
	Latest(ctx context.Context) (*models.NewsFeed, error)
}

// MarketHandler serves market overview and news.
type MarketHandler struct {
	market MarketService
	news   NewsService
	l      *applogger.Logger
}

func NewMarketHandler(market MarketService, news NewsService, l *applogger.Logger) *MarketHandler {
	return &MarketHandler{market: market, news: news, l: l.With("market_handler")}
}

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/market/overview", h.Overview)
	e.GET("/api/news", h.News)
}

func (h *MarketHandler) Overview(c echo.Context) error {
	ov, err := h.market.Overview(c.Request().Context())
	if err != nil {
		h.l.Error("market overview failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err, "Failed to fetch market data"))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=60")
	return xhttp.SuccessResponse(c, ov)
}

func (h *MarketHandler) News(c echo.Context) error {
	feed, err := h.news.Latest(c.Request().Context())
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.InternalError("Failed to fetch news").WithError(err))
	}
	return xhttp.SuccessResponse(c, feed)
}
