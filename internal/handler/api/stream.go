package api

import (
	"net/http"
	"time"

	"StockCast/internal/domain/models"
	xhttp "StockCast/pkg/http"
	applogger "StockCast/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// StreamHandler pushes quote ticks over a websocket at a fixed interval.
type StreamHandler struct {
	stocks   StockService
	interval time.Duration
	upgrader websocket.Upgrader
	l        *applogger.Logger
}

func NewStreamHandler(stocks StockService, interval time.Duration, l *applogger.Logger) *StreamHandler {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &StreamHandler{
		stocks:   stocks,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		l: l.With("stream"),
	}
}

// Stream validates the symbol with a first fetch, then upgrades.
func (h *StreamHandler) Stream(c echo.Context) error {
	ctx := c.Request().Context()
	symbol := c.Param("symbol")

	first, err := h.stocks.GetStock(ctx, symbol)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err, "Failed to fetch stock data"))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader already wrote the HTTP error
		h.l.Warn("websocket upgrade failed", applogger.String("symbol", first.Symbol), applogger.Error(err))
		return nil
	}
	defer conn.Close()

	h.l.Debug("stream opened", applogger.String("symbol", first.Symbol), applogger.String("remote", c.RealIP()))

	closed := make(chan struct{})
	go h.readPump(conn, closed)

	if err := h.send(conn, first); err != nil {
		return nil
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-closed:
			h.l.Debug("stream closed by client", applogger.String("symbol", first.Symbol))
			return nil
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case <-ticker.C:
			data, err := h.stocks.GetStock(ctx, first.Symbol)
			if err != nil {
				h.l.Warn("stream refresh failed", applogger.String("symbol", first.Symbol), applogger.Error(err))
				continue
			}
			if err := h.send(conn, data); err != nil {
				return nil
			}
		}
	}
}

// readPump drains client frames so control messages are processed.
func (h *StreamHandler) readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *StreamHandler) send(conn *websocket.Conn, data *models.StockData) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := conn.WriteJSON(models.QuoteTick{
		Symbol:        data.Symbol,
		Price:         data.CurrentPrice,
		Change:        data.Change,
		ChangePercent: data.ChangePercent,
		Volume:        data.Volume,
		DataSource:    data.DataSource,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.l.Debug("stream write failed", applogger.String("symbol", data.Symbol), applogger.Error(err))
	}
	return err
}
