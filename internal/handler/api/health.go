package api

import (
	"context"
	"net/http"
	"time"

	xhttp "StockCast/pkg/http"
	"StockCast/pkg/queue"

	"github.com/labstack/echo/v4"
)

// Check probes one dependency. A nil error means healthy.
type Check func(ctx context.Context) error

type QueueStats interface {
	Stats(ctx context.Context) (queue.Stats, error)
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
	Queue     *queue.Stats      `json:"queue,omitempty"`
}

type HealthHandler struct {
	checks  map[string]Check
	queue   QueueStats
	timeout time.Duration
}

// NewHealthHandler builds the /health handler. queue may be nil.
func NewHealthHandler(checks map[string]Check, q QueueStats) *HealthHandler {
	return &HealthHandler{checks: checks, queue: q, timeout: 2 * time.Second}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
}

func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Service:   "StockCast",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
		for name, check := range h.checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
	}
	if h.queue != nil {
		if st, err := h.queue.Stats(ctx); err == nil {
			resp.Queue = &st
		}
	}
	return xhttp.DataResponse(c, status, resp)
}
