package forecast

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"

	"StockCast/internal/domain/models"
	"StockCast/internal/domain/service"
	"StockCast/internal/services/indicators"
	"StockCast/internal/services/signals"
)

// Projection keeps each model's raw output for one forecast.
type Projection struct {
	Linear     []float64
	MonteCarlo []float64
	Blended    []float64
	Volatility float64
}

// Engine produces 7-day forecasts. It holds no per-request state and is safe for concurrent use.
type Engine struct {
	cfg *Config
}

var _ service.Forecaster = (*Engine)(nil)

// NewEngine creates a forecast engine.
func NewEngine(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Engine{cfg: cfg}
}

// Project runs both models over closes and blends them.
func (e *Engine) Project(closes []float64) Projection {
	vol := indicators.Volatility(closes)
	current := 0.0
	if len(closes) > 0 {
		current = closes[len(closes)-1]
	}
	linear := LinearRegression(closes, models.ForecastHorizon)
	mc := monteCarloParallel(e.cfg.Seeder(), current, vol, models.ForecastHorizon, e.cfg.Simulations, e.cfg.Workers)
	return Projection{
		Linear:     linear,
		MonteCarlo: mc,
		Blended:    Blend(linear, mc),
		Volatility: vol,
	}
}

// GenerateForecast validates bars and builds a forecast record.
// It returns *models.ValidationError for short or unusable input.
func (e *Engine) GenerateForecast(ctx context.Context, symbol string, bars []models.PriceBar) (*models.ForecastRecord, error) {
	if len(bars) < models.MinForecastBars {
		return nil, models.NewInsufficientData(len(bars), models.MinForecastBars)
	}
	closes := models.Closes(bars)
	allZero := true
	for i, c := range closes {
		if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
			return nil, models.NewDegenerateInput(i, c)
		}
		if c != 0 {
			allZero = false
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in := signals.InputsFrom(closes)
	sigs := signals.Classify(in)
	current := closes[len(closes)-1]

	var (
		prices []float64
		conf   func(i int) float64
		vol    float64
	)
	if allZero {
		vol = indicators.Volatility(closes)
		prices = make([]float64, models.ForecastHorizon)
		for i := range prices {
			prices[i] = current
		}
		conf = func(int) float64 { return minConfidence }
	} else {
		p := e.Project(closes)
		vol = p.Volatility
		prices = p.Blended
		conf = func(i int) float64 { return Confidence(vol, i) }
	}

	now := e.cfg.Now()
	predictions := make([]models.Prediction, len(prices))
	for i, price := range prices {
		predictions[i] = models.Prediction{
			Date:       now.AddDate(0, 0, i+1).Format("2006-01-02"),
			Price:      models.Round2(price),
			Confidence: models.Round1(conf(i)),
		}
	}

	return &models.ForecastRecord{
		ID:          uuid.NewString(),
		Symbol:      strings.ToUpper(symbol),
		Predictions: predictions,
		TechnicalIndicators: models.TechnicalIndicators{
			SMA20:      models.Round2(in.SMA20),
			SMA50:      models.Round2(in.SMA50),
			RSI:        models.Round2(in.RSI),
			Volatility: models.Round1(vol * 100),
		},
		Signals:        sigs,
		Recommendation: signals.Recommend(sigs),
		Accuracy:       models.Round1(Accuracy(vol)),
		Algorithm:      models.AlgorithmLabel,
		Degenerate:     allZero,
		LastUpdated:    now.UTC(),
	}, nil
}
