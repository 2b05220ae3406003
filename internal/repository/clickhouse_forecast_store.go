package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	applogger "StockCast/pkg/logger"
)

// ForecastTable is the ClickHouse table holding forecast history.
const ForecastTable = "stock_forecasts"

// ForecastSchema returns the idempotent DDL for the forecast history table.
func ForecastSchema(database string) []string {
	table := ForecastTable
	stmts := []string{}
	if database != "" {
		stmts = append(stmts, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database))
		table = database + "." + ForecastTable
	}
	return append(stmts, fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            id             String,
            symbol         LowCardinality(String),
            created_at     DateTime64(3, 'UTC'),
            recommendation LowCardinality(String),
            accuracy       Float64,
            volatility     Float64,
            sma20          Float64,
            sma50          Float64,
            rsi            Float64,
            trend          LowCardinality(String),
            momentum       LowCardinality(String),
            macd           LowCardinality(String),
            prices         Array(Float64),
            confidences    Array(Float64),
            dates          Array(String),
            degenerate     UInt8
        ) ENGINE = MergeTree
        ORDER BY (symbol, created_at)`, table))
}

// CHForecastStore implements ForecastStore backed by ClickHouse.
type CHForecastStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHForecastStore(db *sql.DB, l *applogger.Logger) *CHForecastStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &CHForecastStore{db: db, table: ForecastTable, l: l.With("forecast_store")}
}

func (s *CHForecastStore) Save(ctx context.Context, rec *models.ForecastRecord) error {
	n := len(rec.Predictions)
	prices := make([]float64, n)
	confidences := make([]float64, n)
	dates := make([]string, n)
	for i, p := range rec.Predictions {
		prices[i] = p.Price
		confidences[i] = p.Confidence
		dates[i] = p.Date
	}

	var degenerate uint8
	if rec.Degenerate {
		degenerate = 1
	}

	q := fmt.Sprintf(`INSERT INTO %s (id, symbol, created_at, recommendation, accuracy, volatility,
        sma20, sma50, rsi, trend, momentum, macd, prices, confidences, dates, degenerate)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table)

	ti := rec.TechnicalIndicators
	_, err := s.db.ExecContext(ctx, q,
		rec.ID,
		rec.Symbol,
		rec.LastUpdated.UTC(),
		string(rec.Recommendation),
		rec.Accuracy,
		ti.Volatility,
		ti.SMA20,
		ti.SMA50,
		ti.RSI,
		string(rec.Signals.Trend),
		string(rec.Signals.Momentum),
		string(rec.Signals.MACD),
		prices,
		confidences,
		dates,
		degenerate,
	)
	if err != nil {
		s.l.Error("clickhouse save forecast error",
			applogger.String("symbol", rec.Symbol),
			applogger.String("id", rec.ID),
			applogger.Error(err),
		)
		return fmt.Errorf("save forecast: %w", err)
	}
	return nil
}

// ListBySymbol returns the newest forecasts first.
func (s *CHForecastStore) ListBySymbol(ctx context.Context, symbol string, limit int) ([]*models.ForecastRecord, error) {
	q := fmt.Sprintf(`SELECT id, symbol, created_at, recommendation, accuracy, volatility,
        sma20, sma50, rsi, trend, momentum, macd, prices, confidences, dates, degenerate
        FROM %s WHERE symbol = ? ORDER BY created_at DESC LIMIT ?`, s.table)

	rows, err := s.db.QueryContext(ctx, q, symbol, limit)
	if err != nil {
		s.l.Error("clickhouse list forecasts query error",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("list forecasts: %w", err)
	}
	defer rows.Close()

	out := make([]*models.ForecastRecord, 0, limit)
	for rows.Next() {
		var (
			rec                   models.ForecastRecord
			createdAt             time.Time
			recommendation        string
			trend, momentum, macd string
			prices, confidences   []float64
			dates                 []string
			degenerate            uint8
		)
		if err := rows.Scan(
			&rec.ID, &rec.Symbol, &createdAt, &recommendation, &rec.Accuracy,
			&rec.TechnicalIndicators.Volatility, &rec.TechnicalIndicators.SMA20,
			&rec.TechnicalIndicators.SMA50, &rec.TechnicalIndicators.RSI,
			&trend, &momentum, &macd, &prices, &confidences, &dates, &degenerate,
		); err != nil {
			return nil, fmt.Errorf("scan forecast: %w", err)
		}

		rec.LastUpdated = createdAt.UTC()
		rec.Recommendation = models.Recommendation(recommendation)
		rec.Signals = models.Signals{
			Trend:    models.Trend(trend),
			Momentum: models.Momentum(momentum),
			MACD:     models.Trend(macd),
		}
		rec.Algorithm = models.AlgorithmLabel
		rec.Degenerate = degenerate == 1
		rec.Predictions = zipPredictions(dates, prices, confidences)
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func zipPredictions(dates []string, prices, confidences []float64) []models.Prediction {
	n := len(prices)
	if len(dates) < n {
		n = len(dates)
	}
	if len(confidences) < n {
		n = len(confidences)
	}
	out := make([]models.Prediction, n)
	for i := 0; i < n; i++ {
		out[i] = models.Prediction{Date: dates[i], Price: prices[i], Confidence: confidences[i]}
	}
	return out
}
