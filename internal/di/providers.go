package di

import (
	"context"
	"fmt"
	"time"

	"StockCast/internal/domain/repository"
	domsvc "StockCast/internal/domain/service"
	"StockCast/internal/handler/api"
	internalrepo "StockCast/internal/repository"
	"StockCast/internal/scheduler"
	"StockCast/internal/service/alphavantage"
	provmetrics "StockCast/internal/service/metrics"
	"StockCast/internal/service/mockdata"
	"StockCast/internal/service/ratelimit"
	"StockCast/internal/services/forecast"
	"StockCast/internal/services/indicators"
	"StockCast/internal/usecase"
	"StockCast/pkg/cache"
	pkgch "StockCast/pkg/clickhouse"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	"StockCast/pkg/http/middleware"
	pkgkafka "StockCast/pkg/kafka"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/metrics"
	"StockCast/pkg/queue"
	"StockCast/pkg/server"

	"github.com/labstack/echo/v4"
)

const startupTimeout = 10 * time.Second

// ProvideLogger creates the root logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

func ProvideProviderMetrics() repository.ProviderMetrics {
	return provmetrics.NewProvider()
}

// ProvideQuoteProvider creates the Alpha Vantage client.
func ProvideQuoteProvider(cfg *config.Config, pm repository.ProviderMetrics, l *applogger.Logger) repository.QuoteProvider {
	return alphavantage.New(cfg.Provider.APIKey,
		alphavantage.WithBaseURL(cfg.Provider.BaseURL),
		alphavantage.WithHTTPClient(xhttp.NewClient(
			xhttp.WithTimeout(cfg.Provider.Timeout),
			xhttp.WithUserAgent(cfg.Provider.UserAgent),
		)),
		alphavantage.WithRateLimit(cfg.Provider.RequestsPerMinute, cfg.Provider.Burst),
		alphavantage.WithMetrics(pm),
		alphavantage.WithLogger(l),
	)
}

// ProvideRedisCache connects to Redis when the cache or the job queue needs it. It returns nil otherwise.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	if !cfg.Cache.RedisEnabled && !cfg.Scheduler.Enabled {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	rc, err := cache.NewRedisCache(ctx,
		cache.WithRedisAddr(cfg.Redis.Addr),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return rc, nil
}

// ProvideCache layers the in-process LRU over Redis when enabled.
func ProvideCache(cfg *config.Config, rc *cache.RedisCache) (cache.Service, func()) {
	if rc != nil && cfg.Cache.RedisEnabled {
		lc := cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(cfg.Cache.MemoryItems))
		return lc, func() { _ = lc.Close() }
	}

	mc := cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryItems))
	return mc, func() {
		_ = mc.Close()
		if rc != nil {
			_ = rc.Close()
		}
	}
}

func ProvideMockData(cfg *config.Config) *mockdata.Generator {
	return mockdata.New(cfg.Forecast.Seed, time.Now)
}

// ProvideForecaster creates the forecast engine.
func ProvideForecaster(cfg *config.Config) domsvc.Forecaster {
	opts := []forecast.Option{
		forecast.WithSimulations(cfg.Forecast.Simulations),
		forecast.WithWorkers(cfg.Forecast.Workers),
	}
	if cfg.Forecast.Seed != 0 {
		opts = append(opts, forecast.WithSeed(cfg.Forecast.Seed))
	}
	return forecast.NewEngine(opts...)
}

func ProvideIndicatorCalculator() domsvc.IndicatorCalculator {
	return indicators.NewCalculator()
}

// ProvideClickHouseClient opens ClickHouse and creates the forecast schema. It returns nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	if !cfg.ClickHouse.Enabled {
		return nil, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	if err := client.InitSchema(ctx, internalrepo.ForecastSchema(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideForecastStore uses ClickHouse when connected and an in-process store otherwise.
func ProvideForecastStore(ch *pkgch.Client, l *applogger.Logger) repository.ForecastStore {
	if ch == nil {
		return internalrepo.NewMemoryForecastStore(0)
	}
	return internalrepo.NewCHForecastStore(ch.DB(), l)
}

// ProvideKafkaProducer creates a Kafka producer. It returns nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

// ProvideForecastPublisher returns nil when Kafka is disabled.
func ProvideForecastPublisher(cfg *config.Config, producer *pkgkafka.Producer) repository.ForecastPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaForecastPublisher(producer, cfg.Kafka.ForecastTopic)
}

// ProvideLogCollector ships warn and error logs to Kafka when configured.
func ProvideLogCollector(cfg *config.Config, l *applogger.Logger, producer *pkgkafka.Producer) *applogger.Collector {
	if !cfg.Logger.Collector.Enabled || producer == nil {
		return nil
	}
	c := applogger.NewCollector(applogger.CollectorConfig{
		FlushInterval:  cfg.Logger.Collector.FlushInterval,
		CountThreshold: cfg.Logger.Collector.CountThreshold,
		Topic:          cfg.Logger.Collector.Topic,
		Publisher:      producer,
	})
	l.AttachCollector(c)
	return c
}

func ProvideStockUsecase(cfg *config.Config, provider repository.QuoteProvider, c cache.Service, mock *mockdata.Generator, pm repository.ProviderMetrics, l *applogger.Logger) *usecase.StockUsecase {
	return usecase.NewStockUsecase(provider, c, mock, cfg.Cache.TTL, pm, l)
}

func ProvideForecastUsecase(
	engine domsvc.Forecaster,
	calc domsvc.IndicatorCalculator,
	stocks *usecase.StockUsecase,
	store repository.ForecastStore,
	publisher repository.ForecastPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.ForecastUsecase {
	return usecase.NewForecastUsecase(engine, calc, stocks, store, publisher, m, l)
}

func ProvideSearchUsecase(provider repository.QuoteProvider, pm repository.ProviderMetrics, l *applogger.Logger) *usecase.SearchUsecase {
	return usecase.NewSearchUsecase(provider, pm, l)
}

func ProvideMarketUsecase(provider repository.QuoteProvider, mock *mockdata.Generator, pm repository.ProviderMetrics, l *applogger.Logger) *usecase.MarketUsecase {
	return usecase.NewMarketUsecase(provider, mock, pm, l)
}

func ProvideNewsUsecase(provider repository.QuoteProvider, l *applogger.Logger) *usecase.NewsUsecase {
	return usecase.NewNewsUsecase(provider, l)
}

// ProvideQueue builds the refresh job queue. It returns nil when the scheduler is disabled.
func ProvideQueue(cfg *config.Config, rc *cache.RedisCache, c cache.Service, forecasts *usecase.ForecastUsecase, l *applogger.Logger) *queue.RedisQueue {
	if !cfg.Scheduler.Enabled || rc == nil {
		return nil
	}
	q := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}, rc.Client(), queue.WithKeyPrefix(cfg.Queue.KeyPrefix))
	q.RegisterJobs(usecase.NewRefreshJob(forecasts, c, l))
	return q
}

// ProvideScheduler returns nil when the scheduler is disabled.
func ProvideScheduler(cfg *config.Config, q *queue.RedisQueue, l *applogger.Logger) (*scheduler.Scheduler, error) {
	if q == nil {
		return nil, nil
	}
	s, err := scheduler.New(cfg.Scheduler.Spec, cfg.Scheduler.Watchlist, q, l)
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	return s, nil
}

// ProvideHTTPHandlers collects every route group.
func ProvideHTTPHandlers(
	cfg *config.Config,
	stocks *usecase.StockUsecase,
	search *usecase.SearchUsecase,
	forecasts *usecase.ForecastUsecase,
	market *usecase.MarketUsecase,
	news *usecase.NewsUsecase,
	rc *cache.RedisCache,
	ch *pkgch.Client,
	q *queue.RedisQueue,
	l *applogger.Logger,
) xhttp.Handlers {
	checks := map[string]api.Check{}
	if rc != nil {
		checks["redis"] = func(ctx context.Context) error { return rc.Client().Ping(ctx).Err() }
	}
	if ch != nil {
		checks["clickhouse"] = ch.Health
	}
	var stats api.QueueStats
	if q != nil {
		stats = q
	}

	stream := api.NewStreamHandler(stocks, cfg.Stream.Interval, l)
	return xhttp.Handlers{
		api.NewHealthHandler(checks, stats),
		api.NewStockHandler(stocks, search, forecasts, stream, l),
		api.NewMarketHandler(market, news, l),
	}
}

// ProvideRateLimiter returns nil when per-client limiting is disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

// ProvideHTTPServer creates the Echo server with the configured middleware.
func ProvideHTTPServer(cfg *config.Config, handlers xhttp.Handlers, rl *ratelimit.Limiter, l *applogger.Logger) *xhttp.Server {
	var mw []echo.MiddlewareFunc
	if rl != nil {
		mw = append(mw, middleware.RateLimit(rl))
	}
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(l, handlers,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithSlowRequest(cfg.Server.SlowRequest),
		xhttp.WithMiddleware(mw...),
	)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	q *queue.RedisQueue,
	sched *scheduler.Scheduler,
	collector *applogger.Collector,
	rl *ratelimit.Limiter,
) *server.App {
	var sweeper server.Sweeper
	if rl != nil {
		sweeper = rl
	}
	return server.New(cfg, l, srv, q, sched, collector, sweeper)
}
