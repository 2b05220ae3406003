package di

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalrepo "StockCast/internal/repository"
	"StockCast/pkg/cache"
	"StockCast/pkg/config"
	applogger "StockCast/pkg/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte("provider:\n  api_key: test\n"))
	require.NoError(t, err)
	return cfg
}

func TestDisabledInfrastructureIsNil(t *testing.T) {
	cfg := testConfig(t)

	rc, err := ProvideRedisCache(cfg)
	require.NoError(t, err)
	assert.Nil(t, rc)

	ch, cleanup, err := ProvideClickHouseClient(cfg)
	require.NoError(t, err)
	assert.Nil(t, ch)
	cleanup()

	producer, cleanup, err := ProvideKafkaProducer(cfg)
	require.NoError(t, err)
	assert.Nil(t, producer)
	cleanup()

	assert.Nil(t, ProvideForecastPublisher(cfg, producer))
	assert.Nil(t, ProvideLogCollector(cfg, applogger.Nop(), producer))
	assert.Nil(t, ProvideQueue(cfg, nil, nil, nil, applogger.Nop()))

	sched, err := ProvideScheduler(cfg, nil, applogger.Nop())
	require.NoError(t, err)
	assert.Nil(t, sched)
}

func TestFallbackStores(t *testing.T) {
	cfg := testConfig(t)

	store := ProvideForecastStore(nil, applogger.Nop())
	assert.IsType(t, &internalrepo.MemoryForecastStore{}, store)

	svc, cleanup := ProvideCache(cfg, nil)
	defer cleanup()
	assert.IsType(t, &cache.MemoryCache{}, svc)

	require.NoError(t, svc.Set(context.Background(), "k", "v", 0))
	var got string
	require.NoError(t, svc.Get(context.Background(), "k", &got))
	assert.Equal(t, "v", got)
}

func TestRateLimiterToggle(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.Enabled = false
	assert.Nil(t, ProvideRateLimiter(cfg))

	cfg.RateLimit.Enabled = true
	rl := ProvideRateLimiter(cfg)
	require.NotNil(t, rl)
	assert.True(t, rl.Allow("127.0.0.1"))
}
