package clickhouse

import (
	"context"
	"testing"
	"time"

	ch "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/stretchr/testify/assert"
)

func TestBuildOptions(t *testing.T) {
	cfg := ClientConfig{
		Host:         "ch.internal",
		Port:         9440,
		Database:     "stockcast",
		User:         "writer",
		Password:     "secret",
		DialTimeout:  time.Second,
		MaxExecTime:  30 * time.Second,
		AsyncInsert:  true,
		WaitForAsync: true,
	}

	opts := buildOptions(cfg)
	assert.Equal(t, []string{"ch.internal:9440"}, opts.Addr)
	assert.Equal(t, "stockcast", opts.Auth.Database)
	assert.Equal(t, "writer", opts.Auth.Username)
	assert.Equal(t, ch.Native, opts.Protocol)
	assert.Equal(t, 30, opts.Settings["max_execution_time"])
	assert.Equal(t, 1, opts.Settings["async_insert"])
	assert.Equal(t, 1, opts.Settings["wait_for_async_insert"])

	cfg.UseHTTP = true
	cfg.AsyncInsert = false
	opts = buildOptions(cfg)
	assert.Equal(t, ch.HTTP, opts.Protocol)
	_, ok := opts.Settings["async_insert"]
	assert.False(t, ok)
}

func TestNewClient_RequiresHost(t *testing.T) {
	_, err := NewClient(context.Background())
	assert.Error(t, err)
}
