package forecast

import (
	"sync/atomic"
	"time"
)

// Option configures Engine.
type Option func(*Config)

// Config holds engine configuration.
type Config struct {
	Simulations int
	Workers     int
	// Seeder returns the Monte Carlo seed for one forecast.
	Seeder func() int64
	Now    func() time.Time
}

func defaultConfig() *Config {
	var calls atomic.Int64
	return &Config{
		Simulations: DefaultSimulations,
		Workers:     1,
		Seeder: func() int64 {
			return time.Now().UnixNano() + calls.Add(1)
		},
		Now: time.Now,
	}
}

// WithSimulations sets paths per forecast day.
func WithSimulations(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Simulations = n
		}
	}
}

// WithWorkers sets how many goroutines share the Monte Carlo paths.
func WithWorkers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Workers = n
		}
	}
}

// WithSeed fixes the Monte Carlo seed, making forecasts reproducible.
func WithSeed(seed int64) Option {
	return func(c *Config) {
		c.Seeder = func() int64 { return seed }
	}
}

// WithSeeder installs a custom seed source.
func WithSeeder(fn func() int64) Option {
	return func(c *Config) {
		if fn != nil {
			c.Seeder = fn
		}
	}
}

// WithClock overrides the time source used for prediction dates.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		if now != nil {
			c.Now = now
		}
	}
}
