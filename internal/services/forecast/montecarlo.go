package forecast

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"StockCast/internal/services/indicators"
)

// DefaultSimulations is the number of paths simulated per forecast day.
const DefaultSimulations = 1000

// MonteCarlo simulates sims price paths per day for days 1..days and returns, per day,
// the element at index sims/2 of the sorted terminal prices (the upper median).
func MonteCarlo(rng *rand.Rand, currentPrice, volatility float64, days, sims int) []float64 {
	out := make([]float64, days)
	terminal := make([]float64, sims)
	step := dailyScale(volatility)
	for day := 1; day <= days; day++ {
		simulatePaths(rng, terminal, currentPrice, step, day)
		out[day-1] = upperMedian(terminal)
	}
	return out
}

// monteCarloParallel splits each day's paths across workers. Every worker owns a random
// stream derived from seed, day and worker index, so output depends only on the inputs.
func monteCarloParallel(seed int64, currentPrice, volatility float64, days, sims, workers int) []float64 {
	if workers <= 1 {
		return MonteCarlo(rand.New(rand.NewSource(seed)), currentPrice, volatility, days, sims)
	}
	out := make([]float64, days)
	terminal := make([]float64, sims)
	step := dailyScale(volatility)
	chunk := (sims + workers - 1) / workers

	for day := 1; day <= days; day++ {
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			lo := w * chunk
			hi := min(lo+chunk, sims)
			if lo >= hi {
				break
			}
			wg.Add(1)
			go func(w, lo, hi int) {
				defer wg.Done()
				rng := rand.New(rand.NewSource(streamSeed(seed, day, w)))
				simulatePaths(rng, terminal[lo:hi], currentPrice, step, day)
			}(w, lo, hi)
		}
		wg.Wait()
		out[day-1] = upperMedian(terminal)
	}
	return out
}

func simulatePaths(rng *rand.Rand, dst []float64, currentPrice, step float64, steps int) {
	for i := range dst {
		price := currentPrice
		for s := 0; s < steps; s++ {
			shock := rng.Float64()*2 - 1
			price *= 1 + shock*step
			if price < 0 {
				price = 0
			}
		}
		dst[i] = price
	}
}

func dailyScale(volatility float64) float64 {
	return volatility / math.Sqrt(indicators.TradingDaysPerYear)
}

// upperMedian sorts xs in place.
func upperMedian(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sort.Float64s(xs)
	return xs[len(xs)/2]
}

func streamSeed(seed int64, day, worker int) int64 {
	return seed + int64(day)*1_000_003 + int64(worker)*7_919
}
